package model

import (
	"errors"
	"time"
)

// PhotoSlotCount is the number of fixed photo positions on a listing.
const PhotoSlotCount = 5

var (
	ErrPhotoSlotsFull = errors.New("all photo slots are occupied")
	ErrBuyerRequired  = errors.New("completed deal requires a buyer")
)

type Product struct {
	ID          uint   `gorm:"primarykey" json:"id"`                      // 상품 번호
	MemberID    uint   `gorm:"not null;index" json:"member_id"`           // 판매자
	Title       string `gorm:"not null" json:"title"`                     // 제목
	Content     string `gorm:"type:text" json:"content"`                  // 내용
	Price       int    `gorm:"not null;default:0" json:"price"`           // 가격
	Category    string `gorm:"type:varchar(50)" json:"category"`          // 카테고리
	DealAddress string `gorm:"type:varchar(255);index" json:"deal_address"` // 거래 지역 (검색 type 필터)

	PhotoURL1  *string `json:"photo_url1"`
	PhotoName1 *string `json:"photo_name1"`
	PhotoURL2  *string `json:"photo_url2"`
	PhotoName2 *string `json:"photo_name2"`
	PhotoURL3  *string `json:"photo_url3"`
	PhotoName3 *string `json:"photo_name3"`
	PhotoURL4  *string `json:"photo_url4"`
	PhotoName4 *string `json:"photo_name4"`
	PhotoURL5  *string `json:"photo_url5"`
	PhotoName5 *string `json:"photo_name5"`

	Status         bool  `gorm:"not null;default:false;index" json:"status"` // false: 거래중, true: 거래완료
	BoughtMemberID *uint `gorm:"index" json:"bought_member_id"`             // 구매자 (거래완료일 때만)
	LikeCount      int   `gorm:"not null;default:0;index" json:"like_count"`
	ClickCount     int   `gorm:"not null;default:0" json:"click_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Member *Member `gorm:"foreignKey:MemberID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"member,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// Photo is one filled slot.
type Photo struct {
	Slot int    `json:"slot"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// ProductEdit carries the editable fields; nil leaves a field unchanged.
type ProductEdit struct {
	Title    *string
	Content  *string
	Price    *int
	Category *string
}

func (p *Product) slots() [PhotoSlotCount][2]**string {
	return [PhotoSlotCount][2]**string{
		{&p.PhotoURL1, &p.PhotoName1},
		{&p.PhotoURL2, &p.PhotoName2},
		{&p.PhotoURL3, &p.PhotoName3},
		{&p.PhotoURL4, &p.PhotoName4},
		{&p.PhotoURL5, &p.PhotoName5},
	}
}

// NextPhotoSlot returns the first empty slot (1-based) or ErrPhotoSlotsFull.
func (p *Product) NextPhotoSlot() (int, error) {
	for i, slot := range p.slots() {
		if *slot[0] == nil {
			return i + 1, nil
		}
	}
	return 0, ErrPhotoSlotsFull
}

// AttachPhoto fills the first empty slot and returns its number.
func (p *Product) AttachPhoto(url, name string) (int, error) {
	n, err := p.NextPhotoSlot()
	if err != nil {
		return 0, err
	}
	slot := p.slots()[n-1]
	*slot[0] = &url
	*slot[1] = &name
	return n, nil
}

// Photos lists the filled slots in order.
func (p *Product) Photos() []Photo {
	photos := make([]Photo, 0, PhotoSlotCount)
	for i, slot := range p.slots() {
		if *slot[0] == nil {
			break
		}
		photo := Photo{Slot: i + 1, URL: **slot[0]}
		if *slot[1] != nil {
			photo.Name = **slot[1]
		}
		photos = append(photos, photo)
	}
	return photos
}

// SetDealStatus moves the listing between ongoing and completed.
// A completed deal always carries its buyer; reopening clears it.
func (p *Product) SetDealStatus(done bool, buyerID *uint) error {
	if !done {
		p.Status = false
		p.BoughtMemberID = nil
		return nil
	}
	if buyerID == nil || *buyerID == 0 {
		return ErrBuyerRequired
	}
	buyer := *buyerID
	p.Status = true
	p.BoughtMemberID = &buyer
	return nil
}

// ApplyEdit updates title, content, price and category only.
func (p *Product) ApplyEdit(edit ProductEdit) *Product {
	if edit.Title != nil {
		p.Title = *edit.Title
	}
	if edit.Content != nil {
		p.Content = *edit.Content
	}
	if edit.Price != nil {
		p.Price = *edit.Price
	}
	if edit.Category != nil {
		p.Category = *edit.Category
	}
	return p
}

// RecordView counts one detail view.
func (p *Product) RecordView() *Product {
	p.ClickCount++
	return p
}

// AdjustLikeCount applies delta, clamping at floor when one is set.
func (p *Product) AdjustLikeCount(delta int, floor *int) *Product {
	p.LikeCount += delta
	if floor != nil && p.LikeCount < *floor {
		p.LikeCount = *floor
	}
	return p
}

func (p *Product) IsDone() bool {
	return p.Status
}
