package model

import (
	"time"
)

// ProductOfInterested records that a member marked a product as interested (찜).
// (member_id, product_id) is unique.
type ProductOfInterested struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MemberID  uint      `gorm:"not null;index;uniqueIndex:idx_interested_member_product,priority:1" json:"member_id"`
	ProductID uint      `gorm:"not null;index;uniqueIndex:idx_interested_member_product,priority:2" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

func (ProductOfInterested) TableName() string {
	return "products_of_interested"
}
