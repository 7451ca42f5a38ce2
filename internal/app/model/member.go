package model

import (
	"time"
)

// DefaultGrade is the manner temperature a new member starts with.
const DefaultGrade = 36.5

type Member struct {
	ID               uint      `gorm:"primarykey" json:"id"`                  // 회원 번호
	Nickname         string    `gorm:"uniqueIndex;not null" json:"nickname"`  // 닉네임
	Address          string    `json:"address"`                               // 동네
	Grade            float64   `gorm:"not null;default:36.5" json:"grade"`    // 매너온도
	ProfileImageURL  string    `json:"profile_image_url"`                     // 프로필 이미지 경로
	ProfileImageName string    `json:"profile_image_name"`                    // 프로필 이미지 파일명
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// ProfileImage is the mypage view of a member's picture.
type ProfileImage struct {
	MemberID uint   `json:"member_id"`
	URL      string `json:"profile_image_url"`
	Name     string `json:"profile_image_name"`
}

func (m *Member) ProfileImage() ProfileImage {
	return ProfileImage{
		MemberID: m.ID,
		URL:      m.ProfileImageURL,
		Name:     m.ProfileImageName,
	}
}
