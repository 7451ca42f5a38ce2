package repository

import (
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/model"
	"github.com/sohwakmo/cucumbermarket-backend/pkg/logger"
	"gorm.io/gorm"
)

type MemberRepository interface {
	WithTx(tx *gorm.DB) MemberRepository
	Create(member *model.Member) error
	FindByID(id uint) (*model.Member, error)
	AdjustGrade(id uint, delta float64, floor *float64) error
	UpdateProfileImage(id uint, url, name string) error
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) WithTx(tx *gorm.DB) MemberRepository {
	return &memberRepository{db: tx}
}

func (r *memberRepository) Create(member *model.Member) error {
	logger.Debug("Creating member in database", map[string]interface{}{
		"nickname": member.Nickname,
	})

	if member.Grade == 0 {
		member.Grade = model.DefaultGrade
	}

	if err := r.db.Create(member).Error; err != nil {
		logger.Error("Failed to create member in database", err, map[string]interface{}{
			"nickname": member.Nickname,
		})
		return err
	}

	logger.Debug("Member created in database", map[string]interface{}{
		"member_id": member.ID,
	})
	return nil
}

func (r *memberRepository) FindByID(id uint) (*model.Member, error) {
	logger.Debug("Finding member by ID in database", map[string]interface{}{
		"member_id": id,
	})

	var member model.Member
	if err := r.db.First(&member, id).Error; err != nil {
		logger.Error("Failed to find member by ID in database", err, map[string]interface{}{
			"member_id": id,
		})
		return nil, err
	}
	return &member, nil
}

// AdjustGrade adds delta to the manner temperature; a non-nil floor clamps the result.
func (r *memberRepository) AdjustGrade(id uint, delta float64, floor *float64) error {
	logger.Debug("Adjusting member grade in database", map[string]interface{}{
		"member_id": id,
		"delta":     delta,
		"floor":     floor,
	})

	expr := gorm.Expr("grade + ?", delta)
	if floor != nil {
		expr = gorm.Expr("CASE WHEN grade + ? < ? THEN ? ELSE grade + ? END", delta, *floor, *floor, delta)
	}

	result := r.db.Model(&model.Member{}).Where("id = ?", id).UpdateColumn("grade", expr)
	if result.Error != nil {
		logger.Error("Failed to adjust member grade in database", result.Error, map[string]interface{}{
			"member_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *memberRepository) UpdateProfileImage(id uint, url, name string) error {
	logger.Debug("Updating member profile image in database", map[string]interface{}{
		"member_id": id,
		"url":       url,
	})

	result := r.db.Model(&model.Member{}).Where("id = ?", id).Updates(map[string]interface{}{
		"profile_image_url":  url,
		"profile_image_name": name,
	})
	if result.Error != nil {
		logger.Error("Failed to update member profile image in database", result.Error, map[string]interface{}{
			"member_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
