package repository

import (
	"errors"

	"github.com/sohwakmo/cucumbermarket-backend/internal/app/model"
	"github.com/sohwakmo/cucumbermarket-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InterestedRepository interface {
	WithTx(tx *gorm.DB) InterestedRepository
	Create(interested *model.ProductOfInterested) error
	FindByMemberAndProduct(memberID, productID uint) (*model.ProductOfInterested, error)
	FindByMemberID(memberID uint) ([]model.ProductOfInterested, error)
	CountByProductID(productID uint) (int64, error)
	DeleteByMemberAndProduct(memberID, productID uint) error
	DeleteByProductID(productID uint) (int64, error)
}

type interestedRepository struct {
	db *gorm.DB
}

func NewInterestedRepository(db *gorm.DB) InterestedRepository {
	return &interestedRepository{db: db}
}

func (r *interestedRepository) WithTx(tx *gorm.DB) InterestedRepository {
	return &interestedRepository{db: tx}
}

func (r *interestedRepository) Create(interested *model.ProductOfInterested) error {
	logger.Debug("Creating interested product in database", map[string]interface{}{
		"member_id":  interested.MemberID,
		"product_id": interested.ProductID,
	})

	if err := r.db.Omit(clause.Associations).Create(interested).Error; err != nil {
		logger.Error("Failed to create interested product in database", err, map[string]interface{}{
			"member_id":  interested.MemberID,
			"product_id": interested.ProductID,
		})
		return err
	}
	return nil
}

func (r *interestedRepository) FindByMemberAndProduct(memberID, productID uint) (*model.ProductOfInterested, error) {
	logger.Debug("Finding interested product in database", map[string]interface{}{
		"member_id":  memberID,
		"product_id": productID,
	})

	var interested model.ProductOfInterested
	err := r.db.Where("member_id = ? AND product_id = ?", memberID, productID).First(&interested).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find interested product in database", err, map[string]interface{}{
				"member_id":  memberID,
				"product_id": productID,
			})
		}
		return nil, err
	}
	return &interested, nil
}

// FindByMemberID returns the member's wishlist rows with their products, oldest first.
func (r *interestedRepository) FindByMemberID(memberID uint) ([]model.ProductOfInterested, error) {
	logger.Debug("Finding interested products by member in database", map[string]interface{}{
		"member_id": memberID,
	})

	var rows []model.ProductOfInterested
	if err := r.db.Preload("Product").Where("member_id = ?", memberID).Order("id ASC").Find(&rows).Error; err != nil {
		logger.Error("Failed to find interested products in database", err, map[string]interface{}{
			"member_id": memberID,
		})
		return nil, err
	}

	logger.Debug("Interested products found in database", map[string]interface{}{
		"member_id": memberID,
		"count":     len(rows),
	})
	return rows, nil
}

func (r *interestedRepository) CountByProductID(productID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.ProductOfInterested{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		logger.Error("Failed to count interested rows in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return 0, err
	}
	return count, nil
}

func (r *interestedRepository) DeleteByMemberAndProduct(memberID, productID uint) error {
	logger.Debug("Deleting interested product from database", map[string]interface{}{
		"member_id":  memberID,
		"product_id": productID,
	})

	result := r.db.Where("member_id = ? AND product_id = ?", memberID, productID).Delete(&model.ProductOfInterested{})
	if result.Error != nil {
		logger.Error("Failed to delete interested product from database", result.Error, map[string]interface{}{
			"member_id":  memberID,
			"product_id": productID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByProductID removes every wishlist row pointing at the product.
func (r *interestedRepository) DeleteByProductID(productID uint) (int64, error) {
	logger.Debug("Deleting interested rows of product from database", map[string]interface{}{
		"product_id": productID,
	})

	result := r.db.Where("product_id = ?", productID).Delete(&model.ProductOfInterested{})
	if result.Error != nil {
		logger.Error("Failed to delete interested rows of product", result.Error, map[string]interface{}{
			"product_id": productID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
