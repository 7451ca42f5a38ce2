package service

import (
	"errors"

	"github.com/sohwakmo/cucumbermarket-backend/internal/app/model"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/repository"
	"github.com/sohwakmo/cucumbermarket-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAlreadyInterested  = errors.New("product already in wishlist")
	ErrInterestedNotFound = errors.New("product not in wishlist")
)

// WishlistService keeps the wishlist rows and the product like counts in step.
type WishlistService interface {
	AddInterested(memberID, productID uint) (*model.ProductOfInterested, error)
	RemoveInterested(memberID, productID uint) error
	CheckInterested(memberID, productID uint) (bool, error)
	ListInterestedProducts(memberID uint) ([]model.Product, error)
}

type wishlistService struct {
	db             *gorm.DB
	interestedRepo repository.InterestedRepository
	productRepo    repository.ProductRepository
	memberRepo     repository.MemberRepository
	likeCountFloor *int
}

func NewWishlistService(
	db *gorm.DB,
	interestedRepo repository.InterestedRepository,
	productRepo repository.ProductRepository,
	memberRepo repository.MemberRepository,
	likeCountFloor *int,
) WishlistService {
	return &wishlistService{
		db:             db,
		interestedRepo: interestedRepo,
		productRepo:    productRepo,
		memberRepo:     memberRepo,
		likeCountFloor: likeCountFloor,
	}
}

func (s *wishlistService) AddInterested(memberID, productID uint) (*model.ProductOfInterested, error) {
	logger.Info("Adding product to wishlist", map[string]interface{}{
		"member_id":  memberID,
		"product_id": productID,
	})

	row := &model.ProductOfInterested{MemberID: memberID, ProductID: productID}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		interestedRepo := s.interestedRepo.WithTx(tx)

		if _, err := productRepo.FindByID(productID); err != nil {
			return productLookupError(err, productID)
		}
		if _, err := s.memberRepo.WithTx(tx).FindByID(memberID); err != nil {
			return memberLookupError(err, memberID)
		}

		_, err := interestedRepo.FindByMemberAndProduct(memberID, productID)
		if err == nil {
			return ErrAlreadyInterested
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := interestedRepo.Create(row); err != nil {
			return err
		}
		return productRepo.AdjustLikeCount(productID, 1, s.likeCountFloor)
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyInterested) {
			logger.Warn("Product already in wishlist", map[string]interface{}{
				"member_id":  memberID,
				"product_id": productID,
			})
		}
		return nil, err
	}

	logger.Info("Product added to wishlist", map[string]interface{}{
		"interested_id": row.ID,
	})
	return row, nil
}

func (s *wishlistService) RemoveInterested(memberID, productID uint) error {
	logger.Info("Removing product from wishlist", map[string]interface{}{
		"member_id":  memberID,
		"product_id": productID,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		interestedRepo := s.interestedRepo.WithTx(tx)

		if _, err := interestedRepo.FindByMemberAndProduct(memberID, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInterestedNotFound
			}
			return err
		}

		// 좋아요 수를 먼저 줄인 뒤 행을 삭제
		if err := s.productRepo.WithTx(tx).AdjustLikeCount(productID, -1, s.likeCountFloor); err != nil {
			return productLookupError(err, productID)
		}
		return interestedRepo.DeleteByMemberAndProduct(memberID, productID)
	})
	if err != nil {
		if errors.Is(err, ErrInterestedNotFound) {
			logger.Warn("Wishlist entry not found", map[string]interface{}{
				"member_id":  memberID,
				"product_id": productID,
			})
		}
		return err
	}

	logger.Info("Product removed from wishlist", map[string]interface{}{
		"member_id":  memberID,
		"product_id": productID,
	})
	return nil
}

func (s *wishlistService) CheckInterested(memberID, productID uint) (bool, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		return false, productLookupError(err, productID)
	}

	_, err := s.interestedRepo.FindByMemberAndProduct(memberID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *wishlistService) ListInterestedProducts(memberID uint) ([]model.Product, error) {
	rows, err := s.interestedRepo.FindByMemberID(memberID)
	if err != nil {
		logger.Error("Failed to list interested products", err, map[string]interface{}{
			"member_id": memberID,
		})
		return nil, err
	}

	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.Product)
	}
	return products, nil
}
