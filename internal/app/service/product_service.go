package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sohwakmo/cucumbermarket-backend/internal/app/model"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/repository"
	"github.com/sohwakmo/cucumbermarket-backend/internal/event"
	"github.com/sohwakmo/cucumbermarket-backend/internal/storage"
	"github.com/sohwakmo/cucumbermarket-backend/pkg/logger"
	"github.com/sohwakmo/cucumbermarket-backend/pkg/pagination"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrMemberNotFound  = errors.New("member not found")
	ErrPhotoRequired   = errors.New("at least one photo is required")
	ErrTooManyPhotos   = fmt.Errorf("at most %d photos are allowed", model.PhotoSlotCount)
)

// SearchTypeAll disables the deal address filter.
const SearchTypeAll = "all"

// DefaultDeletePenalty is subtracted from the seller's grade when a listing is deleted.
const DefaultDeletePenalty = 2.5

// PhotoUpload is one uploaded image.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// CatalogPolicy holds the listing rules that come from configuration.
type CatalogPolicy struct {
	DeletePenalty  float64
	GradeFloor     *float64 // nil: grade may go negative
	LikeCountFloor *int     // nil: like count is not clamped
}

func DefaultCatalogPolicy() CatalogPolicy {
	return CatalogPolicy{DeletePenalty: DefaultDeletePenalty}
}

type ProductService interface {
	List(page pagination.PageRequest) (pagination.Page[model.Product], error)
	ListByPopularity() ([]model.Product, error)
	GetByID(id uint) (*model.Product, error)
	ViewDetail(id uint) (*model.Product, error)
	DealStatus(id uint) (bool, error)
	Search(searchType, keyword string, page pagination.PageRequest) (pagination.Page[model.Product], error)
	CreateListing(ctx context.Context, product *model.Product, photos []PhotoUpload) error
	Create(ctx context.Context, product *model.Product, photo PhotoUpload) (int, error)
	AttachPhoto(ctx context.Context, id uint, photo PhotoUpload) (*model.Product, error)
	Update(id uint, edit model.ProductEdit) (uint, error)
	Delete(ctx context.Context, id uint) (uint, error)
	MarkInProgress(id uint) error
	MarkDone(ctx context.Context, id uint, buyerID uint) error
	ListOngoingSales(memberID uint) ([]model.Product, error)
	ListCompletedSales(memberID uint) ([]model.Product, error)
	ListPurchases(memberID uint) ([]model.Product, error)
	ListByMember(memberID uint) ([]model.Product, error)
	ReconcileLikeCounts() (int64, error)
}

type productService struct {
	db             *gorm.DB
	productRepo    repository.ProductRepository
	memberRepo     repository.MemberRepository
	interestedRepo repository.InterestedRepository
	store          storage.Storage
	publisher      event.Publisher
	policy         CatalogPolicy
}

func NewProductService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	memberRepo repository.MemberRepository,
	interestedRepo repository.InterestedRepository,
	store storage.Storage,
	publisher event.Publisher,
	policy CatalogPolicy,
) ProductService {
	if publisher == nil {
		publisher = event.NoopPublisher{}
	}
	return &productService{
		db:             db,
		productRepo:    productRepo,
		memberRepo:     memberRepo,
		interestedRepo: interestedRepo,
		store:          store,
		publisher:      publisher,
		policy:         policy,
	}
}

func (s *productService) List(page pagination.PageRequest) (pagination.Page[model.Product], error) {
	logger.Debug("Listing ongoing products", map[string]interface{}{
		"page": page.Page,
		"size": page.Size,
	})

	result, err := s.productRepo.FindByStatus(false, page)
	if err != nil {
		logger.Error("Failed to list products", err)
		return pagination.Page[model.Product]{}, err
	}
	return result, nil
}

func (s *productService) ListByPopularity() ([]model.Product, error) {
	products, err := s.productRepo.FindAllByPopularity()
	if err != nil {
		logger.Error("Failed to list products by popularity", err)
		return nil, err
	}
	return products, nil
}

func (s *productService) GetByID(id uint) (*model.Product, error) {
	logger.Debug("Fetching product by ID", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, productLookupError(err, id)
	}
	return product, nil
}

// ViewDetail counts one view and returns the product as stored after the increment.
func (s *productService) ViewDetail(id uint) (*model.Product, error) {
	var product *model.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)
		if err := repo.IncrementClickCount(id); err != nil {
			return err
		}
		found, err := repo.FindByID(id)
		if err != nil {
			return err
		}
		product = found
		return nil
	})
	if err != nil {
		return nil, productLookupError(err, id)
	}

	logger.Debug("Product viewed", map[string]interface{}{
		"product_id":  id,
		"click_count": product.ClickCount,
	})
	return product, nil
}

// DealStatus reports whether the deal is completed without counting a view.
func (s *productService) DealStatus(id uint) (bool, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return false, err
	}
	return product.IsDone(), nil
}

func (s *productService) Search(searchType, keyword string, page pagination.PageRequest) (pagination.Page[model.Product], error) {
	search := repository.ProductSearch{
		Status:  false,
		Keyword: keyword,
	}
	if searchType != "" && searchType != SearchTypeAll {
		search.DealAddress = searchType
	}

	logger.Debug("Searching products", map[string]interface{}{
		"type":    searchType,
		"keyword": keyword,
		"page":    page.Page,
	})

	result, err := s.productRepo.Search(search, page)
	if err != nil {
		logger.Error("Failed to search products", err, map[string]interface{}{
			"type":    searchType,
			"keyword": keyword,
		})
		return pagination.Page[model.Product]{}, err
	}
	return result, nil
}

// CreateListing stores every photo, fills the slots in order and inserts the product.
func (s *productService) CreateListing(ctx context.Context, product *model.Product, photos []PhotoUpload) error {
	if len(photos) == 0 {
		return ErrPhotoRequired
	}
	if len(photos) > model.PhotoSlotCount {
		return ErrTooManyPhotos
	}

	if _, err := s.memberRepo.FindByID(product.MemberID); err != nil {
		return memberLookupError(err, product.MemberID)
	}

	logger.Info("Creating new listing", map[string]interface{}{
		"member_id":   product.MemberID,
		"title":       product.Title,
		"photo_count": len(photos),
	})

	for _, photo := range photos {
		url, err := s.storePhoto(ctx, photo)
		if err != nil {
			return err
		}
		if _, err := product.AttachPhoto(url, photo.Filename); err != nil {
			return err
		}
	}

	product.ID = 0
	product.LikeCount = 0
	product.ClickCount = 0
	if err := product.SetDealStatus(false, nil); err != nil {
		return err
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create listing", err, map[string]interface{}{
			"member_id": product.MemberID,
		})
		return err
	}

	logger.Info("Listing created successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	s.publish(ctx, event.NewCatalogEvent(event.TypeProductListed, product.ID, product.MemberID))
	return nil
}

// Create stores photo, attaches it to the first empty slot and persists product.
// It returns the slot number that received the photo.
func (s *productService) Create(ctx context.Context, product *model.Product, photo PhotoUpload) (int, error) {
	if product.ID != 0 {
		updated, err := s.AttachPhoto(ctx, product.ID, photo)
		if err != nil {
			return 0, err
		}
		*product = *updated
		return len(updated.Photos()), nil
	}

	if _, err := product.NextPhotoSlot(); err != nil {
		return 0, err
	}

	url, err := s.storePhoto(ctx, photo)
	if err != nil {
		return 0, err
	}

	slot, err := product.AttachPhoto(url, photo.Filename)
	if err != nil {
		return 0, err
	}

	if err := s.productRepo.Save(product); err != nil {
		logger.Error("Failed to save product", err, map[string]interface{}{
			"member_id": product.MemberID,
		})
		return 0, err
	}

	logger.Info("Product created with photo", map[string]interface{}{
		"product_id": product.ID,
		"slot":       slot,
	})
	return slot, nil
}

func (s *productService) AttachPhoto(ctx context.Context, id uint, photo PhotoUpload) (*model.Product, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, err := existing.NextPhotoSlot(); err != nil {
		logger.Warn("Photo slots full", map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	url, err := s.storePhoto(ctx, photo)
	if err != nil {
		return nil, err
	}

	var product *model.Product
	var slot int
	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)
		locked, err := repo.FindByIDForUpdate(id)
		if err != nil {
			return err
		}
		if slot, err = locked.AttachPhoto(url, photo.Filename); err != nil {
			return err
		}
		if err := repo.Save(locked); err != nil {
			return err
		}
		product = locked
		return nil
	})
	if err != nil {
		return nil, productLookupError(err, id)
	}

	logger.Info("Photo attached to product", map[string]interface{}{
		"product_id": id,
		"slot":       slot,
	})
	return product, nil
}

func (s *productService) Update(id uint, edit model.ProductEdit) (uint, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)
		product, err := repo.FindByID(id)
		if err != nil {
			return err
		}
		return repo.UpdateContent(product.ApplyEdit(edit))
	})
	if err != nil {
		return 0, productLookupError(err, id)
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": id,
	})
	return id, nil
}

// Delete penalises the seller, removes the wishlist rows and then the product, all in one transaction.
func (s *productService) Delete(ctx context.Context, id uint) (uint, error) {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	var memberID uint
	var removedInterests int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)

		product, err := productRepo.FindByID(id)
		if err != nil {
			return productLookupError(err, id)
		}
		memberID = product.MemberID

		if err := s.memberRepo.WithTx(tx).AdjustGrade(memberID, -s.policy.DeletePenalty, s.policy.GradeFloor); err != nil {
			return memberLookupError(err, memberID)
		}

		if removedInterests, err = s.interestedRepo.WithTx(tx).DeleteByProductID(id); err != nil {
			return err
		}

		return productRepo.Delete(id)
	})
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) && !errors.Is(err, ErrMemberNotFound) {
			logger.Error("Failed to delete product", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return 0, err
	}

	logger.Info("Product deleted successfully", map[string]interface{}{
		"product_id":        id,
		"member_id":         memberID,
		"removed_interests": removedInterests,
		"grade_penalty":     s.policy.DeletePenalty,
	})
	s.publish(ctx, event.NewCatalogEvent(event.TypeProductDeleted, id, memberID))
	return id, nil
}

func (s *productService) MarkInProgress(id uint) error {
	_, err := s.setDealStatus(id, false, nil)
	return err
}

func (s *productService) MarkDone(ctx context.Context, id uint, buyerID uint) error {
	product, err := s.setDealStatus(id, true, &buyerID)
	if err != nil {
		return err
	}

	evt := event.NewCatalogEvent(event.TypeProductDealCompleted, id, product.MemberID)
	evt.BuyerMemberID = product.BoughtMemberID
	s.publish(ctx, evt)
	return nil
}

func (s *productService) setDealStatus(id uint, done bool, buyerID *uint) (*model.Product, error) {
	logger.Info("Changing deal status", map[string]interface{}{
		"product_id": id,
		"done":       done,
		"buyer_id":   buyerID,
	})

	var product *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)
		found, err := repo.FindByID(id)
		if err != nil {
			return err
		}
		if err := found.SetDealStatus(done, buyerID); err != nil {
			return err
		}
		product = found
		return repo.UpdateDealStatus(found)
	})
	if err != nil {
		if errors.Is(err, model.ErrBuyerRequired) {
			return nil, err
		}
		return nil, productLookupError(err, id)
	}
	return product, nil
}

func (s *productService) ListOngoingSales(memberID uint) ([]model.Product, error) {
	if err := s.requireMember(memberID); err != nil {
		return nil, err
	}
	return s.productRepo.FindByMemberAndStatus(memberID, false)
}

func (s *productService) ListCompletedSales(memberID uint) ([]model.Product, error) {
	if err := s.requireMember(memberID); err != nil {
		return nil, err
	}
	return s.productRepo.FindByMemberAndStatus(memberID, true)
}

func (s *productService) ListPurchases(memberID uint) ([]model.Product, error) {
	return s.productRepo.FindByBoughtMemberID(memberID)
}

// ListByMember 구매 내역과 달리 판매자 본인이 존재해야 함
func (s *productService) ListByMember(memberID uint) ([]model.Product, error) {
	if err := s.requireMember(memberID); err != nil {
		return nil, err
	}
	return s.productRepo.FindByMemberID(memberID)
}

func (s *productService) reconcileLikeCount(id uint) (bool, error) {
	fixed := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)
		product, err := repo.FindByIDForUpdate(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 조회 이후 삭제된 상품
				return nil
			}
			return err
		}

		count, err := s.interestedRepo.WithTx(tx).CountByProductID(id)
		if err != nil {
			return err
		}
		if int64(product.LikeCount) == count {
			return nil
		}
		fixed = true
		return repo.SetLikeCount(id, count)
	})
	return fixed, err
}

func (s *productService) requireMember(memberID uint) error {
	if _, err := s.memberRepo.FindByID(memberID); err != nil {
		return memberLookupError(err, memberID)
	}
	return nil
}

// ReconcileLikeCounts repairs like counts that drifted from the wishlist table.
// Each product is recounted under its own row lock.
func (s *productService) ReconcileLikeCounts() (int64, error) {
	ids, err := s.productRepo.FindAllIDs()
	if err != nil {
		logger.Error("Failed to reconcile like counts", err)
		return 0, err
	}

	var repaired int64
	for _, id := range ids {
		fixed, err := s.reconcileLikeCount(id)
		if err != nil {
			logger.Error("Failed to reconcile like counts", err, map[string]interface{}{
				"product_id": id,
			})
			return repaired, err
		}
		if fixed {
			repaired++
		}
	}
	if repaired > 0 {
		logger.Warn("Like counts repaired", map[string]interface{}{
			"repaired": repaired,
		})
	}
	return repaired, nil
}

func (s *productService) storePhoto(ctx context.Context, photo PhotoUpload) (string, error) {
	url, err := s.store.Save(ctx, storage.FolderProduct, photo.Filename, photo.Content, photo.ContentType)
	if err != nil {
		logger.Error("Failed to store product photo", err, map[string]interface{}{
			"filename": photo.Filename,
		})
		return "", err
	}
	return url, nil
}

// 이벤트 발행 실패는 요청을 실패시키지 않는다
func (s *productService) publish(ctx context.Context, evt event.CatalogEvent) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.Warn("Failed to publish catalog event", map[string]interface{}{
			"event_type": evt.EventType,
			"product_id": evt.ProductID,
			"error":      err.Error(),
		})
	}
}

func productLookupError(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Warn("Product not found", map[string]interface{}{
			"product_id": id,
		})
		return ErrProductNotFound
	}
	return err
}

func memberLookupError(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Warn("Member not found", map[string]interface{}{
			"member_id": id,
		})
		return ErrMemberNotFound
	}
	return err
}
