package repository

import (
	"strings"

	"github.com/sohwakmo/cucumbermarket-backend/internal/app/model"
	"github.com/sohwakmo/cucumbermarket-backend/pkg/logger"
	"github.com/sohwakmo/cucumbermarket-backend/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductSearch filters listings. Empty Keyword and DealAddress disable their filter.
type ProductSearch struct {
	Status      bool
	Keyword     string // case-insensitive substring of title OR content
	DealAddress string // case-insensitive substring of deal_address
}

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(product *model.Product) error
	Save(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindByIDForUpdate(id uint) (*model.Product, error)
	FindByStatus(status bool, page pagination.PageRequest) (pagination.Page[model.Product], error)
	Search(search ProductSearch, page pagination.PageRequest) (pagination.Page[model.Product], error)
	FindAllByPopularity() ([]model.Product, error)
	FindByMemberAndStatus(memberID uint, status bool) ([]model.Product, error)
	FindByBoughtMemberID(memberID uint) ([]model.Product, error)
	FindByMemberID(memberID uint) ([]model.Product, error)
	IncrementClickCount(id uint) error
	AdjustLikeCount(id uint, delta int, floor *int) error
	UpdateDealStatus(product *model.Product) error
	UpdateContent(product *model.Product) error
	Delete(id uint) error
	FindAllIDs() ([]uint, error)
	SetLikeCount(id uint, count int64) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"member_id": product.MemberID,
		"title":     product.Title,
	})

	if err := r.db.Omit(clause.Associations).Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"member_id": product.MemberID,
			"title":     product.Title,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"member_id":  product.MemberID,
	})
	return nil
}

// Save inserts a new product or overwrites every column of an existing one.
func (r *productRepository) Save(product *model.Product) error {
	if product.ID == 0 {
		return r.Create(product)
	}

	logger.Debug("Saving product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Omit(clause.Associations).Save(product).Error; err != nil {
		logger.Error("Failed to save product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.db.Preload("Member").First(&product, id).Error; err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Debug("Product found by ID in database", map[string]interface{}{
		"product_id": product.ID,
		"title":      product.Title,
	})
	return &product, nil
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *productRepository) FindByIDForUpdate(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error; err != nil {
		logger.Error("Failed to lock product in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByStatus(status bool, page pagination.PageRequest) (pagination.Page[model.Product], error) {
	return r.Search(ProductSearch{Status: status}, page)
}

func (r *productRepository) Search(search ProductSearch, page pagination.PageRequest) (pagination.Page[model.Product], error) {
	logger.Debug("Searching products in database", map[string]interface{}{
		"status":       search.Status,
		"keyword":      search.Keyword,
		"deal_address": search.DealAddress,
		"page":         page.Page,
		"size":         page.Size,
	})

	query := r.db.Model(&model.Product{}).Where("status = ?", search.Status)

	if search.Keyword != "" {
		like := containsPattern(search.Keyword)
		query = query.Where(
			"(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(content) LIKE ? ESCAPE '\\')",
			like, like,
		)
	}

	if search.DealAddress != "" {
		query = query.Where("LOWER(deal_address) LIKE ? ESCAPE '\\'", containsPattern(search.DealAddress))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products in database", err, map[string]interface{}{
			"keyword": search.Keyword,
		})
		return pagination.Page[model.Product]{}, err
	}

	var products []model.Product
	if err := query.Order("id DESC").Limit(page.Size).Offset(page.Offset()).Find(&products).Error; err != nil {
		logger.Error("Failed to search products in database", err, map[string]interface{}{
			"keyword":      search.Keyword,
			"deal_address": search.DealAddress,
		})
		return pagination.Page[model.Product]{}, err
	}

	logger.Debug("Products found in database", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return pagination.NewPage(products, total, page), nil
}

func (r *productRepository) FindAllByPopularity() ([]model.Product, error) {
	logger.Debug("Finding products by popularity in database", nil)

	var products []model.Product
	if err := r.db.Order("like_count DESC").Order("id DESC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products by popularity in database", err, nil)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByMemberAndStatus(memberID uint, status bool) ([]model.Product, error) {
	return r.findWhere("member_id = ? AND status = ?", memberID, status)
}

func (r *productRepository) FindByBoughtMemberID(memberID uint) ([]model.Product, error) {
	return r.findWhere("bought_member_id = ?", memberID)
}

func (r *productRepository) FindByMemberID(memberID uint) ([]model.Product, error) {
	return r.findWhere("member_id = ?", memberID)
}

func (r *productRepository) findWhere(cond string, args ...interface{}) ([]model.Product, error) {
	logger.Debug("Finding products in database", map[string]interface{}{
		"condition": cond,
		"args":      args,
	})

	var products []model.Product
	if err := r.db.Where(cond, args...).Order("id DESC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products in database", err, map[string]interface{}{
			"condition": cond,
		})
		return nil, err
	}

	logger.Debug("Products found in database", map[string]interface{}{
		"condition": cond,
		"count":     len(products),
	})
	return products, nil
}

func (r *productRepository) IncrementClickCount(id uint) error {
	logger.Debug("Incrementing product click count in database", map[string]interface{}{
		"product_id": id,
	})

	return r.updateColumn(id, "click_count", gorm.Expr("click_count + ?", 1))
}

// AdjustLikeCount changes like_count by delta in SQL; a non-nil floor clamps the result.
func (r *productRepository) AdjustLikeCount(id uint, delta int, floor *int) error {
	logger.Debug("Adjusting product like count in database", map[string]interface{}{
		"product_id": id,
		"delta":      delta,
		"floor":      floor,
	})

	expr := gorm.Expr("like_count + ?", delta)
	if floor != nil {
		expr = gorm.Expr("CASE WHEN like_count + ? < ? THEN ? ELSE like_count + ? END", delta, *floor, *floor, delta)
	}
	return r.updateColumn(id, "like_count", expr)
}

func (r *productRepository) UpdateDealStatus(product *model.Product) error {
	logger.Debug("Updating product deal status in database", map[string]interface{}{
		"product_id":       product.ID,
		"status":           product.Status,
		"bought_member_id": product.BoughtMemberID,
	})

	err := r.db.Model(&model.Product{}).Where("id = ?", product.ID).
		Select("status", "bought_member_id").
		Updates(map[string]interface{}{
			"status":           product.Status,
			"bought_member_id": product.BoughtMemberID,
		}).Error
	if err != nil {
		logger.Error("Failed to update product deal status in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) UpdateContent(product *model.Product) error {
	logger.Debug("Updating product content in database", map[string]interface{}{
		"product_id": product.ID,
		"title":      product.Title,
	})

	err := r.db.Model(&model.Product{}).Where("id = ?", product.ID).
		Select("title", "content", "price", "category").
		Updates(map[string]interface{}{
			"title":    product.Title,
			"content":  product.Content,
			"price":    product.Price,
			"category": product.Category,
		}).Error
	if err != nil {
		logger.Error("Failed to update product content in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Debug("Product deleted from database", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (r *productRepository) FindAllIDs() ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&model.Product{}).Order("id").Pluck("id", &ids).Error; err != nil {
		logger.Error("Failed to list product IDs in database", err, nil)
		return nil, err
	}
	return ids, nil
}

func (r *productRepository) SetLikeCount(id uint, count int64) error {
	logger.Debug("Setting product like count in database", map[string]interface{}{
		"product_id": id,
		"like_count": count,
	})

	return r.updateColumn(id, "like_count", count)
}

func (r *productRepository) updateColumn(id uint, column string, value interface{}) error {
	result := r.db.Model(&model.Product{}).Where("id = ?", id).UpdateColumn(column, value)
	if result.Error != nil {
		logger.Error("Failed to update product column in database", result.Error, map[string]interface{}{
			"product_id": id,
			"column":     column,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
