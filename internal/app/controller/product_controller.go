package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/model"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/service"
	apperrors "github.com/sohwakmo/cucumbermarket-backend/internal/errors"
	"github.com/sohwakmo/cucumbermarket-backend/internal/middleware"
	"github.com/sohwakmo/cucumbermarket-backend/pkg/pagination"
)

type ProductController struct {
	productService service.ProductService
	pageSize       int
}

func NewProductController(productService service.ProductService, pageSize int) *ProductController {
	return &ProductController{
		productService: productService,
		pageSize:       pageSize,
	}
}

type UpdateProductRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Price    *int    `json:"price" binding:"omitempty,gte=0"`
	Category *string `json:"category"`
}

type DealDoneRequest struct {
	BuyerMemberID uint `json:"buyer_member_id"`
}

// ListProducts returns ongoing listings, newest first
// GET /api/v1/products?page=&size=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page := pagination.FromQuery(c.Query("page"), c.Query("size"), ctrl.pageSize)
	result, err := ctrl.productService.List(page)
	if err != nil {
		respondError(c, err, "product_list")
		return
	}

	log.Info("Products fetched successfully", map[string]interface{}{
		"page":  result.Page,
		"count": len(result.Content),
		"total": result.TotalElements,
	})

	c.JSON(http.StatusOK, result)
}

// ListPopularProducts returns every listing ordered by like count
// GET /api/v1/products/popular
func (ctrl *ProductController) ListPopularProducts(c *gin.Context) {
	products, err := ctrl.productService.ListByPopularity()
	if err != nil {
		respondError(c, err, "product_popular")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// SearchProducts filters ongoing listings by keyword and deal area
// GET /api/v1/products/search?type=&keyword=
func (ctrl *ProductController) SearchProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	searchType := c.Query("type")
	keyword := c.Query("keyword")
	page := pagination.FromQuery(c.Query("page"), c.Query("size"), ctrl.pageSize)

	result, err := ctrl.productService.Search(searchType, keyword, page)
	if err != nil {
		respondError(c, err, "product_search")
		return
	}

	log.Info("Products searched", map[string]interface{}{
		"type":    searchType,
		"keyword": keyword,
		"total":   result.TotalElements,
	})

	c.JSON(http.StatusOK, result)
}

// GetProduct returns a listing and counts the view
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.ViewDetail(id)
	if err != nil {
		respondError(c, err, "product_detail")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"photos":  product.Photos(),
	})
}

// GetDealStatus returns the deal status without counting a view
// GET /api/v1/products/:id/status
func (ctrl *ProductController) GetDealStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	done, err := ctrl.productService.DealStatus(id)
	if err != nil {
		respondError(c, err, "product_status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id": id,
		"status":     done,
	})
}

// CreateProduct registers a listing with one to five photos
// POST /api/v1/products (multipart)
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	memberID, err := strconv.ParseUint(c.PostForm("member_id"), 10, 32)
	if err != nil || memberID == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 member_id 입니다")
		return
	}
	price, err := strconv.Atoi(c.DefaultPostForm("price", "0"))
	if err != nil || price < 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "가격이 올바르지 않습니다")
		return
	}
	title := c.PostForm("title")
	if title == "" {
		apperrors.RespondWithValidationError(c, map[string]string{"title": "제목을 입력해주세요"})
		return
	}

	photos, closeAll, err := openUploads(c, "photos")
	if err != nil {
		respondError(c, err, "product_create")
		return
	}
	defer closeAll()

	product := &model.Product{
		MemberID:    uint(memberID),
		Title:       title,
		Content:     c.PostForm("content"),
		Price:       price,
		Category:    c.PostForm("category"),
		DealAddress: c.PostForm("deal_address"),
	}
	if err := ctrl.productService.CreateListing(c.Request.Context(), product, photos); err != nil {
		respondError(c, err, "product_create")
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"member_id":  product.MemberID,
		"photos":     len(photos),
	})

	c.JSON(http.StatusCreated, gin.H{
		"product": product,
		"photos":  product.Photos(),
	})
}

// AttachPhoto fills the next empty photo slot
// POST /api/v1/products/:id/photos (multipart, field "photo")
func (ctrl *ProductController) AttachPhoto(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	photos, closeAll, err := openUploads(c, "photo")
	if err != nil {
		respondError(c, err, "product_photo")
		return
	}
	defer closeAll()

	product, err := ctrl.productService.AttachPhoto(c.Request.Context(), id, photos[0])
	if err != nil {
		respondError(c, err, "product_photo")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"photos":  product.Photos(),
	})
}

// UpdateProduct edits title, content, price and category
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product update request", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "요청 형식이 올바르지 않습니다")
		return
	}

	updatedID, err := ctrl.productService.Update(id, model.ProductEdit{
		Title:    req.Title,
		Content:  req.Content,
		Price:    req.Price,
		Category: req.Category,
	})
	if err != nil {
		respondError(c, err, "product_update")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id": updatedID,
	})
}

// DeleteProduct removes a listing and lowers the seller's grade
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deletedID, err := ctrl.productService.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "product_delete")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id": deletedID,
	})
}

// MarkInProgress reopens a deal
// PUT /api/v1/products/:id/deal/in-progress
func (ctrl *ProductController) MarkInProgress(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.MarkInProgress(id); err != nil {
		respondError(c, err, "product_deal")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id": id,
		"status":     false,
	})
}

// MarkDone completes a deal with the given buyer
// PUT /api/v1/products/:id/deal/done
func (ctrl *ProductController) MarkDone(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req DealDoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "요청 형식이 올바르지 않습니다")
		return
	}

	if err := ctrl.productService.MarkDone(c.Request.Context(), id, req.BuyerMemberID); err != nil {
		respondError(c, err, "product_deal")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id":       id,
		"status":           true,
		"bought_member_id": req.BuyerMemberID,
	})
}
