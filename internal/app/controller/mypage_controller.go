package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/model"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/service"
	apperrors "github.com/sohwakmo/cucumbermarket-backend/internal/errors"
	"github.com/sohwakmo/cucumbermarket-backend/internal/middleware"
)

// MypageController 마이페이지 (관심목록, 판매/구매 내역, 프로필 이미지)
type MypageController struct {
	productService  service.ProductService
	wishlistService service.WishlistService
	mypageService   service.MypageService
}

func NewMypageController(
	productService service.ProductService,
	wishlistService service.WishlistService,
	mypageService service.MypageService,
) *MypageController {
	return &MypageController{
		productService:  productService,
		wishlistService: wishlistService,
		mypageService:   mypageService,
	}
}

type UpdateProfileImageRequest struct {
	ProfileImageURL  string `json:"profile_image_url" binding:"required"`
	ProfileImageName string `json:"profile_image_name"`
}

// GET /api/v1/members/:member_id/interested
func (ctrl *MypageController) ListInterested(c *gin.Context) {
	ctrl.listProducts(c, "mypage_interested", ctrl.wishlistService.ListInterestedProducts)
}

// GET /api/v1/members/:member_id/sales/ongoing
func (ctrl *MypageController) ListOngoingSales(c *gin.Context) {
	ctrl.listProducts(c, "mypage_sales_ongoing", ctrl.productService.ListOngoingSales)
}

// GET /api/v1/members/:member_id/sales/completed
func (ctrl *MypageController) ListCompletedSales(c *gin.Context) {
	ctrl.listProducts(c, "mypage_sales_completed", ctrl.productService.ListCompletedSales)
}

// GET /api/v1/members/:member_id/purchases
func (ctrl *MypageController) ListPurchases(c *gin.Context) {
	ctrl.listProducts(c, "mypage_purchases", ctrl.productService.ListPurchases)
}

// GET /api/v1/members/:member_id/products
func (ctrl *MypageController) ListProducts(c *gin.Context) {
	ctrl.listProducts(c, "mypage_products", ctrl.productService.ListByMember)
}

func (ctrl *MypageController) listProducts(c *gin.Context, context string, list func(uint) ([]model.Product, error)) {
	log := middleware.GetLoggerFromContext(c)

	memberID, ok := parseIDParam(c, "member_id")
	if !ok {
		return
	}

	products, err := list(memberID)
	if err != nil {
		respondError(c, err, context)
		return
	}

	log.Debug("Mypage products fetched", map[string]interface{}{
		"member_id": memberID,
		"list":      context,
		"count":     len(products),
	})

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProfileImage
// GET /api/v1/profile-image/:member_id
func (ctrl *MypageController) GetProfileImage(c *gin.Context) {
	memberID, ok := parseIDParam(c, "member_id")
	if !ok {
		return
	}

	image, err := ctrl.mypageService.ReadProfileImage(memberID)
	if err != nil {
		respondError(c, err, "profile_image_read")
		return
	}

	c.JSON(http.StatusOK, image)
}

// UpdateProfileImage stores an already uploaded image on the member
// POST /api/v1/profile-image/:member_id
func (ctrl *MypageController) UpdateProfileImage(c *gin.Context) {
	memberID, ok := parseIDParam(c, "member_id")
	if !ok {
		return
	}

	var req UpdateProfileImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "profile_image_url은 필수입니다")
		return
	}

	updatedID, err := ctrl.mypageService.UpdateProfileImage(memberID, req.ProfileImageURL, req.ProfileImageName)
	if err != nil {
		respondError(c, err, "profile_image_update")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"member_id": updatedID,
	})
}

// UploadProfileImage saves the file and returns its URL
// POST /api/v1/profile-image/upload (multipart, field "photo")
func (ctrl *MypageController) UploadProfileImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	photos, closeAll, err := openUploads(c, "photo")
	if err != nil {
		respondError(c, err, "profile_image_upload")
		return
	}
	defer closeAll()

	url, err := ctrl.mypageService.UploadProfileImage(c.Request.Context(), photos[0])
	if err != nil {
		log.Error("Failed to upload profile image", err, map[string]interface{}{
			"filename": photos[0].Filename,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "파일 업로드에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":      url,
		"filename": photos[0].Filename,
	})
}
