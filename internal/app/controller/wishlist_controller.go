package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/service"
	apperrors "github.com/sohwakmo/cucumbermarket-backend/internal/errors"
	"github.com/sohwakmo/cucumbermarket-backend/internal/middleware"
)

type WishlistController struct {
	wishlistService service.WishlistService
}

func NewWishlistController(wishlistService service.WishlistService) *WishlistController {
	return &WishlistController{
		wishlistService: wishlistService,
	}
}

type AddInterestedRequest struct {
	MemberID  uint `json:"member_id" binding:"required"`
	ProductID uint `json:"product_id" binding:"required"`
}

// AddInterested marks a product as interested and bumps its like count
// POST /api/v1/interested
func (ctrl *WishlistController) AddInterested(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddInterestedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add interested request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "member_id와 product_id는 필수입니다")
		return
	}

	interested, err := ctrl.wishlistService.AddInterested(req.MemberID, req.ProductID)
	if err != nil {
		respondError(c, err, "interested_add")
		return
	}

	log.Info("Product added to wishlist", map[string]interface{}{
		"member_id":  req.MemberID,
		"product_id": req.ProductID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"interested": interested,
	})
}

// RemoveInterested drops the wishlist row and lowers the like count
// DELETE /api/v1/interested/:member_id/:product_id
func (ctrl *WishlistController) RemoveInterested(c *gin.Context) {
	memberID, productID, ok := parseMemberProduct(c)
	if !ok {
		return
	}

	if err := ctrl.wishlistService.RemoveInterested(memberID, productID); err != nil {
		respondError(c, err, "interested_remove")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"member_id":  memberID,
		"product_id": productID,
	})
}

// CheckInterested reports whether the member has the product in the wishlist
// GET /api/v1/interested/:member_id/:product_id
func (ctrl *WishlistController) CheckInterested(c *gin.Context) {
	memberID, productID, ok := parseMemberProduct(c)
	if !ok {
		return
	}

	interested, err := ctrl.wishlistService.CheckInterested(memberID, productID)
	if err != nil {
		respondError(c, err, "interested_check")
		return
	}

	result := "nok"
	if interested {
		result = "ok"
	}
	c.JSON(http.StatusOK, gin.H{
		"result":     result,
		"interested": interested,
	})
}

func parseMemberProduct(c *gin.Context) (uint, uint, bool) {
	memberID, ok := parseIDParam(c, "member_id")
	if !ok {
		return 0, 0, false
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return 0, 0, false
	}
	return memberID, productID, true
}
