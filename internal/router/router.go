package router

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/sohwakmo/cucumbermarket-backend/config"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/controller"
	"github.com/sohwakmo/cucumbermarket-backend/internal/middleware"
)

type Router struct {
	productController  *controller.ProductController
	wishlistController *controller.WishlistController
	mypageController   *controller.MypageController
	chatController     *controller.ChatController
	metrics            *middleware.Metrics
	config             *config.Config
}

func NewRouter(
	productController *controller.ProductController,
	wishlistController *controller.WishlistController,
	mypageController *controller.MypageController,
	chatController *controller.ChatController,
	metrics *middleware.Metrics,
	cfg *config.Config,
) *Router {
	return &Router{
		productController:  productController,
		wishlistController: wishlistController,
		mypageController:   mypageController,
		chatController:     chatController,
		metrics:            metrics,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))
	if r.metrics != nil {
		router.Use(r.metrics.MetricsMiddleware())
		router.GET("/metrics", r.metrics.Handler())
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Cucumber Market API is running",
		})
	})

	// 로컬 저장소의 업로드 이미지 (/images/product, /images/mypage)
	if r.config.Storage.Driver != "s3" {
		router.Static("/images", filepath.Join(r.config.Storage.LocalRoot, "images"))
	}

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/popular", r.productController.ListPopularProducts)
			products.GET("/search", r.productController.SearchProducts)
			products.GET("/:id", r.productController.GetProduct)
			products.GET("/:id/status", r.productController.GetDealStatus)
			products.POST("", r.productController.CreateProduct)
			products.POST("/:id/photos", r.productController.AttachPhoto)
			products.PUT("/:id", r.productController.UpdateProduct)
			products.DELETE("/:id", r.productController.DeleteProduct)
			products.PUT("/:id/deal/in-progress", r.productController.MarkInProgress)
			products.PUT("/:id/deal/done", r.productController.MarkDone)
		}

		interested := v1.Group("/interested")
		{
			interested.POST("", r.wishlistController.AddInterested)
			interested.GET("/:member_id/:product_id", r.wishlistController.CheckInterested)
			interested.DELETE("/:member_id/:product_id", r.wishlistController.RemoveInterested)
		}

		members := v1.Group("/members/:member_id")
		{
			members.GET("/interested", r.mypageController.ListInterested)
			members.GET("/sales/ongoing", r.mypageController.ListOngoingSales)
			members.GET("/sales/completed", r.mypageController.ListCompletedSales)
			members.GET("/purchases", r.mypageController.ListPurchases)
			members.GET("/products", r.mypageController.ListProducts)
		}

		profileImage := v1.Group("/profile-image")
		{
			profileImage.POST("/upload", r.mypageController.UploadProfileImage)
			profileImage.GET("/:member_id", r.mypageController.GetProfileImage)
			profileImage.POST("/:member_id", r.mypageController.UpdateProfileImage)
		}
	}

	router.GET("/ws/chat/rooms/:room_id", r.chatController.ServeRoom)

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
