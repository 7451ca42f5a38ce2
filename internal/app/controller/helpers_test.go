package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/model"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/repository"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/service"
	"github.com/sohwakmo/cucumbermarket-backend/internal/broker"
	"github.com/sohwakmo/cucumbermarket-backend/internal/db"
	"github.com/sohwakmo/cucumbermarket-backend/internal/event"
	"github.com/sohwakmo/cucumbermarket-backend/internal/middleware"
	"github.com/sohwakmo/cucumbermarket-backend/internal/storage"
	ws "github.com/sohwakmo/cucumbermarket-backend/internal/websocket"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type controllerFixture struct {
	db       *gorm.DB
	router   *gin.Engine
	products repository.ProductRepository
	members  repository.MemberRepository
	hub      *ws.Hub
	broker   *broker.MemoryBroker
	seller   *model.Member
	buyer    *model.Member
}

func setupControllerTest(t *testing.T) *controllerFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	memberRepo := repository.NewMemberRepository(testDB)
	interestedRepo := repository.NewInterestedRepository(testDB)
	store := storage.NewLocalStorage(t.TempDir())

	productService := service.NewProductService(testDB, productRepo, memberRepo, interestedRepo, store, event.NoopPublisher{}, service.DefaultCatalogPolicy())
	wishlistService := service.NewWishlistService(testDB, interestedRepo, productRepo, memberRepo, nil)
	mypageService := service.NewMypageService(memberRepo, store)

	memBroker := broker.NewMemoryBroker()
	t.Cleanup(func() { memBroker.Close() })
	hub := ws.NewHub()
	require.NoError(t, hub.Subscribe(t.Context(), memBroker))
	chatService := service.NewChatService(memBroker, "welcome")

	productCtrl := NewProductController(productService, 2)
	wishlistCtrl := NewWishlistController(wishlistService)
	mypageCtrl := NewMypageController(productService, wishlistService, mypageService)
	chatCtrl := NewChatController(chatService, hub, []string{"*"})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.LoggingMiddleware())

	v1 := router.Group("/api/v1")
	products := v1.Group("/products")
	{
		products.GET("", productCtrl.ListProducts)
		products.GET("/popular", productCtrl.ListPopularProducts)
		products.GET("/search", productCtrl.SearchProducts)
		products.GET("/:id", productCtrl.GetProduct)
		products.GET("/:id/status", productCtrl.GetDealStatus)
		products.POST("", productCtrl.CreateProduct)
		products.POST("/:id/photos", productCtrl.AttachPhoto)
		products.PUT("/:id", productCtrl.UpdateProduct)
		products.DELETE("/:id", productCtrl.DeleteProduct)
		products.PUT("/:id/deal/in-progress", productCtrl.MarkInProgress)
		products.PUT("/:id/deal/done", productCtrl.MarkDone)
	}
	v1.POST("/interested", wishlistCtrl.AddInterested)
	v1.DELETE("/interested/:member_id/:product_id", wishlistCtrl.RemoveInterested)
	v1.GET("/interested/:member_id/:product_id", wishlistCtrl.CheckInterested)
	members := v1.Group("/members/:member_id")
	{
		members.GET("/interested", mypageCtrl.ListInterested)
		members.GET("/sales/ongoing", mypageCtrl.ListOngoingSales)
		members.GET("/sales/completed", mypageCtrl.ListCompletedSales)
		members.GET("/purchases", mypageCtrl.ListPurchases)
		members.GET("/products", mypageCtrl.ListProducts)
	}
	v1.POST("/profile-image/upload", mypageCtrl.UploadProfileImage)
	v1.GET("/profile-image/:member_id", mypageCtrl.GetProfileImage)
	v1.POST("/profile-image/:member_id", mypageCtrl.UpdateProfileImage)
	router.GET("/ws/chat/rooms/:room_id", chatCtrl.ServeRoom)

	f := &controllerFixture{
		db:       testDB,
		router:   router,
		products: productRepo,
		members:  memberRepo,
		hub:      hub,
		broker:   memBroker,
	}
	f.seller = &model.Member{Nickname: "seller", Address: "서울시 마포구"}
	require.NoError(t, memberRepo.Create(f.seller))
	f.buyer = &model.Member{Nickname: "buyer", Address: "서울시 강남구"}
	require.NoError(t, memberRepo.Create(f.buyer))
	return f
}

func (f *controllerFixture) listing(t *testing.T, title, address string) *model.Product {
	product := &model.Product{
		MemberID:    f.seller.ID,
		Title:       title,
		Content:     title + " 팝니다",
		Price:       5000,
		Category:    "etc",
		DealAddress: address,
	}
	require.NoError(t, f.products.Create(product))
	return product
}

func (f *controllerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type uploadFile struct {
	field       string
	name        string
	contentType string
	content     string
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files []uploadFile) *http.Request {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, file := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, file.field, file.name))
		header.Set("Content-Type", file.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(file.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func pngFile(field, name string) uploadFile {
	return uploadFile{field: field, name: name, contentType: "image/png", content: "png-" + name}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}
