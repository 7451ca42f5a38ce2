package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/sohwakmo/cucumbermarket-backend/internal/app/model"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/repository"
	"github.com/sohwakmo/cucumbermarket-backend/internal/db"
	"github.com/sohwakmo/cucumbermarket-backend/internal/event"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type savedFile struct {
	folder   string
	filename string
	content  string
}

// memoryStorage keeps uploads in memory.
type memoryStorage struct {
	mu    sync.Mutex
	files []savedFile
	err   error
}

func (s *memoryStorage) Save(_ context.Context, folder, filename string, content io.Reader, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append(s.files, savedFile{folder, filename, string(data)})
	return fmt.Sprintf("/%s/%d-%s", folder, len(s.files), filename), nil
}

func (s *memoryStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.CatalogEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt event.CatalogEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType)
	}
	return types
}

type catalogFixture struct {
	db        *gorm.DB
	products  repository.ProductRepository
	members   repository.MemberRepository
	interests repository.InterestedRepository
	store     *memoryStorage
	publisher *recordingPublisher
	service   ProductService
	wishlist  WishlistService
	seller    *model.Member
	buyer     *model.Member
}

func setupCatalog(t *testing.T, policy CatalogPolicy) *catalogFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	f := &catalogFixture{
		db:        testDB,
		products:  repository.NewProductRepository(testDB),
		members:   repository.NewMemberRepository(testDB),
		interests: repository.NewInterestedRepository(testDB),
		store:     &memoryStorage{},
		publisher: &recordingPublisher{},
	}
	f.service = NewProductService(testDB, f.products, f.members, f.interests, f.store, f.publisher, policy)
	f.wishlist = NewWishlistService(testDB, f.interests, f.products, f.members, policy.LikeCountFloor)

	f.seller = &model.Member{Nickname: "seller", Address: "서울시 마포구"}
	require.NoError(t, f.members.Create(f.seller))
	f.buyer = &model.Member{Nickname: "buyer", Address: "서울시 강남구"}
	require.NoError(t, f.members.Create(f.buyer))
	return f
}

func (f *catalogFixture) listing(t *testing.T, title string) *model.Product {
	product := &model.Product{
		MemberID:    f.seller.ID,
		Title:       title,
		Content:     title + " 팝니다",
		Price:       10000,
		Category:    "etc",
		DealAddress: "서울시 마포구",
	}
	require.NoError(t, f.products.Create(product))
	return product
}

func photo(name string) PhotoUpload {
	return PhotoUpload{Filename: name, ContentType: "image/png", Content: strings.NewReader("data-" + name)}
}

var errBoom = errors.New("boom")
