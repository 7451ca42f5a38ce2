package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistService_Scenario(t *testing.T) {
	f := setupCatalog(t, DefaultCatalogPolicy())
	product := f.listing(t, "guitar")

	row, err := f.wishlist.AddInterested(f.buyer.ID, product.ID)
	require.NoError(t, err)
	assert.NotZero(t, row.ID)

	found, err := f.products.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.LikeCount)

	interested, err := f.wishlist.CheckInterested(f.buyer.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, interested)

	require.NoError(t, f.wishlist.RemoveInterested(f.buyer.ID, product.ID))

	found, err = f.products.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.LikeCount)

	interested, err = f.wishlist.CheckInterested(f.buyer.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, interested)
}

func TestWishlistService_AddInterested(t *testing.T) {
	f := setupCatalog(t, DefaultCatalogPolicy())
	product := f.listing(t, "piano")

	_, err := f.wishlist.AddInterested(f.buyer.ID, product.ID)
	require.NoError(t, err)

	t.Run("duplicate is rejected and count unchanged", func(t *testing.T) {
		_, err := f.wishlist.AddInterested(f.buyer.ID, product.ID)
		assert.ErrorIs(t, err, ErrAlreadyInterested)

		found, err := f.products.FindByID(product.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.LikeCount)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := f.wishlist.AddInterested(f.buyer.ID, 9999)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("missing member", func(t *testing.T) {
		_, err := f.wishlist.AddInterested(9999, product.ID)
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}

func TestWishlistService_RemoveInterested(t *testing.T) {
	f := setupCatalog(t, DefaultCatalogPolicy())
	product := f.listing(t, "drum")

	err := f.wishlist.RemoveInterested(f.buyer.ID, product.ID)
	assert.ErrorIs(t, err, ErrInterestedNotFound)

	found, err := f.products.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.LikeCount)
}

func TestWishlistService_LikeCountFloor(t *testing.T) {
	floor := 0
	f := setupCatalog(t, CatalogPolicy{DeletePenalty: DefaultDeletePenalty, LikeCountFloor: &floor})
	product := f.listing(t, "violin")

	_, err := f.wishlist.AddInterested(f.buyer.ID, product.ID)
	require.NoError(t, err)
	// 외부 요인으로 카운트가 어긋난 상태
	require.NoError(t, f.products.AdjustLikeCount(product.ID, -1, nil))

	require.NoError(t, f.wishlist.RemoveInterested(f.buyer.ID, product.ID))

	found, err := f.products.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.LikeCount)
}

func TestWishlistService_CheckInterestedMissingProduct(t *testing.T) {
	f := setupCatalog(t, DefaultCatalogPolicy())

	_, err := f.wishlist.CheckInterested(f.buyer.ID, 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestWishlistService_ListInterestedProducts(t *testing.T) {
	f := setupCatalog(t, DefaultCatalogPolicy())
	first := f.listing(t, "first")
	second := f.listing(t, "second")

	_, err := f.wishlist.AddInterested(f.buyer.ID, second.ID)
	require.NoError(t, err)
	_, err = f.wishlist.AddInterested(f.buyer.ID, first.ID)
	require.NoError(t, err)

	products, err := f.wishlist.ListInterestedProducts(f.buyer.ID)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, second.ID, products[0].ID)
	assert.Equal(t, first.ID, products[1].ID)

	products, err = f.wishlist.ListInterestedProducts(f.seller.ID)
	require.NoError(t, err)
	assert.Empty(t, products)
}
