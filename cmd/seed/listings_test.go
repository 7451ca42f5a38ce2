package main

import (
	"testing"

	"github.com/sohwakmo/cucumbermarket-backend/internal/app/model"
	"github.com/sohwakmo/cucumbermarket-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newSheet(t *testing.T, rows [][]interface{}) *excelize.File {
	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	return f
}

func TestReadListings(t *testing.T) {
	f := newSheet(t, [][]interface{}{
		{"member_id", "title", "content", "price", "category", "deal_address", "photo_url"},
		{"1", "자전거", "거의 새것", "120,000", "sports", "서울시 마포구", "https://cdn.example/images/product/a.png"},
		{"2", "책상", "", "0", "furniture", "서울시 강남구"},
		{"x", "잘못된 회원", "", "100", "etc", "서울시"},
		{"3", "", "", "100", "etc", "서울시"},
		{"4", "짧은 행"},
	})

	listings, summary, err := readListings(f)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Rows)
	assert.Equal(t, 3, summary.Skipped)
	require.Len(t, listings, 2)

	bike := listings[0]
	assert.Equal(t, uint(1), bike.MemberID)
	assert.Equal(t, 120000, bike.Price)
	photos := bike.Photos()
	require.Len(t, photos, 1)
	assert.Equal(t, "a.png", photos[0].Name)

	assert.Empty(t, listings[1].Photos())
	assert.Equal(t, "서울시 강남구", listings[1].DealAddress)
}

func TestReadListings_EmptySheet(t *testing.T) {
	f := newSheet(t, nil)

	_, _, err := readListings(f)
	assert.Error(t, err)
}

func TestImportListings_SkipsUnknownSellers(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	seller := &model.Member{Nickname: "seller", Grade: model.DefaultGrade}
	require.NoError(t, testDB.Create(seller).Error)

	listings := []model.Product{
		{MemberID: seller.ID, Title: "a"},
		{MemberID: seller.ID, Title: "b"},
		{MemberID: seller.ID, Title: "c"},
		{MemberID: seller.ID + 100, Title: "orphan"},
	}

	imported, err := importListings(testDB, listings, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, imported)

	var count int64
	require.NoError(t, testDB.Model(&model.Product{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}
