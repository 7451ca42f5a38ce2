package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sohwakmo/cucumbermarket-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// 시트 컬럼 순서
const (
	colMemberID = iota
	colTitle
	colContent
	colPrice
	colCategory
	colDealAddress
	colPhotoURL // 선택
)

type readSummary struct {
	Rows    int
	Skipped int
}

// readListings parses the first sheet. The first row is a header.
func readListings(f *excelize.File) ([]model.Product, readSummary, error) {
	var summary readSummary

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, summary, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, summary, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, summary, fmt.Errorf("no data found in XLSX file")
	}

	var listings []model.Product
	for _, row := range rows[1:] {
		summary.Rows++

		product, ok := parseListingRow(row)
		if !ok {
			summary.Skipped++
			continue
		}
		listings = append(listings, product)
	}
	return listings, summary, nil
}

func parseListingRow(row []string) (model.Product, bool) {
	if len(row) <= colDealAddress {
		return model.Product{}, false
	}

	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	memberID, err := strconv.ParseUint(cell(colMemberID), 10, 32)
	if err != nil || memberID == 0 {
		return model.Product{}, false
	}
	price, err := strconv.Atoi(strings.ReplaceAll(cell(colPrice), ",", ""))
	if err != nil || price < 0 {
		return model.Product{}, false
	}
	title := cell(colTitle)
	if title == "" {
		return model.Product{}, false
	}

	product := model.Product{
		MemberID:    uint(memberID),
		Title:       title,
		Content:     cell(colContent),
		Price:       price,
		Category:    cell(colCategory),
		DealAddress: cell(colDealAddress),
	}
	if url := cell(colPhotoURL); url != "" {
		name := url[strings.LastIndex(url, "/")+1:]
		if _, err := product.AttachPhoto(url, name); err != nil {
			return model.Product{}, false
		}
	}
	return product, true
}

// importListings inserts listings whose seller exists, in batches, inside one transaction.
func importListings(conn *gorm.DB, listings []model.Product, batchSize int) (int, error) {
	memberIDs := make([]uint, 0, len(listings))
	for _, p := range listings {
		memberIDs = append(memberIDs, p.MemberID)
	}

	var imported int
	err := conn.Transaction(func(tx *gorm.DB) error {
		var existing []uint
		if err := tx.Model(&model.Member{}).Where("id IN ?", memberIDs).Pluck("id", &existing).Error; err != nil {
			return err
		}
		known := make(map[uint]bool, len(existing))
		for _, id := range existing {
			known[id] = true
		}

		valid := make([]model.Product, 0, len(listings))
		for _, p := range listings {
			if known[p.MemberID] {
				valid = append(valid, p)
			}
		}
		if len(valid) == 0 {
			return nil
		}

		if err := tx.Omit("Member").CreateInBatches(valid, batchSize).Error; err != nil {
			return err
		}
		imported = len(valid)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}
