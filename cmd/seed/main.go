package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sohwakmo/cucumbermarket-backend/config"
	"github.com/sohwakmo/cucumbermarket-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

const batchSize = 500

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX file:", err)
	}
	defer f.Close()

	listings, summary, err := readListings(f)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", summary.Rows)
	fmt.Printf("  Valid listings: %d\n", len(listings))
	fmt.Printf("  Skipped rows: %d\n", summary.Skipped)

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	imported, err := importListings(db.GetDB(), listings, batchSize)
	if err != nil {
		log.Fatal("Failed to import listings:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total listings imported: %d (unknown sellers skipped: %d)\n", imported, len(listings)-imported)
}
