package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/npatel/recipebox-backend/config"
	"github.com/npatel/recipebox-backend/internal/app/model"
	"github.com/npatel/recipebox-backend/internal/app/repository"
	"github.com/npatel/recipebox-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports a grocery directory from an XLSX export. One row per item
// price, with the area, store and location columns repeated:
//
//	postal_code | city | province | currency | store_name | days_open | hours | address | item_name | price
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	database, err := db.Initialize(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close(database)

	groceryRepo := repository.NewGroceryRepository(database)

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	directory, err := readDirectoryFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Areas: %d, stores: %d, locations: %d, prices: %d\n",
		len(directory.areas), len(directory.stores), len(directory.locations), len(directory.prices))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	if err := groceryRepo.BulkImport(directory.areas, directory.stores, directory.locations, directory.prices); err != nil {
		log.Fatal("Failed to import grocery directory:", err)
	}

	fmt.Println("Import completed successfully!")
}

type groceryDirectory struct {
	areas     []model.GroceryArea
	stores    []model.GroceryStore
	locations []model.StoreLocation
	prices    []model.ItemPrice
}

func readDirectoryFromXLSX(filePath string) (*groceryDirectory, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	dir := &groceryDirectory{}
	seenAreas := make(map[string]bool)
	seenStores := make(map[string]bool)
	seenLocations := make(map[string]bool)
	seenPrices := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		// First row is the header
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 10 {
			skippedCount++
			continue
		}

		postalCode := strings.TrimSpace(row[0])
		city := strings.TrimSpace(row[1])
		province := strings.TrimSpace(row[2])
		currency := strings.TrimSpace(row[3])
		storeName := strings.TrimSpace(row[4])
		daysOpen := strings.TrimSpace(row[5])
		hours := strings.TrimSpace(row[6])
		address := strings.TrimSpace(row[7])
		itemName := strings.TrimSpace(row[8])
		priceStr := strings.TrimSpace(row[9])

		if postalCode == "" || city == "" || storeName == "" || address == "" || itemName == "" {
			skippedCount++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			skippedCount++
			continue
		}

		if currency == "" {
			currency = "CAD"
		}

		if !seenAreas[postalCode] {
			seenAreas[postalCode] = true
			dir.areas = append(dir.areas, model.GroceryArea{
				PostalCode: postalCode,
				City:       city,
				Province:   province,
				Currency:   currency,
			})
		}

		if !seenStores[storeName] {
			seenStores[storeName] = true
			dir.stores = append(dir.stores, model.GroceryStore{
				Name:     storeName,
				DaysOpen: daysOpen,
				Hours:    hours,
			})
		}

		locationKey := postalCode + "|" + address
		if !seenLocations[locationKey] {
			seenLocations[locationKey] = true
			dir.locations = append(dir.locations, model.StoreLocation{
				PostalCode: postalCode,
				Address:    address,
				StoreName:  storeName,
			})
		}

		priceKey := locationKey + "|" + itemName
		if seenPrices[priceKey] {
			skippedCount++
			continue
		}
		seenPrices[priceKey] = true
		dir.prices = append(dir.prices, model.ItemPrice{
			PostalCode: postalCode,
			Address:    address,
			ItemName:   itemName,
			Price:      price,
		})

		if len(dir.prices)%1000 == 0 {
			fmt.Printf("Processed %d price rows...\n", len(dir.prices))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Imported prices: %d\n", len(dir.prices))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return dir, nil
}
