package repository

import (
	"github.com/npatel/recipebox-backend/internal/app/model"
	"github.com/npatel/recipebox-backend/pkg/logger"
	"gorm.io/gorm"
)

// StoreInArea is a store branch joined with its opening info
type StoreInArea struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address"`
	DaysOpen  string `json:"days_open"`
	Hours     string `json:"hours"`
}

// ItemPriceRow is where an item can be bought and for how much
type ItemPriceRow struct {
	StoreName  string  `json:"store_name"`
	Address    string  `json:"address"`
	PostalCode string  `json:"postal_code"`
	City       string  `json:"city"`
	Province   string  `json:"province"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
}

type GroceryRepository interface {
	ListAreas() ([]model.GroceryArea, error)
	AreaByPostalCode(postalCode string) (*model.GroceryArea, error)
	StoresInArea(postalCode string) ([]StoreInArea, error)
	PricesForItem(itemName string) ([]ItemPriceRow, error)
	BulkImport(areas []model.GroceryArea, stores []model.GroceryStore, locations []model.StoreLocation, prices []model.ItemPrice) error
}

type groceryRepository struct {
	db *gorm.DB
}

func NewGroceryRepository(db *gorm.DB) GroceryRepository {
	return &groceryRepository{db: db}
}

func (r *groceryRepository) ListAreas() ([]model.GroceryArea, error) {
	var areas []model.GroceryArea
	if err := r.db.Order("postal_code").Find(&areas).Error; err != nil {
		return nil, err
	}
	return areas, nil
}

func (r *groceryRepository) AreaByPostalCode(postalCode string) (*model.GroceryArea, error) {
	var area model.GroceryArea
	if err := r.db.First(&area, "postal_code = ?", postalCode).Error; err != nil {
		return nil, err
	}
	return &area, nil
}

func (r *groceryRepository) StoresInArea(postalCode string) ([]StoreInArea, error) {
	var stores []StoreInArea
	err := r.db.Raw(`
SELECT store_locations.store_name, store_locations.address,
       grocery_stores.days_open, grocery_stores.hours
FROM store_locations
JOIN grocery_stores ON grocery_stores.name = store_locations.store_name
WHERE store_locations.postal_code = ?
ORDER BY store_locations.store_name`, postalCode).Scan(&stores).Error
	if err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *groceryRepository) PricesForItem(itemName string) ([]ItemPriceRow, error) {
	var prices []ItemPriceRow
	err := r.db.Raw(`
SELECT store_locations.store_name, item_prices.address, item_prices.postal_code,
       grocery_areas.city, grocery_areas.province, item_prices.price,
       grocery_areas.currency
FROM item_prices
JOIN store_locations ON store_locations.postal_code = item_prices.postal_code
    AND store_locations.address = item_prices.address
JOIN grocery_areas ON grocery_areas.postal_code = item_prices.postal_code
WHERE item_prices.item_name = ?
ORDER BY item_prices.price`, itemName).Scan(&prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}

// BulkImport loads a grocery directory in one transaction, parents first.
// Used by the XLSX seed importer.
func (r *groceryRepository) BulkImport(areas []model.GroceryArea, stores []model.GroceryStore, locations []model.StoreLocation, prices []model.ItemPrice) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(areas) > 0 {
			if err := tx.Create(&areas).Error; err != nil {
				logger.Error("Failed to import grocery areas", err)
				return err
			}
		}
		if len(stores) > 0 {
			if err := tx.Create(&stores).Error; err != nil {
				logger.Error("Failed to import grocery stores", err)
				return err
			}
		}
		if len(locations) > 0 {
			if err := tx.Create(&locations).Error; err != nil {
				logger.Error("Failed to import store locations", err)
				return err
			}
		}
		if len(prices) > 0 {
			if err := tx.Create(&prices).Error; err != nil {
				logger.Error("Failed to import item prices", err)
				return err
			}
		}
		return nil
	})
}
