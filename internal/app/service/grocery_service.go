package service

import (
	"errors"

	"github.com/npatel/recipebox-backend/internal/app/model"
	"github.com/npatel/recipebox-backend/internal/app/repository"
	"gorm.io/gorm"
)

var ErrAreaNotFound = errors.New("grocery area not found")

type GroceryService interface {
	Areas() ([]model.GroceryArea, error)
	StoresInArea(postalCode string) (*model.GroceryArea, []repository.StoreInArea, error)
	PricesForItem(itemName string) ([]repository.ItemPriceRow, error)
}

type groceryService struct {
	groceryRepo repository.GroceryRepository
}

func NewGroceryService(groceryRepo repository.GroceryRepository) GroceryService {
	return &groceryService{groceryRepo: groceryRepo}
}

func (s *groceryService) Areas() ([]model.GroceryArea, error) {
	return s.groceryRepo.ListAreas()
}

func (s *groceryService) StoresInArea(postalCode string) (*model.GroceryArea, []repository.StoreInArea, error) {
	area, err := s.groceryRepo.AreaByPostalCode(postalCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAreaNotFound
		}
		return nil, nil, err
	}

	stores, err := s.groceryRepo.StoresInArea(postalCode)
	if err != nil {
		return nil, nil, err
	}
	return area, stores, nil
}

func (s *groceryService) PricesForItem(itemName string) ([]repository.ItemPriceRow, error) {
	return s.groceryRepo.PricesForItem(itemName)
}
