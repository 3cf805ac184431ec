package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/npatel/recipebox-backend/internal/app/service"
	apperrors "github.com/npatel/recipebox-backend/internal/errors"
	"github.com/npatel/recipebox-backend/internal/middleware"
)

type GroceryController struct {
	groceryService service.GroceryService
}

func NewGroceryController(groceryService service.GroceryService) *GroceryController {
	return &GroceryController{
		groceryService: groceryService,
	}
}

// ListAreas returns all grocery areas in the directory
// GET /api/v1/grocery/areas
func (ctrl *GroceryController) ListAreas(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	areas, err := ctrl.groceryService.Areas()
	if err != nil {
		log.Error("Failed to list grocery areas", err, nil)
		apperrors.InternalError(c, "Failed to fetch grocery areas")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"areas": areas,
		"count": len(areas),
	})
}

// GetStoresInArea returns the stores located in a postal code area
// GET /api/v1/grocery/areas/:postalCode/stores
func (ctrl *GroceryController) GetStoresInArea(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	postalCode := c.Param("postalCode")

	area, stores, err := ctrl.groceryService.StoresInArea(postalCode)
	if err != nil {
		if errors.Is(err, service.ErrAreaNotFound) {
			apperrors.NotFound(c, apperrors.GroceryAreaNotFound, "Grocery area not found")
			return
		}
		log.Error("Failed to fetch stores in area", err, map[string]interface{}{
			"postal_code": postalCode,
		})
		apperrors.InternalError(c, "Failed to fetch stores")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"area":   area,
		"stores": stores,
		"count":  len(stores),
	})
}

// GetItemPrices returns store prices for an item, cheapest first
// GET /api/v1/grocery/items/:itemName/prices
func (ctrl *GroceryController) GetItemPrices(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	itemName := c.Param("itemName")

	prices, err := ctrl.groceryService.PricesForItem(itemName)
	if err != nil {
		log.Error("Failed to fetch item prices", err, map[string]interface{}{
			"item": itemName,
		})
		apperrors.InternalError(c, "Failed to fetch item prices")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item":   itemName,
		"prices": prices,
		"count":  len(prices),
	})
}
