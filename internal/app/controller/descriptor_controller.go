package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/npatel/recipebox-backend/internal/app/service"
	apperrors "github.com/npatel/recipebox-backend/internal/errors"
	"github.com/npatel/recipebox-backend/internal/middleware"
)

type DescriptorController struct {
	descriptorService service.DescriptorService
}

func NewDescriptorController(descriptorService service.DescriptorService) *DescriptorController {
	return &DescriptorController{
		descriptorService: descriptorService,
	}
}

// ListDescriptors returns all recipe classification tags
// GET /api/v1/descriptors
func (ctrl *DescriptorController) ListDescriptors(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	descriptors, err := ctrl.descriptorService.List()
	if err != nil {
		log.Error("Failed to list descriptors", err, nil)
		apperrors.InternalError(c, "Failed to fetch descriptors")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"descriptors": descriptors,
		"count":       len(descriptors),
	})
}

// ListTerms returns the cooking glossary
// GET /api/v1/terms
func (ctrl *DescriptorController) ListTerms(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	terms, err := ctrl.descriptorService.Terms()
	if err != nil {
		log.Error("Failed to list terms", err, nil)
		apperrors.InternalError(c, "Failed to fetch glossary terms")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"terms": terms,
		"count": len(terms),
	})
}
