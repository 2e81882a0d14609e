package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minjk/moamall-backend/internal/app/service"
	apperrors "github.com/minjk/moamall-backend/internal/errors"
	"github.com/minjk/moamall-backend/internal/export"
	"github.com/shopspring/decimal"
)

type PricingController struct {
	pricingService   service.PricingService
	productService   service.ProductService
	attributeService service.AttributeService
}

func NewPricingController(
	pricingService service.PricingService,
	productService service.ProductService,
	attributeService service.AttributeService,
) *PricingController {
	return &PricingController{
		pricingService:   pricingService,
		productService:   productService,
		attributeService: attributeService,
	}
}

// ComputePrice prices a variant selection
// @Summary Compute variant price
// @Tags Pricing
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} service.PriceQuote
// @Router /products/{id}/price [post]
func (ctrl *PricingController) ComputePrice(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var input struct {
		Selection map[uint]string `json:"selection" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	quote, err := ctrl.pricingService.ComputePrice(productID, input.Selection)
	if err != nil {
		respondPricingError(c, err, "compute price")
		return
	}
	c.JSON(http.StatusOK, quote)
}

// CreateCombination pins an explicit price to one variant selection
// @Summary Create price combination
// @Tags Pricing
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Success 201 {object} model.ProductAttributeCombination
// @Router /products/{id}/combinations [post]
func (ctrl *PricingController) CreateCombination(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var input struct {
		Selection       map[uint]string `json:"selection" binding:"required"`
		PriceAdjustment decimal.Decimal `json:"price_adjustment"`
		SKU             *string         `json:"sku"`
		StockQuantity   *int            `json:"stock_quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	combo, err := ctrl.pricingService.CreateCombination(productID, input.Selection, input.PriceAdjustment, input.SKU, input.StockQuantity)
	if err != nil {
		respondPricingError(c, err, "create combination")
		return
	}
	c.JSON(http.StatusCreated, combo)
}

// ListCombinations lists a product's explicit price combinations
// @Summary List price combinations
// @Tags Pricing
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {array} model.ProductAttributeCombination
// @Router /products/{id}/combinations [get]
func (ctrl *PricingController) ListCombinations(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	combos, err := ctrl.pricingService.ListCombinations(productID)
	if err != nil {
		apperrors.InternalError(c, "Failed to list combinations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": combos, "total": len(combos)})
}

// UpdateCombination updates a combination's adjustment, SKU, stock or status
// @Summary Update price combination
// @Tags Pricing
// @Accept json
// @Produce json
// @Param combinationId path int true "Combination ID"
// @Success 200 {object} model.ProductAttributeCombination
// @Router /combinations/{combinationId} [put]
func (ctrl *PricingController) UpdateCombination(c *gin.Context) {
	combinationID, err := parseIDParam(c, "combinationId")
	if err != nil {
		return
	}

	var input struct {
		PriceAdjustment decimal.Decimal `json:"price_adjustment"`
		SKU             *string         `json:"sku"`
		StockQuantity   *int            `json:"stock_quantity"`
		IsActive        *bool           `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	combo, err := ctrl.pricingService.UpdateCombination(combinationID, input.PriceAdjustment, input.SKU, input.StockQuantity, input.IsActive)
	if err != nil {
		respondPricingError(c, err, "update combination")
		return
	}
	c.JSON(http.StatusOK, combo)
}

// DeleteCombination removes a combination; pricing falls back to the
// additive path for that selection.
// @Summary Delete price combination
// @Tags Pricing
// @Param combinationId path int true "Combination ID"
// @Success 204
// @Router /combinations/{combinationId} [delete]
func (ctrl *PricingController) DeleteCombination(c *gin.Context) {
	combinationID, err := parseIDParam(c, "combinationId")
	if err != nil {
		return
	}
	if err := ctrl.pricingService.DeleteCombination(combinationID); err != nil {
		respondPricingError(c, err, "delete combination")
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportCombinations streams the combination matrix as an XLSX workbook
// @Summary Export price combinations
// @Tags Pricing
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Product ID"
// @Success 200
// @Router /products/{id}/combinations/export [get]
func (ctrl *PricingController) ExportCombinations(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	product, err := ctrl.productService.GetProduct(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "Failed to load product")
		return
	}

	attributes, err := ctrl.attributeService.ResolveProductAttributes(productID)
	if err != nil {
		apperrors.InternalError(c, "Failed to resolve product attributes")
		return
	}
	combos, err := ctrl.pricingService.ListCombinations(productID)
	if err != nil {
		apperrors.InternalError(c, "Failed to list combinations")
		return
	}

	workbook, err := export.CombinationWorkbook(product, attributes, combos)
	if err != nil {
		apperrors.InternalError(c, "Failed to build workbook")
		return
	}

	filename := fmt.Sprintf("combinations-%s.xlsx", product.SKU)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		apperrors.InternalError(c, "Failed to write workbook")
	}
}

func respondPricingError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrCombinationNotFound):
		apperrors.NotFound(c, apperrors.CombinationNotFound, "Combination not found")
	case errors.Is(err, service.ErrCombinationExists):
		apperrors.Conflict(c, apperrors.CombinationExists, "A combination for this selection already exists")
	case errors.Is(err, service.ErrIncompleteSelection):
		apperrors.UnprocessableEntity(c, apperrors.PricingIncompleteSelection, err.Error())
	case errors.Is(err, service.ErrInvalidOptionValue):
		apperrors.UnprocessableEntity(c, apperrors.ValidationInvalidOption, err.Error())
	case errors.Is(err, service.ErrNoVariantAttributes):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Product has no variant attributes")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}
