package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/service"
	apperrors "github.com/minjk/moamall-backend/internal/errors"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ProductAttributeController struct {
	attributeService service.AttributeService
	optionService    service.OptionService
}

func NewProductAttributeController(attributeService service.AttributeService, optionService service.OptionService) *ProductAttributeController {
	return &ProductAttributeController{
		attributeService: attributeService,
		optionService:    optionService,
	}
}

// ResolvedAttribute is the storefront view: one merged attribute with its
// applicable option list.
type ResolvedAttribute struct {
	service.EffectiveAttribute
	Options []service.EffectiveOption `json:"options"`
}

// AttachAttribute attaches an attribute to a product
// @Summary Attach attribute to product
// @Tags ProductAttributes
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Success 201 {object} model.ProductAttribute
// @Router /products/{id}/attributes [post]
func (ctrl *ProductAttributeController) AttachAttribute(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var input struct {
		AttributeID         uint  `json:"attribute_id" binding:"required"`
		CategoryAttributeID *uint `json:"category_attribute_id"`
		overridesInput
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	attachment, err := ctrl.attributeService.AttachAttributeToProduct(productID, input.AttributeID, input.CategoryAttributeID, input.toOverrides())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrAttributeNotFound):
			apperrors.NotFound(c, apperrors.AttributeNotFound, "Attribute not found")
		case errors.Is(err, service.ErrCategoryAttributeNotFound):
			apperrors.NotFound(c, apperrors.AttributeNotAttached, "Category attribute not found")
		case errors.Is(err, service.ErrCategoryMismatch):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Category attribute references a different attribute")
		case errors.Is(err, service.ErrAttributeAlreadyAttached):
			apperrors.Conflict(c, apperrors.AttributeAlreadyAttached, "Attribute is already attached to this product")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "attach attribute to product")
		}
		return
	}
	c.JSON(http.StatusCreated, attachment)
}

// GetResolvedAttributes returns the product's merged attributes with options
// @Summary Get resolved product attributes
// @Tags ProductAttributes
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {array} ResolvedAttribute
// @Router /products/{id}/attributes [get]
func (ctrl *ProductAttributeController) GetResolvedAttributes(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	attributes, err := ctrl.attributeService.ResolveProductAttributes(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "Failed to resolve product attributes")
		return
	}

	resolved := make([]ResolvedAttribute, 0, len(attributes))
	for _, attr := range attributes {
		options, err := ctrl.optionService.ResolveOptions(attr)
		if err != nil {
			apperrors.InternalError(c, "Failed to resolve attribute options")
			return
		}
		resolved = append(resolved, ResolvedAttribute{EffectiveAttribute: attr, Options: options})
	}
	c.JSON(http.StatusOK, gin.H{"data": resolved, "total": len(resolved)})
}

// UpdateOverrides replaces the product attachment's override set
// @Summary Update product attribute overrides
// @Tags ProductAttributes
// @Accept json
// @Produce json
// @Param attachmentId path int true "Product attribute ID"
// @Success 200 {object} model.ProductAttribute
// @Router /product-attributes/{attachmentId} [put]
func (ctrl *ProductAttributeController) UpdateOverrides(c *gin.Context) {
	attachmentID, err := parseIDParam(c, "attachmentId")
	if err != nil {
		return
	}

	var input overridesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	attachment, err := ctrl.attributeService.UpdateProductAttributeOverrides(attachmentID, input.toOverrides())
	if err != nil {
		if errors.Is(err, service.ErrProductAttributeNotFound) {
			apperrors.NotFound(c, apperrors.AttributeNotAttached, "Attribute is not attached to this product")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update product attribute overrides")
		return
	}
	c.JSON(http.StatusOK, attachment)
}

// RemoveAttribute detaches the attribute, cascading its options and the
// combinations that referenced it.
// @Summary Remove attribute from product
// @Tags ProductAttributes
// @Param attachmentId path int true "Product attribute ID"
// @Success 204
// @Router /product-attributes/{attachmentId} [delete]
func (ctrl *ProductAttributeController) RemoveAttribute(c *gin.Context) {
	attachmentID, err := parseIDParam(c, "attachmentId")
	if err != nil {
		return
	}
	if err := ctrl.attributeService.RemoveAttributeFromProduct(attachmentID); err != nil {
		if errors.Is(err, service.ErrProductAttributeNotFound) {
			apperrors.NotFound(c, apperrors.AttributeNotAttached, "Attribute is not attached to this product")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "remove attribute from product")
		return
	}
	c.Status(http.StatusNoContent)
}

// AddOption adds a product-tier option. The first product option replaces the
// whole lower-tier list for that attribute.
// @Summary Add product attribute option
// @Tags ProductAttributes
// @Accept json
// @Produce json
// @Param attachmentId path int true "Product attribute ID"
// @Success 201 {object} model.ProductAttributeOption
// @Router /product-attributes/{attachmentId}/options [post]
func (ctrl *ProductAttributeController) AddOption(c *gin.Context) {
	attachmentID, err := parseIDParam(c, "attachmentId")
	if err != nil {
		return
	}

	var input struct {
		BaseOptionID     *uint            `json:"base_option_id"`
		CategoryOptionID *uint            `json:"category_option_id"`
		Value            string           `json:"value" binding:"required"`
		DisplayValue     string           `json:"display_value"`
		SortOrder        int              `json:"sort_order"`
		PriceAdjustment  *decimal.Decimal `json:"price_adjustment"`
		Metadata         datatypes.JSON   `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	option := &model.ProductAttributeOption{
		ProductAttributeID: attachmentID,
		BaseOptionID:       input.BaseOptionID,
		CategoryOptionID:   input.CategoryOptionID,
		Value:              input.Value,
		DisplayValue:       input.DisplayValue,
		SortOrder:          input.SortOrder,
		PriceAdjustment:    input.PriceAdjustment,
		Metadata:           input.Metadata,
	}
	if err := ctrl.optionService.AddProductOption(option); err != nil {
		switch {
		case errors.Is(err, service.ErrProductAttributeNotFound):
			apperrors.NotFound(c, apperrors.AttributeNotAttached, "Attribute is not attached to this product")
		case errors.Is(err, service.ErrOptionLinkAmbiguous):
			apperrors.BadRequest(c, apperrors.OptionTierAmbiguous, "Option may link to a base option or a category option, not both")
		case errors.Is(err, service.ErrOptionNotFound):
			apperrors.NotFound(c, apperrors.OptionNotFound, "Linked option not found")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add product option")
		}
		return
	}
	c.JSON(http.StatusCreated, option)
}

// UpdateOption updates a product-tier option
// @Summary Update product attribute option
// @Tags ProductAttributes
// @Accept json
// @Produce json
// @Param optionId path int true "Option ID"
// @Success 200 {object} model.ProductAttributeOption
// @Router /product-attributes/options/{optionId} [put]
func (ctrl *ProductAttributeController) UpdateOption(c *gin.Context) {
	optionID, err := parseIDParam(c, "optionId")
	if err != nil {
		return
	}

	var input struct {
		Value           *string          `json:"value"`
		DisplayValue    *string          `json:"display_value"`
		SortOrder       *int             `json:"sort_order"`
		PriceAdjustment *decimal.Decimal `json:"price_adjustment"`
		Metadata        *datatypes.JSON  `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	existing, err := ctrl.optionService.GetProductOption(optionID)
	if err != nil {
		if errors.Is(err, service.ErrOptionNotFound) {
			apperrors.NotFound(c, apperrors.OptionNotFound, "Option not found")
			return
		}
		apperrors.InternalError(c, "Failed to load option")
		return
	}

	if input.Value != nil {
		existing.Value = *input.Value
	}
	if input.DisplayValue != nil {
		existing.DisplayValue = *input.DisplayValue
	}
	if input.SortOrder != nil {
		existing.SortOrder = *input.SortOrder
	}
	if input.PriceAdjustment != nil {
		existing.PriceAdjustment = input.PriceAdjustment
	}
	if input.Metadata != nil {
		existing.Metadata = *input.Metadata
	}

	if err := ctrl.optionService.UpdateProductOption(existing); err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update product option")
		return
	}
	c.JSON(http.StatusOK, existing)
}

// DeleteOption removes a product-tier option
// @Summary Delete product attribute option
// @Tags ProductAttributes
// @Param optionId path int true "Option ID"
// @Success 204
// @Router /product-attributes/options/{optionId} [delete]
func (ctrl *ProductAttributeController) DeleteOption(c *gin.Context) {
	optionID, err := parseIDParam(c, "optionId")
	if err != nil {
		return
	}
	if err := ctrl.optionService.DeleteProductOption(optionID); err != nil {
		if errors.Is(err, service.ErrOptionNotFound) {
			apperrors.NotFound(c, apperrors.OptionNotFound, "Option not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete product option")
		return
	}
	c.Status(http.StatusNoContent)
}
