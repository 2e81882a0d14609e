package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/service"
	apperrors "github.com/minjk/moamall-backend/internal/errors"
	"github.com/shopspring/decimal"
)

type ValueController struct {
	valueService service.ValueService
}

func NewValueController(valueService service.ValueService) *ValueController {
	return &ValueController{valueService: valueService}
}

type valueInput struct {
	AttributeID     uint             `json:"attribute_id" binding:"required"`
	OptionID        *uint            `json:"option_id"`
	TextValue       *string          `json:"text_value"`
	NumberValue     *decimal.Decimal `json:"number_value"`
	DateValue       *time.Time       `json:"date_value"`
	BooleanValue    *bool            `json:"boolean_value"`
	PriceAdjustment *decimal.Decimal `json:"price_adjustment"`
	SortOrder       int              `json:"sort_order"`
}

// AssignValue assigns an attribute value to a product
// @Summary Assign attribute value
// @Tags AttributeValues
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Success 201 {object} model.ProductAttributeValue
// @Router /products/{id}/values [post]
func (ctrl *ValueController) AssignValue(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var input valueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	value := &model.ProductAttributeValue{
		ProductID:       productID,
		AttributeID:     input.AttributeID,
		OptionID:        input.OptionID,
		TextValue:       input.TextValue,
		NumberValue:     input.NumberValue,
		DateValue:       input.DateValue,
		BooleanValue:    input.BooleanValue,
		PriceAdjustment: input.PriceAdjustment,
		SortOrder:       input.SortOrder,
	}
	if err := ctrl.valueService.AssignValue(value); err != nil {
		respondValueError(c, err, "assign value")
		return
	}
	c.JSON(http.StatusCreated, value)
}

// ListValues lists a product's assigned attribute values
// @Summary List product attribute values
// @Tags AttributeValues
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {array} model.ProductAttributeValue
// @Router /products/{id}/values [get]
func (ctrl *ValueController) ListValues(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	values, err := ctrl.valueService.ListProductValues(productID)
	if err != nil {
		apperrors.InternalError(c, "Failed to list attribute values")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": values, "total": len(values)})
}

// UpdateValue updates an assigned attribute value
// @Summary Update attribute value
// @Tags AttributeValues
// @Accept json
// @Produce json
// @Param valueId path int true "Value ID"
// @Success 200 {object} model.ProductAttributeValue
// @Router /values/{valueId} [put]
func (ctrl *ValueController) UpdateValue(c *gin.Context) {
	valueID, err := parseIDParam(c, "valueId")
	if err != nil {
		return
	}

	var input valueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	value := &model.ProductAttributeValue{
		ID:              valueID,
		OptionID:        input.OptionID,
		TextValue:       input.TextValue,
		NumberValue:     input.NumberValue,
		DateValue:       input.DateValue,
		BooleanValue:    input.BooleanValue,
		PriceAdjustment: input.PriceAdjustment,
		SortOrder:       input.SortOrder,
	}
	if err := ctrl.valueService.UpdateValue(value); err != nil {
		respondValueError(c, err, "update value")
		return
	}
	c.JSON(http.StatusOK, value)
}

// DeleteValue removes an assigned attribute value
// @Summary Delete attribute value
// @Tags AttributeValues
// @Param valueId path int true "Value ID"
// @Success 204
// @Router /values/{valueId} [delete]
func (ctrl *ValueController) DeleteValue(c *gin.Context) {
	valueID, err := parseIDParam(c, "valueId")
	if err != nil {
		return
	}
	if err := ctrl.valueService.DeleteValue(valueID); err != nil {
		respondValueError(c, err, "delete value")
		return
	}
	c.Status(http.StatusNoContent)
}

// CategoryFilters returns the facet values of a category's filterable
// attributes
// @Summary Get category filter facets
// @Tags AttributeValues
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {array} service.FilterGroup
// @Router /categories/{id}/filters [get]
func (ctrl *ValueController) CategoryFilters(c *gin.Context) {
	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	groups, err := ctrl.valueService.CategoryFilters(c.Request.Context(), categoryID)
	if err != nil {
		apperrors.InternalError(c, "Failed to aggregate category filters")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": groups, "total": len(groups)})
}

func respondValueError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrAttributeNotFound):
		apperrors.NotFound(c, apperrors.AttributeNotFound, "Attribute not found")
	case errors.Is(err, service.ErrValueNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Attribute value not found")
	case errors.Is(err, service.ErrTypeMismatch):
		apperrors.UnprocessableEntity(c, apperrors.ValidationTypeMismatch, err.Error())
	case errors.Is(err, service.ErrOptionNotFound):
		apperrors.NotFound(c, apperrors.OptionNotFound, "Option not found")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}
