package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/service"
	apperrors "github.com/minjk/moamall-backend/internal/errors"
	"github.com/shopspring/decimal"
)

type CategoryAttributeController struct {
	attributeService service.AttributeService
	optionService    service.OptionService
}

func NewCategoryAttributeController(attributeService service.AttributeService, optionService service.OptionService) *CategoryAttributeController {
	return &CategoryAttributeController{
		attributeService: attributeService,
		optionService:    optionService,
	}
}

type overridesInput struct {
	OverrideDisplayName *string `json:"override_display_name"`
	IsRequired          *bool   `json:"is_required"`
	SortOrder           *int    `json:"sort_order"`
}

func (in overridesInput) toOverrides() service.AttributeOverrides {
	return service.AttributeOverrides{
		DisplayName: in.OverrideDisplayName,
		IsRequired:  in.IsRequired,
		SortOrder:   in.SortOrder,
	}
}

// AttachAttribute attaches a global attribute to a category
// @Summary Attach attribute to category
// @Tags CategoryAttributes
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Success 201 {object} model.CategoryAttribute
// @Router /categories/{id}/attributes [post]
func (ctrl *CategoryAttributeController) AttachAttribute(c *gin.Context) {
	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var input struct {
		AttributeID uint `json:"attribute_id" binding:"required"`
		overridesInput
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	attachment, err := ctrl.attributeService.AttachAttributeToCategory(categoryID, input.AttributeID, input.toOverrides())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
		case errors.Is(err, service.ErrAttributeNotFound):
			apperrors.NotFound(c, apperrors.AttributeNotFound, "Attribute not found")
		case errors.Is(err, service.ErrAttributeAlreadyAttached):
			apperrors.Conflict(c, apperrors.AttributeAlreadyAttached, "Attribute is already attached to this category")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "attach attribute to category")
		}
		return
	}
	c.JSON(http.StatusCreated, attachment)
}

// ListAttributes lists a category's attribute attachments
// @Summary List category attributes
// @Tags CategoryAttributes
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {array} model.CategoryAttribute
// @Router /categories/{id}/attributes [get]
func (ctrl *CategoryAttributeController) ListAttributes(c *gin.Context) {
	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	attachments, err := ctrl.attributeService.ListCategoryAttributes(categoryID)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.InternalError(c, "Failed to list category attributes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": attachments, "total": len(attachments)})
}

// UpdateOverrides replaces the attachment's override set. Omitted fields
// clear the override and revert to the global value.
// @Summary Update category attribute overrides
// @Tags CategoryAttributes
// @Accept json
// @Produce json
// @Param attachmentId path int true "Category attribute ID"
// @Success 200 {object} model.CategoryAttribute
// @Router /category-attributes/{attachmentId} [put]
func (ctrl *CategoryAttributeController) UpdateOverrides(c *gin.Context) {
	attachmentID, err := parseIDParam(c, "attachmentId")
	if err != nil {
		return
	}

	var input overridesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	attachment, err := ctrl.attributeService.UpdateCategoryAttributeOverrides(attachmentID, input.toOverrides())
	if err != nil {
		if errors.Is(err, service.ErrCategoryAttributeNotFound) {
			apperrors.NotFound(c, apperrors.AttributeNotAttached, "Attribute is not attached to this category")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update category attribute overrides")
		return
	}
	c.JSON(http.StatusOK, attachment)
}

// DetachAttribute removes the attachment. Product attributes that referenced
// it are detached, not deleted.
// @Summary Detach attribute from category
// @Tags CategoryAttributes
// @Param attachmentId path int true "Category attribute ID"
// @Success 204
// @Router /category-attributes/{attachmentId} [delete]
func (ctrl *CategoryAttributeController) DetachAttribute(c *gin.Context) {
	attachmentID, err := parseIDParam(c, "attachmentId")
	if err != nil {
		return
	}
	if err := ctrl.attributeService.DetachAttributeFromCategory(attachmentID); err != nil {
		if errors.Is(err, service.ErrCategoryAttributeNotFound) {
			apperrors.NotFound(c, apperrors.AttributeNotAttached, "Attribute is not attached to this category")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "detach attribute from category")
		return
	}
	c.Status(http.StatusNoContent)
}

// AddOption adds a category-tier option
// @Summary Add category attribute option
// @Tags CategoryAttributes
// @Accept json
// @Produce json
// @Param attachmentId path int true "Category attribute ID"
// @Success 201 {object} model.CategoryAttributeOption
// @Router /category-attributes/{attachmentId}/options [post]
func (ctrl *CategoryAttributeController) AddOption(c *gin.Context) {
	attachmentID, err := parseIDParam(c, "attachmentId")
	if err != nil {
		return
	}

	var input struct {
		BaseOptionID    *uint            `json:"base_option_id"`
		Value           string           `json:"value" binding:"required"`
		DisplayValue    string           `json:"display_value"`
		SortOrder       int              `json:"sort_order"`
		PriceAdjustment *decimal.Decimal `json:"price_adjustment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	option := &model.CategoryAttributeOption{
		CategoryAttributeID: attachmentID,
		BaseOptionID:        input.BaseOptionID,
		Value:               input.Value,
		DisplayValue:        input.DisplayValue,
		SortOrder:           input.SortOrder,
		PriceAdjustment:     input.PriceAdjustment,
	}
	if err := ctrl.optionService.AddCategoryOption(option); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryAttributeNotFound):
			apperrors.NotFound(c, apperrors.AttributeNotAttached, "Attribute is not attached to this category")
		case errors.Is(err, service.ErrOptionNotFound):
			apperrors.NotFound(c, apperrors.OptionNotFound, "Linked global option not found")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add category option")
		}
		return
	}
	c.JSON(http.StatusCreated, option)
}

// DeleteOption removes a category-tier option and detaches product options
// that linked it.
// @Summary Delete category attribute option
// @Tags CategoryAttributes
// @Param optionId path int true "Option ID"
// @Success 204
// @Router /category-attributes/options/{optionId} [delete]
func (ctrl *CategoryAttributeController) DeleteOption(c *gin.Context) {
	optionID, err := parseIDParam(c, "optionId")
	if err != nil {
		return
	}
	if err := ctrl.optionService.DeleteCategoryOption(optionID); err != nil {
		if errors.Is(err, service.ErrOptionNotFound) {
			apperrors.NotFound(c, apperrors.OptionNotFound, "Option not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete category option")
		return
	}
	c.Status(http.StatusNoContent)
}
