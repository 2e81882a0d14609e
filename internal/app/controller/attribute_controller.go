package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/service"
	apperrors "github.com/minjk/moamall-backend/internal/errors"
	"gorm.io/datatypes"
)

type AttributeController struct {
	attributeService service.AttributeService
	optionService    service.OptionService
}

func NewAttributeController(attributeService service.AttributeService, optionService service.OptionService) *AttributeController {
	return &AttributeController{
		attributeService: attributeService,
		optionService:    optionService,
	}
}

// CreateAttribute creates a global attribute definition
// @Summary Create global attribute
// @Tags Attributes
// @Accept json
// @Produce json
// @Success 201 {object} model.GlobalAttribute
// @Router /attributes [post]
func (ctrl *AttributeController) CreateAttribute(c *gin.Context) {
	var input struct {
		Name            string         `json:"name" binding:"required"`
		DisplayName     string         `json:"display_name" binding:"required"`
		Type            string         `json:"type" binding:"required"`
		IsFilterable    bool           `json:"is_filterable"`
		IsSwatch        bool           `json:"is_swatch"`
		IsRequired      bool           `json:"is_required"`
		IsVariant       bool           `json:"is_variant"`
		ValidationRules datatypes.JSON `json:"validation_rules"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	attr := &model.GlobalAttribute{
		Name:            input.Name,
		DisplayName:     input.DisplayName,
		Type:            model.AttributeType(input.Type),
		IsFilterable:    input.IsFilterable,
		IsSwatch:        input.IsSwatch,
		IsRequired:      input.IsRequired,
		IsVariant:       input.IsVariant,
		ValidationRules: input.ValidationRules,
	}
	if err := ctrl.attributeService.CreateGlobalAttribute(attr); err != nil {
		switch {
		case errors.Is(err, service.ErrAttributeTypeInvalid):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown attribute type")
		case errors.Is(err, service.ErrAttributeNameExists):
			apperrors.Conflict(c, apperrors.AttributeNameExists, "An attribute with this name already exists")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create attribute")
		}
		return
	}
	c.JSON(http.StatusCreated, attr)
}

// GetAttribute returns one global attribute
// @Summary Get global attribute
// @Tags Attributes
// @Produce json
// @Param id path int true "Attribute ID"
// @Success 200 {object} model.GlobalAttribute
// @Router /attributes/{id} [get]
func (ctrl *AttributeController) GetAttribute(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	attr, err := ctrl.attributeService.GetGlobalAttribute(id)
	if err != nil {
		if errors.Is(err, service.ErrAttributeNotFound) {
			apperrors.NotFound(c, apperrors.AttributeNotFound, "Attribute not found")
			return
		}
		apperrors.InternalError(c, "Failed to load attribute")
		return
	}
	c.JSON(http.StatusOK, attr)
}

// ListAttributes returns all global attributes
// @Summary List global attributes
// @Tags Attributes
// @Produce json
// @Success 200 {array} model.GlobalAttribute
// @Router /attributes [get]
func (ctrl *AttributeController) ListAttributes(c *gin.Context) {
	attrs, err := ctrl.attributeService.ListGlobalAttributes()
	if err != nil {
		apperrors.InternalError(c, "Failed to list attributes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": attrs, "total": len(attrs)})
}

// UpdateAttribute updates a global attribute definition
// @Summary Update global attribute
// @Tags Attributes
// @Accept json
// @Produce json
// @Param id path int true "Attribute ID"
// @Success 200 {object} model.GlobalAttribute
// @Router /attributes/{id} [put]
func (ctrl *AttributeController) UpdateAttribute(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	attr, err := ctrl.attributeService.GetGlobalAttribute(id)
	if err != nil {
		if errors.Is(err, service.ErrAttributeNotFound) {
			apperrors.NotFound(c, apperrors.AttributeNotFound, "Attribute not found")
			return
		}
		apperrors.InternalError(c, "Failed to load attribute")
		return
	}

	var input struct {
		DisplayName     *string         `json:"display_name"`
		IsFilterable    *bool           `json:"is_filterable"`
		IsSwatch        *bool           `json:"is_swatch"`
		IsRequired      *bool           `json:"is_required"`
		IsVariant       *bool           `json:"is_variant"`
		ValidationRules *datatypes.JSON `json:"validation_rules"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}
	if input.DisplayName != nil {
		attr.DisplayName = *input.DisplayName
	}
	if input.IsFilterable != nil {
		attr.IsFilterable = *input.IsFilterable
	}
	if input.IsSwatch != nil {
		attr.IsSwatch = *input.IsSwatch
	}
	if input.IsRequired != nil {
		attr.IsRequired = *input.IsRequired
	}
	if input.IsVariant != nil {
		attr.IsVariant = *input.IsVariant
	}
	if input.ValidationRules != nil {
		attr.ValidationRules = *input.ValidationRules
	}

	if err := ctrl.attributeService.UpdateGlobalAttribute(attr); err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update attribute")
		return
	}
	c.JSON(http.StatusOK, attr)
}

// DeleteAttribute removes a global attribute and its options
// @Summary Delete global attribute
// @Tags Attributes
// @Param id path int true "Attribute ID"
// @Success 204
// @Router /attributes/{id} [delete]
func (ctrl *AttributeController) DeleteAttribute(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	if err := ctrl.attributeService.DeleteGlobalAttribute(id); err != nil {
		if errors.Is(err, service.ErrAttributeNotFound) {
			apperrors.NotFound(c, apperrors.AttributeNotFound, "Attribute not found")
			return
		}
		if errors.Is(err, service.ErrAttributeInUse) {
			apperrors.Conflict(c, apperrors.AttributeInUse, "Attribute is still attached to categories or products")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete attribute")
		return
	}
	c.Status(http.StatusNoContent)
}

// AddOption adds an option to a global attribute
// @Summary Add global attribute option
// @Tags Attributes
// @Accept json
// @Produce json
// @Param id path int true "Attribute ID"
// @Success 201 {object} model.GlobalAttributeOption
// @Router /attributes/{id}/options [post]
func (ctrl *AttributeController) AddOption(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var input struct {
		Value        string         `json:"value" binding:"required"`
		DisplayValue string         `json:"display_value"`
		SortOrder    int            `json:"sort_order"`
		Metadata     datatypes.JSON `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	option := &model.GlobalAttributeOption{
		AttributeID:  id,
		Value:        input.Value,
		DisplayValue: input.DisplayValue,
		SortOrder:    input.SortOrder,
		Metadata:     input.Metadata,
	}
	if err := ctrl.optionService.AddGlobalOption(option); err != nil {
		switch {
		case errors.Is(err, service.ErrAttributeNotFound):
			apperrors.NotFound(c, apperrors.AttributeNotFound, "Attribute not found")
		case errors.Is(err, service.ErrNotEnumerated):
			apperrors.BadRequest(c, apperrors.AttributeNotEnumerated, "Attribute type does not take options")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add option")
		}
		return
	}
	c.JSON(http.StatusCreated, option)
}

// DeleteOption removes a global attribute option
// @Summary Delete global attribute option
// @Tags Attributes
// @Param optionId path int true "Option ID"
// @Success 204
// @Router /attributes/options/{optionId} [delete]
func (ctrl *AttributeController) DeleteOption(c *gin.Context) {
	optionID, err := parseIDParam(c, "optionId")
	if err != nil {
		return
	}
	if err := ctrl.optionService.DeleteGlobalOption(optionID); err != nil {
		if errors.Is(err, service.ErrOptionNotFound) {
			apperrors.NotFound(c, apperrors.OptionNotFound, "Option not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete option")
		return
	}
	c.Status(http.StatusNoContent)
}

// parseIDParam parses a numeric path parameter, responding 400 on failure.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name+" parameter")
		return 0, err
	}
	return uint(raw), nil
}
