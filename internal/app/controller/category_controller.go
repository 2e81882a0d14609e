package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/service"
	apperrors "github.com/minjk/moamall-backend/internal/errors"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// CreateCategory creates a category
// @Summary Create category
// @Tags Categories
// @Accept json
// @Produce json
// @Success 201 {object} model.Category
// @Router /categories [post]
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Slug        string `json:"slug" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	category := &model.Category{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
	}
	if err := ctrl.categoryService.CreateCategory(category); err != nil {
		if errors.Is(err, service.ErrCategorySlugExists) {
			apperrors.Conflict(c, apperrors.ResourceAlreadyExists, "A category with this slug already exists")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

// GetCategory returns one category
// @Summary Get category
// @Tags Categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} model.Category
// @Router /categories/{id} [get]
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	category, err := ctrl.categoryService.GetCategory(id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.InternalError(c, "Failed to load category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// ListCategories lists all categories
// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {array} model.Category
// @Router /categories [get]
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	categories, err := ctrl.categoryService.ListCategories()
	if err != nil {
		apperrors.InternalError(c, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories, "total": len(categories)})
}

// UpdateCategory updates a category
// @Summary Update category
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} model.Category
// @Router /categories/{id} [put]
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	category, err := ctrl.categoryService.GetCategory(id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.InternalError(c, "Failed to load category")
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Slug        *string `json:"slug"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}
	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Slug != nil {
		category.Slug = *input.Slug
	}
	if input.Description != nil {
		category.Description = *input.Description
	}

	if err := ctrl.categoryService.UpdateCategory(category); err != nil {
		if errors.Is(err, service.ErrCategorySlugExists) {
			apperrors.Conflict(c, apperrors.ResourceAlreadyExists, "A category with this slug already exists")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category
// @Summary Delete category
// @Tags Categories
// @Param id path int true "Category ID"
// @Success 204
// @Router /categories/{id} [delete]
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	if err := ctrl.categoryService.DeleteCategory(id); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete category")
		return
	}
	c.Status(http.StatusNoContent)
}
