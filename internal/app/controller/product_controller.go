package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/service"
	apperrors "github.com/minjk/moamall-backend/internal/errors"
	"github.com/shopspring/decimal"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// CreateProduct creates a product
// @Summary Create product
// @Tags Products
// @Accept json
// @Produce json
// @Success 201 {object} model.Product
// @Router /products [post]
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var input struct {
		CategoryID  uint            `json:"category_id" binding:"required"`
		SKU         string          `json:"sku" binding:"required"`
		Name        string          `json:"name" binding:"required"`
		Description string          `json:"description"`
		BasePrice   decimal.Decimal `json:"base_price" binding:"required"`
		IsActive    *bool           `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	product := &model.Product{
		CategoryID:  input.CategoryID,
		SKU:         input.SKU,
		Name:        input.Name,
		Description: input.Description,
		BasePrice:   input.BasePrice,
		IsActive:    true,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := ctrl.productService.CreateProduct(product); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
		case errors.Is(err, service.ErrProductSKUExists):
			apperrors.Conflict(c, apperrors.ProductSKUExists, "A product with this SKU already exists")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create product")
		}
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GetProduct returns one product
// @Summary Get product
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} model.Product
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	product, err := ctrl.productService.GetProduct(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "Failed to load product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListProducts lists products, optionally scoped to a category
// @Summary List products
// @Tags Products
// @Produce json
// @Param category_id query int false "Category ID"
// @Success 200 {array} model.Product
// @Router /products [get]
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	var categoryID *uint
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category_id parameter")
			return
		}
		id := uint(parsed)
		categoryID = &id
	}

	products, err := ctrl.productService.ListProducts(categoryID)
	if err != nil {
		apperrors.InternalError(c, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products, "total": len(products)})
}

// UpdateProduct updates a product
// @Summary Update product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} model.Product
// @Router /products/{id} [put]
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	product, err := ctrl.productService.GetProduct(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "Failed to load product")
		return
	}

	var input struct {
		Name        *string          `json:"name"`
		Description *string          `json:"description"`
		BasePrice   *decimal.Decimal `json:"base_price"`
		IsActive    *bool            `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.BasePrice != nil {
		product.BasePrice = *input.BasePrice
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := ctrl.productService.UpdateProduct(product); err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct soft-deletes a product
// @Summary Delete product
// @Tags Products
// @Param id path int true "Product ID"
// @Success 204
// @Router /products/{id} [delete]
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	if err := ctrl.productService.DeleteProduct(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete product")
		return
	}
	c.Status(http.StatusNoContent)
}
