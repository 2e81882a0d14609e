package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/repository"
	"github.com/minjk/moamall-backend/internal/app/service"
	"github.com/minjk/moamall-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pricingControllerFixture struct {
	router  *gin.Engine
	product *model.Product
	size    *model.GlobalAttribute
	color   *model.GlobalAttribute
}

func setupPricingControllerTest(t *testing.T) *pricingControllerFixture {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	categoryRepo := repository.NewCategoryRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	attributeRepo := repository.NewAttributeRepository(testDB)
	categoryAttributeRepo := repository.NewCategoryAttributeRepository(testDB)
	productAttributeRepo := repository.NewProductAttributeRepository(testDB)
	combinationRepo := repository.NewCombinationRepository(testDB)

	attributeService := service.NewAttributeService(
		attributeRepo, categoryAttributeRepo, productAttributeRepo, productRepo, categoryRepo,
	)
	optionService := service.NewOptionService(attributeRepo, categoryAttributeRepo, productAttributeRepo)
	pricingService := service.NewPricingService(productRepo, combinationRepo, attributeService, optionService)
	productService := service.NewProductService(productRepo, categoryRepo)

	pricingController := NewPricingController(pricingService, productService, attributeService)

	category := &model.Category{Name: "Tees", Slug: "tees"}
	require.NoError(t, categoryRepo.Create(category))
	product := &model.Product{
		CategoryID: category.ID, SKU: "TEE-API-001", Name: "API Tee",
		BasePrice: decimal.NewFromInt(100), IsActive: true,
	}
	require.NoError(t, productRepo.Create(product))

	size := &model.GlobalAttribute{Name: "size", DisplayName: "Size", Type: model.AttributeTypeSize, IsVariant: true, IsRequired: true}
	require.NoError(t, attributeService.CreateGlobalAttribute(size))
	color := &model.GlobalAttribute{Name: "color", DisplayName: "Color", Type: model.AttributeTypeColor, IsVariant: true, IsRequired: true}
	require.NoError(t, attributeService.CreateGlobalAttribute(color))

	for _, value := range []string{"M", "XL"} {
		require.NoError(t, optionService.AddGlobalOption(&model.GlobalAttributeOption{
			AttributeID: size.ID, Value: value,
		}))
	}

	_, err = attributeService.AttachAttributeToProduct(product.ID, size.ID, nil, service.AttributeOverrides{})
	require.NoError(t, err)
	colorAttr, err := attributeService.AttachAttributeToProduct(product.ID, color.ID, nil, service.AttributeOverrides{})
	require.NoError(t, err)

	adjustment := decimal.NewFromInt(35)
	require.NoError(t, optionService.AddProductOption(&model.ProductAttributeOption{
		ProductAttributeID: colorAttr.ID, Value: "black",
	}))
	require.NoError(t, optionService.AddProductOption(&model.ProductAttributeOption{
		ProductAttributeID: colorAttr.ID, Value: "red", PriceAdjustment: &adjustment,
	}))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/products/:id/price", pricingController.ComputePrice)
	router.POST("/products/:id/combinations", pricingController.CreateCombination)

	return &pricingControllerFixture{router: router, product: product, size: size, color: color}
}

func (f *pricingControllerFixture) postJSON(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestPricingController_ComputePrice(t *testing.T) {
	f := setupPricingControllerTest(t)
	pricePath := fmt.Sprintf("/products/%d/price", f.product.ID)

	t.Run("Additive quote", func(t *testing.T) {
		w := f.postJSON(t, pricePath, gin.H{"selection": map[string]string{
			fmt.Sprint(f.size.ID):  "M",
			fmt.Sprint(f.color.ID): "red",
		}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var quote service.PriceQuote
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
		assert.True(t, quote.FinalPrice.Equal(decimal.NewFromInt(135)), "got %s", quote.FinalPrice)
		assert.Nil(t, quote.MatchedCombinationID)
		assert.Len(t, quote.Breakdown, 2)
	})

	t.Run("Incomplete selection", func(t *testing.T) {
		w := f.postJSON(t, pricePath, gin.H{"selection": map[string]string{
			fmt.Sprint(f.size.ID): "M",
		}})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "PRICING_INCOMPLETE_SELECTION")
	})

	t.Run("Unknown option value", func(t *testing.T) {
		w := f.postJSON(t, pricePath, gin.H{"selection": map[string]string{
			fmt.Sprint(f.size.ID):  "M",
			fmt.Sprint(f.color.ID): "beige",
		}})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_OPTION")
	})

	t.Run("Unknown product", func(t *testing.T) {
		w := f.postJSON(t, "/products/9999/price", gin.H{"selection": map[string]string{}})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPricingController_CombinationFlow(t *testing.T) {
	f := setupPricingControllerTest(t)
	comboPath := fmt.Sprintf("/products/%d/combinations", f.product.ID)
	pricePath := fmt.Sprintf("/products/%d/price", f.product.ID)

	selection := map[string]string{
		fmt.Sprint(f.size.ID):  "XL",
		fmt.Sprint(f.color.ID): "red",
	}

	w := f.postJSON(t, comboPath, gin.H{"selection": selection, "price_adjustment": "30"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Creating the same selection again conflicts
	w = f.postJSON(t, comboPath, gin.H{"selection": selection, "price_adjustment": "40"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "COMBINATION_EXISTS")

	// Pricing that selection now returns the pinned amount
	w = f.postJSON(t, pricePath, gin.H{"selection": selection})
	require.Equal(t, http.StatusOK, w.Code)
	var quote service.PriceQuote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.True(t, quote.FinalPrice.Equal(decimal.NewFromInt(130)), "got %s", quote.FinalPrice)
	assert.NotNil(t, quote.MatchedCombinationID)
}
