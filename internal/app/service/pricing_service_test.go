package service

import (
	"testing"

	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinationHash(t *testing.T) {
	t.Run("Sorted numerically by attribute ID", func(t *testing.T) {
		// 2 sorts before 12 numerically; lexicographic sorting would put
		// "12:" first
		hash := CombinationHash(map[uint]string{12: "XL", 2: "red"})
		assert.Equal(t, "2:red|12:XL", hash)
	})

	t.Run("Order invariant", func(t *testing.T) {
		a := CombinationHash(map[uint]string{1: "red", 2: "XL", 3: "cotton"})
		b := CombinationHash(map[uint]string{3: "cotton", 1: "red", 2: "XL"})
		assert.Equal(t, a, b)
	})

	t.Run("Single pair has no separator", func(t *testing.T) {
		assert.Equal(t, "7:blue", CombinationHash(map[uint]string{7: "blue"}))
	})
}

// pricingFixture is a product with two variant attributes: size (S/M/L/XL)
// and color (black/red, red at +35), base price 100.
type pricingFixture struct {
	*catalogFixture
	product *model.Product
	size    *model.GlobalAttribute
	color   *model.GlobalAttribute
}

func setupPricingTest(t *testing.T) *pricingFixture {
	t.Helper()
	f := setupCatalogTest(t)

	category := f.mustCategory(t, "Tees", "tees")
	product := f.mustProduct(t, category.ID, "TEE-001", "100")
	size := f.mustAttribute(t, "size", model.AttributeTypeSize, true)
	color := f.mustAttribute(t, "color", model.AttributeTypeColor, true)

	for _, value := range []string{"S", "M", "L", "XL"} {
		require.NoError(t, f.options.AddGlobalOption(&model.GlobalAttributeOption{
			AttributeID: size.ID, Value: value,
		}))
	}

	_, err := f.attributes.AttachAttributeToProduct(product.ID, size.ID, nil, AttributeOverrides{})
	require.NoError(t, err)
	colorAttr, err := f.attributes.AttachAttributeToProduct(product.ID, color.ID, nil, AttributeOverrides{})
	require.NoError(t, err)

	require.NoError(t, f.options.AddProductOption(&model.ProductAttributeOption{
		ProductAttributeID: colorAttr.ID, Value: "black",
	}))
	require.NoError(t, f.options.AddProductOption(&model.ProductAttributeOption{
		ProductAttributeID: colorAttr.ID, Value: "red", PriceAdjustment: decPtr("35"),
	}))

	return &pricingFixture{catalogFixture: f, product: product, size: size, color: color}
}

func (f *pricingFixture) selection(size, color string) map[uint]string {
	return map[uint]string{f.size.ID: size, f.color.ID: color}
}

func TestPricingService_AdditivePrice(t *testing.T) {
	f := setupPricingTest(t)

	quote, err := f.pricing.ComputePrice(f.product.ID, f.selection("M", "red"))
	require.NoError(t, err)

	assert.True(t, quote.FinalPrice.Equal(decimal.RequireFromString("135")),
		"base 100 + red 35, got %s", quote.FinalPrice)
	assert.Nil(t, quote.MatchedCombinationID)
	require.Len(t, quote.Breakdown, 2)

	quote, err = f.pricing.ComputePrice(f.product.ID, f.selection("M", "black"))
	require.NoError(t, err)
	assert.True(t, quote.FinalPrice.Equal(decimal.RequireFromString("100")))
}

func TestPricingService_CombinationOverridesAdditive(t *testing.T) {
	f := setupPricingTest(t)

	// Pin XL/red at base+30, below the additive 135
	combo, err := f.pricing.CreateCombination(f.product.ID, f.selection("XL", "red"),
		decimal.RequireFromString("30"), nil, nil)
	require.NoError(t, err)

	quote, err := f.pricing.ComputePrice(f.product.ID, f.selection("XL", "red"))
	require.NoError(t, err)
	assert.True(t, quote.FinalPrice.Equal(decimal.RequireFromString("130")),
		"pinned combination wins, got %s", quote.FinalPrice)
	require.NotNil(t, quote.MatchedCombinationID)
	assert.Equal(t, combo.ID, *quote.MatchedCombinationID)
	assert.Empty(t, quote.Breakdown)

	// Other selections still price additively
	quote, err = f.pricing.ComputePrice(f.product.ID, f.selection("L", "red"))
	require.NoError(t, err)
	assert.True(t, quote.FinalPrice.Equal(decimal.RequireFromString("135")))
	assert.Nil(t, quote.MatchedCombinationID)

	// Deleting the combination reverts to the additive path
	require.NoError(t, f.pricing.DeleteCombination(combo.ID))
	quote, err = f.pricing.ComputePrice(f.product.ID, f.selection("XL", "red"))
	require.NoError(t, err)
	assert.True(t, quote.FinalPrice.Equal(decimal.RequireFromString("135")))
}

func TestPricingService_InactiveCombinationIgnored(t *testing.T) {
	f := setupPricingTest(t)

	combo, err := f.pricing.CreateCombination(f.product.ID, f.selection("S", "red"),
		decimal.RequireFromString("30"), nil, nil)
	require.NoError(t, err)

	inactive := false
	_, err = f.pricing.UpdateCombination(combo.ID, combo.PriceAdjustment, nil, nil, &inactive)
	require.NoError(t, err)

	quote, err := f.pricing.ComputePrice(f.product.ID, f.selection("S", "red"))
	require.NoError(t, err)
	assert.True(t, quote.FinalPrice.Equal(decimal.RequireFromString("135")))
	assert.Nil(t, quote.MatchedCombinationID)
}

func TestPricingService_RoundsOnceAtTheEnd(t *testing.T) {
	f := setupCatalogTest(t)

	category := f.mustCategory(t, "Prints", "prints")
	product := f.mustProduct(t, category.ID, "PRINT-001", "0")

	// Two adjustments of 10.005: rounding each line first gives 20.00 or
	// 20.02 depending on mode; summing at full precision gives 20.01
	for _, name := range []string{"frame", "glass"} {
		attr := f.mustAttribute(t, name, model.AttributeTypeSelect, true)
		prodAttr, err := f.attributes.AttachAttributeToProduct(product.ID, attr.ID, nil, AttributeOverrides{})
		require.NoError(t, err)
		require.NoError(t, f.options.AddProductOption(&model.ProductAttributeOption{
			ProductAttributeID: prodAttr.ID,
			Value:              "premium",
			PriceAdjustment:    decPtr("10.005"),
		}))
	}

	resolved, err := f.attributes.ResolveProductAttributes(product.ID)
	require.NoError(t, err)
	selection := map[uint]string{}
	for _, attr := range resolved {
		selection[attr.AttributeID] = "premium"
	}

	quote, err := f.pricing.ComputePrice(product.ID, selection)
	require.NoError(t, err)
	assert.True(t, quote.FinalPrice.Equal(decimal.RequireFromString("20.01")),
		"expected 20.01, got %s", quote.FinalPrice)
}

func TestPricingService_SelectionValidation(t *testing.T) {
	f := setupPricingTest(t)

	t.Run("Missing required variant attribute", func(t *testing.T) {
		_, err := f.pricing.ComputePrice(f.product.ID, map[uint]string{f.size.ID: "M"})
		assert.ErrorIs(t, err, ErrIncompleteSelection)
	})

	t.Run("Unknown enumerated value", func(t *testing.T) {
		_, err := f.pricing.ComputePrice(f.product.ID, f.selection("M", "chartreuse"))
		assert.ErrorIs(t, err, ErrInvalidOptionValue)
	})

	t.Run("Non-variant selections ignored", func(t *testing.T) {
		material := f.mustAttribute(t, "material", model.AttributeTypeText, false)
		_, err := f.attributes.AttachAttributeToProduct(f.product.ID, material.ID, nil, AttributeOverrides{})
		require.NoError(t, err)

		selection := f.selection("M", "black")
		selection[material.ID] = "cotton"
		quote, err := f.pricing.ComputePrice(f.product.ID, selection)
		require.NoError(t, err)
		assert.True(t, quote.FinalPrice.Equal(decimal.RequireFromString("100")))
		assert.NotContains(t, quote.CombinationHash, "cotton",
			"non-variant values stay out of the hash")
	})

	t.Run("Unknown product", func(t *testing.T) {
		_, err := f.pricing.ComputePrice(9999, map[uint]string{})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestPricingService_CreateCombination(t *testing.T) {
	f := setupPricingTest(t)

	t.Run("Duplicate selection rejected", func(t *testing.T) {
		_, err := f.pricing.CreateCombination(f.product.ID, f.selection("M", "red"),
			decimal.RequireFromString("20"), nil, nil)
		require.NoError(t, err)

		// Same selection in a different key order hashes identically
		_, err = f.pricing.CreateCombination(f.product.ID, map[uint]string{
			f.color.ID: "red", f.size.ID: "M",
		}, decimal.RequireFromString("25"), nil, nil)
		assert.ErrorIs(t, err, ErrCombinationExists)
	})

	t.Run("Selection validated like pricing", func(t *testing.T) {
		_, err := f.pricing.CreateCombination(f.product.ID, f.selection("M", "chartreuse"),
			decimal.Zero, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidOptionValue)
	})

	t.Run("Display snapshot recorded", func(t *testing.T) {
		combo, err := f.pricing.CreateCombination(f.product.ID, f.selection("L", "black"),
			decimal.RequireFromString("5"), nil, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, combo.Attributes)
		assert.Contains(t, string(combo.Attributes), "black")
	})
}
