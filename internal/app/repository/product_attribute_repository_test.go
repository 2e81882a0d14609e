package repository

import (
	"testing"

	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepoTest(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func seedProduct(t *testing.T, gdb *gorm.DB, sku string) *model.Product {
	t.Helper()
	category := &model.Category{Name: "Cat " + sku, Slug: "cat-" + sku}
	require.NoError(t, gdb.Create(category).Error)
	product := &model.Product{
		CategoryID: category.ID,
		SKU:        sku,
		Name:       "Product " + sku,
		BasePrice:  decimal.NewFromInt(100),
		IsActive:   true,
	}
	require.NoError(t, gdb.Create(product).Error)
	return product
}

func seedAttributeWithID(t *testing.T, gdb *gorm.DB, id uint, name string) *model.GlobalAttribute {
	t.Helper()
	attr := &model.GlobalAttribute{
		ID: id, Name: name, DisplayName: name,
		Type: model.AttributeTypeSelect, IsVariant: true,
	}
	require.NoError(t, gdb.Create(attr).Error)
	return attr
}

func TestProductAttributeRepository_DeleteCascade(t *testing.T) {
	gdb := setupRepoTest(t)
	repo := NewProductAttributeRepository(gdb)
	product := seedProduct(t, gdb, "CASCADE-01")

	// Attribute IDs 2 and 12 share a decimal prefix on purpose: the hash
	// patterns must not confuse them.
	attr2 := seedAttributeWithID(t, gdb, 2, "color")
	attr12 := seedAttributeWithID(t, gdb, 12, "size")

	pa2 := &model.ProductAttribute{ProductID: product.ID, AttributeID: attr2.ID}
	require.NoError(t, repo.Create(pa2))
	pa12 := &model.ProductAttribute{ProductID: product.ID, AttributeID: attr12.ID}
	require.NoError(t, repo.Create(pa12))

	require.NoError(t, repo.CreateOption(&model.ProductAttributeOption{
		ProductAttributeID: pa2.ID, Value: "red", DisplayValue: "Red",
	}))
	require.NoError(t, repo.CreateOption(&model.ProductAttributeOption{
		ProductAttributeID: pa12.ID, Value: "XL", DisplayValue: "XL",
	}))

	combos := []model.ProductAttributeCombination{
		{ProductID: product.ID, CombinationHash: "2:red|12:XL", PriceAdjustment: decimal.NewFromInt(10), IsActive: true},
		{ProductID: product.ID, CombinationHash: "12:XL", PriceAdjustment: decimal.NewFromInt(5), IsActive: true},
		{ProductID: product.ID, CombinationHash: "12:M", PriceAdjustment: decimal.NewFromInt(3), IsActive: true},
	}
	for i := range combos {
		require.NoError(t, gdb.Create(&combos[i]).Error)
	}

	// Removing attribute 2 must take only the hash that references "2:",
	// not the ones for attribute 12
	require.NoError(t, repo.DeleteCascade(pa2))

	var remaining []model.ProductAttributeCombination
	require.NoError(t, gdb.Where("product_id = ?", product.ID).Find(&remaining).Error)
	require.Len(t, remaining, 2)
	hashes := []string{remaining[0].CombinationHash, remaining[1].CombinationHash}
	assert.ElementsMatch(t, []string{"12:XL", "12:M"}, hashes)

	// The attachment and its options are gone
	_, err := repo.FindByID(pa2.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	options, err := repo.FindOptionsByProductAttributeID(pa2.ID)
	require.NoError(t, err)
	assert.Empty(t, options)

	// The sibling attribute is untouched
	kept, err := repo.FindByID(pa12.ID)
	require.NoError(t, err)
	assert.Len(t, kept.Options, 1)
}

func TestProductAttributeRepository_DeleteCascadeTailSegment(t *testing.T) {
	gdb := setupRepoTest(t)
	repo := NewProductAttributeRepository(gdb)
	product := seedProduct(t, gdb, "CASCADE-02")

	attr2 := seedAttributeWithID(t, gdb, 2, "color")
	seedAttributeWithID(t, gdb, 12, "size")

	pa2 := &model.ProductAttribute{ProductID: product.ID, AttributeID: attr2.ID}
	require.NoError(t, repo.Create(pa2))

	// Attribute 2 appears mid-hash here, reachable only via the "|2:" pattern
	combo := &model.ProductAttributeCombination{
		ProductID: product.ID, CombinationHash: "12:XL|2:red",
		PriceAdjustment: decimal.NewFromInt(10), IsActive: true,
	}
	require.NoError(t, gdb.Create(combo).Error)

	require.NoError(t, repo.DeleteCascade(pa2))

	var count int64
	require.NoError(t, gdb.Model(&model.ProductAttributeCombination{}).
		Where("product_id = ?", product.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProductAttributeRepository_UpdateOverridesWritesNulls(t *testing.T) {
	gdb := setupRepoTest(t)
	repo := NewProductAttributeRepository(gdb)
	product := seedProduct(t, gdb, "OVR-01")
	attr := seedAttributeWithID(t, gdb, 1, "color")

	name := "Shade"
	order := 3
	pa := &model.ProductAttribute{
		ProductID: product.ID, AttributeID: attr.ID,
		OverrideDisplayName: &name, SortOrder: &order,
	}
	require.NoError(t, repo.Create(pa))

	require.NoError(t, repo.UpdateOverrides(pa.ID, map[string]interface{}{
		"override_display_name": nil,
		"is_required":           nil,
		"sort_order":            nil,
	}))

	reloaded, err := repo.FindByID(pa.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.OverrideDisplayName)
	assert.Nil(t, reloaded.SortOrder)
}
