package service

import (
	"testing"

	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/repository"
	"github.com/minjk/moamall-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// catalogFixture wires every catalog service against one in-memory database.
type catalogFixture struct {
	db *gorm.DB

	categoryRepo          repository.CategoryRepository
	productRepo           repository.ProductRepository
	attributeRepo         repository.AttributeRepository
	categoryAttributeRepo repository.CategoryAttributeRepository
	productAttributeRepo  repository.ProductAttributeRepository
	combinationRepo       repository.CombinationRepository
	valueRepo             repository.AttributeValueRepository

	attributes AttributeService
	options    OptionService
	pricing    PricingService
	values     ValueService
	products   ProductService
	categories CategoryService
}

func setupCatalogTest(t *testing.T) *catalogFixture {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	f := &catalogFixture{
		db:                    testDB,
		categoryRepo:          repository.NewCategoryRepository(testDB),
		productRepo:           repository.NewProductRepository(testDB),
		attributeRepo:         repository.NewAttributeRepository(testDB),
		categoryAttributeRepo: repository.NewCategoryAttributeRepository(testDB),
		productAttributeRepo:  repository.NewProductAttributeRepository(testDB),
		combinationRepo:       repository.NewCombinationRepository(testDB),
		valueRepo:             repository.NewAttributeValueRepository(testDB),
	}
	f.attributes = NewAttributeService(
		f.attributeRepo, f.categoryAttributeRepo, f.productAttributeRepo, f.productRepo, f.categoryRepo,
	)
	f.options = NewOptionService(f.attributeRepo, f.categoryAttributeRepo, f.productAttributeRepo)
	f.pricing = NewPricingService(f.productRepo, f.combinationRepo, f.attributes, f.options)
	f.values = NewValueService(f.valueRepo, f.attributeRepo, f.productRepo, 0)
	f.products = NewProductService(f.productRepo, f.categoryRepo)
	f.categories = NewCategoryService(f.categoryRepo)
	return f
}

func (f *catalogFixture) mustCategory(t *testing.T, name, slug string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, Slug: slug}
	require.NoError(t, f.categoryRepo.Create(category))
	return category
}

func (f *catalogFixture) mustProduct(t *testing.T, categoryID uint, sku string, basePrice string) *model.Product {
	t.Helper()
	product := &model.Product{
		CategoryID: categoryID,
		SKU:        sku,
		Name:       "Test " + sku,
		BasePrice:  decimal.RequireFromString(basePrice),
		IsActive:   true,
	}
	require.NoError(t, f.productRepo.Create(product))
	return product
}

func (f *catalogFixture) mustAttribute(t *testing.T, name string, attrType model.AttributeType, variant bool) *model.GlobalAttribute {
	t.Helper()
	attr := &model.GlobalAttribute{
		Name:        name,
		DisplayName: name,
		Type:        attrType,
		IsVariant:   variant,
		IsRequired:  variant,
	}
	require.NoError(t, f.attributes.CreateGlobalAttribute(attr))
	return attr
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }

func TestAttributeService_CreateGlobalAttribute(t *testing.T) {
	f := setupCatalogTest(t)

	t.Run("Rejects unknown type", func(t *testing.T) {
		attr := &model.GlobalAttribute{Name: "weird", DisplayName: "Weird", Type: "hologram"}
		err := f.attributes.CreateGlobalAttribute(attr)
		assert.ErrorIs(t, err, ErrAttributeTypeInvalid)
	})

	t.Run("Blank display name falls back to name", func(t *testing.T) {
		attr := &model.GlobalAttribute{Name: "material", Type: model.AttributeTypeText}
		require.NoError(t, f.attributes.CreateGlobalAttribute(attr))
		assert.Equal(t, "material", attr.DisplayName)
	})

	t.Run("Duplicate name rejected", func(t *testing.T) {
		attr := &model.GlobalAttribute{Name: "material", DisplayName: "Material", Type: model.AttributeTypeText}
		err := f.attributes.CreateGlobalAttribute(attr)
		assert.ErrorIs(t, err, ErrAttributeNameExists)
	})
}

func TestAttributeService_DisplayNameFallbackChain(t *testing.T) {
	f := setupCatalogTest(t)

	category := f.mustCategory(t, "Shirts", "shirts")
	product := f.mustProduct(t, category.ID, "SHIRT-001", "100")
	color := f.mustAttribute(t, "color", model.AttributeTypeColor, true)

	catAttr, err := f.attributes.AttachAttributeToCategory(category.ID, color.ID, AttributeOverrides{
		DisplayName: strPtr("Colour"),
	})
	require.NoError(t, err)

	prodAttr, err := f.attributes.AttachAttributeToProduct(product.ID, color.ID, &catAttr.ID, AttributeOverrides{})
	require.NoError(t, err)

	resolve := func() EffectiveAttribute {
		resolved, err := f.attributes.ResolveProductAttributes(product.ID)
		require.NoError(t, err)
		require.Len(t, resolved, 1)
		return resolved[0]
	}

	// No product override: the category override shows through
	assert.Equal(t, "Colour", resolve().DisplayName)
	assert.Equal(t, SourceCategory, resolve().Source)

	// Product override wins over both lower tiers
	_, err = f.attributes.UpdateProductAttributeOverrides(prodAttr.ID, AttributeOverrides{
		DisplayName: strPtr("Shade"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Shade", resolve().DisplayName)

	// Clearing the product override reverts to the category tier
	_, err = f.attributes.UpdateProductAttributeOverrides(prodAttr.ID, AttributeOverrides{})
	require.NoError(t, err)
	assert.Equal(t, "Colour", resolve().DisplayName)

	// Clearing the category override reverts to the global definition
	_, err = f.attributes.UpdateCategoryAttributeOverrides(catAttr.ID, AttributeOverrides{})
	require.NoError(t, err)
	assert.Equal(t, "color", resolve().DisplayName)
}

func TestAttributeService_RequiredAndSortOrderFallback(t *testing.T) {
	f := setupCatalogTest(t)

	category := f.mustCategory(t, "Shoes", "shoes")
	product := f.mustProduct(t, category.ID, "SHOE-001", "80")

	size := f.mustAttribute(t, "size", model.AttributeTypeSize, true) // required globally
	width := f.mustAttribute(t, "width", model.AttributeTypeText, false)

	catSize, err := f.attributes.AttachAttributeToCategory(category.ID, size.ID, AttributeOverrides{
		IsRequired: boolPtr(false),
		SortOrder:  intPtr(5),
	})
	require.NoError(t, err)

	_, err = f.attributes.AttachAttributeToProduct(product.ID, size.ID, &catSize.ID, AttributeOverrides{})
	require.NoError(t, err)
	_, err = f.attributes.AttachAttributeToProduct(product.ID, width.ID, nil, AttributeOverrides{
		SortOrder: intPtr(1),
	})
	require.NoError(t, err)

	resolved, err := f.attributes.ResolveProductAttributes(product.ID)
	require.NoError(t, err)
	require.Len(t, resolved, 2)

	// Ordered by resolved sort order: width (1) before size (5)
	assert.Equal(t, width.ID, resolved[0].AttributeID)
	assert.Equal(t, size.ID, resolved[1].AttributeID)

	// Category tier explicitly relaxed the global required flag
	assert.False(t, resolved[1].IsRequired)
	assert.Equal(t, 5, resolved[1].SortOrder)
}

func TestAttributeService_AttachErrors(t *testing.T) {
	f := setupCatalogTest(t)

	category := f.mustCategory(t, "Hats", "hats")
	otherCategory := f.mustCategory(t, "Bags", "bags")
	product := f.mustProduct(t, category.ID, "HAT-001", "25")
	color := f.mustAttribute(t, "color", model.AttributeTypeColor, true)
	size := f.mustAttribute(t, "size", model.AttributeTypeSize, true)

	t.Run("Missing product", func(t *testing.T) {
		_, err := f.attributes.AttachAttributeToProduct(9999, color.ID, nil, AttributeOverrides{})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("Missing attribute", func(t *testing.T) {
		_, err := f.attributes.AttachAttributeToProduct(product.ID, 9999, nil, AttributeOverrides{})
		assert.ErrorIs(t, err, ErrAttributeNotFound)
	})

	t.Run("Duplicate category attach", func(t *testing.T) {
		_, err := f.attributes.AttachAttributeToCategory(category.ID, color.ID, AttributeOverrides{})
		require.NoError(t, err)
		_, err = f.attributes.AttachAttributeToCategory(category.ID, color.ID, AttributeOverrides{})
		assert.ErrorIs(t, err, ErrAttributeAlreadyAttached)
	})

	t.Run("Category attachment must match the attribute", func(t *testing.T) {
		catSize, err := f.attributes.AttachAttributeToCategory(otherCategory.ID, size.ID, AttributeOverrides{})
		require.NoError(t, err)
		_, err = f.attributes.AttachAttributeToProduct(product.ID, color.ID, &catSize.ID, AttributeOverrides{})
		assert.ErrorIs(t, err, ErrCategoryMismatch)
	})

	t.Run("Duplicate product attach", func(t *testing.T) {
		_, err := f.attributes.AttachAttributeToProduct(product.ID, color.ID, nil, AttributeOverrides{})
		require.NoError(t, err)
		_, err = f.attributes.AttachAttributeToProduct(product.ID, color.ID, nil, AttributeOverrides{})
		assert.ErrorIs(t, err, ErrAttributeAlreadyAttached)
	})
}

func TestAttributeService_DetachCategoryOrphansProductLinks(t *testing.T) {
	f := setupCatalogTest(t)

	category := f.mustCategory(t, "Jackets", "jackets")
	product := f.mustProduct(t, category.ID, "JKT-001", "200")
	color := f.mustAttribute(t, "color", model.AttributeTypeColor, true)

	catAttr, err := f.attributes.AttachAttributeToCategory(category.ID, color.ID, AttributeOverrides{
		DisplayName: strPtr("Shell Colour"),
	})
	require.NoError(t, err)

	prodAttr, err := f.attributes.AttachAttributeToProduct(product.ID, color.ID, &catAttr.ID, AttributeOverrides{})
	require.NoError(t, err)

	require.NoError(t, f.attributes.DetachAttributeFromCategory(catAttr.ID))

	// The product attachment survives, detached from the category tier
	reloaded, err := f.productAttributeRepo.FindByID(prodAttr.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.CategoryAttributeID)

	// Resolution now falls straight through to the global definition
	resolved, err := f.attributes.ResolveProductAttributes(product.ID)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "color", resolved[0].DisplayName)
	assert.Equal(t, SourceGlobal, resolved[0].Source)
}

func TestAttributeService_DeleteGlobalAttributeRejectedWhileAttached(t *testing.T) {
	f := setupCatalogTest(t)

	category := f.mustCategory(t, "Sofas", "sofas")
	product := f.mustProduct(t, category.ID, "SOFA-001", "800")
	material := f.mustAttribute(t, "material", model.AttributeTypeSelect, true)

	catAttr, err := f.attributes.AttachAttributeToCategory(category.ID, material.ID, AttributeOverrides{})
	require.NoError(t, err)
	prodAttr, err := f.attributes.AttachAttributeToProduct(product.ID, material.ID, &catAttr.ID, AttributeOverrides{})
	require.NoError(t, err)

	err = f.attributes.DeleteGlobalAttribute(material.ID)
	assert.ErrorIs(t, err, ErrAttributeInUse)

	// The refused delete leaves resolution fully intact: the global
	// definition is still the terminal fallback for every field.
	resolved, err := f.attributes.ResolveProductAttributes(product.ID)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.NotEmpty(t, resolved[0].DisplayName)
	assert.Equal(t, "material", resolved[0].DisplayName)
	assert.Equal(t, model.AttributeTypeSelect, resolved[0].Type)
	assert.True(t, resolved[0].IsVariant)

	// One remaining reference of either kind still blocks the delete
	require.NoError(t, f.attributes.RemoveAttributeFromProduct(prodAttr.ID))
	err = f.attributes.DeleteGlobalAttribute(material.ID)
	assert.ErrorIs(t, err, ErrAttributeInUse)

	require.NoError(t, f.attributes.DetachAttributeFromCategory(catAttr.ID))
	require.NoError(t, f.attributes.DeleteGlobalAttribute(material.ID))

	_, err = f.attributes.GetGlobalAttribute(material.ID)
	assert.ErrorIs(t, err, ErrAttributeNotFound)
}
