package service

import (
	"context"
	"testing"
	"time"

	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueService_SlotValidation(t *testing.T) {
	f := setupCatalogTest(t)

	category := f.mustCategory(t, "Laptops", "laptops")
	product := f.mustProduct(t, category.ID, "LAP-001", "1500")

	text := f.mustAttribute(t, "model-code", model.AttributeTypeText, false)
	number := f.mustAttribute(t, "weight-kg", model.AttributeTypeNumber, false)
	boolean := f.mustAttribute(t, "fanless", model.AttributeTypeBoolean, false)
	date := f.mustAttribute(t, "released-on", model.AttributeTypeDate, false)
	selectAttr := f.mustAttribute(t, "panel", model.AttributeTypeSelect, false)
	panelOption := &model.GlobalAttributeOption{AttributeID: selectAttr.ID, Value: "oled"}
	require.NoError(t, f.options.AddGlobalOption(panelOption))

	now := time.Now()
	weight := decimal.RequireFromString("1.35")
	yes := true
	code := "X1-2026"

	t.Run("Matching slot accepted per type", func(t *testing.T) {
		cases := []*model.ProductAttributeValue{
			{ProductID: product.ID, AttributeID: text.ID, TextValue: &code},
			{ProductID: product.ID, AttributeID: number.ID, NumberValue: &weight},
			{ProductID: product.ID, AttributeID: boolean.ID, BooleanValue: &yes},
			{ProductID: product.ID, AttributeID: date.ID, DateValue: &now},
			{ProductID: product.ID, AttributeID: selectAttr.ID, OptionID: &panelOption.ID},
		}
		for _, value := range cases {
			assert.NoError(t, f.values.AssignValue(value))
		}
	})

	t.Run("Wrong slot rejected", func(t *testing.T) {
		err := f.values.AssignValue(&model.ProductAttributeValue{
			ProductID: product.ID, AttributeID: text.ID, NumberValue: &weight,
		})
		assert.ErrorIs(t, err, ErrTypeMismatch)

		err = f.values.AssignValue(&model.ProductAttributeValue{
			ProductID: product.ID, AttributeID: selectAttr.ID, TextValue: &code,
		})
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("Exactly one slot required", func(t *testing.T) {
		err := f.values.AssignValue(&model.ProductAttributeValue{
			ProductID: product.ID, AttributeID: text.ID, TextValue: &code, NumberValue: &weight,
		})
		assert.ErrorIs(t, err, ErrTypeMismatch)

		err = f.values.AssignValue(&model.ProductAttributeValue{
			ProductID: product.ID, AttributeID: text.ID,
		})
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("Unknown option rejected", func(t *testing.T) {
		missing := uint(9999)
		err := f.values.AssignValue(&model.ProductAttributeValue{
			ProductID: product.ID, AttributeID: selectAttr.ID, OptionID: &missing,
		})
		assert.ErrorIs(t, err, ErrOptionNotFound)
	})

	t.Run("Option of another attribute rejected", func(t *testing.T) {
		finish := f.mustAttribute(t, "finish", model.AttributeTypeSelect, false)
		err := f.values.AssignValue(&model.ProductAttributeValue{
			ProductID: product.ID, AttributeID: finish.ID, OptionID: &panelOption.ID,
		})
		assert.ErrorIs(t, err, ErrOptionNotFound)
	})
}

func TestValueService_CategoryFilters(t *testing.T) {
	f := setupCatalogTest(t)

	category := f.mustCategory(t, "Monitors", "monitors")
	productA := f.mustProduct(t, category.ID, "MON-001", "300")
	productB := f.mustProduct(t, category.ID, "MON-002", "450")

	// brand is filterable; internal-note is not and must never surface
	brand := &model.GlobalAttribute{
		Name: "brand", DisplayName: "Brand", Type: model.AttributeTypeText, IsFilterable: true,
	}
	require.NoError(t, f.attributes.CreateGlobalAttribute(brand))
	note := &model.GlobalAttribute{
		Name: "internal-note", DisplayName: "Internal Note", Type: model.AttributeTypeText,
	}
	require.NoError(t, f.attributes.CreateGlobalAttribute(note))

	// panel is enumerated: its filter values must render the global
	// option's display value, not the raw option ID
	panel := &model.GlobalAttribute{
		Name: "panel", DisplayName: "Panel", Type: model.AttributeTypeSelect, IsFilterable: true,
	}
	require.NoError(t, f.attributes.CreateGlobalAttribute(panel))
	oled := &model.GlobalAttributeOption{AttributeID: panel.ID, Value: "oled", DisplayValue: "OLED"}
	require.NoError(t, f.options.AddGlobalOption(oled))

	acme, contoso, secret := "Acme", "Contoso", "do not publish"
	require.NoError(t, f.values.AssignValue(&model.ProductAttributeValue{
		ProductID: productA.ID, AttributeID: brand.ID, TextValue: &acme,
	}))
	require.NoError(t, f.values.AssignValue(&model.ProductAttributeValue{
		ProductID: productB.ID, AttributeID: brand.ID, TextValue: &acme,
	}))
	require.NoError(t, f.values.AssignValue(&model.ProductAttributeValue{
		ProductID: productB.ID, AttributeID: brand.ID, TextValue: &contoso,
	}))
	require.NoError(t, f.values.AssignValue(&model.ProductAttributeValue{
		ProductID: productA.ID, AttributeID: note.ID, TextValue: &secret,
	}))
	require.NoError(t, f.values.AssignValue(&model.ProductAttributeValue{
		ProductID: productA.ID, AttributeID: panel.ID, OptionID: &oled.ID,
	}))

	groups, err := f.values.CategoryFilters(context.Background(), category.ID)
	require.NoError(t, err)

	require.Len(t, groups, 2, "only filterable attributes surface")
	groupByAttr := map[uint]FilterGroup{}
	for _, group := range groups {
		groupByAttr[group.AttributeID] = group
	}

	brandGroup := groupByAttr[brand.ID]
	assert.Equal(t, "Brand", brandGroup.DisplayName)
	require.Len(t, brandGroup.Values, 2)
	counts := map[string]int64{}
	for _, value := range brandGroup.Values {
		counts[value.Value] = value.Count
	}
	assert.Equal(t, int64(2), counts["Acme"])
	assert.Equal(t, int64(1), counts["Contoso"])

	panelGroup := groupByAttr[panel.ID]
	require.Len(t, panelGroup.Values, 1)
	assert.Equal(t, "OLED", panelGroup.Values[0].DisplayValue)
	require.NotNil(t, panelGroup.Values[0].OptionID)
	assert.Equal(t, oled.ID, *panelGroup.Values[0].OptionID)
}

func TestValueService_UpdateAndDelete(t *testing.T) {
	f := setupCatalogTest(t)

	category := f.mustCategory(t, "Desks", "desks")
	product := f.mustProduct(t, category.ID, "DESK-001", "250")
	depth := f.mustAttribute(t, "depth-cm", model.AttributeTypeNumber, false)

	initial := decimal.RequireFromString("60")
	value := &model.ProductAttributeValue{ProductID: product.ID, AttributeID: depth.ID, NumberValue: &initial}
	require.NoError(t, f.values.AssignValue(value))

	// Update keeps the product/attribute binding and re-validates the slot
	updated := decimal.RequireFromString("75")
	require.NoError(t, f.values.UpdateValue(&model.ProductAttributeValue{
		ID: value.ID, NumberValue: &updated,
	}))
	reloaded, err := f.values.GetValue(value.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, reloaded.ProductID)
	assert.True(t, reloaded.NumberValue.Equal(updated))

	require.NoError(t, f.values.DeleteValue(value.ID))
	_, err = f.values.GetValue(value.ID)
	assert.ErrorIs(t, err, ErrValueNotFound)

	err = f.values.DeleteValue(value.ID)
	assert.ErrorIs(t, err, ErrValueNotFound)
}
