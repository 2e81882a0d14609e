package repository

import (
	"testing"

	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCombinationRepository_FindByHash(t *testing.T) {
	gdb := setupRepoTest(t)
	repo := NewCombinationRepository(gdb)
	product := seedProduct(t, gdb, "COMBO-01")
	other := seedProduct(t, gdb, "COMBO-02")

	combo := &model.ProductAttributeCombination{
		ProductID:       product.ID,
		CombinationHash: "1:red|2:XL",
		PriceAdjustment: decimal.NewFromInt(30),
		IsActive:        true,
	}
	require.NoError(t, repo.Create(combo))

	found, err := repo.FindByHash(product.ID, "1:red|2:XL")
	require.NoError(t, err)
	assert.Equal(t, combo.ID, found.ID)

	// The hash is scoped per product
	_, err = repo.FindByHash(other.ID, "1:red|2:XL")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByHash(product.ID, "1:red|2:M")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCombinationRepository_UniquePerProductAndHash(t *testing.T) {
	gdb := setupRepoTest(t)
	repo := NewCombinationRepository(gdb)
	product := seedProduct(t, gdb, "COMBO-03")
	other := seedProduct(t, gdb, "COMBO-04")

	first := &model.ProductAttributeCombination{
		ProductID: product.ID, CombinationHash: "1:red",
		PriceAdjustment: decimal.NewFromInt(10), IsActive: true,
	}
	require.NoError(t, repo.Create(first))

	dup := &model.ProductAttributeCombination{
		ProductID: product.ID, CombinationHash: "1:red",
		PriceAdjustment: decimal.NewFromInt(20), IsActive: true,
	}
	assert.Error(t, repo.Create(dup), "same product and hash must violate the unique index")

	// The same hash on another product is fine
	elsewhere := &model.ProductAttributeCombination{
		ProductID: other.ID, CombinationHash: "1:red",
		PriceAdjustment: decimal.NewFromInt(20), IsActive: true,
	}
	assert.NoError(t, repo.Create(elsewhere))
}
