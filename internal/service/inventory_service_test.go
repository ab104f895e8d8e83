package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddProductValidation(t *testing.T) {
	is := NewInventoryService(nil, nil, nil)
	ctx := context.Background()

	_, err := is.AddProduct(ctx, "", 9.99, 10)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = is.AddProduct(ctx, "Widget", -1, 10)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = is.AddProduct(ctx, "Widget", 9.99, -5)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIncreaseStockRejectsNonPositiveAmounts(t *testing.T) {
	is := NewInventoryService(nil, nil, nil)
	ctx := context.Background()

	assert.ErrorIs(t, is.IncreaseStock(ctx, 1, 0), ErrValidation)
	assert.ErrorIs(t, is.IncreaseStock(ctx, 1, -3), ErrValidation)
}

func TestPurchaseRejectsNonPositiveQuantity(t *testing.T) {
	is := NewInventoryService(nil, nil, nil)
	ctx := context.Background()

	_, err := is.Purchase(ctx, 1, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = is.Purchase(ctx, 1, -2)
	assert.ErrorIs(t, err, ErrValidation)
}
