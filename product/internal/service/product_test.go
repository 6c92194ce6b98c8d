package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/cache"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/repository/memory"
	"github.com/Alturino/storefront/product/pkg/request"
)

func newProduct() request.InsertProduct {
	price := decimal.RequireFromString("10.00")
	stock := int32(5)
	return request.InsertProduct{
		Name:          "keyboard",
		Description:   "mechanical keyboard",
		Price:         &price,
		Brand:         "acme",
		Category:      "peripherals",
		StockQuantity: &stock,
		ImageUrl:      "https://cdn.example.com/keyboard.png",
	}
}

func setup() (*ProductService, *memory.Store, *cache.MemoryCache) {
	store := memory.NewStore()
	memCache := cache.NewMemoryCache(16, time.Minute)
	return NewProductService(store, memCache), store, memCache
}

func TestFindProductById(t *testing.T) {
	c := context.Background()
	svc, store, memCache := setup()
	inserted, err := svc.InsertProduct(c, newProduct())
	require.NoError(t, err)

	found, err := svc.FindProductById(c, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, inserted.ID, found.ID)
	assert.True(t, decimal.RequireFromString("10").Equal(found.Price))

	cached := struct {
		Name string `json:"name"`
	}{}
	cacheKey := fmt.Sprintf(cache.KEY_PRODUCT, inserted.ID.String())
	require.NoError(t, memCache.Get(c, cacheKey, &cached))
	assert.Equal(t, "keyboard", cached.Name)

	_, err = store.DeleteProductById(c, inserted.ID)
	require.NoError(t, err)
	found, err = svc.FindProductById(c, inserted.ID)
	assert.NoError(t, err, "served from cache")
	assert.Equal(t, inserted.ID, found.ID)

	_, err = svc.FindProductById(c, uuid.New())
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
}

func TestUpdateProduct(t *testing.T) {
	c := context.Background()
	svc, _, _ := setup()
	inserted, err := svc.InsertProduct(c, newProduct())
	require.NoError(t, err)
	_, err = svc.FindProductById(c, inserted.ID)
	require.NoError(t, err)

	price := decimal.RequireFromString("12.50")
	updated, err := svc.UpdateProduct(c, inserted.ID, request.UpdateProduct{Price: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.Price))
	assert.Equal(t, "keyboard", updated.Name)

	found, err := svc.FindProductById(c, inserted.ID)
	require.NoError(t, err)
	assert.True(t, price.Equal(found.Price), "cache invalidated on update")

	_, err = svc.UpdateProduct(c, inserted.ID, request.UpdateProduct{})
	assert.ErrorIs(t, err, inErrors.ErrInvalidRequest)

	_, err = svc.UpdateProduct(c, uuid.New(), request.UpdateProduct{Price: &price})
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
}

func TestDeleteProductById(t *testing.T) {
	c := context.Background()
	svc, store, _ := setup()
	inserted, err := svc.InsertProduct(c, newProduct())
	require.NoError(t, err)
	ordered, err := svc.InsertProduct(c, newProduct())
	require.NoError(t, err)

	user, err := store.InsertUser(c, repository.InsertUserParams{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hashed",
	})
	require.NoError(t, err)
	order, err := store.InsertOrder(c, repository.InsertOrderParams{
		ID:          uuid.New(),
		UserID:      user.ID,
		Status:      repository.OrderStatusPending,
		TotalAmount: repository.NewNumeric(ordered.Price),
	})
	require.NoError(t, err)
	_, err = store.InsertOrderDetails(c, []repository.InsertOrderDetailsParams{{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: ordered.ID,
		Quantity:  1,
		UnitPrice: repository.NewNumeric(ordered.Price),
	}})
	require.NoError(t, err)

	tests := []struct {
		name        string
		id          uuid.UUID
		expectedErr error
	}{
		{name: "given unreferenced product should delete", id: inserted.ID, expectedErr: nil},
		{name: "given deleted product should return not found", id: inserted.ID, expectedErr: inErrors.ErrProductNotFound},
		{name: "given ordered product should return in use", id: ordered.ID, expectedErr: inErrors.ErrProductInUse},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			err := svc.DeleteProductById(c, test.id)

			assert.ErrorIs(t, err, test.expectedErr)
		})
	}
}

func TestFindProducts(t *testing.T) {
	c := context.Background()
	svc, _, _ := setup()

	products, err := svc.FindProducts(c)
	require.NoError(t, err)
	assert.Empty(t, products)

	second := newProduct()
	second.Name = "aardvark mouse"
	_, err = svc.InsertProduct(c, newProduct())
	require.NoError(t, err)
	_, err = svc.InsertProduct(c, second)
	require.NoError(t, err)

	products, err = svc.FindProducts(c)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "aardvark mouse", products[0].Name)
}
