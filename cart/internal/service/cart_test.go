package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/internal/config"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/repository/memory"
)

var strategies = []string{config.CONCURRENCY_LOCK, config.CONCURRENCY_OPTIMISTIC}

func quantity(q int32) *int32 {
	return &q
}

func seed(t *testing.T, store repository.Querier) (repository.User, repository.Product) {
	t.Helper()
	c := context.Background()
	user, err := store.InsertUser(c, repository.InsertUserParams{
		ID:       uuid.New(),
		Username: "alice",
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()),
		Password: "hashed",
	})
	require.NoError(t, err)
	product, err := store.InsertProduct(c, repository.InsertProductParams{
		ID:            uuid.New(),
		Name:          "keyboard",
		Price:         repository.NewNumeric(decimal.RequireFromString("10.00")),
		StockQuantity: 5,
		ImageUrl:      "keyboard.png",
	})
	require.NoError(t, err)
	return user, product
}

func newService(store repository.Store, concurrency string) *CartService {
	return NewCartService(store, config.Cart{Concurrency: concurrency, MaxRetries: 5})
}

func TestAddItem(t *testing.T) {
	for _, strategy := range strategies {
		strategy := strategy
		t.Run(strategy, func(t *testing.T) {
			tests := []struct {
				name             string
				quantities       []*int32
				unknownProduct   bool
				expectedQuantity int32
				expectedErr      error
			}{
				{
					name:             "given quantity twice should merge into one item",
					quantities:       []*int32{quantity(3), quantity(3)},
					expectedQuantity: 6,
				},
				{
					name:             "given no quantity should default to one",
					quantities:       []*int32{nil},
					expectedQuantity: 1,
				},
				{
					name:        "given zero quantity should return invalid quantity",
					quantities:  []*int32{quantity(0)},
					expectedErr: inErrors.ErrInvalidQuantity,
				},
				{
					name:        "given negative quantity should return invalid quantity",
					quantities:  []*int32{quantity(-2)},
					expectedErr: inErrors.ErrInvalidQuantity,
				},
				{
					name:             "given merge past int32 range should return invalid quantity and keep item",
					quantities:       []*int32{quantity(math.MaxInt32), quantity(1)},
					expectedQuantity: math.MaxInt32,
					expectedErr:      inErrors.ErrInvalidQuantity,
				},
				{
					name:           "given unknown product should return unknown product",
					quantities:     []*int32{quantity(1)},
					unknownProduct: true,
					expectedErr:    inErrors.ErrUnknownProduct,
				},
			}
			for _, test := range tests {
				test := test
				t.Run(test.name, func(t *testing.T) {
					c := context.Background()
					store := memory.NewStore()
					user, product := seed(t, store)
					svc := newService(store, strategy)
					productID := product.ID
					if test.unknownProduct {
						productID = uuid.New()
					}

					var err error
					for _, q := range test.quantities {
						_, err = svc.AddItem(c, user.ID, request.AddItem{ProductID: productID, Quantity: q})
					}

					assert.ErrorIs(t, err, test.expectedErr)
					cart, findErr := svc.FindCart(c, user.ID)
					require.NoError(t, findErr)
					if test.expectedErr != nil && test.expectedQuantity == 0 {
						assert.Empty(t, cart.Items)
						return
					}
					require.Len(t, cart.Items, 1)
					assert.Equal(t, test.expectedQuantity, cart.Items[0].Quantity)
				})
			}
		})
	}
}

func TestAddItemConcurrently(t *testing.T) {
	for _, strategy := range strategies {
		strategy := strategy
		t.Run(strategy, func(t *testing.T) {
			c := context.Background()
			store := memory.NewStore()
			user, product := seed(t, store)
			svc := newService(store, strategy)

			callers := 8
			var wg sync.WaitGroup
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := svc.AddItem(c, user.ID, request.AddItem{ProductID: product.ID, Quantity: quantity(1)})
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			cart, err := svc.FindCart(c, user.ID)
			require.NoError(t, err)
			require.Len(t, cart.Items, 1)
			assert.EqualValues(t, callers, cart.Items[0].Quantity)
		})
	}
}

func TestRemoveItem(t *testing.T) {
	for _, strategy := range strategies {
		strategy := strategy
		t.Run(strategy, func(t *testing.T) {
			tests := []struct {
				name             string
				remove           *int32
				otherUser        bool
				unknownCart      bool
				unknownProduct   bool
				expectedMessage  string
				expectedQuantity int32
				expectedErr      error
			}{
				{
					name:             "given less than quantity should decrement",
					remove:           quantity(1),
					expectedMessage:  fmt.Sprintf(MESSAGE_QUANTITY_UPDATED, 2),
					expectedQuantity: 2,
				},
				{
					name:            "given exact quantity should delete item",
					remove:          quantity(3),
					expectedMessage: MESSAGE_ITEM_REMOVED,
				},
				{
					name:            "given more than quantity should delete item",
					remove:          quantity(10),
					expectedMessage: MESSAGE_ITEM_REMOVED,
				},
				{
					name:        "given zero quantity should return invalid quantity",
					remove:      quantity(0),
					expectedErr: inErrors.ErrInvalidQuantity,
				},
				{
					name:        "given no quantity should return invalid quantity",
					remove:      nil,
					expectedErr: inErrors.ErrInvalidQuantity,
				},
				{
					name:        "given other user's cart should return not authorized",
					remove:      quantity(1),
					otherUser:   true,
					expectedErr: inErrors.ErrNotAuthorized,
				},
				{
					name:        "given unknown cart should return item not found",
					remove:      quantity(1),
					unknownCart: true,
					expectedErr: inErrors.ErrItemNotFound,
				},
				{
					name:           "given product not in cart should return item not found",
					remove:         quantity(1),
					unknownProduct: true,
					expectedErr:    inErrors.ErrItemNotFound,
				},
			}
			for _, test := range tests {
				test := test
				t.Run(test.name, func(t *testing.T) {
					c := context.Background()
					store := memory.NewStore()
					user, product := seed(t, store)
					other, _ := seed(t, store)
					svc := newService(store, strategy)
					added, err := svc.AddItem(c, user.ID, request.AddItem{ProductID: product.ID, Quantity: quantity(3)})
					require.NoError(t, err)

					userID, cartID, productID := user.ID, added.CartID, product.ID
					if test.otherUser {
						userID = other.ID
					}
					if test.unknownCart {
						cartID = uuid.New()
					}
					if test.unknownProduct {
						productID = uuid.New()
					}

					res, err := svc.RemoveItem(c, userID, cartID, request.RemoveItem{ProductID: productID, Quantity: test.remove})

					assert.ErrorIs(t, err, test.expectedErr)
					cart, findErr := svc.FindCart(c, user.ID)
					require.NoError(t, findErr)
					if test.expectedErr != nil {
						require.Len(t, cart.Items, 1)
						assert.EqualValues(t, 3, cart.Items[0].Quantity)
						return
					}
					assert.Equal(t, test.expectedMessage, res.Message)
					if test.expectedQuantity == 0 {
						assert.Empty(t, cart.Items)
						return
					}
					require.Len(t, cart.Items, 1)
					assert.Equal(t, test.expectedQuantity, cart.Items[0].Quantity)
				})
			}
		})
	}
}

func TestFindCart(t *testing.T) {
	c := context.Background()
	store := memory.NewStore()
	user, product := seed(t, store)
	svc := newService(store, config.CONCURRENCY_LOCK)

	cart, err := svc.FindCart(c, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Nil(t, cart.CartID)

	_, err = svc.AddItem(c, user.ID, request.AddItem{ProductID: product.ID, Quantity: quantity(3)})
	require.NoError(t, err)

	cart, err = svc.FindCart(c, user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	item := cart.Items[0]
	assert.Equal(t, product.ID, item.ProductID)
	assert.Equal(t, "keyboard", item.ProductName)
	assert.Equal(t, "keyboard.png", item.ProductImage)
	assert.True(t, decimal.RequireFromString("10").Equal(item.Price))
	assert.True(t, decimal.RequireFromString("30").Equal(item.TotalPrice))
}

// conflictingStore makes the first conflicts conditional cart item updates
// miss, the way a concurrent writer bumping the version would.
type conflictingStore struct {
	*memory.Store
	mu        sync.Mutex
	conflicts int
}

type conflictingQuerier struct {
	repository.Querier
	store *conflictingStore
}

func (s *conflictingStore) ExecTx(c context.Context, fn func(repository.Querier) error) error {
	return s.Store.ExecTx(c, func(q repository.Querier) error {
		return fn(conflictingQuerier{Querier: q, store: s})
	})
}

func (q conflictingQuerier) UpdateCartItemQuantity(
	c context.Context,
	arg repository.UpdateCartItemQuantityParams,
) (repository.CartItem, error) {
	q.store.mu.Lock()
	conflict := q.store.conflicts > 0
	if conflict {
		q.store.conflicts--
	}
	q.store.mu.Unlock()
	if conflict {
		return repository.CartItem{}, pgx.ErrNoRows
	}
	return q.Querier.UpdateCartItemQuantity(c, arg)
}

func TestOptimisticRetry(t *testing.T) {
	tests := []struct {
		name             string
		conflicts        int
		maxRetries       uint64
		expectedQuantity int32
		expectedErr      error
	}{
		{
			name:             "given conflicts within retry budget should succeed",
			conflicts:        2,
			maxRetries:       5,
			expectedQuantity: 2,
		},
		{
			name:             "given conflicts beyond retry budget should return conflict",
			conflicts:        10,
			maxRetries:       2,
			expectedQuantity: 1,
			expectedErr:      inErrors.ErrConflict,
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			c := context.Background()
			store := &conflictingStore{Store: memory.NewStore()}
			user, product := seed(t, store)
			svc := NewCartService(store, config.Cart{
				Concurrency: config.CONCURRENCY_OPTIMISTIC,
				MaxRetries:  test.maxRetries,
			})
			_, err := svc.AddItem(c, user.ID, request.AddItem{ProductID: product.ID, Quantity: quantity(1)})
			require.NoError(t, err)
			store.conflicts = test.conflicts

			_, err = svc.AddItem(c, user.ID, request.AddItem{ProductID: product.ID, Quantity: quantity(1)})

			assert.ErrorIs(t, err, test.expectedErr)
			cart, err := svc.FindCart(c, user.ID)
			require.NoError(t, err)
			require.Len(t, cart.Items, 1)
			assert.Equal(t, test.expectedQuantity, cart.Items[0].Quantity)
		})
	}
}
