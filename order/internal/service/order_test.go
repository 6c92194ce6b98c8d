package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/repository/memory"
)

func insertUser(t *testing.T, q repository.Querier) repository.User {
	t.Helper()
	user, err := q.InsertUser(context.Background(), repository.InsertUserParams{
		ID:       uuid.New(),
		Username: "alice",
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()),
		Password: "hashed",
	})
	require.NoError(t, err)
	return user
}

func insertProduct(t *testing.T, q repository.Querier, name, price string) repository.Product {
	t.Helper()
	product, err := q.InsertProduct(context.Background(), repository.InsertProductParams{
		ID:            uuid.New(),
		Name:          name,
		Price:         repository.NewNumeric(decimal.RequireFromString(price)),
		StockQuantity: 10,
	})
	require.NoError(t, err)
	return product
}

func addToCart(t *testing.T, q repository.Querier, userID uuid.UUID, productID uuid.UUID, quantity int32) repository.Cart {
	t.Helper()
	c := context.Background()
	cart, err := q.UpsertCart(c, repository.UpsertCartParams{ID: uuid.New(), UserID: userID})
	require.NoError(t, err)
	_, err = q.IncrementCartItem(c, repository.IncrementCartItemParams{
		ID:        uuid.New(),
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
	})
	require.NoError(t, err)
	return cart
}

// hookedStore lets a test step into PlaceOrder's transaction between the
// queries it runs.
type hookedStore struct {
	repository.Store
	afterLockingItems func()
	detailsErr        error
}

type hookedQuerier struct {
	repository.Querier
	store *hookedStore
}

func (s *hookedStore) ExecTx(c context.Context, fn func(repository.Querier) error) error {
	return s.Store.ExecTx(c, func(q repository.Querier) error {
		return fn(hookedQuerier{Querier: q, store: s})
	})
}

func (q hookedQuerier) FindCartItemsByCartIdForUpdate(c context.Context, cartID uuid.UUID) ([]repository.CartItem, error) {
	items, err := q.Querier.FindCartItemsByCartIdForUpdate(c, cartID)
	if q.store.afterLockingItems != nil {
		q.store.afterLockingItems()
	}
	return items, err
}

func (q hookedQuerier) InsertOrderDetails(c context.Context, arg []repository.InsertOrderDetailsParams) (int64, error) {
	if q.store.detailsErr != nil {
		return 0, q.store.detailsErr
	}
	return q.Querier.InsertOrderDetails(c, arg)
}

func TestPlaceOrder(t *testing.T) {
	t.Run("given cart with items should snapshot prices and clear cart", func(t *testing.T) {
		c := context.Background()
		store := memory.NewStore()
		svc := NewOrderService(store)
		user := insertUser(t, store)
		keyboard := insertProduct(t, store, "keyboard", "10.00")
		mouse := insertProduct(t, store, "mouse", "5.00")
		cart := addToCart(t, store, user.ID, keyboard.ID, 2)
		addToCart(t, store, user.ID, mouse.ID, 1)

		order, err := svc.PlaceOrder(c, user.ID)
		require.NoError(t, err)

		assert.Equal(t, string(repository.OrderStatusPending), order.Status)
		assert.Equal(t, user.ID, order.UserID)
		assert.True(t, decimal.RequireFromString("25.00").Equal(order.TotalAmount))
		require.Len(t, order.Details, 2)
		for _, d := range order.Details {
			switch d.ProductID {
			case keyboard.ID:
				assert.True(t, decimal.RequireFromString("10.00").Equal(d.UnitPrice))
				assert.True(t, decimal.RequireFromString("20.00").Equal(d.Subtotal))
			case mouse.ID:
				assert.True(t, decimal.RequireFromString("5.00").Equal(d.UnitPrice))
				assert.True(t, decimal.RequireFromString("5.00").Equal(d.Subtotal))
			default:
				t.Fatalf("unexpected productId=%s", d.ProductID)
			}
		}

		items, err := store.FindCartItemsByCartIdForUpdate(c, cart.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("given later price change should keep snapshot", func(t *testing.T) {
		c := context.Background()
		store := memory.NewStore()
		svc := NewOrderService(store)
		user := insertUser(t, store)
		keyboard := insertProduct(t, store, "keyboard", "10.00")
		addToCart(t, store, user.ID, keyboard.ID, 1)

		placed, err := svc.PlaceOrder(c, user.ID)
		require.NoError(t, err)

		_, err = store.UpdateProduct(c, repository.UpdateProductParams{
			ID:    keyboard.ID,
			Name:  keyboard.Name,
			Price: repository.NewNumeric(decimal.RequireFromString("99.00")),
		})
		require.NoError(t, err)

		found, err := svc.FindOrderById(c, user.ID, placed.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("10.00").Equal(found.TotalAmount))
		require.Len(t, found.Details, 1)
		assert.True(t, decimal.RequireFromString("10.00").Equal(found.Details[0].UnitPrice))
	})

	t.Run("given details insert failure should roll back order and keep cart", func(t *testing.T) {
		c := context.Background()
		store := &hookedStore{Store: memory.NewStore(), detailsErr: errors.New("connection reset")}
		svc := NewOrderService(store)
		user := insertUser(t, store)
		keyboard := insertProduct(t, store, "keyboard", "10.00")
		cart := addToCart(t, store, user.ID, keyboard.ID, 2)

		_, err := svc.PlaceOrder(c, user.ID)
		assert.ErrorIs(t, err, store.detailsErr)

		orders, err := svc.FindOrders(c, user.ID)
		require.NoError(t, err)
		assert.Empty(t, orders)

		items, err := store.FindCartItemsByCartIdForUpdate(c, cart.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.EqualValues(t, 2, items[0].Quantity)
	})

	tests := []struct {
		name       string
		createCart bool
	}{
		{name: "given no cart should return empty cart", createCart: false},
		{name: "given empty cart should return empty cart", createCart: true},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			c := context.Background()
			store := memory.NewStore()
			svc := NewOrderService(store)
			user := insertUser(t, store)
			if test.createCart {
				_, err := store.UpsertCart(c, repository.UpsertCartParams{ID: uuid.New(), UserID: user.ID})
				require.NoError(t, err)
			}

			_, err := svc.PlaceOrder(c, user.ID)
			assert.ErrorIs(t, err, inErrors.ErrEmptyCart)

			orders, err := svc.FindOrders(c, user.ID)
			require.NoError(t, err)
			assert.Empty(t, orders)
		})
	}
}

func TestFindOrders(t *testing.T) {
	c := context.Background()
	store := memory.NewStore()
	svc := NewOrderService(store)
	user := insertUser(t, store)
	other := insertUser(t, store)
	keyboard := insertProduct(t, store, "keyboard", "10.00")

	addToCart(t, store, user.ID, keyboard.ID, 1)
	first, err := svc.PlaceOrder(c, user.ID)
	require.NoError(t, err)
	addToCart(t, store, user.ID, keyboard.ID, 3)
	second, err := svc.PlaceOrder(c, user.ID)
	require.NoError(t, err)
	addToCart(t, store, other.ID, keyboard.ID, 1)
	_, err = svc.PlaceOrder(c, other.ID)
	require.NoError(t, err)

	orders, err := svc.FindOrders(c, user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].OrderID)
	assert.True(t, decimal.RequireFromString("30.00").Equal(orders[0].TotalAmount))
	assert.Equal(t, first.ID, orders[1].OrderID)
}

func TestFindOrderById(t *testing.T) {
	c := context.Background()
	store := memory.NewStore()
	svc := NewOrderService(store)
	user := insertUser(t, store)
	other := insertUser(t, store)
	keyboard := insertProduct(t, store, "keyboard", "10.00")
	addToCart(t, store, user.ID, keyboard.ID, 1)
	order, err := svc.PlaceOrder(c, user.ID)
	require.NoError(t, err)

	tests := []struct {
		name        string
		userID      uuid.UUID
		orderID     uuid.UUID
		expectedErr error
	}{
		{name: "given owner should return order", userID: user.ID, orderID: order.ID},
		{name: "given other user should return order not found", userID: other.ID, orderID: order.ID, expectedErr: inErrors.ErrOrderNotFound},
		{name: "given unknown order should return order not found", userID: user.ID, orderID: uuid.New(), expectedErr: inErrors.ErrOrderNotFound},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			found, err := svc.FindOrderById(c, test.userID, test.orderID)
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, order.ID, found.ID)
			assert.Len(t, found.Details, 1)
		})
	}
}

func TestCancelOrder(t *testing.T) {
	tests := []struct {
		name        string
		status      repository.OrderStatus
		otherUser   bool
		unknown     bool
		expectedErr error
	}{
		{name: "given pending order should cancel", status: repository.OrderStatusPending},
		{name: "given shipped order should not be cancelable", status: repository.OrderStatusShipped, expectedErr: inErrors.ErrOrderNotCancelable},
		{name: "given delivered order should not be cancelable", status: repository.OrderStatusDelivered, expectedErr: inErrors.ErrOrderNotCancelable},
		{name: "given other user's order should return not authorized", status: repository.OrderStatusPending, otherUser: true, expectedErr: inErrors.ErrNotAuthorized},
		{name: "given unknown order should not be cancelable", status: repository.OrderStatusPending, unknown: true, expectedErr: inErrors.ErrOrderNotCancelable},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			c := context.Background()
			store := memory.NewStore()
			svc := NewOrderService(store)
			user := insertUser(t, store)
			keyboard := insertProduct(t, store, "keyboard", "10.00")
			addToCart(t, store, user.ID, keyboard.ID, 1)
			order, err := svc.PlaceOrder(c, user.ID)
			require.NoError(t, err)

			if test.status != repository.OrderStatusPending {
				_, err := store.UpdateOrderStatus(c, repository.UpdateOrderStatusParams{
					ID:         order.ID,
					FromStatus: repository.OrderStatusPending,
					ToStatus:   test.status,
				})
				require.NoError(t, err)
			}
			userID, orderID := user.ID, order.ID
			if test.otherUser {
				userID = insertUser(t, store).ID
			}
			if test.unknown {
				orderID = uuid.New()
			}

			canceled, err := svc.CancelOrder(c, userID, orderID)
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				found, findErr := svc.FindOrderById(c, user.ID, order.ID)
				require.NoError(t, findErr)
				assert.Equal(t, string(test.status), found.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(repository.OrderStatusCanceled), canceled.Status)
		})
	}

	t.Run("given canceled twice should reject second cancel", func(t *testing.T) {
		c := context.Background()
		store := memory.NewStore()
		svc := NewOrderService(store)
		user := insertUser(t, store)
		keyboard := insertProduct(t, store, "keyboard", "10.00")
		addToCart(t, store, user.ID, keyboard.ID, 1)
		order, err := svc.PlaceOrder(c, user.ID)
		require.NoError(t, err)

		_, err = svc.CancelOrder(c, user.ID, order.ID)
		require.NoError(t, err)
		_, err = svc.CancelOrder(c, user.ID, order.ID)
		assert.ErrorIs(t, err, inErrors.ErrOrderNotCancelable)
	})
}
