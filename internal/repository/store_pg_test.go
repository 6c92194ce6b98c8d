package repository_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/repository/pgtest"
)

func seedPg(t *testing.T, q repository.Querier) (repository.User, repository.Product) {
	t.Helper()
	c := context.Background()
	user, err := q.InsertUser(c, repository.InsertUserParams{
		ID:       uuid.New(),
		Username: "alice",
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()),
		Password: "hashed",
	})
	require.NoError(t, err)
	product, err := q.InsertProduct(c, repository.InsertProductParams{
		ID:            uuid.New(),
		Name:          "keyboard",
		Description:   "mechanical",
		Price:         repository.NewNumeric(decimal.RequireFromString("12.50")),
		Brand:         "acme",
		Category:      "peripheral",
		StockQuantity: 5,
		ImageUrl:      "keyboard.png",
	})
	require.NoError(t, err)
	return user, product
}

func TestPgStore(t *testing.T) {
	store, _ := pgtest.NewStore(t)
	c := context.Background()

	t.Run("given failing transaction should roll back", func(t *testing.T) {
		userID := uuid.New()
		expectedErr := errors.New("boom")
		err := store.ExecTx(c, func(q repository.Querier) error {
			_, err := q.InsertUser(c, repository.InsertUserParams{
				ID:       userID,
				Username: "rollback",
				Email:    "rollback@example.com",
				Password: "hashed",
			})
			require.NoError(t, err)
			return expectedErr
		})
		assert.ErrorIs(t, err, expectedErr)

		_, err = store.FindUserById(c, userID)
		assert.True(t, repository.IsNotFound(err))
	})

	t.Run("given duplicate email should violate unique constraint", func(t *testing.T) {
		user, _ := seedPg(t, store)
		_, err := store.InsertUser(c, repository.InsertUserParams{
			ID:       uuid.New(),
			Username: "copy",
			Email:    user.Email,
			Password: "hashed",
		})
		assert.True(t, repository.IsUniqueViolation(err))
	})

	t.Run("given numeric price should round trip", func(t *testing.T) {
		_, product := seedPg(t, store)
		found, err := store.FindProductById(c, product.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("12.50").Equal(repository.Decimal(found.Price)))
	})

	t.Run("given concurrent increments should not lose updates", func(t *testing.T) {
		user, product := seedPg(t, store)
		callers := 10
		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := store.ExecTx(c, func(q repository.Querier) error {
					cart, err := q.UpsertCart(c, repository.UpsertCartParams{ID: uuid.New(), UserID: user.ID})
					if err != nil {
						return err
					}
					_, err = q.IncrementCartItem(c, repository.IncrementCartItemParams{
						ID:        uuid.New(),
						CartID:    cart.ID,
						ProductID: product.ID,
						Quantity:  1,
					})
					return err
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		views, err := store.FindCartItemViewsByUserId(c, user.ID)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.EqualValues(t, callers, views[0].Quantity)
		assert.Equal(t, product.Name, views[0].ProductName)
	})

	t.Run("given increment past int32 range should report out of range", func(t *testing.T) {
		user, product := seedPg(t, store)
		cart, err := store.UpsertCart(c, repository.UpsertCartParams{ID: uuid.New(), UserID: user.ID})
		require.NoError(t, err)
		params := repository.IncrementCartItemParams{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  math.MaxInt32,
		}
		_, err = store.IncrementCartItem(c, params)
		require.NoError(t, err)

		params.ID, params.Quantity = uuid.New(), 1
		_, err = store.IncrementCartItem(c, params)
		assert.True(t, repository.IsOutOfRange(err))
	})

	t.Run("given locked cart should make upsert wait", func(t *testing.T) {
		user, _ := seedPg(t, store)
		cart, err := store.UpsertCart(c, repository.UpsertCartParams{ID: uuid.New(), UserID: user.ID})
		require.NoError(t, err)

		locked := make(chan struct{})
		release := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.ExecTx(c, func(q repository.Querier) error {
				found, err := q.FindCartByUserIdForUpdate(c, user.ID)
				if err != nil {
					return err
				}
				assert.Equal(t, cart.ID, found.ID)
				close(locked)
				<-release
				return nil
			})
			assert.NoError(t, err)
		}()
		<-locked

		upserted := make(chan struct{})
		go func() {
			defer close(upserted)
			_, err := store.UpsertCart(c, repository.UpsertCartParams{ID: uuid.New(), UserID: user.ID})
			assert.NoError(t, err)
		}()
		select {
		case <-upserted:
			t.Fatal("upsert finished while cart was locked")
		case <-time.After(200 * time.Millisecond):
		}
		close(release)
		<-upserted
		wg.Wait()
	})

	t.Run("given stale version should not update cart item", func(t *testing.T) {
		user, product := seedPg(t, store)
		cart, err := store.UpsertCart(c, repository.UpsertCartParams{ID: uuid.New(), UserID: user.ID})
		require.NoError(t, err)
		item, err := store.InsertCartItem(c, repository.InsertCartItemParams{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  2,
		})
		require.NoError(t, err)

		_, err = store.InsertCartItem(c, repository.InsertCartItemParams{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  1,
		})
		assert.True(t, repository.IsNotFound(err))

		updated, err := store.UpdateCartItemQuantity(c, repository.UpdateCartItemQuantityParams{
			ID:       item.ID,
			Quantity: 5,
			Version:  item.Version,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 5, updated.Quantity)
		assert.Equal(t, item.Version+1, updated.Version)

		_, err = store.UpdateCartItemQuantity(c, repository.UpdateCartItemQuantityParams{
			ID:       item.ID,
			Quantity: 7,
			Version:  item.Version,
		})
		assert.True(t, repository.IsNotFound(err))

		deleted, err := store.DeleteCartItem(c, repository.DeleteCartItemParams{ID: item.ID, Version: item.Version})
		require.NoError(t, err)
		assert.Zero(t, deleted)
		deleted, err = store.DeleteCartItem(c, repository.DeleteCartItemParams{ID: item.ID, Version: updated.Version})
		require.NoError(t, err)
		assert.EqualValues(t, 1, deleted)
	})

	t.Run("given order details should copy and guard product deletion", func(t *testing.T) {
		user, product := seedPg(t, store)
		order, err := store.InsertOrder(c, repository.InsertOrderParams{
			ID:          uuid.New(),
			UserID:      user.ID,
			Status:      repository.OrderStatusPending,
			TotalAmount: repository.NewNumeric(decimal.RequireFromString("25.00")),
		})
		require.NoError(t, err)

		copied, err := store.InsertOrderDetails(c, []repository.InsertOrderDetailsParams{
			{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  2,
				UnitPrice: product.Price,
			},
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, copied)

		details, err := store.FindOrderDetailsByOrderId(c, order.ID)
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.True(t, decimal.RequireFromString("12.50").Equal(repository.Decimal(details[0].UnitPrice)))

		_, err = store.DeleteProductById(c, product.ID)
		assert.True(t, repository.IsForeignKeyViolation(err))

		canceled, err := store.UpdateOrderStatus(c, repository.UpdateOrderStatusParams{
			ID:         order.ID,
			FromStatus: repository.OrderStatusPending,
			ToStatus:   repository.OrderStatusCanceled,
		})
		require.NoError(t, err)
		assert.Equal(t, repository.OrderStatusCanceled, canceled.Status)

		_, err = store.UpdateOrderStatus(c, repository.UpdateOrderStatusParams{
			ID:         order.ID,
			FromStatus: repository.OrderStatusPending,
			ToStatus:   repository.OrderStatusCanceled,
		})
		assert.True(t, repository.IsNotFound(err))

		orders, err := store.FindOrdersByUserId(c, user.ID)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, order.ID, orders[0].ID)
	})
}
