package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/internal/otel"
	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/cart/pkg/response"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/metrics"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
)

const (
	DEFAULT_QUANTITY = 1

	MESSAGE_ITEM_REMOVED     = "Item removed from cart because quantity is zero"
	MESSAGE_QUANTITY_UPDATED = "Quantity updated, new quantity is %d"
)

type CartService struct {
	store repository.Store
	cfg   config.Cart
}

func NewCartService(store repository.Store, cfg config.Cart) *CartService {
	return &CartService{store: store, cfg: cfg}
}

func (s *CartService) optimistic() bool {
	return s.cfg.Concurrency == config.CONCURRENCY_OPTIMISTIC
}

func (s *CartService) AddItem(
	c context.Context,
	userID uuid.UUID,
	param request.AddItem,
) (response.CartItem, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService AddItem").
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_PRODUCT_ID, param.ProductID.String()).
		Str(constants.KEY_CONCURRENCY, s.cfg.Concurrency).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating quantity").Logger()
	quantity := int32(DEFAULT_QUANTITY)
	if param.Quantity != nil {
		quantity = *param.Quantity
	}
	if quantity <= 0 {
		err := fmt.Errorf("failed validating quantity=%d with error=%w", quantity, inErrors.ErrInvalidQuantity)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}
	logger = logger.With().Int32(constants.KEY_QUANTITY, quantity).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "adding item to cart").Logger()
	logger.Info().Msg("adding item to cart")
	var item repository.CartItem
	err := s.withRetry(logger.WithContext(c), "add", func() error {
		return s.store.ExecTx(c, func(q repository.Querier) error {
			var err error
			item, err = s.addItem(c, q, userID, param.ProductID, quantity)
			return err
		})
	})
	if err != nil {
		err = fmt.Errorf("failed adding item to cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}
	logger.Info().
		Str(constants.KEY_CART_ITEM_ID, item.ID.String()).
		Int32(constants.KEY_QUANTITY, item.Quantity).
		Msg("added item to cart")

	return item.Response(), nil
}

func (s *CartService) addItem(
	c context.Context,
	q repository.Querier,
	userID uuid.UUID,
	productID uuid.UUID,
	quantity int32,
) (repository.CartItem, error) {
	_, err := q.FindProductById(c, productID)
	if repository.IsNotFound(err) {
		return repository.CartItem{}, fmt.Errorf("failed finding productId=%s with error=%w", productID, inErrors.ErrUnknownProduct)
	}
	if err != nil {
		return repository.CartItem{}, fmt.Errorf("failed finding productId=%s with error=%w", productID, err)
	}

	cart, err := q.UpsertCart(c, repository.UpsertCartParams{ID: uuid.New(), UserID: userID})
	if err != nil {
		return repository.CartItem{}, fmt.Errorf("failed getting or creating cart with error=%w", err)
	}

	if !s.optimistic() {
		item, err := q.IncrementCartItem(c, repository.IncrementCartItemParams{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		})
		if repository.IsOutOfRange(err) {
			return repository.CartItem{}, fmt.Errorf("failed incrementing cart item by quantity=%d with error=%w", quantity, inErrors.ErrInvalidQuantity)
		}
		if err != nil {
			return repository.CartItem{}, fmt.Errorf("failed incrementing cart item with error=%w", err)
		}
		return item, nil
	}

	existing, err := q.FindCartItem(c, repository.FindCartItemParams{CartID: cart.ID, ProductID: productID})
	if repository.IsNotFound(err) {
		item, err := q.InsertCartItem(c, repository.InsertCartItemParams{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		})
		if repository.IsNotFound(err) {
			return repository.CartItem{}, fmt.Errorf("failed inserting cart item with error=%w", inErrors.ErrConflict)
		}
		if err != nil {
			return repository.CartItem{}, fmt.Errorf("failed inserting cart item with error=%w", err)
		}
		return item, nil
	}
	if err != nil {
		return repository.CartItem{}, fmt.Errorf("failed finding cart item with error=%w", err)
	}

	if existing.Quantity > math.MaxInt32-quantity {
		return repository.CartItem{}, fmt.Errorf("failed merging quantity=%d into quantity=%d with error=%w", quantity, existing.Quantity, inErrors.ErrInvalidQuantity)
	}
	item, err := q.UpdateCartItemQuantity(c, repository.UpdateCartItemQuantityParams{
		ID:       existing.ID,
		Quantity: existing.Quantity + quantity,
		Version:  existing.Version,
	})
	if repository.IsNotFound(err) {
		return repository.CartItem{}, fmt.Errorf("failed updating cart item version=%d with error=%w", existing.Version, inErrors.ErrConflict)
	}
	if err != nil {
		return repository.CartItem{}, fmt.Errorf("failed updating cart item with error=%w", err)
	}
	return item, nil
}

func (s *CartService) RemoveItem(
	c context.Context,
	userID uuid.UUID,
	cartID uuid.UUID,
	param request.RemoveItem,
) (response.RemoveItem, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService RemoveItem").
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_CART_ID, cartID.String()).
		Str(constants.KEY_PRODUCT_ID, param.ProductID.String()).
		Str(constants.KEY_CONCURRENCY, s.cfg.Concurrency).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating quantity").Logger()
	if param.Quantity == nil || *param.Quantity <= 0 {
		err := fmt.Errorf("failed validating quantity with error=%w", inErrors.ErrInvalidQuantity)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.RemoveItem{}, err
	}
	quantity := *param.Quantity
	logger = logger.With().Int32(constants.KEY_QUANTITY, quantity).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "removing item from cart").Logger()
	logger.Info().Msg("removing item from cart")
	var res response.RemoveItem
	err := s.withRetry(logger.WithContext(c), "remove", func() error {
		return s.store.ExecTx(c, func(q repository.Querier) error {
			var err error
			res, err = s.removeItem(c, q, userID, cartID, param.ProductID, quantity)
			return err
		})
	})
	if err != nil {
		err = fmt.Errorf("failed removing item from cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.RemoveItem{}, err
	}
	logger.Info().Bool("removed", res.Removed).Msg(res.Message)

	return res, nil
}

func (s *CartService) removeItem(
	c context.Context,
	q repository.Querier,
	userID uuid.UUID,
	cartID uuid.UUID,
	productID uuid.UUID,
	quantity int32,
) (response.RemoveItem, error) {
	cart, err := q.FindCartById(c, cartID)
	if repository.IsNotFound(err) {
		return response.RemoveItem{}, fmt.Errorf("failed finding cartId=%s with error=%w", cartID, inErrors.ErrItemNotFound)
	}
	if err != nil {
		return response.RemoveItem{}, fmt.Errorf("failed finding cartId=%s with error=%w", cartID, err)
	}
	if cart.UserID != userID {
		return response.RemoveItem{}, fmt.Errorf("failed removing item from cartId=%s with error=%w", cartID, inErrors.ErrNotAuthorized)
	}

	arg := repository.FindCartItemParams{CartID: cart.ID, ProductID: productID}
	var item repository.CartItem
	if s.optimistic() {
		item, err = q.FindCartItem(c, arg)
	} else {
		item, err = q.FindCartItemForUpdate(c, arg)
	}
	if repository.IsNotFound(err) {
		return response.RemoveItem{}, fmt.Errorf("failed finding productId=%s in cart with error=%w", productID, inErrors.ErrItemNotFound)
	}
	if err != nil {
		return response.RemoveItem{}, fmt.Errorf("failed finding cart item with error=%w", err)
	}

	remaining := item.Quantity - quantity
	if remaining <= 0 {
		deleted, err := q.DeleteCartItem(c, repository.DeleteCartItemParams{ID: item.ID, Version: item.Version})
		if err != nil {
			return response.RemoveItem{}, fmt.Errorf("failed deleting cart item with error=%w", err)
		}
		if deleted == 0 {
			return response.RemoveItem{}, fmt.Errorf("failed deleting cart item version=%d with error=%w", item.Version, inErrors.ErrConflict)
		}
		return response.RemoveItem{Message: MESSAGE_ITEM_REMOVED, Quantity: 0, Removed: true}, nil
	}

	updated, err := q.UpdateCartItemQuantity(c, repository.UpdateCartItemQuantityParams{
		ID:       item.ID,
		Quantity: remaining,
		Version:  item.Version,
	})
	if repository.IsNotFound(err) {
		return response.RemoveItem{}, fmt.Errorf("failed updating cart item version=%d with error=%w", item.Version, inErrors.ErrConflict)
	}
	if err != nil {
		return response.RemoveItem{}, fmt.Errorf("failed updating cart item with error=%w", err)
	}
	return response.RemoveItem{
		Message:  fmt.Sprintf(MESSAGE_QUANTITY_UPDATED, updated.Quantity),
		Quantity: updated.Quantity,
	}, nil
}

func (s *CartService) FindCart(c context.Context, userID uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService FindCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService FindCart").
		Str(constants.KEY_USER_ID, userID.String()).
		Logger()

	res := response.Cart{Items: []response.CartItemView{}}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	cart, err := s.store.FindCartByUserId(c, userID)
	if repository.IsNotFound(err) {
		logger.Info().Msg("cart not created yet")
		return res, nil
	}
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	res.CartID = &cart.ID
	logger = logger.With().Str(constants.KEY_CART_ID, cart.ID.String()).Logger()
	logger.Info().Msg("found cart")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart items").Logger()
	logger.Info().Msg("finding cart items")
	rows, err := s.store.FindCartItemViewsByUserId(c, userID)
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	for _, row := range rows {
		res.Items = append(res.Items, row.Response())
	}
	logger.Info().Int(constants.KEY_CART_ITEMS, len(res.Items)).Msg("found cart items")

	return res, nil
}

// withRetry reruns fn after an optimistic concurrency conflict. Lock mode
// never produces a conflict, so fn runs exactly once there.
func (s *CartService) withRetry(c context.Context, operation string, fn func() error) error {
	if !s.optimistic() {
		return fn()
	}

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService withRetry").
		Str(constants.KEY_PROCESS, operation).
		Logger()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	return backoff.RetryNotify(
		func() error {
			err := fn()
			if err != nil && !errors.Is(err, inErrors.ErrConflict) {
				return backoff.Permanent(err)
			}
			return err
		},
		backoff.WithContext(backoff.WithMaxRetries(b, s.cfg.MaxRetries), c),
		func(err error, wait time.Duration) {
			metrics.CartConflictRetriesTotal.WithLabelValues(operation).Inc()
			logger.Warn().Err(err).Dur(constants.KEY_RETRY, wait).Msg("retrying after conflict")
		},
	)
}
