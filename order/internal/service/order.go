package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/metrics"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/order/internal/otel"
	"github.com/Alturino/storefront/order/pkg/response"
)

type OrderService struct {
	store repository.Store
}

func NewOrderService(store repository.Store) *OrderService {
	return &OrderService{store: store}
}

func (s *OrderService) PlaceOrder(c context.Context, userID uuid.UUID) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService PlaceOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService PlaceOrder").
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_PROCESS, "placing order").
		Logger()

	logger.Info().Msg("placing order")
	var (
		order   repository.Order
		details []repository.OrderDetail
	)
	err := s.store.ExecTx(c, func(q repository.Querier) error {
		var err error
		order, details, err = s.placeOrder(logger.WithContext(c), q, userID)
		return err
	})
	if err != nil {
		err = fmt.Errorf("failed placing order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	metrics.OrdersPlacedTotal.Inc()
	logger.Info().
		Str(constants.KEY_ORDER_ID, order.ID.String()).
		Int(constants.KEY_ORDER_DETAILS, len(details)).
		Msg("placed order")

	return order.Response(details), nil
}

func (s *OrderService) placeOrder(
	c context.Context,
	q repository.Querier,
	userID uuid.UUID,
) (repository.Order, []repository.OrderDetail, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService placeOrder").
		Logger()

	// Locking the cart row makes a concurrent add wait in its upsert until the
	// order commits, so clearing the cart cannot drop an unpriced item.
	logger = logger.With().Str(constants.KEY_PROCESS, "locking cart").Logger()
	logger.Trace().Msg("locking cart")
	cart, err := q.FindCartByUserIdForUpdate(c, userID)
	if repository.IsNotFound(err) {
		return repository.Order{}, nil, fmt.Errorf("failed locking cart with error=%w", inErrors.ErrEmptyCart)
	}
	if err != nil {
		return repository.Order{}, nil, fmt.Errorf("failed locking cart with error=%w", err)
	}
	logger = logger.With().Str(constants.KEY_CART_ID, cart.ID.String()).Logger()
	logger.Trace().Msg("locked cart")

	logger = logger.With().Str(constants.KEY_PROCESS, "locking cart items").Logger()
	logger.Trace().Msg("locking cart items")
	items, err := q.FindCartItemsByCartIdForUpdate(c, cart.ID)
	if err != nil {
		return repository.Order{}, nil, fmt.Errorf("failed locking cart items with error=%w", err)
	}
	if len(items) == 0 {
		return repository.Order{}, nil, fmt.Errorf("failed placing order from cartId=%s with error=%w", cart.ID, inErrors.ErrEmptyCart)
	}
	logger.Trace().Int(constants.KEY_CART_ITEMS, len(items)).Msg("locked cart items")

	logger = logger.With().Str(constants.KEY_PROCESS, "snapshotting product prices").Logger()
	logger.Trace().Msg("snapshotting product prices")
	productIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := q.FindProductsByIds(c, productIDs)
	if err != nil {
		return repository.Order{}, nil, fmt.Errorf("failed finding products with error=%w", err)
	}
	prices := make(map[uuid.UUID]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.ID] = repository.Decimal(p.Price)
	}

	orderID := uuid.New()
	total := decimal.Zero
	params := make([]repository.InsertOrderDetailsParams, 0, len(items))
	for _, item := range items {
		price, ok := prices[item.ProductID]
		if !ok {
			return repository.Order{}, nil, fmt.Errorf("failed snapshotting productId=%s with error=%w", item.ProductID, inErrors.ErrUnknownProduct)
		}
		total = total.Add(price.Mul(decimal.NewFromInt32(item.Quantity)))
		params = append(params, repository.InsertOrderDetailsParams{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: repository.NewNumeric(price),
		})
	}
	logger.Trace().Str(constants.KEY_TOTAL_AMOUNT, total.String()).Msg("snapshotted product prices")

	logger = logger.With().
		Str(constants.KEY_ORDER_ID, orderID.String()).
		Str(constants.KEY_PROCESS, "inserting order").
		Logger()
	logger.Trace().Msg("inserting order")
	order, err := q.InsertOrder(c, repository.InsertOrderParams{
		ID:          orderID,
		UserID:      userID,
		Status:      repository.OrderStatusPending,
		TotalAmount: repository.NewNumeric(total),
	})
	if err != nil {
		return repository.Order{}, nil, fmt.Errorf("failed inserting order with error=%w", err)
	}
	if _, err := q.InsertOrderDetails(c, params); err != nil {
		return repository.Order{}, nil, fmt.Errorf("failed inserting order details with error=%w", err)
	}
	logger.Trace().Msg("inserted order")

	logger = logger.With().Str(constants.KEY_PROCESS, "clearing cart").Logger()
	logger.Trace().Msg("clearing cart")
	if _, err := q.DeleteCartItemsByCartId(c, cart.ID); err != nil {
		return repository.Order{}, nil, fmt.Errorf("failed clearing cart with error=%w", err)
	}
	logger.Trace().Msg("cleared cart")

	details, err := q.FindOrderDetailsByOrderId(c, order.ID)
	if err != nil {
		return repository.Order{}, nil, fmt.Errorf("failed finding order details with error=%w", err)
	}

	return order, details, nil
}

func (s *OrderService) FindOrders(
	c context.Context,
	userID uuid.UUID,
) ([]response.OrderSummary, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService FindOrders").
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_PROCESS, "finding orders").
		Logger()

	logger.Info().Msg("finding orders")
	orders, err := s.store.FindOrdersByUserId(c, userID)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int(constants.KEY_ORDERS, len(orders)).Msg("found orders")

	res := make([]response.OrderSummary, 0, len(orders))
	for _, o := range orders {
		res = append(res, o.Summary())
	}
	return res, nil
}

func (s *OrderService) FindOrderById(
	c context.Context,
	userID uuid.UUID,
	orderID uuid.UUID,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService FindOrderById").
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_ORDER_ID, orderID.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding order").Logger()
	logger.Info().Msg("finding order")
	order, err := s.store.FindOrderById(c, orderID)
	if repository.IsNotFound(err) || (err == nil && order.UserID != userID) {
		err = fmt.Errorf("failed finding orderId=%s with error=%w", orderID, inErrors.ErrOrderNotFound)
	} else if err != nil {
		err = fmt.Errorf("failed finding orderId=%s with error=%w", orderID, err)
	}
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("found order")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding order details").Logger()
	logger.Info().Msg("finding order details")
	details, err := s.store.FindOrderDetailsByOrderId(c, orderID)
	if err != nil {
		err = fmt.Errorf("failed finding order details with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Int(constants.KEY_ORDER_DETAILS, len(details)).Msg("found order details")

	return order.Response(details), nil
}

// CancelOrder moves a pending order to canceled. Every other status is
// terminal for cancellation.
func (s *OrderService) CancelOrder(
	c context.Context,
	userID uuid.UUID,
	orderID uuid.UUID,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService CancelOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService CancelOrder").
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_ORDER_ID, orderID.String()).
		Str(constants.KEY_PROCESS, "canceling order").
		Logger()

	logger.Info().Msg("canceling order")
	var order repository.Order
	err := s.store.ExecTx(c, func(q repository.Querier) error {
		current, err := q.FindOrderById(c, orderID)
		if repository.IsNotFound(err) {
			return fmt.Errorf("failed finding orderId=%s with error=%w", orderID, inErrors.ErrOrderNotCancelable)
		}
		if err != nil {
			return fmt.Errorf("failed finding orderId=%s with error=%w", orderID, err)
		}
		if current.UserID != userID {
			return fmt.Errorf("failed canceling orderId=%s with error=%w", orderID, inErrors.ErrNotAuthorized)
		}

		order, err = q.UpdateOrderStatus(c, repository.UpdateOrderStatusParams{
			ID:         orderID,
			FromStatus: repository.OrderStatusPending,
			ToStatus:   repository.OrderStatusCanceled,
		})
		if repository.IsNotFound(err) {
			return fmt.Errorf("failed canceling orderId=%s status=%s with error=%w", orderID, current.Status, inErrors.ErrOrderNotCancelable)
		}
		if err != nil {
			return fmt.Errorf("failed canceling orderId=%s with error=%w", orderID, err)
		}
		return nil
	})
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	metrics.OrdersCanceledTotal.Inc()
	logger.Info().Str(constants.KEY_ORDER_STATUS, string(order.Status)).Msg("canceled order")

	return order.Response(nil), nil
}
