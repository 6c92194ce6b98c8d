package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/auth"
	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/order/internal/otel"
	"github.com/Alturino/storefront/order/internal/service"
	"github.com/Alturino/storefront/order/pkg/response"
)

const (
	MESSAGE_ORDER_PLACED   = "Order placed successfully!"
	MESSAGE_ORDER_CANCELED = "Order canceled successfully!"
)

type OrderController struct {
	service *service.OrderService
}

func AttachOrderController(router *mux.Router, service *service.OrderService) {
	controller := OrderController{service: service}

	r := router.PathPrefix("/order").Subrouter()
	r.HandleFunc("", controller.PlaceOrder).Methods(http.MethodPost)
	r.HandleFunc("/history", controller.FindOrders).Methods(http.MethodGet)
	r.HandleFunc("/{orderId}", controller.FindOrderById).Methods(http.MethodGet)
	r.HandleFunc("/{orderId}/cancel", controller.CancelOrder).Methods(http.MethodDelete)
}

func (o OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController PlaceOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController PlaceOrder").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "getting userId from jwtToken").Logger()
	logger.Trace().Msg("getting userId from jwtToken")
	userId, err := auth.UserIdFromJwtToken(c)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()
	logger.Trace().Msg("got userId from jwtToken")

	logger = logger.With().Str(constants.KEY_PROCESS, "placing order").Logger()
	logger.Info().Msg("placing order")
	order, err := o.service.PlaceOrder(logger.WithContext(c), userId)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Str(constants.KEY_ORDER_ID, order.ID.String()).Msg("placed order")

	inHttp.WriteJsonResponse(
		c,
		w,
		http.StatusCreated,
		response.PlaceOrder{Message: MESSAGE_ORDER_PLACED, OrderID: order.ID},
	)
}

func (o OrderController) FindOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController FindOrders").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "getting userId from jwtToken").Logger()
	logger.Trace().Msg("getting userId from jwtToken")
	userId, err := auth.UserIdFromJwtToken(c)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()
	logger.Trace().Msg("got userId from jwtToken")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding orders").Logger()
	logger.Info().Msg("finding orders")
	orders, err := o.service.FindOrders(logger.WithContext(c), userId)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Int(constants.KEY_ORDERS, len(orders)).Msg("found orders")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, orders)
}

func (o OrderController) FindOrderById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController FindOrderById").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating orderId").Logger()
	logger.Trace().Msg("validating orderId")
	orderId, err := inHttp.PathUUID(r, "orderId")
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(constants.KEY_ORDER_ID, orderId.String()).Logger()
	logger.Trace().Msg("validated orderId")

	logger = logger.With().Str(constants.KEY_PROCESS, "getting userId from jwtToken").Logger()
	logger.Trace().Msg("getting userId from jwtToken")
	userId, err := auth.UserIdFromJwtToken(c)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()
	logger.Trace().Msg("got userId from jwtToken")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding order").Logger()
	logger.Info().Msg("finding order")
	order, err := o.service.FindOrderById(logger.WithContext(c), userId, orderId)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found order")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, order)
}

func (o OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController CancelOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController CancelOrder").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating orderId").Logger()
	logger.Trace().Msg("validating orderId")
	orderId, err := inHttp.PathUUID(r, "orderId")
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(constants.KEY_ORDER_ID, orderId.String()).Logger()
	logger.Trace().Msg("validated orderId")

	logger = logger.With().Str(constants.KEY_PROCESS, "getting userId from jwtToken").Logger()
	logger.Trace().Msg("getting userId from jwtToken")
	userId, err := auth.UserIdFromJwtToken(c)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()
	logger.Trace().Msg("got userId from jwtToken")

	logger = logger.With().Str(constants.KEY_PROCESS, "canceling order").Logger()
	logger.Info().Msg("canceling order")
	if _, err := o.service.CancelOrder(logger.WithContext(c), userId, orderId); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("canceled order")

	inHttp.WriteJsonResponse(
		c,
		w,
		http.StatusOK,
		inHttp.MessageResponse{Message: MESSAGE_ORDER_CANCELED},
	)
}
