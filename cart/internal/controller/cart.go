package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/internal/otel"
	"github.com/Alturino/storefront/cart/internal/service"
	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/internal/auth"
	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	inOtel "github.com/Alturino/storefront/internal/otel"
)

type CartController struct {
	service *service.CartService
}

func AttachCartController(router *mux.Router, service *service.CartService) {
	controller := CartController{service: service}

	r := router.PathPrefix("/cart").Subrouter()
	r.HandleFunc("", controller.FindCart).Methods(http.MethodGet)
	r.HandleFunc("/add", controller.AddItem).Methods(http.MethodPost)
	r.HandleFunc("/{cartId}/remove", controller.RemoveItem).Methods(http.MethodPatch)
}

func (t CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController AddItem").
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

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.AddItem{}
	if err := inHttp.DecodeJson(r.WithContext(c), &reqBody); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Object(constants.KEY_REQUEST_BODY, reqBody).Logger()
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "adding item to cart").Logger()
	logger.Info().Msg("adding item to cart")
	item, err := t.service.AddItem(logger.WithContext(c), userId, reqBody)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("added item to cart")

	inHttp.WriteJsonResponse(c, w, http.StatusCreated, item)
}

func (t CartController) FindCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController FindCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController FindCart").
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

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	cart, err := t.service.FindCart(logger.WithContext(c), userId)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found cart")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, cart)
}

func (t CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController RemoveItem").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating cartId").Logger()
	logger.Trace().Msg("validating cartId")
	cartId, err := inHttp.PathUUID(r, "cartId")
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(constants.KEY_CART_ID, cartId.String()).Logger()
	logger.Trace().Msg("validated cartId")

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

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.RemoveItem{}
	if err := inHttp.DecodeJson(r.WithContext(c), &reqBody); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Object(constants.KEY_REQUEST_BODY, reqBody).Logger()
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "removing item from cart").Logger()
	logger.Info().Msg("removing item from cart")
	res, err := t.service.RemoveItem(logger.WithContext(c), userId, cartId, reqBody)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("removed item from cart")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, res)
}
