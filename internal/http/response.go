package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/otel"
)

const MESSAGE_INTERNAL_SERVER_ERROR = "internal server error"

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

var statusByError = []struct {
	err    error
	status int
}{
	{inErrors.ErrInvalidQuantity, http.StatusBadRequest},
	{inErrors.ErrEmptyCart, http.StatusBadRequest},
	{inErrors.ErrOrderNotCancelable, http.StatusBadRequest},
	{inErrors.ErrUnknownProduct, http.StatusBadRequest},
	{inErrors.ErrInvalidRequest, http.StatusBadRequest},
	{inErrors.ErrPasswordMismatch, http.StatusBadRequest},
	{inErrors.ErrEmailAlreadyExist, http.StatusBadRequest},
	{inErrors.ErrProductInUse, http.StatusBadRequest},
	{inErrors.ErrEmptyAuth, http.StatusUnauthorized},
	{inErrors.ErrTokenInvalid, http.StatusUnauthorized},
	{inErrors.ErrNotAuthorized, http.StatusForbidden},
	{inErrors.ErrItemNotFound, http.StatusNotFound},
	{inErrors.ErrProductNotFound, http.StatusNotFound},
	{inErrors.ErrOrderNotFound, http.StatusNotFound},
	{inErrors.ErrUserNotFound, http.StatusNotFound},
	{inErrors.ErrConflict, http.StatusConflict},
}

// StatusFromError returns the response status and the message safe to show
// to the caller. Errors outside the domain taxonomy never leak their text.
func StatusFromError(err error) (int, string) {
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return e.status, e.err.Error()
		}
	}
	return http.StatusInternalServerError, MESSAGE_INTERNAL_SERVER_ERROR
}

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	statusCode int,
	body any,
) {
	c, span := otel.Tracer.Start(c, "WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "WriteJsonResponse").Logger()

	w.Header().Set(KEY_HEADER_CONTENT_TYPE, VALUE_HEADER_APPLICATION_JSON)
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
}

func WriteErrorResponse(c context.Context, w http.ResponseWriter, err error) {
	statusCode, message := StatusFromError(err)
	zerolog.Ctx(c).
		Debug().
		Str(constants.KEY_TAG, "WriteErrorResponse").
		Int(constants.KEY_STATUS_CODE, statusCode).
		Msg(message)
	WriteJsonResponse(c, w, statusCode, ErrorResponse{Error: message})
}
