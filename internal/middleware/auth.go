package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/auth"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/otel"
)

func Auth(cfg config.Application) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, span := otel.Tracer.Start(r.Context(), "middleware Auth")
			defer span.End()

			logger := zerolog.Ctx(c).
				With().
				Str(constants.KEY_TAG, "middleware Auth").
				Str(constants.KEY_PROCESS, "verifying authorization").
				Logger()

			authorization := r.Header.Get(inHttp.KEY_HEADER_AUTHORIZATION)
			prefix := inHttp.VALUE_HEADER_BEARER_PREFIX
			if len(authorization) <= len(prefix) ||
				!strings.EqualFold(authorization[:len(prefix)], prefix) {
				otel.RecordError(inErrors.ErrEmptyAuth, span)
				logger.Error().Err(inErrors.ErrEmptyAuth).Msg(inErrors.ErrEmptyAuth.Error())
				inHttp.WriteErrorResponse(c, w, inErrors.ErrEmptyAuth)
				return
			}

			token, err := auth.VerifyToken(c, cfg.SecretKey, authorization[len(prefix):])
			if err != nil {
				otel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteErrorResponse(c, w, err)
				return
			}
			logger.Trace().Msg("verified authorization")

			next.ServeHTTP(w, r.WithContext(auth.AttachJwtToken(r.Context(), token)))
		})
	}
}
