package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/validate"
)

// DecodeJson decodes and validates the request body into dst. An empty body
// decodes as an empty object so optional-only payloads are accepted.
func DecodeJson(r *http.Request, dst any) error {
	if r.Body != nil {
		err := json.NewDecoder(r.Body).Decode(dst)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed decoding request body error=%s with error=%w", err.Error(), inErrors.ErrInvalidRequest)
		}
	}
	if err := validate.Get().StructCtx(r.Context(), dst); err != nil {
		return fmt.Errorf("failed validating request body error=%s with error=%w", err.Error(), inErrors.ErrInvalidRequest)
	}
	return nil
}

func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed parsing %s with error=%w", name, inErrors.ErrInvalidRequest)
	}
	return id, nil
}
