package request

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"
)

const masked = "***"

type Login struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required"       json:"password"`
}

// NormalizedEmail is the form Register stores, so sign in ignores the case the
// address was typed in.
func (l Login) NormalizedEmail() string {
	return normalizeEmail(l.Email)
}

func (l Login) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", l.Email).Str("password", masked)
}

func (l Login) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: l.Email, Password: masked})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
