package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type Register struct {
	Username string `validate:"required,max=80"  json:"username"`
	Email    string `validate:"required,email"   json:"email"`
	Password string `validate:"required,min=6"   json:"password"`
}

func (r Register) NormalizedEmail() string {
	return normalizeEmail(r.Email)
}

func (r Register) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", r.Email).Str("username", r.Username).Str("password", masked)
}

func (r Register) MarshalJSON() ([]byte, error) {
	r.Password = masked
	type R Register
	return json.Marshal(R(r))
}
