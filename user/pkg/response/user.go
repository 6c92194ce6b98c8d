package response

import "github.com/google/uuid"

type Register struct {
	Message string    `json:"message"`
	UserID  uuid.UUID `json:"user_id"`
}

type Login struct {
	AccessToken string `json:"access_token"`
}
