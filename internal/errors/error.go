package errors

import "errors"

var (
	ErrInvalidQuantity    = errors.New("quantity must be a positive integer")
	ErrItemNotFound       = errors.New("item not found in cart")
	ErrEmptyCart          = errors.New("cart is empty or does not exist")
	ErrOrderNotCancelable = errors.New("order cannot be canceled")
	ErrNotAuthorized      = errors.New("not authorized to access this resource")
	ErrUnknownProduct     = errors.New("product does not exist")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductInUse       = errors.New("product is referenced by existing orders")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordMismatch   = errors.New("email or password is invalid")
	ErrEmailAlreadyExist  = errors.New("email is already registered")
	ErrInvalidRequest     = errors.New("request body is invalid")
	ErrEmptyAuth          = errors.New("missing authorization")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrFailedHashPassword = errors.New("failed hashing password")
	ErrConflict           = errors.New("concurrent modification, please retry")
)
