package errors

import "errors"

var (
	ErrBuyerNotFound       = errors.New("buyer not found")
	ErrInvalidBuyer        = errors.New("invalid buyer")
	ErrInvalidEmail        = errors.New("email address is not valid")
	ErrDisplayNameRequired = errors.New("display name is required")
	ErrEmailTaken          = errors.New("email address is already registered")
)
