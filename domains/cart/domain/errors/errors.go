package errors

import "errors"

var (
	ErrCartNotFound       = errors.New("cart not found")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrInvalidCart        = errors.New("invalid cart")
	ErrInvalidQuantity    = errors.New("quantity must be between 1 and the per-line maximum")
	ErrProductUnavailable = errors.New("product is not available")
	ErrDuplicateCartID    = errors.New("cart id already exists")
)
