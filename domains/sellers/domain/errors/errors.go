package errors

import "errors"

var (
	ErrSellerNotFound      = errors.New("seller not found")
	ErrInvalidSeller       = errors.New("invalid seller")
	ErrStoreNameRequired   = errors.New("store name is required")
	ErrSellerAlreadyActive = errors.New("seller is already active")
	ErrDuplicateSellerID   = errors.New("seller id already exists")
)
