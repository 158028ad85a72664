package errors

import "errors"

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrInvalidProduct      = errors.New("invalid product")
	ErrProductNameRequired = errors.New("product name is required")
	ErrInvalidPrice        = errors.New("price must be a positive amount of minor units")
	ErrInvalidCurrency     = errors.New("currency must be a three-letter code")
	ErrProductNotActive    = errors.New("product is not active")
	ErrDuplicateProductID  = errors.New("product id already exists")
	ErrInvalidListFilter   = errors.New("invalid list filter")
)
