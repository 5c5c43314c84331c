package catalog

import "errors"

var (
	ErrNotFound       = errors.New("product not found")
	ErrInvalidInput   = errors.New("invalid product data")
	ErrHasOrders      = errors.New("existing order with the product")
	ErrAlreadyDeleted = errors.New("the product has been deleted")
)
