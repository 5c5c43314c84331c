package orders

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInvalidQuantity   = errors.New("quantity must be between 1 and 2147483647")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrTransactionFailed marks infrastructure failures. Nothing from the
	// failed call survives, so resubmitting the same request is safe.
	ErrTransactionFailed = errors.New("order transaction failed")
)

type NotFoundError struct {
	ProductIDs []int64
}

func (e *NotFoundError) Error() string {
	ids := make([]string, len(e.ProductIDs))
	for i, id := range e.ProductIDs {
		ids[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("product not found: %s", strings.Join(ids, ","))
}

func (e *NotFoundError) Unwrap() error { return ErrProductNotFound }

type StockError struct {
	ProductID int64
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("product %d out of stock (requested %d)", e.ProductID, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

func txFailed(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransactionFailed, op, err)
}
