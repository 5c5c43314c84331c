package orders

import (
	"context"
	"time"
)

// Store is what the engine needs from persistence.
type Store interface {
	// FindProductsByIDs returns the active products among ids; unknown or
	// inactive ids are simply absent from the result.
	FindProductsByIDs(ctx context.Context, ids []int64) ([]Product, error)
	Begin(ctx context.Context) (Tx, error)
}

// Tx writes are invisible to other sessions until Commit.
type Tx interface {
	// DecrementStock subtracts qty only if the product is active and has at
	// least qty in stock, as one conditional write. ok is false when nothing
	// was updated; price is the product price at that instant.
	DecrementStock(ctx context.Context, productID int64, qty int) (price int64, ok bool, err error)
	CreateOrder(ctx context.Context, orderID string, userID int64) (createdAt time.Time, err error)
	InsertLine(ctx context.Context, line Line) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
