package orders

import (
	"math"
	"time"
)

// Product is the slice of a catalog row the engine needs.
type Product struct {
	ID         int64
	Name       string
	PriceCents int64
	Stock      int
	Active     bool
}

// MaxQuantity bounds one line, after merging, to the range of the integer
// columns it is written to.
const MaxQuantity = math.MaxInt32

// Item is one requested (product, quantity) pair. Unknown ids, zero and
// negative ones included, are left to the lookup and reported as not found.
type Item struct {
	ProductID int64 `json:"id"`
	Quantity  int   `json:"quantity" validate:"required,gt=0,lte=2147483647"`
}

type Order struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Lines     []Line    `json:"products"`
}

// Line keeps the price paid at placement; later catalog edits never touch it.
type Line struct {
	OrderID    string `json:"order_id"`
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name,omitempty"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

type ListFilter struct {
	UserID int64 // 0 lists every user's orders
	Page   int
	Size   int
}

const (
	DefaultPageSize = 30
	MaxPageSize     = 100
)

func (f ListFilter) normalized() ListFilter {
	if f.Page < 0 {
		f.Page = 0
	}
	if f.Size <= 0 {
		f.Size = DefaultPageSize
	}
	if f.Size > MaxPageSize {
		f.Size = MaxPageSize
	}
	return f
}
