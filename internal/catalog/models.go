package catalog

import "time"

type Product struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Stock      int       `json:"stock"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type NewProduct struct {
	Name       string
	PriceCents int64
	Stock      int
}

// Patch carries only the fields to change; nil means keep.
type Patch struct {
	Name       *string
	PriceCents *int64
	Stock      *int
	Active     *bool
}

func (p Patch) Empty() bool {
	return p.Name == nil && p.PriceCents == nil && p.Stock == nil && p.Active == nil
}

// Filter matches by equality on every non-nil field.
type Filter struct {
	PriceCents *int64
	Stock      *int
	Active     *bool
	Page       int
	Size       int
}

const (
	DefaultPageSize = 30
	MaxPageSize     = 100
)

func (f Filter) normalized() Filter {
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
