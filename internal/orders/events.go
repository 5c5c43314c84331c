package orders

const (
	EventOrderPlaced = "OrderPlaced"

	TopicOrderPlaced = "order.placed"
)

type OrderPlacedLine struct {
	ProductID  int64 `json:"product_id"`
	Quantity   int   `json:"quantity"`
	PriceCents int64 `json:"price_cents"`
}

type OrderPlacedPayload struct {
	OrderID    string            `json:"order_id"`
	UserID     int64             `json:"user_id"`
	Lines      []OrderPlacedLine `json:"lines"`
	TotalCents int64             `json:"total_cents"`
}

func NewOrderPlacedPayload(o Order) OrderPlacedPayload {
	p := OrderPlacedPayload{OrderID: o.ID, UserID: o.UserID, Lines: make([]OrderPlacedLine, 0, len(o.Lines))}
	for _, l := range o.Lines {
		p.Lines = append(p.Lines, OrderPlacedLine{ProductID: l.ProductID, Quantity: l.Quantity, PriceCents: l.PriceCents})
		p.TotalCents += l.PriceCents * int64(l.Quantity)
	}
	return p
}

// ProductIDs lists the products whose stock this order changed.
func (p OrderPlacedPayload) ProductIDs() []int64 {
	ids := make([]int64, len(p.Lines))
	for i, l := range p.Lines {
		ids[i] = l.ProductID
	}
	return ids
}
