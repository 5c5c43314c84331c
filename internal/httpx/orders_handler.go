package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ariefcatur/go-store-api/internal/auth"
	kafkax "github.com/ariefcatur/go-store-api/internal/kafka"
	"github.com/ariefcatur/go-store-api/internal/orders"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, userID int64, items []orders.Item) (orders.Order, error)
}

type OrderLister interface {
	ListOrders(ctx context.Context, f orders.ListFilter) ([]orders.Order, error)
}

type OrdersHandler struct {
	Engine    OrderPlacer
	Orders    OrderLister
	Publisher kafkax.Publisher
	Service   string
	Authn     func(http.Handler) http.Handler
	Log       *slog.Logger
}

type placeOrderReq struct {
	Products []orders.Item `json:"products" validate:"required,min=1,dive"`
}

type orderLineView struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type orderView struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
	Products  []orderLineView `json:"products"`
}

func toOrderView(o orders.Order) orderView {
	v := orderView{ID: o.ID, UserID: o.UserID, CreatedAt: o.CreatedAt, Products: make([]orderLineView, len(o.Lines))}
	for i, l := range o.Lines {
		v.Products[i] = orderLineView{ProductID: l.ProductID, Name: l.Name, Quantity: l.Quantity, Price: fromCents(l.PriceCents)}
	}
	return v
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.Authn)
		r.Post("/order", h.placeOrder)
		r.Get("/orders", h.listOrders)
	})
}

// placeOrder answers 201 with no body once the order is committed.
func (h *OrdersHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderReq
	if !decodeJSON(w, r, &req) {
		return
	}
	userID := callerID(r)

	order, err := h.Engine.PlaceOrder(r.Context(), userID, req.Products)
	if err != nil {
		var (
			nf *orders.NotFoundError
			se *orders.StockError
		)
		switch {
		case errors.As(err, &nf):
			writeError(w, http.StatusNotFound, "product_not_found", err.Error(), map[string]any{"product_ids": nf.ProductIDs})
		case errors.As(err, &se):
			writeError(w, http.StatusBadRequest, "insufficient_stock", err.Error(), map[string]any{"product_id": se.ProductID})
		case errors.Is(err, orders.ErrEmptyOrder), errors.Is(err, orders.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		default:
			h.Log.Error("place order failed", "user_id", userID, "error", err, "request_id", requestID(r))
			writeError(w, http.StatusInternalServerError, "transaction_failed", orders.ErrTransactionFailed.Error(), nil)
		}
		return
	}

	env := kafkax.NewEnvelope(orders.EventOrderPlaced, h.Service, requestID(r), order.ID, orders.NewOrderPlacedPayload(order))
	kafkax.PublishEnvelope(h.Publisher, env)

	w.WriteHeader(http.StatusCreated)
}

// listOrders shows managers every order and other callers only their own.
func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f orders.ListFilter
	page, ok := queryInt(w, q, "page")
	if !ok {
		return
	}
	size, ok := queryInt(w, q, "size")
	if !ok {
		return
	}
	if page != nil {
		f.Page = *page
	}
	if size != nil {
		f.Size = *size
	}

	p, _ := auth.PrincipalFrom(r.Context())
	if !p.HasRole(auth.RoleManager) {
		f.UserID = p.UserID
	}

	list, err := h.Orders.ListOrders(r.Context(), f)
	if err != nil {
		h.Log.Error("list orders failed", "user_id", p.UserID, "error", err, "request_id", requestID(r))
		writeError(w, http.StatusInternalServerError, "internal_error", "list orders failed", nil)
		return
	}
	out := make([]orderView, len(list))
	for i, o := range list {
		out[i] = toOrderView(o)
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: out})
}
