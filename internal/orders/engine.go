package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const rollbackTimeout = 2 * time.Second

// Engine places orders: batch product lookup, then one transaction that
// conditionally decrements stock per line and records the order.
type Engine struct {
	store   Store
	timeout time.Duration
	log     *slog.Logger
	newID   func() string
}

func NewEngine(store Store, timeout time.Duration, log *slog.Logger) *Engine {
	return &Engine{
		store:   store,
		timeout: timeout,
		log:     log,
		newID:   uuid.NewString,
	}
}

// PlaceOrder runs to completion once started: the caller's cancellation is
// ignored, only the engine timeout applies (reported as ErrTransactionFailed).
func (e *Engine) PlaceOrder(ctx context.Context, userID int64, items []Item) (Order, error) {
	lines, err := mergeItems(items)
	if err != nil {
		return Order{}, err
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	ids := make([]int64, len(lines))
	for i, it := range lines {
		ids[i] = it.ProductID
	}
	products, err := e.store.FindProductsByIDs(ctx, ids)
	if err != nil {
		e.log.Error("order product lookup failed", "user_id", userID, "error", err)
		return Order{}, txFailed("find products", err)
	}
	names := make(map[int64]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	if len(names) < len(ids) {
		missing := make([]int64, 0, len(ids)-len(names))
		for _, id := range ids {
			if _, ok := names[id]; !ok {
				missing = append(missing, id)
			}
		}
		e.log.Info("order rejected", "user_id", userID, "reason", "product_not_found", "product_ids", missing)
		return Order{}, &NotFoundError{ProductIDs: missing}
	}

	order, err := e.place(ctx, userID, lines, names)
	if err != nil {
		return Order{}, err
	}
	e.log.Info("order placed", "order_id", order.ID, "user_id", userID, "lines", len(order.Lines))
	return order, nil
}

func (e *Engine) place(ctx context.Context, userID int64, lines []Item, names map[int64]string) (order Order, err error) {
	tx, err := e.store.Begin(ctx)
	if err != nil {
		e.log.Error("order begin failed", "user_id", userID, "error", err)
		return Order{}, txFailed("begin", err)
	}
	defer func() {
		if err == nil {
			return
		}
		rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
		defer cancel()
		if rbErr := tx.Rollback(rbCtx); rbErr != nil {
			e.log.Error("order rollback failed", "user_id", userID, "error", rbErr)
		}
	}()

	for _, it := range lines {
		price, ok, err := tx.DecrementStock(ctx, it.ProductID, it.Quantity)
		if err != nil {
			e.log.Error("order stock decrement failed", "user_id", userID, "product_id", it.ProductID, "error", err)
			return Order{}, txFailed("decrement stock", err)
		}
		if !ok {
			e.log.Info("order rejected", "user_id", userID, "reason", "insufficient_stock",
				"product_id", it.ProductID, "quantity", it.Quantity)
			return Order{}, &StockError{ProductID: it.ProductID, Requested: it.Quantity}
		}

		if order.ID == "" {
			order = Order{ID: e.newID(), UserID: userID}
			if order.CreatedAt, err = tx.CreateOrder(ctx, order.ID, userID); err != nil {
				e.log.Error("order header insert failed", "user_id", userID, "error", err)
				return Order{}, txFailed("create order", err)
			}
		}

		line := Line{
			OrderID:    order.ID,
			ProductID:  it.ProductID,
			Name:       names[it.ProductID],
			Quantity:   it.Quantity,
			PriceCents: price,
		}
		if err := tx.InsertLine(ctx, line); err != nil {
			e.log.Error("order line insert failed", "order_id", order.ID, "product_id", it.ProductID, "error", err)
			return Order{}, txFailed("insert line", err)
		}
		order.Lines = append(order.Lines, line)
	}

	if err := tx.Commit(ctx); err != nil {
		e.log.Error("order commit failed", "order_id", order.ID, "user_id", userID, "error", err)
		return Order{}, txFailed("commit", err)
	}
	return order, nil
}

// mergeItems validates the request and folds repeated product ids into a
// single line, keeping first-occurrence order.
func mergeItems(items []Item) ([]Item, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	out := make([]Item, 0, len(items))
	pos := make(map[int64]int, len(items))
	for _, it := range items {
		if it.Quantity <= 0 || it.Quantity > MaxQuantity {
			return nil, fmt.Errorf("%w: product %d", ErrInvalidQuantity, it.ProductID)
		}
		if i, ok := pos[it.ProductID]; ok {
			// both terms are within MaxQuantity, so the sum cannot overflow int
			if out[i].Quantity > MaxQuantity-it.Quantity {
				return nil, fmt.Errorf("%w: product %d exceeds %d in total", ErrInvalidQuantity, it.ProductID, MaxQuantity)
			}
			out[i].Quantity += it.Quantity
			continue
		}
		pos[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out, nil
}
