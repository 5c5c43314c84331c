package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-store-api/internal/postgres"
	"github.com/jackc/pgx/v5"
)

// Repo is the PostgreSQL Store.
type Repo struct{ DB postgres.DB }

var _ Store = (*Repo)(nil)

func (r *Repo) FindProductsByIDs(ctx context.Context, ids []int64) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, price_cents, stock, active
		FROM products
		WHERE id = ANY($1) AND active`, ids)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Stock, &p.Active); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Begin opens a READ COMMITTED transaction; row locks taken by the
// conditional UPDATE serialize concurrent decrements of the same product.
func (r *Repo) Begin(ctx context.Context) (Tx, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgTx{tx: tx}, nil
}

type pgTx struct{ tx pgx.Tx }

func (t *pgTx) DecrementStock(ctx context.Context, productID int64, qty int) (int64, bool, error) {
	var price int64
	err := t.tx.QueryRow(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND active AND stock >= $2
		RETURNING price_cents`, productID, qty).Scan(&price)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return price, true, nil
}

func (t *pgTx) CreateOrder(ctx context.Context, orderID string, userID int64) (time.Time, error) {
	var createdAt time.Time
	err := t.tx.QueryRow(ctx, `
		INSERT INTO orders (id, user_id)
		VALUES ($1, $2)
		RETURNING created_at`, orderID, userID).Scan(&createdAt)
	return createdAt, err
}

func (t *pgTx) InsertLine(ctx context.Context, l Line) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO order_lines (order_id, product_id, quantity, price_cents)
		VALUES ($1, $2, $3, $4)`, l.OrderID, l.ProductID, l.Quantity, l.PriceCents)
	return err
}

func (t *pgTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *pgTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

// ListOrders pages order headers newest first, then loads their lines with
// the current product name in one query.
func (r *Repo) ListOrders(ctx context.Context, f ListFilter) ([]Order, error) {
	f = f.normalized()

	var (
		rows pgx.Rows
		err  error
	)
	if f.UserID > 0 {
		rows, err = r.DB.Query(ctx, `
			SELECT id, user_id, created_at FROM orders
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2 OFFSET $3`, f.UserID, f.Size, f.Page*f.Size)
	} else {
		rows, err = r.DB.Query(ctx, `
			SELECT id, user_id, created_at FROM orders
			ORDER BY created_at DESC, id DESC
			LIMIT $1 OFFSET $2`, f.Size, f.Page*f.Size)
	}
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	var out []Order
	ids := []string{}
	byID := map[string]int{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		byID[o.ID] = len(out)
		ids = append(ids, o.ID)
		out = append(out, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Order{}, nil
	}

	lrows, err := r.DB.Query(ctx, `
		SELECT l.order_id, l.product_id, p.name, l.quantity, l.price_cents
		FROM order_lines l
		JOIN products p ON p.id = l.product_id
		WHERE l.order_id = ANY($1::uuid[])
		ORDER BY l.order_id, l.product_id`, ids)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer lrows.Close()

	for lrows.Next() {
		var l Line
		if err := lrows.Scan(&l.OrderID, &l.ProductID, &l.Name, &l.Quantity, &l.PriceCents); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		if i, ok := byID[l.OrderID]; ok {
			out[i].Lines = append(out[i].Lines, l)
		}
	}
	return out, lrows.Err()
}
