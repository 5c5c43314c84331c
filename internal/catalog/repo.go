package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-store-api/internal/postgres"
	"github.com/jackc/pgx/v5"
)

type Repository interface {
	Create(ctx context.Context, userID int64, p NewProduct) (Product, error)
	GetByID(ctx context.Context, id int64) (Product, error)
	List(ctx context.Context, f Filter) ([]Product, error)
	Update(ctx context.Context, id, userID int64, patch Patch) error
	// Deactivate reports false when the product was already inactive.
	Deactivate(ctx context.Context, id, userID int64) (bool, error)
	HasOrders(ctx context.Context, id int64) (bool, error)
}

type Repo struct{ DB postgres.DB }

var _ Repository = (*Repo)(nil)

const productColumns = `id, name, price_cents, stock, active, created_at, updated_at`

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
}

func (r *Repo) Create(ctx context.Context, userID int64, np NewProduct) (Product, error) {
	var p Product
	err := scanProduct(r.DB.QueryRow(ctx, `
		INSERT INTO products (name, price_cents, stock, last_update_user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+productColumns, np.Name, np.PriceCents, np.Stock, userID), &p)
	if err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (r *Repo) List(ctx context.Context, f Filter) ([]Product, error) {
	f = f.normalized()

	var (
		conds []string
		args  []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if f.PriceCents != nil {
		add("price_cents", *f.PriceCents)
	}
	if f.Stock != nil {
		add("stock", *f.Stock)
	}
	if f.Active != nil {
		add("active", *f.Active)
	}

	q := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, f.Size, f.Page*f.Size)
	q += fmt.Sprintf(` ORDER BY id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, id, userID int64, patch Patch) error {
	sets := []string{"last_update_user_id = $1", "updated_at = NOW()"}
	args := []any{userID}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.PriceCents != nil {
		set("price_cents", *patch.PriceCents)
	}
	if patch.Stock != nil {
		set("stock", *patch.Stock)
	}
	if patch.Active != nil {
		set("active", *patch.Active)
	}
	args = append(args, id)

	ct, err := r.DB.Exec(ctx, fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args)), args...)
	if err != nil {
		return fmt.Errorf("update product %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Deactivate(ctx context.Context, id, userID int64) (bool, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products
		SET active = FALSE, last_update_user_id = $1, updated_at = NOW()
		WHERE id = $2 AND active`, userID, id)
	if err != nil {
		return false, fmt.Errorf("deactivate product %d: %w", id, err)
	}
	return ct.RowsAffected() == 1, nil
}

func (r *Repo) HasOrders(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM order_lines WHERE product_id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check orders for product %d: %w", id, err)
	}
	return exists, nil
}
