package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ariefcatur/go-store-api/internal/auth"
	"github.com/ariefcatur/go-store-api/internal/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Catalog interface {
	Create(ctx context.Context, userID int64, np catalog.NewProduct) (catalog.Product, error)
	Get(ctx context.Context, id int64) (catalog.Product, error)
	List(ctx context.Context, f catalog.Filter) ([]catalog.Product, error)
	Update(ctx context.Context, id, userID int64, patch catalog.Patch) error
	Delete(ctx context.Context, id, userID int64) error
}

type ProductsHandler struct {
	Catalog Catalog
	Authn   func(http.Handler) http.Handler
	Log     *slog.Logger
}

type productView struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toProductView(p catalog.Product) productView {
	return productView{
		ID:        p.ID,
		Name:      p.Name,
		Price:     fromCents(p.PriceCents),
		Stock:     p.Stock,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type createProductReq struct {
	Name  string           `json:"name" validate:"required,max=200"`
	Price *decimal.Decimal `json:"price" validate:"required"`
	Stock *int             `json:"stock" validate:"required"`
}

type updateProductReq struct {
	Name   *string          `json:"name"`
	Price  *decimal.Decimal `json:"price"`
	Stock  *int             `json:"stock"`
	Active *bool            `json:"active"`
}

func (h *ProductsHandler) Register(r chi.Router) {
	r.Get("/products", h.list)
	r.Get("/product/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(h.Authn, requireRole(auth.RoleManager))
		r.Post("/product", h.create)
		r.Put("/product/{id}", h.update)
		r.Delete("/product/{id}", h.delete)
	})
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	active := true
	f := catalog.Filter{Active: &active}

	if v := q.Get("price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", "invalid price", nil)
			return
		}
		c, err := toCents(d)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
			return
		}
		f.PriceCents = &c
	}
	if v := q.Get("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", "invalid active", nil)
			return
		}
		active = b
	}
	for name, dst := range map[string]*int{"page": &f.Page, "size": &f.Size} {
		n, ok := queryInt(w, q, name)
		if !ok {
			return
		}
		if n != nil {
			*dst = *n
		}
	}
	stock, ok := queryInt(w, q, "stock")
	if !ok {
		return
	}
	f.Stock = stock

	ps, err := h.Catalog.List(r.Context(), f)
	if err != nil {
		h.fail(w, r, "list products", err)
		return
	}
	out := make([]productView, len(ps))
	for i, p := range ps {
		out[i] = toProductView(p)
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: out})
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(w http.ResponseWriter, q url.Values, name string) (*int, bool) {
	v := q.Get(name)
	if v == "" {
		return nil, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid "+name, nil)
		return nil, false
	}
	return &n, true
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	p, err := h.Catalog.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get product", err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: toProductView(p)})
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductReq
	if !decodeJSON(w, r, &req) {
		return
	}
	cents, err := toCents(*req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		return
	}

	p, err := h.Catalog.Create(r.Context(), callerID(r), catalog.NewProduct{Name: req.Name, PriceCents: cents, Stock: *req.Stock})
	if err != nil {
		h.fail(w, r, "create product", err)
		return
	}
	w.Header().Set("Location", "/product/"+strconv.FormatInt(p.ID, 10))
	writeJSON(w, http.StatusCreated, dataResponse{Data: toProductView(p)})
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	var req updateProductReq
	if !decodeJSON(w, r, &req) {
		return
	}
	patch := catalog.Patch{Name: req.Name, Stock: req.Stock, Active: req.Active}
	if req.Price != nil {
		cents, err := toCents(*req.Price)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
			return
		}
		patch.PriceCents = &cents
	}

	if err := h.Catalog.Update(r.Context(), id, callerID(r), patch); err != nil {
		h.fail(w, r, "update product", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	if err := h.Catalog.Delete(r.Context(), id, callerID(r)); err != nil {
		h.fail(w, r, "delete product", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *ProductsHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, catalog.ErrInvalidInput),
		errors.Is(err, catalog.ErrHasOrders),
		errors.Is(err, catalog.ErrAlreadyDeleted):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
	default:
		h.Log.Error(op+" failed", "error", err, "request_id", requestID(r))
		writeError(w, http.StatusInternalServerError, "internal_error", op+" failed", nil)
	}
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid product id", nil)
		return 0, false
	}
	return id, true
}

// callerID is only meaningful behind Authn.
func callerID(r *http.Request) int64 {
	p, _ := auth.PrincipalFrom(r.Context())
	return p.UserID
}
