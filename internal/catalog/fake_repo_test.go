package catalog

import (
	"context"
	"sync"
	"time"
)

type fakeRepo struct {
	mu       sync.Mutex
	products map[int64]Product
	ordered  map[int64]bool
	nextID   int64
	gets     int

	err error
}

func newFakeRepo(ps ...Product) *fakeRepo {
	r := &fakeRepo{products: map[int64]Product{}, ordered: map[int64]bool{}, nextID: 1}
	for _, p := range ps {
		r.products[p.ID] = p
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, _ int64, np NewProduct) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return Product{}, r.err
	}
	now := time.Now().UTC()
	p := Product{ID: r.nextID, Name: np.Name, PriceCents: np.PriceCents, Stock: np.Stock, Active: true, CreatedAt: now, UpdatedAt: now}
	r.products[p.ID] = p
	r.nextID++
	return p, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	if r.err != nil {
		return Product{}, r.err
	}
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *fakeRepo) List(_ context.Context, f Filter) ([]Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Product{}
	for _, p := range r.products {
		if f.Active != nil && p.Active != *f.Active {
			continue
		}
		out = append(out, p)
	}
	return out, r.err
}

func (r *fakeRepo) Update(_ context.Context, id, _ int64, patch Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	p, ok := r.products[id]
	if !ok {
		return ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.PriceCents != nil {
		p.PriceCents = *patch.PriceCents
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Active != nil {
		p.Active = *patch.Active
	}
	r.products[id] = p
	return nil
}

func (r *fakeRepo) Deactivate(_ context.Context, id, _ int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	p, ok := r.products[id]
	if !ok || !p.Active {
		return false, nil
	}
	p.Active = false
	r.products[id] = p
	return true, nil
}

func (r *fakeRepo) HasOrders(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ordered[id], r.err
}

func (r *fakeRepo) getCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gets
}
