package orders

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errTxDone = errors.New("tx already closed")

// memStore applies conditional decrements atomically under one mutex and
// keeps order rows private to the transaction until Commit.
type memStore struct {
	mu       sync.Mutex
	products map[int64]*Product
	orders   map[string]Order
	lines    []Line

	findErr   error
	beginErr  error
	lineErr   error
	commitErr error
	// beforeDecrement runs outside the lock, e.g. to stall until ctx expires.
	beforeDecrement func(ctx context.Context, productID int64) error

	rollbacks int
}

func newMemStore(products ...Product) *memStore {
	s := &memStore{products: map[int64]*Product{}, orders: map[string]Order{}}
	for _, p := range products {
		p := p
		s.products[p.ID] = &p
	}
	return s
}

func (s *memStore) FindProductsByIDs(_ context.Context, ids []int64) ([]Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok && p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *memStore) Begin(context.Context) (Tx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return &memTx{s: s}, nil
}

func (s *memStore) stock(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

func (s *memStore) setPrice(id int64, cents int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[id].PriceCents = cents
}

func (s *memStore) counts() (orders, lines, rollbacks int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders), len(s.lines), s.rollbacks
}

type memTx struct {
	s      *memStore
	undo   []func()
	orders []Order
	lines  []Line
	done   bool
}

func (t *memTx) DecrementStock(ctx context.Context, productID int64, qty int) (int64, bool, error) {
	if t.s.beforeDecrement != nil {
		if err := t.s.beforeDecrement(ctx, productID); err != nil {
			return 0, false, err
		}
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	p, ok := t.s.products[productID]
	if !ok || !p.Active || p.Stock < qty {
		return 0, false, nil
	}
	p.Stock -= qty
	t.undo = append(t.undo, func() { p.Stock += qty })
	return p.PriceCents, true, nil
}

func (t *memTx) CreateOrder(_ context.Context, orderID string, userID int64) (time.Time, error) {
	now := time.Now().UTC()
	t.orders = append(t.orders, Order{ID: orderID, UserID: userID, CreatedAt: now})
	return now, nil
}

func (t *memTx) InsertLine(_ context.Context, l Line) error {
	if t.s.lineErr != nil {
		return t.s.lineErr
	}
	t.lines = append(t.lines, l)
	return nil
}

func (t *memTx) Commit(context.Context) error {
	if t.done {
		return errTxDone
	}
	if t.s.commitErr != nil {
		return t.s.commitErr
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, o := range t.orders {
		t.s.orders[o.ID] = o
	}
	t.s.lines = append(t.s.lines, t.lines...)
	t.done = true
	return nil
}

func (t *memTx) Rollback(context.Context) error {
	if t.done {
		return errTxDone
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.s.rollbacks++
	t.done = true
	return nil
}
