package catalog

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID int64, np NewProduct) (Product, error) {
	np.Name = strings.TrimSpace(np.Name)
	if np.Name == "" {
		return Product{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if np.PriceCents < 0 || np.Stock < 0 {
		return Product{}, fmt.Errorf("%w: price and stock must not be negative", ErrInvalidInput)
	}
	return s.repo.Create(ctx, userID, np)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	return s.repo.List(ctx, f)
}

// Update applies a partial change. Setting Stock is the manual restock path.
func (s *Service) Update(ctx context.Context, id, userID int64, patch Patch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return fmt.Errorf("%w: name must not be blank", ErrInvalidInput)
		}
		patch.Name = &name
	}
	if (patch.PriceCents != nil && *patch.PriceCents < 0) || (patch.Stock != nil && *patch.Stock < 0) {
		return fmt.Errorf("%w: price and stock must not be negative", ErrInvalidInput)
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if patch.Empty() {
		return nil
	}
	return s.repo.Update(ctx, id, userID, patch)
}

// Delete is a soft delete, refused once any order references the product.
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	hasOrders, err := s.repo.HasOrders(ctx, id)
	if err != nil {
		return err
	}
	if hasOrders {
		return ErrHasOrders
	}
	ok, err := s.repo.Deactivate(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlreadyDeleted
	}
	return nil
}
