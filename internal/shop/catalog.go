package shop

import (
	"context"
	"fmt"

	"shopbackend/internal/data"
	"shopbackend/internal/inventory"
)

// AddProduct adds a product with a unique index. Admin only.
func (s *Service) AddProduct(ctx context.Context, sess *Session, p data.Product) error {
	if _, err := sess.requireAdmin(); err != nil {
		return err
	}
	if err := s.catalog.Add(p); err != nil {
		return err
	}
	return s.Save(ctx)
}

// UpdateProduct overwrites an existing product. Admin only.
func (s *Service) UpdateProduct(ctx context.Context, sess *Session, index int, upd inventory.ProductUpdate) error {
	if _, err := sess.requireAdmin(); err != nil {
		return err
	}
	if err := s.catalog.Update(index, upd); err != nil {
		return err
	}
	return s.Save(ctx)
}

// RemoveProducts deletes the listed products and returns how many existed.
// Zero matches is not an error and does not save. Admin only.
func (s *Service) RemoveProducts(ctx context.Context, sess *Session, indices ...int) (int, error) {
	if _, err := sess.requireAdmin(); err != nil {
		return 0, err
	}
	if len(indices) == 0 {
		return 0, fmt.Errorf("%w: no product indices provided", data.ErrValidation)
	}
	removed := s.catalog.Remove(indices...)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.Save(ctx)
}

// Products returns the catalog. Anyone may read it.
func (s *Service) Products() []data.Product {
	return s.catalog.List()
}

// Product looks up one product by index
func (s *Service) Product(index int) (data.Product, error) {
	p, ok := s.catalog.Find(index)
	if !ok {
		return data.Product{}, fmt.Errorf("%w: product %d", data.ErrNotFound, index)
	}
	return *p, nil
}
