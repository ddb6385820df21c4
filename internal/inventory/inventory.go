package inventory

import (
	"fmt"
	"math"
	"strings"

	"shopbackend/internal/data"
	"shopbackend/internal/logger"
)

// Service operates on the product list of a loaded State. It performs no
// capability checks and no persistence; the shop layer does both.
type Service struct {
	state *data.State
}

func NewService(state *data.State) *Service {
	return &Service{state: state}
}

// ProductUpdate replaces every editable field of an existing product
type ProductUpdate struct {
	Name         string
	Price        float64
	Manufacturer string
	Remarks      []string
}

// ParseRemarks splits a free-text line into its whitespace-separated tokens
func ParseRemarks(line string) []string {
	return strings.Fields(line)
}

// =============================================================================
// VALIDATION
// =============================================================================

func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return fmt.Errorf("%w: price must be a non-negative number, got %v", data.ErrValidation, price)
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: product name is required", data.ErrValidation)
	}
	return nil
}

// =============================================================================
// CATALOG OPERATIONS
// =============================================================================

// Add appends a product. The index must not already be in use.
func (s *Service) Add(p data.Product) error {
	if _, exists := s.Find(p.Index); exists {
		return fmt.Errorf("%w: product index %d must be unique and cannot be repeated", data.ErrValidation, p.Index)
	}
	if err := validateName(p.Name); err != nil {
		return err
	}
	if err := validatePrice(p.Price); err != nil {
		return err
	}

	product := p
	product.Remarks = append([]string{}, p.Remarks...)
	s.state.Products = append(s.state.Products, &product)

	logger.LogInfo("Product %d (%s) added at $%.2f", product.Index, product.Name, product.Price)
	return nil
}

// Update overwrites the fields of the product with the given index
func (s *Service) Update(index int, upd ProductUpdate) error {
	product, exists := s.Find(index)
	if !exists {
		return fmt.Errorf("%w: product %d", data.ErrNotFound, index)
	}
	if err := validateName(upd.Name); err != nil {
		return err
	}
	if err := validatePrice(upd.Price); err != nil {
		return err
	}

	product.Name = upd.Name
	product.Price = upd.Price
	product.Manufacturer = upd.Manufacturer
	product.Remarks = append([]string{}, upd.Remarks...)

	logger.LogInfo("Product %d updated", index)
	return nil
}

// Remove deletes every product whose index is listed and reports how many
// were found. Unknown indices are ignored.
func (s *Service) Remove(indices ...int) int {
	wanted := make(map[int]bool, len(indices))
	for _, idx := range indices {
		wanted[idx] = true
	}

	kept := s.state.Products[:0]
	removed := 0
	for _, p := range s.state.Products {
		if wanted[p.Index] {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(s.state.Products); i++ {
		s.state.Products[i] = nil
	}
	s.state.Products = kept

	if removed > 0 {
		logger.LogInfo("Removed %d product(s)", removed)
	}
	return removed
}

// =============================================================================
// INFORMATIONAL METHODS
// =============================================================================

// Find returns the live product with the given index
func (s *Service) Find(index int) (*data.Product, bool) {
	for _, p := range s.state.Products {
		if p.Index == index {
			return p, true
		}
	}
	return nil, false
}

// List returns copies of all products in catalog order
func (s *Service) List() []data.Product {
	products := make([]data.Product, 0, len(s.state.Products))
	for _, p := range s.state.Products {
		cp := *p
		cp.Remarks = append([]string{}, p.Remarks...)
		products = append(products, cp)
	}
	return products
}

// Count returns the number of products in the catalog
func (s *Service) Count() int {
	return len(s.state.Products)
}
