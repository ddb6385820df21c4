package order

import (
	"fmt"
	"math"

	"shopbackend/internal/data"
)

// discountTable maps membership level to the fraction taken off a purchase
var discountTable = map[int]float64{
	0: 0,
	1: 0.05,
	2: 0.10,
	3: 0.15,
}

// Quote is the cost breakdown of buying Quantity units at UnitPrice
type Quote struct {
	UnitPrice      float64
	Quantity       int
	TotalCost      float64
	Discount       float64 // fraction
	DiscountedCost float64 // amount taken off
	FinalCost      float64
}

// DiscountFor returns the discount fraction of a membership level
func DiscountFor(level int) (float64, error) {
	discount, ok := discountTable[level]
	if !ok {
		return 0, fmt.Errorf("%w: no discount defined for membership level %d", data.ErrValidation, level)
	}
	return discount, nil
}

// QuotePurchase prices a purchase. FinalCost is exactly
// price*quantity*(1-discount); nothing is rounded, so the affordability
// check sees the true cost. Rounding is left to display.
func QuotePurchase(price float64, quantity, level int) (Quote, error) {
	if quantity <= 0 {
		return Quote{}, fmt.Errorf("%w: quantity must be a positive integer, got %d", data.ErrValidation, quantity)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return Quote{}, fmt.Errorf("%w: price must be non-negative, got %v", data.ErrValidation, price)
	}
	discount, err := DiscountFor(level)
	if err != nil {
		return Quote{}, err
	}

	total := price * float64(quantity)
	if math.IsInf(total, 0) {
		return Quote{}, fmt.Errorf("%w: total cost overflows", data.ErrValidation)
	}

	return Quote{
		UnitPrice:      price,
		Quantity:       quantity,
		TotalCost:      total,
		Discount:       discount,
		DiscountedCost: total * discount,
		FinalCost:      total * (1 - discount),
	}, nil
}

// roundCents rounds to 2 decimal places. Values too large to scale are
// returned unchanged.
func roundCents(v float64) float64 {
	scaled := v * 100
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		return v
	}
	return math.Round(scaled) / 100
}
