package order

import (
	"errors"
	"fmt"
	"math"

	"shopbackend/internal/data"
	"shopbackend/internal/logger"
)

// ErrMaxLevel reports that a customer is already at the top membership
// level. It is informational: nothing was attempted.
var ErrMaxLevel = errors.New("maximum membership level reached")

// UpgradeOffer describes the next membership step available to a customer
type UpgradeOffer struct {
	Username     string
	CurrentLevel int
	NextLevel    int
	Cost         float64
	Discount     float64 // discount fraction granted at NextLevel
}

// OfferUpgrade prices the next membership level for the customer without
// changing anything. The customer must be able to afford it.
func (s *Service) OfferUpgrade(customer *data.User) (UpgradeOffer, error) {
	if err := requireCustomer(customer); err != nil {
		return UpgradeOffer{}, err
	}

	level := customer.Customer.MembershipLevel
	if level >= data.MaxMembershipLevel {
		return UpgradeOffer{}, ErrMaxLevel
	}

	next := level + 1
	cost, ok := s.state.LevelCosts[next]
	if !ok || cost <= 0 {
		return UpgradeOffer{}, fmt.Errorf("%w: invalid membership level %d", data.ErrValidation, next)
	}
	discount, err := DiscountFor(next)
	if err != nil {
		return UpgradeOffer{}, err
	}

	if cost > customer.Customer.Budget {
		return UpgradeOffer{}, fmt.Errorf("%w: level %d costs $%.2f, budget is $%.2f",
			data.ErrAffordability, next, cost, customer.Customer.Budget)
	}

	return UpgradeOffer{
		Username:     customer.Username,
		CurrentLevel: level,
		NextLevel:    next,
		Cost:         cost,
		Discount:     discount,
	}, nil
}

// ApplyUpgrade debits the offer's cost and advances the level by one. The
// offer is re-validated so a stale one cannot skip a level or overdraw.
func (s *Service) ApplyUpgrade(customer *data.User, offer UpgradeOffer) error {
	current, err := s.OfferUpgrade(customer)
	if err != nil {
		return err
	}
	if current != offer {
		return fmt.Errorf("%w: membership offer is out of date", data.ErrValidation)
	}

	customer.Customer.Budget -= current.Cost
	customer.Customer.MembershipLevel = current.NextLevel

	logger.LogInfo("Customer %s upgraded to membership level %d for $%.2f (budget now $%.2f)",
		customer.Username, current.NextLevel, current.Cost, customer.Customer.Budget)
	return nil
}

// LevelCosts returns a copy of the membership cost table
func (s *Service) LevelCosts() data.LevelCosts {
	return s.state.LevelCosts.Clone()
}

// ChangeLevelCost sets the price of reaching level slot (1: 0→1, 2: 1→2, 3: 2→3)
func (s *Service) ChangeLevelCost(slot int, cost float64) error {
	if slot < 1 || slot > data.MaxMembershipLevel {
		return fmt.Errorf("%w: membership slot must be 1, 2 or 3, got %d", data.ErrValidation, slot)
	}
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost <= 0 {
		return fmt.Errorf("%w: membership cost must be positive, got %v", data.ErrValidation, cost)
	}
	if cost > data.MaxBudget {
		return fmt.Errorf("%w: membership cost cannot exceed $%.2f", data.ErrValidation, data.MaxBudget)
	}

	if s.state.LevelCosts == nil {
		s.state.LevelCosts = data.DefaultLevelCosts()
	}
	s.state.LevelCosts[slot] = roundCents(cost)

	logger.LogInfo("Membership level %d→%d now costs $%.2f", slot-1, slot, s.state.LevelCosts[slot])
	return nil
}
