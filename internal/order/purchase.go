package order

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"shopbackend/internal/data"
	"shopbackend/internal/inventory"
	"shopbackend/internal/logger"
)

// Service runs the budget-affecting workflows against a loaded State.
// It is not safe for concurrent use; the shop runs one session at a time.
type Service struct {
	state   *data.State
	catalog *inventory.Service
	now     func() time.Time
	newID   func() string
}

func NewService(state *data.State, catalog *inventory.Service) *Service {
	return &Service{
		state:   state,
		catalog: catalog,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// SetClock replaces the time source used to date transactions
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func requireCustomer(u *data.User) error {
	if !u.IsCustomer() {
		return fmt.Errorf("%w: you must be a customer to perform this action", data.ErrPermission)
	}
	return nil
}

// Purchase buys quantity units of a product for the customer. The budget is
// only debited, and the transaction only recorded, once the discounted cost
// is known to fit the budget; both happen together.
func (s *Service) Purchase(customer *data.User, productIndex, quantity int) (data.Transaction, error) {
	if err := requireCustomer(customer); err != nil {
		return data.Transaction{}, err
	}

	product, ok := s.catalog.Find(productIndex)
	if !ok {
		return data.Transaction{}, fmt.Errorf("%w: product %d", data.ErrNotFound, productIndex)
	}

	quote, err := QuotePurchase(product.Price, quantity, customer.Customer.MembershipLevel)
	if err != nil {
		return data.Transaction{}, err
	}

	if quote.FinalCost > customer.Customer.Budget {
		logger.LogWarn("Purchase by %s rejected: final cost %.2f exceeds budget %.2f",
			customer.Username, quote.FinalCost, customer.Customer.Budget)
		return data.Transaction{}, fmt.Errorf("%w: final cost $%.2f exceeds budget $%.2f",
			data.ErrAffordability, quote.FinalCost, customer.Customer.Budget)
	}

	txn := data.Transaction{
		ID:             s.newID(),
		Username:       customer.Username,
		ProductIndex:   productIndex,
		Quantity:       quantity,
		TotalCost:      quote.TotalCost,
		Discount:       quote.Discount,
		DiscountedCost: quote.DiscountedCost,
		FinalCost:      quote.FinalCost,
		Date:           s.now().Truncate(time.Second),
	}

	customer.Customer.Budget -= quote.FinalCost
	s.state.Transactions = append(s.state.Transactions, txn)

	logger.LogInfo("Transaction %s: %s bought %d x product %d for $%.2f (remaining budget $%.2f)",
		txn.ID, txn.Username, txn.Quantity, txn.ProductIndex, txn.FinalCost, customer.Customer.Budget)
	return txn, nil
}

// AddFunds tops up a customer's budget and returns the new balance
func (s *Service) AddFunds(customer *data.User, amount float64) (float64, error) {
	if err := requireCustomer(customer); err != nil {
		return 0, err
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive, got %v", data.ErrValidation, amount)
	}

	budget := customer.Customer.Budget + amount
	if math.IsInf(budget, 0) || budget > data.MaxBudget {
		return 0, fmt.Errorf("%w: budget cannot exceed $%.2f", data.ErrValidation, data.MaxBudget)
	}

	customer.Customer.Budget = budget
	logger.LogInfo("Customer %s added $%.2f (budget now $%.2f)", customer.Username, amount, customer.Customer.Budget)
	return customer.Customer.Budget, nil
}

// Transactions returns a copy of the transaction log in insertion order
func (s *Service) Transactions() []data.Transaction {
	return append([]data.Transaction{}, s.state.Transactions...)
}
