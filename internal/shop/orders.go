package shop

import (
	"context"

	"shopbackend/internal/data"
	"shopbackend/internal/order"
)

// Purchase buys quantity units of a product for the logged-in customer
func (s *Service) Purchase(ctx context.Context, sess *Session, productIndex, quantity int) (data.Transaction, error) {
	customer, err := sess.requireCustomer()
	if err != nil {
		return data.Transaction{}, err
	}
	txn, err := s.orders.Purchase(customer, productIndex, quantity)
	if err != nil {
		return data.Transaction{}, err
	}
	return txn, s.Save(ctx)
}

// QuotePurchase prices a purchase for the logged-in customer without buying
func (s *Service) QuotePurchase(sess *Session, productIndex, quantity int) (order.Quote, error) {
	customer, err := sess.requireCustomer()
	if err != nil {
		return order.Quote{}, err
	}
	product, err := s.Product(productIndex)
	if err != nil {
		return order.Quote{}, err
	}
	return order.QuotePurchase(product.Price, quantity, customer.Customer.MembershipLevel)
}

// AddFunds tops up the logged-in customer's budget and returns the balance
func (s *Service) AddFunds(ctx context.Context, sess *Session, amount float64) (float64, error) {
	customer, err := sess.requireCustomer()
	if err != nil {
		return 0, err
	}
	budget, err := s.orders.AddFunds(customer, amount)
	if err != nil {
		return 0, err
	}
	return budget, s.Save(ctx)
}

// Transactions returns the whole purchase log. Admin only.
func (s *Service) Transactions(sess *Session) ([]data.Transaction, error) {
	if _, err := sess.requireAdmin(); err != nil {
		return nil, err
	}
	return s.orders.Transactions(), nil
}

// OfferUpgrade prices the next membership level for the logged-in customer
func (s *Service) OfferUpgrade(sess *Session) (order.UpgradeOffer, error) {
	customer, err := sess.requireCustomer()
	if err != nil {
		return order.UpgradeOffer{}, err
	}
	return s.orders.OfferUpgrade(customer)
}

// ConfirmUpgrade applies an accepted offer and saves
func (s *Service) ConfirmUpgrade(ctx context.Context, sess *Session, offer order.UpgradeOffer) error {
	customer, err := sess.requireCustomer()
	if err != nil {
		return err
	}
	if err := s.orders.ApplyUpgrade(customer, offer); err != nil {
		return err
	}
	return s.Save(ctx)
}

// LevelCosts returns the membership cost table
func (s *Service) LevelCosts() data.LevelCosts {
	return s.orders.LevelCosts()
}

// ChangeLevelCost sets the price of one membership step. Admin only.
func (s *Service) ChangeLevelCost(ctx context.Context, sess *Session, slot int, cost float64) error {
	if _, err := sess.requireAdmin(); err != nil {
		return err
	}
	if err := s.orders.ChangeLevelCost(slot, cost); err != nil {
		return err
	}
	return s.Save(ctx)
}
