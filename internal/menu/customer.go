package menu

import (
	"context"
	"strings"

	"shopbackend/internal/shop"
)

func (m *Menu) customerLoop(ctx context.Context, sess *shop.Session) error {
	defer m.shop.Logout(sess)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		customer := sess.User().Customer
		m.println("\n-------- Customer Menu --------")
		m.printf("Membership level: %d\n", customer.MembershipLevel)
		m.printf("Remaining budget: %s\n", formatCurrency(customer.Budget))
		m.println("1. Increase membership level")
		m.println("2. Make transaction")
		m.println("3. Read product listing")
		m.println("4. Add money to budget")
		m.println("5. Logout")

		choice, err := m.prompt(ctx, "Enter your choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = m.upgradeMembership(ctx, sess)
		case "2":
			err = m.purchase(ctx, sess)
		case "3":
			m.listProducts()
		case "4":
			err = m.addFunds(ctx, sess)
		case "5":
			m.println("Logged out.")
			return nil
		default:
			m.println("Invalid choice.")
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) purchase(ctx context.Context, sess *shop.Session) error {
	m.listProducts()
	m.printf("Budget: %s\n", formatCurrency(sess.User().Customer.Budget))

	index, ok, err := m.promptInt(ctx, "Enter product index to purchase: ")
	if err != nil || !ok {
		return err
	}
	if _, err := m.shop.Product(index); err != nil {
		m.println("Product not found.")
		return nil
	}

	quantity, ok, err := m.promptInt(ctx, "Enter quantity to purchase: ")
	if err != nil || !ok {
		return err
	}

	txn, err := m.shop.Purchase(ctx, sess, index, quantity)
	if err != nil {
		m.report(err)
		return nil
	}

	m.println("Transaction successful.")
	m.printf("Product bought: index %d\n", txn.ProductIndex)
	m.printf("Quantity: %d\n", txn.Quantity)
	m.printf("Total cost: %s\n", formatCurrency(txn.TotalCost))
	m.printf("Discount: %.0f%%\n", txn.Discount*100)
	m.printf("Discounted cost: %s\n", formatCurrency(txn.DiscountedCost))
	m.printf("Final price: %s\n", formatCurrency(txn.FinalCost))
	m.printf("Remaining budget: %s\n", formatCurrency(sess.User().Customer.Budget))
	return nil
}

func (m *Menu) addFunds(ctx context.Context, sess *shop.Session) error {
	amount, ok, err := m.promptFloat(ctx, "Enter the amount to add: ")
	if err != nil || !ok {
		return err
	}
	budget, err := m.shop.AddFunds(ctx, sess, amount)
	if err != nil {
		m.report(err)
		return nil
	}
	m.printf("Remaining budget: %s\n", formatCurrency(budget))
	m.println("Money added successfully.")
	return nil
}

func (m *Menu) upgradeMembership(ctx context.Context, sess *shop.Session) error {
	offer, err := m.shop.OfferUpgrade(sess)
	if err != nil {
		m.report(err)
		return nil
	}

	m.printf("Membership level %d costs %s and gives a %.0f%% discount on every transaction\n",
		offer.NextLevel, formatCurrency(offer.Cost), offer.Discount*100)
	answer, err := m.prompt(ctx, "Do you want to increase your membership level? (y/n) ")
	if err != nil {
		return err
	}

	switch strings.ToLower(answer) {
	case "y":
		if err := m.shop.ConfirmUpgrade(ctx, sess, offer); err != nil {
			m.report(err)
			return nil
		}
		m.printf("Membership level increased to %d.\n", offer.NextLevel)
		m.printf("Remaining budget: %s\n", formatCurrency(sess.User().Customer.Budget))
	case "n":
		m.println("Membership level was not increased.")
	default:
		m.println("Invalid input.")
	}
	return nil
}
