package menu

import (
	"context"
	"strconv"
	"strings"

	"shopbackend/internal/data"
	"shopbackend/internal/inventory"
	"shopbackend/internal/shop"
)

func (m *Menu) adminLoop(ctx context.Context, sess *shop.Session) error {
	defer m.shop.Logout(sess)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.println("\n-------- Admin Menu --------")
		m.println("1. Read all customer data")
		m.println("2. Add product")
		m.println("3. Remove product")
		m.println("4. Update product")
		m.println("5. Read product listing")
		m.println("6. Read transaction history")
		m.println("7. Change cost of membership")
		m.println("8. Logout")

		choice, err := m.prompt(ctx, "Enter your choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			m.listCustomers(sess)
		case "2":
			err = m.addProduct(ctx, sess)
		case "3":
			m.listProducts()
			err = m.removeProducts(ctx, sess)
		case "4":
			m.listProducts()
			err = m.updateProduct(ctx, sess)
		case "5":
			m.listProducts()
		case "6":
			m.listTransactions(sess)
		case "7":
			err = m.changeMembershipCost(ctx, sess)
		case "8":
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

func (m *Menu) listCustomers(sess *shop.Session) {
	customers, err := m.shop.Customers(sess)
	if err != nil {
		m.report(err)
		return
	}
	m.println("User Listing:")
	for _, u := range customers {
		m.printf("Username: %s, Role: %s, Name: %s, Membership Level: %d, Budget: %s\n",
			u.Username, u.Role, u.Customer.Name, u.Customer.MembershipLevel, formatCurrency(u.Customer.Budget))
	}
}

func (m *Menu) listProducts() {
	m.println("Product Listing:")
	for _, p := range m.shop.Products() {
		m.printf("Index: %d, Name: %s, Price: %s, Manufacturer: %s, Remarks: %s\n",
			p.Index, p.Name, formatCurrency(p.Price), p.Manufacturer, strings.Join(p.Remarks, " "))
	}
}

func (m *Menu) listTransactions(sess *shop.Session) {
	transactions, err := m.shop.Transactions(sess)
	if err != nil {
		m.report(err)
		return
	}
	m.println("Transaction history:")
	for _, t := range transactions {
		m.printf("Customer username: %s, Product index: %d, Quantity: %d, Total cost: %s, "+
			"Discount: %.0f%%, Discounted cost: %s, Final cost: %s, Date: %s\n",
			t.Username, t.ProductIndex, t.Quantity, formatCurrency(t.TotalCost),
			t.Discount*100, formatCurrency(t.DiscountedCost), formatCurrency(t.FinalCost),
			t.Date.Format("2006-01-02 15:04:05"))
	}
}

// readProductFields prompts for everything but the index
func (m *Menu) readProductFields(ctx context.Context, namePrompt, pricePrompt, makerPrompt, remarksPrompt string) (inventory.ProductUpdate, bool, error) {
	var upd inventory.ProductUpdate

	name, err := m.prompt(ctx, namePrompt)
	if err != nil {
		return upd, false, err
	}
	price, ok, err := m.promptFloat(ctx, pricePrompt)
	if err != nil || !ok {
		return upd, false, err
	}
	manufacturer, err := m.prompt(ctx, makerPrompt)
	if err != nil {
		return upd, false, err
	}
	remarks, err := m.prompt(ctx, remarksPrompt)
	if err != nil {
		return upd, false, err
	}

	upd = inventory.ProductUpdate{
		Name:         name,
		Price:        price,
		Manufacturer: manufacturer,
		Remarks:      inventory.ParseRemarks(remarks),
	}
	return upd, true, nil
}

func (m *Menu) addProduct(ctx context.Context, sess *shop.Session) error {
	index, ok, err := m.promptInt(ctx, "Enter product index (integer): ")
	if err != nil || !ok {
		return err
	}
	if _, err := m.shop.Product(index); err == nil {
		m.println("Product index must be unique and cannot be repeated.")
		return nil
	}

	fields, ok, err := m.readProductFields(ctx, "Enter product name: ", "Enter price: ",
		"Enter manufacturer: ", "Enter remarks: ")
	if err != nil || !ok {
		return err
	}

	product := data.Product{
		Index:        index,
		Name:         fields.Name,
		Price:        fields.Price,
		Manufacturer: fields.Manufacturer,
		Remarks:      fields.Remarks,
	}
	if err := m.shop.AddProduct(ctx, sess, product); err != nil {
		m.report(err)
		return nil
	}
	m.println("Product added successfully.")
	return nil
}

func (m *Menu) removeProducts(ctx context.Context, sess *shop.Session) error {
	line, err := m.prompt(ctx, "Please enter product indexes you want to delete (separated by spaces): ")
	if err != nil {
		return err
	}

	var indices []int
	for _, field := range strings.Fields(line) {
		idx, err := strconv.Atoi(field)
		if err != nil {
			m.printf("Invalid product index: %q\n", field)
			return nil
		}
		indices = append(indices, idx)
	}

	removed, err := m.shop.RemoveProducts(ctx, sess, indices...)
	if err != nil {
		m.report(err)
		return nil
	}
	if removed == 0 {
		m.println("No matching products found.")
		return nil
	}
	m.printf("%d product(s) removed successfully.\n", removed)
	return nil
}

func (m *Menu) updateProduct(ctx context.Context, sess *shop.Session) error {
	index, ok, err := m.promptInt(ctx, "Enter product index to update: ")
	if err != nil || !ok {
		return err
	}
	if _, err := m.shop.Product(index); err != nil {
		m.println("Product not found.")
		return nil
	}

	upd, ok, err := m.readProductFields(ctx, "Enter new product name: ", "Enter new price: ",
		"Enter new manufacturer: ", "Enter new remarks: ")
	if err != nil || !ok {
		return err
	}
	if err := m.shop.UpdateProduct(ctx, sess, index, upd); err != nil {
		m.report(err)
		return nil
	}
	m.println("Product updated successfully.")
	return nil
}

func (m *Menu) changeMembershipCost(ctx context.Context, sess *shop.Session) error {
	costs := m.shop.LevelCosts()
	m.println("Membership level increases 1 level at a time")
	for slot := 1; slot <= data.MaxMembershipLevel; slot++ {
		m.printf("%d. level %d to %d costs %s\n", slot, slot-1, slot, formatCurrency(costs[slot]))
	}

	slot, ok, err := m.promptInt(ctx, "Please select which membership level cost to change: ")
	if err != nil || !ok {
		return err
	}
	if slot < 1 || slot > data.MaxMembershipLevel {
		m.println("Invalid input.")
		return nil
	}

	cost, ok, err := m.promptFloat(ctx, "Please enter the new cost: ")
	if err != nil || !ok {
		return err
	}
	if err := m.shop.ChangeLevelCost(ctx, sess, slot, cost); err != nil {
		m.report(err)
		return nil
	}
	m.printf("Membership level %d to %d now costs %s\n", slot-1, slot, formatCurrency(m.shop.LevelCosts()[slot]))
	return nil
}
