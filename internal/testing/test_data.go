package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"shopbackend/internal/data"
	"shopbackend/internal/shop"
)

const (
	TestAdminUsername = "root"
	TestAdminPassword = "rootpw"
	TestPassword      = "secret1"
)

// TestCustomerData describes a customer account to register
type TestCustomerData struct {
	Username string
	Password string
	Name     string
	Budget   float64
	Level    int
}

// GenerateTestCustomer creates customer data with optional variations
func (ts *TestSuite) GenerateTestCustomer(variations ...string) TestCustomerData {
	testData := TestCustomerData{
		Username: ts.GenerateUsername("customer"),
		Password: TestPassword,
		Name:     "Jane Smith",
		Budget:   100,
	}

	for _, variation := range variations {
		switch variation {
		case "member":
			testData.Level = 1
		case "silver":
			testData.Level = 2
		case "gold":
			testData.Level = data.MaxMembershipLevel
		case "broke":
			testData.Budget = 10
		case "empty_wallet":
			testData.Budget = 0
		case "rich":
			testData.Budget = 10000
		case "short_password":
			testData.Password = "abc"
		}
	}

	return testData
}

// Registration converts test data to a shop registration
func (td TestCustomerData) Registration() shop.Registration {
	return shop.Registration{
		Username: td.Username,
		Password: td.Password,
		Role:     string(data.RoleCustomer),
		Name:     td.Name,
		Budget:   td.Budget,
	}
}

// RegisterCustomer registers the customer, places them at their membership
// level and returns a logged-in session
func (ts *TestSuite) RegisterCustomer(t *testing.T, td TestCustomerData) *shop.Session {
	t.Helper()
	ctx := context.Background()

	user, err := ts.Shop.Register(ctx, td.Registration())
	require.NoError(t, err, "register %s", td.Username)
	if td.Level > 0 {
		user.Customer.MembershipLevel = td.Level
		require.NoError(t, ts.Shop.Save(ctx))
	}
	return ts.LoginAs(t, td.Username, td.Password)
}

// RegisterAdmin registers the suite admin and returns a logged-in session
func (ts *TestSuite) RegisterAdmin(t *testing.T) *shop.Session {
	t.Helper()
	if !ts.Shop.IsUsernameTaken(TestAdminUsername) {
		_, err := ts.Shop.Register(context.Background(), shop.Registration{
			Username: TestAdminUsername,
			Password: TestAdminPassword,
			Role:     string(data.RoleAdmin),
			Name:     "Store Admin",
		})
		require.NoError(t, err)
	}
	return ts.LoginAs(t, TestAdminUsername, TestAdminPassword)
}

// TestCatalog returns the products every scenario starts from
func TestCatalog() []data.Product {
	return []data.Product{
		{Index: 7, Name: "Kettle", Price: 40, Manufacturer: "Acme", Remarks: []string{"steel", "1.7L"}},
		{Index: 9, Name: "Mug", Price: 3.25, Manufacturer: "Acme", Remarks: []string{}},
		{Index: 12, Name: "Toaster", Price: 19.99, Manufacturer: "HeatCo", Remarks: []string{"2-slot"}},
	}
}

// SeedCatalog adds TestCatalog through the admin workflow
func (ts *TestSuite) SeedCatalog(t *testing.T, admin *shop.Session) {
	t.Helper()
	for _, p := range TestCatalog() {
		require.NoError(t, ts.Shop.AddProduct(context.Background(), admin, p), "add product %d", p.Index)
	}
}
