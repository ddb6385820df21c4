// database_test.go - durability of every workflow across a process restart
package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbackend/internal/data"
	"shopbackend/internal/inventory"
)

func TestPersistence(t *testing.T) {
	t.Run("EveryMutationIsSaved", func(t *testing.T) {
		forEachBackend(t, testEveryMutationIsSaved)
	})
	t.Run("OrphanedTransactionsLoad", func(t *testing.T) {
		forEachBackend(t, testOrphanedTransactionsLoad)
	})
	t.Run("EmptyStoreStartsClean", func(t *testing.T) {
		forEachBackend(t, testEmptyStoreStartsClean)
	})
}

func testEveryMutationIsSaved(t *testing.T, suite *TestSuite) {
	ctx := context.Background()
	admin := suite.RegisterAdmin(t)
	customer := suite.GenerateTestCustomer()
	sess := suite.RegisterCustomer(t, customer)

	steps := []struct {
		name   string
		mutate func() error
		check  func(t *testing.T, st *data.State)
	}{
		{
			name: "AddProduct",
			mutate: func() error {
				return suite.Shop.AddProduct(ctx, admin, data.Product{Index: 1, Name: "Lamp", Price: 12, Remarks: []string{"led"}})
			},
			check: func(t *testing.T, st *data.State) {
				require.Len(t, st.Products, 1)
				assert.Equal(t, "Lamp", st.Products[0].Name)
			},
		},
		{
			name: "UpdateProduct",
			mutate: func() error {
				return suite.Shop.UpdateProduct(ctx, admin, 1, inventory.ProductUpdate{Name: "Desk Lamp", Price: 15, Manufacturer: "Lumo"})
			},
			check: func(t *testing.T, st *data.State) {
				assert.Equal(t, data.Product{Index: 1, Name: "Desk Lamp", Price: 15, Manufacturer: "Lumo", Remarks: []string{}}, *st.Products[0])
			},
		},
		{
			name: "AddFunds",
			mutate: func() error {
				_, err := suite.Shop.AddFunds(ctx, sess, 50)
				return err
			},
			check: func(t *testing.T, st *data.State) {
				assert.Equal(t, 150.0, st.FindUser(customer.Username).Customer.Budget)
			},
		},
		{
			name: "Purchase",
			mutate: func() error {
				_, err := suite.Shop.Purchase(ctx, sess, 1, 2)
				return err
			},
			check: func(t *testing.T, st *data.State) {
				require.Len(t, st.Transactions, 1)
				assert.Equal(t, 120.0, st.FindUser(customer.Username).Customer.Budget)
			},
		},
		{
			name: "ChangeLevelCost",
			mutate: func() error {
				return suite.Shop.ChangeLevelCost(ctx, admin, 1, 8)
			},
			check: func(t *testing.T, st *data.State) {
				assert.Equal(t, 8.0, st.LevelCosts[1])
			},
		},
		{
			name: "Upgrade",
			mutate: func() error {
				offer, err := suite.Shop.OfferUpgrade(sess)
				if err != nil {
					return err
				}
				return suite.Shop.ConfirmUpgrade(ctx, sess, offer)
			},
			check: func(t *testing.T, st *data.State) {
				u := st.FindUser(customer.Username)
				assert.Equal(t, 1, u.Customer.MembershipLevel)
				assert.Equal(t, 112.0, u.Customer.Budget)
			},
		},
		{
			name: "RemoveProducts",
			mutate: func() error {
				_, err := suite.Shop.RemoveProducts(ctx, admin, 1)
				return err
			},
			check: func(t *testing.T, st *data.State) {
				assert.Empty(t, st.Products)
				assert.Len(t, st.Transactions, 1)
			},
		},
	}

	for _, step := range steps {
		require.NoError(t, step.mutate(), step.name)
		t.Run(step.name, func(t *testing.T) {
			step.check(t, suite.Persisted(t))
		})
	}
}

func testOrphanedTransactionsLoad(t *testing.T, suite *TestSuite) {
	ctx := context.Background()

	st := data.NewState()
	st.Transactions = append(st.Transactions, data.Transaction{
		ID:           "orphan-1",
		Username:     "gone",
		ProductIndex: 404,
		Quantity:     1,
		TotalCost:    10,
		FinalCost:    10,
		Date:         FixedNow,
	})
	require.NoError(t, suite.Store.Save(ctx, st))

	svc := suite.Reopen(t)
	admin := suite.RegisterAdmin(t)

	txns, err := svc.Transactions(admin)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "gone", txns[0].Username)
	assert.Nil(t, svc.State().FindUser("gone"))
}

func testEmptyStoreStartsClean(t *testing.T, suite *TestSuite) {
	st := suite.Shop.State()
	assert.Empty(t, st.Users)
	assert.Empty(t, st.Products)
	assert.Empty(t, st.Transactions)
	assert.Equal(t, data.DefaultLevelCosts(), suite.Shop.LevelCosts())
}
