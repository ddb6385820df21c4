package shop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbackend/internal/data"
	"shopbackend/internal/inventory"
)

type failingStore struct {
	saves int
}

func (f *failingStore) Load(context.Context) (*data.State, error) { return data.NewState(), nil }
func (f *failingStore) Save(context.Context, *data.State) error {
	f.saves++
	return errors.New("disk full")
}
func (f *failingStore) Close() error { return nil }

func newTestShop(t *testing.T) (*Service, *data.FileStore) {
	t.Helper()
	store := data.NewFileStore(t.TempDir())
	svc, err := Open(context.Background(), store)
	require.NoError(t, err)
	svc.SetClock(func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) })
	return svc, store
}

func reload(t *testing.T, store data.Store) *data.State {
	t.Helper()
	st, err := store.Load(context.Background())
	require.NoError(t, err)
	return st
}

func mustRegister(t *testing.T, svc *Service, reg Registration) *Session {
	t.Helper()
	_, err := svc.Register(context.Background(), reg)
	require.NoError(t, err)
	sess, err := svc.Login(reg.Username, reg.Password)
	require.NoError(t, err)
	return sess
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestShop(t)

	user, err := svc.Register(ctx, Registration{Username: "alice", Password: "secret1", Role: "Customer", Name: "Alice", Budget: 100})
	require.NoError(t, err)
	assert.True(t, user.IsCustomer())
	assert.Equal(t, 0, user.Customer.MembershipLevel)
	assert.Equal(t, 100.0, user.Customer.Budget)

	persisted := reload(t, store)
	require.Len(t, persisted.Users, 1)
	assert.Equal(t, "alice", persisted.Users[0].Username)

	cases := map[string]Registration{
		"DuplicateUsername": {Username: "alice", Password: "another1", Role: "customer", Name: "A2", Budget: 5},
		"ShortPassword":     {Username: "bob", Password: "abc", Role: "customer", Name: "Bob", Budget: 5},
		"UnknownRole":       {Username: "carol", Password: "secret1", Role: "auditor", Name: "Carol"},
		"NegativeBudget":    {Username: "dave", Password: "secret1", Role: "customer", Name: "Dave", Budget: -1},
		"EmptyUsername":     {Username: "", Password: "secret1", Role: "admin", Name: "Nobody"},
		"ShortMultibyte":    {Username: "erin", Password: "ééé", Role: "customer", Name: "Erin", Budget: 5},
		"BudgetOverCap":     {Username: "frank", Password: "secret1", Role: "customer", Name: "Frank", Budget: 1e307},
	}
	for name, reg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(ctx, reg)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	assert.Len(t, svc.State().Users, 1)
	assert.Len(t, reload(t, store).Users, 1)
}

func TestPasswordLengthCountsCharacters(t *testing.T) {
	svc, _ := newTestShop(t)

	_, err := svc.Register(context.Background(), Registration{Username: "erin", Password: "éééééé", Role: "customer", Name: "Erin"})
	require.NoError(t, err)
	_, err = svc.Login("erin", "éééééé")
	assert.NoError(t, err)
}

func TestUsernamesAreCaseSensitive(t *testing.T) {
	svc, _ := newTestShop(t)
	mustRegister(t, svc, Registration{Username: "alice", Password: "secret1", Role: "customer", Name: "Alice"})

	assert.True(t, svc.IsUsernameTaken("alice"))
	assert.False(t, svc.IsUsernameTaken("Alice"))
	_, err := svc.Register(context.Background(), Registration{Username: "Alice", Password: "secret1", Role: "admin", Name: "Other"})
	assert.NoError(t, err)
}

func TestLoginLogout(t *testing.T) {
	svc, _ := newTestShop(t)
	mustRegister(t, svc, Registration{Username: "root", Password: "rootpw", Role: "admin", Name: "Root"})

	_, err := svc.Login("root", "wrong!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Login("nobody", "rootpw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	sess, err := svc.Login("root", "rootpw")
	require.NoError(t, err)
	assert.True(t, sess.Active())
	assert.True(t, sess.IsAdmin())
	assert.False(t, sess.IsCustomer())

	svc.Logout(sess)
	assert.False(t, sess.Active())
	assert.Nil(t, sess.User())

	err = svc.AddProduct(context.Background(), sess, data.Product{Index: 1, Name: "X", Price: 1})
	assert.ErrorIs(t, err, ErrPermission)
}

func TestCapabilities(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestShop(t)
	admin := mustRegister(t, svc, Registration{Username: "root", Password: "rootpw", Role: "admin", Name: "Root"})
	customer := mustRegister(t, svc, Registration{Username: "alice", Password: "secret1", Role: "customer", Name: "Alice", Budget: 100})

	t.Run("CustomerCannotManageCatalog", func(t *testing.T) {
		assert.ErrorIs(t, svc.AddProduct(ctx, customer, data.Product{Index: 1, Name: "X", Price: 1}), ErrPermission)
		assert.ErrorIs(t, svc.UpdateProduct(ctx, customer, 1, inventory.ProductUpdate{Name: "X"}), ErrPermission)
		_, err := svc.RemoveProducts(ctx, customer, 1)
		assert.ErrorIs(t, err, ErrPermission)
		assert.ErrorIs(t, svc.ChangeLevelCost(ctx, customer, 1, 2), ErrPermission)
		_, err = svc.Customers(customer)
		assert.ErrorIs(t, err, ErrPermission)
		_, err = svc.Transactions(customer)
		assert.ErrorIs(t, err, ErrPermission)
	})

	t.Run("AdminCannotShop", func(t *testing.T) {
		require.NoError(t, svc.AddProduct(ctx, admin, data.Product{Index: 1, Name: "X", Price: 1}))

		_, err := svc.Purchase(ctx, admin, 1, 1)
		assert.ErrorIs(t, err, ErrPermission)
		_, err = svc.AddFunds(ctx, admin, 10)
		assert.ErrorIs(t, err, ErrPermission)
		_, err = svc.OfferUpgrade(admin)
		assert.ErrorIs(t, err, ErrPermission)
	})

	t.Run("NilSession", func(t *testing.T) {
		_, err := svc.Purchase(ctx, nil, 1, 1)
		assert.ErrorIs(t, err, ErrPermission)
		assert.ErrorIs(t, svc.AddProduct(ctx, nil, data.Product{Index: 2, Name: "Y"}), ErrPermission)
	})

	t.Run("CustomersListing", func(t *testing.T) {
		customers, err := svc.Customers(admin)
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, "alice", customers[0].Username)

		customers[0].Customer.Budget = 0
		assert.Equal(t, 100.0, customer.User().Customer.Budget)
	})
}

func TestCatalogManagement(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestShop(t)
	admin := mustRegister(t, svc, Registration{Username: "root", Password: "rootpw", Role: "admin", Name: "Root"})

	require.NoError(t, svc.AddProduct(ctx, admin, data.Product{Index: 7, Name: "Kettle", Price: 40, Manufacturer: "Acme"}))
	err := svc.AddProduct(ctx, admin, data.Product{Index: 7, Name: "Toaster", Price: 30})
	assert.ErrorIs(t, err, ErrValidation)

	persisted := reload(t, store)
	require.Len(t, persisted.Products, 1)
	assert.Equal(t, "Kettle", persisted.Products[0].Name)

	t.Run("Update", func(t *testing.T) {
		require.NoError(t, svc.UpdateProduct(ctx, admin, 7, inventory.ProductUpdate{
			Name: "Kettle XL", Price: 45, Manufacturer: "Acme", Remarks: []string{"2L"},
		}))
		p, err := svc.Product(7)
		require.NoError(t, err)
		assert.Equal(t, "Kettle XL", p.Name)
		assert.Equal(t, "Kettle XL", reload(t, store).Products[0].Name)

		err = svc.UpdateProduct(ctx, admin, 8, inventory.ProductUpdate{Name: "Ghost", Price: 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("RemoveMissingIndex", func(t *testing.T) {
		removed, err := svc.RemoveProducts(ctx, admin, 99)
		require.NoError(t, err)
		assert.Equal(t, 0, removed)
		assert.Len(t, svc.Products(), 1)
	})

	t.Run("RemoveRequiresIndices", func(t *testing.T) {
		_, err := svc.RemoveProducts(ctx, admin)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Remove", func(t *testing.T) {
		removed, err := svc.RemoveProducts(ctx, admin, 7, 99)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
		assert.Empty(t, svc.Products())
		assert.Empty(t, reload(t, store).Products)

		_, err = svc.Product(7)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPurchaseFlow(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestShop(t)
	admin := mustRegister(t, svc, Registration{Username: "root", Password: "rootpw", Role: "admin", Name: "Root"})
	require.NoError(t, svc.AddProduct(ctx, admin, data.Product{Index: 7, Name: "Kettle", Price: 40}))
	alice := mustRegister(t, svc, Registration{Username: "alice", Password: "secret1", Role: "customer", Name: "Alice", Budget: 100})

	offer, err := svc.OfferUpgrade(alice)
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmUpgrade(ctx, alice, offer))
	assert.Equal(t, 95.0, alice.User().Customer.Budget)

	quote, err := svc.QuotePurchase(alice, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, 76.0, quote.FinalCost)

	txn, err := svc.Purchase(ctx, alice, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, 76.0, txn.FinalCost)
	assert.Equal(t, 19.0, alice.User().Customer.Budget)

	_, err = svc.Purchase(ctx, alice, 7, 1)
	assert.ErrorIs(t, err, ErrAffordability)

	budget, err := svc.AddFunds(ctx, alice, 21)
	require.NoError(t, err)
	assert.Equal(t, 40.0, budget)

	persisted := reload(t, store)
	stored := persisted.FindUser("alice")
	require.NotNil(t, stored)
	assert.Equal(t, 1, stored.Customer.MembershipLevel)
	assert.Equal(t, 40.0, stored.Customer.Budget)
	require.Len(t, persisted.Transactions, 1)
	assert.Equal(t, txn, persisted.Transactions[0])

	t.Run("HistorySurvivesProductRemoval", func(t *testing.T) {
		_, err := svc.RemoveProducts(ctx, admin, 7)
		require.NoError(t, err)

		txns, err := svc.Transactions(admin)
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, 7, txns[0].ProductIndex)
	})
}

func TestLevelCosts(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestShop(t)
	admin := mustRegister(t, svc, Registration{Username: "root", Password: "rootpw", Role: "admin", Name: "Root"})

	assert.Equal(t, data.DefaultLevelCosts(), svc.LevelCosts())

	require.NoError(t, svc.ChangeLevelCost(ctx, admin, 3, 25))
	assert.Equal(t, 25.0, svc.LevelCosts()[3])
	assert.Equal(t, 25.0, reload(t, store).LevelCosts[3])

	assert.ErrorIs(t, svc.ChangeLevelCost(ctx, admin, 3, 0), ErrValidation)
	assert.ErrorIs(t, svc.ChangeLevelCost(ctx, admin, 4, 5), ErrValidation)
}

func TestSaveFailure(t *testing.T) {
	store := &failingStore{}
	svc := NewService(store, nil)

	_, err := svc.Register(context.Background(), Registration{Username: "root", Password: "rootpw", Role: "admin", Name: "Root"})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, 1, store.saves)
	assert.Len(t, svc.State().Users, 1)
}
