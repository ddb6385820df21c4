package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbackend/internal/data"
)

func TestUpgradeLadder(t *testing.T) {
	f := newFixture(t, 100, 0)

	wantBudget := []float64{95, 85, 65}
	for i, budget := range wantBudget {
		offer, err := f.svc.OfferUpgrade(f.customer)
		require.NoError(t, err)
		assert.Equal(t, i, offer.CurrentLevel)
		assert.Equal(t, i+1, offer.NextLevel)
		assert.Equal(t, discountTable[i+1], offer.Discount)

		require.NoError(t, f.svc.ApplyUpgrade(f.customer, offer))
		assert.Equal(t, i+1, f.customer.Customer.MembershipLevel)
		assert.Equal(t, budget, f.customer.Customer.Budget)
	}

	_, err := f.svc.OfferUpgrade(f.customer)
	assert.ErrorIs(t, err, ErrMaxLevel)
	assert.Equal(t, data.MaxMembershipLevel, f.customer.Customer.MembershipLevel)
	assert.Equal(t, 65.0, f.customer.Customer.Budget)
}

func TestUpgradeRejections(t *testing.T) {
	t.Run("Unaffordable", func(t *testing.T) {
		f := newFixture(t, 4.99, 0)

		_, err := f.svc.OfferUpgrade(f.customer)
		assert.ErrorIs(t, err, data.ErrAffordability)
		assert.Equal(t, 0, f.customer.Customer.MembershipLevel)
		assert.Equal(t, 4.99, f.customer.Customer.Budget)
	})

	t.Run("StaleOffer", func(t *testing.T) {
		f := newFixture(t, 100, 0)
		offer, err := f.svc.OfferUpgrade(f.customer)
		require.NoError(t, err)

		require.NoError(t, f.svc.ChangeLevelCost(1, 7))

		err = f.svc.ApplyUpgrade(f.customer, offer)
		assert.ErrorIs(t, err, data.ErrValidation)
		assert.Equal(t, 0, f.customer.Customer.MembershipLevel)
		assert.Equal(t, 100.0, f.customer.Customer.Budget)
	})

	t.Run("OfferCannotBeReplayed", func(t *testing.T) {
		f := newFixture(t, 100, 0)
		offer, err := f.svc.OfferUpgrade(f.customer)
		require.NoError(t, err)

		require.NoError(t, f.svc.ApplyUpgrade(f.customer, offer))
		assert.ErrorIs(t, f.svc.ApplyUpgrade(f.customer, offer), data.ErrValidation)
		assert.Equal(t, 1, f.customer.Customer.MembershipLevel)
	})

	t.Run("AdminHasNoMembership", func(t *testing.T) {
		f := newFixture(t, 100, 0)

		_, err := f.svc.OfferUpgrade(f.admin)
		assert.ErrorIs(t, err, data.ErrPermission)
	})
}

func TestChangeLevelCost(t *testing.T) {
	f := newFixture(t, 100, 0)

	require.NoError(t, f.svc.ChangeLevelCost(2, 12.346))
	assert.Equal(t, data.LevelCosts{1: 5, 2: 12.35, 3: 20}, f.svc.LevelCosts())

	assert.ErrorIs(t, f.svc.ChangeLevelCost(0, 5), data.ErrValidation)
	assert.ErrorIs(t, f.svc.ChangeLevelCost(4, 5), data.ErrValidation)
	assert.ErrorIs(t, f.svc.ChangeLevelCost(1, 0), data.ErrValidation)
	assert.ErrorIs(t, f.svc.ChangeLevelCost(1, -3), data.ErrValidation)
	assert.ErrorIs(t, f.svc.ChangeLevelCost(3, 1e307), data.ErrValidation)
	assert.Equal(t, data.LevelCosts{1: 5, 2: 12.35, 3: 20}, f.svc.LevelCosts())

	costs := f.svc.LevelCosts()
	costs[1] = 1000
	assert.Equal(t, 5.0, f.svc.LevelCosts()[1])
}
