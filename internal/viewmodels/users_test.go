package viewmodels_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearboxgarage/gearbox/internal/api"
	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/internal/viewmodels"
	"github.com/gearboxgarage/gearbox/pkg/testkit"
)

func TestUsers_MechanicIsRefused(t *testing.T) {
	f := newFixture(t, mechanic("m1", "Marco"))
	f.mt.Strict()

	_, err := f.app.Users(context.Background(), 1, 20)
	assert.ErrorIs(t, err, viewmodels.ErrOwnerOnly)
	assert.Empty(t, f.mt.Calls(), "the refusal happens before any request")
}

func TestDeactivateUser_WithoutTransferRefreshesUsersOnly(t *testing.T) {
	f := newFixture(t, owner(),
		testkit.Stub{Method: "DELETE", URL: "/users/m2", Status: 204},
	)

	usersKey := api.UsersListKey(api.ListParams{Page: 1, PerPage: 20})
	budgetsKey := api.BudgetsListKey(api.ListParams{Page: 1, PerPage: 20})
	seedList(t, f.cache, usersKey, []models.User{owner(), mechanic("m2", "Mila")})
	seedList(t, f.cache, budgetsKey, shopBudgets())

	require.NoError(t, f.app.DeactivateUser(context.Background(), mechanic("m2", "Mila"), ""))

	assert.True(t, f.cache.State(usersKey).Stale)
	assert.False(t, f.cache.State(budgetsKey).Stale,
		"without a transfer no assignments move, budgets stay fresh")
}

func TestDeactivateUser_TransferWidensTheInvalidation(t *testing.T) {
	f := newFixture(t, owner(),
		testkit.Stub{Method: "DELETE", URL: "/users/m2", Status: 204},
	)

	usersKey := api.UsersListKey(api.ListParams{Page: 1, PerPage: 20})
	budgetsKey := api.BudgetsListKey(api.ListParams{Page: 1, PerPage: 20})
	servicesKey := api.ServicesListKey(api.ListParams{Page: 1, PerPage: 20})
	seedList(t, f.cache, usersKey, []models.User{owner()})
	seedList(t, f.cache, budgetsKey, shopBudgets())
	seedList(t, f.cache, servicesKey, []models.Service{{ID: "s1"}})

	require.NoError(t, f.app.DeactivateUser(context.Background(), mechanic("m2", "Mila"), "m1"))

	calls := f.mt.Calls()
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"transferToUserId":"m1"}`, calls[0].Body,
		"the transfer target is passed through untouched")

	// A transfer can rewrite budget and service assignments server-side.
	assert.True(t, f.cache.State(usersKey).Stale)
	assert.True(t, f.cache.State(budgetsKey).Stale)
	assert.True(t, f.cache.State(servicesKey).Stale)
}

func TestMechanics_FiltersInactiveAndOwners(t *testing.T) {
	inactive := mechanic("m3", "Milo")
	inactive.Active = false
	staff := []models.User{owner(), mechanic("m1", "Marco"), inactive}

	f := newFixture(t, owner(),
		testkit.Stub{Method: "GET", URL: "/users", Body: pageBody(t, staff, 3)},
	)

	out, err := f.app.Mechanics(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "m1", out[0].ID)
}
