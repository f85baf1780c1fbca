package viewmodels_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/internal/viewmodels"
	"github.com/gearboxgarage/gearbox/pkg/testkit"
)

func analyticsStubs(t *testing.T, budgets []models.Budget, services []models.Service, users []models.User) []testkit.Stub {
	return []testkit.Stub{
		{Method: "GET", URL: "/budgets", Body: pageBody(t, budgets, len(budgets))},
		{Method: "GET", URL: "/services", Body: pageBody(t, services, len(services))},
		{Method: "GET", URL: "/users", Body: pageBody(t, users, len(users))},
	}
}

func TestDashboard_OwnerOnly(t *testing.T) {
	f := newFixture(t, mechanic("m1", "Marco"))
	f.mt.Strict()

	_, err := f.app.Dashboard(context.Background())
	assert.ErrorIs(t, err, viewmodels.ErrOwnerOnly)
}

func TestDashboard_PerMechanicRates(t *testing.T) {
	budgets := []models.Budget{
		{ID: "b1", UserID: "m1", Status: models.BudgetAccepted},
		{ID: "b2", UserID: "m1", Status: models.BudgetCancelled},
		{ID: "b3", UserID: "m1", Status: models.BudgetOpen},
		{ID: "b4", UserID: "m2", Status: models.BudgetAccepted},
		{ID: "b5", UserID: "m2", Status: models.BudgetAccepted},
	}
	users := []models.User{owner(), mechanic("m1", "Marco"), mechanic("m2", "Mila"), mechanic("m3", "Zeno")}

	f := newFixture(t, owner(), analyticsStubs(t, budgets, nil, users)...)

	view, err := f.app.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Stats, 3, "one row per mechanic, the owner has none")

	// Sorted by mechanic name.
	marco, mila, zeno := view.Stats[0], view.Stats[1], view.Stats[2]

	assert.Equal(t, "Marco", marco.Mechanic.Name)
	assert.Equal(t, 3, marco.Total)
	assert.Equal(t, 1, marco.ByStatus[models.BudgetAccepted])
	assert.Equal(t, 33, marco.AcceptanceRate, "1/3 rounds to 33")
	assert.Equal(t, 33, marco.CancellationRate)

	assert.Equal(t, 2, mila.Total)
	assert.Equal(t, 100, mila.AcceptanceRate)
	assert.Equal(t, 0, mila.CancellationRate)

	assert.Equal(t, 0, zeno.Total)
	assert.Equal(t, 0, zeno.AcceptanceRate, "no budgets means 0, not a division by zero")
	assert.Equal(t, 0, zeno.CancellationRate)
}

func TestMechanicSeries_YearMonthBuckets(t *testing.T) {
	date := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}

	budgets := []models.Budget{
		{ID: "b1", UserID: "m1", Status: models.BudgetOpen, CreatedAt: date("2026-06-10")},
		{ID: "b2", UserID: "m1", Status: models.BudgetAccepted, CreatedAt: date("2026-07-02"), UpdatedAt: date("2026-08-01")},
		{ID: "b9", UserID: "m2", Status: models.BudgetAccepted, CreatedAt: date("2026-07-15"), UpdatedAt: date("2026-07-20")},
	}
	services := []models.Service{
		{ID: "s1", AssignedToID: "m1", Status: models.ServiceCompleted, UpdatedAt: date("2026-08-12")},
		{ID: "s2", AssignedToID: "m1", Status: models.ServicePending, UpdatedAt: date("2026-08-13")},
	}
	users := []models.User{owner(), mechanic("m1", "Marco"), mechanic("m2", "Mila")}

	f := newFixture(t, owner(), analyticsStubs(t, budgets, services, users)...)

	points, err := f.app.MechanicSeries(context.Background(), "m1")
	require.NoError(t, err)

	require.Len(t, points, 3)
	assert.Equal(t, viewmodels.MonthPoint{Month: "2026-06", BudgetsCreated: 1}, points[0])
	assert.Equal(t, viewmodels.MonthPoint{Month: "2026-07", BudgetsCreated: 1}, points[1])
	assert.Equal(t, viewmodels.MonthPoint{Month: "2026-08", BudgetsAccepted: 1, ServicesCompleted: 1}, points[2])
}

func TestDashboard_SharesCacheWithLookups(t *testing.T) {
	users := []models.User{owner(), mechanic("m1", "Marco")}
	f := newFixture(t, owner(), analyticsStubs(t, nil, nil, users)...)

	_, err := f.app.Dashboard(context.Background())
	require.NoError(t, err)
	_, err = f.app.MechanicSeries(context.Background(), "m1")
	require.NoError(t, err)

	// The second call reuses the three cached collections.
	assert.Equal(t, 1, f.mt.CallCount("/budgets"))
	assert.Equal(t, 1, f.mt.CallCount("/services"))
	assert.Equal(t, 1, f.mt.CallCount("/users"))
}
