package viewmodels

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/gearboxgarage/gearbox/internal/api"
	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/internal/querycache"
	"github.com/gearboxgarage/gearbox/pkg/collection"
)

// MechanicStats aggregates one mechanic's budget book for the owner
// dashboard.
type MechanicStats struct {
	Mechanic models.User
	Total    int
	ByStatus map[models.BudgetStatus]int
	// Percentages rounded to the nearest integer; 0 when the mechanic has
	// no budgets at all.
	AcceptanceRate   int
	CancellationRate int
}

// MonthPoint is one year-month bucket of a mechanic's activity series.
type MonthPoint struct {
	Month             string // "2026-08"
	BudgetsCreated    int
	BudgetsAccepted   int
	ServicesCompleted int
}

// DashboardView is the owner analytics page.
type DashboardView struct {
	Stats []MechanicStats
}

// Dashboard builds the per-mechanic analytics. Owner only.
func (a *App) Dashboard(ctx context.Context) (DashboardView, error) {
	if !a.Session.IsOwner() {
		return DashboardView{}, ErrOwnerOnly
	}

	budgets, _, users, err := a.analyticsData(ctx)
	if err != nil {
		return DashboardView{}, err
	}

	var stats []MechanicStats
	for _, u := range users {
		if u.Role != models.RoleMechanic {
			continue
		}

		mine := collection.Filter(budgets, func(b models.Budget) bool { return b.UserID == u.ID })
		byStatus := map[models.BudgetStatus]int{}
		for _, b := range mine {
			byStatus[b.Status]++
		}

		stats = append(stats, MechanicStats{
			Mechanic:         u,
			Total:            len(mine),
			ByStatus:         byStatus,
			AcceptanceRate:   rate(byStatus[models.BudgetAccepted], len(mine)),
			CancellationRate: rate(byStatus[models.BudgetCancelled], len(mine)),
		})
	}

	collection.SortBy(stats, func(x, y MechanicStats) bool { return x.Mechanic.Name < y.Mechanic.Name })
	return DashboardView{Stats: stats}, nil
}

// MechanicSeries builds the time-bucketed activity series for one mechanic:
// budgets created and accepted, services completed, grouped by year-month.
// Owner only.
func (a *App) MechanicSeries(ctx context.Context, mechanicID string) ([]MonthPoint, error) {
	if !a.Session.IsOwner() {
		return nil, ErrOwnerOnly
	}

	budgets, services, _, err := a.analyticsData(ctx)
	if err != nil {
		return nil, err
	}

	points := map[string]*MonthPoint{}
	bucket := func(month string) *MonthPoint {
		if p, ok := points[month]; ok {
			return p
		}
		p := &MonthPoint{Month: month}
		points[month] = p
		return p
	}

	for _, b := range budgets {
		if b.UserID != mechanicID {
			continue
		}
		bucket(yearMonth(b.CreatedAt)).BudgetsCreated++
		if b.Status == models.BudgetAccepted {
			bucket(yearMonth(b.UpdatedAt)).BudgetsAccepted++
		}
	}
	for _, s := range services {
		if s.AssignedToID != mechanicID && s.UserID != mechanicID {
			continue
		}
		if s.Status == models.ServiceCompleted {
			bucket(yearMonth(s.UpdatedAt)).ServicesCompleted++
		}
	}

	out := make([]MonthPoint, 0, len(points))
	for _, p := range points {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

// analyticsData loads the full budget, service and user collections through
// the cache. They share keys with the lookup layer, so the dashboard
// refreshes through the same invalidations as every other view.
func (a *App) analyticsData(ctx context.Context) ([]models.Budget, []models.Service, []models.User, error) {
	p := api.ListParams{Page: 1, PerPage: lookupPerPage}
	token := a.Session.Token()

	budgets, err := querycache.Fetch(ctx, a.Cache, api.BudgetsListKey(p),
		func(ctx context.Context) (models.Page[models.Budget], error) {
			return api.ListBudgets(ctx, token, p)
		})
	if err != nil {
		return nil, nil, nil, err
	}

	services, err := querycache.Fetch(ctx, a.Cache, api.ServicesListKey(p),
		func(ctx context.Context) (models.Page[models.Service], error) {
			return api.ListServices(ctx, token, p)
		})
	if err != nil {
		return nil, nil, nil, err
	}

	users, err := querycache.Fetch(ctx, a.Cache, api.UsersListKey(p),
		func(ctx context.Context) (models.Page[models.User], error) {
			return api.ListUsers(ctx, token, p)
		})
	if err != nil {
		return nil, nil, nil, err
	}

	return budgets.Data, services.Data, users.Data, nil
}

func rate(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func yearMonth(t time.Time) string {
	return t.Format("2006-01")
}
