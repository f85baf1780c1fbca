package viewmodels

import (
	"context"
	"fmt"

	"github.com/gearboxgarage/gearbox/internal/api"
	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/internal/notify"
	"github.com/gearboxgarage/gearbox/internal/querycache"
	"github.com/gearboxgarage/gearbox/pkg/collection"
)

// BudgetsView is one page of budgets with the display lookups resolved.
type BudgetsView struct {
	Budgets     []models.Budget
	Meta        models.Meta
	ClientNames map[string]string
	CarPlates   map[string]string
}

// ClientName resolves a budget's client id for display.
func (v BudgetsView) ClientName(id string) string { return resolve(v.ClientNames, id) }

// CarPlate resolves a budget's car id for display.
func (v BudgetsView) CarPlate(id string) string { return resolve(v.CarPlates, id) }

// Budgets loads one page of budgets plus the client/car lookup maps. A
// mechanic's request is scoped by their user id (both in the query and the
// cache key) and filtered again client-side by the ownership test.
func (a *App) Budgets(ctx context.Context, page, perPage int) (BudgetsView, error) {
	user := a.Session.User()

	p := api.ListParams{Page: page, PerPage: perPage}
	if !user.IsOwner() {
		p.UserID = user.ID
	}

	res, err := querycache.Fetch(ctx, a.Cache, api.BudgetsListKey(p),
		func(ctx context.Context) (models.Page[models.Budget], error) {
			return api.ListBudgets(ctx, a.Session.Token(), p)
		})
	if err != nil {
		return BudgetsView{}, err
	}

	view := BudgetsView{
		Budgets: collection.Filter(res.Data, func(b models.Budget) bool { return b.VisibleTo(user) }),
		Meta:    res.Meta,
	}

	if view.ClientNames, err = a.clientNames(ctx); err != nil {
		view.ClientNames = map[string]string{}
	}
	if view.CarPlates, err = a.carPlates(ctx); err != nil {
		view.CarPlates = map[string]string{}
	}
	return view, nil
}

// CreateBudget opens a budget for a client's car.
func (a *App) CreateBudget(ctx context.Context, in api.BudgetInput) error {
	return a.mutate("Budget created", api.BudgetMutationAffects, func() error {
		_, err := api.CreateBudget(ctx, a.Session.Token(), in)
		return err
	})
}

// UpdateBudget edits an open budget after confirmation. Terminal budgets
// cannot be edited.
func (a *App) UpdateBudget(ctx context.Context, b models.Budget, in api.BudgetInput) error {
	if b.Status.Terminal() {
		return a.rejectTransition("edit", b)
	}
	return a.mutate("Budget updated", api.BudgetMutationAffects, func() error {
		if err := a.Confirm.Confirm("Save changes to budget " + b.ID + "?"); err != nil {
			return err
		}
		_, err := api.UpdateBudget(ctx, a.Session.Token(), b.ID, in)
		return err
	})
}

// ApproveBudget accepts an open budget, assigning the produced work order
// to the given mechanic. Both the budgets and the services families are
// refreshed: acceptance creates a service.
func (a *App) ApproveBudget(ctx context.Context, b models.Budget, mechanicID string) error {
	if !b.Status.CanTransition(models.BudgetAccepted) {
		return a.rejectTransition("approve", b)
	}
	return a.mutate("Budget approved", api.BudgetDecideAffects, func() error {
		if err := a.Confirm.Confirm("Approve budget " + b.ID + " and open a work order?"); err != nil {
			return err
		}
		_, err := api.AcceptBudget(ctx, a.Session.Token(), b.ID, api.BudgetDecision{
			AssignedToID: mechanicID,
			Confirm:      true,
		})
		return err
	})
}

// RejectBudget declines an open budget. Distinct from cancel: rejection is
// the client saying no, cancellation is the shop withdrawing the offer.
func (a *App) RejectBudget(ctx context.Context, b models.Budget, mechanicID string) error {
	if !b.Status.CanTransition(models.BudgetRejected) {
		return a.rejectTransition("reject", b)
	}
	return a.mutate("Budget rejected", api.BudgetDecideAffects, func() error {
		if err := a.Confirm.Confirm("Reject budget " + b.ID + "?"); err != nil {
			return err
		}
		return api.RejectBudget(ctx, a.Session.Token(), b.ID, api.BudgetDecision{
			AssignedToID: mechanicID,
			Confirm:      true,
		})
	})
}

// CancelBudget withdraws an open budget.
func (a *App) CancelBudget(ctx context.Context, b models.Budget) error {
	if !b.Status.CanTransition(models.BudgetCancelled) {
		return a.rejectTransition("cancel", b)
	}
	return a.mutate("Budget cancelled", api.BudgetMutationAffects, func() error {
		if err := a.Confirm.Confirm("Cancel budget " + b.ID + "?"); err != nil {
			return err
		}
		_, err := api.CancelBudget(ctx, a.Session.Token(), b.ID)
		return err
	})
}

func (a *App) rejectTransition(action string, b models.Budget) error {
	err := fmt.Errorf("viewmodels: cannot %s a budget in status %q", action, b.Status)
	notify.Error(a.Notify, "Action not available",
		fmt.Sprintf("cannot %s a budget that is already %s", action, b.Status.Label()))
	return err
}
