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

// OrdersView is one page of work orders with display lookups resolved.
type OrdersView struct {
	Services    []models.Service
	Meta        models.Meta
	ClientNames map[string]string
	CarPlates   map[string]string
}

// ClientName resolves an order's client id for display.
func (v OrdersView) ClientName(id string) string { return resolve(v.ClientNames, id) }

// CarPlate resolves an order's car id for display.
func (v OrdersView) CarPlate(id string) string { return resolve(v.CarPlates, id) }

// Orders loads one page of work orders; mechanics get only the orders the
// ownership test grants them.
func (a *App) Orders(ctx context.Context, page, perPage int) (OrdersView, error) {
	user := a.Session.User()

	p := api.ListParams{Page: page, PerPage: perPage}
	if !user.IsOwner() {
		p.UserID = user.ID
	}

	res, err := querycache.Fetch(ctx, a.Cache, api.ServicesListKey(p),
		func(ctx context.Context) (models.Page[models.Service], error) {
			return api.ListServices(ctx, a.Session.Token(), p)
		})
	if err != nil {
		return OrdersView{}, err
	}

	view := OrdersView{
		Services: collection.Filter(res.Data, func(s models.Service) bool { return s.VisibleTo(user) }),
		Meta:     res.Meta,
	}

	if view.ClientNames, err = a.clientNames(ctx); err != nil {
		view.ClientNames = map[string]string{}
	}
	if view.CarPlates, err = a.carPlates(ctx); err != nil {
		view.CarPlates = map[string]string{}
	}
	return view, nil
}

// ChangeOrderStatus moves a work order to a new status. Every transition is
// confirmed interactively before anything is sent; a declined confirmation
// issues no network call at all. Transitions out of terminal states are
// refused up front.
func (a *App) ChangeOrderStatus(ctx context.Context, svc models.Service, to models.ServiceStatus) error {
	if !svc.Status.CanTransition(to) {
		err := fmt.Errorf("viewmodels: cannot move order %s from %q to %q", svc.ID, svc.Status, to)
		notify.Error(a.Notify, "Transition not allowed",
			fmt.Sprintf("order is %s and cannot become %s", svc.Status.Label(), to.Label()))
		return err
	}

	return a.mutate("Order updated", api.ServiceMutationAffects, func() error {
		prompt := fmt.Sprintf("Move order %s from %s to %s?", svc.ID, svc.Status.Label(), to.Label())
		if err := a.Confirm.Confirm(prompt); err != nil {
			return err
		}
		_, err := api.UpdateServiceStatus(ctx, a.Session.Token(), svc.ID, to)
		return err
	})
}
