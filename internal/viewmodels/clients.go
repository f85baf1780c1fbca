package viewmodels

import (
	"context"

	"github.com/gearboxgarage/gearbox/internal/api"
	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/internal/querycache"
)

// ClientsView is one page of the client book.
type ClientsView struct {
	Clients []models.Client
	Meta    models.Meta
}

// Clients loads one page of clients through the cache.
func (a *App) Clients(ctx context.Context, page, perPage int) (ClientsView, error) {
	p := api.ListParams{Page: page, PerPage: perPage}
	res, err := querycache.Fetch(ctx, a.Cache, api.ClientsListKey(p),
		func(ctx context.Context) (models.Page[models.Client], error) {
			return api.ListClients(ctx, a.Session.Token(), p)
		})
	if err != nil {
		return ClientsView{}, err
	}
	return ClientsView{Clients: res.Data, Meta: res.Meta}, nil
}

// CreateClient registers a client and refreshes the family.
func (a *App) CreateClient(ctx context.Context, in api.ClientInput) error {
	return a.mutate("Client created", api.ClientMutationAffects, func() error {
		_, err := api.CreateClient(ctx, a.Session.Token(), in)
		return err
	})
}

// UpdateClient edits a client after confirmation.
func (a *App) UpdateClient(ctx context.Context, id string, in api.ClientInput) error {
	return a.mutate("Client updated", api.ClientMutationAffects, func() error {
		if err := a.Confirm.Confirm("Save changes to client " + in.Name + "?"); err != nil {
			return err
		}
		_, err := api.UpdateClient(ctx, a.Session.Token(), id, in)
		return err
	})
}

// DeleteClient removes a client after confirmation.
func (a *App) DeleteClient(ctx context.Context, c models.Client) error {
	return a.mutate("Client deleted", api.ClientMutationAffects, func() error {
		if err := a.Confirm.Confirm("Delete client " + c.Name + "?"); err != nil {
			return err
		}
		return api.DeleteClient(ctx, a.Session.Token(), c.ID)
	})
}
