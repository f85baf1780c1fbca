package viewmodels

import (
	"context"

	"github.com/gearboxgarage/gearbox/internal/api"
	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/internal/querycache"
	"github.com/gearboxgarage/gearbox/pkg/collection"
)

// lookupPerPage is the page size used when a collection is loaded purely to
// build id→display maps. Large enough to cover a repair shop's whole book
// in one page.
const lookupPerPage = 1000

// Lookup collections are shared across features through the same query
// cache as the raw lists, so a client rename or a new car shows up in the
// budgets table after the same invalidation that refreshes the clients
// page.

func (a *App) clientNames(ctx context.Context) (map[string]string, error) {
	p := api.ListParams{Page: 1, PerPage: lookupPerPage}
	page, err := querycache.Fetch(ctx, a.Cache, api.ClientsListKey(p),
		func(ctx context.Context) (models.Page[models.Client], error) {
			return api.ListClients(ctx, a.Session.Token(), p)
		})
	if err != nil {
		return nil, err
	}

	byID := collection.KeyBy(page.Data, func(c models.Client) string { return c.ID })
	out := make(map[string]string, len(byID))
	for id, c := range byID {
		out[id] = c.Name
	}
	return out, nil
}

func (a *App) carPlates(ctx context.Context) (map[string]string, error) {
	p := api.ListParams{Page: 1, PerPage: lookupPerPage}
	page, err := querycache.Fetch(ctx, a.Cache, api.CarsListKey(p),
		func(ctx context.Context) (models.Page[models.Car], error) {
			return api.ListCars(ctx, a.Session.Token(), p)
		})
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(page.Data))
	for _, c := range page.Data {
		out[c.ID] = c.DisplayName()
	}
	return out, nil
}

func (a *App) userNames(ctx context.Context) (map[string]string, error) {
	p := api.ListParams{Page: 1, PerPage: lookupPerPage}
	page, err := querycache.Fetch(ctx, a.Cache, api.UsersListKey(p),
		func(ctx context.Context) (models.Page[models.User], error) {
			return api.ListUsers(ctx, a.Session.Token(), p)
		})
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(page.Data))
	for _, u := range page.Data {
		out[u.ID] = u.Name
	}
	return out, nil
}
