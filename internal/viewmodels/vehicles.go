package viewmodels

import (
	"context"

	"github.com/gearboxgarage/gearbox/internal/api"
	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/internal/querycache"
)

// VehiclesView is one page of registered cars with owner names resolved.
type VehiclesView struct {
	Cars        []models.Car
	Meta        models.Meta
	ClientNames map[string]string
}

// OwnerName resolves a car's client id to a display name.
func (v VehiclesView) OwnerName(clientID string) string {
	return resolve(v.ClientNames, clientID)
}

// Vehicles loads one page of cars plus the client lookup map.
func (a *App) Vehicles(ctx context.Context, page, perPage int) (VehiclesView, error) {
	p := api.ListParams{Page: page, PerPage: perPage}
	res, err := querycache.Fetch(ctx, a.Cache, api.CarsListKey(p),
		func(ctx context.Context) (models.Page[models.Car], error) {
			return api.ListCars(ctx, a.Session.Token(), p)
		})
	if err != nil {
		return VehiclesView{}, err
	}

	names, err := a.clientNames(ctx)
	if err != nil {
		// The primary list is still renderable; lookups degrade to the
		// placeholder.
		names = map[string]string{}
	}

	return VehiclesView{Cars: res.Data, Meta: res.Meta, ClientNames: names}, nil
}

// CreateCar registers a vehicle for a client.
func (a *App) CreateCar(ctx context.Context, in api.CarInput) error {
	return a.mutate("Vehicle registered", api.CarMutationAffects, func() error {
		_, err := api.CreateCar(ctx, a.Session.Token(), in)
		return err
	})
}
