package api

import (
	"context"

	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/internal/querycache"
	"github.com/gearboxgarage/gearbox/pkg/httpclient"
)

// CarMutationAffects lists the cache families a car write invalidates.
var CarMutationAffects = []string{querycache.FamilyCars}

// CarsListKey is the cache key for one page of the cars collection.
func CarsListKey(p ListParams) querycache.Key {
	return querycache.NewKey(querycache.FamilyCars, "list", p.keyParams())
}

// CarInput is the create payload for a vehicle.
type CarInput struct {
	ClientID string `json:"clientId"`
	Plate    string `json:"plate"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	Year     int    `json:"year"`
}

// ListCars fetches one page of vehicles.
func ListCars(ctx context.Context, token string, p ListParams) (models.Page[models.Car], error) {
	var page models.Page[models.Car]

	resp, err := p.apply(httpclient.Get("/cars")).
		Bearer(token).
		WithContext(ctx).
		Send()
	if err != nil {
		return page, err
	}
	err = resp.Decode(&page)
	return page, err
}

// CreateCar registers a vehicle for a client.
func CreateCar(ctx context.Context, token string, in CarInput) (models.Car, error) {
	var out models.Car

	resp, err := httpclient.Post("/cars").
		Bearer(token).
		Body(in).
		WithContext(ctx).
		Send()
	if err != nil {
		return out, err
	}
	err = resp.Decode(&out)
	return out, err
}
