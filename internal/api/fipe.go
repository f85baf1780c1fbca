package api

import (
	"context"
	"fmt"
	"time"

	"github.com/gearboxgarage/gearbox/config"
	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/pkg/cache"
	"github.com/gearboxgarage/gearbox/pkg/httpclient"
)

// FIPE reference-data accessors, used to prefill the vehicle-creation form.
// The tables are effectively static, so every lookup is backed by the Redis
// cache with a week-long TTL; on a miss (or with Redis down) the public API
// is hit directly. No bearer token: this is a third-party service.

const fipeTTL = 7 * 24 * time.Hour

func fipeGet(ctx context.Context, path, cacheKey string, dest interface{}) error {
	if cache.Get(cacheKey, dest) {
		return nil
	}

	resp, err := httpclient.Get(path).
		BaseURL(config.FIPEBaseURL()).
		WithContext(ctx).
		Send()
	if err != nil {
		return err
	}
	if err := resp.Decode(dest); err != nil {
		return err
	}

	_ = cache.Set(cacheKey, dest, fipeTTL)
	return nil
}

// FIPEBrands lists the car manufacturers.
func FIPEBrands(ctx context.Context) ([]models.FIPEBrand, error) {
	var out []models.FIPEBrand
	err := fipeGet(ctx, "/carros/marcas", "fipe:brands", &out)
	return out, err
}

// FIPEModels lists the models of one brand.
func FIPEModels(ctx context.Context, brandCode string) ([]models.FIPEModel, error) {
	var out models.FIPEModelList
	err := fipeGet(ctx,
		fmt.Sprintf("/carros/marcas/%s/modelos", brandCode),
		"fipe:models:"+brandCode, &out)
	return out.Models, err
}

// FIPEYears lists the model-year options of one brand+model.
func FIPEYears(ctx context.Context, brandCode string, modelCode int) ([]models.FIPEYear, error) {
	var out []models.FIPEYear
	err := fipeGet(ctx,
		fmt.Sprintf("/carros/marcas/%s/modelos/%d/anos", brandCode, modelCode),
		fmt.Sprintf("fipe:years:%s:%d", brandCode, modelCode), &out)
	return out, err
}

// FIPEVehicle fetches the full detail record for brand+model+year.
func FIPEVehicle(ctx context.Context, brandCode string, modelCode int, yearCode string) (models.FIPEVehicle, error) {
	var out models.FIPEVehicle
	err := fipeGet(ctx,
		fmt.Sprintf("/carros/marcas/%s/modelos/%d/anos/%s", brandCode, modelCode, yearCode),
		fmt.Sprintf("fipe:vehicle:%s:%d:%s", brandCode, modelCode, yearCode), &out)
	return out, err
}
