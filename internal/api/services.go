package api

import (
	"context"

	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/internal/querycache"
	"github.com/gearboxgarage/gearbox/pkg/httpclient"
)

// ServiceMutationAffects lists the cache families a service write invalidates.
var ServiceMutationAffects = []string{querycache.FamilyServices}

// ServicesListKey is the cache key for one page of the services collection.
func ServicesListKey(p ListParams) querycache.Key {
	return querycache.NewKey(querycache.FamilyServices, "list", p.keyParams())
}

// ListServices fetches one page of work orders.
func ListServices(ctx context.Context, token string, p ListParams) (models.Page[models.Service], error) {
	var page models.Page[models.Service]

	resp, err := p.apply(httpclient.Get("/services")).
		Bearer(token).
		WithContext(ctx).
		Send()
	if err != nil {
		return page, err
	}
	err = resp.Decode(&page)
	return page, err
}

// UpdateServiceStatus moves a work order to a new status.
func UpdateServiceStatus(ctx context.Context, token, id string, status models.ServiceStatus) (models.Service, error) {
	var out models.Service

	resp, err := httpclient.Put("/services/"+id).
		Bearer(token).
		Body(map[string]string{"status": string(status)}).
		WithContext(ctx).
		Send()
	if err != nil {
		return out, err
	}
	err = resp.Decode(&out)
	return out, err
}
