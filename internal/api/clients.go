package api

import (
	"context"

	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/internal/querycache"
	"github.com/gearboxgarage/gearbox/pkg/httpclient"
)

// ClientMutationAffects lists the cache families a client write invalidates.
var ClientMutationAffects = []string{querycache.FamilyClients}

// ClientsListKey is the cache key for one page of the clients collection.
func ClientsListKey(p ListParams) querycache.Key {
	return querycache.NewKey(querycache.FamilyClients, "list", p.keyParams())
}

// ClientInput is the create/update payload for a client.
type ClientInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// ListClients fetches one page of clients.
func ListClients(ctx context.Context, token string, p ListParams) (models.Page[models.Client], error) {
	var page models.Page[models.Client]

	resp, err := p.apply(httpclient.Get("/clients")).
		Bearer(token).
		WithContext(ctx).
		Send()
	if err != nil {
		return page, err
	}
	err = resp.Decode(&page)
	return page, err
}

// CreateClient registers a new client.
func CreateClient(ctx context.Context, token string, in ClientInput) (models.Client, error) {
	var out models.Client

	resp, err := httpclient.Post("/clients").
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

// UpdateClient overwrites a client's editable fields.
func UpdateClient(ctx context.Context, token, id string, in ClientInput) (models.Client, error) {
	var out models.Client

	resp, err := httpclient.Put("/clients/"+id).
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

// DeleteClient removes a client.
func DeleteClient(ctx context.Context, token, id string) error {
	_, err := httpclient.Delete("/clients/"+id).
		Bearer(token).
		WithContext(ctx).
		Send()
	return err
}
