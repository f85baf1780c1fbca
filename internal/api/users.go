package api

import (
	"context"

	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/internal/querycache"
	"github.com/gearboxgarage/gearbox/pkg/httpclient"
)

// Cache families affected by user writes. Deactivating a mechanic can
// transfer their open work, so it also invalidates budgets and services.
var (
	UserMutationAffects   = []string{querycache.FamilyUsers}
	UserDeactivateAffects = []string{querycache.FamilyUsers, querycache.FamilyBudgets, querycache.FamilyServices}
)

// UsersListKey is the cache key for one page of the users collection.
func UsersListKey(p ListParams) querycache.Key {
	return querycache.NewKey(querycache.FamilyUsers, "list", p.keyParams())
}

// UserInput is the create/update payload for a staff account.
type UserInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	Password string      `json:"password,omitempty"`
}

// ListUsers fetches one page of staff accounts.
func ListUsers(ctx context.Context, token string, p ListParams) (models.Page[models.User], error) {
	var page models.Page[models.User]

	resp, err := p.apply(httpclient.Get("/users")).
		Bearer(token).
		WithContext(ctx).
		Send()
	if err != nil {
		return page, err
	}
	err = resp.Decode(&page)
	return page, err
}

// CreateUser registers a staff account.
func CreateUser(ctx context.Context, token string, in UserInput) (models.User, error) {
	var out models.User

	resp, err := httpclient.Post("/users").
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

// UpdateUser overwrites a staff account's editable fields.
func UpdateUser(ctx context.Context, token, id string, in UserInput) (models.User, error) {
	var out models.User

	resp, err := httpclient.Put("/users/"+id).
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

// DeleteUser deactivates a staff account. transferToUserID, when set, asks
// the server to reassign the mechanic's open work to another mechanic; the
// reassignment rules live entirely server-side and the client passes the id
// through untouched.
func DeleteUser(ctx context.Context, token, id, transferToUserID string) error {
	req := httpclient.Delete("/users/" + id).
		Bearer(token).
		WithContext(ctx)
	if transferToUserID != "" {
		req.Body(map[string]string{"transferToUserId": transferToUserID})
	}
	_, err := req.Send()
	return err
}
