package viewmodels

import (
	"context"
	"errors"

	"github.com/gearboxgarage/gearbox/internal/api"
	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/internal/notify"
	"github.com/gearboxgarage/gearbox/internal/querycache"
)

// ErrOwnerOnly is returned when a non-owner reaches an owner-only view.
var ErrOwnerOnly = errors.New("viewmodels: owner role required")

// UsersView is one page of staff accounts.
type UsersView struct {
	Users []models.User
	Meta  models.Meta
}

// Users loads one page of staff accounts. Owner only.
func (a *App) Users(ctx context.Context, page, perPage int) (UsersView, error) {
	if !a.Session.IsOwner() {
		return UsersView{}, ErrOwnerOnly
	}

	p := api.ListParams{Page: page, PerPage: perPage}
	res, err := querycache.Fetch(ctx, a.Cache, api.UsersListKey(p),
		func(ctx context.Context) (models.Page[models.User], error) {
			return api.ListUsers(ctx, a.Session.Token(), p)
		})
	if err != nil {
		return UsersView{}, err
	}
	return UsersView{Users: res.Data, Meta: res.Meta}, nil
}

// CreateUser registers a staff account. Owner only.
func (a *App) CreateUser(ctx context.Context, in api.UserInput) error {
	if !a.Session.IsOwner() {
		return ErrOwnerOnly
	}
	return a.mutate("User created", api.UserMutationAffects, func() error {
		_, err := api.CreateUser(ctx, a.Session.Token(), in)
		return err
	})
}

// UpdateUser edits a staff account after confirmation. Owner only.
func (a *App) UpdateUser(ctx context.Context, u models.User, in api.UserInput) error {
	if !a.Session.IsOwner() {
		return ErrOwnerOnly
	}
	return a.mutate("User updated", api.UserMutationAffects, func() error {
		if err := a.Confirm.Confirm("Save changes to user " + u.Name + "?"); err != nil {
			return err
		}
		_, err := api.UpdateUser(ctx, a.Session.Token(), u.ID, in)
		return err
	})
}

// DeactivateUser removes a staff account, optionally transferring their
// open work to another mechanic. The transfer semantics live server-side;
// the id is passed through untouched. Since a transfer can rewrite budget
// and service assignments, those families are refreshed too.
func (a *App) DeactivateUser(ctx context.Context, u models.User, transferToUserID string) error {
	if !a.Session.IsOwner() {
		return ErrOwnerOnly
	}

	affects := api.UserMutationAffects
	if transferToUserID != "" {
		affects = api.UserDeactivateAffects
	}

	return a.mutate("User deactivated", affects, func() error {
		prompt := "Deactivate user " + u.Name + "?"
		if transferToUserID != "" {
			prompt = "Deactivate user " + u.Name + " and transfer their open work?"
		}
		if err := a.Confirm.Confirm(prompt); err != nil {
			return err
		}
		return api.DeleteUser(ctx, a.Session.Token(), u.ID, transferToUserID)
	})
}

// Mechanics returns the active mechanic accounts, used to pick an assignee
// when approving a budget.
func (a *App) Mechanics(ctx context.Context) ([]models.User, error) {
	view, err := a.Users(ctx, 1, lookupPerPage)
	if err != nil {
		return nil, err
	}

	var out []models.User
	for _, u := range view.Users {
		if u.Role == models.RoleMechanic && u.Active {
			out = append(out, u)
		}
	}
	if len(out) == 0 {
		notify.Info(a.Notify, "No active mechanics", "create a mechanic account before assigning work")
	}
	return out, nil
}
