package api

import (
	"context"

	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/internal/querycache"
	"github.com/gearboxgarage/gearbox/pkg/httpclient"
)

// Cache families affected by budget writes. Accepting a budget creates a
// service server-side, so the accept/reject pair invalidates the services
// family too — that cross-family link is the one exception to "a family
// only invalidates itself".
var (
	BudgetMutationAffects = []string{querycache.FamilyBudgets}
	BudgetDecideAffects   = []string{querycache.FamilyBudgets, querycache.FamilyServices}
)

// BudgetsListKey is the cache key for one page of the budgets collection.
func BudgetsListKey(p ListParams) querycache.Key {
	return querycache.NewKey(querycache.FamilyBudgets, "list", p.keyParams())
}

// BudgetInput is the create/update payload for a budget.
type BudgetInput struct {
	ClientID      string  `json:"clientId"`
	CarID         string  `json:"carId"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	EstimatedDays int     `json:"estimatedDays,omitempty"`
}

// BudgetDecision is the accept/reject payload: the mechanic the resulting
// work is assigned to, plus the server-required confirmation flag.
type BudgetDecision struct {
	AssignedToID string `json:"assignedToId"`
	Confirm      bool   `json:"confirm"`
}

// AcceptResult is returned by the accept endpoint: the service the server
// created from the budget.
type AcceptResult struct {
	Service models.Service `json:"service"`
}

// ListBudgets fetches one page of budgets.
func ListBudgets(ctx context.Context, token string, p ListParams) (models.Page[models.Budget], error) {
	var page models.Page[models.Budget]

	resp, err := p.apply(httpclient.Get("/budgets")).
		Bearer(token).
		WithContext(ctx).
		Send()
	if err != nil {
		return page, err
	}
	err = resp.Decode(&page)
	return page, err
}

// CreateBudget opens a new budget.
func CreateBudget(ctx context.Context, token string, in BudgetInput) (models.Budget, error) {
	var out models.Budget

	resp, err := httpclient.Post("/budgets").
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

// UpdateBudget overwrites a budget's editable fields.
func UpdateBudget(ctx context.Context, token, id string, in BudgetInput) (models.Budget, error) {
	var out models.Budget

	resp, err := httpclient.Put("/budgets/"+id).
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

// AcceptBudget approves an open budget, assigning the produced service to
// the given mechanic.
func AcceptBudget(ctx context.Context, token, id string, d BudgetDecision) (AcceptResult, error) {
	var out AcceptResult

	resp, err := httpclient.Post("/budgets/"+id+"/accept").
		Bearer(token).
		Body(d).
		WithContext(ctx).
		Send()
	if err != nil {
		return out, err
	}
	err = resp.Decode(&out)
	return out, err
}

// RejectBudget declines an open budget.
func RejectBudget(ctx context.Context, token, id string, d BudgetDecision) error {
	_, err := httpclient.Post("/budgets/"+id+"/reject").
		Bearer(token).
		Body(d).
		WithContext(ctx).
		Send()
	return err
}

// CancelBudget moves an open budget to cancelled.
func CancelBudget(ctx context.Context, token, id string) (models.Budget, error) {
	var out models.Budget

	resp, err := httpclient.Put("/budgets/"+id).
		Bearer(token).
		Body(map[string]string{"status": string(models.BudgetCancelled)}).
		WithContext(ctx).
		Send()
	if err != nil {
		return out, err
	}
	err = resp.Decode(&out)
	return out, err
}
