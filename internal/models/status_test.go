package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gearboxgarage/gearbox/internal/models"
)

func TestBudgetStatus_Transitions(t *testing.T) {
	open := models.BudgetOpen

	assert.True(t, open.CanTransition(models.BudgetAccepted))
	assert.True(t, open.CanTransition(models.BudgetRejected))
	assert.True(t, open.CanTransition(models.BudgetCancelled))
	assert.False(t, open.CanTransition(models.BudgetOpen))

	for _, terminal := range []models.BudgetStatus{models.BudgetAccepted, models.BudgetRejected, models.BudgetCancelled} {
		assert.True(t, terminal.Terminal())
		assert.False(t, terminal.CanTransition(models.BudgetOpen), "%s has no outgoing edges", terminal)
		assert.False(t, terminal.CanTransition(models.BudgetCancelled), "%s has no outgoing edges", terminal)
	}

	assert.False(t, models.BudgetStatus("archived").Valid())
	assert.True(t, open.Valid())
}

func TestServiceStatus_Transitions(t *testing.T) {
	// Pending and in-progress move freely between each other and into the
	// terminal pair.
	assert.True(t, models.ServicePending.CanTransition(models.ServiceInProgress))
	assert.True(t, models.ServiceInProgress.CanTransition(models.ServicePending))
	assert.True(t, models.ServiceInProgress.CanTransition(models.ServiceCompleted))
	assert.True(t, models.ServicePending.CanTransition(models.ServiceCancelled))

	// No self-loops, no unknown targets, no way out of a terminal state.
	assert.False(t, models.ServicePending.CanTransition(models.ServicePending))
	assert.False(t, models.ServicePending.CanTransition(models.ServiceStatus("paused")))
	assert.False(t, models.ServiceCompleted.CanTransition(models.ServiceInProgress))
	assert.False(t, models.ServiceCancelled.CanTransition(models.ServicePending))
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "In progress", models.ServiceInProgress.Label())
	assert.Equal(t, "Open", models.BudgetOpen.Label())
	// Unknown values fall back to the raw string instead of guessing.
	assert.Equal(t, "weird", models.BudgetStatus("weird").Label())
}

func TestBudget_VisibleTo(t *testing.T) {
	own := &models.User{ID: "o1", Role: models.RoleOwner}
	m1 := &models.User{ID: "m1", Role: models.RoleMechanic}
	m2 := &models.User{ID: "m2", Role: models.RoleMechanic}

	assigned := models.Budget{ID: "b1", UserID: "m1"}
	created := models.Budget{ID: "b2", CreatedBy: "m1"}
	updated := models.Budget{ID: "b3", UpdatedBy: "m1"}
	foreign := models.Budget{ID: "b4", UserID: "m2"}

	for _, b := range []models.Budget{assigned, created, updated} {
		assert.True(t, b.VisibleTo(m1), "budget %s", b.ID)
		assert.True(t, b.VisibleTo(own), "owner sees budget %s", b.ID)
	}
	assert.False(t, foreign.VisibleTo(m1))
	assert.False(t, assigned.VisibleTo(m2))
	assert.False(t, assigned.VisibleTo(nil))
}

func TestService_VisibleTo(t *testing.T) {
	m1 := &models.User{ID: "m1", Role: models.RoleMechanic}

	assert.True(t, models.Service{AssignedToID: "m1"}.VisibleTo(m1))
	assert.True(t, models.Service{UserID: "m1"}.VisibleTo(m1))
	assert.True(t, models.Service{CreatedBy: "m1"}.VisibleTo(m1))
	assert.False(t, models.Service{AssignedToID: "m2"}.VisibleTo(m1))
	assert.False(t, models.Service{AssignedToID: "m1"}.VisibleTo(nil))
}

func TestUser_IsOwnerNilSafe(t *testing.T) {
	var u *models.User
	assert.False(t, u.IsOwner())
	assert.True(t, (&models.User{Role: models.RoleOwner}).IsOwner())
	assert.False(t, (&models.User{Role: models.RoleMechanic}).IsOwner())
}
