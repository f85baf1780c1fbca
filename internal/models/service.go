package models

import "time"

// ServiceStatus is the closed set of work-order states. Pending and
// in-progress move freely between each other; completed and cancelled are
// terminal.
type ServiceStatus string

const (
	ServicePending    ServiceStatus = "pending"
	ServiceInProgress ServiceStatus = "in-progress"
	ServiceCompleted  ServiceStatus = "completed"
	ServiceCancelled  ServiceStatus = "cancelled"
)

// Valid reports whether s is a known service status.
func (s ServiceStatus) Valid() bool {
	switch s {
	case ServicePending, ServiceInProgress, ServiceCompleted, ServiceCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted.
func (s ServiceStatus) Terminal() bool {
	return s == ServiceCompleted || s == ServiceCancelled
}

// CanTransition reports whether the client may offer a transition from s to
// target.
func (s ServiceStatus) CanTransition(target ServiceStatus) bool {
	if s.Terminal() || s == target || !target.Valid() {
		return false
	}
	switch s {
	case ServicePending, ServiceInProgress:
		return true
	}
	return false
}

// Label returns the display name for the status.
func (s ServiceStatus) Label() string {
	switch s {
	case ServicePending:
		return "Pending"
	case ServiceInProgress:
		return "In progress"
	case ServiceCompleted:
		return "Completed"
	case ServiceCancelled:
		return "Cancelled"
	}
	return string(s)
}

// Service is a work order, usually created by the server when a budget is
// accepted.
type Service struct {
	ID           string        `json:"id"`
	ClientID     string        `json:"clientId"`
	CarID        string        `json:"carId"`
	BudgetID     string        `json:"budgetId,omitempty"`
	UserID       string        `json:"userId,omitempty"`
	AssignedToID string        `json:"assignedToId,omitempty"`
	Status       ServiceStatus `json:"status"`
	Description  string        `json:"description"`
	TotalValue   float64       `json:"totalValue"`
	Priority     string        `json:"priority,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	CreatedBy    string        `json:"createdBy,omitempty"`
	UpdatedBy    string        `json:"updatedBy,omitempty"`
}

// VisibleTo is the ownership test for work orders; same predicate as on
// Budget with the assignee field included.
func (s Service) VisibleTo(u *User) bool {
	if u == nil {
		return false
	}
	if u.IsOwner() {
		return true
	}
	return s.AssignedToID == u.ID || s.UserID == u.ID || s.CreatedBy == u.ID || s.UpdatedBy == u.ID
}
