package models

import "time"

// BudgetStatus is the closed set of budget states. Accepted, rejected and
// cancelled are terminal: once there, no client-side action is offered.
type BudgetStatus string

const (
	BudgetOpen      BudgetStatus = "open"
	BudgetAccepted  BudgetStatus = "accepted"
	BudgetRejected  BudgetStatus = "rejected"
	BudgetCancelled BudgetStatus = "cancelled"
)

// Valid reports whether s is a known budget status.
func (s BudgetStatus) Valid() bool {
	switch s {
	case BudgetOpen, BudgetAccepted, BudgetRejected, BudgetCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted.
func (s BudgetStatus) Terminal() bool {
	return s == BudgetAccepted || s == BudgetRejected || s == BudgetCancelled
}

// CanTransition reports whether the client may offer a transition from s
// to target. Only "open" has outgoing edges; the server remains
// authoritative, this just gates which actions the UI enables.
func (s BudgetStatus) CanTransition(target BudgetStatus) bool {
	if s != BudgetOpen {
		return false
	}
	switch target {
	case BudgetAccepted, BudgetRejected, BudgetCancelled:
		return true
	}
	return false
}

// Label returns the display name for the status.
func (s BudgetStatus) Label() string {
	switch s {
	case BudgetOpen:
		return "Open"
	case BudgetAccepted:
		return "Accepted"
	case BudgetRejected:
		return "Rejected"
	case BudgetCancelled:
		return "Cancelled"
	}
	return string(s)
}

// Budget is a repair estimate for a client's car. Accepting it produces a
// Service on the server side.
type Budget struct {
	ID            string       `json:"id"`
	ClientID      string       `json:"clientId"`
	CarID         string       `json:"carId"`
	UserID        string       `json:"userId,omitempty"` // assigned mechanic
	Description   string       `json:"description"`
	Amount        float64      `json:"amount"`
	Status        BudgetStatus `json:"status"`
	EstimatedDays int          `json:"estimatedDays,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
	CreatedBy     string       `json:"createdBy,omitempty"`
	UpdatedBy     string       `json:"updatedBy,omitempty"`
}

// VisibleTo is the ownership test: a non-owner sees a budget when they are
// the assigned mechanic, its creator or its last updater. Owners see all.
func (b Budget) VisibleTo(u *User) bool {
	if u == nil {
		return false
	}
	if u.IsOwner() {
		return true
	}
	return b.UserID == u.ID || b.CreatedBy == u.ID || b.UpdatedBy == u.ID
}
