package querycache

import (
	"sort"
	"strings"
)

// Resource families. Invalidation operates on whole families so every
// paginated/filtered variant of a collection goes stale together.
const (
	FamilyClients  = "clients"
	FamilyCars     = "cars"
	FamilyBudgets  = "budgets"
	FamilyServices = "services"
	FamilyUsers    = "users"
	FamilyFIPE     = "fipe"
)

// Key identifies one fetchable result set: resource family, operation
// qualifier and a canonical parameter string. Keys are comparable values;
// two keys built from the same family, op and parameter set are equal
// regardless of the order the parameters were supplied in.
//
// Role-scoping parameters (a mechanic's user id) must be included whenever
// the result set differs by role, so an owner's cached list can never be
// served to a mechanic's view.
type Key struct {
	family string
	op     string
	params string
}

// NewKey builds a Key. Empty parameter values are dropped, the rest are
// sorted by name, so equal parameter sets canonicalize to equal keys.
func NewKey(family, op string, params map[string]string) Key {
	names := make([]string, 0, len(params))
	for name, value := range params {
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(params[name])
	}

	return Key{family: family, op: op, params: b.String()}
}

// Family returns the resource family the key belongs to.
func (k Key) Family() string { return k.family }

// String renders the key for logging and request coalescing.
func (k Key) String() string {
	if k.params == "" {
		return k.family + "/" + k.op
	}
	return k.family + "/" + k.op + "?" + k.params
}
