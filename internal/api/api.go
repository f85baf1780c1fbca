// Package api contains the resource accessors: one file per entity family,
// each a set of stateless functions that take the session token and typed
// parameters, call the transport layer and return the decoded envelope.
//
// Accessors never touch the query cache. Each family declares the cache
// keys its mutations affect (the *Affects variables); the view-model layer
// performs the invalidation after a successful write, which keeps this
// layer trivially testable.
package api

import (
	"strconv"

	"github.com/gearboxgarage/gearbox/pkg/httpclient"
)

// ListParams are the pagination and scope parameters shared by every list
// endpoint. UserID partitions the result set by role: a mechanic's queries
// carry their id so their cached pages can never be confused with the
// owner's.
type ListParams struct {
	Page    int
	PerPage int
	UserID  string
}

// apply adds the set parameters to the request's query string.
func (p ListParams) apply(r *httpclient.Request) *httpclient.Request {
	if p.Page > 0 {
		r.Query("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		r.Query("perPage", strconv.Itoa(p.PerPage))
	}
	r.Query("userId", p.UserID)
	return r
}

// keyParams renders the same parameters for cache-key construction, so the
// cache key and the query string can never disagree about scope.
func (p ListParams) keyParams() map[string]string {
	out := map[string]string{}
	if p.Page > 0 {
		out["page"] = strconv.Itoa(p.Page)
	}
	if p.PerPage > 0 {
		out["perPage"] = strconv.Itoa(p.PerPage)
	}
	if p.UserID != "" {
		out["userId"] = p.UserID
	}
	return out
}
