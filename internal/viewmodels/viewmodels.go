// Package viewmodels composes the feature views: each hook requests its
// primary paginated collection through the query cache, loads whatever
// secondary collections it needs for display-time lookups, applies the
// role-based ownership filter, and runs every mutation through the
// confirm → accessor → invalidate → notify pipeline.
package viewmodels

import (
	"errors"

	"github.com/gearboxgarage/gearbox/internal/confirm"
	"github.com/gearboxgarage/gearbox/internal/notify"
	"github.com/gearboxgarage/gearbox/internal/querycache"
	"github.com/gearboxgarage/gearbox/internal/session"
	"github.com/gearboxgarage/gearbox/pkg/httpclient"
)

// Unresolved is the placeholder shown when a foreign key cannot be resolved
// through the lookup maps. A missing reference degrades to this, never to a
// panic or an empty cell.
const Unresolved = "(unresolved)"

// App bundles the shared collaborators every view needs.
type App struct {
	Session *session.Store
	Cache   *querycache.Cache
	Confirm confirm.Confirmer
	Notify  notify.Notifier
}

// NewApp wires a view-model layer over the given session store and cache.
func NewApp(s *session.Store, c *querycache.Cache, cf confirm.Confirmer, n notify.Notifier) *App {
	return &App{Session: s, Cache: c, Confirm: cf, Notify: n}
}

// mutate runs one write operation end to end. Ordering matters: the
// invalidation happens strictly after the mutation's response is observed
// successful, so a dependent view reads either the pre-mutation cache or
// the fully refreshed state, never something in between.
//
// A declined confirmation inside fn surfaces as confirm.ErrCancelled and is
// swallowed silently. Real failures produce an error notification and are
// returned; the cache is left exactly as it was.
func (a *App) mutate(title string, affects []string, fn func() error) error {
	if err := fn(); err != nil {
		if confirm.Cancelled(err) {
			return nil
		}
		notify.Error(a.Notify, title+" failed", displayMessage(err))
		return err
	}

	a.Cache.Invalidate(affects...)
	notify.Success(a.Notify, title, "")
	return nil
}

// displayMessage translates an error into the text shown to the user,
// keeping the taxonomy: connectivity failures get the "check your
// connection" wording, HTTP errors show the server-provided message.
func displayMessage(err error) string {
	if httpclient.IsNetwork(err) {
		return "could not reach the server — check your connection"
	}
	var ae *httpclient.APIError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

// resolve looks up id in a display map, degrading to the Unresolved
// placeholder on a missing key.
func resolve(m map[string]string, id string) string {
	if v, ok := m[id]; ok && v != "" {
		return v
	}
	return Unresolved
}
