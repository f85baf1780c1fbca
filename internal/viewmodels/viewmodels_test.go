package viewmodels_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gearboxgarage/gearbox/internal/confirm"
	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/internal/notify"
	"github.com/gearboxgarage/gearbox/internal/querycache"
	"github.com/gearboxgarage/gearbox/internal/session"
	"github.com/gearboxgarage/gearbox/internal/viewmodels"
	"github.com/gearboxgarage/gearbox/pkg/event"
	"github.com/gearboxgarage/gearbox/pkg/httpclient"
	"github.com/gearboxgarage/gearbox/pkg/testkit"
)

// fixture bundles everything a view-model test touches: the wired App, the
// scripted transport, the recorded confirmations and notifications, and the
// cache for state assertions.
type fixture struct {
	app     *viewmodels.App
	mt      *testkit.MockTransport
	confirm *confirm.Scripted
	notes   *notify.Recorder
	cache   *querycache.Cache
}

// newFixture builds an App logged in as the given user, with the transport
// answering from stubs. The session is seeded through the credentials file
// so no login round-trip is needed.
func newFixture(t *testing.T, user models.User, stubs ...testkit.Stub) *fixture {
	t.Helper()
	event.Flush()
	t.Cleanup(event.Flush)

	mt := testkit.NewMockTransport(stubs...)
	httpclient.DefaultClient.Transport = mt
	t.Cleanup(httpclient.ResetTransport)

	path := filepath.Join(t.TempDir(), "credentials")
	raw, err := json.Marshal(map[string]interface{}{"token": "test-token", "user": user})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	qc := querycache.New()
	store := session.NewStoreAt(qc, path)
	store.Restore()
	require.True(t, store.IsAuthenticated(), "fixture session must restore")

	cf := &confirm.Scripted{Approve: true}
	notes := &notify.Recorder{}
	return &fixture{
		app:     viewmodels.NewApp(store, qc, cf, notes),
		mt:      mt,
		confirm: cf,
		notes:   notes,
		cache:   qc,
	}
}

func owner() models.User {
	return models.User{ID: "o1", Name: "Olga", Email: "olga@gearbox.test", Role: models.RoleOwner, Active: true}
}

func mechanic(id, name string) models.User {
	return models.User{ID: id, Name: name, Email: name + "@gearbox.test", Role: models.RoleMechanic, Active: true}
}

// pageBody marshals a data slice into the {"data":[...],"meta":{...}} list
// envelope the server returns.
func pageBody(t *testing.T, data interface{}, total int) string {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"data": data,
		"meta": models.Meta{Total: total, PerPage: 1000, CurrentPage: 1, LastPage: 1},
	})
	require.NoError(t, err)
	return string(raw)
}

func emptyPage(t *testing.T) string {
	return pageBody(t, []struct{}{}, 0)
}

// lastNotification fails the test unless exactly the expected level arrived
// last, and returns it.
func lastNotification(t *testing.T, r *notify.Recorder, level notify.Level) notify.Notification {
	t.Helper()
	require.NotEmpty(t, r.Sent, "expected a notification")
	n := r.Sent[len(r.Sent)-1]
	require.Equal(t, level, n.Level)
	return n
}

// seedList warms a cache family with one fetched page so tests can assert on
// invalidation afterwards.
func seedList[T any](t *testing.T, qc *querycache.Cache, key querycache.Key, data []T) {
	t.Helper()
	_, err := querycache.Fetch(context.Background(), qc, key,
		func(ctx context.Context) (models.Page[T], error) {
			return models.Page[T]{Data: data}, nil
		})
	require.NoError(t, err)
}
