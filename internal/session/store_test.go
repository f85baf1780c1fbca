package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/internal/querycache"
	"github.com/gearboxgarage/gearbox/internal/session"
	"github.com/gearboxgarage/gearbox/pkg/event"
	"github.com/gearboxgarage/gearbox/pkg/httpclient"
	"github.com/gearboxgarage/gearbox/pkg/testkit"
)

const loginOK = `{"user":{"id":"u1","name":"Olga","email":"olga@gearbox.test","role":"owner","active":true},"token":{"value":"tok-123"}}`

func newStore(t *testing.T, stubs ...testkit.Stub) (*session.Store, *querycache.Cache, string) {
	t.Helper()
	event.Flush()
	t.Cleanup(event.Flush)

	mt := testkit.NewMockTransport(stubs...)
	httpclient.DefaultClient.Transport = mt
	t.Cleanup(httpclient.ResetTransport)

	path := filepath.Join(t.TempDir(), "credentials")
	qc := querycache.New()
	return session.NewStoreAt(qc, path), qc, path
}

func TestLogin_StoresSessionInMemoryAndOnDisk(t *testing.T) {
	s, _, path := newStore(t, testkit.Stub{Method: "POST", URL: "/login", Status: 200, Body: loginOK})

	require.NoError(t, s.Login(context.Background(), "olga@gearbox.test", "pw"))

	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.IsOwner())
	assert.Equal(t, "tok-123", s.Token())

	_, err := os.Stat(path)
	assert.NoError(t, err, "credentials must be persisted")
}

func TestLogin_PersistenceRoundTrip(t *testing.T) {
	s, _, path := newStore(t, testkit.Stub{Method: "POST", URL: "/login", Status: 200, Body: loginOK})
	require.NoError(t, s.Login(context.Background(), "olga@gearbox.test", "pw"))
	original := s.Current()

	// A fresh store at the same path plays the startup path.
	restored := session.NewStoreAt(querycache.New(), path)
	restored.Restore()

	assert.Equal(t, original.Token, restored.Token())
	assert.Equal(t, original.User, restored.User())
}

func TestLogin_ErrorTaxonomy(t *testing.T) {
	t.Run("invalid credentials", func(t *testing.T) {
		s, _, _ := newStore(t, testkit.Stub{URL: "/login", Status: 401, Body: `{"error":"wrong password"}`})
		err := s.Login(context.Background(), "a@b.c", "nope")
		assert.ErrorIs(t, err, session.ErrInvalidCredentials)
		assert.False(t, s.IsAuthenticated())
	})

	t.Run("connectivity failure", func(t *testing.T) {
		s, _, _ := newStore(t, testkit.Stub{URL: "/login", Err: errors.New("no route to host")})
		err := s.Login(context.Background(), "a@b.c", "pw")
		assert.ErrorIs(t, err, session.ErrConnectivity)
	})

	t.Run("server failure", func(t *testing.T) {
		s, _, _ := newStore(t, testkit.Stub{URL: "/login", Status: 500, Body: `{"message":"database down"}`})
		err := s.Login(context.Background(), "a@b.c", "pw")
		require.Error(t, err)
		assert.NotErrorIs(t, err, session.ErrInvalidCredentials)
		assert.NotErrorIs(t, err, session.ErrConnectivity)
	})
}

func TestLogin_BadCredentialsDoNotTriggerBroadcastTeardown(t *testing.T) {
	s, _, _ := newStore(t, testkit.Stub{URL: "/login", Status: 401, Body: `{"error":"bad credentials"}`})

	var fired int
	event.Listen(event.Unauthorized, func(interface{}) { fired++ })

	_ = s.Login(context.Background(), "a@b.c", "nope")
	assert.Zero(t, fired, "a login 401 is a credentials problem, not session expiry")
}

func TestLogout_Idempotent(t *testing.T) {
	s, qc, path := newStore(t,
		testkit.Stub{Method: "POST", URL: "/login", Status: 200, Body: loginOK},
		testkit.Stub{Method: "DELETE", URL: "/logout", Status: 204},
	)
	require.NoError(t, s.Login(context.Background(), "olga@gearbox.test", "pw"))

	_, err := querycache.Fetch(context.Background(), qc,
		querycache.NewKey(querycache.FamilyClients, "list", nil),
		func(ctx context.Context) (string, error) { return "cached", nil })
	require.NoError(t, err)

	require.NoError(t, s.Logout(context.Background()))
	require.NoError(t, s.Logout(context.Background()), "second logout must be a no-op, not an error")

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Empty(t, s.Token())
	assert.Zero(t, qc.Len(), "logout clears the whole query cache")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLogout_ServerFailureStillClearsLocally(t *testing.T) {
	s, _, _ := newStore(t,
		testkit.Stub{Method: "POST", URL: "/login", Status: 200, Body: loginOK},
		testkit.Stub{Method: "DELETE", URL: "/logout", Status: 500, Body: `{"error":"oops"}`},
	)
	require.NoError(t, s.Login(context.Background(), "olga@gearbox.test", "pw"))

	assert.NoError(t, s.Logout(context.Background()), "server-side logout failure is logged, not fatal")
	assert.False(t, s.IsAuthenticated())
}

func TestUnauthorizedBroadcast_TearsDownOnce(t *testing.T) {
	s, qc, path := newStore(t, testkit.Stub{Method: "POST", URL: "/login", Status: 200, Body: loginOK})
	require.NoError(t, s.Login(context.Background(), "olga@gearbox.test", "pw"))

	event.Fire(event.Unauthorized, "/budgets")

	assert.False(t, s.IsAuthenticated())
	assert.Zero(t, qc.Len())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// A second broadcast while logged out is harmless.
	event.Fire(event.Unauthorized, "/budgets")
	assert.False(t, s.IsAuthenticated())
}

func TestRestore_CorruptOrPartialDataMeansLoggedOut(t *testing.T) {
	for name, contents := range map[string]string{
		"garbage":       `{{{not json`,
		"missing user":  `{"token":"tok-only"}`,
		"missing token": `{"user":{"id":"u1","name":"O","email":"o@g.t","role":"owner"}}`,
		"unknown role":  `{"token":"t","user":{"id":"u1","name":"O","email":"o@g.t","role":"admin"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			event.Flush()
			t.Cleanup(event.Flush)

			path := filepath.Join(t.TempDir(), "credentials")
			require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

			s := session.NewStoreAt(querycache.New(), path)
			s.Restore()
			assert.False(t, s.IsAuthenticated())
		})
	}
}

func TestRestore_RunsOnlyOnce(t *testing.T) {
	s, _, path := newStore(t, testkit.Stub{Method: "POST", URL: "/login", Status: 200, Body: loginOK})
	require.NoError(t, s.Login(context.Background(), "olga@gearbox.test", "pw"))

	other := session.NewStoreAt(querycache.New(), path)
	other.Restore()
	require.True(t, other.IsAuthenticated())

	require.NoError(t, other.Logout(context.Background()))
	other.Restore() // second call must not resurrect the session
	assert.False(t, other.IsAuthenticated())
}

func TestSession_AuthenticatedInvariant(t *testing.T) {
	assert.False(t, models.Session{}.Authenticated())
	assert.False(t, models.Session{Token: "t"}.Authenticated())
	assert.False(t, models.Session{User: &models.User{ID: "u"}}.Authenticated())
	assert.True(t, models.Session{Token: "t", User: &models.User{ID: "u"}}.Authenticated())
}
