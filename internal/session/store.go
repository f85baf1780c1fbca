// Package session owns the authenticated identity: login, logout, restore
// from disk, and teardown when the transport reports an expired session.
//
// The Store is the sole mutator of the session state. Everything else reads
// it through accessors; the query cache is cleared on every logout so no
// role-scoped data survives into the next session.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gearboxgarage/gearbox/config"
	"github.com/gearboxgarage/gearbox/internal/api"
	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/internal/querycache"
	"github.com/gearboxgarage/gearbox/pkg/event"
	"github.com/gearboxgarage/gearbox/pkg/httpclient"
	"github.com/gearboxgarage/gearbox/pkg/logger"
)

// Login failure taxonomy. The console shows a different message for each:
// bad credentials keep the form open, connectivity failures say "check your
// connection", anything else gets the server message or a generic fallback.
var (
	ErrInvalidCredentials = errors.New("session: invalid email or password")
	ErrConnectivity       = errors.New("session: could not reach the server")
)

// Store holds the current session and its durable copy.
type Store struct {
	mu      sync.RWMutex
	session models.Session

	cache *querycache.Cache
	path  string

	restoreOnce sync.Once
}

// NewStore wires a Store to the shared query cache and subscribes it to the
// transport's unauthorized broadcast for the lifetime of the process.
func NewStore(cache *querycache.Cache) *Store {
	return NewStoreAt(cache, config.CredentialsPath())
}

// NewStoreAt is NewStore with an explicit credentials path. Tests point it
// at a temp dir.
func NewStoreAt(cache *querycache.Cache, path string) *Store {
	s := &Store{
		cache: cache,
		path:  path,
	}

	event.Listen(event.Unauthorized, func(payload interface{}) {
		s.expire(payload)
	})

	return s
}

// Restore loads the persisted session exactly once at startup. Partial or
// corrupt data, an unknown role, or a token that is a JWT already past its
// expiry all leave the store logged out.
func (s *Store) Restore() {
	s.restoreOnce.Do(func() {
		c := loadCredentials(s.path)
		if c.Token == "" {
			return
		}
		if !c.User.Role.Valid() {
			logger.Warn("stored session has unknown role, discarding", "role", c.User.Role)
			return
		}
		if exp, ok := tokenExpiry(c.Token); ok && exp.Before(time.Now()) {
			logger.Info("stored session token expired, discarding", "expired_at", exp)
			_ = clearCredentials(s.path)
			return
		}

		s.mu.Lock()
		s.session = models.Session{Token: c.Token, User: c.User}
		s.mu.Unlock()
		logger.Debug("session restored", "user", c.User.Email, "role", c.User.Role)
	})
}

// Login authenticates against the API, then stores the session in memory
// and on disk (both entries together).
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := api.Login(ctx, email, password)
	if err != nil {
		return translateLoginErr(err)
	}

	if resp.Token.Value == "" || !resp.User.Role.Valid() {
		return fmt.Errorf("session: login returned an incomplete session")
	}

	user := resp.User

	s.mu.Lock()
	s.session = models.Session{Token: resp.Token.Value, User: &user}
	s.mu.Unlock()

	if err := saveCredentials(s.path, credentials{Token: resp.Token.Value, User: &user}); err != nil {
		// The in-memory session is still valid; only persistence failed.
		logger.Warn("could not persist session", "error", err)
	}

	logger.Info("logged in", "user", user.Email, "role", user.Role)
	return nil
}

// Logout clears the session everywhere: server side (best effort, failures
// are logged and ignored), memory, disk, and the whole query cache.
// Idempotent: calling it while logged out only clears the cache.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	prev := s.session
	s.session = models.Session{}
	s.mu.Unlock()

	if err := clearCredentials(s.path); err != nil {
		logger.Warn("could not clear stored credentials", "error", err)
	}
	s.cache.Clear()

	if !prev.Authenticated() {
		return nil
	}

	if err := api.Logout(ctx, prev.Token); err != nil {
		logger.Warn("server-side logout failed", "error", err)
	}
	logger.Info("logged out", "user", prev.User.Email)
	return nil
}

// expire handles the transport's unauthorized broadcast: local teardown
// only. The token is already dead, so no server round-trip is attempted.
func (s *Store) expire(payload interface{}) {
	s.mu.Lock()
	wasAuthenticated := s.session.Authenticated()
	s.session = models.Session{}
	s.mu.Unlock()

	if !wasAuthenticated {
		return
	}

	if err := clearCredentials(s.path); err != nil {
		logger.Warn("could not clear stored credentials", "error", err)
	}
	s.cache.Clear()
	logger.Warn("session expired", "path", payload)
}

// Current returns a copy of the session.
func (s *Store) Current() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Token returns the bearer token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// User returns the logged-in user, nil when logged out.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User
}

// IsAuthenticated reports whether both user and token are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated()
}

// IsOwner reports whether the logged-in user has the owner role.
func (s *Store) IsOwner() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User.IsOwner()
}

// TokenExpiry returns the token's expiry when the token is a JWT carrying
// one. Opaque tokens return ok=false.
func (s *Store) TokenExpiry() (time.Time, bool) {
	return tokenExpiry(s.Token())
}

func translateLoginErr(err error) error {
	if httpclient.IsNetwork(err) {
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	if httpclient.StatusOf(err) == 401 {
		return ErrInvalidCredentials
	}
	return fmt.Errorf("session: login failed: %w", err)
}

// tokenExpiry decodes the token without verifying the signature — the
// client has no key and the server stays authoritative — purely to read
// the exp claim for display and restore hygiene.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
