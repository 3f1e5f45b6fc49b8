package session

import (
	"context"
	"sync"
	"time"

	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/notify"
	"github.com/jwalitptl/passpay-web/internal/service/auth"
	jwtauth "github.com/jwalitptl/passpay-web/pkg/auth"
	"github.com/jwalitptl/passpay-web/pkg/errors"
	"github.com/jwalitptl/passpay-web/pkg/logger"
	"github.com/jwalitptl/passpay-web/pkg/metrics"
)

// LoginPath is where a logged out session is sent.
const LoginPath = "/auth/login"

type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "uninitialized"
	}
}

// Snapshot is a read-only copy of the acting identity.
type Snapshot struct {
	User          *model.User
	Role          model.Role
	LinkedID      *int64
	Authenticated bool
}

// Session is the single source of truth for who is acting and with what
// role. Only Initialize, Login, Logout, Refresh and UpdateLocalUser write it.
type Session struct {
	id string

	mu       sync.RWMutex
	state    State
	user     *model.User
	role     string
	linkedID *int64
	token    string
	scopes   map[string]interface{}
	redirect string

	initOnce sync.Once

	storage Storage
	auth    auth.AuthServicer
	notes   *notify.Queue
	ttl     time.Duration
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func (s *Session) ID() string { return s.id }

func (s *Session) Notifications() *notify.Queue { return s.notes }

// Authenticated is computed from the user and token, never stored.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticatedLocked()
}

func (s *Session) authenticatedLocked() bool {
	return s.user != nil && s.token != ""
}

func (s *Session) Status() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == StateAuthenticated && !s.authenticatedLocked() {
		return StateUnauthenticated
	}
	return s.state
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Role() model.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Role(s.role)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Role:          model.Role(s.role),
		Authenticated: s.authenticatedLocked(),
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	if s.linkedID != nil {
		id := *s.linkedID
		snap.LinkedID = &id
	}
	return snap
}

// Initialize runs once per mount. A persisted token is refreshed; any
// failure logs the session out. It never leaves the session Loading.
// mounted reports whether this call did the work.
func (s *Session) Initialize(ctx context.Context) (mounted bool) {
	s.initOnce.Do(func() {
		mounted = true
		s.transition(StateLoading)

		p, err := s.storage.Load(ctx, s.id)
		if err != nil {
			s.log.Warn(err, "could not load persisted session", "sid", s.id)
			s.Logout(ctx)
			return
		}
		if p == nil || p.Token == "" {
			s.transition(StateUnauthenticated)
			return
		}

		// Only the token is restored ahead of the refresh, so a failed
		// refresh can still tell the backend to drop it.
		s.mu.Lock()
		s.token = p.Token
		s.mu.Unlock()

		if err := s.refresh(ctx, p.Token); err != nil {
			s.log.Warn(err, "session refresh failed during initialization", "sid", s.id)
			s.Logout(ctx)
			return
		}
	})
	return mounted
}

// Sync reconciles a mounted, authenticated session with its persisted
// record, which another instance sharing the storage may have cleared or
// replaced. A missing record drops the local identity.
func (s *Session) Sync(ctx context.Context) {
	token := s.Token()
	if token == "" {
		return
	}
	p, err := s.storage.Load(ctx, s.id)
	if err != nil {
		s.log.Warn(err, "could not re-check persisted session", "sid", s.id)
		return
	}

	switch {
	case p == nil || p.Token == "":
		s.log.Info("persisted session is gone, dropping local identity", "sid", s.id)
		s.reset(token)
	case p.Token != token:
		if err := s.refresh(ctx, p.Token); err != nil {
			s.log.Warn(err, "session refresh failed after a token change", "sid", s.id)
			s.Logout(ctx)
		}
	default:
		s.mu.Lock()
		if s.token == token && p.User != nil {
			user := *p.User
			s.user = &user
			s.role = p.Role
		}
		s.mu.Unlock()
	}
}

// Login authenticates against the backend, then refreshes the canonical
// identity before reporting success. Failures become a notification.
func (s *Session) Login(ctx context.Context, email, password string) bool {
	prev, prevToken := s.Status(), s.Token()
	s.transition(StateLoading)

	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.loginFailed(prev, err)
		return false
	}

	if err := s.refresh(ctx, resp.Token); err != nil {
		s.revoke(ctx, resp.Token, prevToken)
		s.loginFailed(StateUnauthenticated, err)
		s.clear(ctx)
		return false
	}
	if prevToken != resp.Token {
		s.revoke(ctx, prevToken)
	}

	name := resp.User.Name
	if snap := s.Snapshot(); snap.User != nil && snap.User.Name != "" {
		name = snap.User.Name
	}
	s.notes.Success("Connexion réussie", "Bienvenue "+name)
	s.countLogin("success")
	return true
}

func (s *Session) loginFailed(state State, err error) {
	if state == StateAuthenticated && s.Authenticated() {
		s.transition(StateAuthenticated)
	} else {
		s.transition(StateUnauthenticated)
	}
	s.notes.Error("Erreur de connexion", errors.UserMessage(err, "Identifiants invalides"))
	s.countLogin("failure")
}

// Logout is the single terminal transition back to Unauthenticated. The
// backend call is best effort; local state is always cleared.
func (s *Session) Logout(ctx context.Context) {
	s.revoke(ctx, s.Token())
	s.clear(ctx)

	s.mu.Lock()
	s.redirect = LoginPath
	s.mu.Unlock()
}

// revoke tells the backend to drop each non-empty token, best effort.
func (s *Session) revoke(ctx context.Context, tokens ...string) {
	for _, token := range tokens {
		if token == "" {
			continue
		}
		if err := s.auth.Logout(ctx, token); err != nil {
			s.log.Warn(err, "backend logout failed", "sid", s.id)
		}
	}
}

func (s *Session) clear(ctx context.Context) {
	if err := s.storage.Clear(ctx, s.id); err != nil {
		s.log.Error(err, "could not clear persisted session", "sid", s.id)
	}
	s.reset("")
}

// reset drops the local identity and every scope. A non-empty token limits
// it to a session still holding that token.
func (s *Session) reset(token string) {
	s.mu.Lock()
	if token != "" && s.token != token {
		s.mu.Unlock()
		return
	}
	s.user = nil
	s.role = ""
	s.linkedID = nil
	s.token = ""
	s.scopes = nil
	s.state = StateUnauthenticated
	s.mu.Unlock()
	s.countTransition(StateUnauthenticated)
}

// Refresh overwrites the identity from the backend and persists it.
func (s *Session) Refresh(ctx context.Context) error {
	token := s.Token()
	if token == "" {
		return errors.Unauthorized(nil)
	}
	return s.refresh(ctx, token)
}

func (s *Session) refresh(ctx context.Context, token string) error {
	id, err := s.auth.MeRole(ctx, token)
	if err != nil {
		return err
	}

	ttl := jwtauth.SessionTTL(token, s.ttl, s.now())
	if ttl <= 0 {
		return errors.Application(errors.ErrUnauthorized, "Session expirée")
	}

	user := id.User
	if err := s.storage.Save(ctx, s.id, Persisted{Token: token, User: &user, Role: id.Role}, ttl); err != nil {
		return errors.NewInternal(err)
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.role = id.Role
	s.linkedID = id.LinkedID
	s.state = StateAuthenticated
	s.mu.Unlock()
	s.countTransition(StateAuthenticated)
	return nil
}

// UpdateLocalUser merges patch into the cached user without a backend call.
func (s *Session) UpdateLocalUser(ctx context.Context, patch model.UserPatch) error {
	s.mu.RLock()
	if s.user == nil || patch.Empty() {
		s.mu.RUnlock()
		return nil
	}
	user := *s.user
	token, role := s.token, s.role
	s.mu.RUnlock()

	patch.Apply(&user)
	ttl := jwtauth.SessionTTL(token, s.ttl, s.now())
	if err := s.storage.Save(ctx, s.id, Persisted{Token: token, User: &user, Role: role}, ttl); err != nil {
		return errors.NewInternal(err)
	}

	s.mu.Lock()
	if s.user != nil && s.token == token {
		s.user = &user
	}
	s.mu.Unlock()
	return nil
}

// Scope returns route-scoped state stored under key, creating it with init
// on first use. Logout drops every scope.
func (s *Session) Scope(key string, init func() interface{}) interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scopes == nil {
		s.scopes = make(map[string]interface{})
	}
	v, ok := s.scopes[key]
	if !ok {
		v = init()
		s.scopes[key] = v
	}
	return v
}

// TakeNavigation returns and clears a pending navigation command.
func (s *Session) TakeNavigation() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := s.redirect
	s.redirect = ""
	return target, target != ""
}

func (s *Session) transition(to State) {
	s.mu.Lock()
	s.state = to
	s.mu.Unlock()
	s.countTransition(to)
}

func (s *Session) countTransition(to State) {
	if s.metrics != nil {
		s.metrics.SessionTransitions.WithLabelValues(to.String()).Inc()
	}
}

func (s *Session) countLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.LoginAttempts.WithLabelValues(outcome).Inc()
	}
}
