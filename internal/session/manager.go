package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/passpay-web/internal/notify"
	"github.com/jwalitptl/passpay-web/internal/service/auth"
	"github.com/jwalitptl/passpay-web/pkg/logger"
	"github.com/jwalitptl/passpay-web/pkg/metrics"
)

type Options struct {
	Storage Storage
	Auth    auth.AuthServicer
	// TTL bounds both persisted records and idle in-memory sessions.
	TTL     time.Duration
	Logger  *logger.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Manager maps session ids to live Session objects. Sessions evicted from
// memory are rebuilt from Storage on their next request.
type Manager struct {
	sessions *cache.Cache
	opts     Options
}

func NewManager(opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Storage == nil {
		opts.Storage = NewMemoryStorage(0)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Logger = opts.Logger.With("session")

	m := &Manager{
		sessions: cache.New(opts.TTL, 10*time.Minute),
		opts:     opts,
	}
	m.sessions.OnEvicted(func(string, interface{}) { m.observe() })
	return m
}

// NewID mints an opaque session id.
func (m *Manager) NewID() string {
	return uuid.NewString()
}

// Get returns the session for sid, creating a fresh one when sid is unknown
// or malformed. created reports whether a new id was minted.
func (m *Manager) Get(sid string) (s *Session, created bool) {
	if _, err := uuid.Parse(sid); err != nil {
		sid = m.NewID()
		created = true
	}

	if v, ok := m.sessions.Get(sid); ok {
		s = v.(*Session)
		m.sessions.SetDefault(sid, s)
		return s, created
	}

	s = m.newSession(sid)
	// Add fails when a concurrent request won the race; use its session.
	if err := m.sessions.Add(sid, s, cache.DefaultExpiration); err != nil {
		if v, ok := m.sessions.Get(sid); ok {
			return v.(*Session), created
		}
		m.sessions.SetDefault(sid, s)
	}
	m.observe()
	return s, created
}

// Lookup returns an existing in-memory session without creating one.
func (m *Manager) Lookup(sid string) (*Session, bool) {
	v, ok := m.sessions.Get(sid)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Forget drops the in-memory session so its next request mounts afresh.
func (m *Manager) Forget(sid string) {
	m.sessions.Delete(sid)
}

func (m *Manager) Count() int {
	return m.sessions.ItemCount()
}

func (m *Manager) newSession(sid string) *Session {
	return &Session{
		id:      sid,
		state:   StateUninitialized,
		storage: m.opts.Storage,
		auth:    m.opts.Auth,
		notes:   notify.NewQueue(),
		ttl:     m.opts.TTL,
		log:     m.opts.Logger,
		metrics: m.opts.Metrics,
		now:     m.opts.Now,
	}
}

func (m *Manager) observe() {
	if m.opts.Metrics != nil {
		m.opts.Metrics.SessionsActive.Set(float64(m.sessions.ItemCount()))
	}
}
