package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/notify"
	"github.com/jwalitptl/passpay-web/internal/service/auth"
	"github.com/jwalitptl/passpay-web/pkg/errors"
	"github.com/jwalitptl/passpay-web/pkg/security"
)

type fakeAuth struct {
	mu          sync.Mutex
	loginErr    error
	meRoleErr   error
	logoutErr   error
	role        string
	logoutCalls int
	meRoleCalls int
	revoked     []string
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*auth.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &auth.LoginResponse{Token: "tok-" + email, User: model.User{ID: 1, Name: "Login Name", Email: email}}, nil
}

func (f *fakeAuth) Register(context.Context, auth.RegisterRequest) (*auth.LoginResponse, error) {
	return nil, nil
}

func (f *fakeAuth) Me(context.Context, string) (*model.User, error) { return nil, nil }

func (f *fakeAuth) MeRole(_ context.Context, token string) (*auth.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meRoleCalls++
	if f.meRoleErr != nil {
		return nil, f.meRoleErr
	}
	linked := int64(42)
	return &auth.Identity{User: model.User{ID: 1, Name: "Ana", Email: "ana@example.com"}, Role: f.role, LinkedID: &linked}, nil
}

func (f *fakeAuth) Logout(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	f.revoked = append(f.revoked, token)
	return f.logoutErr
}

func (f *fakeAuth) UpdateProfile(context.Context, string, auth.ProfileUpdate) (*model.User, error) {
	return nil, nil
}
func (f *fakeAuth) UpdateInfo(context.Context, string, string) (*model.User, error) {
	return nil, nil
}

func (f *fakeAuth) UpdatePassword(context.Context, string, auth.PasswordChange) error {
	return nil
}

func (f *fakeAuth) UpdatePhoto(context.Context, string, model.Upload) (string, error) {
	return "", nil
}

func newTestManager(fa *fakeAuth) (*Manager, *MemoryStorage) {
	store := NewMemoryStorage(0)
	return NewManager(Options{Storage: store, Auth: fa, TTL: time.Hour}), store
}

func assertInvariant(t *testing.T, s *Session) {
	t.Helper()
	snap := s.Snapshot()
	assert.Equal(t, snap.User != nil && s.Token() != "", s.Authenticated())
	if s.Status() == StateAuthenticated {
		assert.True(t, s.Authenticated())
	}
}

func TestInitializeWithoutToken(t *testing.T) {
	fa := &fakeAuth{role: "patient"}
	m, _ := newTestManager(fa)
	s, created := m.Get("")
	assert.True(t, created)
	assert.Equal(t, StateUninitialized, s.Status())

	s.Initialize(context.Background())
	assert.Equal(t, StateUnauthenticated, s.Status())
	assert.Equal(t, 0, fa.meRoleCalls)
	assertInvariant(t, s)
}

func TestInitializeRefreshesPersistedToken(t *testing.T) {
	fa := &fakeAuth{role: "provider"}
	m, store := newTestManager(fa)
	sid := m.NewID()
	require.NoError(t, store.Save(context.Background(), sid, Persisted{Token: "persisted", User: &model.User{ID: 1, Name: "Old"}, Role: "patient"}, time.Hour))

	s, created := m.Get(sid)
	assert.False(t, created)
	s.Initialize(context.Background())

	assert.Equal(t, StateAuthenticated, s.Status())
	assert.Equal(t, model.RoleProvider, s.Role())
	snap := s.Snapshot()
	assert.Equal(t, "Ana", snap.User.Name)
	require.NotNil(t, snap.LinkedID)
	assert.Equal(t, int64(42), *snap.LinkedID)

	fields, ok := store.Raw(sid)
	require.True(t, ok)
	assert.Equal(t, "provider", fields[KeyRole])
	assert.Equal(t, "persisted", fields[KeyToken])
	assertInvariant(t, s)

	s.Initialize(context.Background())
	assert.Equal(t, 1, fa.meRoleCalls)
}

func TestInitializeFailureLogsOut(t *testing.T) {
	fa := &fakeAuth{meRoleErr: errors.Application(errors.ErrUnauthorized, "Token invalide")}
	m, store := newTestManager(fa)
	sid := m.NewID()
	require.NoError(t, store.Save(context.Background(), sid, Persisted{Token: "stale", User: &model.User{ID: 1}, Role: "admin"}, time.Hour))

	s, _ := m.Get(sid)
	s.Initialize(context.Background())

	assert.Equal(t, StateUnauthenticated, s.Status())
	_, ok := store.Raw(sid)
	assert.False(t, ok)
	assert.Equal(t, 1, fa.logoutCalls)
	target, ok := s.TakeNavigation()
	assert.True(t, ok)
	assert.Equal(t, LoginPath, target)
	assertInvariant(t, s)
}

func TestInitializePartialRecordLogsOut(t *testing.T) {
	fa := &fakeAuth{role: "admin"}
	m, store := newTestManager(fa)
	sid := m.NewID()
	store.c.Set(sid, map[string]string{KeyToken: "tok"}, time.Hour)

	s, _ := m.Get(sid)
	s.Initialize(context.Background())
	assert.Equal(t, StateUnauthenticated, s.Status())
	_, ok := store.Raw(sid)
	assert.False(t, ok)
}

func TestLoginThenLogout(t *testing.T) {
	fa := &fakeAuth{role: "patient"}
	m, store := newTestManager(fa)
	s, _ := m.Get("")
	ctx := context.Background()
	s.Initialize(ctx)

	ok := s.Login(ctx, "ana@example.com", "pw")
	require.True(t, ok)
	assert.Equal(t, StateAuthenticated, s.Status())
	assert.Equal(t, model.RolePatient, s.Role())
	assert.Equal(t, "tok-ana@example.com", s.Token())
	assertInvariant(t, s)

	fields, found := store.Raw(s.ID())
	require.True(t, found)
	assert.Len(t, fields, 3)

	notes := s.Notifications().Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.KindSuccess, notes[0].Kind)
	assert.Equal(t, "Connexion réussie", notes[0].Title)
	assert.Equal(t, "Bienvenue Ana", notes[0].Message)

	screen := s.Scope("users", func() interface{} { return new(int) })
	s.Logout(ctx)

	assert.Equal(t, StateUnauthenticated, s.Status())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.Snapshot().User)
	_, found = store.Raw(s.ID())
	assert.False(t, found)
	assertInvariant(t, s)

	again := s.Scope("users", func() interface{} { return new(int) })
	assert.NotSame(t, screen, again)
}

func TestLoginFailureNotifies(t *testing.T) {
	fa := &fakeAuth{loginErr: errors.Application(errors.ErrUnauthorized, "Identifiants invalides")}
	m, store := newTestManager(fa)
	s, _ := m.Get("")
	ctx := context.Background()
	s.Initialize(ctx)

	assert.False(t, s.Login(ctx, "ana@example.com", "bad"))
	assert.Equal(t, StateUnauthenticated, s.Status())
	_, found := store.Raw(s.ID())
	assert.False(t, found)

	notes := s.Notifications().Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.KindError, notes[0].Kind)
	assert.Equal(t, "Erreur de connexion", notes[0].Title)
	assert.Equal(t, "Identifiants invalides", notes[0].Message)
}

func TestLoginRefreshFailureLeavesNothingBehind(t *testing.T) {
	fa := &fakeAuth{meRoleErr: errors.Transport("Impossible de contacter le serveur", nil)}
	m, store := newTestManager(fa)
	s, _ := m.Get("")
	ctx := context.Background()
	s.Initialize(ctx)

	assert.False(t, s.Login(ctx, "ana@example.com", "pw"))
	assert.Equal(t, StateUnauthenticated, s.Status())
	assert.Empty(t, s.Token())
	_, found := store.Raw(s.ID())
	assert.False(t, found)
	assert.Equal(t, []string{"tok-ana@example.com"}, fa.revoked)
	assertInvariant(t, s)
}

func TestReloginRevokesPreviousToken(t *testing.T) {
	fa := &fakeAuth{role: "admin"}
	m, _ := newTestManager(fa)
	s, _ := m.Get("")
	ctx := context.Background()
	s.Initialize(ctx)

	require.True(t, s.Login(ctx, "first@example.com", "pw"))
	require.True(t, s.Login(ctx, "second@example.com", "pw"))
	assert.Equal(t, "tok-second@example.com", s.Token())
	assert.Equal(t, []string{"tok-first@example.com"}, fa.revoked)
}

func TestSyncDropsSessionClearedElsewhere(t *testing.T) {
	fa := &fakeAuth{role: "admin"}
	store := NewMemoryStorage(0)
	replicaA := NewManager(Options{Storage: store, Auth: fa, TTL: time.Hour})
	replicaB := NewManager(Options{Storage: store, Auth: fa, TTL: time.Hour})
	ctx := context.Background()

	a, _ := replicaA.Get("")
	a.Initialize(ctx)
	require.True(t, a.Login(ctx, "ana@example.com", "pw"))

	b, created := replicaB.Get(a.ID())
	require.False(t, created)
	assert.True(t, b.Initialize(ctx))
	require.True(t, b.Authenticated())
	screen := b.Scope("users", func() interface{} { return new(int) })

	a.Logout(ctx)
	assert.False(t, b.Initialize(ctx))
	b.Sync(ctx)

	assert.Equal(t, StateUnauthenticated, b.Status())
	assert.False(t, b.Authenticated())
	assert.NotSame(t, screen, b.Scope("users", func() interface{} { return new(int) }))
	assertInvariant(t, b)
}

func TestSyncFollowsRecordUpdatedElsewhere(t *testing.T) {
	fa := &fakeAuth{role: "admin"}
	store := NewMemoryStorage(0)
	replicaA := NewManager(Options{Storage: store, Auth: fa, TTL: time.Hour})
	replicaB := NewManager(Options{Storage: store, Auth: fa, TTL: time.Hour})
	ctx := context.Background()

	a, _ := replicaA.Get("")
	a.Initialize(ctx)
	require.True(t, a.Login(ctx, "ana@example.com", "pw"))
	b, _ := replicaB.Get(a.ID())
	b.Initialize(ctx)

	photo := "users/1/new.jpg"
	require.NoError(t, a.UpdateLocalUser(ctx, model.UserPatch{Photo: &photo}))
	b.Sync(ctx)
	assert.Equal(t, photo, b.Snapshot().User.Photo)
	assert.Equal(t, StateAuthenticated, b.Status())

	calls := fa.meRoleCalls
	require.True(t, a.Login(ctx, "other@example.com", "pw"))
	b.Sync(ctx)
	assert.Equal(t, "tok-other@example.com", b.Token())
	assert.Equal(t, calls+2, fa.meRoleCalls)
}

func TestLogoutSwallowsBackendFailure(t *testing.T) {
	fa := &fakeAuth{role: "admin", logoutErr: errors.Transport("down", nil)}
	m, store := newTestManager(fa)
	s, _ := m.Get("")
	ctx := context.Background()
	require.True(t, s.Login(ctx, "a@b.io", "pw"))

	s.Logout(ctx)
	assert.Equal(t, StateUnauthenticated, s.Status())
	_, found := store.Raw(s.ID())
	assert.False(t, found)
	assert.Equal(t, 1, fa.logoutCalls)
}

func TestUpdateLocalUser(t *testing.T) {
	fa := &fakeAuth{role: "admin"}
	m, store := newTestManager(fa)
	s, _ := m.Get("")
	ctx := context.Background()
	require.True(t, s.Login(ctx, "a@b.io", "pw"))

	photo := "users/1/me.jpg"
	require.NoError(t, s.UpdateLocalUser(ctx, model.UserPatch{Photo: &photo}))

	assert.Equal(t, photo, s.Snapshot().User.Photo)
	assert.Equal(t, "Ana", s.Snapshot().User.Name)

	p, err := store.Load(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, photo, p.User.Photo)
	assert.Equal(t, "admin", p.Role)
	assert.Equal(t, 1, fa.meRoleCalls)
}

func TestUpdateLocalUserWithoutUserIsNoop(t *testing.T) {
	m, store := newTestManager(&fakeAuth{})
	s, _ := m.Get("")
	name := "x"
	require.NoError(t, s.UpdateLocalUser(context.Background(), model.UserPatch{Name: &name}))
	_, found := store.Raw(s.ID())
	assert.False(t, found)
}

func TestSealedStorageEncryptsToken(t *testing.T) {
	key, err := security.DeriveKey("secret", "session-token")
	require.NoError(t, err)
	enc, err := security.NewAESEncryptor(key)
	require.NoError(t, err)

	inner := NewMemoryStorage(0)
	store := Sealed(inner, enc)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid", Persisted{Token: "bearer-123", User: &model.User{ID: 1}, Role: "admin"}, time.Hour))
	raw, ok := inner.Raw("sid")
	require.True(t, ok)
	assert.NotEqual(t, "bearer-123", raw[KeyToken])

	p, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "bearer-123", p.Token)

	require.NoError(t, store.Clear(ctx, "sid"))
	p, err = store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestManagerGetReusesSession(t *testing.T) {
	m, _ := newTestManager(&fakeAuth{})
	s1, created := m.Get("not-a-uuid")
	assert.True(t, created)
	s2, created := m.Get(s1.ID())
	assert.False(t, created)
	assert.Same(t, s1, s2)
	assert.Equal(t, 1, m.Count())

	m.Forget(s1.ID())
	s3, _ := m.Get(s1.ID())
	assert.NotSame(t, s1, s3)
	assert.Equal(t, StateUninitialized, s3.Status())
}

func TestConcurrentInitializeRunsOnce(t *testing.T) {
	fa := &fakeAuth{role: "admin"}
	m, store := newTestManager(fa)
	sid := m.NewID()
	require.NoError(t, store.Save(context.Background(), sid, Persisted{Token: "t", User: &model.User{ID: 1}, Role: "admin"}, time.Hour))
	s, _ := m.Get(sid)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Initialize(context.Background())
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, fa.meRoleCalls)
	assert.Equal(t, StateAuthenticated, s.Status())
}
