// Package handlertest wires a gin engine around a real session manager and
// an in-memory identity backend for handler tests.
package handlertest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/passpay-web/internal/middleware"
	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/service/auth"
	"github.com/jwalitptl/passpay-web/internal/session"
	"github.com/jwalitptl/passpay-web/internal/view"
	"github.com/jwalitptl/passpay-web/pkg/errors"
)

const (
	CookieName = "passpay_sid"
	Password   = "secret"
)

// Auth is an identity backend holding a single account.
type Auth struct {
	mu   sync.Mutex
	User model.User
	Role string

	ProfileUpdates []auth.ProfileUpdate
	InfoUpdates    []string
	Passwords      []auth.PasswordChange
	Photos         []model.Upload
	PhotoURL       string
	// Err, when set, fails every profile call.
	Err error
}

func NewAuth(role string) *Auth {
	return &Auth{
		User: model.User{ID: 1, Name: "Ana Martin", Email: "ana@example.com", Phone: "0600000000"},
		Role: role,
	}
}

func (a *Auth) Login(_ context.Context, email, password string) (*auth.LoginResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if email != a.User.Email || password != Password {
		return nil, errors.Application(errors.ErrUnauthorized, "Email ou mot de passe incorrect")
	}
	return &auth.LoginResponse{Token: "tok", User: a.User}, nil
}

func (a *Auth) Register(context.Context, auth.RegisterRequest) (*auth.LoginResponse, error) {
	return nil, errors.Application(errors.ErrBadRequest, "Inscription fermée")
}

func (a *Auth) Me(context.Context, string) (*model.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	u := a.User
	return &u, nil
}

func (a *Auth) MeRole(context.Context, string) (*auth.Identity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return &auth.Identity{User: a.User, Role: a.Role}, nil
}

func (a *Auth) Logout(context.Context, string) error { return nil }

func (a *Auth) UpdateProfile(_ context.Context, _ string, req auth.ProfileUpdate) (*model.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	a.ProfileUpdates = append(a.ProfileUpdates, req)
	a.User.Name, a.User.Phone = req.Name, req.Phone
	u := a.User
	return &u, nil
}

func (a *Auth) UpdateInfo(_ context.Context, _ string, email string) (*model.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	a.InfoUpdates = append(a.InfoUpdates, email)
	a.User.Email = email
	u := a.User
	return &u, nil
}

func (a *Auth) UpdatePassword(_ context.Context, _ string, req auth.PasswordChange) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.Passwords = append(a.Passwords, req)
	return nil
}

func (a *Auth) UpdatePhoto(_ context.Context, _ string, photo model.Upload) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return "", a.Err
	}
	a.Photos = append(a.Photos, photo)
	a.User.Photo = a.PhotoURL
	return a.PhotoURL, nil
}

// Env is an engine with the session middleware installed.
type Env struct {
	T       *testing.T
	Auth    *Auth
	Manager *session.Manager
	Engine  *gin.Engine
}

func New(t *testing.T, role string) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	a := NewAuth(role)
	mgr := session.NewManager(session.Options{Auth: a, TTL: time.Hour})

	r, err := view.New("https://api.passpay.test")
	require.NoError(t, err)

	engine := gin.New()
	engine.SetHTMLTemplate(r.Template())
	engine.Use(middleware.RequestID(), middleware.Session(mgr, middleware.CookieConfig{Name: CookieName}))
	return &Env{T: t, Auth: a, Manager: mgr, Engine: engine}
}

// Login returns the id of an authenticated session with its welcome
// notification already consumed.
func (e *Env) Login() string {
	e.T.Helper()
	sess, _ := e.Manager.Get("")
	sess.Initialize(context.Background())
	require.True(e.T, sess.Login(context.Background(), e.Auth.User.Email, Password))
	sess.Notifications().Drain()
	return sess.ID()
}

func (e *Env) Session(sid string) *session.Session {
	e.T.Helper()
	sess, ok := e.Manager.Lookup(sid)
	require.True(e.T, ok)
	return sess
}

func (e *Env) Do(req *http.Request, sid string) *httptest.ResponseRecorder {
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: sid})
	}
	w := httptest.NewRecorder()
	e.Engine.ServeHTTP(w, req)
	return w
}

func (e *Env) Get(path, sid string) *httptest.ResponseRecorder {
	return e.Do(httptest.NewRequest(http.MethodGet, path, nil), sid)
}

func (e *Env) GetJSON(path, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "application/json")
	return e.Do(req, sid)
}

func (e *Env) PostForm(path, sid string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.Do(req, sid)
}
