package dashboard

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/passpay-web/internal/handler/handlertest"
	"github.com/jwalitptl/passpay-web/internal/session"
)

func setup(t *testing.T, role string) (*handlertest.Env, string) {
	env := handlertest.New(t, role)
	NewHandler().RegisterRoutes(&env.Engine.RouterGroup)
	return env, env.Login()
}

func TestDispatchByRole(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"patient", "/patient"},
		{"provider", "/provider"},
		{"pharmacy", "/pharmacy"},
		{"admin", "/admin"},
		{"superadmin", "/admin"},
		{"auditor", session.LoginPath},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			env, sid := setup(t, tt.role)
			w := env.Get("/dashboard", sid)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Location"))
		})
	}
}

func TestRootRedirects(t *testing.T) {
	env, _ := setup(t, "patient")
	w := env.Get("/", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestRoleDashboards(t *testing.T) {
	tests := []struct {
		role string
		path string
		want string
	}{
		{"patient", "/patient", "Urgences Médicales"},
		{"provider", "/provider", "Rendez-vous du jour"},
		{"pharmacy", "/pharmacy", "Ordonnances en cours"},
		{"admin", "/admin", "Cabinet Dentaire Sourire"},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			env, sid := setup(t, tt.role)
			w := env.Get(tt.path, sid)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestPlaceholders(t *testing.T) {
	env, sid := setup(t, "pharmacy")

	w := env.Get("/pharmacy/types", sid)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Types de Services - En développement")

	w = env.Get("/patient/wallet", sid)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminReachesEverySubtree(t *testing.T) {
	env, sid := setup(t, "admin")
	for _, path := range []string{"/patient/wallet", "/provider/payments", "/pharmacy/location", "/admin/stats"} {
		w := env.Get(path, sid)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
