package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/session"
	"github.com/jwalitptl/passpay-web/internal/view"
	"github.com/jwalitptl/passpay-web/pkg/errors"
	"github.com/jwalitptl/passpay-web/pkg/httputil"
)

// Subtree role sets. The role subtrees are also open to administrators.
var (
	AdminRoles    = []model.Role{model.RoleAdmin, model.RoleSuperAdmin}
	PatientRoles  = []model.Role{model.RolePatient, model.RoleAdmin, model.RoleSuperAdmin}
	ProviderRoles = []model.Role{model.RoleProvider, model.RoleAdmin, model.RoleSuperAdmin}
	PharmacyRoles = []model.Role{model.RolePharmacy, model.RoleAdmin, model.RoleSuperAdmin}
)

// Guard gates a route subtree. Without roles any authenticated session
// passes; with roles the session role must be one of them. A session with
// no role never passes a role check.
func Guard(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil {
			_ = c.Error(errors.NewInternal(nil))
			c.Abort()
			return
		}

		switch sess.Status() {
		case session.StateUninitialized, session.StateLoading:
			c.Header("Refresh", "1")
			c.HTML(http.StatusOK, "loading", view.NewPage(sess, c.Request.URL.Path, "Chargement", nil))
			c.Abort()
			return

		case session.StateUnauthenticated:
			next := c.Request.URL.RequestURI()
			if target, ok := sess.TakeNavigation(); ok {
				c.Redirect(http.StatusSeeOther, target+"?next="+url.QueryEscape(next))
				c.Abort()
				return
			}
			if httputil.WantsJSON(c) {
				httputil.RespondWithError(c, errors.Unauthorized(nil))
				c.Abort()
				return
			}
			c.HTML(http.StatusUnauthorized, "login", view.NewPage(sess, session.LoginPath, "Connexion", view.Login{Next: next}))
			c.Abort()
			return
		}

		if len(roles) > 0 && !allowed(sess.Role(), roles) {
			if httputil.WantsJSON(c) {
				httputil.RespondWithError(c, errors.Forbidden("Accès refusé"))
			} else {
				c.HTML(http.StatusForbidden, "denied", view.NewPage(sess, c.Request.URL.Path, "Accès refusé", nil))
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

func allowed(role model.Role, roles []model.Role) bool {
	if role == "" {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
