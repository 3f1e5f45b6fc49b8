package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/passpay-web/internal/middleware"
	"github.com/jwalitptl/passpay-web/internal/session"
	"github.com/jwalitptl/passpay-web/internal/view"
	"github.com/jwalitptl/passpay-web/pkg/errors"
	"github.com/jwalitptl/passpay-web/pkg/httputil"
)

// Handler is implemented by every screen package.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// Session returns the acting session. The router installs
// middleware.Session ahead of every screen, so it is never nil there.
func Session(c *gin.Context) *session.Session {
	return middleware.CurrentSession(c)
}

// Render wraps data in the page frame of the acting session.
func Render(c *gin.Context, status int, name, title string, data interface{}) {
	c.HTML(status, name, view.NewPage(Session(c), c.Request.URL.Path, title, data))
}

// SeeOther ends a form post with a redirect, the usual post/redirect/get.
func SeeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// NotFound renders the 404 page, or the JSON envelope for scripts.
func NotFound(c *gin.Context) {
	if httputil.WantsJSON(c) {
		httputil.RespondWithError(c, errors.NewNotFound("page", nil))
		return
	}
	Render(c, http.StatusNotFound, "notfound", "Page non trouvée", nil)
}

// SafeNext keeps a post-login target only when it stays on this site.
func SafeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	if strings.HasPrefix(next, session.LoginPath) {
		return fallback
	}
	return next
}
