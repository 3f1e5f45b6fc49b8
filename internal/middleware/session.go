package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/passpay-web/internal/session"
)

const ContextSession = "session"

type CookieConfig struct {
	Name   string
	Path   string
	MaxAge int // seconds
	Secure bool
}

// Session binds the request to the session named by the cookie, minting a
// new id when the cookie is missing or malformed, and mounts it on first use.
// Later requests re-check the persisted record so a logout on another
// instance takes effect here too.
func Session(m *session.Manager, cookie CookieConfig) gin.HandlerFunc {
	if cookie.Name == "" {
		cookie.Name = "passpay_sid"
	}
	if cookie.Path == "" {
		cookie.Path = "/"
	}

	return func(c *gin.Context) {
		sid, _ := c.Cookie(cookie.Name)
		sess, created := m.Get(sid)
		if created {
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     cookie.Name,
				Value:    sess.ID(),
				Path:     cookie.Path,
				MaxAge:   cookie.MaxAge,
				Secure:   cookie.Secure,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		if !sess.Initialize(c.Request.Context()) {
			sess.Sync(c.Request.Context())
		}
		c.Set(ContextSession, sess)
		c.Next()
	}
}

// CurrentSession returns the session bound by Session, or nil.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}
