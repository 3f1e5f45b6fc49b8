package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/passpay-web/internal/handler"
	"github.com/jwalitptl/passpay-web/internal/notify"
	"github.com/jwalitptl/passpay-web/internal/view"
	"github.com/jwalitptl/passpay-web/pkg/httputil"
)

const homePath = "/dashboard"

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

type Handler struct {
	limit gin.HandlerFunc
}

// NewHandler builds the login screen. limit, when set, guards login posts.
func NewHandler(limit gin.HandlerFunc) *Handler {
	return &Handler{limit: limit}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.GET("/login", h.LoginPage)
		if h.limit != nil {
			auth.POST("/login", h.limit, h.Login)
		} else {
			auth.POST("/login", h.Login)
		}
		auth.POST("/logout", h.Logout)
	}
}

func (h *Handler) LoginPage(c *gin.Context) {
	sess := handler.Session(c)
	next := c.Query("next")
	if sess.Authenticated() {
		handler.SeeOther(c, handler.SafeNext(next, homePath))
		return
	}
	handler.Render(c, http.StatusOK, "login", "Connexion", view.Login{Next: next})
}

// Login leaves the notification to the session: success greets the user,
// failure carries the backend message.
func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		handler.Render(c, http.StatusBadRequest, "login", "Connexion", view.Login{})
		return
	}

	sess := handler.Session(c)
	if !sess.Login(c.Request.Context(), form.Email, form.Password) {
		if httputil.WantsJSON(c) {
			c.JSON(http.StatusUnauthorized, httputil.Response{Status: false, Message: lastMessage(sess.Notifications().Drain())})
			return
		}
		handler.Render(c, http.StatusOK, "login", "Connexion", view.Login{Email: form.Email, Next: form.Next})
		return
	}

	target := handler.SafeNext(form.Next, homePath)
	if httputil.WantsJSON(c) {
		httputil.RespondWithSuccess(c, "Connexion réussie", gin.H{"redirect": target})
		return
	}
	handler.SeeOther(c, target)
}

func (h *Handler) Logout(c *gin.Context) {
	sess := handler.Session(c)
	sess.Logout(c.Request.Context())

	target, _ := sess.TakeNavigation()
	if httputil.WantsJSON(c) {
		httputil.RespondWithSuccess(c, "Déconnexion réussie", gin.H{"redirect": target})
		return
	}
	handler.SeeOther(c, target)
}

func lastMessage(notes []notify.Notification) string {
	if len(notes) == 0 {
		return "Identifiants invalides"
	}
	return notes[len(notes)-1].Message
}
