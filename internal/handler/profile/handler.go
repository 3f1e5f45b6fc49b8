package profile

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/passpay-web/internal/handler"
	"github.com/jwalitptl/passpay-web/internal/middleware"
	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/service/auth"
	"github.com/jwalitptl/passpay-web/pkg/errors"
	"github.com/jwalitptl/passpay-web/pkg/httputil"
	"github.com/jwalitptl/passpay-web/pkg/logger"
)

const path = "/profile"

// Profile is the slice of the identity service the profile screen calls.
type Profile interface {
	UpdateProfile(ctx context.Context, token string, req auth.ProfileUpdate) (*model.User, error)
	UpdateInfo(ctx context.Context, token string, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, token string, req auth.PasswordChange) error
	UpdatePhoto(ctx context.Context, token string, photo model.Upload) (string, error)
}

// infoForm fields are nil when the post did not carry them.
type infoForm struct {
	Name  *string `form:"name" json:"name"`
	Email *string `form:"email" json:"email"`
	Phone *string `form:"phone" json:"phone"`
}

type passwordForm struct {
	Ancien       string `form:"ancien" json:"ancien"`
	Nouveau      string `form:"nouveau" json:"nouveau"`
	Confirmation string `form:"confirmation" json:"confirmation"`
}

type Handler struct {
	svc Profile
	log *logger.Logger
}

func NewHandler(svc Profile, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{svc: svc, log: log.With("profile")}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	p := r.Group(path, middleware.Guard())
	{
		p.GET("", h.Show)
		p.POST("", h.UpdateInfo)
		p.POST("/password", h.UpdatePassword)
		p.POST("/photo", h.UpdatePhoto)
	}
}

func (h *Handler) Show(c *gin.Context) {
	handler.Render(c, http.StatusOK, "profile", "Mon Profil", nil)
}

// UpdateInfo calls only the endpoints whose fields changed: name and phone
// share one, the email has its own. Fields missing from the post keep their
// current value.
func (h *Handler) UpdateInfo(c *gin.Context) {
	sess := handler.Session(c)
	var form infoForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, errors.NewBadRequest("Formulaire invalide", err), "")
		return
	}

	current := sess.Snapshot().User
	if current == nil {
		current = &model.User{}
	}
	name, nameChanged := submitted(form.Name, current.Name)
	phone, phoneChanged := submitted(form.Phone, current.Phone)
	email, emailChanged := submitted(form.Email, current.Email)

	var patch model.UserPatch
	ctx := c.Request.Context()
	if nameChanged || phoneChanged {
		if _, err := h.svc.UpdateProfile(ctx, sess.Token(), auth.ProfileUpdate{Name: name, Phone: phone}); err != nil {
			h.fail(c, err, "Impossible de mettre à jour le profil")
			return
		}
		if nameChanged {
			patch.Name = &name
		}
		if phoneChanged {
			patch.Phone = &phone
		}
	}
	if emailChanged {
		if _, err := h.svc.UpdateInfo(ctx, sess.Token(), email); err != nil {
			// The name and phone are already saved upstream.
			_ = sess.UpdateLocalUser(ctx, patch)
			h.fail(c, err, "Impossible de mettre à jour l'email")
			return
		}
		patch.Email = &email
	}

	if patch.Empty() {
		sess.Notifications().Info("Profil", "Aucune modification")
		h.done(c)
		return
	}
	if err := sess.UpdateLocalUser(ctx, patch); err != nil {
		h.log.Warn(err, "persisting local profile patch failed")
	}
	sess.Notifications().Success("Profil mis à jour", "Vos informations ont été mises à jour avec succès.")
	h.done(c)
}

func (h *Handler) UpdatePassword(c *gin.Context) {
	sess := handler.Session(c)
	var form passwordForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, errors.NewBadRequest("Formulaire invalide", err), "")
		return
	}

	if form.Nouveau != form.Confirmation {
		h.fail(c, errors.Validation("Les mots de passe ne correspondent pas"), "")
		return
	}
	err := h.svc.UpdatePassword(c.Request.Context(), sess.Token(), auth.PasswordChange{Ancien: form.Ancien, Nouveau: form.Nouveau})
	if err != nil {
		h.fail(c, err, "Impossible de modifier le mot de passe")
		return
	}
	sess.Notifications().Success("Mot de passe modifié", "Votre mot de passe a été modifié avec succès.")
	h.done(c)
}

// UpdatePhoto patches the cached user with the returned URL, then refreshes
// the identity so every derived field follows.
func (h *Handler) UpdatePhoto(c *gin.Context) {
	sess := handler.Session(c)
	fh, err := c.FormFile("photo")
	if err != nil {
		h.fail(c, errors.Validation("Veuillez sélectionner une photo"), "")
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, errors.NewBadRequest("Fichier illisible", err), "")
		return
	}
	content, err := io.ReadAll(f)
	f.Close()
	if err != nil || len(content) == 0 {
		h.fail(c, errors.NewBadRequest("Fichier illisible", err), "")
		return
	}

	ctx := c.Request.Context()
	photoURL, err := h.svc.UpdatePhoto(ctx, sess.Token(), model.Upload{Name: fh.Filename, Content: content})
	if err != nil {
		h.fail(c, err, "Impossible de mettre à jour la photo")
		return
	}
	if err := sess.UpdateLocalUser(ctx, model.UserPatch{Photo: &photoURL}); err != nil {
		h.log.Warn(err, "persisting local photo patch failed")
	}
	if err := sess.Refresh(ctx); err != nil {
		h.log.Warn(err, "identity refresh after photo upload failed")
	}
	sess.Notifications().Success("Photo mise à jour", "Votre photo de profil a été mise à jour.")
	h.done(c)
}

// submitted returns the trimmed value of v, or current when v is absent, and
// whether it differs from current.
func submitted(v *string, current string) (string, bool) {
	if v == nil {
		return current, false
	}
	next := strings.TrimSpace(*v)
	return next, next != current
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	sess := handler.Session(c)
	if httputil.WantsJSON(c) {
		httputil.RespondWithError(c, err)
		return
	}
	sess.Notifications().Error("Erreur", errors.UserMessage(err, fallback))
	handler.SeeOther(c, path)
}

func (h *Handler) done(c *gin.Context) {
	sess := handler.Session(c)
	if httputil.WantsJSON(c) {
		notes := sess.Notifications().Drain()
		msg := ""
		if len(notes) > 0 {
			msg = notes[len(notes)-1].Message
		}
		httputil.RespondWithSuccess(c, msg, sess.Snapshot().User)
		return
	}
	handler.SeeOther(c, path)
}
