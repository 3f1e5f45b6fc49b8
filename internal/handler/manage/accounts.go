package manage

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/passpay-web/internal/handler"
	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/resource"
	"github.com/jwalitptl/passpay-web/internal/view"
	"github.com/jwalitptl/passpay-web/pkg/errors"
)

// AccountLister is the user listing the patient and provider forms pick
// their account from. The user service satisfies it.
type AccountLister interface {
	List(ctx context.Context, token string, q resource.Query) (*resource.Page[model.User], error)
}

// accountOptions lists the active accounts, those holding role first. A
// failed load notifies and leaves the select empty.
func accountOptions(c *gin.Context, accounts AccountLister, role model.Role) []view.Option {
	if accounts == nil {
		return nil
	}
	sess := handler.Session(c)
	page, err := accounts.List(c.Request.Context(), sess.Token(), resource.Query{Status: model.StatusActive})
	if err != nil {
		sess.Notifications().Error("Erreur", errors.UserMessage(err, "Impossible de charger les utilisateurs"))
		return nil
	}

	var first, rest []view.Option
	for _, u := range page.Items {
		opt := view.Option{Value: strconv.FormatInt(u.ID, 10), Label: u.Name + " (" + u.Email + ")"}
		if userRole(u) == role {
			first = append(first, opt)
		} else {
			rest = append(rest, opt)
		}
	}
	return append(first, rest...)
}
