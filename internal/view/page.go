package view

import (
	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/notify"
	"github.com/jwalitptl/passpay-web/internal/session"
)

// Login is the data of the login form.
type Login struct {
	Email string
	Next  string
}

// Page is the data every template receives.
type Page struct {
	Title         string
	Path          string
	User          *model.User
	Role          model.Role
	Menu          []MenuSection
	Notifications []notify.Notification
	Data          interface{}
}

// NewPage builds the frame around data for the acting session and drains
// its pending notifications. A nil session renders an anonymous page.
func NewPage(sess *session.Session, path, title string, data interface{}) *Page {
	p := &Page{Title: title, Path: path, Data: data}
	if sess == nil {
		return p
	}

	snap := sess.Snapshot()
	if snap.Authenticated {
		p.User = snap.User
		p.Role = snap.Role
		p.Menu = MenuFor(snap.Role)
	}
	p.Notifications = sess.Notifications().Drain()
	return p
}

// Current reports whether url is the page being rendered.
func (p *Page) Current(url string) bool {
	return p.Path == url
}
