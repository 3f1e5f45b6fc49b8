package resource

import (
	"strconv"
	"strings"

	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/pkg/apiclient"
)

// StatusAll is the filter sentinel meaning "no status filter". It is never
// sent to the backend.
const StatusAll = "all"

// Query is the filter tuple of a list screen.
type Query struct {
	Page   int    `form:"page" json:"page,omitempty"`
	Search string `form:"search" json:"search,omitempty"`
	Status string `form:"status" json:"status,omitempty"`
}

// Normalize folds equivalent queries onto one canonical form: the "all"
// sentinel and blank values become absent.
func (q Query) Normalize() Query {
	q.Search = strings.TrimSpace(q.Search)
	q.Status = strings.TrimSpace(q.Status)
	if strings.EqualFold(q.Status, StatusAll) {
		q.Status = ""
	}
	if q.Page < 0 {
		q.Page = 0
	}
	return q
}

// Key identifies the query for staleness checks.
func (q Query) Key() string {
	q = q.Normalize()
	return strconv.Itoa(q.Page) + "\x00" + q.Search + "\x00" + q.Status
}

// StatusOrAll is the value a status select should show.
func (q Query) StatusOrAll() string {
	if n := q.Normalize(); n.Status != "" {
		return n.Status
	}
	return StatusAll
}

func (q Query) params() apiclient.Params {
	q = q.Normalize()
	p := apiclient.Params{
		"search": q.Search,
		"status": q.Status,
	}
	if q.Page > 0 {
		p["page"] = strconv.Itoa(q.Page)
	}
	return p
}

// Page is one page of a management list.
type Page[T any] struct {
	Items       []T         `json:"items"`
	CurrentPage int         `json:"current_page"`
	TotalPages  int         `json:"last_page"`
	PerPage     int         `json:"per_page"`
	Stats       model.Stats `json:"stats"`
}
