package view

import (
	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/resource"
)

// The management screens share one set of templates; each resource
// describes itself through these types.

type Option struct {
	Value    string
	Label    string
	Selected bool
}

type Cell struct {
	Text  string
	Sub   string
	Image string
}

type Row struct {
	ID     int64
	Cells  []Cell
	Status string
	Active bool
	// Action is the single row transition offered, "delete" or "restore".
	Action string
}

type StatLabels struct {
	Total, Active, Inactive, New string
}

type List struct {
	Resource          string
	Heading           string
	NewLabel          string
	SearchPlaceholder string
	DeleteConfirm     string
	Columns           []string
	Rows              []Row
	Stats             model.Stats
	Labels            StatLabels
	Query             resource.Query
	StatusOptions     []Option
	CurrentPage       int
	TotalPages        int
}

// Pages lists the page numbers of the pager.
func (l List) Pages() []int {
	return seq(1, max(l.TotalPages, 1))
}

type Field struct {
	Label string
	Value string
}

type DocumentLink struct {
	Name string
	Type string
	URL  string
	Date string
}

type Detail struct {
	Resource  string
	Heading   string
	ID        int64
	Photo     string
	Initial   string
	Fields    []Field
	Documents []DocumentLink
	Status    string
	Action    string
}

type FormField struct {
	Name        string
	Label       string
	Type        string
	Value       string
	Placeholder string
	Required    bool
	Options     []Option
}

type Form struct {
	Resource  string
	Heading   string
	Action    string
	Submit    string
	Multipart bool
	Fields    []FormField
	// DocumentSlots is the number of document upload rows offered.
	DocumentSlots int
}

// Slots enumerates the document rows of a form.
func (f Form) Slots() []int {
	return seq(0, f.DocumentSlots-1)
}

// StatusOptions builds the status filter select for the current query.
func StatusOptions(q resource.Query, allLabel string) []Option {
	current := q.StatusOrAll()
	opts := []Option{
		{Value: resource.StatusAll, Label: allLabel},
		{Value: model.StatusActive, Label: "Actifs"},
		{Value: model.StatusInactive, Label: "Inactifs"},
	}
	for i := range opts {
		opts[i].Selected = opts[i].Value == current
	}
	return opts
}
