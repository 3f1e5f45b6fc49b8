package view

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/jwalitptl/passpay-web/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer owns the parsed page set. Gin renders through it once it is
// installed with engine.SetHTMLTemplate(r.Template()).
type Renderer struct {
	baseURL string
	tmpl    *template.Template
}

func New(baseURL string) (*Renderer, error) {
	r := &Renderer{baseURL: strings.TrimRight(baseURL, "/")}

	tmpl, err := template.New("passpay").Funcs(r.funcs()).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

func (r *Renderer) Template() *template.Template {
	return r.tmpl
}

func (r *Renderer) AssetURL(ref string) string {
	return AssetURL(r.baseURL, ref)
}

// AssetURL resolves a stored file reference. Absolute references pass
// through, relative ones live under the backend's /storage tree.
func AssetURL(baseURL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http") {
		return ref
	}
	return strings.TrimRight(baseURL, "/") + "/storage/" + strings.TrimLeft(ref, "/")
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"asset":   r.AssetURL,
		"money":   Money,
		"date":    Date,
		"initial": Initial,
		"active":  model.Active,
		"add":     func(a, b int) int { return a + b },
		"sub":     func(a, b int) int { return a - b },
		"seq":     seq,
	}
}

// Money renders an amount the way every dashboard card does.
func Money(v float64) string {
	return fmt.Sprintf("%.2f €", v)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Date renders a backend timestamp as a French short date, or N/A.
func Date(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "N/A"
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return s
}

// Initial is the avatar fallback letter.
func Initial(name string) string {
	for _, r := range strings.TrimSpace(name) {
		return strings.ToUpper(string(r))
	}
	return "?"
}

func seq(from, to int) []int {
	if to < from {
		return nil
	}
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
