package view

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/resource"
)

func TestAssetURL(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"empty", "", ""},
		{"absolute", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"plain http", "http://cdn.example.com/a.png", "http://cdn.example.com/a.png"},
		{"relative", "users/photos/1.png", "https://api.passpay.test/storage/users/photos/1.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssetURL("https://api.passpay.test/", tt.ref))
		})
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1250.75 €", Money(1250.75))
	assert.Equal(t, "-45.00 €", Money(-45))
	assert.Equal(t, "20/01/2024", Date("2024-01-20"))
	assert.Equal(t, "05/03/2024", Date("2024-03-05T10:00:00.000000Z"))
	assert.Equal(t, "N/A", Date(""))
	assert.Equal(t, "hier", Date("hier"))
	assert.Equal(t, "É", Initial("élodie"))
	assert.Equal(t, "?", Initial(" "))
}

func TestMenuFor(t *testing.T) {
	titles := func(role model.Role) []string {
		var out []string
		for _, s := range MenuFor(role) {
			for _, it := range s.Items {
				out = append(out, it.Title)
			}
		}
		return out
	}

	assert.Contains(t, titles(model.RoleSuperAdmin), "Rôles & Permissions")
	assert.NotContains(t, titles(model.RoleAdmin), "Rôles & Permissions")
	assert.Contains(t, titles(model.RoleAdmin), "Gestion Prestataires")
	assert.Contains(t, titles(model.RolePharmacy), "Types de Services")
	assert.NotContains(t, titles(model.RoleProvider), "Types de Services")
	assert.Empty(t, MenuFor(model.Role("guest")))

	patient := MenuFor(model.RolePatient)
	require.Len(t, patient, 2)
	assert.Equal(t, "/patient/history", patient[1].Items[1].URL)
}

func TestStatusOptions(t *testing.T) {
	opts := StatusOptions(resource.Query{Status: "Inactif"}, "Tous")
	require.Len(t, opts, 3)
	assert.False(t, opts[0].Selected)
	assert.True(t, opts[2].Selected)

	opts = StatusOptions(resource.Query{}, "Tous")
	assert.True(t, opts[0].Selected)
}

func TestRenderLogin(t *testing.T) {
	r, err := New("https://api.passpay.test")
	require.NoError(t, err)

	page := NewPage(nil, "/auth/login", "Connexion", map[string]string{"Email": "a@b.c", "Next": "/admin/users"})
	var buf bytes.Buffer
	require.NoError(t, r.Template().ExecuteTemplate(&buf, "login", page))

	out := buf.String()
	assert.Contains(t, out, `value="/admin/users"`)
	assert.Contains(t, out, `value="a@b.c"`)
	assert.NotContains(t, out, "Déconnexion")
}

func TestRenderListOffersOneRowAction(t *testing.T) {
	r, err := New("https://api.passpay.test")
	require.NoError(t, err)

	list := List{
		Resource: "users",
		Heading:  "Gestion des Utilisateurs",
		Columns:  []string{"Utilisateur"},
		Rows: []Row{
			{ID: 7, Cells: []Cell{{Text: "Inès"}}, Status: model.StatusInactive, Action: "restore"},
		},
		CurrentPage: 1,
		TotalPages:  3,
		Query:       resource.Query{Page: 1, Search: "in"},
	}
	page := &Page{
		Title: "Utilisateurs",
		Path:  "/admin/users",
		User:  &model.User{Name: "Root"},
		Role:  model.RoleSuperAdmin,
		Menu:  MenuFor(model.RoleSuperAdmin),
		Data:  list,
	}

	var buf bytes.Buffer
	require.NoError(t, r.Template().ExecuteTemplate(&buf, "manage_list", page))

	out := buf.String()
	assert.Contains(t, out, "/admin/users/7/restore")
	assert.NotContains(t, out, "/admin/users/7/delete")
	assert.Contains(t, out, "Suivant")
	assert.Contains(t, out, `class="active">Gestion Utilisateurs`)
}
