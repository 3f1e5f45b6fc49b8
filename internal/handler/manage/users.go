package manage

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/passpay-web/internal/listview"
	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/view"
)

// Users describes the user management screen.
type Users struct {
	// Asset resolves a stored photo reference to a URL.
	Asset func(ref string) string
}

var userTexts = Texts{
	Title:             "Utilisateurs",
	Heading:           "Gestion des utilisateurs",
	NewLabel:          "Nouvel utilisateur",
	SearchPlaceholder: "Rechercher par nom ou email...",
	DeleteConfirm:     "Êtes-vous sûr de vouloir supprimer cet utilisateur ?",
	StatusAll:         "Tous les statuts",
	DetailTitle:       "Détails de l'utilisateur",
	CreateTitle:       "Créer un utilisateur",
	EditTitle:         "Modifier l'utilisateur",
	DetailError:       "Impossible de charger les détails",
	Stats: view.StatLabels{
		Total:    "Total utilisateurs",
		Active:   "Utilisateurs actifs",
		Inactive: "Utilisateurs inactifs",
		New:      "Nouveaux ce mois",
	},
	Messages: listview.Messages{
		LoadError:    "Impossible de charger les utilisateurs",
		Created:      "Utilisateur créé",
		CreatedText:  "L'utilisateur a été créé avec succès.",
		CreateError:  "Impossible de créer l'utilisateur",
		Updated:      "Utilisateur modifié",
		UpdatedText:  "L'utilisateur a été modifié avec succès.",
		UpdateError:  "Impossible de modifier l'utilisateur",
		Deleted:      "Utilisateur supprimé",
		DeletedText:  "L'utilisateur a été supprimé avec succès.",
		DeleteError:  "Impossible de supprimer l'utilisateur",
		Restored:     "Utilisateur restauré",
		RestoredText: "L'utilisateur a été restauré avec succès.",
		RestoreError: "Impossible de restaurer l'utilisateur",
	},
}

func (r Users) Texts() Texts { return userTexts }

func (r Users) Columns() []string {
	return []string{"Utilisateur", "Email", "Téléphone", "Rôle", "Statut", "Créé le"}
}

func (r Users) asset(ref string) string {
	if r.Asset == nil {
		return ref
	}
	return r.Asset(ref)
}

// userRole prefers the flat role and falls back to the first role
// relation.
func userRole(u model.User) model.Role {
	if u.Role != "" {
		return model.Role(u.Role)
	}
	if len(u.Roles) > 0 {
		return model.Role(u.Roles[0].Name)
	}
	return ""
}

func (r Users) Cells(u model.User) []view.Cell {
	return []view.Cell{
		{Text: u.Name, Image: r.asset(u.Photo)},
		{Text: u.Email},
		{Text: orNA(u.Phone)},
		{Text: userRole(u).Label()},
		{Text: u.Status},
		{Text: view.Date(u.CreatedAt)},
	}
}

func (r Users) Detail(u model.User) view.Detail {
	return view.Detail{
		Heading: u.Name,
		Photo:   r.asset(u.Photo),
		Initial: view.Initial(u.Name),
		Fields: []view.Field{
			{Label: "Email", Value: u.Email},
			{Label: "Téléphone", Value: orNA(u.Phone)},
			{Label: "Rôle", Value: userRole(u).Label()},
			{Label: "Statut", Value: u.Status},
			{Label: "Créé le", Value: view.Date(u.CreatedAt)},
		},
	}
}

func roleOptions(current string) []view.Option {
	pairs := make([]string, 0, len(model.Roles)*2)
	for _, role := range model.Roles {
		pairs = append(pairs, string(role), role.Label())
	}
	return options(current, pairs...)
}

func (r Users) CreateForm(*gin.Context) view.Form {
	return view.Form{
		Multipart: true,
		Fields: []view.FormField{
			{Name: "name", Label: "Nom", Type: "text", Required: true},
			{Name: "email", Label: "Email", Type: "email", Required: true},
			{Name: "password", Label: "Mot de passe", Type: "password", Required: true},
			{Name: "phone", Label: "Téléphone", Type: "tel", Required: true},
			{Name: "role", Label: "Rôle", Type: "select", Placeholder: "Sélectionner un rôle", Required: true, Options: roleOptions("")},
			{Name: "photo", Label: "Photo", Type: "file"},
		},
	}
}

func (r Users) EditForm(u model.User) view.Form {
	role := string(userRole(u))
	return view.Form{
		Multipart: true,
		Fields: []view.FormField{
			{Name: "name", Label: "Nom", Type: "text", Value: u.Name},
			{Name: "email", Label: "Email", Type: "email", Value: u.Email},
			{Name: "password", Label: "Mot de passe", Type: "password", Placeholder: "Laisser vide pour conserver"},
			{Name: "phone", Label: "Téléphone", Type: "tel", Value: u.Phone},
			{Name: "role", Label: "Rôle", Type: "select", Value: role, Options: roleOptions(role)},
			{Name: "photo", Label: "Photo", Type: "file"},
		},
	}
}

func (r Users) ParseCreate(c *gin.Context) (model.CreateUserRequest, error) {
	photo, err := upload(c, "photo")
	if err != nil {
		return model.CreateUserRequest{}, err
	}
	return model.CreateUserRequest{
		Name:     trimmed(c, "name"),
		Email:    trimmed(c, "email"),
		Password: c.PostForm("password"),
		Phone:    trimmed(c, "phone"),
		Role:     trimmed(c, "role"),
		Photo:    photo,
	}, nil
}

// ParseUpdate leaves the password untouched when the field is blank.
func (r Users) ParseUpdate(c *gin.Context, u model.User) (model.UpdateUserRequest, error) {
	photo, err := upload(c, "photo")
	if err != nil {
		return model.UpdateUserRequest{}, err
	}
	req := model.UpdateUserRequest{
		Name:  changed(c, "name", u.Name),
		Email: changed(c, "email", u.Email),
		Phone: changed(c, "phone", u.Phone),
		Role:  changed(c, "role", string(userRole(u))),
		Photo: photo,
	}
	if pw := c.PostForm("password"); pw != "" {
		req.Password = &pw
	}
	return req, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
