package manage

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/passpay-web/internal/listview"
	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/view"
)

// Providers describes the provider management screen. Providers travel as
// JSON, so the form carries no uploads.
type Providers struct {
	Asset    func(ref string) string
	Accounts AccountLister
}

var providerTexts = Texts{
	Title:             "Prestataires",
	Heading:           "Gestion des prestataires",
	NewLabel:          "Nouveau prestataire",
	SearchPlaceholder: "Rechercher un prestataire...",
	DeleteConfirm:     "Êtes-vous sûr de vouloir supprimer ce prestataire ?",
	StatusAll:         "Tous les statuts",
	DetailTitle:       "Détails du prestataire",
	CreateTitle:       "Créer un prestataire",
	EditTitle:         "Modifier le prestataire",
	DetailError:       "Impossible de charger les détails",
	Stats: view.StatLabels{
		Total:    "Total prestataires",
		Active:   "Prestataires actifs",
		Inactive: "Prestataires inactifs",
		New:      "Nouveaux ce mois",
	},
	Messages: listview.Messages{
		LoadError:    "Impossible de charger les prestataires",
		Created:      "Succès",
		CreatedText:  "Prestataire créé avec succès",
		CreateError:  "Impossible de créer le prestataire",
		Updated:      "Succès",
		UpdatedText:  "Prestataire mis à jour avec succès",
		UpdateError:  "Impossible de mettre à jour le prestataire",
		Deleted:      "Succès",
		DeletedText:  "Prestataire supprimé avec succès",
		DeleteError:  "Impossible de supprimer le prestataire",
		Restored:     "Succès",
		RestoredText: "Prestataire restauré avec succès",
		RestoreError: "Impossible de restaurer le prestataire",
	},
}

func (r Providers) Texts() Texts { return providerTexts }

func (r Providers) Columns() []string {
	return []string{"Nom", "Type", "Contact", "Statut", "Date création"}
}

func (r Providers) asset(ref string) string {
	if r.Asset == nil {
		return ref
	}
	return r.Asset(ref)
}

func (r Providers) Cells(p model.Provider) []view.Cell {
	return []view.Cell{
		{Text: p.Name, Sub: p.Director, Image: r.asset(firstNonEmpty(p.ProfileImage, p.Photo))},
		{Text: orNA(p.Type)},
		{Text: orNA(p.Email), Sub: p.Phone},
		{Text: p.Status},
		{Text: view.Date(firstNonEmpty(p.CreationDate, p.CreatedAt))},
	}
}

func (r Providers) Detail(p model.Provider) view.Detail {
	d := view.Detail{
		Heading: p.Name,
		Photo:   r.asset(firstNonEmpty(p.ProfileImage, p.Photo)),
		Initial: view.Initial(p.Name),
		Fields: []view.Field{
			{Label: "Directeur", Value: orNA(p.Director)},
			{Label: "Type", Value: orNA(p.Type)},
			{Label: "Email", Value: orNA(p.Email)},
			{Label: "Téléphone", Value: orNA(p.Phone)},
			{Label: "Adresse", Value: orNA(p.Address)},
			{Label: "Numéro d'agrément", Value: orNA(p.ApprovalNumber)},
			{Label: "Date de création", Value: view.Date(p.CreationDate)},
			{Label: "Spécialités", Value: orNA(strings.Join(p.Specialties, ", "))},
			{Label: "Description", Value: orNA(p.Description)},
			{Label: "Statut", Value: p.Status},
		},
	}
	for _, doc := range p.Documents {
		d.Documents = append(d.Documents, view.DocumentLink{
			Name: doc.DisplayName(),
			Type: doc.Type,
			URL:  r.asset(doc.Ref()),
			Date: view.Date(firstNonEmpty(doc.AddedOn, doc.UploadedAt)),
		})
	}
	return d
}

func typeOptions(current string) []view.Option {
	pairs := make([]string, 0, len(model.ProviderTypes)*2)
	for _, t := range model.ProviderTypes {
		pairs = append(pairs, t, t)
	}
	return options(current, pairs...)
}

func (r Providers) fields(p model.Provider) []view.FormField {
	return []view.FormField{
		{Name: "name", Label: "Nom", Type: "text", Value: p.Name, Required: true},
		{Name: "director", Label: "Directeur", Type: "text", Value: p.Director},
		{Name: "type", Label: "Type", Type: "select", Value: p.Type, Placeholder: "Sélectionner un type", Required: true, Options: typeOptions(p.Type)},
		{Name: "email", Label: "Email", Type: "email", Value: p.Email, Required: true},
		{Name: "phone", Label: "Téléphone", Type: "tel", Value: p.Phone},
		{Name: "address", Label: "Adresse", Type: "text", Value: p.Address},
		{Name: "approval_number", Label: "Numéro d'agrément", Type: "text", Value: p.ApprovalNumber},
		{Name: "creation_date", Label: "Date de création", Type: "date", Value: p.CreationDate, Required: true},
		{Name: "specialties", Label: "Spécialités", Type: "text", Value: strings.Join(p.Specialties, ", "), Placeholder: "Séparées par des virgules"},
		{Name: "status", Label: "Statut", Type: "select", Value: p.Status, Placeholder: "Sélectionner",
			Options: options(p.Status, model.StatusActive, "Actif", model.StatusInactive, "Inactif")},
		{Name: "description", Label: "Description", Type: "textarea", Value: p.Description},
	}
}

func (r Providers) CreateForm(c *gin.Context) view.Form {
	account := view.FormField{Name: "user_id", Label: "Utilisateur", Type: "select", Placeholder: "Sélectionner un utilisateur", Required: true,
		Options: accountOptions(c, r.Accounts, model.RoleProvider)}
	return view.Form{
		Fields: append([]view.FormField{account}, r.fields(model.Provider{Status: model.StatusActive})...),
	}
}

func (r Providers) EditForm(p model.Provider) view.Form {
	return view.Form{Fields: r.fields(p)}
}

func specialties(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (r Providers) ParseCreate(c *gin.Context) (model.CreateProviderRequest, error) {
	userID, err := optionalID(c, "user_id", "utilisateur")
	if err != nil {
		return model.CreateProviderRequest{}, err
	}
	return model.CreateProviderRequest{
		UserID:         userID,
		Name:           trimmed(c, "name"),
		Director:       trimmed(c, "director"),
		Type:           trimmed(c, "type"),
		Email:          trimmed(c, "email"),
		Phone:          trimmed(c, "phone"),
		Address:        trimmed(c, "address"),
		Description:    trimmed(c, "description"),
		ApprovalNumber: trimmed(c, "approval_number"),
		CreationDate:   trimmed(c, "creation_date"),
		Specialties:    specialties(c.PostForm("specialties")),
		Status:         trimmed(c, "status"),
	}, nil
}

func (r Providers) ParseUpdate(c *gin.Context, p model.Provider) (model.UpdateProviderRequest, error) {
	req := model.UpdateProviderRequest{
		Name:           changed(c, "name", p.Name),
		Director:       changed(c, "director", p.Director),
		Type:           changed(c, "type", p.Type),
		Email:          changed(c, "email", p.Email),
		Phone:          changed(c, "phone", p.Phone),
		Address:        changed(c, "address", p.Address),
		Description:    changed(c, "description", p.Description),
		ApprovalNumber: changed(c, "approval_number", p.ApprovalNumber),
		CreationDate:   changed(c, "creation_date", p.CreationDate),
		Status:         changed(c, "status", p.Status),
	}
	if raw, ok := c.GetPostForm("specialties"); ok {
		if next := specialties(raw); strings.Join(next, ",") != strings.Join(p.Specialties, ",") {
			if next == nil {
				next = []string{}
			}
			req.Specialties = &next
		}
	}
	return req, nil
}
