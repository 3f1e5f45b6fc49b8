package manage

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/passpay-web/internal/listview"
	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/view"
)

const patientDocumentSlots = 3

// Patients describes the patient management screen.
type Patients struct {
	Asset func(ref string) string
	// Accounts lists the user accounts a new patient can be attached to.
	Accounts AccountLister
}

var patientTexts = Texts{
	Title:             "Patients",
	Heading:           "Gestion des patients",
	NewLabel:          "Nouveau patient",
	SearchPlaceholder: "Rechercher un patient...",
	DeleteConfirm:     "Êtes-vous sûr de vouloir supprimer ce patient ?",
	StatusAll:         "Tous les statuts",
	DetailTitle:       "Détails du patient",
	CreateTitle:       "Créer un patient",
	EditTitle:         "Modifier le patient",
	DetailError:       "Impossible de charger les détails",
	Stats: view.StatLabels{
		Total:    "Total patients",
		Active:   "Patients actifs",
		Inactive: "Patients inactifs",
		New:      "Nouveaux ce mois",
	},
	Messages: listview.Messages{
		LoadError:    "Impossible de charger les patients",
		Created:      "Patient créé",
		CreatedText:  "Le patient a été créé avec succès.",
		CreateError:  "Impossible de créer le patient",
		Updated:      "Patient modifié",
		UpdatedText:  "Le patient a été modifié avec succès.",
		UpdateError:  "Impossible de modifier le patient",
		Deleted:      "Patient supprimé",
		DeletedText:  "Le patient a été supprimé avec succès.",
		DeleteError:  "Impossible de supprimer le patient",
		Restored:     "Patient restauré",
		RestoredText: "Le patient a été restauré avec succès.",
		RestoreError: "Impossible de restaurer le patient",
	},
}

var genderLabels = map[string]string{
	"male":   "Homme",
	"female": "Femme",
}

func genderLabel(g string) string {
	if l, ok := genderLabels[g]; ok {
		return l
	}
	return orNA(g)
}

var bloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

func bloodOptions(current string) []view.Option {
	pairs := make([]string, 0, len(bloodGroups)*2)
	for _, g := range bloodGroups {
		pairs = append(pairs, g, g)
	}
	return options(current, pairs...)
}

func (r Patients) Texts() Texts { return patientTexts }

func (r Patients) Columns() []string {
	return []string{"Patient", "Contact", "Genre", "Groupe sanguin", "Statut", "Créé le"}
}

func (r Patients) asset(ref string) string {
	if r.Asset == nil {
		return ref
	}
	return r.Asset(ref)
}

func (r Patients) Cells(p model.Patient) []view.Cell {
	return []view.Cell{
		{Text: p.FullName(), Sub: view.Date(p.BirthDate), Image: r.asset(p.Photo)},
		{Text: orNA(p.Email), Sub: p.Phone},
		{Text: genderLabel(p.Gender)},
		{Text: orNA(p.Blood())},
		{Text: p.Status},
		{Text: view.Date(p.CreatedAt)},
	}
}

func measure(f *float64, unit string) string {
	if f == nil {
		return "N/A"
	}
	return model.FormatFloat(*f) + " " + unit
}

func (r Patients) Detail(p model.Patient) view.Detail {
	d := view.Detail{
		Heading: p.FullName(),
		Photo:   r.asset(p.Photo),
		Initial: view.Initial(p.FirstName),
		Fields: []view.Field{
			{Label: "Email", Value: orNA(p.Email)},
			{Label: "Téléphone", Value: orNA(p.Phone)},
			{Label: "Date de naissance", Value: view.Date(p.BirthDate)},
			{Label: "Genre", Value: genderLabel(p.Gender)},
			{Label: "Groupe sanguin", Value: orNA(p.Blood())},
			{Label: "Taille", Value: measure(p.Height, "cm")},
			{Label: "Poids", Value: measure(p.Weight, "kg")},
			{Label: "Adresse", Value: orNA(p.Address)},
			{Label: "Statut", Value: p.Status},
		},
	}
	for _, doc := range p.Documents {
		d.Documents = append(d.Documents, view.DocumentLink{
			Name: doc.DisplayName(),
			Type: doc.Type,
			URL:  r.asset(doc.Ref()),
			Date: view.Date(firstNonEmpty(doc.UploadedAt, doc.AddedOn)),
		})
	}
	return d
}

func (r Patients) fields(p model.Patient) []view.FormField {
	height, weight := "", ""
	if p.Height != nil {
		height = model.FormatFloat(*p.Height)
	}
	if p.Weight != nil {
		weight = model.FormatFloat(*p.Weight)
	}
	return []view.FormField{
		{Name: "first_name", Label: "Prénom", Type: "text", Value: p.FirstName, Required: true},
		{Name: "last_name", Label: "Nom", Type: "text", Value: p.LastName, Required: true},
		{Name: "birth_date", Label: "Date de naissance", Type: "date", Value: p.BirthDate, Required: true},
		{Name: "gender", Label: "Genre", Type: "select", Value: p.Gender, Placeholder: "Sélectionner", Required: true,
			Options: options(p.Gender, "male", "Homme", "female", "Femme")},
		{Name: "blood_group", Label: "Groupe sanguin", Type: "select", Value: p.Blood(), Placeholder: "Sélectionner",
			Options: bloodOptions(p.Blood())},
		{Name: "height", Label: "Taille (cm)", Type: "number", Value: height},
		{Name: "weight", Label: "Poids (kg)", Type: "number", Value: weight},
		{Name: "address", Label: "Adresse", Type: "textarea", Value: p.Address},
	}
}

func (r Patients) CreateForm(c *gin.Context) view.Form {
	account := view.FormField{Name: "user_id", Label: "Utilisateur", Type: "select", Placeholder: "Sélectionner un utilisateur", Required: true,
		Options: accountOptions(c, r.Accounts, model.RolePatient)}
	return view.Form{
		Multipart:     true,
		Fields:        append([]view.FormField{account}, r.fields(model.Patient{})...),
		DocumentSlots: patientDocumentSlots,
	}
}

func (r Patients) EditForm(p model.Patient) view.Form {
	return view.Form{
		Multipart:     true,
		Fields:        r.fields(p),
		DocumentSlots: patientDocumentSlots,
	}
}

func (r Patients) ParseCreate(c *gin.Context) (model.CreatePatientRequest, error) {
	var req model.CreatePatientRequest
	var err error
	if req.UserID, err = optionalID(c, "user_id", "utilisateur"); err != nil {
		return req, err
	}
	if req.Height, err = optionalFloat(c, "height", "taille"); err != nil {
		return req, err
	}
	if req.Weight, err = optionalFloat(c, "weight", "poids"); err != nil {
		return req, err
	}
	if req.Documents, err = documents(c, patientDocumentSlots); err != nil {
		return req, err
	}
	req.FirstName = trimmed(c, "first_name")
	req.LastName = trimmed(c, "last_name")
	req.BirthDate = trimmed(c, "birth_date")
	req.Gender = trimmed(c, "gender")
	req.BloodGroup = trimmed(c, "blood_group")
	req.Address = trimmed(c, "address")
	return req, nil
}

func (r Patients) ParseUpdate(c *gin.Context, p model.Patient) (model.UpdatePatientRequest, error) {
	var req model.UpdatePatientRequest
	var err error
	if req.Height, err = changedFloat(c, "height", "taille", p.Height); err != nil {
		return req, err
	}
	if req.Weight, err = changedFloat(c, "weight", "poids", p.Weight); err != nil {
		return req, err
	}
	if req.Documents, err = documents(c, patientDocumentSlots); err != nil {
		return req, err
	}
	req.FirstName = changed(c, "first_name", p.FirstName)
	req.LastName = changed(c, "last_name", p.LastName)
	req.BirthDate = changed(c, "birth_date", p.BirthDate)
	req.Gender = changed(c, "gender", p.Gender)
	req.BloodGroup = changed(c, "blood_group", p.Blood())
	req.Address = changed(c, "address", p.Address)
	return req, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
