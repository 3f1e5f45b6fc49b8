package model

import "strconv"

// Document is an uploaded file attached to a patient or provider record.
type Document struct {
	ID         int64  `json:"id"`
	Title      string `json:"title,omitempty"`
	Name       string `json:"name,omitempty"`
	Type       string `json:"type"`
	FilePath   string `json:"file_path,omitempty"`
	Path       string `json:"path,omitempty"`
	Status     string `json:"status,omitempty"`
	UploadedAt string `json:"uploaded_at,omitempty"`
	AddedOn    string `json:"added_on,omitempty"`
}

// DisplayName prefers the title patients carry over the provider-style name.
func (d Document) DisplayName() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

func (d Document) Ref() string {
	if d.FilePath != "" {
		return d.FilePath
	}
	return d.Path
}

type Patient struct {
	ID                     int64      `json:"id"`
	UserID                 int64      `json:"user_id,omitempty"`
	FirstName              string     `json:"first_name"`
	LastName               string     `json:"last_name"`
	Email                  string     `json:"email,omitempty"`
	Phone                  string     `json:"phone,omitempty"`
	BirthDate              string     `json:"birth_date,omitempty"`
	Gender                 string     `json:"gender,omitempty"`
	BloodGroup             string     `json:"blood_group,omitempty"`
	BloodType              string     `json:"blood_type,omitempty"`
	Height                 *float64   `json:"height,omitempty"`
	Weight                 *float64   `json:"weight,omitempty"`
	Address                string     `json:"address,omitempty"`
	Profession             string     `json:"profession,omitempty"`
	MaritalStatus          string     `json:"marital_status,omitempty"`
	SocialSecurityNumber   string     `json:"social_security_number,omitempty"`
	Allergies              string     `json:"allergies,omitempty"`
	ChronicDiseases        string     `json:"chronic_diseases,omitempty"`
	CurrentMedications     string     `json:"current_medications,omitempty"`
	EmergencyContactName   string     `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone  string     `json:"emergency_contact_phone,omitempty"`
	EmergencyContactRelate string     `json:"emergency_contact_relation,omitempty"`
	Photo                  string     `json:"photo,omitempty"`
	Status                 string     `json:"status"`
	CreatedAt              string     `json:"created_at,omitempty"`
	Documents              []Document `json:"documents,omitempty"`
	Wallet                 *Wallet    `json:"wallet,omitempty"`
}

func (p Patient) Identifier() int64 { return p.ID }
func (p Patient) State() string     { return p.Status }

func (p Patient) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Blood returns the blood group under either key the backend has used.
func (p Patient) Blood() string {
	if p.BloodGroup != "" {
		return p.BloodGroup
	}
	return p.BloodType
}

// DocumentUpload is one document attached to a patient form.
type DocumentUpload struct {
	Title string
	Type  string
	File  Upload
}

// CreatePatientRequest is the canonical patient creation contract.
type CreatePatientRequest struct {
	UserID     int64    `label:"utilisateur" validate:"required,gt=0"`
	FirstName  string   `label:"prénom" validate:"required"`
	LastName   string   `label:"nom" validate:"required"`
	BirthDate  string   `label:"date de naissance" validate:"required"`
	Gender     string   `label:"genre" validate:"required,oneof=male female"`
	BloodGroup string   `label:"groupe sanguin"`
	Height     *float64 `label:"taille" validate:"omitempty,gt=0"`
	Weight     *float64 `label:"poids" validate:"omitempty,gt=0"`
	Address    string
	Documents  []DocumentUpload
}

type UpdatePatientRequest struct {
	FirstName  *string  `label:"prénom" validate:"omitempty,min=1"`
	LastName   *string  `label:"nom" validate:"omitempty,min=1"`
	BirthDate  *string  `label:"date de naissance"`
	Gender     *string  `label:"genre" validate:"omitempty,oneof=male female"`
	BloodGroup *string  `label:"groupe sanguin"`
	Height     *float64 `label:"taille" validate:"omitempty,gt=0"`
	Weight     *float64 `label:"poids" validate:"omitempty,gt=0"`
	Address    *string
	Documents  []DocumentUpload
}

// FormatFloat renders a measurement without trailing zeros.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
