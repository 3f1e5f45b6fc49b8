package model

// Provider types offered by the creation form.
var ProviderTypes = []string{"Clinique", "Hôpital", "Centre médical", "Cabinet médical", "Laboratoire"}

type Provider struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id,omitempty"`
	Name           string     `json:"name"`
	Director       string     `json:"director,omitempty"`
	Type           string     `json:"type"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Address        string     `json:"address,omitempty"`
	Description    string     `json:"description,omitempty"`
	ApprovalNumber string     `json:"approval_number,omitempty"`
	CreationDate   string     `json:"creation_date,omitempty"`
	Specialties    []string   `json:"specialties,omitempty"`
	ProfileImage   string     `json:"profile_image,omitempty"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	Photo          string     `json:"photo,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      string     `json:"created_at,omitempty"`
	Documents      []Document `json:"documents,omitempty"`
}

func (p Provider) Identifier() int64 { return p.ID }
func (p Provider) State() string     { return p.Status }

// Pharmacy is only ever embedded in a user payload.
type Pharmacy struct {
	ID             int64    `json:"id"`
	UserID         int64    `json:"user_id"`
	Name           string   `json:"name,omitempty"`
	Director       string   `json:"director,omitempty"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Address        string   `json:"address,omitempty"`
	Description    string   `json:"description,omitempty"`
	ApprovalNumber string   `json:"approval_number,omitempty"`
	CreationDate   string   `json:"creation_date,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	Status         string   `json:"status,omitempty"`
	Photo          string   `json:"photo,omitempty"`
}

type ProviderDocument struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	Status  string `json:"status,omitempty"`
	AddedOn string `json:"added_on,omitempty"`
}

type CreateProviderRequest struct {
	UserID         int64              `json:"user_id" label:"utilisateur" validate:"required,gt=0"`
	Name           string             `json:"name" label:"nom" validate:"required"`
	Director       string             `json:"director,omitempty"`
	Type           string             `json:"type" label:"type" validate:"required"`
	Email          string             `json:"email" label:"email" validate:"required,email"`
	Phone          string             `json:"phone,omitempty"`
	Address        string             `json:"address,omitempty"`
	Description    string             `json:"description,omitempty"`
	ApprovalNumber string             `json:"approval_number,omitempty"`
	CreationDate   string             `json:"creation_date" label:"date de création" validate:"required"`
	Specialties    []string           `json:"specialties,omitempty"`
	Status         string             `json:"status,omitempty"`
	Documents      []ProviderDocument `json:"documents,omitempty"`
}

// UpdateProviderRequest marshals only the fields that were set. Specialties
// pointing at an empty slice clears them.
type UpdateProviderRequest struct {
	Name           *string            `json:"name,omitempty" label:"nom" validate:"omitempty,min=1"`
	Director       *string            `json:"director,omitempty"`
	Type           *string            `json:"type,omitempty"`
	Email          *string            `json:"email,omitempty" label:"email" validate:"omitempty,email"`
	Phone          *string            `json:"phone,omitempty"`
	Address        *string            `json:"address,omitempty"`
	Description    *string            `json:"description,omitempty"`
	ApprovalNumber *string            `json:"approval_number,omitempty"`
	CreationDate   *string            `json:"creation_date,omitempty"`
	Specialties    *[]string          `json:"specialties,omitempty"`
	Status         *string            `json:"status,omitempty"`
	Documents      []ProviderDocument `json:"documents,omitempty"`
}
