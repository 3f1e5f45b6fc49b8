package model

// RoleRef is the role relation embedded in the /users/me payloads.
type RoleRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User represents a platform user as the backend returns it, both for the
// acting session and for management list items.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Photo     string    `json:"photo,omitempty"`
	Role      string    `json:"role,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt string    `json:"created_at,omitempty"`
	UpdatedAt string    `json:"updated_at,omitempty"`
	Roles     []RoleRef `json:"roles,omitempty"`
	Patient   *Patient  `json:"patient,omitempty"`
	Provider  *Provider `json:"provider,omitempty"`
	Pharmacy  *Pharmacy `json:"pharmacy,omitempty"`
}

func (u User) Identifier() int64 { return u.ID }
func (u User) State() string     { return u.Status }

// UserPatch carries the fields changed out of band, nil meaning untouched.
type UserPatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Photo *string `json:"photo,omitempty"`
}

func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Photo == nil
}

// Apply merges the set fields of p into u.
func (p UserPatch) Apply(u *User) {
	if u == nil {
		return
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Photo != nil {
		u.Photo = *p.Photo
	}
}

// CreateUserRequest is the draft behind the user creation form.
type CreateUserRequest struct {
	Name     string `form:"name" label:"nom" validate:"required"`
	Email    string `form:"email" label:"email" validate:"required,email"`
	Password string `form:"password" label:"mot de passe" validate:"required"`
	Phone    string `form:"phone" label:"téléphone" validate:"required"`
	Role     string `form:"role" label:"rôle" validate:"required,oneof=patient provider pharmacy admin superadmin"`
	Photo    *Upload
}

// UpdateUserRequest sends only non-nil fields.
type UpdateUserRequest struct {
	Name     *string `label:"nom" validate:"omitempty,min=1"`
	Email    *string `label:"email" validate:"omitempty,email"`
	Password *string `label:"mot de passe" validate:"omitempty,min=1"`
	Phone    *string
	Role     *string `label:"rôle" validate:"omitempty,oneof=patient provider pharmacy admin superadmin"`
	Photo    *Upload
}

// Upload is a file submitted through a browser form.
type Upload struct {
	Name    string
	Content []byte
}
