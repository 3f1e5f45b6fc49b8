package model

// Record status values as the backend spells them.
const (
	StatusActive   = "Actif"
	StatusInactive = "Inactif"
)

// Role determines which route subtree and sidebar menu a session may access.
type Role string

const (
	RolePatient    Role = "patient"
	RoleProvider   Role = "provider"
	RolePharmacy   Role = "pharmacy"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Roles lists every role in the order forms offer them.
var Roles = []Role{RolePatient, RoleProvider, RolePharmacy, RoleAdmin, RoleSuperAdmin}

var roleLabels = map[Role]string{
	RolePatient:    "Patient",
	RoleProvider:   "Prestataire",
	RolePharmacy:   "Pharmacie",
	RoleAdmin:      "Admin",
	RoleSuperAdmin: "Super Admin",
}

func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return string(r)
}

func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// IsAdmin reports whether r may reach the administration subtree.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Stats are the aggregate counters every management list carries.
type Stats struct {
	Total         int `json:"total"`
	TotalActive   int `json:"total_actifs"`
	TotalInactive int `json:"total_inactifs"`
	NewThisMonth  int `json:"new_this_month"`
}

// Active reports whether a status string denotes a live record.
func Active(status string) bool {
	return status == StatusActive
}
