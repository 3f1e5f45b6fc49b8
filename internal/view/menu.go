package view

import "github.com/jwalitptl/passpay-web/internal/model"

type MenuItem struct {
	Title string
	URL   string
	Icon  string
}

type MenuSection struct {
	Title string
	Items []MenuItem
}

var adminSection = MenuSection{
	Title: "Administration",
	Items: []MenuItem{
		{Title: "Dashboard", URL: "/admin", Icon: "layout-dashboard"},
		{Title: "Gestion Utilisateurs", URL: "/admin/users", Icon: "users"},
		{Title: "Gestion Patients", URL: "/admin/patients", Icon: "user-check"},
		{Title: "Gestion Prestataires", URL: "/admin/providers", Icon: "building"},
		{Title: "Statistiques", URL: "/admin/stats", Icon: "bar-chart"},
	},
}

var menus = map[model.Role][]MenuSection{
	model.RoleSuperAdmin: {{
		Title: "Administration",
		Items: []MenuItem{
			{Title: "Dashboard", URL: "/admin", Icon: "layout-dashboard"},
			{Title: "Gestion Utilisateurs", URL: "/admin/users", Icon: "users"},
			{Title: "Gestion Patients", URL: "/admin/patients", Icon: "user-check"},
			{Title: "Gestion Prestataires", URL: "/admin/providers", Icon: "building"},
			{Title: "Rôles & Permissions", URL: "/admin/roles", Icon: "shield"},
			{Title: "Statistiques", URL: "/admin/stats", Icon: "bar-chart"},
		},
	}},
	model.RoleAdmin: {adminSection},
	model.RolePatient: {
		{
			Title: "Mon Compte",
			Items: []MenuItem{
				{Title: "Dashboard", URL: "/patient", Icon: "layout-dashboard"},
				{Title: "Mon Portefeuille", URL: "/patient/wallet", Icon: "wallet"},
				{Title: "Ma Carte", URL: "/patient/card", Icon: "credit-card"},
				{Title: "Coffre-fort", URL: "/patient/vault", Icon: "lock"},
				{Title: "Mes Documents", URL: "/patient/documents", Icon: "file-text"},
			},
		},
		{
			Title: "Services",
			Items: []MenuItem{
				{Title: "Prestataires Proches", URL: "/patient/providers", Icon: "map-pin"},
				{Title: "Historique", URL: "/patient/history", Icon: "bar-chart"},
			},
		},
	},
	model.RoleProvider: practiceMenu("/provider", MenuItem{Title: "Services", URL: "/provider/services", Icon: "heart"}),
	model.RolePharmacy: practiceMenu("/pharmacy", MenuItem{Title: "Types de Services", URL: "/pharmacy/types", Icon: "pill"}),
}

// practiceMenu is shared by providers and pharmacies, which differ only
// in their services entry.
func practiceMenu(base string, services MenuItem) []MenuSection {
	return []MenuSection{
		{
			Title: "Mon Activité",
			Items: []MenuItem{
				{Title: "Dashboard", URL: base, Icon: "layout-dashboard"},
				{Title: "Encaissements", URL: base + "/payments", Icon: "wallet"},
				{Title: "Ma Carte", URL: base + "/card", Icon: "credit-card"},
				{Title: "Mes Patients", URL: base + "/patients", Icon: "user-check"},
				services,
			},
		},
		{
			Title: "Gestion",
			Items: []MenuItem{
				{Title: "Documents", URL: base + "/documents", Icon: "file-text"},
				{Title: "Localisation", URL: base + "/location", Icon: "map-pin"},
			},
		},
	}
}

// MenuFor returns the sidebar of a role. Unknown roles get none.
func MenuFor(role model.Role) []MenuSection {
	return menus[role]
}
