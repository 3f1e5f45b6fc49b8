package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/passpay-web/internal/handler"
	"github.com/jwalitptl/passpay-web/internal/middleware"
	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/session"
)

// Home is the dashboard of each role.
var Home = map[model.Role]string{
	model.RolePatient:    "/patient",
	model.RoleProvider:   "/provider",
	model.RolePharmacy:   "/pharmacy",
	model.RoleAdmin:      "/admin",
	model.RoleSuperAdmin: "/admin",
}

type placeholder struct {
	path  string
	label string
}

var (
	patientPages = []placeholder{
		{"/wallet", "Portefeuille"},
		{"/card", "Carte"},
		{"/vault", "Coffre-fort"},
		{"/documents", "Documents"},
		{"/providers", "Prestataires"},
		{"/history", "Historique"},
	}
	providerPages = []placeholder{
		{"/payments", "Encaissements"},
		{"/card", "Carte"},
		{"/patients", "Patients"},
		{"/services", "Services"},
		{"/documents", "Documents"},
		{"/location", "Localisation"},
	}
	pharmacyPages = []placeholder{
		{"/payments", "Encaissements"},
		{"/card", "Carte"},
		{"/patients", "Patients"},
		{"/types", "Types de Services"},
		{"/documents", "Documents"},
		{"/location", "Localisation"},
	}
	adminPages = []placeholder{
		{"/roles", "Rôles & Permissions"},
		{"/stats", "Statistiques"},
	}
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", h.Root)
	r.GET("/dashboard", middleware.Guard(), h.Dispatch)

	patient := r.Group("/patient", middleware.Guard(middleware.PatientRoles...))
	patient.GET("", h.Patient)
	registerPlaceholders(patient, patientPages)

	provider := r.Group("/provider", middleware.Guard(middleware.ProviderRoles...))
	provider.GET("", h.Provider)
	registerPlaceholders(provider, providerPages)

	pharmacy := r.Group("/pharmacy", middleware.Guard(middleware.PharmacyRoles...))
	pharmacy.GET("", h.Pharmacy)
	registerPlaceholders(pharmacy, pharmacyPages)

	admin := r.Group("/admin", middleware.Guard(middleware.AdminRoles...))
	admin.GET("", h.Admin)
	registerPlaceholders(admin, adminPages)
}

func registerPlaceholders(rg *gin.RouterGroup, pages []placeholder) {
	for _, p := range pages {
		text := p.label + " - En développement"
		rg.GET(p.path, func(c *gin.Context) {
			handler.Render(c, http.StatusOK, "placeholder", text, text)
		})
	}
}

func (h *Handler) Root(c *gin.Context) {
	c.Redirect(http.StatusFound, "/dashboard")
}

// Dispatch sends the session to its role dashboard. A session without a
// known role goes back to the login page.
func (h *Handler) Dispatch(c *gin.Context) {
	home, ok := Home[handler.Session(c).Role()]
	if !ok {
		c.Redirect(http.StatusFound, session.LoginPath)
		return
	}
	c.Redirect(http.StatusFound, home)
}

func (h *Handler) Patient(c *gin.Context) {
	handler.Render(c, http.StatusOK, "dashboard_patient", "Dashboard", patientDemo())
}

func (h *Handler) Provider(c *gin.Context) {
	handler.Render(c, http.StatusOK, "dashboard_practice", "Dashboard", providerDemo(handler.Session(c).Snapshot().User))
}

func (h *Handler) Pharmacy(c *gin.Context) {
	handler.Render(c, http.StatusOK, "dashboard_practice", "Dashboard", pharmacyDemo(handler.Session(c).Snapshot().User))
}

func (h *Handler) Admin(c *gin.Context) {
	handler.Render(c, http.StatusOK, "dashboard_admin", "Dashboard", adminDemo())
}
