package dashboard

import "github.com/jwalitptl/passpay-web/internal/model"

// The dashboards show fixed demonstration figures until the backend grows
// aggregate endpoints.

type AdminStats struct {
	TotalUsers         int
	TotalPatients      int
	TotalProviders     int
	TotalPharmacies    int
	TotalTransactions  int
	MonthlyVolume      float64
	PendingValidations int
	SystemStatus       string
}

type Activity struct {
	Description string
	Time        string
	Who         string
}

type PendingValidation struct {
	Type   string
	Name   string
	Status string
}

type AdminDashboard struct {
	Stats    AdminStats
	Activity []Activity
	Pending  []PendingValidation
}

type PatientDashboard struct {
	Wallet model.Wallet
}

type Payment struct {
	Who     string
	What    string
	Montant float64
	Date    string
	Statut  string
}

type QueueEntry struct {
	Time   string
	Who    string
	What   string
	Status string
}

// PracticeDashboard serves both providers and pharmacies.
type PracticeDashboard struct {
	Heading         string
	Subtitle        string
	MonthlyRevenue  float64
	Customers       int
	CustomersLabel  string
	PendingPayments float64
	Today           int
	TodayLabel      string
	Average         float64
	AverageLabel    string
	Payments        []Payment
	QueueLabel      string
	Queue           []QueueEntry
}

func adminDemo() AdminDashboard {
	return AdminDashboard{
		Stats: AdminStats{
			TotalUsers:         1247,
			TotalPatients:      892,
			TotalProviders:     156,
			TotalPharmacies:    89,
			TotalTransactions:  5634,
			MonthlyVolume:      156789.45,
			PendingValidations: 12,
			SystemStatus:       "operational",
		},
		Activity: []Activity{
			{Description: "Nouveau patient inscrit", Time: "Il y a 5 min", Who: "Marie Dubois"},
			{Description: "Prestataire en attente", Time: "Il y a 15 min", Who: "Cabinet Dr. Martin"},
			{Description: "Transaction importante", Time: "Il y a 1h", Who: "2,450.00 €"},
			{Description: "Document téléchargé", Time: "Il y a 2h", Who: "Pharmacie Centrale"},
		},
		Pending: []PendingValidation{
			{Type: "provider", Name: "Cabinet Dentaire Sourire", Status: "documents_pending"},
			{Type: "pharmacy", Name: "Pharmacie du Centre", Status: "approval_pending"},
			{Type: "document", Name: "Agrément médical", Status: "review_needed"},
		},
	}
}

func patientDemo() PatientDashboard {
	return PatientDashboard{
		Wallet: model.Wallet{
			SoldeTotal:      1250.75,
			SoldeDisponible: 980.50,
			SoldeReserve:    270.25,
			VirtualCard: &model.VirtualCard{
				Statut:            "active",
				LimiteJournaliere: 200,
			},
			Transactions: []model.Transaction{
				{ID: 1, Description: "Consultation Dr. Martin", Montant: -45.00, EffectueLe: "2024-01-20", Statut: "completed"},
				{ID: 2, Description: "Recharge portefeuille", Montant: 100.00, EffectueLe: "2024-01-18", Statut: "completed"},
				{ID: 3, Description: "Pharmacie Centrale", Montant: -25.30, EffectueLe: "2024-01-15", Statut: "completed"},
			},
			Vaults: []model.Vault{
				{ID: 1, Nom: "Urgences Médicales", MontantActuel: 150.00, Objectif: 500.00},
				{ID: 2, Nom: "Soins Dentaires", MontantActuel: 75.50, Objectif: 300.00},
			},
		},
	}
}

func greeting(user *model.User, fallback string) string {
	if user != nil && user.Name != "" {
		return user.Name
	}
	return fallback
}

func providerDemo(user *model.User) PracticeDashboard {
	return PracticeDashboard{
		Heading:         greeting(user, "Prestataire"),
		Subtitle:        "Tableau de bord de votre activité",
		MonthlyRevenue:  12450.75,
		Customers:       248,
		CustomersLabel:  "Patients",
		PendingPayments: 1250.30,
		Today:           8,
		TodayLabel:      "Rendez-vous aujourd'hui",
		Average:         45.50,
		AverageLabel:    "Consultation moyenne",
		Payments: []Payment{
			{Who: "Marie D.", What: "Consultation générale", Montant: 45.00, Date: "2024-01-20", Statut: "encaissé"},
			{Who: "Pierre L.", What: "Examen cardiaque", Montant: 85.00, Date: "2024-01-20", Statut: "encaissé"},
			{Who: "Sophie M.", What: "Suivi diabète", Montant: 55.00, Date: "2024-01-19", Statut: "en_attente"},
		},
		QueueLabel: "Rendez-vous du jour",
		Queue: []QueueEntry{
			{Time: "09:00", Who: "Jean Dupont", What: "Consultation"},
			{Time: "10:30", Who: "Marie Martin", What: "Suivi"},
			{Time: "14:00", Who: "Paul Durand", What: "Contrôle"},
			{Time: "15:30", Who: "Lisa Bernard", What: "Consultation"},
		},
	}
}

func pharmacyDemo(user *model.User) PracticeDashboard {
	return PracticeDashboard{
		Heading:         greeting(user, "Pharmacie"),
		Subtitle:        "Tableau de bord de votre officine",
		MonthlyRevenue:  8750.45,
		Customers:       156,
		CustomersLabel:  "Clients",
		PendingPayments: 680.20,
		Today:           23,
		TodayLabel:      "Ordonnances aujourd'hui",
		Average:         28.50,
		AverageLabel:    "Vente moyenne",
		Payments: []Payment{
			{Who: "Patient P-001", What: "Doliprane, Vitamine D", Montant: 15.80, Date: "2024-01-20", Statut: "encaissé"},
			{Who: "Patient P-045", What: "Antibiotique sur ordonnance", Montant: 42.30, Date: "2024-01-20", Statut: "encaissé"},
			{Who: "Patient P-123", What: "Paracétamol, Spray nasal", Montant: 12.60, Date: "2024-01-19", Statut: "en_attente"},
		},
		QueueLabel: "Ordonnances en cours",
		Queue: []QueueEntry{
			{Time: "09:30", Who: "Marie D.", What: "Dr. Martin", Status: "en_preparation"},
			{Time: "10:15", Who: "Jean L.", What: "Dr. Dubois", Status: "prete"},
			{Time: "11:00", Who: "Sophie K.", What: "Dr. Bernard", Status: "en_attente"},
		},
	}
}
