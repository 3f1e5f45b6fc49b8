package model

type Wallet struct {
	ID              int64         `json:"id"`
	PatientID       int64         `json:"patient_id"`
	SoldeTotal      float64       `json:"solde_total"`
	SoldeDisponible float64       `json:"solde_disponible"`
	SoldeReserve    float64       `json:"solde_reserve"`
	VirtualCard     *VirtualCard  `json:"virtual_card,omitempty"`
	Transactions    []Transaction `json:"transactions,omitempty"`
	Vaults          []Vault       `json:"vaults,omitempty"`
}

type VirtualCard struct {
	ID                  int64   `json:"id"`
	WalletID            int64   `json:"wallet_id"`
	Numero              string  `json:"numero"`
	Statut              string  `json:"statut"`
	Type                string  `json:"type"`
	LimiteMensuelle     float64 `json:"limite_mensuelle"`
	LimiteJournaliere   float64 `json:"limite_journaliere"`
	LimiteByTransaction float64 `json:"limite_by_transaction"`
	MontantUtilise      float64 `json:"montant_utilise"`
	DateExpiration      string  `json:"date_expiration"`
}

type Transaction struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Source      string  `json:"source,omitempty"`
	Description string  `json:"description"`
	Montant     float64 `json:"montant"`
	Statut      string  `json:"statut"`
	EffectueLe  string  `json:"effectue_le"`
	Reference   string  `json:"reference,omitempty"`
}

type Vault struct {
	ID            int64   `json:"id"`
	Nom           string  `json:"nom"`
	Categorie     string  `json:"categorie"`
	Objectif      float64 `json:"objectif"`
	MontantActuel float64 `json:"montant_actuel"`
}

// Progress is the vault fill ratio in percent, capped at 100.
func (v Vault) Progress() int {
	if v.Objectif <= 0 {
		return 0
	}
	p := int(v.MontantActuel / v.Objectif * 100)
	if p > 100 {
		return 100
	}
	return p
}
