package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogdomain "brunch/internal/catalog/domain"
)

// CommandeFormule est une formule commandée
type CommandeFormule struct {
	ID                  int             `json:"id"`
	CommandeID          uuid.UUID       `json:"commande_id"`
	FormuleID           uuid.UUID       `json:"formule_id"`
	QuantiteRecommandee decimal.Decimal `json:"quantite_recommandee"`
	QuantiteFinale      decimal.Decimal `json:"quantite_finale"`
}

// CommandeFormuleInput est une formule à ajouter à une commande
type CommandeFormuleInput struct {
	CommandeID          uuid.UUID       `json:"commande_id"`
	FormuleID           uuid.UUID       `json:"formule_id"`
	QuantiteRecommandee decimal.Decimal `json:"quantite_recommandee"`
	QuantiteFinale      decimal.Decimal `json:"quantite_finale"`
}

// CommandeProduit est un produit commandé en supplément
type CommandeProduit struct {
	ID         int             `json:"id"`
	CommandeID uuid.UUID       `json:"commande_id"`
	ProduitID  uuid.UUID       `json:"produit_id"`
	Quantite   decimal.Decimal `json:"quantite"`
	Unite      string          `json:"unite"`
}

// CommandeProduitInput est un produit à ajouter à une commande
type CommandeProduitInput struct {
	CommandeID uuid.UUID       `json:"commande_id"`
	ProduitID  uuid.UUID       `json:"produit_id"`
	Quantite   decimal.Decimal `json:"quantite"`
	Unite      string          `json:"unite"`
}

// FormuleLine est une formule en cours de saisie
type FormuleLine struct {
	FormuleID           uuid.UUID
	QuantiteRecommandee decimal.Decimal
	QuantiteFinale      decimal.Decimal
}

// ProduitLine est un produit en cours de saisie
type ProduitLine struct {
	ProduitID uuid.UUID
	Quantite  decimal.Decimal
	Unite     string
}

// CommandeDraft accumule les lignes d'une commande avant sa création
type CommandeDraft struct {
	Commande CommandeInput
	formules []FormuleLine
	produits []ProduitLine
}

// NewCommandeDraft valide la commande et prépare un brouillon vide
func NewCommandeDraft(in CommandeInput) (*CommandeDraft, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &CommandeDraft{Commande: in}, nil
}

// AddFormule ajoute une formule
// La quantité recommandée vaut par défaut le nombre de couverts, la quantité finale la recommandée
func (d *CommandeDraft) AddFormule(formuleID uuid.UUID, recommandee, finale *decimal.Decimal) error {
	if formuleID == uuid.Nil {
		return invalid("formule_id", "veuillez sélectionner une formule")
	}
	for _, l := range d.formules {
		if l.FormuleID == formuleID {
			return invalid("formule_id", "cette formule est déjà dans la commande")
		}
	}

	reco := decimal.NewFromInt(int64(d.Commande.NombreCouverts))
	if recommandee != nil {
		reco = *recommandee
	}
	qReco, err := catalogdomain.QuantiteSaisie("quantite_recommandee", reco)
	if err != nil {
		return err
	}
	qFinale := qReco
	if finale != nil {
		if qFinale, err = catalogdomain.QuantiteSaisie("quantite_finale", *finale); err != nil {
			return err
		}
	}

	d.formules = append(d.formules, FormuleLine{
		FormuleID:           formuleID,
		QuantiteRecommandee: qReco.Decimal(),
		QuantiteFinale:      qFinale.Decimal(),
	})
	return nil
}

// AddProduit ajoute un produit en supplément
func (d *CommandeDraft) AddProduit(produitID uuid.UUID, quantite decimal.Decimal, unite string) error {
	if produitID == uuid.Nil {
		return invalid("produit_id", "veuillez sélectionner un produit")
	}
	q, err := catalogdomain.QuantiteSaisie("quantite", quantite)
	if err != nil {
		return err
	}
	for _, l := range d.produits {
		if l.ProduitID == produitID {
			return invalid("produit_id", "ce produit est déjà dans la commande")
		}
	}
	d.produits = append(d.produits, ProduitLine{ProduitID: produitID, Quantite: q.Decimal(), Unite: unite})
	return nil
}

// Formules retourne les formules saisies
func (d *CommandeDraft) Formules() []FormuleLine {
	return append([]FormuleLine(nil), d.formules...)
}

// Produits retourne les produits saisis
func (d *CommandeDraft) Produits() []ProduitLine {
	return append([]ProduitLine(nil), d.produits...)
}
