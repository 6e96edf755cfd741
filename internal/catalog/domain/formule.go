package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	shareddomain "brunch/internal/shared/domain"
)

// Types de formule connus du backend
const (
	TypeFormuleBrunch    = "Brunch"
	TypeFormuleNonBrunch = "Non-Brunch"
)

// Formule représente un menu composé de produits, quantités par personne
type Formule struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	NombreCouverts int       `json:"nombre_couverts"`
	TypeFormule    string    `json:"type_formule"`
}

// FormuleInput représente les champs envoyés à la création ou à la modification d'une formule
type FormuleInput struct {
	Name           string `json:"name"`
	NombreCouverts int    `json:"nombre_couverts"`
	TypeFormule    string `json:"type_formule"`
}

// NewFormuleInput crée une saisie de formule avec validation
// Un type vide vaut Non-Brunch
func NewFormuleInput(name string, nombreCouverts int, typeFormule string) (FormuleInput, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FormuleInput{}, invalid("name", "le nom de la formule est obligatoire")
	}
	if nombreCouverts < 1 {
		return FormuleInput{}, invalid("nombre_couverts", "le nombre de couverts doit être au moins 1")
	}
	if typeFormule == "" {
		typeFormule = TypeFormuleNonBrunch
	}
	return FormuleInput{Name: name, NombreCouverts: nombreCouverts, TypeFormule: typeFormule}, nil
}

// FormuleProduit est une ligne de formule: un produit et sa quantité par personne
type FormuleProduit struct {
	ID        int             `json:"id"`
	FormuleID uuid.UUID       `json:"formule_id"`
	ProduitID uuid.UUID       `json:"produit_id"`
	Quantite  decimal.Decimal `json:"quantite"`
	Unite     string          `json:"unite"`
}

// FormuleProduitInput est une ligne à ajouter à une formule
type FormuleProduitInput struct {
	FormuleID uuid.UUID       `json:"formule_id"`
	ProduitID uuid.UUID       `json:"produit_id"`
	Quantite  decimal.Decimal `json:"quantite"`
	Unite     string          `json:"unite"`
}

// DraftLine est une ligne en cours de saisie, la formule n'existe pas encore
type DraftLine struct {
	ProduitID uuid.UUID
	Quantite  decimal.Decimal
	Unite     string
}

// FormuleDraft accumule les lignes d'une formule avant sa création
type FormuleDraft struct {
	lines []DraftLine
}

// AddLine ajoute une ligne en refusant un produit déjà présent ou une quantité non positive
func (d *FormuleDraft) AddLine(produitID uuid.UUID, quantite decimal.Decimal, unite string) error {
	if produitID == uuid.Nil {
		return invalid("produit_id", "veuillez sélectionner un produit")
	}
	q, err := QuantiteSaisie("quantite", quantite)
	if err != nil {
		return err
	}
	for _, l := range d.lines {
		if l.ProduitID == produitID {
			return invalid("produit_id", "ce produit est déjà dans la formule")
		}
	}
	d.lines = append(d.lines, DraftLine{ProduitID: produitID, Quantite: q.Decimal(), Unite: unite})
	return nil
}

// RemoveLine retire la ligne d'un produit
func (d *FormuleDraft) RemoveLine(produitID uuid.UUID) {
	for i, l := range d.lines {
		if l.ProduitID == produitID {
			d.lines = append(d.lines[:i], d.lines[i+1:]...)
			return
		}
	}
}

// Lines retourne les lignes saisies
func (d *FormuleDraft) Lines() []DraftLine {
	return append([]DraftLine(nil), d.lines...)
}

// Len retourne le nombre de lignes
func (d *FormuleDraft) Len() int {
	return len(d.lines)
}

// Validate refuse un brouillon sans produit
func (d *FormuleDraft) Validate() error {
	if len(d.lines) == 0 {
		return invalid("produits", "veuillez ajouter au moins un produit à la formule")
	}
	return nil
}

// Reset vide le brouillon
func (d *FormuleDraft) Reset() {
	d.lines = nil
}

// FormuleFilter filtre la liste des formules
type FormuleFilter struct {
	Search      string
	TypeFormule string
}

// Apply retourne les formules correspondant au filtre
func (f FormuleFilter) Apply(formules []Formule) []Formule {
	out := make([]Formule, 0, len(formules))
	for _, fo := range formules {
		if !shareddomain.MatchSearch(fo.Name, f.Search) {
			continue
		}
		if f.TypeFormule != "" && fo.TypeFormule != f.TypeFormule {
			continue
		}
		out = append(out, fo)
	}
	return out
}
