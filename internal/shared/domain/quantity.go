package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Placeholder est le contenu affiché à la place d'une quantité absente ou nulle
const Placeholder = "-"

// ErrQuantiteNegative est retournée quand une quantité est négative
var ErrQuantiteNegative = errors.New("la quantité ne peut pas être négative")

// Quantite représente une quantité de production (décimale, jamais négative)
// Les sommes sont exactes: 0.1 + 0.2 vaut 0.3
type Quantite struct {
	value decimal.Decimal
}

// NewQuantite crée une nouvelle quantité avec validation
func NewQuantite(value decimal.Decimal) (Quantite, error) {
	if value.IsNegative() {
		return Quantite{}, ErrQuantiteNegative
	}
	return Quantite{value: value}, nil
}

// Decimal retourne la valeur
func (q Quantite) Decimal() decimal.Decimal {
	return q.value
}

// Add additionne deux quantités
func (q Quantite) Add(other Quantite) Quantite {
	return Quantite{value: q.value.Add(other.value)}
}

// IsPositive vérifie si la quantité est strictement positive
func (q Quantite) IsPositive() bool {
	return q.value.IsPositive()
}

// String formate la quantité, voir FormatNombre
func (q Quantite) String() string {
	return FormatNombre(q.value)
}

// FormatNombre affiche un entier sans décimale, sinon une seule décimale
// arrondie au plus proche (4 → "4", 4.5 → "4.5", 4.25 → "4.3")
func FormatNombre(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.Truncate(0).String()
	}
	return d.StringFixed(1)
}

// FormatTotal formate un total: le placeholder remplace tout total nul,
// l'unité est ajoutée quand elle est fournie
func FormatTotal(q Quantite, unite string) string {
	if !q.IsPositive() {
		return Placeholder
	}
	if unite == "" {
		return q.String()
	}
	return q.String() + " " + unite
}
