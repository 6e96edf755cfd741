package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	shareddomain "brunch/internal/shared/domain"
)

// ValidationError est une erreur de saisie: l'action est bloquée et le message affiché tel quel
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// QuantiteSaisie valide une quantité de ligne, strictement positive
// Une valeur négative enveloppe shareddomain.ErrQuantiteNegative
func QuantiteSaisie(field string, value decimal.Decimal) (shareddomain.Quantite, error) {
	q, err := shareddomain.NewQuantite(value)
	if err != nil {
		return shareddomain.Quantite{}, &ValidationError{Field: field, Message: "la quantité ne peut pas être négative", Err: err}
	}
	if !q.IsPositive() {
		return shareddomain.Quantite{}, invalid(field, "la quantité doit être supérieure à 0")
	}
	return q, nil
}
