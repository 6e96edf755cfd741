package domain

import (
	shareddomain "brunch/internal/shared/domain"
)

// Query est une demande de planning: une période et un filtre de type de formule
type Query struct {
	Periode     shareddomain.Periode
	TypeFormule string
}

// NewQuery valide les dates (YYYY-MM-DD) et applique le filtre par défaut
func NewQuery(debut, fin, typeFormule string) (Query, error) {
	periode, err := shareddomain.ParsePeriode(debut, fin)
	if err != nil {
		return Query{}, err
	}
	if typeFormule == "" {
		typeFormule = TypeFormuleToutes
	}
	return Query{Periode: periode, TypeFormule: typeFormule}, nil
}
