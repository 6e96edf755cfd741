package domain

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout est le format des dates échangées avec le backend (YYYY-MM-DD)
const DateLayout = "2006-01-02"

var (
	// ErrPeriodeIncomplete est retournée quand une des deux bornes manque
	ErrPeriodeIncomplete = errors.New("veuillez sélectionner une période")
	// ErrPeriodeInvalide est retournée quand la date de début est après la date de fin
	ErrPeriodeInvalide = errors.New("la date de début doit être antérieure à la date de fin")
)

// Vue représente un préréglage de durée pour la période de production
type Vue string

const (
	VueJour     Vue = "jour"
	VueTroisJrs Vue = "3jours"
	VueSemaine  Vue = "semaine"
)

// Periode représente une période de dates calendaires, bornes incluses
// DESIGN PATTERN: Value Object (DDD)
//   - Immutable: pas de setters, valeurs fixées à la création
//   - Validation dans les constructeurs (NewPeriode, ParsePeriode)
//   - Les heures sont toujours tronquées à minuit UTC
type Periode struct {
	debut time.Time
	fin   time.Time
}

// NewPeriode crée une période à partir de deux dates, la fin ne peut pas précéder le début
func NewPeriode(debut, fin time.Time) (Periode, error) {
	d := truncateDay(debut)
	f := truncateDay(fin)
	if d.After(f) {
		return Periode{}, ErrPeriodeInvalide
	}
	return Periode{debut: d, fin: f}, nil
}

// ParsePeriode lit deux dates au format YYYY-MM-DD
func ParsePeriode(debut, fin string) (Periode, error) {
	if debut == "" || fin == "" {
		return Periode{}, ErrPeriodeIncomplete
	}
	d, err := ParseDate(debut)
	if err != nil {
		return Periode{}, err
	}
	f, err := ParseDate(fin)
	if err != nil {
		return Periode{}, err
	}
	return NewPeriode(d, f)
}

// DefaultPeriode retourne la période par défaut: aujourd'hui et les 7 jours suivants
func DefaultPeriode(now time.Time) Periode {
	d := truncateDay(now)
	return Periode{debut: d, fin: d.AddDate(0, 0, 7)}
}

// PeriodeFromVue construit une période à partir d'un préréglage
func PeriodeFromVue(debut time.Time, vue Vue) (Periode, error) {
	d := truncateDay(debut)
	switch vue {
	case VueJour:
		return Periode{debut: d, fin: d}, nil
	case VueTroisJrs:
		return Periode{debut: d, fin: d.AddDate(0, 0, 2)}, nil
	case VueSemaine:
		return Periode{debut: d, fin: d.AddDate(0, 0, 6)}, nil
	default:
		return Periode{}, fmt.Errorf("vue inconnue: %q", vue)
	}
}

// Debut retourne la date de début
func (p Periode) Debut() time.Time {
	return p.debut
}

// Fin retourne la date de fin
func (p Periode) Fin() time.Time {
	return p.fin
}

// DebutISO retourne la date de début au format YYYY-MM-DD
func (p Periode) DebutISO() string {
	return p.debut.Format(DateLayout)
}

// FinISO retourne la date de fin au format YYYY-MM-DD
func (p Periode) FinISO() string {
	return p.fin.Format(DateLayout)
}

// Jours retourne le nombre de jours couverts par la période
func (p Periode) Jours() int {
	return int(p.fin.Sub(p.debut).Hours()/24) + 1
}

// ParseDate lit une date YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date invalide %q: %w", s, err)
	}
	return t, nil
}

// FormatDateLong convertit YYYY-MM-DD en DD/MM/YYYY, la chaîne est rendue telle quelle si elle est mal formée
func FormatDateLong(s string) string {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
