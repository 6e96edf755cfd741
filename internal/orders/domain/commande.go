package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	catalogdomain "brunch/internal/catalog/domain"
	shareddomain "brunch/internal/shared/domain"
)

// Commande représente une commande du carnet de commandes
type Commande struct {
	ID             uuid.UUID `json:"id"`
	NomClient      string    `json:"nom_client"`
	NombreCouverts int       `json:"nombre_couverts"`
	Service        bool      `json:"service"`
	DeliveryDate   string    `json:"delivery_date"`
	DeliveryHour   string    `json:"delivery_hour"`
	Notes          *string   `json:"notes"`
	AvecService    bool      `json:"avec_service"`
}

// CommandeInput représente les champs envoyés à la création d'une commande
type CommandeInput struct {
	NomClient      string  `json:"nom_client"`
	NombreCouverts int     `json:"nombre_couverts"`
	Service        bool    `json:"service"`
	DeliveryDate   string  `json:"delivery_date"`
	DeliveryHour   string  `json:"delivery_hour"`
	Notes          *string `json:"notes,omitempty"`
	AvecService    bool    `json:"avec_service"`
}

// Validate vérifie les champs obligatoires d'une commande
func (in CommandeInput) Validate() error {
	if strings.TrimSpace(in.NomClient) == "" {
		return invalid("nom_client", "le nom du client est obligatoire")
	}
	if in.NombreCouverts < 1 {
		return invalid("nombre_couverts", "le nombre de couverts doit être au moins 1")
	}
	if _, err := shareddomain.ParseDate(in.DeliveryDate); err != nil {
		return invalid("delivery_date", "date de livraison invalide")
	}
	if _, err := parseHour(in.DeliveryHour); err != nil {
		return invalid("delivery_hour", "heure de livraison invalide")
	}
	return nil
}

func parseHour(h string) (time.Time, error) {
	if t, err := time.Parse("15:04:05", h); err == nil {
		return t, nil
	}
	return time.Parse("15:04", h)
}

func invalid(field, message string) error {
	return &catalogdomain.ValidationError{Field: field, Message: message}
}

// DateFilter est un filtre relatif à la date du jour
type DateFilter string

const (
	DateFilterAll      DateFilter = ""
	DateFilterToday    DateFilter = "today"
	DateFilterTomorrow DateFilter = "tomorrow"
	DateFilterWeek     DateFilter = "week"
)

// CommandeFilter filtre la liste des commandes par client et par date de livraison
type CommandeFilter struct {
	Search string
	Date   DateFilter
}

// Apply retourne les commandes correspondant au filtre, now fixe la date du jour
func (f CommandeFilter) Apply(commandes []Commande, now time.Time) []Commande {
	today := midnight(now)
	out := make([]Commande, 0, len(commandes))
	for _, c := range commandes {
		if !shareddomain.MatchSearch(c.NomClient, f.Search) {
			continue
		}
		if f.Date != DateFilterAll && !matchDate(f.Date, c.DeliveryDate, today) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchDate(filter DateFilter, delivery string, today time.Time) bool {
	d, err := time.ParseInLocation(shareddomain.DateLayout, delivery, today.Location())
	if err != nil {
		return false
	}
	switch filter {
	case DateFilterToday:
		return d.Equal(today)
	case DateFilterTomorrow:
		return d.Equal(today.AddDate(0, 0, 1))
	case DateFilterWeek:
		return !d.Before(today) && !d.After(today.AddDate(0, 0, 7))
	default:
		return true
	}
}

// DateBadge retourne le libellé de la date de livraison et son urgence
// Aujourd'hui et Demain sont urgents, les autres dates sont affichées en DD/MM/YYYY
func DateBadge(delivery string, now time.Time) (string, bool) {
	today := midnight(now)
	d, err := time.ParseInLocation(shareddomain.DateLayout, delivery, today.Location())
	if err != nil {
		return delivery, false
	}
	switch {
	case d.Equal(today):
		return "Aujourd'hui", true
	case d.Equal(today.AddDate(0, 0, 1)):
		return "Demain", true
	default:
		return d.Format("02/01/2006"), false
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
