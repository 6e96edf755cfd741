package domain

import (
	"time"
	"unicode/utf8"

	shareddomain "brunch/internal/shared/domain"
)

// MaxClientLen est la longueur maximale (en caractères) du nom client dans les en-têtes
const MaxClientLen = 20

var joursSemaine = [7]string{"Dim", "Lun", "Mar", "Mer", "Jeu", "Ven", "Sam"}

// dateLabel retourne "DD/MM\nJjj" et l'abréviation du jour
// Une date mal formée est rendue telle quelle, sans jour de semaine
func dateLabel(key string) (label, jour string) {
	t, err := time.Parse(shareddomain.DateLayout, key)
	if err != nil {
		return key, ""
	}
	jour = joursSemaine[t.Weekday()]
	return t.Format("02/01") + "\n" + jour, jour
}

// dayTotalLabel retourne "TOTAL Jjj", ou "TOTAL" quand le jour est inconnu
func dayTotalLabel(jour string) string {
	if jour == "" {
		return "TOTAL"
	}
	return "TOTAL " + jour
}

// orderLabel retourne le nom du client tronqué et l'heure de livraison (HH:MM)
func orderLabel(o OrderSummary) string {
	client := truncateRunes(o.Client, MaxClientLen)
	heure := shortHour(o.Heure)
	if heure == "" {
		return client
	}
	return client + "\n" + heure
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// shortHour réduit "HH:MM:SS" à "HH:MM"
func shortHour(h string) string {
	if len(h) >= 5 && h[2] == ':' {
		return h[:5]
	}
	return h
}

// Titre retourne le titre du planning pour une période
func Titre(p PeriodeDTO) string {
	return "Planning de Production du " + shareddomain.FormatDateLong(p.Debut) + " au " + shareddomain.FormatDateLong(p.Fin)
}
