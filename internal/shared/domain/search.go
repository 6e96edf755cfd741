package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold met une chaîne en minuscules et retire les accents ("Crêpe" → "crepe")
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// MatchSearch vérifie qu'un terme de recherche apparaît dans un libellé, sans tenir compte
// de la casse ni des accents. Un terme vide correspond à tout.
func MatchSearch(label, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	return strings.Contains(Fold(label), Fold(term))
}
