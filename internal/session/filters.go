package session

import (
	catalogdomain "brunch/internal/catalog/domain"
	ordersdomain "brunch/internal/orders/domain"
)

// Filters est l'état des filtres d'une vue de liste
// La valeur zéro ne filtre rien
type Filters struct {
	Search      string
	CategorieID *int
	TypeID      *int
	TypeFormule string
	Date        ordersdomain.DateFilter
}

// Reset remet tous les filtres à zéro
func (f *Filters) Reset() {
	*f = Filters{}
}

// IsZero indique qu'aucun filtre n'est actif
func (f Filters) IsZero() bool {
	return f.Search == "" && f.CategorieID == nil && f.TypeID == nil && f.TypeFormule == "" && f.Date == ordersdomain.DateFilterAll
}

// Produits retourne le filtre de la liste des produits
func (f Filters) Produits() catalogdomain.ProduitFilter {
	return catalogdomain.ProduitFilter{Search: f.Search, CategorieID: f.CategorieID, TypeID: f.TypeID}
}

// Formules retourne le filtre de la liste des formules
func (f Filters) Formules() catalogdomain.FormuleFilter {
	return catalogdomain.FormuleFilter{Search: f.Search, TypeFormule: f.TypeFormule}
}

// Commandes retourne le filtre du carnet de commandes
func (f Filters) Commandes() ordersdomain.CommandeFilter {
	return ordersdomain.CommandeFilter{Search: f.Search, Date: f.Date}
}
