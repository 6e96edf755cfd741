package domain

import (
	"strings"

	"github.com/google/uuid"

	shareddomain "brunch/internal/shared/domain"
)

// Produit représente un produit du catalogue tel que renvoyé par le backend
type Produit struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	CategorieID *int      `json:"categorie_id"`
	TypeID      *int      `json:"type_id"`
}

// ProduitInput représente les champs envoyés à la création ou à la modification d'un produit
type ProduitInput struct {
	Name        string `json:"name"`
	CategorieID *int   `json:"categorie_id"`
	TypeID      *int   `json:"type_id"`
}

// NewProduitInput crée une saisie de produit avec validation
func NewProduitInput(name string, categorieID, typeID *int) (ProduitInput, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ProduitInput{}, invalid("name", "le nom du produit est obligatoire")
	}
	return ProduitInput{Name: name, CategorieID: categorieID, TypeID: typeID}, nil
}

// ProduitFilter filtre la liste des produits
// Les critères vides ne filtrent rien
type ProduitFilter struct {
	Search      string
	CategorieID *int
	TypeID      *int
}

// Apply retourne les produits correspondant au filtre, dans l'ordre d'origine
func (f ProduitFilter) Apply(produits []Produit) []Produit {
	out := make([]Produit, 0, len(produits))
	for _, p := range produits {
		if !shareddomain.MatchSearch(p.Name, f.Search) {
			continue
		}
		if f.CategorieID != nil && (p.CategorieID == nil || *p.CategorieID != *f.CategorieID) {
			continue
		}
		if f.TypeID != nil && (p.TypeID == nil || *p.TypeID != *f.TypeID) {
			continue
		}
		out = append(out, p)
	}
	return out
}
