package database

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================================
// MODÈLES DE DONNÉES - jeu de démonstration
// ============================================================================

// Produit - produit du catalogue, rattaché à une catégorie et un type par leur nom
type Produit struct {
	ID        uuid.UUID
	Name      string
	Categorie string
	Type      string
}

// FormuleLigne - quantité par personne d'un produit dans une formule
type FormuleLigne struct {
	Produit  string
	Quantite decimal.Decimal
	Unite    string
}

// Formule - menu composé de produits
type Formule struct {
	ID             uuid.UUID
	Name           string
	NombreCouverts int
	TypeFormule    string
	Lignes         []FormuleLigne
}

// CommandeFormule - formule commandée
type CommandeFormule struct {
	Formule             string
	QuantiteRecommandee decimal.Decimal
	QuantiteFinale      decimal.Decimal
}

// CommandeProduit - produit commandé en supplément
type CommandeProduit struct {
	Produit  string
	Quantite decimal.Decimal
	Unite    string
}

// Commande - commande du carnet
type Commande struct {
	ID             uuid.UUID
	NomClient      string
	NombreCouverts int
	Service        bool
	DeliveryDate   string
	DeliveryHour   string
	Notes          *string
	AvecService    bool
	Formules       []CommandeFormule
	Produits       []CommandeProduit
}

// Catalogue - référentiel de démonstration
type Catalogue struct {
	Categories []string
	Types      []string
	Unites     []string
	Produits   []Produit
	Formules   []Formule
}

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DemoCatalogue retourne le catalogue de démonstration d'un traiteur brunch
func DemoCatalogue() Catalogue {
	return Catalogue{
		Categories: []string{"Viennoiserie", "Boissons", "Salé", "Fruits"},
		Types:      []string{"Sucré", "Salé", "Boisson"},
		Unites:     []string{"pièce", "g", "kg", "L", "mL"},
		Produits: []Produit{
			{ID: uuid.New(), Name: "Croissant", Categorie: "Viennoiserie", Type: "Sucré"},
			{ID: uuid.New(), Name: "Pain au chocolat", Categorie: "Viennoiserie", Type: "Sucré"},
			{ID: uuid.New(), Name: "Jus d'orange", Categorie: "Boissons", Type: "Boisson"},
			{ID: uuid.New(), Name: "Café", Categorie: "Boissons", Type: "Boisson"},
			{ID: uuid.New(), Name: "Mini quiche", Categorie: "Salé", Type: "Salé"},
			{ID: uuid.New(), Name: "Salade de fruits", Categorie: "Fruits", Type: "Sucré"},
			{ID: uuid.New(), Name: "Serviettes", Categorie: "", Type: ""},
		},
		Formules: []Formule{
			{
				ID: uuid.New(), Name: "Brunch classique", NombreCouverts: 1, TypeFormule: "Brunch",
				Lignes: []FormuleLigne{
					{Produit: "Croissant", Quantite: qty("1"), Unite: "pièce"},
					{Produit: "Pain au chocolat", Quantite: qty("1"), Unite: "pièce"},
					{Produit: "Jus d'orange", Quantite: qty("0.25"), Unite: "L"},
					{Produit: "Salade de fruits", Quantite: qty("150"), Unite: "g"},
				},
			},
			{
				ID: uuid.New(), Name: "Pause café", NombreCouverts: 1, TypeFormule: "Non-Brunch",
				Lignes: []FormuleLigne{
					{Produit: "Café", Quantite: qty("0.2"), Unite: "L"},
					{Produit: "Croissant", Quantite: qty("1"), Unite: "pièce"},
				},
			},
			{
				ID: uuid.New(), Name: "Cocktail salé", NombreCouverts: 1, TypeFormule: "Non-Brunch",
				Lignes: []FormuleLigne{
					{Produit: "Mini quiche", Quantite: qty("3"), Unite: "pièce"},
					{Produit: "Jus d'orange", Quantite: qty("0.15"), Unite: "L"},
				},
			},
		},
	}
}
