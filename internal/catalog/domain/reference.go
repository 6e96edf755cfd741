package domain

// Categorie est une catégorie de produits (Viennoiserie, Boissons...)
type Categorie struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Type est un type de produit (Sucré, Salé...)
type Type struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Unite est une unité de mesure, référencée par son nom dans les lignes
type Unite struct {
	ID  int    `json:"id"`
	Nom string `json:"nom"`
}

// References regroupe les listes statiques du backend
type References struct {
	Categories []Categorie
	Types      []Type
	Unites     []Unite
}

// CategorieName retourne le nom d'une catégorie, ou "" si inconnue
func (r References) CategorieName(id *int) string {
	if id == nil {
		return ""
	}
	for _, c := range r.Categories {
		if c.ID == *id {
			return c.Name
		}
	}
	return ""
}

// TypeName retourne le nom d'un type, ou "" si inconnu
func (r References) TypeName(id *int) string {
	if id == nil {
		return ""
	}
	for _, t := range r.Types {
		if t.ID == *id {
			return t.Name
		}
	}
	return ""
}
