package domain

// CategorieParDefaut est utilisée quand un produit n'a pas de catégorie
const CategorieParDefaut = "Autre"

// IndexedProduct est un produit retenu dans l'index, avec le nom et l'unité de sa première occurrence
type IndexedProduct struct {
	ID        string
	Nom       string
	Unite     string
	Categorie string
}

// CategoryBucket regroupe les produits d'une catégorie dans l'ordre de première apparition
type CategoryBucket struct {
	Categorie string
	Produits  []IndexedProduct
}

// CategoryIndex regroupe les produits du planning par catégorie
// Un produit n'apparaît que dans une seule catégorie: la première rencontrée
type CategoryIndex struct {
	buckets   []CategoryBucket
	positions map[string]int
	produits  map[string]string
}

// BuildCategoryIndex parcourt les totaux de chaque date dans l'ordre du payload
// Les catégories et les produits gardent leur ordre de première apparition, sans tri
func BuildCategoryIndex(p Payload) CategoryIndex {
	idx := CategoryIndex{
		positions: make(map[string]int),
		produits:  make(map[string]string),
	}

	p.Planning.Each(func(_ string, entry Entry) {
		entry.Totaux.Each(func(id string, total ProductTotal) {
			if _, seen := idx.produits[id]; seen {
				return
			}
			categorie := total.Categorie
			if categorie == "" {
				categorie = CategorieParDefaut
			}

			pos, ok := idx.positions[categorie]
			if !ok {
				pos = len(idx.buckets)
				idx.positions[categorie] = pos
				idx.buckets = append(idx.buckets, CategoryBucket{Categorie: categorie})
			}
			idx.buckets[pos].Produits = append(idx.buckets[pos].Produits, IndexedProduct{
				ID:        id,
				Nom:       total.Nom,
				Unite:     total.Unite,
				Categorie: categorie,
			})
			idx.produits[id] = categorie
		})
	})

	return idx
}

// Categories retourne les catégories dans l'ordre de première apparition
func (ci CategoryIndex) Categories() []CategoryBucket {
	return ci.buckets
}

// Len retourne le nombre de catégories
func (ci CategoryIndex) Len() int {
	return len(ci.buckets)
}

// ProductCount retourne le nombre de produits distincts
func (ci CategoryIndex) ProductCount() int {
	return len(ci.produits)
}

// categorieOf retourne la catégorie retenue pour un produit
func (ci CategoryIndex) categorieOf(id string) (string, bool) {
	c, ok := ci.produits[id]
	return c, ok
}
