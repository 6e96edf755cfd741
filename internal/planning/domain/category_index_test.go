package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCategoryIndex_FirstSeenOrder(t *testing.T) {
	idx := BuildCategoryIndex(mustPayload(t, weekPayload))

	cats := idx.Categories()
	if assert.Len(t, cats, 2) {
		// l'ordre suit le payload (2025-03-11 d'abord), pas l'ordre chronologique
		assert.Equal(t, "Boissons", cats[0].Categorie)
		assert.Equal(t, "Viennoiserie", cats[1].Categorie)

		var ids []string
		for _, p := range cats[1].Produits {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []string{"p1", "p2"}, ids)
	}
	assert.Equal(t, 3, idx.ProductCount())
}

func TestBuildCategoryIndex_ConflictFirstSeenWins(t *testing.T) {
	p := mustPayload(t, `{
	  "periode": {"debut": "2025-03-10", "fin": "2025-03-11"},
	  "commandes_count": 2,
	  "planning": {
	    "2025-03-10": {"commandes": [], "totaux": {"p9": {"nom": "Café", "quantite": 1, "unite": "L", "categorie": "Boissons"}}},
	    "2025-03-11": {"commandes": [], "totaux": {"p9": {"nom": "Café filtre", "quantite": 2, "unite": "tasse", "categorie": "Autre"}}}
	  }
	}`)

	idx := BuildCategoryIndex(p)

	assert.Equal(t, 1, idx.Len())
	cat, ok := idx.categorieOf("p9")
	assert.True(t, ok)
	assert.Equal(t, "Boissons", cat)

	produit := idx.Categories()[0].Produits[0]
	assert.Equal(t, "Café", produit.Nom)
	assert.Equal(t, "L", produit.Unite)
}

func TestBuildCategoryIndex_DefaultCategory(t *testing.T) {
	p := mustPayload(t, `{
	  "periode": {"debut": "2025-03-10", "fin": "2025-03-10"},
	  "commandes_count": 1,
	  "planning": {"2025-03-10": {"commandes": [], "totaux": {"p1": {"nom": "Serviettes", "quantite": 10, "unite": "pièce", "categorie": ""}}}}
	}`)

	idx := BuildCategoryIndex(p)
	assert.Equal(t, CategorieParDefaut, idx.Categories()[0].Categorie)
}

func TestBuildCategoryIndex_EveryProductInOneBucket(t *testing.T) {
	p := mustPayload(t, weekPayload)
	idx := BuildCategoryIndex(p)

	declared := map[string]map[string]bool{}
	p.Planning.Each(func(_ string, e Entry) {
		e.Totaux.Each(func(id string, total ProductTotal) {
			if declared[id] == nil {
				declared[id] = map[string]bool{}
			}
			declared[id][total.Categorie] = true
		})
	})

	seen := map[string]int{}
	for _, bucket := range idx.Categories() {
		for _, produit := range bucket.Produits {
			seen[produit.ID]++
			assert.True(t, declared[produit.ID][bucket.Categorie], "produit %s hors de ses catégories déclarées", produit.ID)
		}
	}
	for id := range declared {
		assert.Equal(t, 1, seen[id], "produit %s", id)
	}
}
