package database

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCommandes(t *testing.T) {
	catalogue := DemoCatalogue()
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	opts := SeedOptions{Start: start, Days: 5, MaxCommandesParJour: 3, Rand: rand.New(rand.NewSource(42))}

	commandes := generateCommandes(catalogue, opts)

	formules := make(map[string]bool)
	for _, f := range catalogue.Formules {
		formules[f.Name] = true
	}
	produits := make(map[string]bool)
	for _, p := range catalogue.Produits {
		produits[p.Name] = true
	}

	assert.LessOrEqual(t, len(commandes), 15)
	for _, c := range commandes {
		d, err := time.Parse("2006-01-02", c.DeliveryDate)
		require.NoError(t, err)
		assert.False(t, d.Before(start))
		assert.True(t, d.Before(start.AddDate(0, 0, 5)))
		assert.GreaterOrEqual(t, c.NombreCouverts, 3)
		require.Len(t, c.Formules, 1)
		assert.True(t, formules[c.Formules[0].Formule])
		assert.True(t, c.Formules[0].QuantiteFinale.IsPositive())
		for _, cp := range c.Produits {
			assert.True(t, produits[cp.Produit])
		}
	}

	again := generateCommandes(catalogue, SeedOptions{Start: start, Days: 5, MaxCommandesParJour: 3, Rand: rand.New(rand.NewSource(42))})
	require.Len(t, again, len(commandes))
	for i := range commandes {
		assert.Equal(t, commandes[i].NomClient, again[i].NomClient)
		assert.Equal(t, commandes[i].DeliveryHour, again[i].DeliveryHour)
	}
}

func TestDemoCatalogueIsConsistent(t *testing.T) {
	catalogue := DemoCatalogue()

	names := make(map[string]bool)
	for _, p := range catalogue.Produits {
		assert.False(t, names[p.Name], "produit en double: %s", p.Name)
		names[p.Name] = true
	}
	for _, f := range catalogue.Formules {
		assert.NotEmpty(t, f.Lignes)
		for _, l := range f.Lignes {
			assert.True(t, names[l.Produit], "%s: produit inconnu %s", f.Name, l.Produit)
			assert.True(t, l.Quantite.IsPositive())
		}
	}
}
