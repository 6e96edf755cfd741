package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustPayload(t testing.TB, raw string) Payload {
	t.Helper()
	p, err := DecodePayload([]byte(raw))
	require.NoError(t, err)
	return p
}

// deux dates, deux commandes le lundi, une le mardi, une date sans commande
const weekPayload = `{
  "periode": {"debut": "2025-03-10", "fin": "2025-03-12"},
  "commandes_count": 3,
  "planning": {
    "2025-03-11": {
      "commandes": [
        {"id": "c3", "client": "Mairie de Saint-Germain-en-Laye", "heure": "12:00:00", "couverts": 40,
         "produits": {"p1": {"nom": "Croissant", "quantite": 80, "unite": "pièce", "categorie": "Viennoiserie", "type": "Sucré", "source": "formule"},
                      "p3": {"nom": "Jus d'orange", "quantite": 4.25, "unite": "L", "categorie": "Boissons", "type": "Boisson", "source": "suppl"}}}
      ],
      "totaux": {
        "p3": {"nom": "Jus d'orange", "quantite": 4.25, "unite": "L", "categorie": "Boissons", "type": "Boisson"},
        "p1": {"nom": "Croissant", "quantite": 80, "unite": "pièce", "categorie": "Viennoiserie", "type": "Sucré"}
      }
    },
    "2025-03-10": {
      "commandes": [
        {"id": "c1", "client": "Dupont", "heure": "08:30:00", "couverts": 10,
         "produits": {"p1": {"nom": "Croissant", "quantite": 3, "unite": "pièce", "categorie": "Viennoiserie", "type": "Sucré", "source": "formule"}}},
        {"id": "c2", "client": "Martin", "heure": "09:15:00", "couverts": 6,
         "produits": {"p1": {"nom": "Croissant", "quantite": 2, "unite": "pièce", "categorie": "Viennoiserie", "type": "Sucré", "source": "mixte"},
                      "p2": {"nom": "Pain au chocolat", "quantite": 1.5, "unite": "kg", "categorie": "Viennoiserie", "type": "Sucré", "source": "suppl"}}}
      ],
      "totaux": {
        "p1": {"nom": "Croissant", "quantite": 5, "unite": "pièce", "categorie": "Viennoiserie", "type": "Sucré"},
        "p2": {"nom": "Pain au chocolat", "quantite": 1.5, "unite": "kg", "categorie": "Viennoiserie", "type": "Sucré"}
      }
    },
    "2025-03-12": {"commandes": [], "totaux": {}}
  }
}`
