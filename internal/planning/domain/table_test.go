package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shareddomain "brunch/internal/shared/domain"
)

func texts(r Row) []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Text
	}
	return out
}

func rowFor(t *testing.T, table Table, nom string) Row {
	t.Helper()
	for _, ct := range table.Categories {
		for _, r := range ct.Rows {
			if r[0].Text == nom {
				return r
			}
		}
	}
	t.Fatalf("ligne %q introuvable", nom)
	return nil
}

func TestBuildTable_EmptyPlanning(t *testing.T) {
	p := mustPayload(t, `{"periode": {"debut": "2025-03-10", "fin": "2025-03-16"}, "commandes_count": 0, "planning": {}}`)

	_, err := BuildTable(p, true)
	assert.ErrorIs(t, err, ErrAucuneCommande)
}

func TestBuildTable_WithTotals(t *testing.T) {
	table, err := BuildTable(mustPayload(t, weekPayload), true)
	require.NoError(t, err)

	assert.Equal(t, "Planning de Production du 10/03/2025 au 12/03/2025", table.Titre)
	assert.Equal(t, 3, table.CommandesCount)
	assert.Equal(t, 3, table.ProduitsCount)
	assert.Equal(t, 9, table.Columns)
	require.Len(t, table.Categories, 2)
	assert.Equal(t, "Boissons", table.Categories[0].Categorie)

	h := table.Categories[1].Headers
	assert.Equal(t, []string{"Produit", "10/03\nLun", "11/03\nMar", "12/03\nMer", "TOTAL GÉNÉRAL"}, texts(h[0]))
	assert.Equal(t, []int{1, 3, 2, 2, 1}, []int{h[0][0].Span, h[0][1].Span, h[0][2].Span, h[0][3].Span, h[0][4].Span})
	assert.Equal(t, []string{
		"Client", "Dupont\n08:30", "Martin\n09:15", "TOTAL Lun",
		"Mairie de Saint-Germ\n12:00", "TOTAL Mar", "-", "-", "",
	}, texts(h[1]))

	assert.Equal(t, []string{"Croissant", "3", "2", "5", "80", "80", "-", "-", "85 pièce"}, texts(rowFor(t, table, "Croissant")))
	assert.Equal(t, []string{"Pain au chocolat", "-", "1.5", "1.5", "-", "-", "-", "-", "1.5 kg"}, texts(rowFor(t, table, "Pain au chocolat")))
	assert.Equal(t, []string{"Jus d'orange", "-", "-", "-", "4.3", "4.3", "-", "-", "4.3 L"}, texts(rowFor(t, table, "Jus d'orange")))

	for _, ct := range table.Categories {
		assert.Equal(t, table.Columns, ct.Headers[0].Width())
		assert.Equal(t, table.Columns, ct.Headers[1].Width())
		for _, r := range ct.Rows {
			assert.Equal(t, table.Columns, r.Width())
		}
	}
}

func TestBuildTable_WithoutTotals(t *testing.T) {
	table, err := BuildTable(mustPayload(t, weekPayload), false)
	require.NoError(t, err)

	assert.Equal(t, 5, table.Columns)
	h := table.Categories[1].Headers
	assert.Equal(t, []string{"Produit", "10/03\nLun", "11/03\nMar", "12/03\nMer"}, texts(h[0]))
	assert.Equal(t, []string{"Client", "Dupont\n08:30", "Martin\n09:15", "Mairie de Saint-Germ\n12:00", "-"}, texts(h[1]))
	assert.Equal(t, []string{"Croissant", "3", "2", "80", "-"}, texts(rowFor(t, table, "Croissant")))
}

func TestBuildTable_SourceAndKinds(t *testing.T) {
	table, err := BuildTable(mustPayload(t, weekPayload), true)
	require.NoError(t, err)

	row := rowFor(t, table, "Croissant")
	assert.Equal(t, KindLabel, row[0].Kind)
	assert.Equal(t, KindQuantity, row[1].Kind)
	assert.Equal(t, SourceFormule, row[1].Source)
	assert.Equal(t, SourceMixte, row[2].Source)
	assert.Equal(t, KindDayTotal, row[3].Kind)
	assert.Equal(t, KindPlaceholder, row[6].Kind)
	assert.Equal(t, KindGrandTotal, row[8].Kind)
}

// Scénario: une date, deux commandes (3 et 2), totaux affichés
func TestBuildTable_DayAndGrandTotal(t *testing.T) {
	p := mustPayload(t, `{
	  "periode": {"debut": "2025-03-14", "fin": "2025-03-14"},
	  "commandes_count": 2,
	  "planning": {"2025-03-14": {
	    "commandes": [
	      {"id": "a", "client": "A", "heure": "10:00", "produits": {"x": {"nom": "Brioche", "quantite": 3, "unite": "kg", "source": "formule"}}},
	      {"id": "b", "client": "B", "heure": "11:00", "produits": {"x": {"nom": "Brioche", "quantite": 2, "unite": "kg", "source": "formule"}}}
	    ],
	    "totaux": {"x": {"nom": "Brioche", "quantite": 5, "unite": "kg", "categorie": "Viennoiserie"}}
	  }}
	}`)

	table, err := BuildTable(p, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Brioche", "3", "2", "5", "5 kg"}, texts(rowFor(t, table, "Brioche")))
	assert.Equal(t, "TOTAL Ven", table.Categories[0].Headers[1][3].Text)
}

func TestBuildTable_ColspanProperty(t *testing.T) {
	p := mustPayload(t, weekPayload)
	for _, totaux := range []bool{true, false} {
		table, err := BuildTable(p, totaux)
		require.NoError(t, err)

		header := table.Categories[0].Headers[0]
		for i, date := range p.Dates() {
			entry, _ := p.Planning.Get(date)
			want := max(len(entry.Commandes), 1)
			if totaux {
				want++
			}
			assert.Equal(t, want, header[i+1].Span, "date %s totaux=%v", date, totaux)
		}
	}
}

func TestBuildTable_GrandTotalConsistency(t *testing.T) {
	p := mustPayload(t, weekPayload)
	table, err := BuildTable(p, true)
	require.NoError(t, err)

	for _, bucket := range BuildCategoryIndex(p).Categories() {
		for _, produit := range bucket.Produits {
			// somme des totaux par jour
			viaTotaux := decimal.Zero
			// somme des quantités de chaque commande
			viaCommandes := decimal.Zero
			p.Planning.Each(func(_ string, e Entry) {
				if total, ok := e.Totaux.Get(produit.ID); ok {
					viaTotaux = viaTotaux.Add(total.Quantite)
				}
				for _, c := range e.Commandes {
					if line, ok := c.Produits[produit.ID]; ok {
						viaCommandes = viaCommandes.Add(line.Quantite)
					}
				}
			})
			assert.True(t, viaTotaux.Equal(viaCommandes), produit.ID)

			total, err := shareddomain.NewQuantite(viaCommandes)
			require.NoError(t, err)
			row := rowFor(t, table, produit.Nom)
			assert.Equal(t, shareddomain.FormatTotal(total, produit.Unite), row[len(row)-1].Text)
		}
	}
}

func TestBuildTable_MalformedDate(t *testing.T) {
	p := mustPayload(t, `{
	  "periode": {"debut": "2025-03-10", "fin": "2025-03-10"},
	  "commandes_count": 1,
	  "planning": {"10-03-2025": {
	    "commandes": [{"id": "a", "client": "A", "heure": "", "produits": {"x": {"nom": "Café", "quantite": 2.5, "unite": "L"}}}],
	    "totaux": {"x": {"nom": "Café", "quantite": 2.5, "unite": "L", "categorie": "Boissons"}}
	  }}
	}`)

	table, err := BuildTable(p, true)
	require.NoError(t, err)

	h := table.Categories[0].Headers
	assert.Equal(t, "10-03-2025", h[0][1].Text)
	assert.Equal(t, []string{"Client", "A", "TOTAL", ""}, texts(h[1]))
	assert.Equal(t, []string{"Café", "2.5", "2.5", "2.5 L"}, texts(rowFor(t, table, "Café")))
}

func TestBuildTable_ZeroQuantityShowsPlaceholderTotals(t *testing.T) {
	p := mustPayload(t, `{
	  "periode": {"debut": "2025-03-10", "fin": "2025-03-10"},
	  "commandes_count": 1,
	  "planning": {"2025-03-10": {
	    "commandes": [{"id": "a", "client": "A", "heure": "09:00", "produits": {"x": {"nom": "Thé", "quantite": 0, "unite": "L"}}}],
	    "totaux": {"x": {"nom": "Thé", "quantite": 0, "unite": "L", "categorie": "Boissons"}}
	  }}
	}`)

	table, err := BuildTable(p, true)
	require.NoError(t, err)
	row := rowFor(t, table, "Thé")
	assert.Equal(t, []string{"Thé", "0", "-", "-"}, texts(row))
	assert.Equal(t, KindQuantity, row[1].Kind)
	assert.Equal(t, KindPlaceholder, row[2].Kind)
	assert.Equal(t, KindPlaceholder, row[3].Kind)
}

func TestBuildTable_NegativeQuantityIsSkipped(t *testing.T) {
	p := mustPayload(t, `{
	  "periode": {"debut": "2025-03-10", "fin": "2025-03-10"},
	  "commandes_count": 3,
	  "planning": {"2025-03-10": {
	    "commandes": [
	      {"id": "a", "client": "A", "heure": "09:00", "produits": {"x": {"nom": "Thé", "quantite": 0.1, "unite": "L"}}},
	      {"id": "b", "client": "B", "heure": "10:00", "produits": {"x": {"nom": "Thé", "quantite": 0.2, "unite": "L"}}},
	      {"id": "c", "client": "C", "heure": "11:00", "produits": {"x": {"nom": "Thé", "quantite": -1, "unite": "L"}}}
	    ],
	    "totaux": {"x": {"nom": "Thé", "quantite": -0.7, "unite": "L", "categorie": "Boissons"}}
	  }}
	}`)

	table, err := BuildTable(p, true)
	require.NoError(t, err)
	row := rowFor(t, table, "Thé")
	assert.Equal(t, []string{"Thé", "0.1", "0.2", "-", "0.3", "0.3 L"}, texts(row))
	assert.Equal(t, KindPlaceholder, row[3].Kind)
	assert.Equal(t, KindDayTotal, row[4].Kind)
	assert.Equal(t, KindGrandTotal, row[5].Kind)
}

func BenchmarkBuildTable(b *testing.B) {
	p := mustPayload(b, weekPayload)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = BuildTable(p, true)
	}
}

func BenchmarkBuildCategoryIndex(b *testing.B) {
	p := mustPayload(b, weekPayload)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = BuildCategoryIndex(p)
	}
}
