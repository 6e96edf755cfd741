package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shareddomain "brunch/internal/shared/domain"
)

func intPtr(v int) *int { return &v }

func TestNewProduitInput(t *testing.T) {
	in, err := NewProduitInput("  Croissant ", intPtr(1), nil)
	require.NoError(t, err)
	assert.Equal(t, "Croissant", in.Name)

	_, err = NewProduitInput("   ", nil, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestNewFormuleInput(t *testing.T) {
	in, err := NewFormuleInput("Brunch du dimanche", 1, "")
	require.NoError(t, err)
	assert.Equal(t, TypeFormuleNonBrunch, in.TypeFormule)

	_, err = NewFormuleInput("Brunch", 0, TypeFormuleBrunch)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "nombre_couverts", verr.Field)
}

func TestFormuleDraft(t *testing.T) {
	var d FormuleDraft
	p1, p2 := uuid.New(), uuid.New()

	require.NoError(t, d.AddLine(p1, decimal.NewFromInt(2), "pièces"))
	require.NoError(t, d.AddLine(p2, decimal.RequireFromString("0.25"), "L"))

	var verr *ValidationError
	require.ErrorAs(t, d.AddLine(p1, decimal.NewFromInt(1), "pièces"), &verr)
	assert.Equal(t, "ce produit est déjà dans la formule", verr.Message)
	assert.Error(t, d.AddLine(uuid.New(), decimal.Zero, "pièces"))
	assert.Error(t, d.AddLine(uuid.Nil, decimal.NewFromInt(1), "pièces"))

	err := d.AddLine(uuid.New(), decimal.NewFromInt(-2), "pièces")
	assert.ErrorIs(t, err, shareddomain.ErrQuantiteNegative)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantite", verr.Field)
	assert.Equal(t, 2, d.Len())

	d.RemoveLine(p1)
	assert.Equal(t, []DraftLine{{ProduitID: p2, Quantite: decimal.RequireFromString("0.25"), Unite: "L"}}, d.Lines())

	require.NoError(t, d.Validate())
	d.Reset()
	assert.Equal(t, 0, d.Len())
	require.ErrorAs(t, d.Validate(), &verr)
	assert.Equal(t, "produits", verr.Field)
}

func TestProduitFilter(t *testing.T) {
	produits := []Produit{
		{ID: uuid.New(), Name: "Crème brûlée", CategorieID: intPtr(2), TypeID: intPtr(1)},
		{ID: uuid.New(), Name: "Croissant", CategorieID: intPtr(1), TypeID: intPtr(1)},
		{ID: uuid.New(), Name: "Quiche", CategorieID: intPtr(3)},
	}

	assert.Len(t, ProduitFilter{}.Apply(produits), 3)
	assert.Equal(t, "Crème brûlée", ProduitFilter{Search: "CREME"}.Apply(produits)[0].Name)
	assert.Len(t, ProduitFilter{CategorieID: intPtr(1)}.Apply(produits), 1)
	assert.Len(t, ProduitFilter{TypeID: intPtr(1)}.Apply(produits), 2)
	assert.Empty(t, ProduitFilter{Search: "cr", CategorieID: intPtr(3)}.Apply(produits))
}

func TestFormuleFilter(t *testing.T) {
	formules := []Formule{
		{Name: "Brunch Élégance", TypeFormule: TypeFormuleBrunch},
		{Name: "Cocktail", TypeFormule: TypeFormuleNonBrunch},
	}

	assert.Len(t, FormuleFilter{Search: "elegance"}.Apply(formules), 1)
	assert.Equal(t, "Cocktail", FormuleFilter{TypeFormule: TypeFormuleNonBrunch}.Apply(formules)[0].Name)
}

func TestReferences(t *testing.T) {
	refs := References{
		Categories: []Categorie{{ID: 1, Name: "Viennoiserie"}},
		Types:      []Type{{ID: 4, Name: "Sucré"}},
	}
	assert.Equal(t, "Viennoiserie", refs.CategorieName(intPtr(1)))
	assert.Equal(t, "", refs.CategorieName(intPtr(9)))
	assert.Equal(t, "Sucré", refs.TypeName(intPtr(4)))
	assert.Equal(t, "", refs.TypeName(nil))
}
