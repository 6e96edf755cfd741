package domain

import (
	"fmt"

	planning "brunch/internal/planning/domain"
)

// Largeurs de colonnes, en caractères
const (
	WidthProduit      = 25
	WidthData         = 12
	WidthTotalGeneral = 15
)

// CellStyle indique au writer comment mettre en forme une cellule
type CellStyle int

const (
	StyleNone CellStyle = iota
	StyleTitle
	StyleStats
	StyleCategory
	StyleLabel
	StyleHeader
	StyleQuantityFormule
	StyleQuantitySuppl
	StyleDayTotal
	StyleGrandTotal
	StylePlaceholder
)

// SheetCell est une cellule du tableur
type SheetCell struct {
	Text  string
	Style CellStyle
}

// SheetRow est une ligne du tableur, une ligne vide sert de séparateur
type SheetRow []SheetCell

// Merge est une fusion de cellules, indices à partir de zéro, bornes incluses
type Merge struct {
	Row    int
	Col    int
	EndRow int
	EndCol int
}

// SheetLayout décrit la feuille à écrire: lignes, fusions et largeurs de colonnes
type SheetLayout struct {
	SheetName string
	FileName  string
	Rows      []SheetRow
	Merges    []Merge
	ColWidths []float64
}

// AssembleSheet reproduit la grille du planning sous forme de lignes à plat
// titre, ligne vide, statistiques, ligne vide, puis pour chaque catégorie:
// titre de catégorie, deux lignes d'en-tête et une ligne par produit
func AssembleSheet(table planning.Table) SheetLayout {
	layout := SheetLayout{
		SheetName: SheetName,
		FileName:  FileName(table.Periode.Debut, table.Periode.Fin),
		ColWidths: columnWidths(table),
	}
	last := table.Columns - 1

	layout.Rows = append(layout.Rows, SheetRow{{Text: table.Titre, Style: StyleTitle}})
	layout.Merges = append(layout.Merges, Merge{Row: 0, Col: 0, EndRow: 0, EndCol: last})
	layout.Rows = append(layout.Rows, nil)
	layout.Rows = append(layout.Rows, SheetRow{
		{Text: fmt.Sprintf("%d commande(s)", table.CommandesCount), Style: StyleStats},
		{Text: fmt.Sprintf("%d catégorie(s)", len(table.Categories)), Style: StyleStats},
	})
	layout.Rows = append(layout.Rows, nil)

	for _, ct := range table.Categories {
		r := len(layout.Rows)
		layout.Rows = append(layout.Rows, SheetRow{{Text: "📦 " + ct.Categorie, Style: StyleCategory}})
		layout.Merges = append(layout.Merges, Merge{Row: r, Col: 0, EndRow: r, EndCol: last})

		for _, header := range ct.Headers {
			layout.appendRow(header)
		}
		for _, row := range ct.Rows {
			layout.appendRow(row)
		}
	}

	return layout
}

// appendRow déplie les cellules fusionnées: la première porte le texte, les suivantes restent vides
func (l *SheetLayout) appendRow(row planning.Row) {
	r := len(l.Rows)
	out := make(SheetRow, 0, row.Width())
	for _, cell := range row {
		col := len(out)
		out = append(out, SheetCell{Text: cell.Text, Style: styleOf(cell)})
		for i := 1; i < cell.Width(); i++ {
			out = append(out, SheetCell{Style: styleOf(cell)})
		}
		if cell.Width() > 1 {
			l.Merges = append(l.Merges, Merge{Row: r, Col: col, EndRow: r, EndCol: col + cell.Width() - 1})
		}
	}
	l.Rows = append(l.Rows, out)
}

func columnWidths(table planning.Table) []float64 {
	widths := make([]float64, table.Columns)
	for i := range widths {
		widths[i] = WidthData
	}
	widths[0] = WidthProduit
	if table.Totaux && table.Columns > 1 {
		widths[table.Columns-1] = WidthTotalGeneral
	}
	return widths
}

func styleOf(c planning.Cell) CellStyle {
	switch c.Kind {
	case planning.KindLabel:
		return StyleLabel
	case planning.KindDateHeader, planning.KindOrderHeader, planning.KindDayTotalHeader, planning.KindGrandTotalHeader:
		return StyleHeader
	case planning.KindQuantity:
		if c.Source == planning.SourceFormule {
			return StyleQuantityFormule
		}
		return StyleQuantitySuppl
	case planning.KindDayTotal:
		return StyleDayTotal
	case planning.KindGrandTotal:
		return StyleGrandTotal
	case planning.KindPlaceholder:
		return StylePlaceholder
	default:
		return StyleNone
	}
}
