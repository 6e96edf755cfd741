package domain

import (
	"errors"

	shareddomain "brunch/internal/shared/domain"
)

// ErrAucuneCommande est retournée quand le planning ne contient aucune date
var ErrAucuneCommande = errors.New("aucune commande trouvée pour cette période")

// MessageAucuneCommande est affiché à la place d'un tableau vide
const MessageAucuneCommande = "Aucune commande trouvée pour cette période"

// CellKind décrit le rôle d'une cellule dans la grille
type CellKind int

const (
	KindLabel CellKind = iota
	KindDateHeader
	KindOrderHeader
	KindDayTotalHeader
	KindGrandTotalHeader
	KindQuantity
	KindDayTotal
	KindGrandTotal
	KindPlaceholder
	KindEmpty
)

// Cell est une cellule de la grille
// Text peut contenir un saut de ligne; Span est le nombre de colonnes couvertes
type Cell struct {
	Text   string   `json:"text"`
	Span   int      `json:"span,omitempty"`
	Kind   CellKind `json:"kind"`
	Source Source   `json:"source,omitempty"`
}

// Width retourne le nombre de colonnes occupées par la cellule
func (c Cell) Width() int {
	if c.Span < 1 {
		return 1
	}
	return c.Span
}

// Row est une ligne de la grille
type Row []Cell

// Width retourne le nombre de colonnes couvertes par la ligne
func (r Row) Width() int {
	w := 0
	for _, c := range r {
		w += c.Width()
	}
	return w
}

// CategoryTable est le tableau d'une catégorie: deux lignes d'en-tête puis une ligne par produit
type CategoryTable struct {
	Categorie string `json:"categorie"`
	Headers   [2]Row `json:"headers"`
	Rows      []Row  `json:"rows"`
}

// Table est la grille typée du planning, consommée par les rendus HTML, terminal et tableur
type Table struct {
	Titre          string          `json:"titre"`
	Periode        PeriodeDTO      `json:"periode"`
	CommandesCount int             `json:"commandes_count"`
	ProduitsCount  int             `json:"produits_count"`
	Categories     []CategoryTable `json:"categories"`
	Totaux         bool            `json:"totaux"`
	Columns        int             `json:"columns"`
}

type dateColumn struct {
	key       string
	label     string
	jour      string
	commandes []OrderSummary
}

// span retourne le nombre de colonnes de la date: max(commandes, 1) + 1 si totaux
func (d dateColumn) span(totaux bool) int {
	n := max(len(d.commandes), 1)
	if totaux {
		n++
	}
	return n
}

// BuildTable construit la grille du planning
// Un planning vide retourne ErrAucuneCommande
func BuildTable(p Payload, totaux bool) (Table, error) {
	if p.IsEmpty() {
		return Table{}, ErrAucuneCommande
	}

	dates := p.Dates()
	columns := make([]dateColumn, 0, len(dates))
	width := 1
	for _, key := range dates {
		entry, _ := p.Planning.Get(key)
		label, jour := dateLabel(key)
		col := dateColumn{key: key, label: label, jour: jour, commandes: entry.Commandes}
		columns = append(columns, col)
		width += col.span(totaux)
	}
	if totaux {
		width++
	}

	index := BuildCategoryIndex(p)
	table := Table{
		Titre:          Titre(p.Periode),
		Periode:        p.Periode,
		CommandesCount: p.CommandesCount,
		ProduitsCount:  index.ProductCount(),
		Totaux:         totaux,
		Columns:        width,
		Categories:     make([]CategoryTable, 0, index.Len()),
	}

	for _, bucket := range index.Categories() {
		ct := CategoryTable{
			Categorie: bucket.Categorie,
			Headers:   [2]Row{dateHeaderRow(columns, totaux), orderHeaderRow(columns, totaux)},
			Rows:      make([]Row, 0, len(bucket.Produits)),
		}
		for _, produit := range bucket.Produits {
			ct.Rows = append(ct.Rows, productRow(produit, columns, totaux))
		}
		table.Categories = append(table.Categories, ct)
	}

	return table, nil
}

func dateHeaderRow(columns []dateColumn, totaux bool) Row {
	row := Row{{Text: "Produit", Span: 1, Kind: KindLabel}}
	for _, col := range columns {
		row = append(row, Cell{Text: col.label, Span: col.span(totaux), Kind: KindDateHeader})
	}
	if totaux {
		row = append(row, Cell{Text: "TOTAL GÉNÉRAL", Span: 1, Kind: KindGrandTotalHeader})
	}
	return row
}

func orderHeaderRow(columns []dateColumn, totaux bool) Row {
	row := Row{{Text: "Client", Span: 1, Kind: KindLabel}}
	for _, col := range columns {
		if len(col.commandes) == 0 {
			row = append(row, placeholder())
			if totaux {
				row = append(row, placeholder())
			}
			continue
		}
		for _, cmd := range col.commandes {
			row = append(row, Cell{Text: orderLabel(cmd), Span: 1, Kind: KindOrderHeader})
		}
		if totaux {
			row = append(row, Cell{Text: dayTotalLabel(col.jour), Span: 1, Kind: KindDayTotalHeader})
		}
	}
	if totaux {
		row = append(row, Cell{Span: 1, Kind: KindEmpty})
	}
	return row
}

func productRow(produit IndexedProduct, columns []dateColumn, totaux bool) Row {
	row := Row{{Text: produit.Nom, Span: 1, Kind: KindLabel}}
	var general shareddomain.Quantite

	for _, col := range columns {
		if len(col.commandes) == 0 {
			row = append(row, placeholder())
			if totaux {
				row = append(row, placeholder())
			}
			continue
		}

		var jour shareddomain.Quantite
		for _, cmd := range col.commandes {
			line, ok := cmd.Produits[produit.ID]
			if !ok {
				row = append(row, placeholder())
				continue
			}
			// une quantité négative n'est pas produite
			q, err := shareddomain.NewQuantite(line.Quantite)
			if err != nil {
				row = append(row, placeholder())
				continue
			}
			jour = jour.Add(q)
			row = append(row, Cell{
				Text:   q.String(),
				Span:   1,
				Kind:   KindQuantity,
				Source: line.Source,
			})
		}
		general = general.Add(jour)

		if totaux {
			row = append(row, totalCell(jour, "", KindDayTotal))
		}
	}

	if totaux {
		row = append(row, totalCell(general, produit.Unite, KindGrandTotal))
	}
	return row
}

func totalCell(q shareddomain.Quantite, unite string, kind CellKind) Cell {
	text := shareddomain.FormatTotal(q, unite)
	if text == shareddomain.Placeholder {
		return placeholder()
	}
	return Cell{Text: text, Span: 1, Kind: kind}
}

func placeholder() Cell {
	return Cell{Text: shareddomain.Placeholder, Span: 1, Kind: KindPlaceholder}
}
