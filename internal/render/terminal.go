package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	planning "brunch/internal/planning/domain"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4472C4"))
	categoryStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	statsStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#666666"))
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)

	kindStyles = map[planning.CellKind]lipgloss.Style{
		planning.KindQuantity:    lipgloss.NewStyle().Bold(true),
		planning.KindDayTotal:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B8860B")),
		planning.KindGrandTotal:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C0504D")),
		planning.KindPlaceholder: lipgloss.NewStyle().Foreground(lipgloss.Color("#999999")),
	}
)

// RenderTerminal écrit le planning sous forme de tableaux, un par catégorie
func RenderTerminal(w io.Writer, t planning.Table) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(t.Titre))
	b.WriteString("\n")
	b.WriteString(statsStyle.Render(fmt.Sprintf("%d commande(s) · %d catégorie(s)", t.CommandesCount, len(t.Categories))))
	b.WriteString("\n")

	for _, ct := range t.Categories {
		b.WriteString(categoryStyle.Render("📦 " + ct.Categorie))
		b.WriteString("\n")

		tbl := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(expand(ct.Headers[0])...).
			Row(expand(ct.Headers[1])...).
			StyleFunc(func(row, col int) lipgloss.Style { return cellStyle })
		for _, r := range ct.Rows {
			tbl.Row(expand(r)...)
		}
		b.WriteString(tbl.String())
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// expand déplie les cellules fusionnées et met les textes sur une ligne
func expand(r planning.Row) []string {
	out := make([]string, 0, r.Width())
	for _, c := range r {
		text := strings.ReplaceAll(c.Text, "\n", " ")
		if style, ok := kindStyles[c.Kind]; ok {
			text = style.Render(text)
		}
		out = append(out, text)
		for i := 1; i < c.Width(); i++ {
			out = append(out, "")
		}
	}
	return out
}
