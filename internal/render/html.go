package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	planning "brunch/internal/planning/domain"
)

//go:embed templates/*.html
var templates embed.FS

// PlanningView est la page de planning: le formulaire et, selon l'état, le tableau, un message ou une erreur
type PlanningView struct {
	Debut        string
	Fin          string
	TypeFormule  string
	TypesFormule []string
	Totaux       bool
	Table        *planning.Table
	Message      string
	Error        string
}

// HTMLRenderer rend le planning en HTML
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer charge les templates embarqués
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("planning.html").Funcs(template.FuncMap{
		"lines":     func(s string) []string { return strings.Split(s, "\n") },
		"cellClass": cellClass,
	}).ParseFS(templates, "templates/planning.html")
	if err != nil {
		return nil, fmt.Errorf("chargement des templates: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Render écrit la page de planning
func (r *HTMLRenderer) Render(w io.Writer, view PlanningView) error {
	return r.tmpl.Execute(w, view)
}

func cellClass(c planning.Cell) string {
	switch c.Kind {
	case planning.KindLabel:
		return "label"
	case planning.KindQuantity:
		if c.Source == planning.SourceFormule {
			return "qty-formule"
		}
		return "qty-suppl"
	case planning.KindDayTotal:
		return "day-total"
	case planning.KindGrandTotal:
		return "grand-total"
	case planning.KindPlaceholder:
		return "placeholder"
	default:
		return ""
	}
}
