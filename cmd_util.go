package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	sharedapp "brunch/internal/shared/application"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	rowStyle    = lipgloss.NewStyle().Padding(0, 1)
	urgentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C62828")).Padding(0, 1)
)

// errAnnule est retournée quand l'utilisateur refuse une suppression
var errAnnule = errors.New("opération annulée")

// confirm demande une confirmation sur l'entrée de la commande, sauf avec --yes
func confirm(cmd *cobra.Command, question string) error {
	if assumeYes {
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [o/N] ", question)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "o", "oui", "y", "yes":
		return nil
	default:
		return errAnnule
	}
}

// addYesFlag ajoute --yes aux commandes de suppression
func addYesFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Ne pas demander de confirmation")
}

// printTable écrit une liste sous forme de tableau
// highlight marque les lignes à mettre en évidence
func printTable(w io.Writer, headers []string, rows [][]string, highlight func(row int) bool) {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case highlight != nil && highlight(row):
				return urgentStyle
			default:
				return rowStyle
			}
		})
	fmt.Fprintln(w, tbl.String())
}

// parseID lit un identifiant uuid passé en argument
func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("identifiant invalide %q", s)
	}
	return id, nil
}

// ligneSpec est une ligne saisie en ligne de commande: nom:quantité[:unité]
type ligneSpec struct {
	Nom      string
	Quantite decimal.Decimal
	Unite    string
}

func parseLigne(s string) (ligneSpec, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" {
		return ligneSpec{}, fmt.Errorf("ligne invalide %q, attendu nom:quantité[:unité]", s)
	}
	qty, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return ligneSpec{}, fmt.Errorf("quantité invalide dans %q: %w", s, err)
	}
	l := ligneSpec{Nom: strings.TrimSpace(parts[0]), Quantite: qty}
	if len(parts) == 3 {
		l.Unite = strings.TrimSpace(parts[2])
	}
	return l, nil
}

// reportPartialFailure détaille une création interrompue
func reportPartialFailure(w io.Writer, err error) {
	var pf *sharedapp.PartialFailureError
	if !errors.As(err, &pf) {
		return
	}
	fmt.Fprintf(w, "Étape en échec: %s\n", pf.FailedStep)
	if len(pf.Completed) > 0 {
		fmt.Fprintf(w, "Étapes réussies: %s\n", strings.Join(pf.Completed, ", "))
	}
	if len(pf.Compensated) > 0 {
		fmt.Fprintf(w, "Étapes annulées: %s\n", strings.Join(pf.Compensated, ", "))
	}
	if dangling := pf.Dangling(); len(dangling) > 0 {
		fmt.Fprintf(w, "Enregistrements restés en place: %s\n", strings.Join(dangling, ", "))
	}
}

func optionalID(cmd *cobra.Command, name string, v int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}
