package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	catalogdomain "brunch/internal/catalog/domain"
	"brunch/internal/session"
	shareddomain "brunch/internal/shared/domain"
)

var (
	formulesFilters session.Filters
	formuleCouverts int
	formuleType     string
	formuleProduits []string
)

// formulesCmd administre les formules
var formulesCmd = &cobra.Command{
	Use:     "formules",
	Aliases: []string{"formule"},
	Short:   "Gestion des formules",
}

var formulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Liste les formules",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, cmd.ErrOrStderr(), logger)
		if err != nil {
			return err
		}
		defer a.Close()

		formules, err := a.catalog.ListFormules(ctx, formulesFilters.Formules())
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(formules))
		for _, f := range formules {
			rows = append(rows, []string{f.Name, strconv.Itoa(f.NombreCouverts), f.TypeFormule, f.ID.String()})
		}
		printTable(cmd.OutOrStdout(), []string{"Formule", "Couverts", "Type", "ID"}, rows, nil)
		return nil
	},
}

var formulesCreateCmd = &cobra.Command{
	Use:   "create <nom> --produit nom:quantité[:unité]...",
	Short: "Crée une formule et ses produits",
	Long: `Crée la formule puis chacune de ses lignes, une requête à la fois.

Les produits sont désignés par leur nom (sans tenir compte de la casse ni
des accents), la quantité est par personne.

Exemple:
  brunch formules create "Brunch Classique" --couverts 1 --type Brunch \
    --produit "Croissant:1:pièce" --produit "Jus d'orange:0.25:L"`,
	Args: cobra.ExactArgs(1),
	RunE: runFormuleCreate,
}

func runFormuleCreate(cmd *cobra.Command, args []string) error {
	in, err := catalogdomain.NewFormuleInput(args[0], formuleCouverts, formuleType)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	a, err := newApp(ctx, cfg, out, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	var modal session.ModalSession
	if err := modal.Open(ctx, a.client); err != nil {
		return err
	}
	defer modal.Close()

	draft, err := modal.Draft()
	if err != nil {
		return err
	}
	for _, raw := range formuleProduits {
		l, err := parseLigne(raw)
		if err != nil {
			return err
		}
		p, ok := modal.Produit(l.Nom)
		if !ok {
			return fmt.Errorf("produit inconnu: %q", l.Nom)
		}
		if l.Unite != "" && !uniteConnue(modal.Unites(), l.Unite) {
			return fmt.Errorf("unité inconnue: %q", l.Unite)
		}
		if err := draft.AddLine(p.ID, l.Quantite, l.Unite); err != nil {
			return fmt.Errorf("%s: %w", l.Nom, err)
		}
	}

	created, err := a.catalog.CreateFormuleWithProduits(ctx, in, draft)
	if err != nil {
		reportPartialFailure(out, err)
		return err
	}
	logger.Debug("formule créée", zap.String("id", created.Formule.ID.String()))
	return nil
}

func uniteConnue(unites []catalogdomain.Unite, nom string) bool {
	key := shareddomain.Fold(nom)
	for _, u := range unites {
		if shareddomain.Fold(u.Nom) == key {
			return true
		}
	}
	return false
}

var formulesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Supprime une formule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := confirm(cmd, "Êtes-vous sûr de vouloir supprimer cette formule ?"); err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, cmd.OutOrStdout(), logger)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.catalog.DeleteFormule(ctx, id)
	},
}

func init() {
	formulesListCmd.Flags().StringVarP(&formulesFilters.Search, "search", "s", "", "Recherche par nom")
	formulesListCmd.Flags().StringVar(&formulesFilters.TypeFormule, "type", "", "Filtre par type de formule")

	formulesCreateCmd.Flags().IntVar(&formuleCouverts, "couverts", 1, "Nombre de couverts")
	formulesCreateCmd.Flags().StringVar(&formuleType, "type", catalogdomain.TypeFormuleNonBrunch, "Type de formule")
	formulesCreateCmd.Flags().StringArrayVarP(&formuleProduits, "produit", "p", nil, "Produit de la formule: nom:quantité[:unité]")

	addYesFlag(formulesDeleteCmd)

	formulesCmd.AddCommand(formulesListCmd)
	formulesCmd.AddCommand(formulesCreateCmd)
	formulesCmd.AddCommand(formulesDeleteCmd)
}
