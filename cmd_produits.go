package main

import (
	"github.com/spf13/cobra"

	catalogdomain "brunch/internal/catalog/domain"
	"brunch/internal/session"
)

var (
	produitsFilters session.Filters
	produitCategory int
	produitType     int
)

// produitsCmd administre les produits du catalogue
var produitsCmd = &cobra.Command{
	Use:     "produits",
	Aliases: []string{"produit"},
	Short:   "Gestion des produits",
}

var produitsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Liste les produits (recherche sans accents, filtres catégorie et type)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, cmd.ErrOrStderr(), logger)
		if err != nil {
			return err
		}
		defer a.Close()

		produitsFilters.CategorieID = optionalID(cmd, "categorie", produitCategory)
		produitsFilters.TypeID = optionalID(cmd, "type", produitType)

		refs, err := a.catalog.References(ctx)
		if err != nil {
			return err
		}
		produits, err := a.catalog.ListProduits(ctx, produitsFilters.Produits())
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(produits))
		for _, p := range produits {
			rows = append(rows, []string{p.Name, refs.CategorieName(p.CategorieID), refs.TypeName(p.TypeID), p.ID.String()})
		}
		printTable(cmd.OutOrStdout(), []string{"Produit", "Catégorie", "Type", "ID"}, rows, nil)
		return nil
	},
}

var produitsCreateCmd = &cobra.Command{
	Use:   "create <nom>",
	Short: "Crée un produit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := catalogdomain.NewProduitInput(args[0],
			optionalID(cmd, "categorie", produitCategory),
			optionalID(cmd, "type", produitType))
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, cmd.OutOrStdout(), logger)
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = a.catalog.CreateProduit(ctx, in)
		return err
	},
}

var produitsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Supprime un produit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := confirm(cmd, "Êtes-vous sûr de vouloir supprimer ce produit ?"); err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, cmd.OutOrStdout(), logger)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.catalog.DeleteProduit(ctx, id)
	},
}

func init() {
	produitsListCmd.Flags().StringVarP(&produitsFilters.Search, "search", "s", "", "Recherche par nom")
	produitsListCmd.Flags().IntVar(&produitCategory, "categorie", 0, "Filtre par catégorie (id)")
	produitsListCmd.Flags().IntVar(&produitType, "type", 0, "Filtre par type (id)")

	produitsCreateCmd.Flags().IntVar(&produitCategory, "categorie", 0, "Catégorie (id)")
	produitsCreateCmd.Flags().IntVar(&produitType, "type", 0, "Type (id)")

	addYesFlag(produitsDeleteCmd)

	produitsCmd.AddCommand(produitsListCmd)
	produitsCmd.AddCommand(produitsCreateCmd)
	produitsCmd.AddCommand(produitsDeleteCmd)
}
