package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	ordersdomain "brunch/internal/orders/domain"
	"brunch/internal/session"
	shareddomain "brunch/internal/shared/domain"
)

var (
	commandesFilters session.Filters
	commandesDate    string

	commandeInput    ordersdomain.CommandeInput
	commandeNotes    string
	commandeFormules []string
	commandeProduits []string
)

// commandesCmd administre le carnet de commandes
var commandesCmd = &cobra.Command{
	Use:     "commandes",
	Aliases: []string{"commande"},
	Short:   "Gestion des commandes",
}

var commandesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Liste les commandes (Aujourd'hui et Demain en évidence)",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch ordersdomain.DateFilter(commandesDate) {
		case ordersdomain.DateFilterAll, ordersdomain.DateFilterToday, ordersdomain.DateFilterTomorrow, ordersdomain.DateFilterWeek:
		default:
			return fmt.Errorf("filtre de date inconnu: %q (today, tomorrow, week)", commandesDate)
		}
		commandesFilters.Date = ordersdomain.DateFilter(commandesDate)

		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, cmd.ErrOrStderr(), logger)
		if err != nil {
			return err
		}
		defer a.Close()

		commandes, err := a.orders.ListCommandes(ctx, commandesFilters.Commandes())
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(commandes))
		for _, c := range commandes {
			rows = append(rows, []string{
				c.NomClient,
				strconv.Itoa(c.NombreCouverts),
				c.Badge,
				hourLabel(c.DeliveryHour),
				c.ID.String(),
			})
		}
		printTable(cmd.OutOrStdout(), []string{"Client", "Couverts", "Livraison", "Heure", "ID"}, rows,
			func(row int) bool { return row >= 0 && row < len(commandes) && commandes[row].Urgent })
		return nil
	},
}

var commandesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Affiche les formules et produits d'une commande",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, cmd.ErrOrStderr(), logger)
		if err != nil {
			return err
		}
		defer a.Close()

		detail, err := a.orders.Detail(ctx, id)
		if err != nil {
			return err
		}
		var modal session.ModalSession
		if err := modal.Open(ctx, a.client); err != nil {
			return err
		}
		defer modal.Close()

		formuleNames := make(map[string]string)
		for _, f := range modal.Formules() {
			formuleNames[f.ID.String()] = f.Name
		}
		produitNames := make(map[string]string)
		for _, p := range modal.Produits() {
			produitNames[p.ID.String()] = p.Name
		}

		rows := make([][]string, 0, len(detail.Formules)+len(detail.Produits))
		for _, f := range detail.Formules {
			rows = append(rows, []string{"formule", nameOr(formuleNames, f.FormuleID.String()),
				shareddomain.FormatNombre(f.QuantiteFinale), ""})
		}
		for _, p := range detail.Produits {
			rows = append(rows, []string{"suppl", nameOr(produitNames, p.ProduitID.String()),
				shareddomain.FormatNombre(p.Quantite), p.Unite})
		}
		printTable(cmd.OutOrStdout(), []string{"Ligne", "Nom", "Quantité", "Unité"}, rows, nil)
		return nil
	},
}

var commandesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Crée une commande avec ses formules et produits",
	Long: `Crée la commande, puis ses formules, puis ses produits en supplément,
une requête à la fois.

Exemple:
  brunch commandes create --client "Dupont" --couverts 12 --date 2025-03-14 --heure 10:30 \
    --formule "Brunch Classique" --produit "Jus d'orange:2:L"`,
	RunE: runCommandeCreate,
}

func runCommandeCreate(cmd *cobra.Command, args []string) error {
	in := commandeInput
	if commandeNotes != "" {
		notes := commandeNotes
		in.Notes = &notes
	}
	draft, err := ordersdomain.NewCommandeDraft(in)
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

	for _, raw := range commandeFormules {
		name, qty, _ := strings.Cut(raw, ":")
		f, ok := modal.Formule(strings.TrimSpace(name))
		if !ok {
			return fmt.Errorf("formule inconnue: %q", name)
		}
		var finale *decimal.Decimal
		if qty != "" {
			d, err := decimal.NewFromString(strings.TrimSpace(qty))
			if err != nil {
				return fmt.Errorf("quantité invalide dans %q: %w", raw, err)
			}
			finale = &d
		}
		if err := draft.AddFormule(f.ID, nil, finale); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
	}
	for _, raw := range commandeProduits {
		l, err := parseLigne(raw)
		if err != nil {
			return err
		}
		p, ok := modal.Produit(l.Nom)
		if !ok {
			return fmt.Errorf("produit inconnu: %q", l.Nom)
		}
		if err := draft.AddProduit(p.ID, l.Quantite, l.Unite); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
	}

	if _, err := a.orders.CreateCommandeWithLignes(ctx, draft); err != nil {
		reportPartialFailure(out, err)
		return err
	}
	return nil
}

var commandesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Supprime une commande",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := confirm(cmd, "Êtes-vous sûr de vouloir supprimer cette commande ?"); err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, cmd.OutOrStdout(), logger)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.orders.DeleteCommande(ctx, id)
	},
}

// hourLabel tronque HH:MM:SS en HH:MM
func hourLabel(h string) string {
	if len(h) > 5 {
		return h[:5]
	}
	return h
}

func nameOr(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return id
}

func init() {
	commandesListCmd.Flags().StringVarP(&commandesFilters.Search, "search", "s", "", "Recherche par client")
	commandesListCmd.Flags().StringVar(&commandesDate, "date", "", "Filtre de date: today, tomorrow, week")

	f := commandesCreateCmd.Flags()
	f.StringVar(&commandeInput.NomClient, "client", "", "Nom du client")
	f.IntVar(&commandeInput.NombreCouverts, "couverts", 1, "Nombre de couverts")
	f.StringVar(&commandeInput.DeliveryDate, "date", "", "Date de livraison (YYYY-MM-DD)")
	f.StringVar(&commandeInput.DeliveryHour, "heure", "", "Heure de livraison (HH:MM)")
	f.BoolVar(&commandeInput.Service, "service", false, "Service sur place")
	f.BoolVar(&commandeInput.AvecService, "avec-service", true, "Avec service")
	f.StringVar(&commandeNotes, "notes", "", "Notes")
	f.StringArrayVar(&commandeFormules, "formule", nil, "Formule commandée: nom[:quantité finale]")
	f.StringArrayVarP(&commandeProduits, "produit", "p", nil, "Produit en supplément: nom:quantité[:unité]")

	addYesFlag(commandesDeleteCmd)

	commandesCmd.AddCommand(commandesListCmd)
	commandesCmd.AddCommand(commandesShowCmd)
	commandesCmd.AddCommand(commandesCreateCmd)
	commandesCmd.AddCommand(commandesDeleteCmd)
}
