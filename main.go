package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"brunch/internal/shared/config"
	"brunch/internal/shared/logging"
)

var (
	// Flags globaux
	configPath string
	verbose    bool
	assumeYes  bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd est la commande de base
var rootCmd = &cobra.Command{
	Use:   "brunch",
	Short: "Back-office Oh My Brunch: planning de production et administration",
	Long: `Back-office du traiteur Oh My Brunch.

Génère le planning de production (terminal, page HTML, export Excel) et
administre les produits, formules et commandes du backend REST.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log.Level, cfg.Log.Development, verbose)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	// Les quantités sortent en nombres JSON, comme le backend les envoie
	decimal.MarshalJSONWithoutQuotes = true

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Fichier de configuration (défaut: "+config.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Logs de debug")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(planningCmd)
	rootCmd.AddCommand(produitsCmd)
	rootCmd.AddCommand(formulesCmd)
	rootCmd.AddCommand(commandesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
