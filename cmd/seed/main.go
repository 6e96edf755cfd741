package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"brunch/database"
	"brunch/internal/shared/config"
	"brunch/internal/shared/logging"
)

var (
	configPath string
	days       int
	start      string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Remplit la base PostgreSQL avec le catalogue et des commandes de démonstration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Charge brunch.yaml, .env et l'environnement
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("configuration: %w", err)
		}
		logger, err := logging.New(cfg.Log.Level, cfg.Log.Development, false)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		if days <= 0 {
			days = envInt("SEED_DAYS", 14)
		}
		if err := run(cmd.Context(), cfg, days, start, logger); err != nil {
			logger.Error("seed failed", zap.Error(err))
			return fmt.Errorf("erreur lors du seed: %w", err)
		}
		return nil
	},
}

func main() {
	seedCmd.Flags().StringVarP(&configPath, "config", "c", "", "Fichier de configuration")
	seedCmd.Flags().IntVar(&days, "days", 0, "Nombre de jours de commandes (défaut: SEED_DAYS ou 14)")
	seedCmd.Flags().StringVar(&start, "start", "", "Premier jour de livraison (YYYY-MM-DD), défaut: aujourd'hui")

	if err := seedCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, days int, start string, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	opts := database.SeedOptions{Start: time.Now(), Days: days}
	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return fmt.Errorf("date de début invalide %q: %w", start, err)
		}
		opts.Start = t
	}

	// Connexion PostgreSQL
	db, err := database.Open(ctx, cfg.Database.ConnString())
	if err != nil {
		return err
	}
	defer db.Close()
	fmt.Println("✅ Connexion PostgreSQL établie")

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	fmt.Println("🌱 Démarrage du seed de la base de données...")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	res, err := database.SeedDatabase(ctx, db, opts, logger)
	if err != nil {
		return err
	}
	fmt.Printf("   %d produits, %d formules, %d commandes sur %d jours\n", res.Produits, res.Formules, res.Commandes, days)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("✅ Seed terminé avec succès!")
	fmt.Println()
	fmt.Println("Vous pouvez maintenant générer le planning depuis la base:")
	fmt.Println("  BRUNCH_PLANNING_SOURCE=postgres brunch planning")
	return nil
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
