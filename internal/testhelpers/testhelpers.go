package testhelpers

import (
	"context"
	"database/sql"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"brunch/database"
	"brunch/internal/shared/config"
)

// TestContext contient les dépendances des tests d'intégration PostgreSQL
// Les repositories sont créés par les tests eux-mêmes pour éviter les import cycles
type TestContext struct {
	DB   *sql.DB
	Seed database.SeedResult
	// Start est le premier jour des commandes de démonstration
	Start time.Time
	Days  int
}

func connString() string {
	// Charger les variables d'environnement
	_ = godotenv.Load("../../../.env")

	cfg := config.Default().Database
	setFromEnv(&cfg.Host, "DB_HOST")
	setFromEnv(&cfg.Port, "DB_PORT")
	setFromEnv(&cfg.User, "DB_USER")
	setFromEnv(&cfg.Password, "DB_PASSWORD")
	setFromEnv(&cfg.Name, "DB_NAME")
	setFromEnv(&cfg.SSLMode, "DB_SSLMODE")
	return cfg.ConnString()
}

// SetupTestDB initialise une connexion à la base de données de test
func SetupTestDB(tb testing.TB) *sql.DB {
	tb.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.Open(ctx, connString())
	if err != nil {
		tb.Fatalf("Failed to open database: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(ctx, db); err != nil {
		tb.Fatalf("Failed to migrate database: %v", err)
	}
	return db
}

// SetupTestContext crée le schéma et insère un jeu de démonstration reproductible
func SetupTestContext(tb testing.TB) *TestContext {
	tb.Helper()

	tc := &TestContext{
		DB:    SetupTestDB(tb),
		Start: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Days:  7,
	}

	seed, err := database.SeedDatabase(context.Background(), tc.DB, database.SeedOptions{
		Start:               tc.Start,
		Days:                tc.Days,
		MaxCommandesParJour: 4,
		Rand:                rand.New(rand.NewSource(1)),
	}, nil)
	if err != nil {
		tb.Fatalf("Failed to seed database: %v", err)
	}
	tc.Seed = seed
	return tc
}

// SkipIfNoDatabase skip le test/benchmark si la DB n'est pas disponible
func SkipIfNoDatabase(tb testing.TB) {
	tb.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db, err := database.Open(ctx, connString())
	if err != nil {
		tb.Skip("Database not available:", err)
	}
	_ = db.Close()
}

func setFromEnv(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}
