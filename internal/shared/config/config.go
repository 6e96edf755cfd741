package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath est le fichier de configuration lu quand --config n'est pas fourni
const DefaultPath = "brunch.yaml"

// Sources de planning supportées
const (
	PlanningSourceAPI      = "api"
	PlanningSourcePostgres = "postgres"
)

// Config regroupe toute la configuration de l'application
type Config struct {
	API      APIConfig      `yaml:"api"`
	Server   ServerConfig   `yaml:"server"`
	Planning PlanningConfig `yaml:"planning"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Saga     SagaConfig     `yaml:"saga"`
}

// APIConfig décrit le backend REST
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	// Timeout nul = pas de timeout côté client
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig décrit le serveur HTTP du back-office
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// PlanningConfig décrit la génération du planning
type PlanningConfig struct {
	Source         string        `yaml:"source"`
	AfficherTotaux bool          `yaml:"afficher_totaux"`
	ReferenceTTL   time.Duration `yaml:"reference_ttl"`
}

// DatabaseConfig décrit la connexion PostgreSQL (source "postgres" et seed)
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// LogConfig décrit le logger
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// SagaConfig décrit la politique des créations en plusieurs étapes
type SagaConfig struct {
	RollbackOnFailure bool `yaml:"rollback_on_failure"`
}

// Default retourne la configuration par défaut
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8000",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Planning: PlanningConfig{
			Source:         PlanningSourceAPI,
			AfficherTotaux: true,
			ReferenceTTL:   5 * time.Minute,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "brunch",
			Password: "brunch",
			Name:     "brunch",
			SSLMode:  "disable",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load construit la configuration: défauts, puis fichier YAML (optionnel),
// puis .env, puis variables d'environnement
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("lecture de %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// pas de fichier, on garde les défauts
	default:
		return nil, fmt.Errorf("lecture de %s: %w", path, err)
	}

	// .env optionnel, comme pour le seed
	_ = godotenv.Load()

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate vérifie la cohérence de la configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url est requis")
	}
	switch c.Planning.Source {
	case PlanningSourceAPI, PlanningSourcePostgres:
	default:
		return fmt.Errorf("planning.source inconnue: %q", c.Planning.Source)
	}
	return nil
}

// ConnString construit la chaîne de connexion lib/pq
func (d DatabaseConfig) ConnString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func (c *Config) applyEnvOverrides() {
	setString(&c.API.BaseURL, "BRUNCH_API_URL")
	setDuration(&c.API.Timeout, "BRUNCH_API_TIMEOUT")
	setString(&c.Server.Addr, "BRUNCH_ADDR")
	setString(&c.Planning.Source, "BRUNCH_PLANNING_SOURCE")
	setBool(&c.Planning.AfficherTotaux, "BRUNCH_AFFICHER_TOTAUX")
	setString(&c.Log.Level, "BRUNCH_LOG_LEVEL")
	setBool(&c.Saga.RollbackOnFailure, "BRUNCH_ROLLBACK_ON_FAILURE")

	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
