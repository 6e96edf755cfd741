package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema reprend les tables du backend lues par le fournisseur de planning "postgres"
const Schema = `
CREATE TABLE IF NOT EXISTS categories (
	id   SERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS types (
	id   SERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS unite (
	id  SERIAL PRIMARY KEY,
	nom TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS produits (
	id           UUID PRIMARY KEY,
	name         TEXT UNIQUE NOT NULL,
	categorie_id INTEGER REFERENCES categories(id),
	type_id      INTEGER REFERENCES types(id)
);

CREATE TABLE IF NOT EXISTS formules (
	id              UUID PRIMARY KEY,
	name            TEXT NOT NULL,
	nombre_couverts INTEGER NOT NULL DEFAULT 1,
	type_formule    TEXT NOT NULL DEFAULT 'Non-Brunch'
);

CREATE TABLE IF NOT EXISTS formule_produits (
	id         SERIAL PRIMARY KEY,
	formule_id UUID NOT NULL REFERENCES formules(id) ON DELETE CASCADE,
	produit_id UUID NOT NULL REFERENCES produits(id),
	quantite   NUMERIC NOT NULL DEFAULT 0,
	unite      TEXT,
	UNIQUE (formule_id, produit_id)
);

CREATE TABLE IF NOT EXISTS carnet_commande (
	id              UUID PRIMARY KEY,
	nom_client      TEXT NOT NULL,
	nombre_couverts INTEGER NOT NULL DEFAULT 1,
	service         BOOLEAN NOT NULL DEFAULT FALSE,
	delivery_date   DATE NOT NULL,
	delivery_hour   TIME,
	notes           TEXT,
	avec_service    BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE INDEX IF NOT EXISTS idx_carnet_commande_delivery ON carnet_commande (delivery_date, delivery_hour);

CREATE TABLE IF NOT EXISTS commande_formules (
	id                   SERIAL PRIMARY KEY,
	commande_id          UUID NOT NULL REFERENCES carnet_commande(id) ON DELETE CASCADE,
	formule_id           UUID NOT NULL REFERENCES formules(id),
	quantite_recommandee NUMERIC,
	quantite_finale      NUMERIC,
	UNIQUE (commande_id, formule_id)
);

CREATE TABLE IF NOT EXISTS commande_produits (
	id          SERIAL PRIMARY KEY,
	commande_id UUID NOT NULL REFERENCES carnet_commande(id) ON DELETE CASCADE,
	produit_id  UUID NOT NULL REFERENCES produits(id),
	quantite    NUMERIC NOT NULL,
	unite       TEXT,
	UNIQUE (commande_id, produit_id)
);
`

// Migrate crée les tables absentes
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("création du schéma: %w", err)
	}
	return nil
}

// Truncate vide toutes les tables du planning
func Truncate(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		TRUNCATE commande_produits, commande_formules, carnet_commande,
		         formule_produits, formules, produits, unite, types, categories
		RESTART IDENTITY CASCADE
	`)
	return err
}
