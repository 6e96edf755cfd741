package database

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"brunch/internal/shared/infrastructure"
)

// SeedOptions paramètre le jeu de démonstration
type SeedOptions struct {
	// Start est le premier jour de livraison généré
	Start time.Time
	// Days est le nombre de jours couverts par les commandes
	Days int
	// MaxCommandesParJour borne le nombre de commandes générées par jour
	MaxCommandesParJour int
	Rand                *rand.Rand
}

// SeedResult résume ce qui a été inséré
type SeedResult struct {
	Produits  int
	Formules  int
	Commandes int
}

var clients = []string{
	"Dupont", "Martin", "Mairie de Saint-Germain-en-Laye", "Agence Lumière", "Bérénice Durand",
	"Cabinet Moreau & Associés", "Lycée Victor Hugo", "Famille Nguyen", "Start-up Pollen", "Éléonore Petit",
}

var heures = []string{"07:30", "08:00", "08:30", "09:15", "10:00", "11:30", "12:00", "16:00"}

// SeedDatabase vide les tables puis insère le catalogue et les commandes de démonstration
// Tout est écrit dans une seule transaction
func SeedDatabase(ctx context.Context, db *sql.DB, opts SeedOptions, logger *zap.Logger) (SeedResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Days <= 0 {
		opts.Days = 7
	}
	if opts.MaxCommandesParJour <= 0 {
		opts.MaxCommandesParJour = 4
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	catalogue := DemoCatalogue()
	commandes := generateCommandes(catalogue, opts)

	var result SeedResult
	uow := infrastructure.NewUnitOfWork(db)
	err := uow.Execute(ctx, func(tx *sql.Tx) error {
		if err := Truncate(ctx, tx); err != nil {
			return fmt.Errorf("vidage des tables: %w", err)
		}

		categorieIDs, err := insertNames(ctx, tx, "categories", "name", catalogue.Categories)
		if err != nil {
			return fmt.Errorf("insertion des catégories: %w", err)
		}
		typeIDs, err := insertNames(ctx, tx, "types", "name", catalogue.Types)
		if err != nil {
			return fmt.Errorf("insertion des types: %w", err)
		}
		if _, err := insertNames(ctx, tx, "unite", "nom", catalogue.Unites); err != nil {
			return fmt.Errorf("insertion des unités: %w", err)
		}

		produitIDs, err := seedProduits(ctx, tx, catalogue.Produits, categorieIDs, typeIDs)
		if err != nil {
			return fmt.Errorf("insertion des produits: %w", err)
		}
		formuleIDs, err := seedFormules(ctx, tx, catalogue.Formules, produitIDs)
		if err != nil {
			return fmt.Errorf("insertion des formules: %w", err)
		}
		if err := seedCommandes(ctx, tx, commandes, formuleIDs, produitIDs); err != nil {
			return fmt.Errorf("insertion des commandes: %w", err)
		}

		result = SeedResult{Produits: len(produitIDs), Formules: len(formuleIDs), Commandes: len(commandes)}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	logger.Info("database seeded",
		zap.Int("produits", result.Produits),
		zap.Int("formules", result.Formules),
		zap.Int("commandes", result.Commandes),
		zap.String("debut", opts.Start.Format("2006-01-02")),
		zap.Int("jours", opts.Days),
	)
	return result, nil
}

// insertNames insère une table de référence (id, nom) et retourne nom → id
func insertNames(ctx context.Context, tx *sql.Tx, table, column string, names []string) (map[string]int, error) {
	ids := make(map[string]int, len(names))
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1) RETURNING id", table, column)
	for _, name := range names {
		var id int
		if err := tx.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
			return nil, err
		}
		ids[name] = id
	}
	return ids, nil
}

func seedProduits(ctx context.Context, tx *sql.Tx, produits []Produit, categorieIDs, typeIDs map[string]int) (map[string]uuid.UUID, error) {
	ids := make(map[string]uuid.UUID, len(produits))
	for _, p := range produits {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO produits (id, name, categorie_id, type_id)
			VALUES ($1, $2, $3, $4)
		`, p.ID, p.Name, nullableID(categorieIDs, p.Categorie), nullableID(typeIDs, p.Type))
		if err != nil {
			return nil, err
		}
		ids[p.Name] = p.ID
	}
	return ids, nil
}

func seedFormules(ctx context.Context, tx *sql.Tx, formules []Formule, produitIDs map[string]uuid.UUID) (map[string]uuid.UUID, error) {
	ids := make(map[string]uuid.UUID, len(formules))
	for _, f := range formules {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO formules (id, name, nombre_couverts, type_formule)
			VALUES ($1, $2, $3, $4)
		`, f.ID, f.Name, f.NombreCouverts, f.TypeFormule)
		if err != nil {
			return nil, err
		}
		for _, l := range f.Lignes {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO formule_produits (formule_id, produit_id, quantite, unite)
				VALUES ($1, $2, $3, $4)
			`, f.ID, produitIDs[l.Produit], l.Quantite, l.Unite)
			if err != nil {
				return nil, err
			}
		}
		ids[f.Name] = f.ID
	}
	return ids, nil
}

func seedCommandes(ctx context.Context, tx *sql.Tx, commandes []Commande, formuleIDs, produitIDs map[string]uuid.UUID) error {
	for _, c := range commandes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO carnet_commande (id, nom_client, nombre_couverts, service, delivery_date, delivery_hour, notes, avec_service)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, c.ID, c.NomClient, c.NombreCouverts, c.Service, c.DeliveryDate, c.DeliveryHour, c.Notes, c.AvecService)
		if err != nil {
			return err
		}
		for _, cf := range c.Formules {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO commande_formules (commande_id, formule_id, quantite_recommandee, quantite_finale)
				VALUES ($1, $2, $3, $4)
			`, c.ID, formuleIDs[cf.Formule], cf.QuantiteRecommandee, cf.QuantiteFinale)
			if err != nil {
				return err
			}
		}
		for _, cp := range c.Produits {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO commande_produits (commande_id, produit_id, quantite, unite)
				VALUES ($1, $2, $3, $4)
			`, c.ID, produitIDs[cp.Produit], cp.Quantite, cp.Unite)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// generateCommandes tire les commandes de démonstration jour par jour
func generateCommandes(catalogue Catalogue, opts SeedOptions) []Commande {
	rnd := opts.Rand
	var out []Commande
	for day := 0; day < opts.Days; day++ {
		date := opts.Start.AddDate(0, 0, day).Format("2006-01-02")
		n := rnd.Intn(opts.MaxCommandesParJour + 1)
		for i := 0; i < n; i++ {
			couverts := 3 + rnd.Intn(38)
			c := Commande{
				ID:             uuid.New(),
				NomClient:      clients[rnd.Intn(len(clients))],
				NombreCouverts: couverts,
				Service:        rnd.Intn(4) == 0,
				DeliveryDate:   date,
				DeliveryHour:   heures[rnd.Intn(len(heures))],
				AvecService:    rnd.Intn(2) == 0,
			}

			formule := catalogue.Formules[rnd.Intn(len(catalogue.Formules))]
			recommandee := decimal.NewFromInt(int64(couverts))
			finale := recommandee
			// un client sur trois ajuste la quantité
			if rnd.Intn(3) == 0 {
				finale = recommandee.Add(decimal.NewFromInt(int64(rnd.Intn(5) - 2)))
			}
			c.Formules = append(c.Formules, CommandeFormule{
				Formule:             formule.Name,
				QuantiteRecommandee: recommandee,
				QuantiteFinale:      finale,
			})

			if rnd.Intn(2) == 0 {
				p := catalogue.Produits[rnd.Intn(len(catalogue.Produits))]
				c.Produits = append(c.Produits, CommandeProduit{
					Produit:  p.Name,
					Quantite: decimal.NewFromInt(int64(1 + rnd.Intn(10))),
					Unite:    "pièce",
				})
			}
			out = append(out, c)
		}
	}
	return out
}

func nullableID(ids map[string]int, name string) sql.NullInt64 {
	id, ok := ids[name]
	if !ok {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(id), Valid: true}
}
