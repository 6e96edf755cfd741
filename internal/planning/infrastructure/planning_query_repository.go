package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"brunch/internal/planning/domain"
	"brunch/internal/shared/infrastructure"
)

// PlanningQueryRepository construit le planning directement depuis la base du backend
// Une requête par table, les jointures sont faites en mémoire par domain.AssemblePlanning
type PlanningQueryRepository struct {
	infrastructure.BaseRepository
	uow    infrastructure.UnitOfWork
	logger *zap.Logger
}

// NewPlanningQueryRepository crée un nouveau repository de lecture pour le planning
func NewPlanningQueryRepository(db *sql.DB, logger *zap.Logger) *PlanningQueryRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanningQueryRepository{
		BaseRepository: infrastructure.NewBaseRepository(db),
		uow:            infrastructure.NewSnapshotUnitOfWork(db),
		logger:         logger,
	}
}

// WithContext retourne une copie du repository liée à ctx
func (r *PlanningQueryRepository) WithContext(ctx context.Context) *PlanningQueryRepository {
	return &PlanningQueryRepository{
		BaseRepository: r.BaseRepository.WithContext(ctx),
		uow:            r.uow,
		logger:         r.logger,
	}
}

// FetchPlanning charge les commandes de la période et assemble le payload
// Les six lectures se font dans une même transaction en lecture seule
func (r *PlanningQueryRepository) FetchPlanning(ctx context.Context, q domain.Query) (domain.Payload, error) {
	var src domain.PlanningSource
	err := r.uow.Execute(ctx, func(tx *sql.Tx) error {
		repo := r.WithContext(ctx)
		repo.BaseRepository = repo.BaseRepository.WithTx(tx)

		var err error
		src, err = repo.loadSource(q)
		return err
	})
	if err != nil {
		return domain.Payload{}, err
	}

	payload, warnings := domain.AssemblePlanning(src)
	for _, w := range warnings {
		r.logger.Warn("planning assembly", zap.String("warning", w))
	}
	return payload, nil
}

func (r *PlanningQueryRepository) loadSource(q domain.Query) (domain.PlanningSource, error) {
	src := domain.PlanningSource{
		Periode:     domain.PeriodeDTO{Debut: q.Periode.DebutISO(), Fin: q.Periode.FinISO()},
		TypeFormule: q.TypeFormule,
	}

	var err error
	if src.Commandes, err = r.findCommandes(q.Periode.DebutISO(), q.Periode.FinISO()); err != nil {
		return src, err
	}
	if len(src.Commandes) == 0 {
		return src, nil
	}

	commandeIDs := make([]string, len(src.Commandes))
	for i, c := range src.Commandes {
		commandeIDs[i] = c.ID
	}

	if src.CommandeFormules, err = r.findCommandeFormules(commandeIDs); err != nil {
		return src, err
	}
	if src.CommandeProduits, err = r.findCommandeProduits(commandeIDs); err != nil {
		return src, err
	}

	formuleIDs := uniq(len(src.CommandeFormules), func(yield func(string)) {
		for _, cf := range src.CommandeFormules {
			yield(cf.FormuleID)
		}
	})
	if src.Formules, err = r.findFormules(formuleIDs); err != nil {
		return src, err
	}
	if src.FormuleProduits, err = r.findFormuleProduits(formuleIDs); err != nil {
		return src, err
	}

	produitIDs := uniq(len(src.CommandeProduits)+len(src.FormuleProduits), func(yield func(string)) {
		for _, cp := range src.CommandeProduits {
			yield(cp.ProduitID)
		}
		for _, fp := range src.FormuleProduits {
			yield(fp.ProduitID)
		}
	})
	if src.Produits, err = r.findProduits(produitIDs); err != nil {
		return src, err
	}

	return src, nil
}

func (r *PlanningQueryRepository) findCommandes(debut, fin string) ([]domain.CommandeRecord, error) {
	query := `
		SELECT c.id::text, c.nom_client, to_char(c.delivery_date, 'YYYY-MM-DD'),
		       COALESCE(c.delivery_hour::text, ''), c.nombre_couverts
		FROM carnet_commande c
		WHERE c.delivery_date BETWEEN $1::date AND $2::date
		ORDER BY c.delivery_date, c.delivery_hour
	`
	rows, err := r.Query(query, debut, fin)
	if err != nil {
		return nil, fmt.Errorf("lecture des commandes: %w", err)
	}
	defer rows.Close()

	var out []domain.CommandeRecord
	for rows.Next() {
		var c domain.CommandeRecord
		if err := rows.Scan(&c.ID, &c.Client, &c.Date, &c.Heure, &c.Couverts); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PlanningQueryRepository) findCommandeFormules(commandeIDs []string) ([]domain.CommandeFormuleRecord, error) {
	query := `
		SELECT cf.commande_id::text, cf.formule_id::text, cf.quantite_finale
		FROM commande_formules cf
		WHERE cf.commande_id = ANY($1::uuid[])
		ORDER BY cf.id
	`
	rows, err := r.Query(query, pq.Array(commandeIDs))
	if err != nil {
		return nil, fmt.Errorf("lecture des formules commandées: %w", err)
	}
	defer rows.Close()

	var out []domain.CommandeFormuleRecord
	for rows.Next() {
		var (
			cf     domain.CommandeFormuleRecord
			finale decimal.NullDecimal
		)
		if err := rows.Scan(&cf.CommandeID, &cf.FormuleID, &finale); err != nil {
			return nil, err
		}
		cf.QuantiteFinale = finale.Decimal
		out = append(out, cf)
	}
	return out, rows.Err()
}

func (r *PlanningQueryRepository) findCommandeProduits(commandeIDs []string) ([]domain.CommandeProduitRecord, error) {
	query := `
		SELECT cp.commande_id::text, cp.produit_id::text, cp.quantite, COALESCE(cp.unite, '')
		FROM commande_produits cp
		WHERE cp.commande_id = ANY($1::uuid[])
		ORDER BY cp.id
	`
	rows, err := r.Query(query, pq.Array(commandeIDs))
	if err != nil {
		return nil, fmt.Errorf("lecture des produits commandés: %w", err)
	}
	defer rows.Close()

	var out []domain.CommandeProduitRecord
	for rows.Next() {
		var cp domain.CommandeProduitRecord
		if err := rows.Scan(&cp.CommandeID, &cp.ProduitID, &cp.Quantite, &cp.Unite); err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}

func (r *PlanningQueryRepository) findFormules(ids []string) (map[string]domain.FormuleRecord, error) {
	out := make(map[string]domain.FormuleRecord, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `
		SELECT f.id::text, f.name, f.type_formule
		FROM formules f
		WHERE f.id = ANY($1::uuid[])
	`
	rows, err := r.Query(query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("lecture des formules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f domain.FormuleRecord
		if err := rows.Scan(&f.ID, &f.Nom, &f.TypeFormule); err != nil {
			return nil, err
		}
		out[f.ID] = f
	}
	return out, rows.Err()
}

func (r *PlanningQueryRepository) findFormuleProduits(formuleIDs []string) ([]domain.FormuleProduitRecord, error) {
	if len(formuleIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT fp.formule_id::text, fp.produit_id::text, fp.quantite, COALESCE(fp.unite, '')
		FROM formule_produits fp
		WHERE fp.formule_id = ANY($1::uuid[])
		ORDER BY fp.id
	`
	rows, err := r.Query(query, pq.Array(formuleIDs))
	if err != nil {
		return nil, fmt.Errorf("lecture du contenu des formules: %w", err)
	}
	defer rows.Close()

	var out []domain.FormuleProduitRecord
	for rows.Next() {
		var fp domain.FormuleProduitRecord
		if err := rows.Scan(&fp.FormuleID, &fp.ProduitID, &fp.Quantite, &fp.Unite); err != nil {
			return nil, err
		}
		out = append(out, fp)
	}
	return out, rows.Err()
}

func (r *PlanningQueryRepository) findProduits(ids []string) (map[string]domain.ProduitRecord, error) {
	out := make(map[string]domain.ProduitRecord, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	// LEFT JOIN: un produit sans catégorie ni type reste dans le planning
	query := `
		SELECT p.id::text, p.name, COALESCE(c.name, ''), COALESCE(t.name, '')
		FROM produits p
		LEFT JOIN categories c ON c.id = p.categorie_id
		LEFT JOIN types t ON t.id = p.type_id
		WHERE p.id = ANY($1::uuid[])
	`
	rows, err := r.Query(query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("lecture des produits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.ProduitRecord
		if err := rows.Scan(&p.ID, &p.Nom, &p.Categorie, &p.Type); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// uniq collecte les identifiants distincts, dans l'ordre de première apparition
func uniq(capacity int, each func(yield func(string))) []string {
	seen := make(map[string]struct{}, capacity)
	out := make([]string, 0, capacity)
	each(func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	})
	return out
}
