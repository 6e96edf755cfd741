package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"brunch/internal/orders/domain"
	sharedapp "brunch/internal/shared/application"
	"brunch/internal/shared/notify"
)

// Backend regroupe les appels REST utilisés par le carnet de commandes
type Backend interface {
	ListCommandes(ctx context.Context) ([]domain.Commande, error)
	CreateCommande(ctx context.Context, in domain.CommandeInput) (domain.Commande, error)
	DeleteCommande(ctx context.Context, id uuid.UUID) error

	ListCommandeFormules(ctx context.Context, commandeID uuid.UUID) ([]domain.CommandeFormule, error)
	CreateCommandeFormule(ctx context.Context, in domain.CommandeFormuleInput) (domain.CommandeFormule, error)
	DeleteCommandeFormule(ctx context.Context, id int) error

	ListCommandeProduits(ctx context.Context, commandeID uuid.UUID) ([]domain.CommandeProduit, error)
	CreateCommandeProduit(ctx context.Context, in domain.CommandeProduitInput) (domain.CommandeProduit, error)
	DeleteCommandeProduit(ctx context.Context, id int) error
}

// OrderService gère le carnet de commandes
type OrderService struct {
	backend  Backend
	sequence *sharedapp.Sequence
	notifier notify.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewOrderService crée une nouvelle instance de OrderService
func NewOrderService(backend Backend, sequence *sharedapp.Sequence, notifier notify.Notifier, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = &notify.Recorder{}
	}
	return &OrderService{
		backend:  backend,
		sequence: sequence,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock remplace l'horloge utilisée par les filtres de date
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// CommandeView est une commande avec son badge de date
type CommandeView struct {
	domain.Commande
	Badge  string `json:"badge"`
	Urgent bool   `json:"urgent"`
}

// ListCommandes retourne les commandes filtrées, avec leur badge de date
func (s *OrderService) ListCommandes(ctx context.Context, filter domain.CommandeFilter) ([]CommandeView, error) {
	commandes, err := s.backend.ListCommandes(ctx)
	if err != nil {
		return nil, fmt.Errorf("chargement des commandes: %w", err)
	}

	now := s.now()
	filtered := filter.Apply(commandes, now)
	views := make([]CommandeView, 0, len(filtered))
	for _, c := range filtered {
		badge, urgent := domain.DateBadge(c.DeliveryDate, now)
		views = append(views, CommandeView{Commande: c, Badge: badge, Urgent: urgent})
	}
	return views, nil
}

// CommandeDetail est une commande avec ses formules et ses suppléments
type CommandeDetail struct {
	Formules []domain.CommandeFormule `json:"formules"`
	Produits []domain.CommandeProduit `json:"produits"`
}

// Detail charge les formules et les produits d'une commande en parallèle
func (s *OrderService) Detail(ctx context.Context, id uuid.UUID) (CommandeDetail, error) {
	var detail CommandeDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		formules, err := s.backend.ListCommandeFormules(gctx, id)
		if err != nil {
			return fmt.Errorf("formules de la commande %s: %w", id, err)
		}
		detail.Formules = formules
		return nil
	})
	g.Go(func() error {
		produits, err := s.backend.ListCommandeProduits(gctx, id)
		if err != nil {
			return fmt.Errorf("produits de la commande %s: %w", id, err)
		}
		detail.Produits = produits
		return nil
	})
	if err := g.Wait(); err != nil {
		return CommandeDetail{}, err
	}
	return detail, nil
}

// CommandeCreation est le résultat d'une création de commande avec ses lignes
type CommandeCreation struct {
	Commande domain.Commande
	Formules []domain.CommandeFormule
	Produits []domain.CommandeProduit
	Outcomes []sharedapp.Outcome
}

// CreateCommandeWithLignes crée la commande, puis ses formules, puis ses suppléments
// Les requêtes partent une par une, dans cet ordre
func (s *OrderService) CreateCommandeWithLignes(ctx context.Context, draft *domain.CommandeDraft) (CommandeCreation, error) {
	var result CommandeCreation
	steps := []sharedapp.Step{{
		Name: "commande " + draft.Commande.NomClient,
		Run: func(ctx context.Context) error {
			commande, err := s.backend.CreateCommande(ctx, draft.Commande)
			if err != nil {
				return err
			}
			result.Commande = commande
			return nil
		},
		Compensate: func(ctx context.Context) error {
			return s.backend.DeleteCommande(ctx, result.Commande.ID)
		},
	}}

	for i, line := range draft.Formules() {
		var created domain.CommandeFormule
		steps = append(steps, sharedapp.Step{
			Name: fmt.Sprintf("formule %d (%s)", i+1, line.FormuleID),
			Run: func(ctx context.Context) error {
				cf, err := s.backend.CreateCommandeFormule(ctx, domain.CommandeFormuleInput{
					CommandeID:          result.Commande.ID,
					FormuleID:           line.FormuleID,
					QuantiteRecommandee: line.QuantiteRecommandee,
					QuantiteFinale:      line.QuantiteFinale,
				})
				if err != nil {
					return err
				}
				created = cf
				result.Formules = append(result.Formules, cf)
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.backend.DeleteCommandeFormule(ctx, created.ID)
			},
		})
	}

	for i, line := range draft.Produits() {
		var created domain.CommandeProduit
		steps = append(steps, sharedapp.Step{
			Name: fmt.Sprintf("produit %d (%s)", i+1, line.ProduitID),
			Run: func(ctx context.Context) error {
				cp, err := s.backend.CreateCommandeProduit(ctx, domain.CommandeProduitInput{
					CommandeID: result.Commande.ID,
					ProduitID:  line.ProduitID,
					Quantite:   line.Quantite,
					Unite:      line.Unite,
				})
				if err != nil {
					return err
				}
				created = cp
				result.Produits = append(result.Produits, cp)
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.backend.DeleteCommandeProduit(ctx, created.ID)
			},
		})
	}

	outcomes, err := s.sequence.Run(ctx, steps)
	result.Outcomes = outcomes
	if err != nil {
		s.notifier.Notify(notify.LevelError, "Erreur lors de la création de la commande.")
		return result, err
	}

	s.logger.Info("commande created",
		zap.String("commande_id", result.Commande.ID.String()),
		zap.Int("formules", len(result.Formules)),
		zap.Int("produits", len(result.Produits)),
	)
	s.notifier.Notify(notify.LevelSuccess, "Commande créée avec succès.")
	return result, nil
}

// DeleteCommande supprime une commande
func (s *OrderService) DeleteCommande(ctx context.Context, id uuid.UUID) error {
	if err := s.backend.DeleteCommande(ctx, id); err != nil {
		s.notifier.Notify(notify.LevelError, "Erreur lors de la suppression de la commande.")
		return fmt.Errorf("suppression de la commande %s: %w", id, err)
	}
	s.notifier.Notify(notify.LevelSuccess, "Commande supprimée avec succès.")
	return nil
}
