package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"brunch/internal/catalog/domain"
	sharedapp "brunch/internal/shared/application"
	sharedinfra "brunch/internal/shared/infrastructure"
	"brunch/internal/shared/notify"
)

// Clés du cache des listes de référence
const (
	cacheKeyCategories = "ref:categories"
	cacheKeyTypes      = "ref:types"
	cacheKeyUnites     = "ref:unites"
)

// Backend regroupe les appels REST utilisés par le catalogue
type Backend interface {
	ListProduits(ctx context.Context) ([]domain.Produit, error)
	CreateProduit(ctx context.Context, in domain.ProduitInput) (domain.Produit, error)
	UpdateProduit(ctx context.Context, id uuid.UUID, in domain.ProduitInput) (domain.Produit, error)
	DeleteProduit(ctx context.Context, id uuid.UUID) error

	ListFormules(ctx context.Context) ([]domain.Formule, error)
	CreateFormule(ctx context.Context, in domain.FormuleInput) (domain.Formule, error)
	UpdateFormule(ctx context.Context, id uuid.UUID, in domain.FormuleInput) (domain.Formule, error)
	DeleteFormule(ctx context.Context, id uuid.UUID) error

	ListFormuleProduits(ctx context.Context, formuleID uuid.UUID) ([]domain.FormuleProduit, error)
	CreateFormuleProduit(ctx context.Context, in domain.FormuleProduitInput) (domain.FormuleProduit, error)
	DeleteFormuleProduit(ctx context.Context, id int) error

	ListCategories(ctx context.Context) ([]domain.Categorie, error)
	ListTypes(ctx context.Context) ([]domain.Type, error)
	ListUnites(ctx context.Context) ([]domain.Unite, error)
}

// CatalogService gère les produits et les formules
type CatalogService struct {
	backend  Backend
	cache    sharedinfra.Cache
	ttl      time.Duration
	sequence *sharedapp.Sequence
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewCatalogService crée une nouvelle instance de CatalogService
func NewCatalogService(
	backend Backend,
	cache sharedinfra.Cache,
	ttl time.Duration,
	sequence *sharedapp.Sequence,
	notifier notify.Notifier,
	logger *zap.Logger,
) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = &notify.Recorder{}
	}
	return &CatalogService{
		backend:  backend,
		cache:    cache,
		ttl:      ttl,
		sequence: sequence,
		notifier: notifier,
		logger:   logger,
	}
}

// ListProduits retourne les produits filtrés
func (s *CatalogService) ListProduits(ctx context.Context, filter domain.ProduitFilter) ([]domain.Produit, error) {
	produits, err := s.backend.ListProduits(ctx)
	if err != nil {
		return nil, fmt.Errorf("chargement des produits: %w", err)
	}
	return filter.Apply(produits), nil
}

// CreateProduit crée un produit
func (s *CatalogService) CreateProduit(ctx context.Context, in domain.ProduitInput) (domain.Produit, error) {
	produit, err := s.backend.CreateProduit(ctx, in)
	if err != nil {
		s.notifier.Notify(notify.LevelError, "Erreur lors de l'ajout du produit.")
		return domain.Produit{}, fmt.Errorf("création du produit: %w", err)
	}
	s.notifier.Notify(notify.LevelSuccess, "Produit ajouté avec succès !")
	return produit, nil
}

// UpdateProduit modifie un produit
func (s *CatalogService) UpdateProduit(ctx context.Context, id uuid.UUID, in domain.ProduitInput) (domain.Produit, error) {
	produit, err := s.backend.UpdateProduit(ctx, id, in)
	if err != nil {
		s.notifier.Notify(notify.LevelError, "Erreur lors de la modification du produit.")
		return domain.Produit{}, fmt.Errorf("modification du produit %s: %w", id, err)
	}
	s.notifier.Notify(notify.LevelSuccess, "Produit modifié avec succès !")
	return produit, nil
}

// DeleteProduit supprime un produit
func (s *CatalogService) DeleteProduit(ctx context.Context, id uuid.UUID) error {
	if err := s.backend.DeleteProduit(ctx, id); err != nil {
		s.notifier.Notify(notify.LevelError, "Erreur lors de la suppression du produit.")
		return fmt.Errorf("suppression du produit %s: %w", id, err)
	}
	s.notifier.Notify(notify.LevelSuccess, "Produit supprimé avec succès !")
	return nil
}

// ListFormules retourne les formules filtrées
func (s *CatalogService) ListFormules(ctx context.Context, filter domain.FormuleFilter) ([]domain.Formule, error) {
	formules, err := s.backend.ListFormules(ctx)
	if err != nil {
		return nil, fmt.Errorf("chargement des formules: %w", err)
	}
	return filter.Apply(formules), nil
}

// FormuleProduits retourne le contenu d'une formule
func (s *CatalogService) FormuleProduits(ctx context.Context, formuleID uuid.UUID) ([]domain.FormuleProduit, error) {
	lines, err := s.backend.ListFormuleProduits(ctx, formuleID)
	if err != nil {
		return nil, fmt.Errorf("chargement des produits de la formule %s: %w", formuleID, err)
	}
	return lines, nil
}

// UpdateFormule modifie une formule
func (s *CatalogService) UpdateFormule(ctx context.Context, id uuid.UUID, in domain.FormuleInput) (domain.Formule, error) {
	formule, err := s.backend.UpdateFormule(ctx, id, in)
	if err != nil {
		s.notifier.Notify(notify.LevelError, "Erreur lors de la modification.")
		return domain.Formule{}, fmt.Errorf("modification de la formule %s: %w", id, err)
	}
	s.notifier.Notify(notify.LevelSuccess, "Formule modifiée avec succès !")
	return formule, nil
}

// DeleteFormule supprime une formule
func (s *CatalogService) DeleteFormule(ctx context.Context, id uuid.UUID) error {
	if err := s.backend.DeleteFormule(ctx, id); err != nil {
		s.notifier.Notify(notify.LevelError, "Erreur lors de la suppression de la formule.")
		return fmt.Errorf("suppression de la formule %s: %w", id, err)
	}
	s.notifier.Notify(notify.LevelSuccess, "Formule supprimée avec succès !")
	return nil
}

// AddFormuleProduit ajoute un produit à une formule existante
func (s *CatalogService) AddFormuleProduit(ctx context.Context, in domain.FormuleProduitInput) (domain.FormuleProduit, error) {
	line, err := s.backend.CreateFormuleProduit(ctx, in)
	if err != nil {
		s.notifier.Notify(notify.LevelError, "Erreur lors de l'ajout du produit.")
		return domain.FormuleProduit{}, fmt.Errorf("ajout du produit à la formule: %w", err)
	}
	return line, nil
}

// RemoveFormuleProduit retire une ligne d'une formule existante
func (s *CatalogService) RemoveFormuleProduit(ctx context.Context, id int) error {
	if err := s.backend.DeleteFormuleProduit(ctx, id); err != nil {
		s.notifier.Notify(notify.LevelError, "Erreur lors de la suppression du produit.")
		return fmt.Errorf("retrait de la ligne %d: %w", id, err)
	}
	return nil
}

// FormuleCreation est le résultat d'une création de formule avec ses produits
type FormuleCreation struct {
	Formule  domain.Formule
	Produits []domain.FormuleProduit
	Outcomes []sharedapp.Outcome
}

// CreateFormuleWithProduits crée la formule puis chacune de ses lignes, une requête à la fois
// Si une étape échoue, l'erreur est un *PartialFailureError et la politique de la séquence
// décide si les enregistrements déjà créés sont supprimés
func (s *CatalogService) CreateFormuleWithProduits(ctx context.Context, in domain.FormuleInput, draft *domain.FormuleDraft) (FormuleCreation, error) {
	if err := draft.Validate(); err != nil {
		return FormuleCreation{}, err
	}

	var result FormuleCreation
	steps := []sharedapp.Step{{
		Name: "formule " + in.Name,
		Run: func(ctx context.Context) error {
			formule, err := s.backend.CreateFormule(ctx, in)
			if err != nil {
				return err
			}
			result.Formule = formule
			return nil
		},
		Compensate: func(ctx context.Context) error {
			return s.backend.DeleteFormule(ctx, result.Formule.ID)
		},
	}}

	for i, line := range draft.Lines() {
		var created domain.FormuleProduit
		steps = append(steps, sharedapp.Step{
			Name: fmt.Sprintf("produit %d (%s)", i+1, line.ProduitID),
			Run: func(ctx context.Context) error {
				fp, err := s.backend.CreateFormuleProduit(ctx, domain.FormuleProduitInput{
					FormuleID: result.Formule.ID,
					ProduitID: line.ProduitID,
					Quantite:  line.Quantite,
					Unite:     line.Unite,
				})
				if err != nil {
					return err
				}
				created = fp
				result.Produits = append(result.Produits, fp)
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.backend.DeleteFormuleProduit(ctx, created.ID)
			},
		})
	}

	outcomes, err := s.sequence.Run(ctx, steps)
	result.Outcomes = outcomes
	if err != nil {
		s.notifier.Notify(notify.LevelError, "Erreur lors de la création de la formule.")
		return result, err
	}

	draft.Reset()
	s.logger.Info("formule created",
		zap.String("formule_id", result.Formule.ID.String()),
		zap.Int("produits", len(result.Produits)),
	)
	s.notifier.Notify(notify.LevelSuccess, fmt.Sprintf("Formule %q créée avec succès !", in.Name))
	return result, nil
}

// References retourne les catégories, types et unités, servis depuis le cache
func (s *CatalogService) References(ctx context.Context) (domain.References, error) {
	categories, err := sharedinfra.GetOrLoad(ctx, s.cache, cacheKeyCategories, s.ttl, s.backend.ListCategories)
	if err != nil {
		return domain.References{}, fmt.Errorf("chargement des catégories: %w", err)
	}
	types, err := sharedinfra.GetOrLoad(ctx, s.cache, cacheKeyTypes, s.ttl, s.backend.ListTypes)
	if err != nil {
		return domain.References{}, fmt.Errorf("chargement des types: %w", err)
	}
	unites, err := s.Unites(ctx)
	if err != nil {
		return domain.References{}, err
	}
	return domain.References{Categories: categories, Types: types, Unites: unites}, nil
}

// Unites retourne les unités de mesure, servies depuis le cache
func (s *CatalogService) Unites(ctx context.Context) ([]domain.Unite, error) {
	unites, err := sharedinfra.GetOrLoad(ctx, s.cache, cacheKeyUnites, s.ttl, s.backend.ListUnites)
	if err != nil {
		return nil, fmt.Errorf("chargement des unités: %w", err)
	}
	return unites, nil
}

// InvalidateReferences vide les listes de référence en cache
func (s *CatalogService) InvalidateReferences() {
	s.cache.Delete(cacheKeyCategories)
	s.cache.Delete(cacheKeyTypes)
	s.cache.Delete(cacheKeyUnites)
}
