package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	catalogdomain "brunch/internal/catalog/domain"
	shareddomain "brunch/internal/shared/domain"
)

// ErrSessionFermee est retournée quand on manipule une session non ouverte
var ErrSessionFermee = errors.New("aucune saisie en cours")

// Loader charge les listes nécessaires à la saisie d'une formule
type Loader interface {
	ListProduits(ctx context.Context) ([]catalogdomain.Produit, error)
	ListFormules(ctx context.Context) ([]catalogdomain.Formule, error)
	ListUnites(ctx context.Context) ([]catalogdomain.Unite, error)
}

// ModalSession est l'état d'une saisie en cours: listes chargées et lignes en brouillon
// Une session est ouverte par Open et remise à zéro par Close
type ModalSession struct {
	mu       sync.Mutex
	open     bool
	produits []catalogdomain.Produit
	formules []catalogdomain.Formule
	unites   []catalogdomain.Unite
	draft    catalogdomain.FormuleDraft
}

// Open charge produits, formules et unités en parallèle
// Les trois chargements doivent réussir, sinon la session reste fermée
func (s *ModalSession) Open(ctx context.Context, loader Loader) error {
	var (
		produits []catalogdomain.Produit
		formules []catalogdomain.Formule
		unites   []catalogdomain.Unite
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		produits, err = loader.ListProduits(gctx)
		if err != nil {
			return fmt.Errorf("chargement des produits: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		formules, err = loader.ListFormules(gctx)
		if err != nil {
			return fmt.Errorf("chargement des formules: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		unites, err = loader.ListUnites(gctx)
		if err != nil {
			return fmt.Errorf("chargement des unités: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
	s.produits = produits
	s.formules = formules
	s.unites = unites
	s.draft.Reset()
	return nil
}

// IsOpen indique qu'une saisie est en cours
func (s *ModalSession) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Produits retourne les produits chargés à l'ouverture
func (s *ModalSession) Produits() []catalogdomain.Produit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.produits
}

// Formules retourne les formules chargées à l'ouverture
func (s *ModalSession) Formules() []catalogdomain.Formule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formules
}

// Unites retourne les unités chargées à l'ouverture
func (s *ModalSession) Unites() []catalogdomain.Unite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unites
}

// Produit retrouve un produit chargé par son nom, sans tenir compte de la casse ni des accents
func (s *ModalSession) Produit(name string) (catalogdomain.Produit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := shareddomain.Fold(name)
	for _, p := range s.produits {
		if shareddomain.Fold(p.Name) == key {
			return p, true
		}
	}
	return catalogdomain.Produit{}, false
}

// Formule retrouve une formule chargée par son nom
func (s *ModalSession) Formule(name string) (catalogdomain.Formule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := shareddomain.Fold(name)
	for _, f := range s.formules {
		if shareddomain.Fold(f.Name) == key {
			return f, true
		}
	}
	return catalogdomain.Formule{}, false
}

// Draft donne accès au brouillon de la session ouverte
func (s *ModalSession) Draft() (*catalogdomain.FormuleDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return nil, ErrSessionFermee
	}
	return &s.draft, nil
}

// Close ferme la session et oublie tout son état
func (s *ModalSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	s.produits = nil
	s.formules = nil
	s.unites = nil
	s.draft.Reset()
}
