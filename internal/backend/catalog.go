package backend

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	catalogdomain "brunch/internal/catalog/domain"
)

// ListProduits retourne tous les produits
func (c *Client) ListProduits(ctx context.Context) ([]catalogdomain.Produit, error) {
	var out []catalogdomain.Produit
	if err := c.get(ctx, "/produits/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProduit crée un produit
func (c *Client) CreateProduit(ctx context.Context, in catalogdomain.ProduitInput) (catalogdomain.Produit, error) {
	var out catalogdomain.Produit
	err := c.do(ctx, http.MethodPost, "/produits/", nil, in, &out)
	return out, err
}

// UpdateProduit modifie un produit
func (c *Client) UpdateProduit(ctx context.Context, id uuid.UUID, in catalogdomain.ProduitInput) (catalogdomain.Produit, error) {
	var out catalogdomain.Produit
	err := c.do(ctx, http.MethodPatch, "/produits/"+id.String(), nil, in, &out)
	return out, err
}

// DeleteProduit supprime un produit
func (c *Client) DeleteProduit(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/produits/"+id.String()+"/", nil, nil, nil)
}

// ListFormules retourne toutes les formules
func (c *Client) ListFormules(ctx context.Context) ([]catalogdomain.Formule, error) {
	var out []catalogdomain.Formule
	if err := c.get(ctx, "/formules/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateFormule crée une formule
func (c *Client) CreateFormule(ctx context.Context, in catalogdomain.FormuleInput) (catalogdomain.Formule, error) {
	var out catalogdomain.Formule
	err := c.do(ctx, http.MethodPost, "/formules/", nil, in, &out)
	return out, err
}

// UpdateFormule remplace une formule
func (c *Client) UpdateFormule(ctx context.Context, id uuid.UUID, in catalogdomain.FormuleInput) (catalogdomain.Formule, error) {
	var out catalogdomain.Formule
	err := c.do(ctx, http.MethodPut, "/formules/"+id.String(), nil, in, &out)
	return out, err
}

// DeleteFormule supprime une formule
func (c *Client) DeleteFormule(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/formules/"+id.String()+"/", nil, nil, nil)
}

// ListFormuleProduits retourne les lignes d'une formule
func (c *Client) ListFormuleProduits(ctx context.Context, formuleID uuid.UUID) ([]catalogdomain.FormuleProduit, error) {
	var out []catalogdomain.FormuleProduit
	if err := c.get(ctx, "/formule-produits/formule/"+formuleID.String()+"/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateFormuleProduit ajoute un produit à une formule
func (c *Client) CreateFormuleProduit(ctx context.Context, in catalogdomain.FormuleProduitInput) (catalogdomain.FormuleProduit, error) {
	var out catalogdomain.FormuleProduit
	err := c.do(ctx, http.MethodPost, "/formule-produits/", nil, in, &out)
	return out, err
}

// DeleteFormuleProduit retire un produit d'une formule
func (c *Client) DeleteFormuleProduit(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/formule-produits/"+itoa(id)+"/", nil, nil, nil)
}
