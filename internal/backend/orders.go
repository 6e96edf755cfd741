package backend

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	ordersdomain "brunch/internal/orders/domain"
)

// ListCommandes retourne toutes les commandes
func (c *Client) ListCommandes(ctx context.Context) ([]ordersdomain.Commande, error) {
	var out []ordersdomain.Commande
	if err := c.get(ctx, "/commandes/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCommande crée une commande
func (c *Client) CreateCommande(ctx context.Context, in ordersdomain.CommandeInput) (ordersdomain.Commande, error) {
	var out ordersdomain.Commande
	err := c.do(ctx, http.MethodPost, "/commandes/", nil, in, &out)
	return out, err
}

// DeleteCommande supprime une commande
func (c *Client) DeleteCommande(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/commandes/"+id.String()+"/", nil, nil, nil)
}

// ListCommandeFormules retourne les formules d'une commande
func (c *Client) ListCommandeFormules(ctx context.Context, commandeID uuid.UUID) ([]ordersdomain.CommandeFormule, error) {
	var out []ordersdomain.CommandeFormule
	if err := c.get(ctx, "/commande-formules/commande/"+commandeID.String()+"/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCommandeFormule ajoute une formule à une commande
func (c *Client) CreateCommandeFormule(ctx context.Context, in ordersdomain.CommandeFormuleInput) (ordersdomain.CommandeFormule, error) {
	var out ordersdomain.CommandeFormule
	err := c.do(ctx, http.MethodPost, "/commande-formules/", nil, in, &out)
	return out, err
}

// DeleteCommandeFormule retire une formule d'une commande
func (c *Client) DeleteCommandeFormule(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/commande-formules/"+itoa(id)+"/", nil, nil, nil)
}

// ListCommandeProduits retourne les produits en supplément d'une commande
func (c *Client) ListCommandeProduits(ctx context.Context, commandeID uuid.UUID) ([]ordersdomain.CommandeProduit, error) {
	var out []ordersdomain.CommandeProduit
	if err := c.get(ctx, "/commande-produits/commande/"+commandeID.String()+"/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCommandeProduit ajoute un produit à une commande
func (c *Client) CreateCommandeProduit(ctx context.Context, in ordersdomain.CommandeProduitInput) (ordersdomain.CommandeProduit, error) {
	var out ordersdomain.CommandeProduit
	err := c.do(ctx, http.MethodPost, "/commande-produits/", nil, in, &out)
	return out, err
}

// DeleteCommandeProduit retire un produit d'une commande
func (c *Client) DeleteCommandeProduit(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/commande-produits/"+itoa(id)+"/", nil, nil, nil)
}

func itoa(id int) string {
	return strconv.Itoa(id)
}
