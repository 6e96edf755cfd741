package backend

import (
	"context"

	catalogdomain "brunch/internal/catalog/domain"
)

// ListCategories retourne les catégories de produits
func (c *Client) ListCategories(ctx context.Context) ([]catalogdomain.Categorie, error) {
	var out []catalogdomain.Categorie
	if err := c.get(ctx, "/categories/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTypes retourne les types de produits
func (c *Client) ListTypes(ctx context.Context) ([]catalogdomain.Type, error) {
	var out []catalogdomain.Type
	if err := c.get(ctx, "/types/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUnites retourne les unités de mesure
func (c *Client) ListUnites(ctx context.Context) ([]catalogdomain.Unite, error) {
	var out []catalogdomain.Unite
	if err := c.get(ctx, "/unite/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
