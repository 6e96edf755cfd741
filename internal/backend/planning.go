package backend

import (
	"context"
	"net/http"
	"net/url"

	planningdomain "brunch/internal/planning/domain"
)

// FetchPlanning appelle GET /planning/production
// Le corps est décodé en conservant l'ordre des dates et des produits
func (c *Client) FetchPlanning(ctx context.Context, q planningdomain.Query) (planningdomain.Payload, error) {
	params := url.Values{}
	params.Set("date_debut", q.Periode.DebutISO())
	params.Set("date_fin", q.Periode.FinISO())
	params.Set("type_formule", q.TypeFormule)

	raw, err := c.send(ctx, http.MethodGet, "/planning/production", params, nil)
	if err != nil {
		return planningdomain.Payload{}, err
	}
	return planningdomain.DecodePayload(raw)
}
