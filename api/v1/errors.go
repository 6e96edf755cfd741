package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"brunch/internal/backend"
	catalogdomain "brunch/internal/catalog/domain"
	planning "brunch/internal/planning/domain"
	sharedapp "brunch/internal/shared/application"
	shareddomain "brunch/internal/shared/domain"
)

// errorResponse est le corps JSON de toutes les erreurs
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	// Renseignés pour une création en plusieurs étapes interrompue
	FailedStep  string   `json:"failed_step,omitempty"`
	Completed   []string `json:"completed,omitempty"`
	Compensated []string `json:"compensated,omitempty"`
	Dangling    []string `json:"dangling,omitempty"`
}

// badRequest marque une erreur de saisie (paramètre absent ou mal formé)
type badRequest struct {
	err error
}

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

// statusOf traduit une erreur en code HTTP
//   - saisie invalide → 400
//   - aucune commande → 404
//   - erreur du backend → son propre code
//   - backend injoignable → 502
//   - le reste → 500
func statusOf(err error) int {
	var (
		verr      *catalogdomain.ValidationError
		bad       badRequest
		apiErr    *backend.APIError
		transport *backend.TransportError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &bad),
		errors.Is(err, shareddomain.ErrPeriodeIncomplete), errors.Is(err, shareddomain.ErrPeriodeInvalide):
		return http.StatusBadRequest
	case errors.Is(err, planning.ErrAucuneCommande):
		return http.StatusNotFound
	case errors.As(err, &apiErr):
		return apiErr.Status
	case errors.As(err, &transport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	body := errorResponse{Error: err.Error()}

	var verr *catalogdomain.ValidationError
	if errors.As(err, &verr) {
		body.Error = verr.Message
		body.Field = verr.Field
	}
	if errors.Is(err, planning.ErrAucuneCommande) {
		body.Error = planning.MessageAucuneCommande
	}

	var perr *sharedapp.PartialFailureError
	if errors.As(err, &perr) {
		body.FailedStep = perr.FailedStep
		body.Completed = perr.Completed
		body.Compensated = perr.Compensated
		body.Dangling = perr.Dangling()
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
