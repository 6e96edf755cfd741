package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	catalogapp "brunch/internal/catalog/application"
	catalogdomain "brunch/internal/catalog/domain"
	ordersapp "brunch/internal/orders/application"
	ordersdomain "brunch/internal/orders/domain"
	planningapp "brunch/internal/planning/application"
	planning "brunch/internal/planning/domain"
	"brunch/internal/render"
	shareddomain "brunch/internal/shared/domain"
)

// Handlers contient tous les handlers HTTP du back-office
type Handlers struct {
	planning      *planningapp.PlanningService
	catalog       *catalogapp.CatalogService
	orders        *ordersapp.OrderService
	html          *render.HTMLRenderer
	logger        *zap.Logger
	defaultTotaux bool
	now           func() time.Time
}

// NewHandlers crée une nouvelle instance des handlers
func NewHandlers(
	planningService *planningapp.PlanningService,
	catalogService *catalogapp.CatalogService,
	orderService *ordersapp.OrderService,
	html *render.HTMLRenderer,
	defaultTotaux bool,
	logger *zap.Logger,
) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		planning:      planningService,
		catalog:       catalogService,
		orders:        orderService,
		html:          html,
		logger:        logger,
		defaultTotaux: defaultTotaux,
		now:           time.Now,
	}
}

// Routes construit le routeur chi
func (h *Handlers) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/planning", http.StatusFound)
	})
	r.Get("/planning", h.PlanningPage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/planning", h.GetPlanning)
		r.Get("/planning/export", h.ExportPlanning)
		r.Get("/references", h.GetReferences)

		r.Route("/produits", func(r chi.Router) {
			r.Get("/", h.ListProduits)
			r.Post("/", h.CreateProduit)
			r.Patch("/{id}", h.UpdateProduit)
			r.Delete("/{id}", h.DeleteProduit)
		})
		r.Route("/formules", func(r chi.Router) {
			r.Get("/", h.ListFormules)
			r.Post("/", h.CreateFormule)
			r.Put("/{id}", h.UpdateFormule)
			r.Delete("/{id}", h.DeleteFormule)
			r.Get("/{id}/produits", h.ListFormuleProduits)
		})
		r.Route("/commandes", func(r chi.Router) {
			r.Get("/", h.ListCommandes)
			r.Post("/", h.CreateCommande)
			r.Get("/{id}", h.GetCommande)
			r.Delete("/{id}", h.DeleteCommande)
		})
	})
	return r
}

// Health handler pour GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ============================================================================
// PLANNING
// ============================================================================

// planningQuery lit date_debut, date_fin, type_formule et totaux
func (h *Handlers) planningQuery(r *http.Request) (planning.Query, bool, error) {
	params := r.URL.Query()
	q, err := planning.NewQuery(params.Get("date_debut"), params.Get("date_fin"), params.Get("type_formule"))
	if err != nil {
		if errors.Is(err, shareddomain.ErrPeriodeIncomplete) || errors.Is(err, shareddomain.ErrPeriodeInvalide) {
			return planning.Query{}, false, err
		}
		return planning.Query{}, false, badRequest{err}
	}

	totaux := h.defaultTotaux
	if v := params.Get("totaux"); v != "" {
		totaux, err = strconv.ParseBool(v)
		if err != nil {
			return planning.Query{}, false, badRequest{fmt.Errorf("totaux invalide %q", v)}
		}
	}
	return q, totaux, nil
}

// planningResponse est la réponse JSON de GET /api/planning
type planningResponse struct {
	Payload planning.Payload `json:"payload"`
	Table   planning.Table   `json:"table"`
}

// GetPlanning handler pour GET /api/planning
func (h *Handlers) GetPlanning(w http.ResponseWriter, r *http.Request) {
	q, totaux, err := h.planningQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	gen, err := h.planning.Generate(r.Context(), q, totaux)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, planningResponse{Payload: gen.Payload, Table: gen.Table})
}

// ExportPlanning handler pour GET /api/planning/export
func (h *Handlers) ExportPlanning(w http.ResponseWriter, r *http.Request) {
	q, totaux, err := h.planningQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	gen, err := h.planning.Generate(r.Context(), q, totaux)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	export, err := h.planning.Export(gen)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Data)))
	_, _ = w.Write(export.Data)
}

// PlanningPage handler pour GET /planning
// Sans paramètre de date, le formulaire est affiché avec la période par défaut
func (h *Handlers) PlanningPage(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	defaults := shareddomain.DefaultPeriode(h.now())
	view := render.PlanningView{
		Debut:        defaults.DebutISO(),
		Fin:          defaults.FinISO(),
		TypeFormule:  planning.TypeFormuleToutes,
		TypesFormule: []string{planning.TypeFormuleToutes, catalogdomain.TypeFormuleBrunch, catalogdomain.TypeFormuleNonBrunch},
		Totaux:       h.defaultTotaux,
	}

	status := http.StatusOK
	if params.Has("date_debut") || params.Has("date_fin") {
		view.Debut = params.Get("date_debut")
		view.Fin = params.Get("date_fin")
		if tf := params.Get("type_formule"); tf != "" {
			view.TypeFormule = tf
		}
		// une case décochée n'est pas envoyée par le formulaire
		view.Totaux = params.Get("totaux") != "" && params.Get("totaux") != "0"

		q, err := planning.NewQuery(view.Debut, view.Fin, view.TypeFormule)
		if err == nil {
			var gen *planningapp.Generation
			gen, err = h.planning.Generate(r.Context(), q, view.Totaux)
			if err == nil {
				view.Table = &gen.Table
			}
		}
		switch {
		case err == nil:
		case errors.Is(err, planning.ErrAucuneCommande):
			view.Message = planning.MessageAucuneCommande
		default:
			view.Error = "Erreur lors de la génération du planning: " + err.Error()
			status = statusOf(err)
			if status == http.StatusInternalServerError {
				h.logger.Error("planning page failed", zap.Error(err))
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.html.Render(w, view); err != nil {
		h.logger.Error("failed to render planning page", zap.Error(err))
	}
}

// GetReferences handler pour GET /api/references
func (h *Handlers) GetReferences(w http.ResponseWriter, r *http.Request) {
	refs, err := h.catalog.References(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": refs.Categories,
		"types":      refs.Types,
		"unites":     refs.Unites,
	})
}

// ============================================================================
// PRODUITS
// ============================================================================

// ListProduits handler pour GET /api/produits?search=&categorie_id=&type_id=
func (h *Handlers) ListProduits(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	categorieID, err := optionalInt(params.Get("categorie_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	typeID, err := optionalInt(params.Get("type_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	produits, err := h.catalog.ListProduits(r.Context(), catalogdomain.ProduitFilter{
		Search:      params.Get("search"),
		CategorieID: categorieID,
		TypeID:      typeID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, produits)
}

// CreateProduit handler pour POST /api/produits
func (h *Handlers) CreateProduit(w http.ResponseWriter, r *http.Request) {
	var body catalogdomain.ProduitInput
	if err := decodeBody(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := catalogdomain.NewProduitInput(body.Name, body.CategorieID, body.TypeID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	produit, err := h.catalog.CreateProduit(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, produit)
}

// UpdateProduit handler pour PATCH /api/produits/{id}
func (h *Handlers) UpdateProduit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body catalogdomain.ProduitInput
	if err := decodeBody(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := catalogdomain.NewProduitInput(body.Name, body.CategorieID, body.TypeID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	produit, err := h.catalog.UpdateProduit(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, produit)
}

// DeleteProduit handler pour DELETE /api/produits/{id}
func (h *Handlers) DeleteProduit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.catalog.DeleteProduit(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// FORMULES
// ============================================================================

// ListFormules handler pour GET /api/formules?search=&type_formule=
func (h *Handlers) ListFormules(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	formules, err := h.catalog.ListFormules(r.Context(), catalogdomain.FormuleFilter{
		Search:      params.Get("search"),
		TypeFormule: params.Get("type_formule"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, formules)
}

// formuleRequest est le corps de POST /api/formules: la formule et ses produits
type formuleRequest struct {
	Formule  catalogdomain.FormuleInput `json:"formule"`
	Produits []struct {
		ProduitID uuid.UUID       `json:"produit_id"`
		Quantite  decimal.Decimal `json:"quantite"`
		Unite     string          `json:"unite"`
	} `json:"produits"`
}

// CreateFormule handler pour POST /api/formules
func (h *Handlers) CreateFormule(w http.ResponseWriter, r *http.Request) {
	var body formuleRequest
	if err := decodeBody(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := catalogdomain.NewFormuleInput(body.Formule.Name, body.Formule.NombreCouverts, body.Formule.TypeFormule)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var draft catalogdomain.FormuleDraft
	for _, p := range body.Produits {
		if err := draft.AddLine(p.ProduitID, p.Quantite, p.Unite); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	result, err := h.catalog.CreateFormuleWithProduits(r.Context(), in, &draft)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"formule":  result.Formule,
		"produits": result.Produits,
	})
}

// UpdateFormule handler pour PUT /api/formules/{id}
func (h *Handlers) UpdateFormule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body catalogdomain.FormuleInput
	if err := decodeBody(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := catalogdomain.NewFormuleInput(body.Name, body.NombreCouverts, body.TypeFormule)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	formule, err := h.catalog.UpdateFormule(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, formule)
}

// DeleteFormule handler pour DELETE /api/formules/{id}
func (h *Handlers) DeleteFormule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.catalog.DeleteFormule(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListFormuleProduits handler pour GET /api/formules/{id}/produits
func (h *Handlers) ListFormuleProduits(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	lines, err := h.catalog.FormuleProduits(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

// ============================================================================
// COMMANDES
// ============================================================================

// ListCommandes handler pour GET /api/commandes?search=&date=today|tomorrow|week
func (h *Handlers) ListCommandes(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	filter := ordersdomain.CommandeFilter{
		Search: params.Get("search"),
		Date:   ordersdomain.DateFilter(params.Get("date")),
	}
	switch filter.Date {
	case ordersdomain.DateFilterAll, ordersdomain.DateFilterToday, ordersdomain.DateFilterTomorrow, ordersdomain.DateFilterWeek:
	default:
		h.writeError(w, r, badRequest{fmt.Errorf("filtre de date inconnu %q", filter.Date)})
		return
	}

	commandes, err := h.orders.ListCommandes(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, commandes)
}

// commandeRequest est le corps de POST /api/commandes: la commande, ses formules et ses suppléments
type commandeRequest struct {
	Commande ordersdomain.CommandeInput `json:"commande"`
	Formules []struct {
		FormuleID           uuid.UUID        `json:"formule_id"`
		QuantiteRecommandee *decimal.Decimal `json:"quantite_recommandee"`
		QuantiteFinale      *decimal.Decimal `json:"quantite_finale"`
	} `json:"formules"`
	Produits []struct {
		ProduitID uuid.UUID       `json:"produit_id"`
		Quantite  decimal.Decimal `json:"quantite"`
		Unite     string          `json:"unite"`
	} `json:"produits"`
}

// CreateCommande handler pour POST /api/commandes
func (h *Handlers) CreateCommande(w http.ResponseWriter, r *http.Request) {
	var body commandeRequest
	if err := decodeBody(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	draft, err := ordersdomain.NewCommandeDraft(body.Commande)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	for _, f := range body.Formules {
		if err := draft.AddFormule(f.FormuleID, f.QuantiteRecommandee, f.QuantiteFinale); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	for _, p := range body.Produits {
		if err := draft.AddProduit(p.ProduitID, p.Quantite, p.Unite); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	result, err := h.orders.CreateCommandeWithLignes(r.Context(), draft)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"commande": result.Commande,
		"formules": result.Formules,
		"produits": result.Produits,
	})
}

// GetCommande handler pour GET /api/commandes/{id}
func (h *Handlers) GetCommande(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	detail, err := h.orders.Detail(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// DeleteCommande handler pour DELETE /api/commandes/{id}
func (h *Handlers) DeleteCommande(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.orders.DeleteCommande(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// HELPERS
// ============================================================================

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, badRequest{fmt.Errorf("identifiant invalide %q", raw)}
	}
	return id, nil
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest{fmt.Errorf("corps de requête invalide: %w", err)}
	}
	return nil
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, badRequest{fmt.Errorf("entier invalide %q", s)}
	}
	return &n, nil
}
