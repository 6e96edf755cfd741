package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"brunch/internal/backend"
	catalogapp "brunch/internal/catalog/application"
	exportinfra "brunch/internal/export/infrastructure"
	ordersapp "brunch/internal/orders/application"
	planningapp "brunch/internal/planning/application"
	"brunch/internal/render"
	sharedapp "brunch/internal/shared/application"
	sharedinfra "brunch/internal/shared/infrastructure"
)

const planningJSON = `{
  "periode": {"debut": "2025-03-10", "fin": "2025-03-10"},
  "commandes_count": 1,
  "planning": {
    "2025-03-10": {
      "commandes": [{"id": "c1", "client": "Dupont", "heure": "08:30:00", "couverts": 4,
        "produits": {"p1": {"nom": "Croissant", "quantite": 8, "unite": "pièce", "categorie": "Viennoiserie", "type": "Sucré", "source": "formule"}}}],
      "totaux": {"p1": {"nom": "Croissant", "quantite": 8, "unite": "pièce", "categorie": "Viennoiserie", "type": "Sucré"}}
    }
  }
}`

// fakeBackend simule l'API REST du backend
type fakeBackend struct {
	planning      string
	failLines     bool
	deleted       []string
	produitsStore []map[string]any
}

func (f *fakeBackend) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/planning/production", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(f.planning))
	})
	r.Get("/produits/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.produitsStore)
	})
	r.Post("/produits/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["name"] == "Croissant" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Produit déjà existant"})
			return
		}
		body["id"] = uuid.NewString()
		writeJSON(w, http.StatusOK, body)
	})
	r.Delete("/produits/{id}/", func(w http.ResponseWriter, r *http.Request) {
		f.deleted = append(f.deleted, "produit")
		w.WriteHeader(http.StatusNoContent)
	})
	r.Post("/formules/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		body["id"] = uuid.NewString()
		writeJSON(w, http.StatusOK, body)
	})
	r.Delete("/formules/{id}/", func(w http.ResponseWriter, r *http.Request) {
		f.deleted = append(f.deleted, "formule")
		w.WriteHeader(http.StatusNoContent)
	})
	r.Post("/formule-produits/", func(w http.ResponseWriter, r *http.Request) {
		if f.failLines {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		body["id"] = 1
		writeJSON(w, http.StatusOK, body)
	})
	r.Get("/commandes/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": uuid.NewString(), "nom_client": "Dupont", "nombre_couverts": 4, "delivery_date": "2025-03-10", "delivery_hour": "08:30:00"},
			{"id": uuid.NewString(), "nom_client": "Martin", "nombre_couverts": 2, "delivery_date": "2025-03-20", "delivery_hour": "12:00:00"},
		})
	})
	return r
}

func newTestServer(t *testing.T, fake *fakeBackend, policy sharedapp.Policy) *httptest.Server {
	t.Helper()
	upstream := httptest.NewServer(fake.routes())
	t.Cleanup(upstream.Close)

	client := backend.NewClient(upstream.URL, 2*time.Second, nil)
	cache := sharedinfra.NewInMemoryCache(time.Minute)
	t.Cleanup(cache.Close)
	sequence := sharedapp.NewSequence(policy, nil)

	html, err := render.NewHTMLRenderer()
	require.NoError(t, err)

	orders := ordersapp.NewOrderService(client, sequence, nil, nil).
		WithClock(func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) })
	h := NewHandlers(
		planningapp.NewPlanningService(client, exportinfra.NewXLSXWriter(nil), nil),
		catalogapp.NewCatalogService(client, cache, time.Minute, sequence, nil, nil),
		orders,
		html,
		true,
		nil,
	)
	server := httptest.NewServer(h.Routes())
	t.Cleanup(server.Close)
	return server
}

func decodeError(t *testing.T, resp *http.Response) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	server := newTestServer(t, &fakeBackend{}, sharedapp.StopOnFirstFailure)

	resp, err := http.Get(server.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetPlanning(t *testing.T) {
	server := newTestServer(t, &fakeBackend{planning: planningJSON}, sharedapp.StopOnFirstFailure)

	resp, err := http.Get(server.URL + "/api/planning?date_debut=2025-03-10&date_fin=2025-03-10")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Payload struct {
			CommandesCount int `json:"commandes_count"`
		} `json:"payload"`
		Table struct {
			Titre      string `json:"titre"`
			Categories []struct {
				Categorie string `json:"categorie"`
			} `json:"categories"`
		} `json:"table"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Payload.CommandesCount)
	require.Len(t, body.Table.Categories, 1)
	assert.Equal(t, "Viennoiserie", body.Table.Categories[0].Categorie)
}

func TestGetPlanning_Errors(t *testing.T) {
	empty := `{"periode": {"debut": "2025-03-10", "fin": "2025-03-10"}, "commandes_count": 0, "planning": {}}`
	tests := []struct {
		name    string
		query   string
		payload string
		status  int
		message string
	}{
		{name: "missing date", query: "date_debut=2025-03-10", status: http.StatusBadRequest, message: "veuillez sélectionner une période"},
		{name: "inverted period", query: "date_debut=2025-03-12&date_fin=2025-03-10", status: http.StatusBadRequest, message: "la date de début doit être antérieure à la date de fin"},
		{name: "malformed date", query: "date_debut=10/03/2025&date_fin=2025-03-10", status: http.StatusBadRequest},
		{name: "no orders", query: "date_debut=2025-03-10&date_fin=2025-03-10", payload: empty, status: http.StatusNotFound, message: "Aucune commande trouvée pour cette période"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, &fakeBackend{planning: tt.payload}, sharedapp.StopOnFirstFailure)

			resp, err := http.Get(server.URL + "/api/planning?" + tt.query)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			body := decodeError(t, resp)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Error)
			}
		})
	}
}

func TestExportPlanning(t *testing.T) {
	server := newTestServer(t, &fakeBackend{planning: planningJSON}, sharedapp.StopOnFirstFailure)

	resp, err := http.Get(server.URL + "/api/planning/export?date_debut=2025-03-10&date_fin=2025-03-10&totaux=1")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="planning_production_2025-03-10_to_2025-03-10.xlsx"`, resp.Header.Get("Content-Disposition"))

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()
	title, err := f.GetCellValue("Planning Production", "A1")
	require.NoError(t, err)
	assert.NotEmpty(t, title)
}

func TestPlanningPage(t *testing.T) {
	server := newTestServer(t, &fakeBackend{planning: planningJSON}, sharedapp.StopOnFirstFailure)

	resp, err := http.Get(server.URL + "/planning?date_debut=2025-03-10&date_fin=2025-03-10&type_formule=toutes&totaux=1")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	page := buf.String()
	assert.Contains(t, page, "📦 Viennoiserie")
	assert.Contains(t, page, "TOTAL GÉNÉRAL")
	assert.Contains(t, page, "Exporter en Excel")
}

func TestPlanningPage_Empty(t *testing.T) {
	empty := `{"periode": {"debut": "2025-03-10", "fin": "2025-03-10"}, "commandes_count": 0, "planning": {}}`
	server := newTestServer(t, &fakeBackend{planning: empty}, sharedapp.StopOnFirstFailure)

	resp, err := http.Get(server.URL + "/planning?date_debut=2025-03-10&date_fin=2025-03-10")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, buf.String(), "Aucune commande trouvée pour cette période")
	assert.NotContains(t, buf.String(), "Exporter en Excel")
}

func TestCreateProduit(t *testing.T) {
	server := newTestServer(t, &fakeBackend{}, sharedapp.StopOnFirstFailure)

	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{name: "created", body: `{"name": "Brioche", "categorie_id": 1}`, status: http.StatusCreated},
		{name: "blank name", body: `{"name": "  "}`, status: http.StatusBadRequest, want: "le nom du produit est obligatoire"},
		{name: "backend refuses", body: `{"name": "Croissant"}`, status: http.StatusBadRequest, want: "Produit déjà existant"},
		{name: "unknown field", body: `{"nom": "Brioche"}`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/api/produits", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.want != "" {
				assert.Contains(t, decodeError(t, resp).Error, tt.want)
			}
		})
	}
}

func TestDeleteProduit_InvalidID(t *testing.T) {
	server := newTestServer(t, &fakeBackend{}, sharedapp.StopOnFirstFailure)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/produits/not-a-uuid", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateFormule_PartialFailure(t *testing.T) {
	fake := &fakeBackend{failLines: true}
	server := newTestServer(t, fake, sharedapp.StopAndCompensate)
	body := `{"formule": {"name": "Brunch", "nombre_couverts": 2, "type_formule": "Brunch"},
	          "produits": [{"produit_id": "` + uuid.NewString() + `", "quantite": 1, "unite": "pièce"}]}`

	resp, err := http.Post(server.URL+"/api/formules", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	errBody := decodeError(t, resp)
	assert.Contains(t, errBody.FailedStep, "produit 1")
	assert.Equal(t, []string{"formule Brunch"}, errBody.Compensated)
	assert.Empty(t, errBody.Dangling)
	assert.Equal(t, []string{"formule"}, fake.deleted)
}

func TestCreateFormule_RequiresProduits(t *testing.T) {
	server := newTestServer(t, &fakeBackend{}, sharedapp.StopOnFirstFailure)
	body := `{"formule": {"name": "Brunch", "nombre_couverts": 2}, "produits": []}`

	resp, err := http.Post(server.URL+"/api/formules", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decodeError(t, resp)
	assert.Equal(t, "produits", errBody.Field)
}

func TestListCommandes(t *testing.T) {
	server := newTestServer(t, &fakeBackend{}, sharedapp.StopOnFirstFailure)

	resp, err := http.Get(server.URL + "/api/commandes?date=today")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var commandes []struct {
		NomClient string `json:"nom_client"`
		Badge     string `json:"badge"`
		Urgent    bool   `json:"urgent"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&commandes))
	require.Len(t, commandes, 1)
	assert.Equal(t, "Dupont", commandes[0].NomClient)
	assert.Equal(t, "Aujourd'hui", commandes[0].Badge)
	assert.True(t, commandes[0].Urgent)

	bad, err := http.Get(server.URL + "/api/commandes?date=yesterday")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestBackendUnavailable(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	client := backend.NewClient(url, time.Second, nil)
	cache := sharedinfra.NewInMemoryCache(time.Minute)
	t.Cleanup(cache.Close)
	sequence := sharedapp.NewSequence(sharedapp.StopOnFirstFailure, nil)
	html, err := render.NewHTMLRenderer()
	require.NoError(t, err)
	h := NewHandlers(
		planningapp.NewPlanningService(client, exportinfra.NewXLSXWriter(nil), nil),
		catalogapp.NewCatalogService(client, cache, time.Minute, sequence, nil, nil),
		ordersapp.NewOrderService(client, sequence, nil, nil),
		html, true, nil,
	)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/produits", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
