package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"brunch/internal/orders/domain"
	sharedapp "brunch/internal/shared/application"
	"brunch/internal/shared/notify"
)

type fakeBackend struct {
	mu        sync.Mutex
	commandes []domain.Commande
	calls     []string
	nextID    int

	failProduit  bool
	failFormules error
}

func (f *fakeBackend) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) ListCommandes(ctx context.Context) ([]domain.Commande, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Commande(nil), f.commandes...), nil
}

func (f *fakeBackend) CreateCommande(ctx context.Context, in domain.CommandeInput) (domain.Commande, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := domain.Commande{
		ID:             uuid.New(),
		NomClient:      in.NomClient,
		NombreCouverts: in.NombreCouverts,
		DeliveryDate:   in.DeliveryDate,
		DeliveryHour:   in.DeliveryHour,
		AvecService:    in.AvecService,
	}
	f.commandes = append(f.commandes, c)
	f.record("create commande")
	return c, nil
}

func (f *fakeBackend) DeleteCommande(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete commande")
	for i := range f.commandes {
		if f.commandes[i].ID == id {
			f.commandes = append(f.commandes[:i], f.commandes[i+1:]...)
			return nil
		}
	}
	return errors.New("commande non trouvée")
}

func (f *fakeBackend) ListCommandeFormules(ctx context.Context, commandeID uuid.UUID) ([]domain.CommandeFormule, error) {
	if f.failFormules != nil {
		return nil, f.failFormules
	}
	return []domain.CommandeFormule{{ID: 1, CommandeID: commandeID}}, nil
}

func (f *fakeBackend) CreateCommandeFormule(ctx context.Context, in domain.CommandeFormuleInput) (domain.CommandeFormule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.record("create formule")
	return domain.CommandeFormule{
		ID:                  f.nextID,
		CommandeID:          in.CommandeID,
		FormuleID:           in.FormuleID,
		QuantiteRecommandee: in.QuantiteRecommandee,
		QuantiteFinale:      in.QuantiteFinale,
	}, nil
}

func (f *fakeBackend) DeleteCommandeFormule(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete formule")
	return nil
}

func (f *fakeBackend) ListCommandeProduits(ctx context.Context, commandeID uuid.UUID) ([]domain.CommandeProduit, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeBackend) CreateCommandeProduit(ctx context.Context, in domain.CommandeProduitInput) (domain.CommandeProduit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failProduit {
		return domain.CommandeProduit{}, errors.New("HTTP 500")
	}
	f.nextID++
	f.record("create produit")
	return domain.CommandeProduit{ID: f.nextID, CommandeID: in.CommandeID, ProduitID: in.ProduitID, Quantite: in.Quantite}, nil
}

func (f *fakeBackend) DeleteCommandeProduit(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete produit")
	return nil
}

func newDraft(t *testing.T) *domain.CommandeDraft {
	t.Helper()
	draft, err := domain.NewCommandeDraft(domain.CommandeInput{
		NomClient:      "Dupont",
		NombreCouverts: 6,
		DeliveryDate:   "2025-03-10",
		DeliveryHour:   "08:30",
		AvecService:    true,
	})
	require.NoError(t, err)
	require.NoError(t, draft.AddFormule(uuid.New(), nil, nil))
	require.NoError(t, draft.AddProduit(uuid.New(), decimal.NewFromInt(2), "L"))
	return draft
}

func TestOrderService_CreateCommandeWithLignes(t *testing.T) {
	backend := &fakeBackend{}
	recorder := &notify.Recorder{}
	service := NewOrderService(backend, sharedapp.NewSequence(sharedapp.StopOnFirstFailure, nil), recorder, nil)

	result, err := service.CreateCommandeWithLignes(context.Background(), newDraft(t))

	require.NoError(t, err)
	assert.Equal(t, []string{"create commande", "create formule", "create produit"}, backend.calls)
	require.Len(t, result.Formules, 1)
	assert.Equal(t, result.Commande.ID, result.Formules[0].CommandeID)
	assert.True(t, result.Formules[0].QuantiteFinale.Equal(decimal.NewFromInt(6)))
	require.Len(t, result.Produits, 1)
	assert.Equal(t, notify.LevelSuccess, recorder.Notifications()[0].Level)
}

func TestOrderService_CreateCommandeWithLignes_Compensates(t *testing.T) {
	backend := &fakeBackend{failProduit: true}
	service := NewOrderService(backend, sharedapp.NewSequence(sharedapp.StopAndCompensate, nil), nil, nil)

	_, err := service.CreateCommandeWithLignes(context.Background(), newDraft(t))

	var perr *sharedapp.PartialFailureError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.FailedStep, "produit 1")
	assert.Empty(t, perr.Dangling())
	assert.Equal(t, []string{"create commande", "create formule", "delete formule", "delete commande"}, backend.calls)
	assert.Empty(t, backend.commandes)
}

func TestOrderService_CreateCommandeWithLignes_KeepsRecords(t *testing.T) {
	backend := &fakeBackend{failProduit: true}
	service := NewOrderService(backend, sharedapp.NewSequence(sharedapp.StopOnFirstFailure, nil), nil, nil)

	result, err := service.CreateCommandeWithLignes(context.Background(), newDraft(t))

	var perr *sharedapp.PartialFailureError
	require.ErrorAs(t, err, &perr)
	assert.Len(t, perr.Dangling(), 2)
	assert.Len(t, backend.commandes, 1)
	assert.Equal(t, result.Commande.ID, backend.commandes[0].ID)
}

func TestOrderService_ListCommandes(t *testing.T) {
	backend := &fakeBackend{commandes: []domain.Commande{
		{ID: uuid.New(), NomClient: "Dupont", DeliveryDate: "2025-03-10"},
		{ID: uuid.New(), NomClient: "Martin", DeliveryDate: "2025-03-11"},
		{ID: uuid.New(), NomClient: "Durand", DeliveryDate: "2025-04-01"},
	}}
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	service := NewOrderService(backend, sharedapp.NewSequence(sharedapp.StopOnFirstFailure, nil), nil, nil).
		WithClock(func() time.Time { return now })

	all, err := service.ListCommandes(context.Background(), domain.CommandeFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Aujourd'hui", all[0].Badge)
	assert.True(t, all[0].Urgent)
	assert.Equal(t, "Demain", all[1].Badge)
	assert.Equal(t, "01/04/2025", all[2].Badge)
	assert.False(t, all[2].Urgent)

	tomorrow, err := service.ListCommandes(context.Background(), domain.CommandeFilter{Date: domain.DateFilterTomorrow})
	require.NoError(t, err)
	require.Len(t, tomorrow, 1)
	assert.Equal(t, "Martin", tomorrow[0].NomClient)
}

func TestOrderService_DetailCancelsOnError(t *testing.T) {
	defer goleak.VerifyNone(t)

	backend := &fakeBackend{failFormules: errors.New("HTTP 404")}
	service := NewOrderService(backend, sharedapp.NewSequence(sharedapp.StopOnFirstFailure, nil), nil, nil)

	_, err := service.Detail(context.Background(), uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, backend.failFormules)
}

func TestOrderService_DeleteCommande(t *testing.T) {
	id := uuid.New()
	backend := &fakeBackend{commandes: []domain.Commande{{ID: id, NomClient: "Dupont"}}}
	recorder := &notify.Recorder{}
	service := NewOrderService(backend, sharedapp.NewSequence(sharedapp.StopOnFirstFailure, nil), recorder, nil)

	require.NoError(t, service.DeleteCommande(context.Background(), id))
	require.Error(t, service.DeleteCommande(context.Background(), id))

	notifications := recorder.Notifications()
	require.Len(t, notifications, 2)
	assert.Equal(t, "Commande supprimée avec succès.", notifications[0].Message)
	assert.Equal(t, notify.LevelError, notifications[1].Level)
}
