package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/infra/api"
	"github.com/xavierca1/seller-console/internal/infra/database"
	"github.com/xavierca1/seller-console/internal/infra/storage"
	"github.com/xavierca1/seller-console/internal/repository"
)

// harness wires real repositories over an in-memory store with a transport
// whose failures and delays the test controls.
type harness struct {
	db    *database.Database
	cache *Cache
	leads *LeadQueries
	opps  *OpportunityQueries

	failing  atomic.Bool
	blocking atomic.Bool
	entered  chan struct{}
	release  chan struct{}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		db:      database.New(storage.NewMemoryMedium()),
		entered: make(chan struct{}, 16),
		release: make(chan struct{}),
	}

	client := api.NewClient(api.Config{
		Rand: func() float64 {
			if h.failing.Load() {
				return 0.0
			}
			return 0.99
		},
		Sleep: func(ctx context.Context, d time.Duration) error {
			if h.blocking.Load() {
				h.entered <- struct{}{}
				select {
				case <-h.release:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		},
	})
	client.SetErrorRate(0.5)

	h.cache = New(Config{})
	t.Cleanup(h.cache.Close)

	leadRepo := repository.NewLeadRepository(h.db, client)
	oppRepo := repository.NewOpportunityRepository(h.db, client)
	h.leads = NewLeadQueries(h.cache, leadRepo)
	h.opps = NewOpportunityQueries(h.cache, oppRepo)
	return h
}

func (h *harness) seedLead(t *testing.T) *entity.Lead {
	t.Helper()
	lead, err := h.leads.Create(context.Background(), entity.CreateLead{
		Name:    "Jane Doe",
		Company: "Acme",
		Email:   "jane@acme.com",
		Source:  entity.LeadSourceWebsite,
		Score:   80,
		Status:  entity.LeadStatusNew,
	})
	require.NoError(t, err)
	return lead
}

func TestLeadQueriesGetCachesRepositoryReads(t *testing.T) {
	h := newHarness(t)
	lead := h.seedLead(t)
	key := DetailKey(DomainLeads, lead.ID)

	// Create seeded the detail entry, so Get never hits the repository.
	h.failing.Store(true)
	got, err := h.leads.Get(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.ID, got.ID)

	cached, ok := h.cache.Peek(key)
	require.True(t, ok)
	assert.Equal(t, lead.ID, cached.(*entity.Lead).ID)
}

func TestLeadQueriesUpdateIsOptimisticThenSettles(t *testing.T) {
	h := newHarness(t)
	lead := h.seedLead(t)
	key := DetailKey(DomainLeads, lead.ID)

	h.blocking.Store(true)
	newScore := 99
	done := make(chan error, 1)
	go func() {
		_, err := h.leads.Update(context.Background(), entity.UpdateLead{ID: lead.ID, Score: &newScore})
		done <- err
	}()

	// While the write is still in flight the projection is already visible.
	<-h.entered
	cached, ok := h.cache.Peek(key)
	require.True(t, ok)
	assert.Equal(t, 99, cached.(*entity.Lead).Score)
	assert.Equal(t, 80, lead.Score, "snapshot untouched")

	close(h.release)
	require.NoError(t, <-done)

	// Settled: the store agrees with the projection.
	stored, found := h.db.Lead(lead.ID)
	require.True(t, found)
	assert.Equal(t, 99, stored.Score)
}

func TestLeadQueriesUpdateRollsBackOnFailure(t *testing.T) {
	h := newHarness(t)
	lead := h.seedLead(t)
	key := DetailKey(DomainLeads, lead.ID)

	h.blocking.Store(true)
	newScore := 99
	done := make(chan error, 1)
	go func() {
		_, err := h.leads.Update(context.Background(), entity.UpdateLead{ID: lead.ID, Score: &newScore})
		done <- err
	}()

	<-h.entered
	cached, ok := h.cache.Peek(key)
	require.True(t, ok)
	assert.Equal(t, 99, cached.(*entity.Lead).Score)

	// Fail the write after the optimistic value was published.
	h.failing.Store(true)
	close(h.release)

	err := <-done
	require.Error(t, err)
	assert.True(t, api.IsCode(err, api.CodeNetwork))

	// Rolled back to the pre-mutation snapshot.
	cached, ok = h.cache.Peek(key)
	require.True(t, ok)
	assert.Equal(t, 80, cached.(*entity.Lead).Score)

	stored, found := h.db.Lead(lead.ID)
	require.True(t, found)
	assert.Equal(t, 80, stored.Score, "store never saw the failed write")
}

func TestLeadQueriesUpdateInvalidatesListKeys(t *testing.T) {
	h := newHarness(t)
	lead := h.seedLead(t)

	// Warm the list entry before the mutation.
	_, err := h.leads.List(context.Background(), entity.LeadFilter{}, nil)
	require.NoError(t, err)

	newScore := 60
	_, err = h.leads.Update(context.Background(), entity.UpdateLead{ID: lead.ID, Score: &newScore})
	require.NoError(t, err)

	// The list entry went stale, so the next List sees the new score.
	leads, err := h.leads.List(context.Background(), entity.LeadFilter{}, nil)
	require.NoError(t, err)
	for _, l := range leads {
		if l.ID == lead.ID {
			assert.Equal(t, 60, l.Score)
		}
	}
}

func TestLeadQueriesDelete(t *testing.T) {
	h := newHarness(t)
	lead := h.seedLead(t)
	key := DetailKey(DomainLeads, lead.ID)

	require.NoError(t, h.leads.Delete(context.Background(), lead.ID))

	_, ok := h.cache.Peek(key)
	assert.False(t, ok, "detail entry removed outright")

	err := h.leads.Delete(context.Background(), lead.ID)
	assert.True(t, api.IsCode(err, api.CodeNotFound))
}

func TestLeadQueriesConvert(t *testing.T) {
	h := newHarness(t)
	lead := h.seedLead(t)

	opp, err := h.opps.Create(context.Background(), entity.CreateOpportunity{
		Name:        lead.Company + " - Opportunity",
		AccountName: lead.Company,
		Stage:       entity.StageProspecting,
		LeadID:      lead.ID,
	})
	require.NoError(t, err)

	converted, err := h.leads.Convert(context.Background(), lead.ID, opp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LeadStatusConverted, converted.Status)
	assert.Equal(t, opp.ID, converted.ConvertedToOpportunityID)

	// The detail entry was republished with the converted record.
	cached, ok := h.cache.Peek(DetailKey(DomainLeads, lead.ID))
	require.True(t, ok)
	assert.Equal(t, entity.LeadStatusConverted, cached.(*entity.Lead).Status)

	// The association read resolves to the new opportunity.
	byLead, err := h.opps.GetByLead(context.Background(), lead.ID)
	require.NoError(t, err)
	require.NotNil(t, byLead)
	assert.Equal(t, opp.ID, byLead.ID)
}

func TestOpportunityQueriesUpdateRollsBackOnFailure(t *testing.T) {
	h := newHarness(t)
	lead := h.seedLead(t)

	amount := 1000.0
	opp, err := h.opps.Create(context.Background(), entity.CreateOpportunity{
		Name:        "Acme Deal",
		AccountName: "Acme",
		Stage:       entity.StageProspecting,
		Amount:      &amount,
		LeadID:      lead.ID,
	})
	require.NoError(t, err)
	key := DetailKey(DomainOpportunities, opp.ID)

	h.failing.Store(true)
	stage := entity.StageNegotiation
	_, err = h.opps.Update(context.Background(), entity.UpdateOpportunity{ID: opp.ID, Stage: &stage})
	require.Error(t, err)

	cached, ok := h.cache.Peek(key)
	require.True(t, ok)
	assert.Equal(t, entity.StageProspecting, cached.(*entity.Opportunity).Stage)
}
