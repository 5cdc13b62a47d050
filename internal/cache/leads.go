package cache

import (
	"context"
	"time"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/infra/metrics"
	"github.com/xavierca1/seller-console/internal/repository"
)

// LeadQueries is the cache-aware lead API the presentation layer talks to.
// Reads go through the cache; writes run the optimistic mutation protocol.
type LeadQueries struct {
	cache *Cache
	repo  *repository.LeadRepository
	nowFn func() time.Time
}

func NewLeadQueries(c *Cache, repo *repository.LeadRepository) *LeadQueries {
	return &LeadQueries{
		cache: c,
		repo:  repo,
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

func (q *LeadQueries) List(ctx context.Context, filter entity.LeadFilter, sortSpec *entity.LeadSort) ([]entity.Lead, error) {
	return Fetch(ctx, q.cache, LeadListKey(filter, sortSpec), func(ctx context.Context) ([]entity.Lead, error) {
		return q.repo.FindAll(ctx, filter, sortSpec)
	})
}

func (q *LeadQueries) Get(ctx context.Context, id string) (*entity.Lead, error) {
	return Fetch(ctx, q.cache, DetailKey(DomainLeads, id), func(ctx context.Context) (*entity.Lead, error) {
		return q.repo.FindByID(ctx, id)
	})
}

func (q *LeadQueries) Count(ctx context.Context, filter entity.LeadFilter) (int, error) {
	return Fetch(ctx, q.cache, LeadCountKey(filter), func(ctx context.Context) (int, error) {
		return q.repo.Count(ctx, filter)
	})
}

// Create settles like any mutation (list keys go stale) but has no prior
// detail value to merge against, so there is no optimistic phase.
func (q *LeadQueries) Create(ctx context.Context, data entity.CreateLead) (*entity.Lead, error) {
	lead, err := q.repo.Create(ctx, data)
	q.cache.InvalidatePrefix(ListPrefix(DomainLeads))
	if err != nil {
		return nil, err
	}
	q.cache.Put(DetailKey(DomainLeads, lead.ID), lead)
	return lead, nil
}

// Update runs the four-phase optimistic protocol: cancel the in-flight
// detail read, publish the merged projection immediately, then reconcile
// with the repository outcome.
func (q *LeadQueries) Update(ctx context.Context, data entity.UpdateLead) (*entity.Lead, error) {
	detailKey := DetailKey(DomainLeads, data.ID)

	// Begin: a read resolving after this point must not clobber the
	// optimistic value.
	q.cache.CancelInflight(detailKey)

	// Optimistic apply.
	snapshot, hadSnapshot := q.peekLead(detailKey)
	if hadSnapshot {
		merged := *snapshot
		data.ApplyTo(&merged)
		merged.UpdatedAt = q.nowFn()
		q.cache.Put(detailKey, &merged)
	}

	lead, err := q.repo.Update(ctx, data)

	if err != nil {
		// Settle, failure: roll back, then reconcile on next read.
		if hadSnapshot {
			q.cache.Put(detailKey, snapshot)
			metrics.RecordOptimisticRollback()
		}
		q.invalidateAfterWrite(detailKey)
		return nil, err
	}

	// Settle, success: the optimistic value stands until the re-fetch.
	q.invalidateAfterWrite(detailKey)
	return lead, nil
}

// Delete removes the detail key outright on success; no optimistic phase.
func (q *LeadQueries) Delete(ctx context.Context, id string) error {
	detailKey := DetailKey(DomainLeads, id)
	q.cache.CancelInflight(detailKey)

	_, err := q.repo.Delete(ctx, id)
	if err != nil {
		q.invalidateAfterWrite(detailKey)
		return err
	}

	q.cache.Remove(detailKey)
	q.cache.InvalidatePrefix(ListPrefix(DomainLeads))
	return nil
}

// Convert marks the lead converted. Both domains' list keys go stale: the
// lead moved status and the opportunity side gained its counterpart.
func (q *LeadQueries) Convert(ctx context.Context, leadID, opportunityID string) (*entity.Lead, error) {
	detailKey := DetailKey(DomainLeads, leadID)
	q.cache.CancelInflight(detailKey)

	lead, err := q.repo.ConvertToOpportunity(ctx, leadID, opportunityID)
	if err != nil {
		q.invalidateAfterWrite(detailKey)
		return nil, err
	}

	q.cache.Put(detailKey, lead)
	q.cache.InvalidatePrefix(ListPrefix(DomainLeads))
	q.cache.InvalidatePrefix(ListPrefix(DomainOpportunities))
	q.cache.Invalidate(ByLeadKey(leadID))
	return lead, nil
}

func (q *LeadQueries) peekLead(key string) (*entity.Lead, bool) {
	value, ok := q.cache.Peek(key)
	if !ok {
		return nil, false
	}
	lead, ok := value.(*entity.Lead)
	if !ok || lead == nil {
		return nil, false
	}
	return lead, true
}

func (q *LeadQueries) invalidateAfterWrite(detailKey string) {
	q.cache.Invalidate(detailKey)
	q.cache.InvalidatePrefix(ListPrefix(DomainLeads))
}
