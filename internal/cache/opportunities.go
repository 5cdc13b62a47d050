package cache

import (
	"context"
	"time"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/infra/metrics"
	"github.com/xavierca1/seller-console/internal/repository"
)

// OpportunityQueries is the cache-aware opportunity API, mirror image of
// LeadQueries plus the lead-lookup and revenue reads.
type OpportunityQueries struct {
	cache *Cache
	repo  *repository.OpportunityRepository
	nowFn func() time.Time
}

func NewOpportunityQueries(c *Cache, repo *repository.OpportunityRepository) *OpportunityQueries {
	return &OpportunityQueries{
		cache: c,
		repo:  repo,
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

func (q *OpportunityQueries) List(ctx context.Context, filter entity.OpportunityFilter, sortSpec *entity.OpportunitySort) ([]entity.Opportunity, error) {
	return Fetch(ctx, q.cache, OpportunityListKey(filter, sortSpec), func(ctx context.Context) ([]entity.Opportunity, error) {
		return q.repo.FindAll(ctx, filter, sortSpec)
	})
}

func (q *OpportunityQueries) Get(ctx context.Context, id string) (*entity.Opportunity, error) {
	return Fetch(ctx, q.cache, DetailKey(DomainOpportunities, id), func(ctx context.Context) (*entity.Opportunity, error) {
		return q.repo.FindByID(ctx, id)
	})
}

func (q *OpportunityQueries) GetByLead(ctx context.Context, leadID string) (*entity.Opportunity, error) {
	return Fetch(ctx, q.cache, ByLeadKey(leadID), func(ctx context.Context) (*entity.Opportunity, error) {
		return q.repo.FindByLeadID(ctx, leadID)
	})
}

func (q *OpportunityQueries) Count(ctx context.Context, filter entity.OpportunityFilter) (int, error) {
	return Fetch(ctx, q.cache, OpportunityCountKey(filter), func(ctx context.Context) (int, error) {
		return q.repo.Count(ctx, filter)
	})
}

func (q *OpportunityQueries) TotalRevenue(ctx context.Context, filter entity.OpportunityFilter) (float64, error) {
	return Fetch(ctx, q.cache, RevenueKey(filter), func(ctx context.Context) (float64, error) {
		return q.repo.TotalRevenue(ctx, filter)
	})
}

// Create also invalidates the lead's associated-opportunity lookup, since
// that lead now resolves to this opportunity.
func (q *OpportunityQueries) Create(ctx context.Context, data entity.CreateOpportunity) (*entity.Opportunity, error) {
	opp, err := q.repo.Create(ctx, data)
	q.cache.InvalidatePrefix(ListPrefix(DomainOpportunities))
	if err != nil {
		return nil, err
	}
	q.cache.Put(DetailKey(DomainOpportunities, opp.ID), opp)
	q.cache.Invalidate(ByLeadKey(opp.LeadID))
	return opp, nil
}

func (q *OpportunityQueries) Update(ctx context.Context, data entity.UpdateOpportunity) (*entity.Opportunity, error) {
	detailKey := DetailKey(DomainOpportunities, data.ID)
	q.cache.CancelInflight(detailKey)

	snapshot, hadSnapshot := q.peekOpportunity(detailKey)
	if hadSnapshot {
		merged := *snapshot
		data.ApplyTo(&merged)
		merged.UpdatedAt = q.nowFn()
		q.cache.Put(detailKey, &merged)
	}

	opp, err := q.repo.Update(ctx, data)

	if err != nil {
		if hadSnapshot {
			q.cache.Put(detailKey, snapshot)
			metrics.RecordOptimisticRollback()
		}
		q.invalidateAfterWrite(detailKey)
		return nil, err
	}

	q.invalidateAfterWrite(detailKey)
	return opp, nil
}

func (q *OpportunityQueries) Delete(ctx context.Context, id string) error {
	detailKey := DetailKey(DomainOpportunities, id)
	q.cache.CancelInflight(detailKey)

	_, err := q.repo.Delete(ctx, id)
	if err != nil {
		q.invalidateAfterWrite(detailKey)
		return err
	}

	q.cache.Remove(detailKey)
	q.cache.InvalidatePrefix(ListPrefix(DomainOpportunities))
	return nil
}

func (q *OpportunityQueries) peekOpportunity(key string) (*entity.Opportunity, bool) {
	value, ok := q.cache.Peek(key)
	if !ok {
		return nil, false
	}
	opp, ok := value.(*entity.Opportunity)
	if !ok || opp == nil {
		return nil, false
	}
	return opp, true
}

func (q *OpportunityQueries) invalidateAfterWrite(detailKey string) {
	q.cache.Invalidate(detailKey)
	q.cache.InvalidatePrefix(ListPrefix(DomainOpportunities))
}
