package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/infra/api"
	"github.com/xavierca1/seller-console/internal/infra/database"
	"github.com/xavierca1/seller-console/internal/query"
)

const defaultProbability = 50

type OpportunityRepository struct {
	db    *database.Database
	api   *api.Client
	nowFn func() time.Time
}

func NewOpportunityRepository(db *database.Database, client *api.Client) *OpportunityRepository {
	return &OpportunityRepository{
		db:    db,
		api:   client,
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

func (r *OpportunityRepository) FindAll(ctx context.Context, filter entity.OpportunityFilter, sortSpec *entity.OpportunitySort) ([]entity.Opportunity, error) {
	return api.Do(ctx, r.api, func() ([]entity.Opportunity, error) {
		opps := query.FilterOpportunities(r.db.Opportunities(), filter)
		if sortSpec != nil {
			opps = query.SortOpportunities(opps, *sortSpec)
		}
		return opps, nil
	}, nil)
}

func (r *OpportunityRepository) FindByID(ctx context.Context, id string) (*entity.Opportunity, error) {
	return api.Do(ctx, r.api, func() (*entity.Opportunity, error) {
		opp, ok := r.db.Opportunity(id)
		if !ok {
			return nil, nil
		}
		return &opp, nil
	}, nil)
}

// FindByLeadID returns the opportunity a lead was converted into, nil when
// the lead has none.
func (r *OpportunityRepository) FindByLeadID(ctx context.Context, leadID string) (*entity.Opportunity, error) {
	return api.Do(ctx, r.api, func() (*entity.Opportunity, error) {
		for _, opp := range r.db.Opportunities() {
			if opp.LeadID == leadID {
				return &opp, nil
			}
		}
		return nil, nil
	}, nil)
}

func (r *OpportunityRepository) Create(ctx context.Context, data entity.CreateOpportunity) (*entity.Opportunity, error) {
	return api.Do(ctx, r.api, func() (*entity.Opportunity, error) {
		now := r.nowFn()
		probability := defaultProbability
		if data.Probability != nil {
			probability = *data.Probability
		}

		opp := entity.Opportunity{
			ID:                uuid.New().String(),
			Name:              data.Name,
			Stage:             data.Stage,
			Amount:            data.Amount,
			AccountName:       data.AccountName,
			LeadID:            data.LeadID,
			Probability:       probability,
			ExpectedCloseDate: data.ExpectedCloseDate,
			Description:       data.Description,
			NextStep:          data.NextStep,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		if errs := validateOpportunity(opp); len(errs) > 0 {
			return nil, api.Validation("opportunity failed validation", errs)
		}
		if _, ok := r.db.Lead(opp.LeadID); !ok {
			return nil, api.Validation("opportunity failed validation", []api.FieldError{
				{Field: "leadId", Message: "must reference an existing lead"},
			})
		}

		r.db.SetOpportunity(opp)
		return &opp, nil
	}, nil)
}

func (r *OpportunityRepository) Update(ctx context.Context, data entity.UpdateOpportunity) (*entity.Opportunity, error) {
	return api.Do(ctx, r.api, func() (*entity.Opportunity, error) {
		existing, ok := r.db.Opportunity(data.ID)
		if !ok {
			return nil, api.NotFound("opportunity not found")
		}

		updated := existing
		data.ApplyTo(&updated)
		updated.ID = existing.ID
		updated.LeadID = existing.LeadID
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = r.nowFn()

		if errs := validateOpportunity(updated); len(errs) > 0 {
			return nil, api.Validation("opportunity failed validation", errs)
		}

		r.db.SetOpportunity(updated)
		return &updated, nil
	}, nil)
}

func (r *OpportunityRepository) Delete(ctx context.Context, id string) (bool, error) {
	return api.Do(ctx, r.api, func() (bool, error) {
		if !r.db.DeleteOpportunity(id) {
			return false, api.NotFound("opportunity not found")
		}
		return true, nil
	}, nil)
}

func (r *OpportunityRepository) Count(ctx context.Context, filter entity.OpportunityFilter) (int, error) {
	return api.Do(ctx, r.api, func() (int, error) {
		return query.CountOpportunities(r.db.Opportunities(), filter), nil
	}, &api.Options{SkipDelay: true})
}

// TotalRevenue sums amounts over the filtered collection; skips the delay
// for the same reason Count does.
func (r *OpportunityRepository) TotalRevenue(ctx context.Context, filter entity.OpportunityFilter) (float64, error) {
	return api.Do(ctx, r.api, func() (float64, error) {
		return query.TotalRevenue(r.db.Opportunities(), filter), nil
	}, &api.Options{SkipDelay: true})
}
