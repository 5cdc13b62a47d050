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

// LeadRepository composes the store, the simulated transport and the query
// engine into the lead-facing data API.
type LeadRepository struct {
	db    *database.Database
	api   *api.Client
	nowFn func() time.Time
}

func NewLeadRepository(db *database.Database, client *api.Client) *LeadRepository {
	return &LeadRepository{
		db:    db,
		api:   client,
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

func (r *LeadRepository) FindAll(ctx context.Context, filter entity.LeadFilter, sortSpec *entity.LeadSort) ([]entity.Lead, error) {
	return api.Do(ctx, r.api, func() ([]entity.Lead, error) {
		leads := query.FilterLeads(r.db.Leads(), filter)
		if sortSpec != nil {
			leads = query.SortLeads(leads, *sortSpec)
		}
		return leads, nil
	}, nil)
}

// FindByID returns nil without error when the lead does not exist; a missing
// record on a plain read is not a failure.
func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	return api.Do(ctx, r.api, func() (*entity.Lead, error) {
		lead, ok := r.db.Lead(id)
		if !ok {
			return nil, nil
		}
		return &lead, nil
	}, nil)
}

func (r *LeadRepository) Create(ctx context.Context, data entity.CreateLead) (*entity.Lead, error) {
	return api.Do(ctx, r.api, func() (*entity.Lead, error) {
		now := r.nowFn()
		lead := entity.Lead{
			ID:        uuid.New().String(),
			Name:      data.Name,
			Company:   data.Company,
			Email:     data.Email,
			Source:    data.Source,
			Score:     data.Score,
			Status:    data.Status,
			Notes:     data.Notes,
			Phone:     data.Phone,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if errs := validateLead(lead); len(errs) > 0 {
			return nil, api.Validation("lead failed validation", errs)
		}

		r.db.SetLead(lead)
		return &lead, nil
	}, nil)
}

func (r *LeadRepository) Update(ctx context.Context, data entity.UpdateLead) (*entity.Lead, error) {
	return api.Do(ctx, r.api, func() (*entity.Lead, error) {
		existing, ok := r.db.Lead(data.ID)
		if !ok {
			return nil, api.NotFound("lead not found")
		}

		updated := existing
		data.ApplyTo(&updated)
		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = r.nowFn()

		if errs := validateLead(updated); len(errs) > 0 {
			return nil, api.Validation("lead failed validation", errs)
		}

		r.db.SetLead(updated)
		return &updated, nil
	}, nil)
}

func (r *LeadRepository) Delete(ctx context.Context, id string) (bool, error) {
	return api.Do(ctx, r.api, func() (bool, error) {
		if !r.db.DeleteLead(id) {
			return false, api.NotFound("lead not found")
		}
		return true, nil
	}, nil)
}

// ConvertToOpportunity marks the lead converted and records the opportunity
// back-reference. The opportunity must already exist and point back at this
// lead; the referential half of the invariant is checked here because the
// store itself has no cross-collection constraints.
func (r *LeadRepository) ConvertToOpportunity(ctx context.Context, leadID, opportunityID string) (*entity.Lead, error) {
	return api.Do(ctx, r.api, func() (*entity.Lead, error) {
		lead, ok := r.db.Lead(leadID)
		if !ok {
			return nil, api.NotFound("lead not found")
		}

		opp, ok := r.db.Opportunity(opportunityID)
		if !ok {
			return nil, api.NotFound("opportunity not found")
		}
		if opp.LeadID != leadID {
			return nil, api.Validation("lead failed validation", []api.FieldError{
				{Field: "convertedToOpportunityId", Message: "opportunity does not belong to this lead"},
			})
		}

		lead.Status = entity.LeadStatusConverted
		lead.ConvertedToOpportunityID = opportunityID
		lead.UpdatedAt = r.nowFn()

		if errs := validateLead(lead); len(errs) > 0 {
			return nil, api.Validation("lead failed validation", errs)
		}

		r.db.SetLead(lead)
		return &lead, nil
	}, nil)
}

// Count bypasses the artificial delay: it backs summary widgets that must
// not block the interactive path as long as a full fetch.
func (r *LeadRepository) Count(ctx context.Context, filter entity.LeadFilter) (int, error) {
	return api.Do(ctx, r.api, func() (int, error) {
		return query.CountLeads(r.db.Leads(), filter), nil
	}, &api.Options{SkipDelay: true})
}
