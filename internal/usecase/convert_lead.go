package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/seller-console/internal/cache"
	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/infra/api"
)

// ConvertLeadUseCase turns a lead into an opportunity: first the opportunity
// is created, then the lead is stamped converted with the back-reference.
// The two writes are not atomic. If the second fails, the opportunity stays
// committed and the caller gets a PartialConversionError naming it.
type ConvertLeadUseCase struct {
	Leads         *cache.LeadQueries
	Opportunities *cache.OpportunityQueries
}

func NewConvertLeadUseCase(leads *cache.LeadQueries, opps *cache.OpportunityQueries) *ConvertLeadUseCase {
	return &ConvertLeadUseCase{Leads: leads, Opportunities: opps}
}

type ConvertLeadInput struct {
	LeadID string                  `json:"leadId"`
	Stage  entity.OpportunityStage `json:"stage"`
	Amount *float64                `json:"amount,omitempty"`
}

type ConvertLeadOutput struct {
	Lead        *entity.Lead        `json:"lead"`
	Opportunity *entity.Opportunity `json:"opportunity"`
}

// PartialConversionError reports a conversion that created the opportunity
// but failed to update the lead.
type PartialConversionError struct {
	OpportunityID string
	Err           error
}

func (e *PartialConversionError) Error() string {
	return fmt.Sprintf("lead conversion incomplete: opportunity %s was created but the lead update failed: %v", e.OpportunityID, e.Err)
}

func (e *PartialConversionError) Unwrap() error {
	return e.Err
}

func (uc *ConvertLeadUseCase) Execute(ctx context.Context, input ConvertLeadInput) (*ConvertLeadOutput, error) {
	lead, err := uc.Leads.Get(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, api.NotFound("lead not found")
	}

	opp, err := uc.Opportunities.Create(ctx, entity.CreateOpportunity{
		Name:        lead.Company + " - Opportunity",
		Stage:       input.Stage,
		Amount:      input.Amount,
		AccountName: lead.Company,
		LeadID:      lead.ID,
	})
	if err != nil {
		return nil, err
	}

	converted, err := uc.Leads.Convert(ctx, lead.ID, opp.ID)
	if err != nil {
		return nil, &PartialConversionError{OpportunityID: opp.ID, Err: err}
	}

	return &ConvertLeadOutput{Lead: converted, Opportunity: opp}, nil
}
