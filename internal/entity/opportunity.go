package entity

import "time"

type OpportunityStage string

const (
	StageProspecting   OpportunityStage = "prospecting"
	StageQualification OpportunityStage = "qualification"
	StageProposal      OpportunityStage = "proposal"
	StageNegotiation   OpportunityStage = "negotiation"
	StageClosedWon     OpportunityStage = "closed_won"
	StageClosedLost    OpportunityStage = "closed_lost"
)

func (s OpportunityStage) Valid() bool {
	switch s {
	case StageProspecting, StageQualification, StageProposal, StageNegotiation, StageClosedWon, StageClosedLost:
		return true
	}
	return false
}

// Opportunity is a deal in the pipeline, always traced back to the lead it
// came from via LeadID.
type Opportunity struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Stage             OpportunityStage `json:"stage"`
	Amount            *float64         `json:"amount,omitempty"`
	AccountName       string           `json:"accountName"`
	LeadID            string           `json:"leadId"`
	Probability       int              `json:"probability"`
	ExpectedCloseDate *time.Time       `json:"expectedCloseDate,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
	Description       string           `json:"description,omitempty"`
	NextStep          string           `json:"nextStep,omitempty"`
}

// AmountOrZero returns the deal amount, treating an unset amount as 0.
func (o Opportunity) AmountOrZero() float64 {
	if o.Amount == nil {
		return 0
	}
	return *o.Amount
}

type CreateOpportunity struct {
	Name              string           `json:"name"`
	Stage             OpportunityStage `json:"stage"`
	Amount            *float64         `json:"amount,omitempty"`
	AccountName       string           `json:"accountName"`
	LeadID            string           `json:"leadId"`
	Probability       *int             `json:"probability,omitempty"` // defaults to 50
	ExpectedCloseDate *time.Time       `json:"expectedCloseDate,omitempty"`
	Description       string           `json:"description,omitempty"`
	NextStep          string           `json:"nextStep,omitempty"`
}

type UpdateOpportunity struct {
	ID                string            `json:"id"`
	Name              *string           `json:"name,omitempty"`
	Stage             *OpportunityStage `json:"stage,omitempty"`
	Amount            *float64          `json:"amount,omitempty"`
	AccountName       *string           `json:"accountName,omitempty"`
	Probability       *int              `json:"probability,omitempty"`
	ExpectedCloseDate *time.Time        `json:"expectedCloseDate,omitempty"`
	Description       *string           `json:"description,omitempty"`
	NextStep          *string           `json:"nextStep,omitempty"`
}

func (u UpdateOpportunity) ApplyTo(opp *Opportunity) {
	if u.Name != nil {
		opp.Name = *u.Name
	}
	if u.Stage != nil {
		opp.Stage = *u.Stage
	}
	if u.Amount != nil {
		amount := *u.Amount
		opp.Amount = &amount
	}
	if u.AccountName != nil {
		opp.AccountName = *u.AccountName
	}
	if u.Probability != nil {
		opp.Probability = *u.Probability
	}
	if u.ExpectedCloseDate != nil {
		date := *u.ExpectedCloseDate
		opp.ExpectedCloseDate = &date
	}
	if u.Description != nil {
		opp.Description = *u.Description
	}
	if u.NextStep != nil {
		opp.NextStep = *u.NextStep
	}
}

type OpportunitySortField string

const (
	OpportunitySortName              OpportunitySortField = "name"
	OpportunitySortAmount            OpportunitySortField = "amount"
	OpportunitySortStage             OpportunitySortField = "stage"
	OpportunitySortCreatedAt         OpportunitySortField = "createdAt"
	OpportunitySortUpdatedAt         OpportunitySortField = "updatedAt"
	OpportunitySortExpectedCloseDate OpportunitySortField = "expectedCloseDate"
)

type OpportunityFilter struct {
	Stage     OpportunityStage `json:"stage,omitempty"`
	MinAmount *float64         `json:"minAmount,omitempty"`
	MaxAmount *float64         `json:"maxAmount,omitempty"`
	Search    string           `json:"search,omitempty"`
}

type OpportunitySort struct {
	Field     OpportunitySortField `json:"field"`
	Direction SortDirection        `json:"direction"`
}
