package repository

import (
	"net/mail"
	"strings"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/infra/api"
)

const maxNameLength = 100

// validateLead checks the fully merged record, so every write path enforces
// the same schema regardless of how the record was assembled.
func validateLead(lead entity.Lead) []api.FieldError {
	var errs []api.FieldError

	if strings.TrimSpace(lead.Name) == "" {
		errs = append(errs, api.FieldError{Field: "name", Message: "is required"})
	} else if len(lead.Name) > maxNameLength {
		errs = append(errs, api.FieldError{Field: "name", Message: "must not exceed 100 characters"})
	}

	if strings.TrimSpace(lead.Company) == "" {
		errs = append(errs, api.FieldError{Field: "company", Message: "is required"})
	} else if len(lead.Company) > maxNameLength {
		errs = append(errs, api.FieldError{Field: "company", Message: "must not exceed 100 characters"})
	}

	if strings.TrimSpace(lead.Email) == "" {
		errs = append(errs, api.FieldError{Field: "email", Message: "is required"})
	} else if _, err := mail.ParseAddress(lead.Email); err != nil {
		errs = append(errs, api.FieldError{Field: "email", Message: "is invalid"})
	}

	if !lead.Source.Valid() {
		errs = append(errs, api.FieldError{Field: "source", Message: "must be one of website, email, phone, referral, social, other"})
	}

	if lead.Score < 0 || lead.Score > 100 {
		errs = append(errs, api.FieldError{Field: "score", Message: "must be between 0 and 100"})
	}

	if !lead.Status.Valid() {
		errs = append(errs, api.FieldError{Field: "status", Message: "must be one of new, contacted, qualified, converted, lost"})
	}

	// convertedToOpportunityId travels with status=converted, never alone.
	if lead.Status == entity.LeadStatusConverted && lead.ConvertedToOpportunityID == "" {
		errs = append(errs, api.FieldError{Field: "convertedToOpportunityId", Message: "is required when status is converted"})
	}
	if lead.Status != entity.LeadStatusConverted && lead.ConvertedToOpportunityID != "" {
		errs = append(errs, api.FieldError{Field: "convertedToOpportunityId", Message: "must be empty unless status is converted"})
	}

	return errs
}

func validateOpportunity(opp entity.Opportunity) []api.FieldError {
	var errs []api.FieldError

	if strings.TrimSpace(opp.Name) == "" {
		errs = append(errs, api.FieldError{Field: "name", Message: "is required"})
	} else if len(opp.Name) > maxNameLength {
		errs = append(errs, api.FieldError{Field: "name", Message: "must not exceed 100 characters"})
	}

	if !opp.Stage.Valid() {
		errs = append(errs, api.FieldError{Field: "stage", Message: "must be one of prospecting, qualification, proposal, negotiation, closed_won, closed_lost"})
	}

	if opp.Amount != nil && *opp.Amount < 0 {
		errs = append(errs, api.FieldError{Field: "amount", Message: "must not be negative"})
	}

	if strings.TrimSpace(opp.AccountName) == "" {
		errs = append(errs, api.FieldError{Field: "accountName", Message: "is required"})
	} else if len(opp.AccountName) > maxNameLength {
		errs = append(errs, api.FieldError{Field: "accountName", Message: "must not exceed 100 characters"})
	}

	if strings.TrimSpace(opp.LeadID) == "" {
		errs = append(errs, api.FieldError{Field: "leadId", Message: "is required"})
	}

	if opp.Probability < 0 || opp.Probability > 100 {
		errs = append(errs, api.FieldError{Field: "probability", Message: "must be between 0 and 100"})
	}

	return errs
}
