package entity

import "time"

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

type LeadSource string

const (
	LeadSourceWebsite  LeadSource = "website"
	LeadSourceEmail    LeadSource = "email"
	LeadSourcePhone    LeadSource = "phone"
	LeadSourceReferral LeadSource = "referral"
	LeadSourceSocial   LeadSource = "social"
	LeadSourceOther    LeadSource = "other"
)

func (s LeadSource) Valid() bool {
	switch s {
	case LeadSourceWebsite, LeadSourceEmail, LeadSourcePhone, LeadSourceReferral, LeadSourceSocial, LeadSourceOther:
		return true
	}
	return false
}

// Lead is a sales prospect. JSON field names follow the browser client's
// camelCase convention so the persisted blob stays readable by it.
type Lead struct {
	ID                       string     `json:"id"`
	Name                     string     `json:"name"`
	Company                  string     `json:"company"`
	Email                    string     `json:"email"`
	Source                   LeadSource `json:"source"`
	Score                    int        `json:"score"`
	Status                   LeadStatus `json:"status"`
	CreatedAt                time.Time  `json:"createdAt"`
	UpdatedAt                time.Time  `json:"updatedAt"`
	Notes                    string     `json:"notes,omitempty"`
	Phone                    string     `json:"phone,omitempty"`
	ConvertedToOpportunityID string     `json:"convertedToOpportunityId,omitempty"`
}

// CreateLead carries the client-supplied fields for a new lead. The server
// assigns id and timestamps.
type CreateLead struct {
	Name    string     `json:"name"`
	Company string     `json:"company"`
	Email   string     `json:"email"`
	Source  LeadSource `json:"source"`
	Score   int        `json:"score"`
	Status  LeadStatus `json:"status"`
	Notes   string     `json:"notes,omitempty"`
	Phone   string     `json:"phone,omitempty"`
}

// UpdateLead is a partial update keyed by ID. Nil pointers mean "leave as is".
type UpdateLead struct {
	ID      string      `json:"id"`
	Name    *string     `json:"name,omitempty"`
	Company *string     `json:"company,omitempty"`
	Email   *string     `json:"email,omitempty"`
	Source  *LeadSource `json:"source,omitempty"`
	Score   *int        `json:"score,omitempty"`
	Status  *LeadStatus `json:"status,omitempty"`
	Notes   *string     `json:"notes,omitempty"`
	Phone   *string     `json:"phone,omitempty"`
}

// ApplyTo overlays the set fields onto lead.
func (u UpdateLead) ApplyTo(lead *Lead) {
	if u.Name != nil {
		lead.Name = *u.Name
	}
	if u.Company != nil {
		lead.Company = *u.Company
	}
	if u.Email != nil {
		lead.Email = *u.Email
	}
	if u.Source != nil {
		lead.Source = *u.Source
	}
	if u.Score != nil {
		lead.Score = *u.Score
	}
	if u.Status != nil {
		lead.Status = *u.Status
	}
	if u.Notes != nil {
		lead.Notes = *u.Notes
	}
	if u.Phone != nil {
		lead.Phone = *u.Phone
	}
}

type LeadSortField string

const (
	LeadSortName      LeadSortField = "name"
	LeadSortCompany   LeadSortField = "company"
	LeadSortScore     LeadSortField = "score"
	LeadSortCreatedAt LeadSortField = "createdAt"
	LeadSortUpdatedAt LeadSortField = "updatedAt"
)

// LeadFilter combines predicates conjunctively. Zero values mean "absent".
type LeadFilter struct {
	Status   LeadStatus `json:"status,omitempty"`
	Source   LeadSource `json:"source,omitempty"`
	MinScore *int       `json:"minScore,omitempty"`
	MaxScore *int       `json:"maxScore,omitempty"`
	Search   string     `json:"search,omitempty"`
}

type LeadSort struct {
	Field     LeadSortField `json:"field"`
	Direction SortDirection `json:"direction"`
}
