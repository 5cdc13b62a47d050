package database

import (
	"time"

	"github.com/xavierca1/seller-console/internal/entity"
)

// FixtureLeads is the initial dataset seeded on first run or after Reset.
// Ids are fixed so repeat runs against a cleared medium look identical.
func FixtureLeads() []entity.Lead {
	seeded := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	leads := []entity.Lead{
		{
			ID:      "1f0e9c66-0f12-4f6e-8f2a-3f1df6f0a001",
			Name:    "Alice Johnson",
			Company: "TechCorp Solutions",
			Email:   "alice.johnson@techcorp.com",
			Source:  entity.LeadSourceWebsite,
			Score:   85,
			Status:  entity.LeadStatusNew,
			Phone:   "+1-555-0101",
		},
		{
			ID:      "1f0e9c66-0f12-4f6e-8f2a-3f1df6f0a002",
			Name:    "Bob Martinez",
			Company: "Global Industries",
			Email:   "bob.martinez@globalind.com",
			Source:  entity.LeadSourceReferral,
			Score:   72,
			Status:  entity.LeadStatusContacted,
			Notes:   "Interested in enterprise plan, follow up next week",
		},
		{
			ID:      "1f0e9c66-0f12-4f6e-8f2a-3f1df6f0a003",
			Name:    "Carol Chen",
			Company: "StartupHub",
			Email:   "carol@startuphub.io",
			Source:  entity.LeadSourceSocial,
			Score:   91,
			Status:  entity.LeadStatusQualified,
			Phone:   "+1-555-0103",
		},
		{
			ID:      "1f0e9c66-0f12-4f6e-8f2a-3f1df6f0a004",
			Name:    "David Okafor",
			Company: "Meridian Logistics",
			Email:   "d.okafor@meridianlog.com",
			Source:  entity.LeadSourceEmail,
			Score:   58,
			Status:  entity.LeadStatusNew,
		},
		{
			ID:      "1f0e9c66-0f12-4f6e-8f2a-3f1df6f0a005",
			Name:    "Elena Petrova",
			Company: "Nordwind Consulting",
			Email:   "elena.petrova@nordwind.se",
			Source:  entity.LeadSourcePhone,
			Score:   64,
			Status:  entity.LeadStatusContacted,
			Notes:   "Asked for pricing sheet",
		},
		{
			ID:      "1f0e9c66-0f12-4f6e-8f2a-3f1df6f0a006",
			Name:    "Frank Wu",
			Company: "Pacific Retail Group",
			Email:   "frank.wu@pacificretail.com",
			Source:  entity.LeadSourceWebsite,
			Score:   45,
			Status:  entity.LeadStatusLost,
			Notes:   "Went with a competitor",
		},
		{
			ID:      "1f0e9c66-0f12-4f6e-8f2a-3f1df6f0a007",
			Name:    "Grace Kim",
			Company: "Lumen Analytics",
			Email:   "grace.kim@lumenanalytics.com",
			Source:  entity.LeadSourceReferral,
			Score:   88,
			Status:  entity.LeadStatusQualified,
			Phone:   "+1-555-0107",
		},
		{
			ID:      "1f0e9c66-0f12-4f6e-8f2a-3f1df6f0a008",
			Name:    "Henrik Larsen",
			Company: "Fjord Marine Supplies",
			Email:   "henrik@fjordmarine.no",
			Source:  entity.LeadSourceOther,
			Score:   33,
			Status:  entity.LeadStatusNew,
		},
		{
			ID:      "1f0e9c66-0f12-4f6e-8f2a-3f1df6f0a009",
			Name:    "Isabela Santos",
			Company: "Verde Agro",
			Email:   "isabela.santos@verdeagro.com.br",
			Source:  entity.LeadSourceSocial,
			Score:   77,
			Status:  entity.LeadStatusContacted,
			Phone:   "+55-11-98888-0109",
		},
		{
			ID:      "1f0e9c66-0f12-4f6e-8f2a-3f1df6f0a010",
			Name:    "James O'Brien",
			Company: "Cobalt Financial",
			Email:   "jobrien@cobaltfin.com",
			Source:  entity.LeadSourceEmail,
			Score:   69,
			Status:  entity.LeadStatusNew,
			Notes:   "Opened three campaign emails",
		},
	}

	for i := range leads {
		created := seeded.Add(time.Duration(i) * 24 * time.Hour)
		leads[i].CreatedAt = created
		leads[i].UpdatedAt = created
	}
	return leads
}
