package cache

import (
	"fmt"
	"strings"

	"github.com/xavierca1/seller-console/internal/entity"
)

// Cache keys are path-like: domain / shape / identity. The shape segment for
// lists and aggregates is a canonical encoding of the filter and sort, so an
// identical query always lands on the same entry.
const (
	DomainLeads         = "leads"
	DomainOpportunities = "opportunities"
)

// Domain is the first segment of a key.
func Domain(key string) string {
	if i := strings.IndexByte(key, '/'); i >= 0 {
		return key[:i]
	}
	return key
}

func DetailKey(domain, id string) string {
	return domain + "/detail/" + id
}

func ListPrefix(domain string) string {
	return domain + "/list/"
}

func ByLeadKey(leadID string) string {
	return DomainOpportunities + "/byLead/" + leadID
}

func LeadListKey(filter entity.LeadFilter, sortSpec *entity.LeadSort) string {
	var b strings.Builder
	b.WriteString(ListPrefix(DomainLeads))
	encodeLeadFilter(&b, filter)
	if sortSpec != nil {
		fmt.Fprintf(&b, "&sort=%s:%s", sortSpec.Field, sortSpec.Direction)
	}
	return b.String()
}

func LeadCountKey(filter entity.LeadFilter) string {
	var b strings.Builder
	b.WriteString(DomainLeads + "/count/")
	encodeLeadFilter(&b, filter)
	return b.String()
}

func OpportunityListKey(filter entity.OpportunityFilter, sortSpec *entity.OpportunitySort) string {
	var b strings.Builder
	b.WriteString(ListPrefix(DomainOpportunities))
	encodeOpportunityFilter(&b, filter)
	if sortSpec != nil {
		fmt.Fprintf(&b, "&sort=%s:%s", sortSpec.Field, sortSpec.Direction)
	}
	return b.String()
}

func OpportunityCountKey(filter entity.OpportunityFilter) string {
	var b strings.Builder
	b.WriteString(DomainOpportunities + "/count/")
	encodeOpportunityFilter(&b, filter)
	return b.String()
}

func RevenueKey(filter entity.OpportunityFilter) string {
	var b strings.Builder
	b.WriteString(DomainOpportunities + "/revenue/")
	encodeOpportunityFilter(&b, filter)
	return b.String()
}

func encodeLeadFilter(b *strings.Builder, f entity.LeadFilter) {
	fmt.Fprintf(b, "status=%s&source=%s", f.Status, f.Source)
	if f.MinScore != nil {
		fmt.Fprintf(b, "&minScore=%d", *f.MinScore)
	}
	if f.MaxScore != nil {
		fmt.Fprintf(b, "&maxScore=%d", *f.MaxScore)
	}
	if f.Search != "" {
		fmt.Fprintf(b, "&search=%s", f.Search)
	}
}

func encodeOpportunityFilter(b *strings.Builder, f entity.OpportunityFilter) {
	fmt.Fprintf(b, "stage=%s", f.Stage)
	if f.MinAmount != nil {
		fmt.Fprintf(b, "&minAmount=%g", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		fmt.Fprintf(b, "&maxAmount=%g", *f.MaxAmount)
	}
	if f.Search != "" {
		fmt.Fprintf(b, "&search=%s", f.Search)
	}
}
