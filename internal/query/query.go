// Package query holds the pure filter, sort and aggregate functions the
// repositories run over collection snapshots.
package query

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/xavierca1/seller-console/internal/entity"
)

// newCollator builds the locale-aware string comparator, matching the
// localeCompare ordering the browser client renders. A fresh collator per
// sort keeps this goroutine-safe.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// FilterLeads keeps the leads satisfying every present predicate.
func FilterLeads(leads []entity.Lead, filter entity.LeadFilter) []entity.Lead {
	out := make([]entity.Lead, 0, len(leads))
	search := strings.ToLower(filter.Search)

	for _, lead := range leads {
		if filter.Status != "" && lead.Status != filter.Status {
			continue
		}
		if filter.Source != "" && lead.Source != filter.Source {
			continue
		}
		if filter.MinScore != nil && lead.Score < *filter.MinScore {
			continue
		}
		if filter.MaxScore != nil && lead.Score > *filter.MaxScore {
			continue
		}
		if search != "" {
			if !containsFold(lead.Name, search) &&
				!containsFold(lead.Company, search) &&
				!containsFold(lead.Email, search) {
				continue
			}
		}
		out = append(out, lead)
	}
	return out
}

// SortLeads orders a copy of leads by the sort spec. The sort is stable and
// direction flips the comparator, not the sorted sequence, so ties keep
// their input order in both directions.
func SortLeads(leads []entity.Lead, spec entity.LeadSort) []entity.Lead {
	out := make([]entity.Lead, len(leads))
	copy(out, leads)

	coll := newCollator()
	cmp := func(a, b entity.Lead) int {
		switch spec.Field {
		case entity.LeadSortName:
			return coll.CompareString(a.Name, b.Name)
		case entity.LeadSortCompany:
			return coll.CompareString(a.Company, b.Company)
		case entity.LeadSortScore:
			return a.Score - b.Score
		case entity.LeadSortCreatedAt:
			return compareTimes(a.CreatedAt, b.CreatedAt)
		case entity.LeadSortUpdatedAt:
			return compareTimes(a.UpdatedAt, b.UpdatedAt)
		}
		return 0
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if spec.Direction == entity.SortDesc {
			c = -c
		}
		return c < 0
	})
	return out
}

// CountLeads is the size of the filtered collection.
func CountLeads(leads []entity.Lead, filter entity.LeadFilter) int {
	return len(FilterLeads(leads, filter))
}

// FilterOpportunities keeps the opportunities satisfying every present
// predicate. A missing amount counts as 0 for the range bounds.
func FilterOpportunities(opps []entity.Opportunity, filter entity.OpportunityFilter) []entity.Opportunity {
	out := make([]entity.Opportunity, 0, len(opps))
	search := strings.ToLower(filter.Search)

	for _, opp := range opps {
		if filter.Stage != "" && opp.Stage != filter.Stage {
			continue
		}
		if filter.MinAmount != nil && opp.AmountOrZero() < *filter.MinAmount {
			continue
		}
		if filter.MaxAmount != nil && opp.AmountOrZero() > *filter.MaxAmount {
			continue
		}
		if search != "" {
			if !containsFold(opp.Name, search) &&
				!containsFold(opp.AccountName, search) &&
				!(opp.Description != "" && containsFold(opp.Description, search)) {
				continue
			}
		}
		out = append(out, opp)
	}
	return out
}

// SortOpportunities orders a copy of opps by the sort spec, same stability
// contract as SortLeads. A missing expectedCloseDate sorts as the earliest
// possible instant.
func SortOpportunities(opps []entity.Opportunity, spec entity.OpportunitySort) []entity.Opportunity {
	out := make([]entity.Opportunity, len(opps))
	copy(out, opps)

	coll := newCollator()
	cmp := func(a, b entity.Opportunity) int {
		switch spec.Field {
		case entity.OpportunitySortName:
			return coll.CompareString(a.Name, b.Name)
		case entity.OpportunitySortAmount:
			return compareFloats(a.AmountOrZero(), b.AmountOrZero())
		case entity.OpportunitySortStage:
			return coll.CompareString(string(a.Stage), string(b.Stage))
		case entity.OpportunitySortCreatedAt:
			return compareTimes(a.CreatedAt, b.CreatedAt)
		case entity.OpportunitySortUpdatedAt:
			return compareTimes(a.UpdatedAt, b.UpdatedAt)
		case entity.OpportunitySortExpectedCloseDate:
			return compareTimes(closeDateOrZero(a), closeDateOrZero(b))
		}
		return 0
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if spec.Direction == entity.SortDesc {
			c = -c
		}
		return c < 0
	})
	return out
}

func CountOpportunities(opps []entity.Opportunity, filter entity.OpportunityFilter) int {
	return len(FilterOpportunities(opps, filter))
}

// TotalRevenue sums amount over the filtered collection, missing amounts
// counting as 0.
func TotalRevenue(opps []entity.Opportunity, filter entity.OpportunityFilter) float64 {
	total := 0.0
	for _, opp := range FilterOpportunities(opps, filter) {
		total += opp.AmountOrZero()
	}
	return total
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func closeDateOrZero(o entity.Opportunity) time.Time {
	if o.ExpectedCloseDate == nil {
		return time.Time{}
	}
	return *o.ExpectedCloseDate
}
