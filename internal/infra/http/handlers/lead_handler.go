package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/seller-console/internal/cache"
	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/infra/http/middleware"
	"github.com/xavierca1/seller-console/internal/usecase"
)

type LeadHandler struct {
	queries       *cache.LeadQueries
	opportunities *cache.OpportunityQueries
	converter     *usecase.ConvertLeadUseCase
}

func NewLeadHandler(queries *cache.LeadQueries, opps *cache.OpportunityQueries, converter *usecase.ConvertLeadUseCase) *LeadHandler {
	return &LeadHandler{
		queries:       queries,
		opportunities: opps,
		converter:     converter,
	}
}

func (h *LeadHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/count", h.Count)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/convert", h.Convert)
	r.Get("/{id}/opportunity", h.Opportunity)
}

func leadFilterFromQuery(r *http.Request) entity.LeadFilter {
	q := r.URL.Query()
	filter := entity.LeadFilter{
		Status: entity.LeadStatus(q.Get("status")),
		Source: entity.LeadSource(q.Get("source")),
		Search: q.Get("search"),
	}
	if raw := q.Get("minScore"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.MinScore = &v
		}
	}
	if raw := q.Get("maxScore"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.MaxScore = &v
		}
	}
	return filter
}

func leadSortFromQuery(r *http.Request) *entity.LeadSort {
	q := r.URL.Query()
	field := q.Get("sortBy")
	if field == "" {
		return nil
	}
	direction := entity.SortDirection(q.Get("direction"))
	if !direction.Valid() {
		direction = entity.SortAsc
	}
	return &entity.LeadSort{Field: entity.LeadSortField(field), Direction: direction}
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.queries.List(r.Context(), leadFilterFromQuery(r), leadSortFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.queries.Count(r.Context(), leadFilterFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.queries.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if lead == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "lead not found", Code: "NOT_FOUND"})
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var data entity.CreateLead
	if !decodeBody(w, r, &data) {
		return
	}

	lead, err := h.queries.Create(r.Context(), data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var data entity.UpdateLead
	if !decodeBody(w, r, &data) {
		return
	}
	data.ID = chi.URLParam(r, "id")

	lead, err := h.queries.Update(r.Context(), data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.queries.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *LeadHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var input usecase.ConvertLeadInput
	if !decodeBody(w, r, &input) {
		return
	}
	input.LeadID = chi.URLParam(r, "id")

	output, err := h.converter.Execute(r.Context(), input)
	if err != nil {
		outcome := "failed"
		if _, ok := err.(*usecase.PartialConversionError); ok {
			outcome = "partial"
		}
		middleware.RecordLeadConversion(outcome)
		writeError(w, err)
		return
	}

	middleware.RecordLeadConversion("success")
	writeJSON(w, http.StatusOK, output)
}

// Opportunity resolves the opportunity a lead was converted into.
func (h *LeadHandler) Opportunity(w http.ResponseWriter, r *http.Request) {
	opp, err := h.opportunities.GetByLead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if opp == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no opportunity for this lead", Code: "NOT_FOUND"})
		return
	}
	writeJSON(w, http.StatusOK, opp)
}
