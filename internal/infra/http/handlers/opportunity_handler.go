package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/seller-console/internal/cache"
	"github.com/xavierca1/seller-console/internal/entity"
)

type OpportunityHandler struct {
	queries *cache.OpportunityQueries
}

func NewOpportunityHandler(queries *cache.OpportunityQueries) *OpportunityHandler {
	return &OpportunityHandler{queries: queries}
}

func (h *OpportunityHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/count", h.Count)
	r.Get("/revenue", h.Revenue)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func opportunityFilterFromQuery(r *http.Request) entity.OpportunityFilter {
	q := r.URL.Query()
	filter := entity.OpportunityFilter{
		Stage:  entity.OpportunityStage(q.Get("stage")),
		Search: q.Get("search"),
	}
	if raw := q.Get("minAmount"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinAmount = &v
		}
	}
	if raw := q.Get("maxAmount"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxAmount = &v
		}
	}
	return filter
}

func opportunitySortFromQuery(r *http.Request) *entity.OpportunitySort {
	q := r.URL.Query()
	field := q.Get("sortBy")
	if field == "" {
		return nil
	}
	direction := entity.SortDirection(q.Get("direction"))
	if !direction.Valid() {
		direction = entity.SortAsc
	}
	return &entity.OpportunitySort{Field: entity.OpportunitySortField(field), Direction: direction}
}

func (h *OpportunityHandler) List(w http.ResponseWriter, r *http.Request) {
	opps, err := h.queries.List(r.Context(), opportunityFilterFromQuery(r), opportunitySortFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opps)
}

func (h *OpportunityHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.queries.Count(r.Context(), opportunityFilterFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *OpportunityHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	total, err := h.queries.TotalRevenue(r.Context(), opportunityFilterFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"totalRevenue": total})
}

func (h *OpportunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	opp, err := h.queries.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if opp == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "opportunity not found", Code: "NOT_FOUND"})
		return
	}
	writeJSON(w, http.StatusOK, opp)
}

func (h *OpportunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var data entity.CreateOpportunity
	if !decodeBody(w, r, &data) {
		return
	}

	opp, err := h.queries.Create(r.Context(), data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, opp)
}

func (h *OpportunityHandler) Update(w http.ResponseWriter, r *http.Request) {
	var data entity.UpdateOpportunity
	if !decodeBody(w, r, &data) {
		return
	}
	data.ID = chi.URLParam(r, "id")

	opp, err := h.queries.Update(r.Context(), data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opp)
}

func (h *OpportunityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.queries.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
