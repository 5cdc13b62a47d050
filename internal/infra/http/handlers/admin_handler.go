package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/seller-console/internal/cache"
	"github.com/xavierca1/seller-console/internal/infra/api"
	"github.com/xavierca1/seller-console/internal/infra/database"
)

// AdminHandler exposes the operational endpoints: reseeding the dataset and
// tuning the simulated transport at runtime.
type AdminHandler struct {
	db     *database.Database
	client *api.Client
	cache  *cache.Cache
}

func NewAdminHandler(db *database.Database, client *api.Client, c *cache.Cache) *AdminHandler {
	return &AdminHandler{db: db, client: client, cache: c}
}

func (h *AdminHandler) Routes(r chi.Router) {
	r.Post("/reset", h.Reset)
	r.Put("/simulation", h.Simulation)
}

type simulationRequest struct {
	ErrorRate  *float64 `json:"errorRate"`
	MinDelayMs *int     `json:"minDelayMs"`
	MaxDelayMs *int     `json:"maxDelayMs"`
}

type simulationResponse struct {
	ErrorRate  float64 `json:"errorRate"`
	MinDelayMs int     `json:"minDelayMs"`
	MaxDelayMs int     `json:"maxDelayMs"`
}

func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.db.Reset()
	h.cache.Clear()
	log.Println("admin: dataset reset to seed fixtures")
	writeJSON(w, http.StatusOK, map[string]bool{"reset": true})
}

func (h *AdminHandler) Simulation(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.ErrorRate != nil {
		h.client.SetErrorRate(*req.ErrorRate)
	}
	if req.MinDelayMs != nil || req.MaxDelayMs != nil {
		min, max := h.client.DelayRange()
		if req.MinDelayMs != nil {
			min = time.Duration(*req.MinDelayMs) * time.Millisecond
		}
		if req.MaxDelayMs != nil {
			max = time.Duration(*req.MaxDelayMs) * time.Millisecond
		}
		h.client.SetDelayRange(min, max)
	}

	rate := h.client.ErrorRate()
	min, max := h.client.DelayRange()
	writeJSON(w, http.StatusOK, simulationResponse{
		ErrorRate:  rate,
		MinDelayMs: int(min / time.Millisecond),
		MaxDelayMs: int(max / time.Millisecond),
	})
}
