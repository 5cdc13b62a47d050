package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xavierca1/seller-console/internal/infra/database"
	"github.com/xavierca1/seller-console/internal/infra/storage"
)

type HealthHandler struct {
	Storage   storage.Medium
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(medium storage.Medium) *HealthHandler {
	return &HealthHandler{
		Storage:   medium,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	// Check storage medium
	if h.Storage != nil {
		if err := probeStorage(h.Storage); err != nil {
			deps["storage"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["storage"] = "healthy"
		}
	} else {
		deps["storage"] = "not configured"
	}

	// Determine overall status
	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	uptime := time.Since(h.StartTime).Round(time.Second).String()

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       uptime,
		Dependencies: deps,
	}

	if status == "degraded" {
		writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// probeStorage pings the medium when it supports it, otherwise does a cheap
// read against the persisted blob key. A missing blob is still healthy.
func probeStorage(medium storage.Medium) error {
	if p, ok := medium.(interface{ Ping() error }); ok {
		return p.Ping()
	}
	medium.Exists(database.StorageKey)
	return nil
}
