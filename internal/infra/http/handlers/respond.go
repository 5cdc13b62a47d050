package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/seller-console/internal/infra/api"
	"github.com/xavierca1/seller-console/internal/usecase"
)

type errorResponse struct {
	Error  string           `json:"error"`
	Code   string           `json:"code"`
	Fields []api.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// writeError maps a classified error onto its HTTP status. Unclassified
// errors should not reach here; they come out as a plain 500.
func writeError(w http.ResponseWriter, err error) {
	var partial *usecase.PartialConversionError
	if errors.As(err, &partial) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":         partial.Error(),
			"code":          "PARTIAL_CONVERSION",
			"opportunityId": partial.OpportunityID,
		})
		return
	}

	if apiErr, ok := api.AsError(err); ok {
		writeJSON(w, apiErr.Status, errorResponse{
			Error:  apiErr.Message,
			Code:   apiErr.Code,
			Fields: apiErr.Fields,
		})
		return
	}

	log.Printf("handlers: unclassified error: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error: "internal error",
		Code:  api.CodeInternal,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "invalid JSON",
			Code:  api.CodeValidation,
		})
		return false
	}
	return true
}
