package errclass

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zaidfarekh/flowmatch/internal/knowledge"
)

type categorizeRequest struct {
	Message string `json:"message"`
}

type categorizeResponse struct {
	Category Category   `json:"category"`
	Guidance []Guidance `json:"guidance,omitempty"`
}

// RegisterRoutes mounts the categorization endpoint on the given router.
func RegisterRoutes(r chi.Router, categorizer *Categorizer, store *knowledge.Store, guidanceThreshold float64) {
	r.Post("/api/categorize", categorizeHandler(categorizer, store, guidanceThreshold))
}

func categorizeHandler(categorizer *Categorizer, store *knowledge.Store, threshold float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categorizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			http.Error(w, "message is required", http.StatusBadRequest)
			return
		}
		resp := categorizeResponse{
			Category: categorizer.Categorize(r.Context(), req.Message),
			Guidance: LookupGuidance(store.ErrorCatalog(), req.Message, threshold),
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
