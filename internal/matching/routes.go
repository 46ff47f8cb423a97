package matching

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type matchRequest struct {
	Description string `json:"description"`
}

// RegisterRoutes mounts the classification endpoint on the given router.
func RegisterRoutes(r chi.Router, scorer *Scorer) {
	r.Post("/api/match", matchHandler(scorer))
}

func matchHandler(scorer *Scorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req matchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Description) == "" {
			http.Error(w, "description is required", http.StatusBadRequest)
			return
		}
		analysis, err := scorer.Match(r.Context(), req.Description)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, analysis)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
