package rules

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zaidfarekh/flowmatch/internal/knowledge"
)

type validateRequest struct {
	Operation string `json:"operation"`
	Flow      string `json:"flow"`
	Payload   string `json:"payload"`
}

// RegisterRoutes mounts the validation endpoint on the given router.
func RegisterRoutes(r chi.Router, store *knowledge.Store) {
	r.Post("/api/validate", validateHandler(store))
}

func validateHandler(store *knowledge.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Operation) == "" {
			http.Error(w, "operation is required", http.StatusBadRequest)
			return
		}

		rs := CompileForOperation(store, req.Operation, req.Flow)
		flow := req.Flow
		if flow == "" {
			flow = req.Operation
		}
		result, err := ValidateRequest(r.Context(), rs, req.Operation, flow, req.Payload)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// CompileForOperation resolves the flow document for an operation and
// compiles it together with the operation's fallback required fields. A
// missing document means "no document-derived constraints", never an error.
func CompileForOperation(store *knowledge.Store, operation, flow string) *RuleSet {
	if flow == "" {
		flow = operation
	}
	var (
		ruleStrings []string
		constants   map[string]any
	)
	if doc, ok := store.FlowDocument(flow); ok {
		ruleStrings = doc.ValidationRules
		constants = doc.Constants
	}
	rs := Compile(ruleStrings, constants)
	rs.ApplyFallback(operation)
	return rs
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
