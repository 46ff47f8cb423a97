package errclass

import (
	"sort"
	"strings"

	"github.com/zaidfarekh/flowmatch/internal/fuzzy"
	"github.com/zaidfarekh/flowmatch/internal/knowledge"
)

// Guidance pairs a known catalog error with its similarity to the message
// being categorized.
type Guidance struct {
	Known      knowledge.CatalogError `json:"known"`
	Confidence float64                `json:"confidence"`
}

// LookupGuidance finds known errors in the catalog resembling message, best
// first. The comparison is substring containment or fuzzy similarity at the
// given threshold.
func LookupGuidance(catalog knowledge.ErrorCatalog, message string, threshold float64) []Guidance {
	known := make([]knowledge.CatalogError, 0,
		len(catalog.AuthenticationErrors)+len(catalog.OperationErrors)+len(catalog.APIErrors))
	known = append(known, catalog.AuthenticationErrors...)
	known = append(known, catalog.OperationErrors...)
	known = append(known, catalog.APIErrors...)

	lower := strings.ToLower(message)
	var out []Guidance
	for _, ke := range known {
		if strings.Contains(lower, strings.ToLower(ke.Message)) {
			out = append(out, Guidance{Known: ke, Confidence: 1})
			continue
		}
		if conf := fuzzy.Confidence(lower, ke.Message); conf >= threshold {
			out = append(out, Guidance{Known: ke, Confidence: conf})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}
