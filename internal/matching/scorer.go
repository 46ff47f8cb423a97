package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/zaidfarekh/flowmatch/internal/fuzzy"
	"github.com/zaidfarekh/flowmatch/internal/knowledge"
)

// Confidence buckets a continuous match score for human-facing output.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Sub-score weights. Entity overlap dominates because entity words carry the
// most signal about which flow a request means.
const (
	entityWeight  = 0.6
	actionWeight  = 0.3
	keywordWeight = 0.1
)

// Neutral baselines used when a signature declares no expectations for a
// sub-score. Tuning constants inherited from production; candidates for
// empirical recalibration, not load-bearing invariants.
const (
	emptyEntityBaseline  = 0.4
	emptyActionBaseline  = 0.4
	emptyKeywordBaseline = 0.3
)

// Confidence label and alternative-list cutoffs.
const (
	highCutoff        = 0.75
	mediumCutoff      = 0.5
	alternativeCutoff = 0.25
	maxAlternatives   = 4
	fallbackScore     = 0.4
)

// Candidate is one scored flow.
type Candidate struct {
	Flow         string     `json:"flow"`
	OverallScore float64    `json:"overall_score"`
	EntityScore  float64    `json:"entity_score"`
	ActionScore  float64    `json:"action_score"`
	KeywordScore float64    `json:"keyword_score"`
	Confidence   Confidence `json:"confidence"`
	Reasoning    string     `json:"reasoning"`
}

// Analysis is the full classification result: the best candidate plus ranked
// alternatives above the alternative cutoff.
type Analysis struct {
	Primary      Candidate   `json:"primary"`
	Alternatives []Candidate `json:"alternatives"`
}

// Scorer scores queries against a fixed signature catalog. Safe for
// concurrent use; all state is read-only after construction.
type Scorer struct {
	vocab         *Vocabulary
	catalog       []knowledge.FlowSignature
	defaultFlow   string
	typoThreshold float64
}

// NewScorer builds a Scorer over the given catalog and vocabularies.
func NewScorer(cfg knowledge.MatchingConfig, catalog []knowledge.FlowSignature, defaultFlow string, typoThreshold float64) *Scorer {
	return &Scorer{
		vocab:         NewVocabulary(cfg),
		catalog:       catalog,
		defaultFlow:   defaultFlow,
		typoThreshold: typoThreshold,
	}
}

// Tokenize exposes the scorer's tokenizer for callers that want the raw
// token breakdown.
func (s *Scorer) Tokenize(text string) QueryTokens {
	return s.vocab.AnalyzeQuery(text)
}

// Match classifies description against every catalog signature and returns
// the ranked analysis. An empty catalog or a query that matches nothing
// yields the configured default flow at low confidence, never an error.
func (s *Scorer) Match(ctx context.Context, description string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}

	tokens := s.vocab.AnalyzeQuery(description)

	if len(s.catalog) == 0 {
		return Analysis{Primary: s.fallbackCandidate("no flow signatures loaded")}, nil
	}

	candidates := make([]Candidate, 0, len(s.catalog))
	for _, sig := range s.catalog {
		if err := ctx.Err(); err != nil {
			return Analysis{}, err
		}
		candidates = append(candidates, s.score(tokens, sig))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.OverallScore != b.OverallScore {
			return a.OverallScore > b.OverallScore
		}
		if a.EntityScore != b.EntityScore {
			return a.EntityScore > b.EntityScore
		}
		return a.ActionScore > b.ActionScore
	})

	if candidates[0].OverallScore == 0 {
		return Analysis{Primary: s.fallbackCandidate("no recognizable actions, entities, or keywords in the request")}, nil
	}

	analysis := Analysis{Primary: candidates[0]}
	for _, c := range candidates[1:] {
		if c.OverallScore < alternativeCutoff {
			break
		}
		analysis.Alternatives = append(analysis.Alternatives, c)
		if len(analysis.Alternatives) == maxAlternatives {
			break
		}
	}
	return analysis, nil
}

// score computes the weighted candidate for one signature.
func (s *Scorer) score(tokens QueryTokens, sig knowledge.FlowSignature) Candidate {
	entityScore, matchedEntities := overlap(tokens.Entities, sig.Entities, emptyEntityBaseline)
	actionScore, matchedActions := overlap(tokens.Actions, sig.Actions, emptyActionBaseline)
	keywordScore, matchedKeywords := s.keywordScore(tokens, sig.Keywords)

	overall := entityWeight*entityScore + actionWeight*actionScore + keywordWeight*keywordScore

	return Candidate{
		Flow:         sig.Name,
		OverallScore: overall,
		EntityScore:  entityScore,
		ActionScore:  actionScore,
		KeywordScore: keywordScore,
		Confidence:   labelFor(overall),
		Reasoning:    reasoning(matchedEntities, matchedActions, matchedKeywords),
	}
}

// overlap returns |tokens ∩ expected| / |expected|, or baseline when the
// signature declares no expectations.
func overlap(tokens, expected []string, baseline float64) (float64, []string) {
	if len(expected) == 0 {
		return baseline, nil
	}
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	var matched []string
	for _, e := range expected {
		if _, ok := set[e]; ok {
			matched = append(matched, e)
		}
	}
	return float64(len(matched)) / float64(len(expected)), matched
}

// keywordScore counts keywords that appear in the query, either as an exact
// substring or with every keyword word within typo distance of a query word.
func (s *Scorer) keywordScore(tokens QueryTokens, keywords []string) (float64, []string) {
	if len(keywords) == 0 {
		return emptyKeywordBaseline, nil
	}
	query := strings.ToLower(tokens.OriginalQuery)
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(query, kw) || s.fuzzyHit(kw, tokens.Words) {
			matched = append(matched, kw)
		}
	}
	return float64(len(matched)) / float64(len(keywords)), matched
}

// fuzzyHit reports whether each word of keyword matches some query word at
// the typo threshold.
func (s *Scorer) fuzzyHit(keyword string, words []string) bool {
	for _, kwWord := range strings.Fields(keyword) {
		if _, ok := fuzzy.FindBestMatch(kwWord, words, s.typoThreshold); !ok {
			return false
		}
	}
	return true
}

func labelFor(overall float64) Confidence {
	switch {
	case overall >= highCutoff:
		return ConfidenceHigh
	case overall >= mediumCutoff:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// reasoning builds the human-readable justification from whatever actually
// matched.
func reasoning(entities, actions, keywords []string) string {
	var parts []string
	if len(entities) > 0 {
		parts = append(parts, "entities "+strings.Join(entities, ", "))
	}
	if len(actions) > 0 {
		parts = append(parts, "actions "+strings.Join(actions, ", "))
	}
	if len(keywords) > 0 {
		parts = append(parts, "keywords "+strings.Join(keywords, ", "))
	}
	if len(parts) == 0 {
		return "matched generic import/export language"
	}
	return strings.Join(parts, "; ")
}

// fallbackCandidate names the configured default flow at a fixed moderate
// score so callers always receive a complete result.
func (s *Scorer) fallbackCandidate(why string) Candidate {
	return Candidate{
		Flow:         s.defaultFlow,
		OverallScore: fallbackScore,
		Confidence:   ConfidenceLow,
		Reasoning:    fmt.Sprintf("%s; defaulting to %s", why, s.defaultFlow),
	}
}
