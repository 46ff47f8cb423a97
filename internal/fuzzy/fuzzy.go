// Package fuzzy provides approximate string matching scored by normalized
// edit distance. It is the typo-tolerance primitive shared by the flow
// matcher and the error categorizer.
package fuzzy

import (
	"strings"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
)

// Match is a single candidate scored against a query.
type Match struct {
	Pattern    string  `json:"pattern"`
	Confidence float64 `json:"confidence"`
}

// Confidence scores how closely candidate matches query, in [0, 1].
// 1 means identical (ignoring case), 0 means nothing in common.
func Confidence(query, candidate string) float64 {
	q := strings.ToLower(query)
	c := strings.ToLower(candidate)

	longest := len([]rune(q))
	if l := len([]rune(c)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}

	dist := lfuzzy.LevenshteinDistance(q, c)
	conf := 1 - float64(dist)/float64(longest)
	if conf < 0 {
		return 0
	}
	if conf > 1 {
		return 1
	}
	return conf
}

// FindBestMatch returns the candidate with the highest confidence at or
// above threshold. The second return value is false when no candidate
// qualifies, including when candidates is empty.
func FindBestMatch(query string, candidates []string, threshold float64) (Match, bool) {
	best := Match{Confidence: -1}
	for _, c := range candidates {
		conf := Confidence(query, c)
		if conf < threshold {
			continue
		}
		if conf > best.Confidence {
			best = Match{Pattern: c, Confidence: conf}
		}
	}
	if best.Confidence < 0 {
		return Match{}, false
	}
	return best, true
}

// FindAllMatches returns every candidate scoring at or above threshold, in
// candidate order. Callers that need ranking sort by Confidence themselves.
func FindAllMatches(query string, candidates []string, threshold float64) []Match {
	var matches []Match
	for _, c := range candidates {
		conf := Confidence(query, c)
		if conf < threshold {
			continue
		}
		matches = append(matches, Match{Pattern: c, Confidence: conf})
	}
	return matches
}
