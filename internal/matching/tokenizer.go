// Package matching classifies natural-language integration requests against
// the flow signature catalog using weighted multi-signal scoring.
package matching

import (
	"strings"

	"github.com/zaidfarekh/flowmatch/internal/knowledge"
)

// QueryTokens is the tokenizer output for one query.
type QueryTokens struct {
	Actions       []string `json:"actions"`
	Entities      []string `json:"entities"`
	Words         []string `json:"words"`
	OriginalQuery string   `json:"original_query"`
}

// Vocabulary holds the action/entity word sets and alias map used to
// tokenize queries. Built once from the loaded matching configuration.
type Vocabulary struct {
	actions  map[string]struct{}
	entities map[string]struct{}
	aliases  map[string]string
}

// NewVocabulary builds a Vocabulary from a matching configuration.
func NewVocabulary(cfg knowledge.MatchingConfig) *Vocabulary {
	v := &Vocabulary{
		actions:  make(map[string]struct{}, len(cfg.ActionWords)),
		entities: make(map[string]struct{}, len(cfg.EntityWords)),
		aliases:  make(map[string]string, len(cfg.Aliases)),
	}
	for _, w := range cfg.ActionWords {
		v.actions[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range cfg.EntityWords {
		v.entities[strings.ToLower(w)] = struct{}{}
	}
	for k, target := range cfg.Aliases {
		v.aliases[strings.ToLower(k)] = strings.ToLower(target)
	}
	return v
}

// splitWord reports whether r separates words in a query.
func splitWord(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', ',', '-', '_':
		return true
	}
	return false
}

// AnalyzeQuery lowercases and tokenizes text, applies aliases, and classifies
// each word against the action and entity vocabularies. Classification is
// exact set membership; typo tolerance is the scorer's keyword sub-score.
func (v *Vocabulary) AnalyzeQuery(text string) QueryTokens {
	tokens := QueryTokens{OriginalQuery: text}

	raw := strings.FieldsFunc(strings.ToLower(text), splitWord)

	seenAction := map[string]struct{}{}
	seenEntity := map[string]struct{}{}
	for _, w := range raw {
		if target, ok := v.aliases[w]; ok {
			w = target
		}
		tokens.Words = append(tokens.Words, w)

		if _, ok := v.actions[w]; ok {
			if _, dup := seenAction[w]; !dup {
				seenAction[w] = struct{}{}
				tokens.Actions = append(tokens.Actions, w)
			}
		}
		if _, ok := v.entities[w]; ok {
			if _, dup := seenEntity[w]; !dup {
				seenEntity[w] = struct{}{}
				tokens.Entities = append(tokens.Entities, w)
			}
		}
	}
	return tokens
}
