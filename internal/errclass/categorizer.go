// Package errclass classifies free-text ERP error messages into a closed set
// of categories using exact keyword matching with a fuzzy fallback for typos.
package errclass

import (
	"context"
	"strings"

	"github.com/zaidfarekh/flowmatch/internal/fuzzy"
)

// Category is one of the closed set of error categories. GeneralError is the
// catch-all; callers never receive an "unknown" sentinel.
type Category string

const (
	CategoryValidation     Category = "Validation"
	CategoryNotFound       Category = "NotFound"
	CategoryBusinessLogic  Category = "BusinessLogic"
	CategoryAuthentication Category = "Authentication"
	CategoryRateLimit      Category = "RateLimit"
	CategoryNetwork        Category = "Network"
	CategoryGeneralError   Category = "GeneralError"
)

// categoryKeywords lists the keyword sets in precedence order. An ordered
// slice, not a map: when a message could match several categories through
// different words, the earliest listed category wins.
var categoryKeywords = []struct {
	Category Category
	Keywords []string
}{
	{CategoryValidation, []string{
		"invalid", "validation", "required", "format", "malformed",
		"length", "exceeds", "blank", "constraint",
	}},
	{CategoryNotFound, []string{
		"found", "notfound", "exist", "exists", "unknown", "404",
	}},
	{CategoryBusinessLogic, []string{
		"duplicate", "conflict", "locked", "closed", "period",
		"inactive", "already",
	}},
	{CategoryAuthentication, []string{
		"authentication", "authenticate", "unauthorized", "token",
		"credential", "credentials", "session", "expired", "login",
		"forbidden", "permission", "permissions",
	}},
	{CategoryRateLimit, []string{
		"rate", "throttle", "throttled", "quota", "429", "limit",
	}},
	{CategoryNetwork, []string{
		"network", "timeout", "connection", "unreachable", "refused",
		"dns", "socket", "offline",
	}},
}

// categoryMembers holds the exact-match sets, parallel to categoryKeywords.
var categoryMembers []map[string]struct{}

func init() {
	categoryMembers = make([]map[string]struct{}, len(categoryKeywords))
	for i, set := range categoryKeywords {
		members := make(map[string]struct{}, len(set.Keywords))
		for _, kw := range set.Keywords {
			members[kw] = struct{}{}
		}
		categoryMembers[i] = members
	}
}

// splitToken reports whether r separates tokens in an error message.
func splitToken(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', ',', '.', ';', ':', '!', '?',
		'(', ')', '[', ']', '\'', '"', '-', '_', '/':
		return true
	}
	return false
}

// Categorizer classifies error messages. Safe for concurrent use.
type Categorizer struct {
	threshold float64
}

// New creates a Categorizer using the given fuzzy-match threshold for the
// typo fallback pass.
func New(threshold float64) *Categorizer {
	return &Categorizer{threshold: threshold}
}

// Categorize returns the category for message. Exact token membership is
// tried first across all categories in precedence order; only when no token
// matches anywhere does the fuzzy pass run. Unmatched messages are
// GeneralError.
func (c *Categorizer) Categorize(ctx context.Context, message string) Category {
	if ctx.Err() != nil {
		return CategoryGeneralError
	}

	tokens := strings.FieldsFunc(strings.ToLower(message), splitToken)
	if len(tokens) == 0 {
		return CategoryGeneralError
	}

	for i, set := range categoryKeywords {
		for _, tok := range tokens {
			if _, ok := categoryMembers[i][tok]; ok {
				return set.Category
			}
		}
	}

	for _, set := range categoryKeywords {
		if ctx.Err() != nil {
			return CategoryGeneralError
		}
		for _, tok := range tokens {
			if _, ok := fuzzy.FindBestMatch(tok, set.Keywords, c.threshold); ok {
				return set.Category
			}
		}
	}

	return CategoryGeneralError
}
