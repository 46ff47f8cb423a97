package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Validation rule identifiers reported in ValidationError.Rule.
const (
	RuleRequiredField = "required_field"
	RuleMaxLength     = "max_length"
	RuleValidJSON     = "valid_json"
)

// ValidationError is one field-level violation.
type ValidationError struct {
	Field        string `json:"field"`
	Rule         string `json:"rule"`
	Message      string `json:"message"`
	CurrentValue string `json:"current_value,omitempty"`
	Expected     string `json:"expected"`
}

// Result is the complete outcome of validating one payload.
type Result struct {
	IsValid      bool              `json:"is_valid"`
	Operation    string            `json:"operation"`
	Flow         string            `json:"flow"`
	Errors       []ValidationError `json:"errors"`
	Warnings     []string          `json:"warnings"`
	AppliedRules []string          `json:"applied_rules"`
	Suggestions  []string          `json:"suggestions"`
}

// paginationFields are the top-level payload fields a pagination cap checks,
// in lookup order.
var paginationFields = []string{"pageSize", "rowsPerPage", "limit", "pageLimit"}

// ValidateRequest applies the compiled rule set to a JSON payload string.
// A payload that does not parse as a JSON object yields a single valid_json
// error on the synthetic requestPayload field and no further validation.
func ValidateRequest(ctx context.Context, rs *RuleSet, operation, flow, payload string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	result := Result{
		Operation:    operation,
		Flow:         flow,
		Errors:       []ValidationError{},
		Warnings:     []string{},
		AppliedRules: []string{},
		Suggestions:  []string{},
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil || doc == nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:    "requestPayload",
			Rule:     RuleValidJSON,
			Message:  "request payload is not a valid JSON object",
			Expected: "a JSON object",
		})
		result.Suggestions = append(result.Suggestions, "Send the request payload as a JSON object.")
		return result, nil
	}

	// Case-insensitive property lookup.
	lower := make(map[string]any, len(doc))
	for k, v := range doc {
		lower[strings.ToLower(k)] = v
	}

	keys := make([]string, 0, len(rs.Fields))
	for k := range rs.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := map[string]struct{}{}
	addError := func(e ValidationError) {
		key := e.Field + "|" + e.Rule + "|" + e.Message
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		result.Errors = append(result.Errors, e)
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		fc := rs.Fields[key]
		value, present := lower[key]

		if fc.Required {
			result.AppliedRules = append(result.AppliedRules, fmt.Sprintf("required:%s", fc.Field))
			if isBlank(value, present) {
				addError(ValidationError{
					Field:    fc.Field,
					Rule:     RuleRequiredField,
					Message:  fmt.Sprintf("%s is required", fc.Field),
					Expected: "a non-empty value",
				})
			}
		}

		if fc.MaxLength > 0 {
			result.AppliedRules = append(result.AppliedRules, fmt.Sprintf("max_length:%s<=%d", fc.Field, fc.MaxLength))
			if s, ok := value.(string); ok && present && len([]rune(s)) > fc.MaxLength {
				addError(ValidationError{
					Field:        fc.Field,
					Rule:         RuleMaxLength,
					Message:      fmt.Sprintf("%s exceeds the maximum length of %d", fc.Field, fc.MaxLength),
					CurrentValue: s,
					Expected:     fmt.Sprintf("at most %d characters", fc.MaxLength),
				})
			}
		}
	}

	if rule, ok := rs.General[RulePaginationLimit]; ok {
		applyPaginationRule(rule, lower, addError, &result)
	}

	result.IsValid = len(result.Errors) == 0
	result.Suggestions = append(result.Suggestions, suggestionsFor(result.Errors)...)
	return result, nil
}

// applyPaginationRule checks the recognized pagination fields against the
// compiled cap. Hitting the cap exactly is allowed but warned about.
func applyPaginationRule(rule GeneralRule, lower map[string]any, addError func(ValidationError), result *Result) {
	result.AppliedRules = append(result.AppliedRules, fmt.Sprintf("%s<=%d", rule.ID, rule.Limit))
	for _, field := range paginationFields {
		value, ok := lower[strings.ToLower(field)]
		if !ok {
			continue
		}
		n, ok := numericValue(value)
		if !ok {
			continue
		}
		switch {
		case n > rule.Limit:
			addError(ValidationError{
				Field:        field,
				Rule:         rule.ID,
				Message:      fmt.Sprintf("%s exceeds the page size cap of %d", field, rule.Limit),
				CurrentValue: strconv.Itoa(n),
				Expected:     fmt.Sprintf("at most %d rows per page", rule.Limit),
			})
		case n == rule.Limit:
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s is at the page size cap of %d", field, rule.Limit))
		}
	}
}

// isBlank treats missing, null, and blank-string values as absent.
func isBlank(value any, present bool) bool {
	if !present || value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// numericValue coerces JSON numbers and numeric strings.
func numericValue(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

// suggestionsFor maps error kinds to actionable follow-ups, one per kind.
func suggestionsFor(errors []ValidationError) []string {
	kinds := map[string]bool{}
	for _, e := range errors {
		kinds[e.Rule] = true
	}
	var out []string
	if kinds[RuleRequiredField] {
		out = append(out, "Populate every required field before submitting.")
	}
	if kinds[RuleMaxLength] {
		out = append(out, "Shorten values that exceed their maximum length.")
	}
	if kinds[RulePaginationLimit] {
		out = append(out, "Reduce the page size and fetch additional pages instead.")
	}
	return out
}
