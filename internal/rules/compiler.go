// Package rules compiles semi-structured validation rule text and named
// constants into field-level constraints, and applies them to JSON request
// payloads.
package rules

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// FieldConstraint is a compiled per-field constraint. Field preserves the
// first-seen spelling; lookups are case-insensitive.
type FieldConstraint struct {
	Field       string `json:"field"`
	Required    bool   `json:"required"`
	MaxLength   int    `json:"max_length,omitempty"` // 0 means no limit
	Description string `json:"description,omitempty"`
}

// GeneralRule is a recognized non-field rule, such as a pagination cap.
type GeneralRule struct {
	ID    string `json:"id"`
	Limit int    `json:"limit,omitempty"`
	Text  string `json:"text"`
}

// Canonical general-rule identifiers.
const RulePaginationLimit = "pagination_limit"

// RuleSet is the compiled output: field constraints keyed by lowercase field
// name plus recognized general rules keyed by canonical identifier.
type RuleSet struct {
	Fields  map[string]*FieldConstraint `json:"fields"`
	General map[string]GeneralRule      `json:"general"`
}

// The complete parsing grammar: "max <n>" in free text and
// MAX_<FIELD>_LENGTH constant keys. Extending it means updating the tests.
var (
	fieldNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	requiredPattern  = regexp.MustCompile(`(?i)\brequired\b`)
	maxLenPattern    = regexp.MustCompile(`(?i)\bmax\s+(\d+)\b`)
	lengthKeyPattern = regexp.MustCompile(`^MAX_([A-Z][A-Z0-9_]*)_LENGTH$`)
	numberPattern    = regexp.MustCompile(`\b(\d+)\b`)
)

// recognizedRowLimits are the page-size caps a general rule sentence may
// state; the first one found in the text becomes the compiled limit.
var recognizedRowLimits = map[int]bool{50: true, 100: true, 200: true, 500: true, 1000: true}

// Compile parses rule strings and named constants into a RuleSet. Output is
// deterministic for identical inputs: rule strings are processed in order and
// constant keys are sorted before merging. Rule text takes precedence over
// constants for max lengths.
func Compile(ruleStrings []string, constants map[string]any) *RuleSet {
	rs := &RuleSet{
		Fields:  map[string]*FieldConstraint{},
		General: map[string]GeneralRule{},
	}

	for _, rule := range ruleStrings {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		if field, desc, ok := splitFieldRule(rule); ok {
			rs.compileFieldRule(field, desc)
			continue
		}
		rs.compileGeneralRule(rule)
	}

	keys := make([]string, 0, len(constants))
	for k := range constants {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rs.mergeLengthConstant(k, constants[k])
	}

	return rs
}

// splitFieldRule recognizes the "<fieldName>: <description>" form.
func splitFieldRule(rule string) (field, desc string, ok bool) {
	idx := strings.Index(rule, ":")
	if idx <= 0 {
		return "", "", false
	}
	field = strings.TrimSpace(rule[:idx])
	if !fieldNamePattern.MatchString(field) {
		return "", "", false
	}
	return field, strings.TrimSpace(rule[idx+1:]), true
}

func (rs *RuleSet) compileFieldRule(field, desc string) {
	fc := rs.constraint(field)
	if requiredPattern.MatchString(desc) {
		fc.Required = true
	}
	if m := maxLenPattern.FindStringSubmatch(desc); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			fc.MaxLength = n
		}
	}
	if fc.Description == "" {
		fc.Description = desc
	}
}

// compileGeneralRule scans free text for known general-rule signatures.
func (rs *RuleSet) compileGeneralRule(rule string) {
	lower := strings.ToLower(rule)
	if !strings.Contains(lower, "page") {
		return
	}
	for _, m := range numberPattern.FindAllStringSubmatch(lower, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || !recognizedRowLimits[n] {
			continue
		}
		rs.General[RulePaginationLimit] = GeneralRule{
			ID:    RulePaginationLimit,
			Limit: n,
			Text:  rule,
		}
		return
	}
}

// mergeLengthConstant converts a MAX_<FIELD>_LENGTH constant into a
// maxLength constraint, unless rule text already supplied one.
func (rs *RuleSet) mergeLengthConstant(key string, value any) {
	m := lengthKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return
	}
	n, ok := constantInt(value)
	if !ok || n <= 0 {
		return
	}
	field := camelCase(m[1])
	fc := rs.constraint(field)
	if fc.MaxLength == 0 {
		fc.MaxLength = n
	}
}

// constraint returns the constraint for field, creating it on first use.
func (rs *RuleSet) constraint(field string) *FieldConstraint {
	key := strings.ToLower(field)
	if fc, ok := rs.Fields[key]; ok {
		return fc
	}
	fc := &FieldConstraint{Field: field}
	rs.Fields[key] = fc
	return fc
}

// constantInt coerces the YAML/JSON representations a constant value may
// arrive in.
func constantInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

// camelCase converts an UPPER_SNAKE segment list to camelCase:
// VENDOR_NAME -> vendorName.
func camelCase(upperSnake string) string {
	parts := strings.Split(strings.ToLower(upperSnake), "_")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
