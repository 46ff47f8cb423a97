package rules

import "strings"

// operationFallbacks supplies a minimal required-field list keyed by
// operation-name substring. An ordered slice, not a map, so precedence is
// visible: the first matching entry wins. Fallback fields are advisory and
// always merge in addition to document-derived constraints.
var operationFallbacks = []struct {
	match  string
	fields []string
}{
	{"vendor", []string{"vendorId", "vendorName"}},
	{"invoice", []string{"invoiceId", "vendorId"}},
	{"bill", []string{"invoiceId", "vendorId"}},
	{"payment", []string{"paymentId", "invoiceId"}},
	{"order", []string{"orderId"}},
	{"account", []string{"accountId", "accountName"}},
}

// FallbackFields returns the minimal required fields for an operation name,
// or nil when no heuristic applies.
func FallbackFields(operation string) []string {
	op := strings.ToLower(operation)
	for _, fb := range operationFallbacks {
		if strings.Contains(op, fb.match) {
			return fb.fields
		}
	}
	return nil
}

// ApplyFallback merges the operation's fallback required fields into the
// rule set. Fields the documents already constrain are left untouched.
func (rs *RuleSet) ApplyFallback(operation string) {
	for _, field := range FallbackFields(operation) {
		key := strings.ToLower(field)
		if fc, ok := rs.Fields[key]; ok {
			fc.Required = true
			continue
		}
		rs.Fields[key] = &FieldConstraint{
			Field:       field,
			Required:    true,
			Description: "minimum required field for " + strings.ToLower(operation) + " operations",
		}
	}
}
