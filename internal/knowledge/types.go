package knowledge

// FlowSignature is the classification target for one integration flow: the
// action words, entity words, and keyword phrases a request for that flow is
// expected to contain.
type FlowSignature struct {
	Name     string   `yaml:"name" json:"name"`
	Actions  []string `yaml:"actions" json:"actions"`
	Entities []string `yaml:"entities" json:"entities"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// MatchingConfig holds the action/entity vocabularies and the alias map used
// by the query tokenizer.
type MatchingConfig struct {
	ActionWords []string          `yaml:"action_words" json:"action_words"`
	EntityWords []string          `yaml:"entity_words" json:"entity_words"`
	Aliases     map[string]string `yaml:"aliases" json:"aliases"`
}

// FlowDocument carries the semi-structured validation knowledge for one flow:
// free-text rule strings plus named numeric constants.
type FlowDocument struct {
	Flow            string         `yaml:"flow" json:"flow"`
	Description     string         `yaml:"description" json:"description"`
	ValidationRules []string       `yaml:"validation_rules" json:"validation_rules"`
	Constants       map[string]any `yaml:"constants" json:"constants"`
}

// CatalogError is one known error with remediation guidance.
type CatalogError struct {
	Message  string `yaml:"message" json:"message"`
	Cause    string `yaml:"cause" json:"cause"`
	Guidance string `yaml:"guidance" json:"guidance"`
}

// ErrorCatalog groups known errors by origin.
type ErrorCatalog struct {
	AuthenticationErrors []CatalogError `yaml:"authentication_errors" json:"authentication_errors"`
	OperationErrors      []CatalogError `yaml:"operation_errors" json:"operation_errors"`
	APIErrors            []CatalogError `yaml:"api_errors" json:"api_errors"`
}

// flowsFile is the on-disk shape of flows.yaml.
type flowsFile struct {
	Flows []FlowSignature `yaml:"flows"`
}
