package config

// Config is the top-level flowmatch configuration, corresponding to
// .flowmatch.yml.
type Config struct {
	KnowledgeDir      string     `yaml:"knowledge_dir" koanf:"knowledge_dir"`
	DataDir           string     `yaml:"data_dir" koanf:"data_dir"`
	DefaultFlow       string     `yaml:"default_flow" koanf:"default_flow"`
	Port              int        `yaml:"port" koanf:"port"`
	SessionTTLMinutes int        `yaml:"session_ttl_minutes" koanf:"session_ttl_minutes"`
	Thresholds        Thresholds `yaml:"thresholds" koanf:"thresholds"`
}

// Thresholds holds the confidence cutoffs used by matching and
// categorization. All values are in [0, 1].
type Thresholds struct {
	Typo      float64 `yaml:"typo" koanf:"typo"`
	Keyword   float64 `yaml:"keyword" koanf:"keyword"`
	Operation float64 `yaml:"operation" koanf:"operation"`
	Error     float64 `yaml:"error" koanf:"error"`
}
