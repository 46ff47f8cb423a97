package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		KnowledgeDir:      "knowledge",
		DataDir:           ".flowmatch",
		DefaultFlow:       "export-vendor",
		Port:              8321,
		SessionTTLMinutes: 30,
		Thresholds: Thresholds{
			Typo:      0.65,
			Keyword:   0.70,
			Operation: 0.75,
			Error:     0.65,
		},
	}
}
