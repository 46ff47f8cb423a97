package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .flowmatch.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to flowmatch! Let's configure your project.")
	fmt.Println()

	defaults := DefaultConfig()

	// 1. Knowledge directory.
	knowledgePrompt := promptui.Prompt{
		Label:   "Knowledge directory (flow signatures, documents, error catalog)",
		Default: defaults.KnowledgeDir,
	}
	knowledgeDir, err := knowledgePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("knowledge dir: %w", err)
	}

	// 2. Data directory for the session database.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (session database)",
		Default: defaults.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 3. Default flow for low-confidence queries.
	flowPrompt := promptui.Prompt{
		Label:   "Default flow when a query matches nothing",
		Default: defaults.DefaultFlow,
	}
	defaultFlow, err := flowPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("default flow: %w", err)
	}

	// 4. REST server port.
	portPrompt := promptui.Prompt{
		Label:   "REST server port",
		Default: strconv.Itoa(defaults.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	// 5. Matching strictness.
	strictnessPrompt := promptui.Select{
		Label: "Matching strictness",
		Items: []string{
			"lenient — more typo tolerance, more matches",
			"normal  — balanced",
			"strict  — fewer, higher-confidence matches",
		},
	}
	strictnessIdx, _, err := strictnessPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("strictness: %w", err)
	}

	cfg := &Config{
		KnowledgeDir:      knowledgeDir,
		DataDir:           dataDir,
		DefaultFlow:       defaultFlow,
		Port:              port,
		SessionTTLMinutes: defaults.SessionTTLMinutes,
		Thresholds:        thresholdsForStrictness(strictnessIdx),
	}

	configPath := ".flowmatch.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	if _, err := os.Stat(knowledgeDir); os.IsNotExist(err) {
		fmt.Printf("\nNote: %s does not exist yet; built-in knowledge will be used until you create it.\n", knowledgeDir)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

// thresholdsForStrictness maps a wizard strictness choice to concrete
// cutoffs. Index 1 (normal) is the default set.
func thresholdsForStrictness(idx int) Thresholds {
	switch idx {
	case 0:
		return Thresholds{Typo: 0.55, Keyword: 0.60, Operation: 0.65, Error: 0.55}
	case 2:
		return Thresholds{Typo: 0.75, Keyword: 0.80, Operation: 0.85, Error: 0.75}
	default:
		return DefaultConfig().Thresholds
	}
}
