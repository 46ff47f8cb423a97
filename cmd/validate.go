package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zaidfarekh/flowmatch/internal/rules"
)

var validateCmd = &cobra.Command{
	Use:   "validate [operation]",
	Short: "Validate a JSON request payload against an operation's rules",
	Long:  `Compiles the validation rules for an operation from its flow document and checks a JSON payload against them, reporting field-level errors, warnings, and fix suggestions.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().String("payload", "", "JSON payload to validate (reads stdin if omitted)")
	validateCmd.Flags().String("flow", "", "flow whose document supplies the rules (defaults to the operation name)")
	validateCmd.Flags().Bool("json", false, "output the full result as JSON")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	operation := args[0]
	payload, _ := cmd.Flags().GetString("payload")
	flow, _ := cmd.Flags().GetString("flow")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if payload == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading payload from stdin: %w", err)
		}
		payload = string(data)
	}

	c, err := buildCore()
	if err != nil {
		return err
	}

	if flow == "" {
		flow = operation
	}
	rs := rules.CompileForOperation(c.store, operation, flow)
	result, err := rules.ValidateRequest(context.Background(), rs, operation, flow, payload)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.IsValid {
		fmt.Printf("Payload is valid for %s (%d rules applied)\n", operation, len(result.AppliedRules))
	} else {
		fmt.Printf("Payload is INVALID for %s:\n", operation)
		for _, e := range result.Errors {
			fmt.Printf("  - %s: %s\n", e.Field, e.Message)
		}
	}
	for _, w := range result.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	for _, s := range result.Suggestions {
		fmt.Printf("Suggestion: %s\n", s)
	}

	if !result.IsValid {
		os.Exit(1)
	}
	return nil
}
