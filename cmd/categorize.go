package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zaidfarekh/flowmatch/internal/errclass"
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize [message]",
	Short: "Categorize an error message and look up remediation guidance",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategorize,
}

func init() {
	categorizeCmd.Flags().Bool("json", false, "output the result as JSON")
	rootCmd.AddCommand(categorizeCmd)
}

func runCategorize(cmd *cobra.Command, args []string) error {
	message := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")

	c, err := buildCore()
	if err != nil {
		return err
	}

	category := c.categorizer.Categorize(context.Background(), message)
	guidance := errclass.LookupGuidance(c.store.ErrorCatalog(), message, c.cfg.Thresholds.Error)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Category errclass.Category   `json:"category"`
			Guidance []errclass.Guidance `json:"guidance"`
		}{category, guidance})
	}

	fmt.Printf("Category: %s\n", category)
	if len(guidance) == 0 {
		fmt.Println("No similar known errors found.")
		return nil
	}
	fmt.Println("\nSimilar known errors:")
	for _, g := range guidance {
		fmt.Printf("  [%.0f%%] %s\n", g.Confidence*100, g.Known.Message)
		if g.Known.Cause != "" {
			fmt.Printf("        Cause: %s\n", g.Known.Cause)
		}
		if g.Known.Guidance != "" {
			fmt.Printf("        Fix: %s\n", g.Known.Guidance)
		}
	}
	return nil
}
