package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match [description]",
	Short: "Match a feature description to an integration flow",
	Long:  `Classifies a natural-language feature description against the flow catalog and prints the best flow with confidence scoring and ranked alternatives.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().Bool("json", false, "output the full analysis as JSON")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	c, err := buildCore()
	if err != nil {
		return err
	}

	analysis, err := c.scorer.Match(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}

	p := analysis.Primary
	fmt.Printf("Flow: %s\n", p.Flow)
	fmt.Printf("Confidence: %s (%.2f)\n", p.Confidence, p.OverallScore)
	fmt.Printf("Reasoning: %s\n", p.Reasoning)
	if verbose {
		fmt.Printf("Scores: entity=%.2f action=%.2f keyword=%.2f\n",
			p.EntityScore, p.ActionScore, p.KeywordScore)
	}
	if len(analysis.Alternatives) > 0 {
		fmt.Println("\nAlternatives:")
		for i, alt := range analysis.Alternatives {
			fmt.Printf("  %d. [%.2f] %s\n", i+1, alt.OverallScore, alt.Flow)
		}
	}
	return nil
}
