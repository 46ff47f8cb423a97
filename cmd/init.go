package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zaidfarekh/flowmatch/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize flowmatch configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure flowmatch for your project and generates a .flowmatch.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
