package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/zaidfarekh/flowmatch/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing flow matching, request validation, and error categorization tools for AI agents like Claude Code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildCore()
		if err != nil {
			return err
		}

		database, sessions, err := openSessions(c.cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "flowmatch MCP server started on stdio (flows=%d)\n", len(c.store.FlowNames()))

		srv := mcpserver.NewServer(c.store, c.scorer, c.categorizer, sessions, c.cfg.Thresholds.Error)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
