package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zaidfarekh/flowmatch/internal/server"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the flowmatch REST server",
	Long:  `Starts the flowmatch REST server exposing the flow catalog, matching, validation, and error categorization over HTTP.`,
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

		port := serverPort
		if port == 0 {
			port = c.cfg.Port
		}

		srv := server.New(server.Config{
			Port:              port,
			AllowAll:          true,
			GuidanceThreshold: c.cfg.Thresholds.Error,
		}, c.store, c.scorer, c.categorizer, sessions)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "flowmatch server v%s starting on port %d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Knowledge: %s\n", c.cfg.KnowledgeDir)
		fmt.Fprintf(os.Stderr, "  Flows: %d\n", len(c.store.FlowNames()))

		return srv.Start()
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 0, "port to listen on (defaults to the configured port)")
	rootCmd.AddCommand(serverCmd)
}
