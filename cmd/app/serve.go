package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"FinAssist/internal/di"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}

		app, cleanup, err := di.InitializeApp(cfg)
		if err != nil {
			return fmt.Errorf("app initialization failed: %w", err)
		}
		defer cleanup()

		return app.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
