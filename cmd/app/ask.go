package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"FinAssist/internal/di"
	"FinAssist/internal/domain/models"

	"github.com/spf13/cobra"
)

var (
	askUser        string
	askContextFile string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}
		// keep stdout for the answer
		cfg.Log.Output = "stderr"

		req := models.ChatRequest{
			UserID: askUser,
			Query:  strings.Join(args, " "),
		}
		if askContextFile != "" {
			raw, err := os.ReadFile(askContextFile)
			if err != nil {
				return fmt.Errorf("read context: %w", err)
			}
			if err := json.Unmarshal(raw, &req.Context); err != nil {
				return fmt.Errorf("parse context: %w", err)
			}
		}

		chat, cleanup, err := di.InitializeChat(cfg)
		if err != nil {
			return fmt.Errorf("initialization failed: %w", err)
		}
		defer cleanup()

		resp, err := chat.Chat(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.Answer)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askUser, "user", "u", "cli", "user id for preferences")
	askCmd.Flags().StringVar(&askContextFile, "context", "", "JSON file with structured portfolio context")
	rootCmd.AddCommand(askCmd)
}
