package main

import (
	"fmt"
	"os"

	"FinAssist/pkg/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:          "finassist",
	Short:        "FinAssist - conversational financial assistant core",
	Long:         `FinAssist resolves instruments, aggregates news and synthesizes portfolio answers.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yaml", "config file path (optional)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config (optional)")
}

// loadConfig reads the dotenv file when present, then the YAML config, falling
// back to environment variables only.
func loadConfig() (*config.Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("load %s: %w", envFile, err)
			}
		}
	}
	return config.LoadOrEnv(configPath)
}
