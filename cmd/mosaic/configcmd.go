package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mosaic/internal/config"
)

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or initialize the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration with secrets redacted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		bold.Println("Resolved configuration")
		fmt.Printf("  llm_provider:    %s\n", cfg.LLMProvider)
		fmt.Printf("  llm_model:       %s\n", cfg.LLMModel)
		fmt.Printf("  llm_base_url:    %s\n", cfg.LLMBaseURL)
		fmt.Printf("  llm_api_key:     %s\n", maskKey(cfg.LLMAPIKey))
		fmt.Printf("  weather_key:     %s\n", maskKey(cfg.OpenWeatherAPIKey))
		fmt.Printf("  youtube_key:     %s\n", maskKey(cfg.YouTubeAPIKey))
		fmt.Printf("  ticketmaster:    %s\n", maskKey(cfg.TicketmasterAPIKey))
		fmt.Printf("  max_components:  %d\n", cfg.MaxComponents)
		fmt.Printf("  adapter_timeout: %s\n", cfg.AdapterTimeout())
		fmt.Printf("  server:          %s:%d\n", cfg.ServerHost, cfg.ServerPort)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file to the home directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		path := filepath.Join(home, config.ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", path)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := config.Save(cfg, path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
