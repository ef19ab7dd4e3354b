// Command mosaic generates personalized dashboard components from detected
// user patterns, either as a one-shot CLI run or as an HTTP service.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mosaic/internal/config"
	"mosaic/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "mosaic",
	Short: "Pattern-driven dashboard component generator",
	Long: `mosaic selects dashboard components for a user's detected behavior
patterns and enriches them with live weather, video, event and map data.

Without an LLM API key it runs fully offline using rule-based selection.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Int("max-components", 0, "cap on generated components (1-6)")
	rootCmd.PersistentFlags().String("model", "", "override the LLM model name")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("max_components", rootCmd.PersistentFlags().Lookup("max-components"))
	_ = viper.BindPFlag("llm_model", rootCmd.PersistentFlags().Lookup("model"))
}

// loadConfig resolves file and env configuration, then lets flags win.
func loadConfig() (*config.Config, error) {
	return config.Load(config.WithOverride(func(cfg *config.Config) {
		if viper.GetBool("verbose") {
			cfg.Verbose = true
		}
		if n := viper.GetInt("max_components"); n > 0 {
			cfg.MaxComponents = n
		}
		if m := viper.GetString("llm_model"); m != "" {
			cfg.LLMModel = m
		}
	}))
}

func newLogger(cfg *config.Config) logging.Logger {
	if cfg.Verbose {
		return logging.NewComponentLogger("mosaic")
	}
	return logging.Nop()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
		os.Exit(1)
	}
}
