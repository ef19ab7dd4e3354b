package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mosaic/internal/catalog"
	"mosaic/pkg/types"
)

// generateInput is the document read from --input or stdin.
type generateInput struct {
	Patterns []types.Pattern      `json:"patterns"`
	Persona  types.PersonaProfile `json:"persona"`
}

var (
	generateInputPath string
	generateJSONOut   bool
	generateTimeout   time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate dashboard components for a patterns document",
	Long: `Reads a JSON document with detected patterns and a persona profile,
selects matching dashboard components and enriches them with live data.

Example document:

  {
    "patterns": [
      {"title": "Urban exploration", "keywords": ["Lisbon"], "confidence": 0.9}
    ],
    "persona": {"communication_style": "casual"}
  }`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateInputPath, "input", "i", "", "patterns JSON file (default: stdin)")
	generateCmd.Flags().BoolVar(&generateJSONOut, "json", false, "emit the raw component set as JSON")
	generateCmd.Flags().DurationVar(&generateTimeout, "timeout", 60*time.Second, "overall generation timeout")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	input, err := readGenerateInput(generateInputPath)
	if err != nil {
		return err
	}
	if len(input.Patterns) == 0 {
		logger.Warn("no patterns in input, the dashboard will use default content")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), generateTimeout)
	defer cancel()

	generator := buildGenerator(cfg, logger)
	set, err := generator.Generate(ctx, input.Patterns, input.Persona, cfg.MaxComponents)
	if err != nil {
		return fmt.Errorf("generate dashboard: %w", err)
	}

	if generateJSONOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	}

	printComponentSet(os.Stdout, set)
	return nil
}

func readGenerateInput(path string) (*generateInput, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read patterns input: %w", err)
	}

	var input generateInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("parse patterns input: %w", err)
	}
	return &input, nil
}

// printComponentSet renders a human-readable summary. Color is dropped when
// stdout is not a terminal so piped output stays clean.
func printComponentSet(w io.Writer, set *catalog.ComponentSet) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}

	heading := color.New(color.FgGreen, color.Bold)
	typeLabel := color.New(color.FgCyan)
	dim := color.New(color.Faint)

	heading.Fprintf(w, "Dashboard (%d components)\n", len(set.Components))
	if set.Reasoning != "" {
		dim.Fprintf(w, "%s\n", set.Reasoning)
	}
	fmt.Fprintln(w)

	for i, component := range set.Components {
		meta := component.Meta()
		typeLabel.Fprintf(w, "%d. [%s] ", i+1, component.Type())
		fmt.Fprintf(w, "%s\n", meta.Title)
		if meta.Subtitle != "" {
			fmt.Fprintf(w, "   %s\n", meta.Subtitle)
		}
		dim.Fprintf(w, "   from pattern: %s\n", meta.PatternSource)

		switch c := component.(type) {
		case *catalog.InfoCard:
			if c.Condition != "" {
				fmt.Fprintf(w, "   %s, %.1f°C, humidity %d%%\n", c.Condition, c.TemperatureC, c.Humidity)
			}
		case *catalog.VideoFeed:
			for _, v := range c.Videos {
				fmt.Fprintf(w, "   - %s (%s)\n", v.Title, v.Channel)
			}
		case *catalog.EventCalendar:
			for _, e := range c.Events {
				fmt.Fprintf(w, "   - %s @ %s\n", e.Name, e.Venue)
			}
		case *catalog.TaskList:
			for _, item := range c.Items {
				fmt.Fprintf(w, "   - [%s] %s\n", item.Priority, item.Text)
			}
		case *catalog.MapCard:
			fmt.Fprintf(w, "   center %.4f,%.4f zoom %d, %d markers\n", c.CenterLat, c.CenterLng, c.Zoom, len(c.Markers))
		case *catalog.ContentCard:
			fmt.Fprintf(w, "   %s\n", c.Body)
		}
	}
}
