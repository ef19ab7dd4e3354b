package selector

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"mosaic/pkg/types"
)

// systemPrompt carries the selection rules the model must follow. The output
// contract is enforced again in code; the prompt is guidance, not the gate.
const systemPrompt = `You assemble a personalized dashboard from detected behavioral patterns.

Pick interactive components from this closed catalog, one JSON object each:
- "info-card": a place-centric stat card. Fields: location (required), headline.
- "map-card": center_lat, center_lng, zoom (1-20), markers (1-20 items of {lat, lng, label}).
- "video-feed": query (required), max_results (1-10).
- "event-calendar": location (required).
- "task-list": items (1-15 of {text, priority: low|medium|high, done}).
- "content-card": body (1-2000 chars), link, tags (max 8).

Every component also carries: component_type, title (1-150 chars), subtitle (optional), pattern_source (the originating pattern's title).

Selection rules:
- Choose 3-6 components total.
- Prioritize patterns with confidence above 0.75.
- At most 2 components per pattern.
- Match component type to the pattern's intent: places and travel suggest map-card or info-card, media consumption suggests video-feed, social plans suggest event-calendar, productivity suggests task-list, reading suggests content-card.
- Adapt titles and subtitles to the persona's communication style and content depth.

Respond with a single JSON object: {"components": [...], "reasoning": "..."}.
No fields outside the schema above. No markdown, no commentary.`

// buildUserPrompt serializes the inputs the model selects from.
func buildUserPrompt(patterns []types.Pattern, persona types.PersonaProfile, maxComponents int) (string, error) {
	payload := struct {
		Patterns      []types.Pattern      `json:"patterns"`
		Persona       types.PersonaProfile `json:"persona"`
		MaxComponents int                  `json:"max_components"`
	}{
		Patterns:      patterns,
		Persona:       persona,
		MaxComponents: maxComponents,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize selection input: %w", err)
	}
	return fmt.Sprintf("Select components for this user:\n\n%s", data), nil
}

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// countTokens estimates prompt size for logging and budget checks. Falls back
// to the rough chars/4 heuristic when the encoding is unavailable (offline).
func countTokens(text string) int {
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			encoding = enc
		}
	})
	if encoding == nil {
		return len(text) / 4
	}
	return len(encoding.Encode(text, nil, nil))
}
