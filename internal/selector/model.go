package selector

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"mosaic/internal/catalog"
	mosaicerrors "mosaic/internal/errors"
	"mosaic/internal/llm"
	"mosaic/internal/logging"
	"mosaic/internal/metrics"
	"mosaic/pkg/types"
)

// maxPerPattern is enforced as a hard post-validation check rather than
// trusting the model's compliance with the prompt.
const maxPerPattern = 2

// Model selects components with a language model under a structured-output
// contract. The client is an explicit dependency: creation and credential
// loading are owned by the caller, never by the selector.
type Model struct {
	client      llm.Client
	fallback    *Deterministic
	retryConfig mosaicerrors.RetryConfig
	temperature float64
	logger      logging.Logger
}

var _ Selector = (*Model)(nil)

// NewModel builds the model-backed generator. Transient call failures are
// retried with exponential backoff before falling back to the deterministic
// generator; the selector itself never returns an error for model misbehavior.
func NewModel(client llm.Client, logger logging.Logger) *Model {
	return &Model{
		client:      client,
		fallback:    NewDeterministic(logger),
		retryConfig: mosaicerrors.DefaultRetryConfig(),
		temperature: 0.4,
		logger:      logging.OrNop(logger),
	}
}

// SetRetryConfig overrides the retry behavior, used by tests to avoid real
// backoff delays.
func (s *Model) SetRetryConfig(config mosaicerrors.RetryConfig) {
	s.retryConfig = config
}

// Select asks the model for a ComponentSet and validates the result against
// the catalog. Contract violations and call failures degrade to the
// deterministic generator instead of surfacing as errors.
func (s *Model) Select(ctx context.Context, patterns []types.Pattern, persona types.PersonaProfile, maxComponents int) (*catalog.ComponentSet, error) {
	maxComponents = normalizeMax(maxComponents)

	userPrompt, err := buildUserPrompt(patterns, persona, maxComponents)
	if err != nil {
		s.logger.Warn("failed to build selection prompt, using deterministic generator: %v", err)
		return s.deterministic(ctx, patterns, persona, maxComponents)
	}
	s.logger.Debug("selection prompt is ~%d tokens", countTokens(systemPrompt)+countTokens(userPrompt))

	req := &llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    s.temperature,
		ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
	}

	resp, err := mosaicerrors.RetryWithResult(ctx, s.retryConfig, func(ctx context.Context) (*llm.ChatResponse, error) {
		return s.client.Chat(ctx, req)
	}, s.logger)
	if err != nil {
		s.logger.Warn("model call failed after retries, using deterministic generator: %v", err)
		return s.deterministic(ctx, patterns, persona, maxComponents)
	}

	set, err := s.parseComponentSet(resp.Content(), maxComponents)
	if err != nil {
		s.logger.Warn("model output violated the component contract, using deterministic generator: %v", err)
		return s.deterministic(ctx, patterns, persona, maxComponents)
	}

	metrics.RecordSelection("model")
	return set, nil
}

func (s *Model) deterministic(ctx context.Context, patterns []types.Pattern, persona types.PersonaProfile, maxComponents int) (*catalog.ComponentSet, error) {
	metrics.RecordSelection("fallback")
	return s.fallback.generate(ctx, patterns, persona, maxComponents)
}

// parseComponentSet decodes and validates the model output. Individual invalid
// candidates are dropped; an empty result after filtering is an error so the
// caller falls back.
func (s *Model) parseComponentSet(content string, maxComponents int) (*catalog.ComponentSet, error) {
	raw := extractJSON(content)

	var envelope struct {
		Components []json.RawMessage `json:"components"`
		Reasoning  string            `json:"reasoning"`
	}
	if err := decodeEnvelope(raw, &envelope); err != nil {
		// Models occasionally emit almost-JSON; repair once before giving up.
		repaired, repairErr := jsonrepair.JSONRepair(raw)
		if repairErr != nil {
			return nil, err
		}
		s.logger.Debug("repaired malformed model JSON")
		if err := decodeEnvelope(repaired, &envelope); err != nil {
			return nil, err
		}
	}

	perPattern := make(map[string]int)
	components := make([]catalog.Component, 0, len(envelope.Components))
	for i, candidate := range envelope.Components {
		component, err := catalog.UnmarshalComponent(candidate)
		if err != nil {
			s.logger.Warn("dropping candidate %d: %v", i, err)
			metrics.RecordDroppedCandidate()
			continue
		}

		source := component.Meta().Source()
		if perPattern[source] >= maxPerPattern {
			s.logger.Warn("dropping candidate %d: pattern %q already has %d components", i, source, maxPerPattern)
			metrics.RecordDroppedCandidate()
			continue
		}
		perPattern[source]++

		components = append(components, component)
		if len(components) == maxComponents {
			if i < len(envelope.Components)-1 {
				s.logger.Debug("model over-produced, truncating to %d components", maxComponents)
			}
			break
		}
	}

	set := &catalog.ComponentSet{Components: components, Reasoning: envelope.Reasoning}
	if err := set.Validate(maxComponents); err != nil {
		return nil, err
	}
	return set, nil
}

// decodeEnvelope decodes the top-level response object strictly: fields
// outside the ComponentSet schema are contract violations, same as unknown
// fields inside a component.
func decodeEnvelope(raw string, v any) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// extractJSON strips markdown fences and surrounding prose, returning the
// outermost JSON object in content.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if idx := strings.Index(content, "```json"); idx >= 0 {
		content = content[idx+len("```json"):]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	} else if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[idx+3:]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return strings.TrimSpace(content)
}
