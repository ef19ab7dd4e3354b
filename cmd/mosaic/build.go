package main

import (
	"mosaic/internal/config"
	"mosaic/internal/enrich"
	"mosaic/internal/llm"
	"mosaic/internal/logging"
	"mosaic/internal/pipeline"
	"mosaic/internal/selector"
	"mosaic/internal/services"
)

// buildGenerator wires the pipeline from resolved configuration. Missing
// provider keys disable the corresponding enrichment adapter rather than
// failing startup, and a missing LLM key falls back to rule-based selection.
func buildGenerator(cfg *config.Config, logger logging.Logger) *pipeline.Generator {
	var sel selector.Selector
	if cfg.LLMProvider == config.ProviderMock {
		logger.Info("no LLM API key configured, using rule-based selection")
		sel = selector.NewDeterministic(logger)
	} else {
		client := llm.NewHTTPClient(llm.Config{
			Model:   cfg.LLMModel,
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMBaseURL,
		})
		sel = selector.NewModel(client, logger)
	}

	adapters := enrich.Adapters{
		Geocode: services.NewGeocodeClient(),
	}
	if cfg.OpenWeatherAPIKey != "" {
		adapters.Weather = services.NewWeatherClient(cfg.OpenWeatherAPIKey)
	}
	if cfg.YouTubeAPIKey != "" {
		adapters.Video = services.NewVideoClient(cfg.YouTubeAPIKey)
	}
	if cfg.TicketmasterAPIKey != "" {
		adapters.Events = services.NewEventsClient(cfg.TicketmasterAPIKey)
	}

	orchestrator := enrich.NewOrchestrator(adapters, logger)
	orchestrator.SetCallTimeout(cfg.AdapterTimeout())

	return pipeline.New(sel, orchestrator, logger)
}
