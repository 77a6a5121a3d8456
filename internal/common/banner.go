package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and a sanitized configuration summary
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.Print("Verify-AI", GetVersion())

	logger.Info().
		Str("environment", config.Environment).
		Str("gemini_model", config.Gemini.Model).
		Str("gateway_model", config.Gateway.Model).
		Bool("gemini_configured", config.Gemini.APIKey != "").
		Bool("gateway_configured", config.Gateway.APIKey != "").
		Bool("search_configured", config.Search.APIKey != "" && config.Search.EngineID != "").
		Bool("history_enabled", config.History.Enabled).
		Msg("Configuration summary")
}
