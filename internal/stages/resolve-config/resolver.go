// Package resolveconfig normalizes raw caller payloads into a canonical
// ResearchConfig. It never fails: unusable fields fall back to defaults.
package resolveconfig

import (
	"strconv"
	"strings"

	"uxr-engine/internal/models"
)

const (
	DefaultQuestion      = "How do users feel about product changes?"
	DefaultAudience      = "general users"
	DefaultNumInterviews = 5
	DefaultNumQuestions  = 3

	MinInterviews = 1
	MaxInterviews = 50
	MinQuestions  = 1
)

// Resolve builds a ResearchConfig from an arbitrary request payload.
func Resolve(raw map[string]interface{}) models.ResearchConfig {
	cfg := models.ResearchConfig{
		Question:           stringField(raw, "question"),
		Audience:           stringField(raw, "audience"),
		NumInterviews:      intField(raw, "numInterviews", DefaultNumInterviews),
		NumQuestions:       intField(raw, "numQuestions", DefaultNumQuestions),
		ProviderCredential: stringField(raw, "providerCredential"),
	}
	return Normalize(cfg)
}

// Normalize clamps and defaults an already-typed config. Normalizing a
// normalized config returns it unchanged.
func Normalize(cfg models.ResearchConfig) models.ResearchConfig {
	if strings.TrimSpace(cfg.Question) == "" {
		cfg.Question = DefaultQuestion
	}
	if strings.TrimSpace(cfg.Audience) == "" {
		cfg.Audience = DefaultAudience
	}

	if cfg.NumInterviews < MinInterviews {
		cfg.NumInterviews = MinInterviews
	}
	if cfg.NumInterviews > MaxInterviews {
		cfg.NumInterviews = MaxInterviews
	}
	if cfg.NumQuestions < MinQuestions {
		cfg.NumQuestions = MinQuestions
	}
	return cfg
}

func stringField(raw map[string]interface{}, key string) string {
	if raw == nil {
		return ""
	}
	if v, ok := raw[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// intField tolerates the numeric shapes JSON decoding produces plus
// numeric strings; anything else falls back to the default. Fractional
// values truncate toward zero, so "3.9 interviews" resolves to 3.
func intField(raw map[string]interface{}, key string, fallback int) int {
	if raw == nil {
		return fallback
	}
	switch v := raw[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}
