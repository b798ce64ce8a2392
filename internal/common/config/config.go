// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Provider ProviderConfig `mapstructure:"provider"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // seconds
}

// ProviderConfig holds settings for the text-generation provider.
type ProviderConfig struct {
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	BaseURL        string  `mapstructure:"base_url"` // OpenAI-compatible endpoint, empty for SDK client
	Timeout        int     `mapstructure:"timeout"`  // milliseconds per call
	MaxRetries     int     `mapstructure:"max_retries"`
	InitialBackoff int     `mapstructure:"initial_backoff"` // milliseconds
	Temperature    float32 `mapstructure:"temperature"`
	MaxTokens      int     `mapstructure:"max_tokens"`
}

// CallTimeout returns the per-call timeout as a duration.
func (p ProviderConfig) CallTimeout() time.Duration {
	return time.Duration(p.Timeout) * time.Millisecond
}

// Backoff returns the initial retry backoff as a duration.
func (p ProviderConfig) Backoff() time.Duration {
	return time.Duration(p.InitialBackoff) * time.Millisecond
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

// PipelineConfig holds the tuning knobs of the simulation pipeline.
type PipelineConfig struct {
	MaxConcurrentInterviews int `mapstructure:"max_concurrent_interviews"`
	PersonaRetryBudget      int `mapstructure:"persona_retry_budget"`
	FollowupMinAnswerRunes  int `mapstructure:"followup_min_answer_runes"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Debug  bool   `mapstructure:"debug"`
}
