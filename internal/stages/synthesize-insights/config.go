// internal/stages/synthesize-insights/config.go
package synthesizeinsights

import "time"

type Config struct {
	Timeout time.Duration
	// MaxSentencesPerField caps how much text one insight field keeps.
	MaxSentencesPerField int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:              60 * time.Second,
		MaxSentencesPerField: 3,
	}
}
