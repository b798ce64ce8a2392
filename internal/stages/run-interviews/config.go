// internal/stages/run-interviews/config.go
package runinterviews

import "time"

type Config struct {
	// MinAnswerRunes is the answer length below which one adaptive
	// follow-up is asked.
	MinAnswerRunes int
	// MaxConcurrent caps how many interviews run at once, independent
	// of the interview count, to respect provider rate limits.
	MaxConcurrent int
	Timeout       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MinAnswerRunes: 80,
		MaxConcurrent:  4,
		Timeout:        2 * time.Minute,
	}
}
