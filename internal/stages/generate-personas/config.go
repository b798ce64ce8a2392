// internal/stages/generate-personas/config.go
package generatepersonas

import "time"

type Config struct {
	Timeout time.Duration
	// RetryBudget is the number of regenerations allowed when the
	// provider returns duplicate names or unparseable output.
	RetryBudget int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     45 * time.Second,
		RetryBudget: 2,
	}
}
