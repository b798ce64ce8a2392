// Package generatepersonas produces the run's interview subjects from
// one provider call, validating and repairing the returned structure.
package generatepersonas

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	stderrors "uxr-engine/internal/common/errors"
	"uxr-engine/internal/common/llm"
	"uxr-engine/internal/common/logger"
	"uxr-engine/internal/models"
)

const promptTemplate = `Generate exactly %d diverse user personas for researching: %q
Target audience: %s

Create realistic, detailed personas with varied backgrounds that would have
different perspectives on this topic. Consider different demographics,
psychographics, relevant experiences and cultural contexts.

Return ONLY a JSON array with this exact structure:
[
  {
    "name": "First Last",
    "age": 22,
    "job": "Job Title",
    "traits": ["trait1", "trait2", "trait3"],
    "communication_style": "casual/formal/enthusiastic/skeptical etc",
    "background": "relevant detail that influences their perspective"
  }
]

Make each persona unique with different ages, varied jobs, distinct
personalities, and backgrounds that would lead to diverse opinions.`

type Service struct {
	config    *Config
	completer llm.Completer
	logger    logger.Logger
}

func NewService(config *Config, completer llm.Completer, log logger.Logger) *Service {
	return &Service{
		config:    config,
		completer: completer,
		logger:    log.WithFields(map[string]interface{}{"stage": "generate-personas"}),
	}
}

// Execute returns cfg.NumInterviews personas with sequential ids 1..N.
// On failure any partial result is returned alongside the error so the
// orchestrator's fallback can top up instead of starting over.
func (s *Service) Execute(ctx context.Context, cfg models.ResearchConfig) ([]models.Persona, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	prompt := fmt.Sprintf(promptTemplate, cfg.NumInterviews, cfg.Question, cfg.Audience)

	var best []models.Persona
	var lastErr error

	for attempt := 0; attempt <= s.config.RetryBudget; attempt++ {
		text, err := s.completer.Complete(ctx, prompt)
		if err != nil {
			lastErr = err
			if stderrors.IsProviderError(err) && !stderrors.IsRetryable(err) {
				break
			}
			continue
		}

		personas := parsePersonas(text)
		if len(personas) == 0 {
			lastErr = stderrors.NewResponseParseFailedError("generate-personas",
				fmt.Errorf("no personas found in %d bytes of output", len(text)))
			continue
		}

		if len(personas) > cfg.NumInterviews {
			personas = personas[:cfg.NumInterviews]
		}
		if len(personas) > len(best) {
			best = personas
		}

		if len(personas) < cfg.NumInterviews {
			lastErr = stderrors.NewResponseParseFailedError("generate-personas",
				fmt.Errorf("expected %d personas, got %d", cfg.NumInterviews, len(personas)))
			continue
		}

		if hasDuplicateNames(personas) && attempt < s.config.RetryBudget {
			s.logger.Warn("duplicate persona names, regenerating", map[string]interface{}{
				"attempt": attempt + 1,
			})
			best = personas
			lastErr = nil
			continue
		}

		// Duplicates past the retry budget are kept rather than failing
		// the run.
		return finalize(personas, cfg), nil
	}

	if len(best) == cfg.NumInterviews {
		return finalize(best, cfg), nil
	}
	return finalize(best, cfg), lastErr
}

func finalize(personas []models.Persona, cfg models.ResearchConfig) []models.Persona {
	for i := range personas {
		personas[i].ID = i + 1
		personas[i].AudienceType = cfg.Audience
	}
	return personas
}

func hasDuplicateNames(personas []models.Persona) bool {
	seen := make(map[string]bool, len(personas))
	for _, p := range personas {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

// parsePersonas attempts a strict JSON parse first, then a line-based
// key/value extraction for prose-shaped output.
func parsePersonas(text string) []models.Persona {
	if personas := parseJSONPersonas(text); len(personas) > 0 {
		return personas
	}
	return parseProsePersonas(text)
}

func parseJSONPersonas(text string) []models.Persona {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end <= start {
		return nil
	}

	var raw []rawPersona
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil
	}

	var out []models.Persona
	for _, r := range raw {
		if strings.TrimSpace(r.Name) == "" {
			continue
		}
		out = append(out, models.Persona{
			Name:               strings.TrimSpace(r.Name),
			Age:                r.Age,
			Occupation:         strings.TrimSpace(r.Job),
			Traits:             r.Traits,
			CommunicationStyle: r.CommunicationStyle,
			Background:         r.Background,
		})
	}
	return out
}

// parseProsePersonas scans "key: value" lines, starting a new persona at
// each "name:" marker.
func parseProsePersonas(text string) []models.Persona {
	var out []models.Persona
	var current *models.Persona

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*• \t"))
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.Trim(strings.TrimSpace(parts[1]), `",`)

		switch key {
		case "name":
			if current != nil && current.Name != "" {
				out = append(out, *current)
			}
			current = &models.Persona{Name: value}
		case "age":
			if current != nil {
				if age, err := strconv.Atoi(value); err == nil {
					current.Age = age
				}
			}
		case "job", "occupation":
			if current != nil {
				current.Occupation = value
			}
		case "traits":
			if current != nil {
				for _, tr := range strings.Split(value, ",") {
					if tr = strings.TrimSpace(strings.Trim(tr, `"[]`)); tr != "" {
						current.Traits = append(current.Traits, tr)
					}
				}
			}
		case "communication_style", "communication style":
			if current != nil {
				current.CommunicationStyle = value
			}
		case "background":
			if current != nil {
				current.Background = value
			}
		}
	}

	if current != nil && current.Name != "" {
		out = append(out, *current)
	}
	return out
}
