// Package planquestions derives the scripted question set for a run
// from the research question, via one provider call.
package planquestions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	stderrors "uxr-engine/internal/common/errors"
	"uxr-engine/internal/common/llm"
	"uxr-engine/internal/common/logger"
	"uxr-engine/internal/models"
)

const promptTemplate = `Generate exactly %d interview questions about: %q

Requirements:
- Each question must be open-ended (not yes/no)
- Keep questions conversational and clear
- Focus on understanding user feelings, motivations, and experiences
- Return as a JSON array of strings`

type Service struct {
	config    *Config
	completer llm.Completer
	logger    logger.Logger
}

func NewService(config *Config, completer llm.Completer, log logger.Logger) *Service {
	return &Service{
		config:    config,
		completer: completer,
		logger:    log.WithFields(map[string]interface{}{"stage": "plan-questions"}),
	}
}

// Execute asks the provider for the question set. The result always has
// exactly cfg.NumQuestions entries, topped up from the scripted
// templates when the provider returns too few.
func (s *Service) Execute(ctx context.Context, cfg models.ResearchConfig) (models.QuestionSet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	prompt := fmt.Sprintf(promptTemplate, cfg.NumQuestions, cfg.Question)
	text, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	questions := parseQuestionList(text)
	if len(questions) == 0 {
		return nil, stderrors.NewResponseParseFailedError("plan-questions",
			fmt.Errorf("no questions found in %d bytes of output", len(text)))
	}

	s.logger.Debug("planned questions", map[string]interface{}{
		"requested": cfg.NumQuestions,
		"parsed":    len(questions),
	})

	return fitToCount(questions, cfg), nil
}

// parseQuestionList tries a strict JSON array first, then falls back to
// heuristic line extraction for prose-shaped output.
func parseQuestionList(text string) []string {
	if arr := extractJSONArray(text); arr != nil {
		return arr
	}

	var questions []string
	for _, line := range strings.Split(text, "\n") {
		line = stripListMarker(line)
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, "?") {
			questions = append(questions, line)
		}
	}
	return questions
}

func extractJSONArray(text string) []string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end <= start {
		return nil
	}

	var arr []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &arr); err != nil {
		return nil
	}

	var out []string
	for _, q := range arr {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}

// stripListMarker removes leading bullets and "1." / "1)" numbering.
func stripListMarker(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "-*• \t")
	for i, r := range line {
		if r >= '0' && r <= '9' {
			continue
		}
		if (r == '.' || r == ')') && i > 0 {
			line = line[i+1:]
		}
		break
	}
	return strings.Trim(strings.TrimSpace(line), `"`)
}

func fitToCount(questions []string, cfg models.ResearchConfig) models.QuestionSet {
	if len(questions) > cfg.NumQuestions {
		questions = questions[:cfg.NumQuestions]
	}
	for i := len(questions); i < cfg.NumQuestions; i++ {
		questions = append(questions, FallbackQuestions(cfg)[i])
	}
	return models.QuestionSet(questions)
}

// FallbackQuestions is the deterministic question set used when the
// provider cannot be reached. Always returns exactly cfg.NumQuestions
// entries.
func FallbackQuestions(cfg models.ResearchConfig) models.QuestionSet {
	templates := []string{
		fmt.Sprintf("How do you feel about %s?", cfg.Question),
		"What concerns or excitement does this bring up for you?",
		"How might this impact your daily routine?",
		"What would make this more appealing to you?",
		fmt.Sprintf("Can you describe a recent experience related to %s?", cfg.Question),
	}

	out := make(models.QuestionSet, 0, cfg.NumQuestions)
	for i := 0; i < cfg.NumQuestions; i++ {
		if i < len(templates) {
			out = append(out, templates[i])
			continue
		}
		out = append(out, fmt.Sprintf("What else would you want decision makers to know about %s?", cfg.Question))
	}
	return out
}
