// Package runinterviews simulates one interview per persona, asking the
// scripted questions plus adaptive follow-ups.
package runinterviews

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"uxr-engine/internal/common/llm"
	"uxr-engine/internal/common/logger"
	"uxr-engine/internal/common/metrics"
	"uxr-engine/internal/models"
)

const (
	answerPromptTemplate = `You are %s, a %d-year-old %s who is %s.
Communication style: %s
Background: %s

You're being interviewed about: %q

Answer the following question in 2-3 sentences:

Question: %s

Answer as %s in your own authentic voice. Be brief but creative and unique,
and make each answer conversational. BE REALISTIC - do not be overly
optimistic. Mimic real human behavior based on your persona, and give
honest answers.`

	followupQuestionTemplate = `Generate ONE natural follow-up question for %s based on their last answer:
%q
Keep it conversational and dig a bit deeper. Return only the question.`

	followupAnswerTemplate = `You are %s, a %d-year-old %s who is %s.

Answer the follow-up question below in 2-4 sentences, staying authentic
and specific.

Follow-up question: %s

Answer as %s:`

	// PlaceholderAnswer fills transcripts when the provider stays down
	// for a persona after retries.
	PlaceholderAnswer = "No response could be recorded for this question."
)

// hedgingMarkers trigger a follow-up even when the answer is long enough.
var hedgingMarkers = []string{
	"maybe", "not sure", "i guess", "i don't know", "perhaps", "it depends",
}

type Service struct {
	config    *Config
	completer llm.Completer
	logger    logger.Logger
}

func NewService(config *Config, completer llm.Completer, log logger.Logger) *Service {
	return &Service{
		config:    config,
		completer: completer,
		logger:    log.WithFields(map[string]interface{}{"stage": "run-interviews"}),
	}
}

// RunAll interviews every persona, concurrently up to the configured
// cap. Each worker writes only its own slot, keeping transcript order
// aligned with persona order. The returned failure list names personas
// whose transcripts were degraded to placeholders.
func (s *Service) RunAll(ctx context.Context, cfg models.ResearchConfig, personas []models.Persona, questions models.QuestionSet) ([]models.InterviewTranscript, []string) {
	transcripts := make([]models.InterviewTranscript, len(personas))
	failures := make([]string, len(personas))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent(len(personas)))

	for i := range personas {
		g.Go(func() error {
			metrics.InterviewsActive.Inc()
			defer metrics.InterviewsActive.Dec()

			transcript, err := s.RunInterview(gctx, cfg, &personas[i], questions)
			transcripts[i] = transcript
			if err != nil {
				failures[i] = fmt.Sprintf("interview with %s degraded: %v", personas[i].Name, err)
			}
			return nil
		})
	}
	// Workers never return errors; the join is the synthesis barrier.
	_ = g.Wait()

	var reasons []string
	for _, f := range failures {
		if f != "" {
			reasons = append(reasons, f)
		}
	}
	return transcripts, reasons
}

func (s *Service) maxConcurrent(n int) int {
	if n < s.config.MaxConcurrent {
		return n
	}
	return s.config.MaxConcurrent
}

// RunInterview asks each scripted question in order, inserting one
// follow-up entry after any answer that is short or hedging. Calls
// within one interview are strictly sequential. On persistent provider
// failure the remaining answers become neutral placeholders and the
// error is reported alongside the still-valid transcript.
func (s *Service) RunInterview(ctx context.Context, cfg models.ResearchConfig, persona *models.Persona, questions models.QuestionSet) (models.InterviewTranscript, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	responses := make([]models.ResponseEntry, 0, len(questions)*2)
	var firstErr error

	for qi, question := range questions {
		if firstErr != nil {
			responses = append(responses, models.ResponseEntry{
				Question: question,
				Answer:   PlaceholderAnswer,
			})
			continue
		}

		answer, err := s.completer.Complete(ctx, s.answerPrompt(cfg, persona, question))
		if err != nil {
			firstErr = err
			s.logger.WithError(err).Warn("interview call failed, degrading transcript", map[string]interface{}{
				"persona":  persona.Name,
				"question": qi + 1,
			})
			responses = append(responses, models.ResponseEntry{
				Question: question,
				Answer:   PlaceholderAnswer,
			})
			continue
		}

		answer = strings.TrimSpace(answer)
		responses = append(responses, models.ResponseEntry{
			Question: question,
			Answer:   answer,
		})

		if s.needsFollowup(answer) {
			entry, err := s.askFollowup(ctx, cfg, persona, answer)
			if err != nil {
				firstErr = err
			}
			responses = append(responses, entry)
		}
	}

	return models.InterviewTranscript{Persona: persona, Responses: responses}, firstErr
}

// needsFollowup reports whether an answer warrants one adaptive probe.
func (s *Service) needsFollowup(answer string) bool {
	if utf8.RuneCountInString(answer) < s.config.MinAnswerRunes {
		return true
	}
	lower := strings.ToLower(answer)
	// Chat models favor the typographic apostrophe.
	lower = strings.ReplaceAll(lower, "’", "'")
	for _, marker := range hedgingMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func (s *Service) askFollowup(ctx context.Context, cfg models.ResearchConfig, persona *models.Persona, previousAnswer string) (models.ResponseEntry, error) {
	followupQ, err := s.completer.Complete(ctx, fmt.Sprintf(followupQuestionTemplate, persona.Name, previousAnswer))
	if err != nil {
		return models.ResponseEntry{
			Question:   "Could you tell me a bit more about that?",
			Answer:     PlaceholderAnswer,
			IsFollowup: true,
		}, err
	}
	followupQ = strings.TrimSpace(followupQ)

	followupA, err := s.completer.Complete(ctx, fmt.Sprintf(followupAnswerTemplate,
		persona.Name, persona.Age, persona.Occupation, strings.Join(persona.Traits, ", "),
		followupQ, persona.Name))
	if err != nil {
		return models.ResponseEntry{
			Question:   followupQ,
			Answer:     PlaceholderAnswer,
			IsFollowup: true,
		}, err
	}

	return models.ResponseEntry{
		Question:   followupQ,
		Answer:     strings.TrimSpace(followupA),
		IsFollowup: true,
	}, nil
}

func (s *Service) answerPrompt(cfg models.ResearchConfig, persona *models.Persona, question string) string {
	style := persona.CommunicationStyle
	if style == "" {
		style = "casual"
	}
	background := persona.Background
	if background == "" {
		background = "general user"
	}
	return fmt.Sprintf(answerPromptTemplate,
		persona.Name, persona.Age, persona.Occupation, strings.Join(persona.Traits, ", "),
		style, background, cfg.Question, question, persona.Name)
}
