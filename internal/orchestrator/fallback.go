// internal/orchestrator/fallback.go
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"uxr-engine/internal/common/llm"
	"uxr-engine/internal/common/logger"
	"uxr-engine/internal/models"
	generatepersonas "uxr-engine/internal/stages/generate-personas"
	planquestions "uxr-engine/internal/stages/plan-questions"
	runinterviews "uxr-engine/internal/stages/run-interviews"
	synthesizeinsights "uxr-engine/internal/stages/synthesize-insights"
)

const (
	fallbackAnswerTemplate = `You are %s, age %d, working as %s.
Your traits: %s
Communication style: %s
Background: %s

You're being interviewed about: %q

Question: %s

Respond naturally as this character would, in 1-2 sentences. Be authentic
to their personality and background.`

	fallbackSynthesisTemplate = `Analyze these user research interviews about: %q

Interview Data:
%s

Provide insights in exactly this JSON format:
{
  "keyInsights": "One sentence summarizing the main finding",
  "observations": "One sentence about specific patterns or behaviors observed",
  "takeaways": "One sentence about actionable recommendations"
}`
)

// Fallback is the simplified pipeline used after a degrade transition.
// Question planning and persona generation are fully deterministic.
// Interviews and synthesis still try the provider with non-adaptive
// single-shot prompts, but substitute fixed placeholder text when the
// call fails, so the stage output is always valid.
type Fallback struct {
	completer llm.Completer
	logger    logger.Logger
}

func NewFallback(completer llm.Completer, log logger.Logger) *Fallback {
	return &Fallback{
		completer: completer,
		logger:    log.WithFields(map[string]interface{}{"strategy": "fallback"}),
	}
}

func (f *Fallback) Kind() models.StrategyKind { return models.StrategyFallback }

func (f *Fallback) PlanQuestions(_ context.Context, cfg models.ResearchConfig) (models.QuestionSet, error) {
	return planquestions.FallbackQuestions(cfg), nil
}

func (f *Fallback) GeneratePersonas(_ context.Context, cfg models.ResearchConfig) ([]models.Persona, error) {
	return generatepersonas.TemplatePersonas(cfg, 1, cfg.NumInterviews), nil
}

// RunInterviews asks every scripted question exactly once per persona,
// with no follow-ups. Interviews run sequentially; after the first
// failed call for a persona the rest of that transcript is filled with
// the placeholder answer.
func (f *Fallback) RunInterviews(ctx context.Context, cfg models.ResearchConfig, personas []models.Persona, questions models.QuestionSet) ([]models.InterviewTranscript, []string) {
	transcripts := make([]models.InterviewTranscript, len(personas))
	var reasons []string

	for i := range personas {
		persona := &personas[i]
		responses := make([]models.ResponseEntry, 0, len(questions))
		var failed error

		for _, question := range questions {
			if failed != nil {
				responses = append(responses, models.ResponseEntry{
					Question: question,
					Answer:   runinterviews.PlaceholderAnswer,
				})
				continue
			}

			answer, err := f.completer.Complete(ctx, f.answerPrompt(cfg, persona, question))
			if err != nil {
				failed = err
				responses = append(responses, models.ResponseEntry{
					Question: question,
					Answer:   runinterviews.PlaceholderAnswer,
				})
				continue
			}
			responses = append(responses, models.ResponseEntry{
				Question: question,
				Answer:   strings.TrimSpace(answer),
			})
		}

		if failed != nil {
			reasons = append(reasons, fmt.Sprintf("interview with %s degraded: %v", persona.Name, failed))
		}
		transcripts[i] = models.InterviewTranscript{Persona: persona, Responses: responses}
	}
	return transcripts, reasons
}

// Synthesize makes one JSON-format provider call; the fixed placeholder
// result covers every failure mode, so the caller can always use the
// returned value.
func (f *Fallback) Synthesize(ctx context.Context, cfg models.ResearchConfig, transcripts []models.InterviewTranscript) (models.SynthesisResult, error) {
	prompt := fmt.Sprintf(fallbackSynthesisTemplate, cfg.Question, interviewData(transcripts))

	text, err := f.completer.Complete(ctx, prompt)
	if err != nil {
		f.logger.WithError(err).Warn("fallback synthesis call failed, using placeholder insights", nil)
		return synthesizeinsights.PlaceholderResult(cfg), err
	}

	var parsed struct {
		KeyInsights  string `json:"keyInsights"`
		Observations string `json:"observations"`
		Takeaways    string `json:"takeaways"`
	}
	if jerr := json.Unmarshal([]byte(extractJSONObject(text)), &parsed); jerr != nil ||
		parsed.KeyInsights == "" || parsed.Observations == "" || parsed.Takeaways == "" {
		f.logger.Warn("fallback synthesis output not parseable, using placeholder insights", nil)
		return synthesizeinsights.PlaceholderResult(cfg), nil
	}

	return models.SynthesisResult{
		KeyInsights:  parsed.KeyInsights,
		Observations: parsed.Observations,
		Takeaways:    parsed.Takeaways,
		Raw:          strings.TrimSpace(text),
	}, nil
}

func (f *Fallback) answerPrompt(cfg models.ResearchConfig, persona *models.Persona, question string) string {
	style := persona.CommunicationStyle
	if style == "" {
		style = "casual"
	}
	background := persona.Background
	if background == "" {
		background = "general user"
	}
	return fmt.Sprintf(fallbackAnswerTemplate,
		persona.Name, persona.Age, persona.Occupation,
		strings.Join(persona.Traits, ", "), style, background,
		cfg.Question, question)
}

func interviewData(transcripts []models.InterviewTranscript) string {
	var b strings.Builder
	for _, tr := range transcripts {
		if tr.Persona == nil {
			continue
		}
		fmt.Fprintf(&b, "\nParticipant: %s\n", tr.Persona.Name)
		for _, qa := range tr.Responses {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", qa.Question, qa.Answer)
		}
	}
	return b.String()
}

// extractJSONObject trims surrounding prose around the first top-level
// JSON object, which chat models often add despite format instructions.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return text
	}
	return text[start : end+1]
}
