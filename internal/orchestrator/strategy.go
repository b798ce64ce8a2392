// internal/orchestrator/strategy.go
package orchestrator

import (
	"context"

	"uxr-engine/internal/models"
)

// Strategy is one complete execution path through the research
// pipeline. The primary strategy is adaptive and provider-backed; the
// fallback strategy never fails, substituting deterministic output
// wherever the provider cannot be reached. The orchestrator swaps
// strategies at stage boundaries on failure.
type Strategy interface {
	Kind() models.StrategyKind

	// PlanQuestions produces the scripted question list for the run.
	PlanQuestions(ctx context.Context, cfg models.ResearchConfig) (models.QuestionSet, error)

	// GeneratePersonas produces cfg.NumInterviews personas with ids
	// 1..N. A partial slice may be returned alongside the error.
	GeneratePersonas(ctx context.Context, cfg models.ResearchConfig) ([]models.Persona, error)

	// RunInterviews produces one transcript per persona, in persona
	// order. Never fails as a whole; the string slice lists per-persona
	// degradations.
	RunInterviews(ctx context.Context, cfg models.ResearchConfig, personas []models.Persona, questions models.QuestionSet) ([]models.InterviewTranscript, []string)

	// Synthesize condenses all transcripts into the three insight
	// fields. The result is usable even when an error is returned.
	Synthesize(ctx context.Context, cfg models.ResearchConfig, transcripts []models.InterviewTranscript) (models.SynthesisResult, error)
}
