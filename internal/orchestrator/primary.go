// internal/orchestrator/primary.go
package orchestrator

import (
	"context"

	"uxr-engine/internal/common/config"
	"uxr-engine/internal/common/llm"
	"uxr-engine/internal/common/logger"
	"uxr-engine/internal/models"
	generatepersonas "uxr-engine/internal/stages/generate-personas"
	planquestions "uxr-engine/internal/stages/plan-questions"
	runinterviews "uxr-engine/internal/stages/run-interviews"
	synthesizeinsights "uxr-engine/internal/stages/synthesize-insights"
)

// Primary is the provider-backed adaptive pipeline. Each stage
// delegates to its service; failures propagate to the orchestrator,
// which decides the degrade transition.
type Primary struct {
	questions  *planquestions.Service
	personas   *generatepersonas.Service
	interviews *runinterviews.Service
	synthesis  *synthesizeinsights.Service
}

// NewPrimary wires the stage services around one shared completer.
// Pipeline tuning from the app config overrides stage defaults when
// set.
func NewPrimary(cfg *config.Config, completer llm.Completer, log logger.Logger) *Primary {
	questionCfg := planquestions.LoadConfig()
	personaCfg := generatepersonas.LoadConfig()
	interviewCfg := runinterviews.LoadConfig()
	synthesisCfg := synthesizeinsights.LoadConfig()

	if cfg != nil {
		if cfg.Pipeline.PersonaRetryBudget > 0 {
			personaCfg.RetryBudget = cfg.Pipeline.PersonaRetryBudget
		}
		if cfg.Pipeline.MaxConcurrentInterviews > 0 {
			interviewCfg.MaxConcurrent = cfg.Pipeline.MaxConcurrentInterviews
		}
		if cfg.Pipeline.FollowupMinAnswerRunes > 0 {
			interviewCfg.MinAnswerRunes = cfg.Pipeline.FollowupMinAnswerRunes
		}
	}

	return &Primary{
		questions:  planquestions.NewService(questionCfg, completer, log),
		personas:   generatepersonas.NewService(personaCfg, completer, log),
		interviews: runinterviews.NewService(interviewCfg, completer, log),
		synthesis:  synthesizeinsights.NewService(synthesisCfg, completer, log),
	}
}

func (p *Primary) Kind() models.StrategyKind { return models.StrategyPrimary }

func (p *Primary) PlanQuestions(ctx context.Context, cfg models.ResearchConfig) (models.QuestionSet, error) {
	return p.questions.Execute(ctx, cfg)
}

func (p *Primary) GeneratePersonas(ctx context.Context, cfg models.ResearchConfig) ([]models.Persona, error) {
	return p.personas.Execute(ctx, cfg)
}

func (p *Primary) RunInterviews(ctx context.Context, cfg models.ResearchConfig, personas []models.Persona, questions models.QuestionSet) ([]models.InterviewTranscript, []string) {
	return p.interviews.RunAll(ctx, cfg, personas, questions)
}

func (p *Primary) Synthesize(ctx context.Context, cfg models.ResearchConfig, transcripts []models.InterviewTranscript) (models.SynthesisResult, error) {
	return p.synthesis.Execute(ctx, cfg, transcripts)
}
