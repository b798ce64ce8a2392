// internal/orchestrator/orchestrator.go

// Package orchestrator drives the research pipeline through its stages
// and manages the degrade transitions between the primary and fallback
// strategies.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	stderrors "uxr-engine/internal/common/errors"
	"uxr-engine/internal/common/logger"
	"uxr-engine/internal/common/metrics"
	"uxr-engine/internal/common/observability"
	"uxr-engine/internal/models"
	assembleresult "uxr-engine/internal/stages/assemble-result"
	generatepersonas "uxr-engine/internal/stages/generate-personas"
	resolveconfig "uxr-engine/internal/stages/resolve-config"
)

// runState names where a run currently is. Linear; every run reaches
// stateDone once a config exists, because failures degrade stages
// instead of aborting.
type runState string

const (
	stateResolving          runState = "resolving"
	stateGeneratingPersonas runState = "generating_personas"
	stateInterviewing       runState = "interviewing"
	stateSynthesizing       runState = "synthesizing"
	stateAssembling         runState = "assembling"
	stateDone               runState = "done"
)

// Orchestrator owns one primary and one fallback strategy and runs the
// pipeline stage by stage. Any unrecovered stage failure switches the
// remaining stages to the fallback strategy; completed stage output is
// kept.
type Orchestrator struct {
	primary  Strategy
	fallback Strategy
	obs      *observability.Observability
	logger   logger.Logger
}

func New(primary, fallback Strategy, obs *observability.Observability, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		primary:  primary,
		fallback: fallback,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "orchestrator"}),
	}
}

// Run executes one full research simulation from a raw request payload.
// The only error it can return is FallbackExhausted; every other
// failure is absorbed into a degrade transition and reported through
// the envelope metadata.
func (o *Orchestrator) Run(ctx context.Context, raw map[string]interface{}) (models.ResultEnvelope, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := o.logger.WithFields(map[string]interface{}{"run_id": runID})

	state := stateResolving
	cfg := resolveconfig.Resolve(raw)
	if cfg.NumInterviews < 1 || cfg.NumQuestions < 1 {
		return models.ResultEnvelope{}, stderrors.NewFallbackExhaustedError(
			fmt.Sprintf("no runnable configuration: %d interviews, %d questions", cfg.NumInterviews, cfg.NumQuestions))
	}

	log.Info("research run starting", map[string]interface{}{
		"question":       cfg.Question,
		"audience":       cfg.Audience,
		"num_interviews": cfg.NumInterviews,
		"num_questions":  cfg.NumQuestions,
	})

	st := models.PipelineState{Config: cfg, Strategy: models.StrategyPrimary}
	active := o.primary
	var reasons []string
	degraded := false

	degrade := func(stage string, err error) {
		reasons = append(reasons, fmt.Sprintf("%s failed: %v", stage, err))
		metrics.StageFailuresTotal.WithLabelValues(stage, string(stderrors.CodeOf(err))).Inc()
		log.WithError(err).Warn("stage failed, degrading remaining stages", map[string]interface{}{
			"stage": stage,
			"state": string(state),
		})
		active = o.fallback
		degraded = true
		st = st.Degrade()
	}

	// Question planning happens under the resolving state; its fallback
	// substitute can never fail.
	questions, err := active.PlanQuestions(ctx, cfg)
	if err != nil {
		degrade("plan-questions", err)
		questions, _ = o.fallback.PlanQuestions(ctx, cfg)
	}
	st = st.WithQuestions(questions)

	state = stateGeneratingPersonas
	personas, err := active.GeneratePersonas(ctx, cfg)
	if err != nil {
		degrade("generate-personas", err)
	}
	if len(personas) < cfg.NumInterviews {
		personas = append(personas, generatepersonas.TemplatePersonas(cfg, len(personas)+1, cfg.NumInterviews-len(personas))...)
	}
	st = st.WithPersonas(personas)

	state = stateInterviewing
	transcripts, interviewReasons := active.RunInterviews(ctx, cfg, st.Personas, st.Questions)
	if len(interviewReasons) > 0 {
		reasons = append(reasons, interviewReasons...)
		metrics.StageFailuresTotal.WithLabelValues("run-interviews", string(stderrors.ErrCodeProviderUnavailable)).Inc()
		if active == o.primary {
			active = o.fallback
		}
		degraded = true
		st = st.Degrade()
	}
	st = st.WithTranscripts(transcripts)

	state = stateSynthesizing
	synthesis, err := active.Synthesize(ctx, cfg, st.Transcripts)
	if err != nil {
		wasPrimary := active == o.primary
		degrade("synthesize-insights", err)
		if wasPrimary {
			if retried, rerr := o.fallback.Synthesize(ctx, cfg, st.Transcripts); rerr == nil {
				synthesis = retried
			}
		}
	}

	state = stateAssembling
	report := models.ExecutionReport{
		RunID:                runID,
		WorkflowUsed:         active.Kind(),
		ExecutionTimeSeconds: time.Since(start).Seconds(),
		Degraded:             degraded,
		FailureReasons:       reasons,
	}
	envelope := assembleresult.Assemble(cfg, st.Personas, st.Transcripts, synthesis, report)

	state = stateDone
	o.record(ctx, report)
	log.Info("research run finished", map[string]interface{}{
		"state":        string(state),
		"workflow":     string(report.WorkflowUsed),
		"degraded":     report.Degraded,
		"duration_s":   report.ExecutionTimeSeconds,
		"participants": len(envelope.Participants),
	})
	return envelope, nil
}

func (o *Orchestrator) record(ctx context.Context, report models.ExecutionReport) {
	workflow := string(report.WorkflowUsed)
	metrics.ResearchRunsTotal.WithLabelValues(workflow).Inc()
	metrics.RunDuration.WithLabelValues(workflow).Observe(report.ExecutionTimeSeconds)
	if o.obs != nil {
		o.obs.RecordRunProcessed(ctx, workflow, report.Degraded)
		o.obs.RecordRunDuration(ctx, time.Duration(report.ExecutionTimeSeconds*float64(time.Second)), workflow)
	}
}
