package assembleresult

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uxr-engine/internal/models"
)

func sampleConfig() models.ResearchConfig {
	return models.ResearchConfig{
		Question:      "Would commuters use a foldable bike?",
		Audience:      "urban commuters",
		NumInterviews: 3,
		NumQuestions:  2,
	}
}

func samplePersonas() []models.Persona {
	return []models.Persona{
		{ID: 1, Name: "Mina Kaur", AudienceType: "urban commuters", Age: 29, Occupation: "Nurse", Traits: []string{"practical", "busy", "frugal"}},
		{ID: 2, Name: "Tom Reyes", AudienceType: "urban commuters", Age: 41, Occupation: "Accountant", Traits: []string{"cautious"}},
		{ID: 3, Name: "Lea Brandt", AudienceType: "urban commuters", Age: 35, Occupation: "Designer", Traits: nil},
	}
}

func sampleTranscripts(personas []models.Persona) []models.InterviewTranscript {
	out := make([]models.InterviewTranscript, len(personas))
	for i := range personas {
		out[i] = models.InterviewTranscript{
			Persona: &personas[i],
			Responses: []models.ResponseEntry{
				{Question: "q1?", Answer: "a1"},
				{Question: "q2?", Answer: "a2"},
			},
		}
	}
	return out
}

func TestAssemble_MapsPersonasToParticipantRows(t *testing.T) {
	cfg := sampleConfig()
	personas := samplePersonas()
	transcripts := sampleTranscripts(personas)
	synthesis := models.SynthesisResult{
		KeyInsights:  "Commuters value portability.",
		Observations: "Price sensitivity varies by age.",
		Takeaways:    "Pilot a rental program.",
		Raw:          "KEY THEMES: Commuters value portability.",
	}
	report := models.ExecutionReport{
		RunID:                "run-123",
		WorkflowUsed:         models.StrategyPrimary,
		ExecutionTimeSeconds: 12.34,
	}

	env := Assemble(cfg, personas, transcripts, synthesis, report)

	require.Len(t, env.Participants, 3)
	for i, p := range env.Participants {
		assert.Equal(t, i+1, p.ID)
	}

	first := env.Participants[0]
	assert.Equal(t, "Mina Kaur", first.Header)
	assert.Equal(t, "urban commuters", first.Type)
	assert.Equal(t, "practical, busy", first.Status, "status keeps only the first two traits")
	assert.Equal(t, "29", first.Target)
	assert.Equal(t, "Nurse", first.Limit)
	require.NotNil(t, first.Interview)
	assert.Len(t, first.Interview.Responses, 2)

	assert.Equal(t, "cautious", env.Participants[1].Status)
	assert.Equal(t, "Unknown", env.Participants[2].Status)

	assert.Equal(t, synthesis.KeyInsights, env.KeyInsights)
	assert.Equal(t, synthesis.Observations, env.Observations)
	assert.Equal(t, synthesis.Takeaways, env.Takeaways)
	assert.Equal(t, synthesis.Raw, env.FullSynthesis)
	assert.Equal(t, transcripts, env.AllInterviews)

	meta := env.Metadata
	assert.Equal(t, models.StrategyPrimary, meta.Workflow)
	assert.Equal(t, "12.3s", meta.ExecutionTime)
	assert.False(t, meta.Degraded)
	assert.Equal(t, cfg.Question, meta.ResearchQuestion)
	assert.Equal(t, cfg.Audience, meta.TargetDemographic)
	assert.Equal(t, 3, meta.NumInterviews)
	assert.Equal(t, 2, meta.NumQuestions)
	assert.Equal(t, "run-123", meta.RunID)
}

func TestAssemble_PersonasWithoutTranscriptsStillGetRows(t *testing.T) {
	cfg := sampleConfig()
	personas := samplePersonas()
	// Only the first persona was interviewed.
	transcripts := sampleTranscripts(personas[:1])

	env := Assemble(cfg, personas, transcripts, models.SynthesisResult{}, models.ExecutionReport{})

	require.Len(t, env.Participants, 3)
	assert.NotNil(t, env.Participants[0].Interview)
	assert.Nil(t, env.Participants[1].Interview)
	assert.Nil(t, env.Participants[2].Interview)
	assert.Equal(t, []int{1, 2, 3}, []int{env.Participants[0].ID, env.Participants[1].ID, env.Participants[2].ID})
}

func TestAssemble_DegradedMetadata(t *testing.T) {
	cfg := sampleConfig()
	report := models.ExecutionReport{
		RunID:                "run-9",
		WorkflowUsed:         models.StrategyFallback,
		ExecutionTimeSeconds: 0.8,
		Degraded:             true,
		FailureReasons:       []string{"persona generation failed"},
	}

	env := Assemble(cfg, nil, nil, models.SynthesisResult{}, report)

	assert.Empty(t, env.Participants)
	assert.Equal(t, models.StrategyFallback, env.Metadata.Workflow)
	assert.True(t, env.Metadata.Degraded)
	assert.Equal(t, []string{"persona generation failed"}, env.Metadata.FailureReasons)
	assert.Equal(t, "0.8s", env.Metadata.ExecutionTime)
}

func TestParticipantRow_BlankFieldsGetFallbacks(t *testing.T) {
	cfg := sampleConfig()
	row := participantRow(cfg, models.Persona{ID: 7, Age: 30}, 4)

	assert.Equal(t, "Participant 4", row.Header)
	assert.Equal(t, cfg.Audience, row.Type)
	assert.Equal(t, "Unknown", row.Status)
	assert.Equal(t, "Unknown", row.Limit)
}
