package synthesizeinsights

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "uxr-engine/internal/common/errors"
	"uxr-engine/internal/common/llm"
	"uxr-engine/internal/common/logger"
	"uxr-engine/internal/models"
)

func testConfig() models.ResearchConfig {
	return models.ResearchConfig{
		Question:      "How would users feel about a pink iPhone?",
		Audience:      "Gen Z",
		NumInterviews: 2,
		NumQuestions:  2,
	}
}

func testTranscripts() []models.InterviewTranscript {
	ada := &models.Persona{ID: 1, Name: "Ada Osei", Age: 21, Occupation: "Student", Traits: []string{"playful"}}
	ben := &models.Persona{ID: 2, Name: "Ben Silva", Age: 24, Occupation: "Barista", Traits: []string{"skeptical"}}
	return []models.InterviewTranscript{
		{Persona: ada, Responses: []models.ResponseEntry{
			{Question: "q1?", Answer: "Love it."},
			{Question: "why?", Answer: "Pink is fun.", IsFollowup: true},
		}},
		{Persona: ben, Responses: []models.ResponseEntry{
			{Question: "q1?", Answer: "Not for me."},
		}},
	}
}

func newService(t *testing.T, completer llm.Completer) *Service {
	t.Helper()
	return NewService(LoadConfig(), completer, logger.NewTestLogger(t))
}

func TestExecute_ParsesLabeledSections(t *testing.T) {
	fake := llm.NewScriptedCompleter()
	fake.Default = "KEY THEMES: Users want variety\nPAIN POINTS: confusion\nTAKEAWAYS: ship pastel colors"

	result, err := newService(t, fake).Execute(context.Background(), testConfig(), testTranscripts())
	require.NoError(t, err)

	assert.Equal(t, "Users want variety", result.KeyInsights)
	assert.Equal(t, "confusion", result.Observations)
	assert.Equal(t, "ship pastel colors", result.Takeaways)
	assert.NotEmpty(t, result.Raw)
}

func TestExecute_SynonymHeadings(t *testing.T) {
	fake := llm.NewScriptedCompleter()
	fake.Default = "1. MAIN THEMES: color matters a lot.\n2. DIVERSE PERSPECTIVES: younger users are keener.\n3. ACTIONABLE RECOMMENDATIONS: test a pastel lineup."

	result, err := newService(t, fake).Execute(context.Background(), testConfig(), testTranscripts())
	require.NoError(t, err)

	assert.Contains(t, result.KeyInsights, "color matters")
	assert.Contains(t, result.Observations, "younger users")
	assert.Contains(t, result.Takeaways, "pastel lineup")
}

func TestExecute_FirstWriterWins(t *testing.T) {
	fake := llm.NewScriptedCompleter()
	fake.Default = "OBSERVATIONS: the early signal.\nPAIN POINTS: a later synonym that must not overwrite.\nTAKEAWAYS: act on the early signal."

	result, err := newService(t, fake).Execute(context.Background(), testConfig(), testTranscripts())
	require.NoError(t, err)

	assert.Contains(t, result.Observations, "early signal")
	assert.NotContains(t, result.Observations, "later synonym")
	// No sentence is shared between observations and takeaways.
	assert.NotEqual(t, result.Observations, result.Takeaways)
}

func TestExecute_ChunkSplitWhenNoMarkers(t *testing.T) {
	fake := llm.NewScriptedCompleter()
	fake.Default = "People liked the color overall. Some were unsure about the price. Younger buyers were the most excited. Retail interest seemed strong. A launch could work well. Marketing should target students."

	result, err := newService(t, fake).Execute(context.Background(), testConfig(), testTranscripts())
	require.NoError(t, err)

	assert.NotEmpty(t, result.KeyInsights)
	assert.NotEmpty(t, result.Observations)
	assert.NotEmpty(t, result.Takeaways)
	assert.NotEqual(t, result.Observations, result.Takeaways)
}

func TestExecute_ProviderFailureYieldsPlaceholders(t *testing.T) {
	fake := llm.NewScriptedCompleter()
	fake.Err = stderrors.NewProviderUnavailableError(errors.New("down"))

	cfg := testConfig()
	result, err := newService(t, fake).Execute(context.Background(), cfg, testTranscripts())
	require.Error(t, err)

	expected := PlaceholderResult(cfg)
	assert.Equal(t, expected.KeyInsights, result.KeyInsights)
	assert.Equal(t, expected.Observations, result.Observations)
	assert.Equal(t, expected.Takeaways, result.Takeaways)
}

func TestExecute_EmptySectionsGetDefaults(t *testing.T) {
	fake := llm.NewScriptedCompleter()
	fake.Default = "KEY THEMES: variety wins."

	result, err := newService(t, fake).Execute(context.Background(), testConfig(), testTranscripts())
	require.NoError(t, err)

	assert.Equal(t, "variety wins.", result.KeyInsights)
	assert.NotEmpty(t, result.Observations)
	assert.NotEmpty(t, result.Takeaways)
}

func TestBuildInterviewSummary(t *testing.T) {
	cfg := testConfig()
	summary := BuildInterviewSummary(cfg, testTranscripts())

	assert.Contains(t, summary, "Research Question: "+cfg.Question)
	assert.Contains(t, summary, "Number of Interviews: 2")
	assert.Contains(t, summary, "Interview 1 - Ada Osei (21, Student):")
	assert.Contains(t, summary, "Q2: why?")
	assert.Contains(t, summary, "A1: Not for me.")
}

func TestParseSections_OverlappingHeadings(t *testing.T) {
	// "THEMES" is a substring of "KEY THEMES"; the overlap must not
	// produce an empty keyInsights slice.
	fields := parseSections("KEY THEMES: variety wins.\nRECOMMENDATIONS: ship it.", 3)
	assert.Equal(t, "variety wins.", fields[fieldKeyInsights])
	assert.Equal(t, "ship it.", fields[fieldTakeaways])
}

func TestParseSections_MultibyteRunesKeepOffsets(t *testing.T) {
	// U+0250 grows from 2 to 3 bytes under Unicode upper-casing, which
	// must not shift the heading offsets used to slice the text.
	fields := parseSections("ɐ preamble with an odd rune\nPAIN POINTS: pricing confusion\nTAKEAWAYS: simplify the pricing page", 3)
	assert.Equal(t, "pricing confusion", fields[fieldObservations])
	assert.Equal(t, "simplify the pricing page", fields[fieldTakeaways])

	// Heading flush against the end of the text, right after the
	// width-changing rune.
	fields = parseSections("ɐPAIN POINTS", 3)
	assert.Empty(t, fields[fieldObservations])
}

func TestExecute_MultibyteSynthesisText(t *testing.T) {
	fake := llm.NewScriptedCompleter()
	fake.Default = "ɐnalysis follows\nKEY THEMES: cost matters most\nTAKEAWAYS: lower the entry price"

	result, err := newService(t, fake).Execute(context.Background(), testConfig(), testTranscripts())
	require.NoError(t, err)

	assert.Equal(t, "cost matters most", result.KeyInsights)
	assert.Equal(t, "lower the entry price", result.Takeaways)
	assert.NotEmpty(t, result.Observations)
}

func TestFirstSentences(t *testing.T) {
	text := "One. Two! Three? Four."
	assert.Equal(t, "One.", firstSentences(text, 1))
	assert.Equal(t, "One. Two!", firstSentences(text, 2))
	assert.Equal(t, text, firstSentences(text, 10))
}

func TestChunkSplit_ShortText(t *testing.T) {
	fields := chunkSplit("only two", 3)
	assert.NotEmpty(t, fields[fieldKeyInsights])
	// Pieces are never duplicated across fields.
	vals := make(map[string]bool)
	for _, v := range fields {
		assert.False(t, vals[v], "chunk %q assigned twice", v)
		vals[v] = true
	}
}
