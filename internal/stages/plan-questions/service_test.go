package planquestions

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
		NumInterviews: 3,
		NumQuestions:  3,
	}
}

func newService(t *testing.T, completer llm.Completer) *Service {
	t.Helper()
	return NewService(LoadConfig(), completer, logger.NewTestLogger(t))
}

func TestExecute_ParsesJSONArray(t *testing.T) {
	fake := llm.NewScriptedCompleter()
	fake.Default = `["How do you feel about pink?", "What colors do you prefer?", "Would you switch for color?"]`

	questions, err := newService(t, fake).Execute(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Equal(t, models.QuestionSet{
		"How do you feel about pink?",
		"What colors do you prefer?",
		"Would you switch for color?",
	}, questions)
}

func TestExecute_ParsesNumberedProse(t *testing.T) {
	fake := llm.NewScriptedCompleter()
	fake.Default = "Here are some questions:\n1. How do you feel about pink?\n2) What colors do you prefer?\n- Would you switch for color?\nThanks!"

	questions, err := newService(t, fake).Execute(context.Background(), testConfig())
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "How do you feel about pink?", questions[0])
	assert.Equal(t, "What colors do you prefer?", questions[1])
}

func TestExecute_TopsUpShortLists(t *testing.T) {
	fake := llm.NewScriptedCompleter()
	fake.Default = `["How do you feel about pink?"]`

	questions, err := newService(t, fake).Execute(context.Background(), testConfig())
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "How do you feel about pink?", questions[0])
	// Topped up from the scripted templates.
	assert.Equal(t, "What concerns or excitement does this bring up for you?", questions[1])
}

func TestExecute_TruncatesLongLists(t *testing.T) {
	fake := llm.NewScriptedCompleter()
	fake.Default = `["q1?", "q2?", "q3?", "q4?", "q5?"]`

	cfg := testConfig()
	cfg.NumQuestions = 2
	questions, err := newService(t, fake).Execute(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, models.QuestionSet{"q1?", "q2?"}, questions)
}

func TestExecute_UnparseableOutputIsParseError(t *testing.T) {
	fake := llm.NewScriptedCompleter()
	fake.Default = "I cannot help with that."

	_, err := newService(t, fake).Execute(context.Background(), testConfig())
	require.Error(t, err)
	assert.True(t, stderrors.IsParseError(err))
}

func TestExecute_ProviderErrorPropagates(t *testing.T) {
	fake := llm.NewScriptedCompleter()
	fake.Err = stderrors.NewProviderUnavailableError(errors.New("down"))

	_, err := newService(t, fake).Execute(context.Background(), testConfig())
	require.Error(t, err)
	assert.True(t, stderrors.IsProviderError(err))
}

func TestFallbackQuestions(t *testing.T) {
	cfg := testConfig()
	cfg.NumQuestions = 7

	questions := FallbackQuestions(cfg)
	require.Len(t, questions, 7)
	assert.Contains(t, questions[0], cfg.Question)
	for _, q := range questions {
		assert.NotEmpty(t, q)
	}
}
