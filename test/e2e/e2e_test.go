// test/e2e/e2e_test.go
package e2e

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "uxr-engine/internal/common/errors"
	"uxr-engine/internal/common/llm"
	"uxr-engine/internal/common/logger"
	"uxr-engine/internal/common/store"
	"uxr-engine/internal/httpapi"
	"uxr-engine/internal/models"
	"uxr-engine/internal/orchestrator"
)

const scriptedAnswer = "Honestly the color would be the deciding factor for me because my phone is the one thing I look at all day and it should feel like mine."

// newServer wires the full stack: scripted provider, redis-backed
// result store, orchestrator and HTTP routes.
func newServer(t *testing.T, completer llm.Completer) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	redisStore := store.NewRedisWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	log := logger.NewTestLogger(t)
	orch := orchestrator.New(
		orchestrator.NewPrimary(nil, completer, log),
		orchestrator.NewFallback(completer, log),
		nil, log,
	)

	router := gin.New()
	httpapi.NewHandler(orch, redisStore, log).Register(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func scriptedProvider() *llm.ScriptedCompleter {
	fake := llm.NewScriptedCompleter()
	fake.Respond("interview questions about:",
		`["What made you pick your current phone?", "How much does color matter to you?"]`)
	fake.Respond("diverse user personas",
		`[{"name":"Dana Wolfe","age":20,"job":"Student","traits":["expressive","thrifty"],"communication_style":"casual","background":"customizes everything she owns"},
		  {"name":"Eli Navarro","age":26,"job":"Photographer","traits":["visual","picky"],"communication_style":"thoughtful","background":"cares about aesthetics professionally"}]`)
	fake.Respond("Answer the following question", scriptedAnswer)
	fake.Respond("provide a concise yet comprehensive analysis",
		"KEY THEMES: Personalization drives purchase intent.\nOBSERVATIONS: Visual professions care the most.\nACTIONABLE RECOMMENDATIONS: Market color as self-expression.")
	return fake
}

func postResearch(t *testing.T, srv *httptest.Server, body string) (*http.Response, models.ResearchResponse) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/research", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var parsed models.ResearchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func TestFullRun_PrimaryPipeline(t *testing.T) {
	srv := newServer(t, scriptedProvider())

	resp, parsed := postResearch(t, srv,
		`{"question":"How would users feel about a pink iPhone?","audience":"Gen Z","numInterviews":2,"numQuestions":2}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, parsed.Success)
	require.NotNil(t, parsed.Data)

	data := parsed.Data
	assert.Equal(t, models.StrategyPrimary, data.Metadata.Workflow)
	assert.False(t, data.Metadata.Degraded)
	require.Len(t, data.Participants, 2)
	require.Len(t, data.AllInterviews, 2)
	assert.Equal(t, "Dana Wolfe", data.Participants[0].Header)
	assert.Equal(t, "Eli Navarro", data.Participants[1].Header)
	assert.Equal(t, "Personalization drives purchase intent.", data.KeyInsights)
	assert.Equal(t, "Visual professions care the most.", data.Observations)
	assert.Equal(t, "Market color as self-expression.", data.Takeaways)

	// The run is cached in redis and served back by the latest endpoint.
	latest, err := http.Get(srv.URL + "/api/research/latest")
	require.NoError(t, err)
	defer latest.Body.Close()
	require.Equal(t, http.StatusOK, latest.StatusCode)

	var cached models.ResearchResponse
	require.NoError(t, json.NewDecoder(latest.Body).Decode(&cached))
	require.True(t, cached.Success)
	assert.Equal(t, data.Metadata.RunID, cached.Data.Metadata.RunID)
}

func TestFullRun_ProviderDownStillCompletes(t *testing.T) {
	fake := llm.NewScriptedCompleter()
	fake.Err = stderrors.NewProviderUnavailableError(errors.New("provider offline"))
	srv := newServer(t, fake)

	resp, parsed := postResearch(t, srv,
		`{"question":"How would users feel about a pink iPhone?","audience":"Gen Z","numInterviews":3,"numQuestions":2}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, parsed.Success)
	require.NotNil(t, parsed.Data)

	data := parsed.Data
	assert.True(t, data.Metadata.Degraded)
	assert.Equal(t, models.StrategyFallback, data.Metadata.Workflow)
	assert.NotEmpty(t, data.Metadata.FailureReasons)
	require.Len(t, data.Participants, 3)
	require.Len(t, data.AllInterviews, 3)
	assert.NotEmpty(t, data.KeyInsights)
	assert.NotEmpty(t, data.Observations)
	assert.NotEmpty(t, data.Takeaways)

	for i, p := range data.Participants {
		assert.Equal(t, i+1, p.ID)
		assert.NotEmpty(t, p.Header)
	}
}

func TestLatestEndpoint_EmptyStore(t *testing.T) {
	srv := newServer(t, scriptedProvider())

	resp, err := http.Get(srv.URL + "/api/research/latest")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
