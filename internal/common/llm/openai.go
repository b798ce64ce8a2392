package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	stderrors "uxr-engine/internal/common/errors"
)

// HTTPCompleter implements Completer against any OpenAI-compatible
// chat-completions endpoint. Kept as the SDK-free alternative so a
// provider swap does not touch the pipeline.
type HTTPCompleter struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float32
	maxTokens   int
	client      *http.Client
}

func NewHTTPCompleter(baseURL, apiKey, model string, temperature float32, maxTokens int) *HTTPCompleter {
	return &HTTPCompleter{
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		// No client-level timeout, the per-call context carries it.
		client: &http.Client{},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *HTTPCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPreamble},
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", stderrors.NewProviderUnavailableError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", stderrors.NewProviderTimeoutError("chat completion")
		}
		return "", stderrors.NewProviderUnavailableError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", stderrors.NewProviderUnauthorizedError(fmt.Errorf("provider returned %d", resp.StatusCode))
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", stderrors.NewProviderQuotaExceededError(fmt.Errorf("provider returned %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return "", stderrors.NewProviderUnavailableError(fmt.Errorf("provider returned %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", stderrors.NewProviderUnavailableError(err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", stderrors.NewResponseParseFailedError("chat completion", err)
	}
	if len(parsed.Choices) == 0 {
		return "", stderrors.NewProviderUnavailableError(errors.New("no choices in provider response"))
	}

	return parsed.Choices[0].Message.Content, nil
}
