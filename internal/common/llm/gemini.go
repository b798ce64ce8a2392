package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	stderrors "uxr-engine/internal/common/errors"
)

// GeminiClient implements Completer against the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient builds a Gemini-backed completer. The model name,
// temperature and token budget come from provider configuration.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, temperature float32, maxTokens int) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPreamble)},
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (g *GeminiClient) Close() {
	g.client.Close()
}

func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyProviderError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", stderrors.NewProviderUnavailableError(errors.New("no content generated"))
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", stderrors.NewProviderUnavailableError(errors.New("non-text response part"))
	}
	return string(text), nil
}

// classifyProviderError maps transport errors onto the pipeline's
// provider error taxonomy so the retry decorator can tell transient
// faults from permanent ones.
func classifyProviderError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return stderrors.NewProviderTimeoutError(err.Error())
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return stderrors.NewProviderUnauthorizedError(err)
		case 429:
			return stderrors.NewProviderQuotaExceededError(err)
		}
	}

	return stderrors.NewProviderUnavailableError(err)
}
