// Package llm provides the text-completion provider clients shared by
// every generation stage of the pipeline.
package llm

import "context"

// Completer is the single capability every generation stage consumes:
// send a prompt, get raw text back.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// systemPreamble is prepended to every prompt so the provider answers
// directly instead of narrating its reasoning.
const systemPreamble = "You are a helpful assistant. Provide a direct, clear response " +
	"without showing your thinking process."
