package llm

import (
	"context"
	"strings"
	"sync"

	stderrors "uxr-engine/internal/common/errors"
)

// ScriptedCompleter is a deterministic Completer for tests. Responses
// are keyed by prompt substring; unmatched prompts fall through to the
// Default response or the scripted error.
type ScriptedCompleter struct {
	mu        sync.Mutex
	responses map[string]string
	Default   string
	Err       error
	// FailFirst makes the first N calls fail before succeeding.
	FailFirst int
	Prompts   []string
	calls     int
}

func NewScriptedCompleter() *ScriptedCompleter {
	return &ScriptedCompleter{responses: make(map[string]string)}
}

// Respond registers a canned response for prompts containing substr.
func (s *ScriptedCompleter) Respond(substr, text string) *ScriptedCompleter {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[substr] = text
	return s
}

// Calls reports how many completions were requested.
func (s *ScriptedCompleter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *ScriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	s.Prompts = append(s.Prompts, prompt)

	if s.FailFirst > 0 {
		s.FailFirst--
		return "", stderrors.NewProviderUnavailableError(errFake)
	}
	if s.Err != nil {
		return "", s.Err
	}
	for substr, text := range s.responses {
		if strings.Contains(prompt, substr) {
			return text, nil
		}
	}
	return s.Default, nil
}

var errFake = &fakeErr{}

type fakeErr struct{}

func (*fakeErr) Error() string { return "scripted provider failure" }
