// internal/models/research.go
package models

// ResearchConfig is the canonical, normalized configuration for one
// simulation run. Immutable once resolved.
type ResearchConfig struct {
	Question           string `json:"question"`
	Audience           string `json:"audience"`
	NumInterviews      int    `json:"numInterviews"`
	NumQuestions       int    `json:"numQuestions"`
	ProviderCredential string `json:"providerCredential,omitempty"`
}

// QuestionSet is the ordered list of scripted interview questions,
// generated once per run and shared read-only across interviews.
type QuestionSet []string

// Persona is a synthetic interview subject.
type Persona struct {
	ID                 int      `json:"id"`
	Name               string   `json:"name"`
	AudienceType       string   `json:"audienceType"`
	Age                int      `json:"age"`
	Occupation         string   `json:"job"`
	Traits             []string `json:"traits"`
	CommunicationStyle string   `json:"communication_style,omitempty"`
	Background         string   `json:"background,omitempty"`
}

// ResponseEntry is one question/answer pair in interview order.
type ResponseEntry struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	IsFollowup bool   `json:"is_followup,omitempty"`
}

// InterviewTranscript is the ordered record of one persona's interview.
// The persona is referenced, not owned. Never mutated after the
// interview completes.
type InterviewTranscript struct {
	Persona   *Persona        `json:"persona"`
	Responses []ResponseEntry `json:"responses"`
}

// SynthesisResult holds the three labeled insight fields extracted from
// the synthesis text. All three are non-empty after fallback rules.
type SynthesisResult struct {
	KeyInsights  string `json:"keyInsights"`
	Observations string `json:"observations"`
	Takeaways    string `json:"takeaways"`
	// Raw keeps the unparsed synthesis text for the detailed view.
	Raw string `json:"full_synthesis,omitempty"`
}

// StrategyKind identifies which execution path produced a stage result.
type StrategyKind string

const (
	StrategyPrimary  StrategyKind = "primary"
	StrategyFallback StrategyKind = "fallback"
)

// PipelineState is the snapshot threaded between pipeline stages. Each
// stage receives the previous snapshot and returns a replacement rather
// than mutating in place.
type PipelineState struct {
	Config      ResearchConfig
	Questions   QuestionSet
	Personas    []Persona
	Transcripts []InterviewTranscript
	Strategy    StrategyKind
}

// WithQuestions returns a copy of the state carrying the question set.
func (s PipelineState) WithQuestions(qs QuestionSet) PipelineState {
	s.Questions = qs
	return s
}

// WithPersonas returns a copy of the state carrying the personas.
func (s PipelineState) WithPersonas(personas []Persona) PipelineState {
	s.Personas = personas
	return s
}

// WithTranscripts returns a copy of the state carrying the transcripts.
func (s PipelineState) WithTranscripts(transcripts []InterviewTranscript) PipelineState {
	s.Transcripts = transcripts
	return s
}

// Degrade returns a copy of the state switched to the fallback strategy.
func (s PipelineState) Degrade() PipelineState {
	s.Strategy = StrategyFallback
	return s
}

// ExecutionReport describes how a run was executed. Attached to the
// final result by the orchestrator.
type ExecutionReport struct {
	RunID                string       `json:"runId"`
	WorkflowUsed         StrategyKind `json:"workflowUsed"`
	ExecutionTimeSeconds float64      `json:"executionTimeSeconds"`
	Degraded             bool         `json:"degraded"`
	FailureReasons       []string     `json:"failureReasons,omitempty"`
}
