// internal/models/envelope.go
package models

// Participant is one row of the dashboard participants table. Header,
// type, status, target and limit are the table's display columns mapped
// from persona fields.
type Participant struct {
	ID        int                  `json:"id"`
	Header    string               `json:"header"`
	Type      string               `json:"type"`
	Status    string               `json:"status"`
	Target    string               `json:"target"`
	Limit     string               `json:"limit"`
	Interview *InterviewTranscript `json:"interview,omitempty"`
}

// EnvelopeMetadata describes the run that produced an envelope.
type EnvelopeMetadata struct {
	Workflow          StrategyKind `json:"workflow"`
	ExecutionTime     string       `json:"execution_time"`
	Degraded          bool         `json:"degraded"`
	FailureReasons    []string     `json:"failure_reasons,omitempty"`
	ResearchQuestion  string       `json:"research_question"`
	TargetDemographic string       `json:"target_demographic"`
	NumInterviews     int          `json:"num_interviews"`
	NumQuestions      int          `json:"num_questions"`
	RunID             string       `json:"run_id,omitempty"`
}

// ResultEnvelope is the externally visible result consumed by the
// dashboard layer.
type ResultEnvelope struct {
	KeyInsights   string                `json:"keyInsights"`
	Observations  string                `json:"observations"`
	Takeaways     string                `json:"takeaways"`
	Participants  []Participant         `json:"participants"`
	AllInterviews []InterviewTranscript `json:"all_interviews"`
	FullSynthesis string                `json:"full_synthesis,omitempty"`
	Metadata      EnvelopeMetadata      `json:"metadata"`
}

// ResearchResponse is the wire shape returned to the HTTP layer.
type ResearchResponse struct {
	Success bool            `json:"success"`
	Data    *ResultEnvelope `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}
