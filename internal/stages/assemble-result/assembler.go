// internal/stages/assemble-result/assembler.go
package assembleresult

import (
	"fmt"
	"strconv"
	"strings"

	"uxr-engine/internal/models"
)

// Assemble maps pipeline output into the dashboard envelope. Pure and
// deterministic; never fails.
func Assemble(
	cfg models.ResearchConfig,
	personas []models.Persona,
	transcripts []models.InterviewTranscript,
	synthesis models.SynthesisResult,
	report models.ExecutionReport,
) models.ResultEnvelope {
	participants := buildParticipants(cfg, personas, transcripts)

	return models.ResultEnvelope{
		KeyInsights:   synthesis.KeyInsights,
		Observations:  synthesis.Observations,
		Takeaways:     synthesis.Takeaways,
		Participants:  participants,
		AllInterviews: transcripts,
		FullSynthesis: synthesis.Raw,
		Metadata: models.EnvelopeMetadata{
			Workflow:          report.WorkflowUsed,
			ExecutionTime:     fmt.Sprintf("%.1fs", report.ExecutionTimeSeconds),
			Degraded:          report.Degraded,
			FailureReasons:    report.FailureReasons,
			ResearchQuestion:  cfg.Question,
			TargetDemographic: cfg.Audience,
			NumInterviews:     cfg.NumInterviews,
			NumQuestions:      cfg.NumQuestions,
			RunID:             report.RunID,
		},
	}
}

// buildParticipants prefers transcript personas so the table rows line
// up with recorded interviews. Personas without a transcript still get
// a row, because the dashboard counts rows against the interview
// target.
func buildParticipants(cfg models.ResearchConfig, personas []models.Persona, transcripts []models.InterviewTranscript) []models.Participant {
	participants := make([]models.Participant, 0, len(transcripts))
	seen := make(map[int]bool, len(transcripts))

	for i := range transcripts {
		tr := &transcripts[i]
		if tr.Persona == nil {
			continue
		}
		p := participantRow(cfg, *tr.Persona, len(participants)+1)
		p.Interview = tr
		participants = append(participants, p)
		seen[tr.Persona.ID] = true
	}

	for _, persona := range personas {
		if seen[persona.ID] {
			continue
		}
		participants = append(participants, participantRow(cfg, persona, len(participants)+1))
	}
	return participants
}

func participantRow(cfg models.ResearchConfig, persona models.Persona, id int) models.Participant {
	audience := persona.AudienceType
	if audience == "" {
		audience = cfg.Audience
	}

	status := "Unknown"
	if len(persona.Traits) > 0 {
		traits := persona.Traits
		if len(traits) > 2 {
			traits = traits[:2]
		}
		status = strings.Join(traits, ", ")
	}

	name := persona.Name
	if name == "" {
		name = fmt.Sprintf("Participant %d", id)
	}

	job := persona.Occupation
	if job == "" {
		job = "Unknown"
	}

	return models.Participant{
		ID:     id,
		Header: name,
		Type:   audience,
		Status: status,
		Target: strconv.Itoa(persona.Age),
		Limit:  job,
	}
}
