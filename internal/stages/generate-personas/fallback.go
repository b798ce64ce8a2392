// internal/stages/generate-personas/fallback.go
package generatepersonas

import (
	"fmt"

	"uxr-engine/internal/models"
)

// Deterministic persona templates used when the provider cannot be
// reached. Cycled and suffixed when more personas are needed than
// templates exist.
var (
	templateNames = []string{
		"Alex Rivera", "Jordan Kim", "Sam Patel", "Taylor Nguyen",
		"Morgan Lee", "Casey Okafor", "Riley Chen", "Jamie Alvarez",
		"Avery Johnson", "Quinn Haddad",
	}
	templateJobs = []string{
		"Graphic Designer", "Retail Associate", "Software Tester",
		"Nurse", "Barista", "Customer Support Lead", "Teacher",
		"Delivery Driver", "Marketing Coordinator", "Student",
	}
	templateTraits = [][]string{
		{"curious", "practical", "budget-conscious"},
		{"skeptical", "detail-oriented", "private"},
		{"enthusiastic", "trend-aware", "social"},
		{"cautious", "loyal", "routine-driven"},
		{"outspoken", "creative", "early adopter"},
	}
	templateStyles = []string{"casual", "direct", "enthusiastic", "reserved", "thoughtful"}
)

// TemplatePersonas generates count deterministic personas with ids
// starting at startID. Used both by the fallback strategy and to top up
// a short primary result.
func TemplatePersonas(cfg models.ResearchConfig, startID, count int) []models.Persona {
	personas := make([]models.Persona, 0, count)
	for i := 0; i < count; i++ {
		idx := startID - 1 + i
		name := templateNames[idx%len(templateNames)]
		if cycle := idx / len(templateNames); cycle > 0 {
			name = fmt.Sprintf("%s %d", name, cycle+1)
		}
		personas = append(personas, models.Persona{
			ID:                 startID + i,
			Name:               name,
			AudienceType:       cfg.Audience,
			Age:                22 + (idx*7)%38,
			Occupation:         templateJobs[idx%len(templateJobs)],
			Traits:             templateTraits[idx%len(templateTraits)],
			CommunicationStyle: templateStyles[idx%len(templateStyles)],
			Background:         fmt.Sprintf("Has firsthand experience relevant to %s", cfg.Question),
		})
	}
	return personas
}
