// internal/stages/generate-personas/models.go
package generatepersonas

// rawPersona is the wire shape the provider is asked to produce.
type rawPersona struct {
	Name               string   `json:"name"`
	Age                int      `json:"age"`
	Job                string   `json:"job"`
	Traits             []string `json:"traits"`
	CommunicationStyle string   `json:"communication_style"`
	Background         string   `json:"background"`
}
