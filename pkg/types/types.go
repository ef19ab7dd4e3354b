// Package types holds the input records produced by the upstream pattern
// detection collaborator. They are treated as read-only throughout mosaic.
package types

// Pattern is a detected behavioral theme. Produced once upstream and never
// mutated by this subsystem.
type Pattern struct {
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
	Confidence       float64  `json:"confidence"`
	InteractionCount int      `json:"interaction_count,omitempty"`
}

// PersonaProfile summarizes the user's communication and content preferences.
type PersonaProfile struct {
	CommunicationStyle string   `json:"communication_style,omitempty"`
	Interests          []string `json:"interests,omitempty"`
	ActivityLevel      string   `json:"activity_level,omitempty"`
	ContentDepth       string   `json:"content_depth,omitempty"`
}
