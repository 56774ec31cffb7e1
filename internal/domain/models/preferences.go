package models

type ResponseStyle string

const (
	ResponseStyleConcise  ResponseStyle = "concise"
	ResponseStyleDetailed ResponseStyle = "detailed"
)

// UserPreferences is the small persisted record controlling answer verbosity.
// The zero value means "no saved preference".
type UserPreferences struct {
	ResponseStyle ResponseStyle `json:"responseStyle,omitempty" validate:"omitempty,oneof=concise detailed"`
	UpdatedAt     string        `json:"updatedAt,omitempty"`
}

// IsEmpty reports whether nothing is stored.
func (p UserPreferences) IsEmpty() bool {
	return p.ResponseStyle == "" && p.UpdatedAt == ""
}

// PreferenceUpdate is the result of interpreting a query as a preference mutation.
type PreferenceUpdate struct {
	ShouldPersist   bool            `json:"shouldPersist"`
	UserPreferences UserPreferences `json:"userPreferences"`
	Acknowledgement string          `json:"acknowledgement,omitempty"`
}
