package models

// Roast milestone types.
const (
	EventTurningPoint = "TP"
	EventHeatChange   = "HEAT_CHANGE"
	EventFirstCrack   = "FIRST_CRACK"
	EventSecondCrack  = "SECOND_CRACK"
)

// ValidEventType reports whether t names a known roast milestone.
func ValidEventType(t string) bool {
	switch t {
	case EventTurningPoint, EventHeatChange, EventFirstCrack, EventSecondCrack:
		return true
	}
	return false
}

// RoastingEvent is a single recorded roast milestone. Append-only within a
// live session; never mutated after creation.
type RoastingEvent struct {
	ID               string  `json:"id"`
	Type             string  `json:"type"` // TP | HEAT_CHANGE | FIRST_CRACK | SECOND_CRACK
	TimestampSeconds int     `json:"timestamp"`
	DisplayTime      string  `json:"display_time"` // MM:SS, derived from TimestampSeconds
	Temperature      float64 `json:"temperature"`
	HeatLevel        float64 `json:"heat_level"`
	Notes            string  `json:"notes,omitempty"`
}
