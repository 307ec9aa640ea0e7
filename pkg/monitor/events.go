package monitor

import (
	"time"
)

// EventType represents the type of validation event.
type EventType string

const (
	EventFieldValidated EventType = "field_validated"
	EventFormValidated  EventType = "form_validated"
)

// Event is the serializable record of a field or form pass.
type Event struct {
	Type      EventType `json:"type"`
	Form      string    `json:"form,omitempty"`
	Field     string    `json:"field,omitempty"`
	PassID    string    `json:"pass_id"`
	Status    string    `json:"status"`
	Failures  []string  `json:"failures,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
