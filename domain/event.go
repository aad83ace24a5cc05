package domain

// EventMessage is one application event to publish onto a named channel.
// Used by the batch trigger path; the single-event path takes the fields
// directly.
type EventMessage struct {
	Channel string      `json:"channel"`
	Name    string      `json:"event"`
	Data    interface{} `json:"data,omitempty"`
}
