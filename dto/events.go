package dto

import "github.com/skyline-media/realtime-relay/domain"

// TriggerEventRequest is the body of POST /api/events/trigger.
type TriggerEventRequest struct {
	Channel string      `json:"channel" validate:"required"`
	Event   string      `json:"event" validate:"required"`
	Data    interface{} `json:"data,omitempty"`
}

// TriggerEventResponse confirms a publish.
type TriggerEventResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Channel string `json:"channel"`
	Event   string `json:"event"`
}

// BatchEvent is one entry of a batch trigger request.
type BatchEvent struct {
	Channel string      `json:"channel" validate:"required"`
	Event   string      `json:"event" validate:"required"`
	Data    interface{} `json:"data,omitempty"`
}

// TriggerBatchRequest is the body of POST /api/events/trigger-batch.
type TriggerBatchRequest struct {
	Events []BatchEvent `json:"events" validate:"required,min=1,dive"`
}

// ToDomain converts the batch request into domain event messages, preserving
// order.
func (r *TriggerBatchRequest) ToDomain() []domain.EventMessage {
	events := make([]domain.EventMessage, 0, len(r.Events))
	for _, e := range r.Events {
		events = append(events, domain.EventMessage{
			Channel: e.Channel,
			Name:    e.Event,
			Data:    e.Data,
		})
	}
	return events
}

// TriggerBatchResponse confirms a batch publish.
type TriggerBatchResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// ChannelsResponse lists the advertised channel naming patterns.
type ChannelsResponse struct {
	Channels []string `json:"channels"`
	Message  string   `json:"message"`
}
