package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/skyline-media/realtime-relay/domain"
	"github.com/skyline-media/realtime-relay/errors"
	"github.com/skyline-media/realtime-relay/internal/audit"
	"github.com/skyline-media/realtime-relay/internal/metrics"
	"github.com/skyline-media/realtime-relay/realtime"
)

// channelPatterns is the advertised set of channel naming patterns. It is a
// static list, not derived from any registry.
var channelPatterns = []string{"public", "private-user", "presence-user"}

// EventService publishes application events through the provider. It is a
// pass-through: no transformation, batching, retry, or delivery
// confirmation. Callers must already be authenticated by the route guard.
type EventService struct {
	publisher realtime.EventPublisher
}

// NewEventService creates an EventService.
func NewEventService(publisher realtime.EventPublisher) *EventService {
	return &EventService{publisher: publisher}
}

// TriggerEvent publishes one event onto a channel. Provider failures
// propagate unchanged, wrapped as InfrastructureError.
func (s *EventService) TriggerEvent(ctx context.Context, userID, channel, eventName string, data interface{}) error {
	if err := s.publisher.Trigger(ctx, channel, eventName, data); err != nil {
		audit.Log("EventService", "Trigger", userID, channel, eventName, false, err)
		log.Error().Err(err).Str("channel", channel).Str("event", eventName).Msg("event trigger failed")
		return errors.NewInfrastructureError("failed to trigger event", err)
	}

	metrics.EventsTriggeredTotal.Inc()
	audit.Log("EventService", "Trigger", userID, channel, eventName, true, nil)
	log.Debug().Str("channel", channel).Str("event", eventName).Msg("event triggered")
	return nil
}

// TriggerBatch publishes an ordered batch of events. Partial-failure
// semantics are the provider's own; nothing is retried here.
func (s *EventService) TriggerBatch(ctx context.Context, userID string, events []domain.EventMessage) error {
	if err := s.publisher.TriggerBatch(ctx, events); err != nil {
		audit.Log("EventService", "TriggerBatch", userID, "", "", false, err)
		log.Error().Err(err).Int("count", len(events)).Msg("event batch trigger failed")
		return errors.NewInfrastructureError("failed to trigger event batch", err)
	}

	metrics.EventsTriggeredTotal.Add(float64(len(events)))
	audit.Log("EventService", "TriggerBatch", userID, "", "", true, nil)
	return nil
}

// ChannelPatterns returns the advertised channel naming patterns.
func (s *EventService) ChannelPatterns() []string {
	patterns := make([]string, len(channelPatterns))
	copy(patterns, channelPatterns)
	return patterns
}
