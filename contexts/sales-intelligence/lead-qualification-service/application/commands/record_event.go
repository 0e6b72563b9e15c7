package commands

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	application "leadqualifier/contexts/sales-intelligence/lead-qualification-service/application"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/ports"
	contractsv1 "leadqualifier/contracts/gen/events/v1"
)

type RecordEventCommand struct {
	Action string
	Data   entities.Value
	// Timestamp is the client supplied time. Empty or unparsable values are
	// replaced with the server clock.
	Timestamp string
}

type RecordEventUseCase struct {
	Events ports.EventRepository
	Clock  ports.Clock
	// Publisher is optional. Publish failures never fail the append.
	Publisher ports.EventPublisher
	IDGen     ports.IDGenerator
	Topic     string
	Logger    *slog.Logger
}

var clientTimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z07:00Z",
}

// ParseClientTimestamp accepts RFC3339 and naive ISO-8601 forms. Naive values are read as UTC.
func ParseClientTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range clientTimestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

func (uc RecordEventUseCase) Execute(ctx context.Context, cmd RecordEventCommand) (entities.Event, error) {
	logger := application.ResolveLogger(uc.Logger)
	newEvent := entities.NewEvent{
		Action: strings.TrimSpace(cmd.Action),
		Data:   cmd.Data,
	}
	if err := newEvent.Validate(); err != nil {
		return entities.Event{}, err
	}
	if parsed, ok := ParseClientTimestamp(cmd.Timestamp); ok {
		newEvent.Timestamp = parsed
	} else {
		newEvent.Timestamp = now(uc.Clock)
	}

	event, err := uc.Events.AppendEvent(ctx, newEvent)
	if err != nil {
		logger.Error("event append failed",
			"event", "interaction_event_append_failed",
			"module", "sales-intelligence/lead-qualification-service",
			"layer", "application",
			"action", newEvent.Action,
			"error", err.Error(),
		)
		return entities.Event{}, err
	}
	logger.Info("interaction event recorded",
		"event", "interaction_event_recorded",
		"module", "sales-intelligence/lead-qualification-service",
		"layer", "application",
		"event_id", event.EventID,
		"action", event.Action,
	)
	uc.publish(ctx, logger, event)
	return event, nil
}

func (uc RecordEventUseCase) publish(ctx context.Context, logger *slog.Logger, event entities.Event) {
	if uc.Publisher == nil || uc.IDGen == nil {
		return
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err == nil {
		var envelope ports.EventEnvelope
		envelope, err = newLeadEnvelope(
			eventID,
			contractsv1.EventTypeInteractionRecorded,
			"action",
			event.Action,
			event.Timestamp,
			map[string]any{
				"id":        strconv.FormatInt(event.EventID, 10),
				"action":    event.Action,
				"data":      event.Data,
				"timestamp": event.Timestamp.UTC().Format(time.RFC3339Nano),
			},
		)
		if err == nil {
			err = uc.Publisher.Publish(ctx, uc.Topic, envelope)
		}
	}
	if err != nil {
		logger.Warn("interaction event publish failed",
			"event", "interaction_event_publish_failed",
			"module", "sales-intelligence/lead-qualification-service",
			"layer", "application",
			"event_id", event.EventID,
			"error", err.Error(),
		)
	}
}
