package v1

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Event types published by the lead qualification service.
const (
	EventTypeInteractionRecorded = "lead.interaction_recorded"
	EventTypeLeadsSeeded         = "lead.seeded"
)

// Envelope is the canonical, versioned event envelope shared with downstream consumers.
// Fields are append-only; never rename or retype an existing field.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

var ErrInvalidEnvelope = errors.New("invalid event envelope")

// Validate checks the fields every consumer relies on for routing and dedupe.
func (e Envelope) Validate() error {
	if strings.TrimSpace(e.EventID) == "" ||
		strings.TrimSpace(e.EventType) == "" ||
		strings.TrimSpace(e.SourceService) == "" ||
		e.OccurredAt.IsZero() ||
		e.SchemaVersion <= 0 {
		return ErrInvalidEnvelope
	}
	if len(e.Data) > 0 && !json.Valid(e.Data) {
		return ErrInvalidEnvelope
	}
	return nil
}
