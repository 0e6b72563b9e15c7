package ports

import (
	"context"
	"time"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
	contractsv1 "leadqualifier/contracts/gen/events/v1"
)

// LeadFilter narrows ListLeads. Zero values mean "not filtered".
type LeadFilter struct {
	Industry string
	MinSize  int
}

type LeadRepository interface {
	InsertLead(ctx context.Context, lead entities.Lead) error
	// InsertLeads stores the whole batch or nothing.
	InsertLeads(ctx context.Context, leads []entities.Lead) error
	ListLeads(ctx context.Context, filter LeadFilter) ([]entities.Lead, error)
	GetLead(ctx context.Context, leadID int64) (entities.Lead, error)
	CountLeads(ctx context.Context) (int64, error)
}

type EventRepository interface {
	AppendEvent(ctx context.Context, event entities.NewEvent) (entities.Event, error)
	ListEvents(ctx context.Context) ([]entities.Event, error)
	ListEventsByAction(ctx context.Context, action string) ([]entities.Event, error)
	// ListEventsInRange returns events with start <= timestamp < end.
	ListEventsInRange(ctx context.Context, start time.Time, end time.Time) ([]entities.Event, error)
	CountEvents(ctx context.Context) (int64, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// SeedLead is one row of an external lead seed file, before classification.
// A zero CreatedAt is replaced with the ingestion time.
type SeedLead struct {
	LeadID    int64
	Name      string
	Company   string
	Industry  string
	Size      int
	Source    string
	CreatedAt time.Time
}

type LeadSeedSource interface {
	ReadSeedLeads(ctx context.Context) ([]SeedLead, error)
}
