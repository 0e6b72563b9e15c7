package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
	domainerrors "leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/errors"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/ports"

	"github.com/google/uuid"
)

// Store keeps leads in insertion order and events in append order.
type Store struct {
	mu sync.RWMutex

	leads     []entities.Lead
	leadIndex map[int64]int
	events    []entities.Event
	nextEvent int64

	now func() time.Time
}

func NewStore(seed []entities.Lead) *Store {
	store := &Store{
		leads:     make([]entities.Lead, 0, len(seed)),
		leadIndex: make(map[int64]int, len(seed)),
		events:    make([]entities.Event, 0),
		nextEvent: 1,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, lead := range seed {
		if _, exists := store.leadIndex[lead.LeadID]; exists {
			continue
		}
		store.leadIndex[lead.LeadID] = len(store.leads)
		store.leads = append(store.leads, lead)
	}
	return store
}

func (s *Store) InsertLead(_ context.Context, lead entities.Lead) error {
	if err := lead.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.leadIndex[lead.LeadID]; exists {
		return domainerrors.ErrDuplicateLead
	}
	s.appendLeadLocked(lead)
	return nil
}

func (s *Store) InsertLeads(_ context.Context, leads []entities.Lead) error {
	batch := make(map[int64]struct{}, len(leads))
	for _, lead := range leads {
		if err := lead.Validate(); err != nil {
			return err
		}
		if _, dup := batch[lead.LeadID]; dup {
			return domainerrors.ErrDuplicateLead
		}
		batch[lead.LeadID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, lead := range leads {
		if _, exists := s.leadIndex[lead.LeadID]; exists {
			return domainerrors.ErrDuplicateLead
		}
	}
	for _, lead := range leads {
		s.appendLeadLocked(lead)
	}
	return nil
}

func (s *Store) appendLeadLocked(lead entities.Lead) {
	lead.CreatedAt = lead.CreatedAt.UTC()
	s.leadIndex[lead.LeadID] = len(s.leads)
	s.leads = append(s.leads, lead)
}

func (s *Store) ListLeads(_ context.Context, filter ports.LeadFilter) ([]entities.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	industry := strings.ToLower(strings.TrimSpace(filter.Industry))
	items := make([]entities.Lead, 0, len(s.leads))
	for _, lead := range s.leads {
		if industry != "" && !strings.Contains(strings.ToLower(lead.Industry), industry) {
			continue
		}
		if filter.MinSize > 0 && lead.Size < filter.MinSize {
			continue
		}
		items = append(items, lead)
	}
	return items, nil
}

func (s *Store) GetLead(_ context.Context, leadID int64) (entities.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index, exists := s.leadIndex[leadID]
	if !exists {
		return entities.Lead{}, domainerrors.ErrLeadNotFound
	}
	return s.leads[index], nil
}

func (s *Store) CountLeads(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.leads)), nil
}

func (s *Store) AppendEvent(_ context.Context, event entities.NewEvent) (entities.Event, error) {
	if err := event.Validate(); err != nil {
		return entities.Event{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = s.now()
	}
	stored := entities.Event{
		EventID:   s.nextEvent,
		Action:    event.Action,
		Data:      event.Data,
		Timestamp: timestamp.UTC(),
	}
	s.nextEvent++
	s.events = append(s.events, stored)
	return stored, nil
}

func (s *Store) ListEvents(context.Context) ([]entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Event(nil), s.events...), nil
}

func (s *Store) ListEventsByAction(_ context.Context, action string) ([]entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Event, 0)
	for _, event := range s.events {
		if event.Action == action {
			items = append(items, event)
		}
	}
	return items, nil
}

func (s *Store) ListEventsInRange(_ context.Context, start time.Time, end time.Time) ([]entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Event, 0)
	for _, event := range s.events {
		if event.Timestamp.Before(start) || !event.Timestamp.Before(end) {
			continue
		}
		items = append(items, event)
	}
	return items, nil
}

func (s *Store) CountEvents(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.events)), nil
}

func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) NewID(context.Context) (string, error) {
	return uuid.NewString(), nil
}
