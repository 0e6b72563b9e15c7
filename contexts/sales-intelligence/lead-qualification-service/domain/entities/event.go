package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	domainerrors "leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/errors"
)

const MaxActionLength = 100

const (
	ActionFilter     = "filter"
	ActionToggleView = "toggle_view"
)

// Event is one append-only interaction record.
type Event struct {
	EventID   int64
	Action    string
	Data      Value
	Timestamp time.Time
}

// NewEvent is an event before the store assigns its id.
// A zero Timestamp is replaced with the store's current time.
type NewEvent struct {
	Action    string
	Data      Value
	Timestamp time.Time
}

func (e NewEvent) Validate() error {
	if strings.TrimSpace(e.Action) == "" || utf8.RuneCountInString(e.Action) > MaxActionLength {
		return domainerrors.ErrInvalidEvent
	}
	return nil
}
