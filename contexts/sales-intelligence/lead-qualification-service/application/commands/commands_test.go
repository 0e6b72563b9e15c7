package commands

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/adapters/memory"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
	domainerrors "leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/errors"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/services"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/ports"
	contractsv1 "leadqualifier/contracts/gen/events/v1"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type sequenceIDs struct {
	next atomic.Int64
}

func (s *sequenceIDs) NewID(context.Context) (string, error) {
	return "evt-" + strconv.FormatInt(s.next.Add(1), 10), nil
}

type capturePublisher struct {
	mu        sync.Mutex
	topics    []string
	envelopes []ports.EventEnvelope
	err       error
}

func (p *capturePublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.envelopes = append(p.envelopes, event)
	return nil
}

// gaugedClassifier wraps the rule classifier and records peak concurrency.
type gaugedClassifier struct {
	inner     services.Classifier
	augmented bool
	hold      time.Duration
	inFlight  atomic.Int32
	peak      atomic.Int32
}

func (g *gaugedClassifier) Classify(ctx context.Context, profile entities.LeadProfile) (entities.Classification, error) {
	current := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)
	for {
		peak := g.peak.Load()
		if current <= peak || g.peak.CompareAndSwap(peak, current) {
			break
		}
	}
	if g.hold > 0 {
		time.Sleep(g.hold)
	}
	result, err := g.inner.Classify(ctx, profile)
	result.Augmented = err == nil && g.augmented
	return result, err
}

func (g *gaugedClassifier) AugmentationEnabled() bool { return g.augmented }

var testNow = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

func ruleClassifier() services.Classifier {
	return services.NewClassifier(services.ClassifierConfig{}, nil, nil)
}

func seedRecords() []ports.SeedLead {
	return []ports.SeedLead{
		{LeadID: 1, Name: "Ana", Company: "Initech", Industry: "Healthcare", Size: 750, Source: "Referral", CreatedAt: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)},
		{LeadID: 2, Name: "Bo", Company: "Umbrella", Industry: "Finance", Size: 120, Source: "PPC"},
		{LeadID: 3, Name: "Cy", Company: "Hooli", Industry: "Healthcare", Size: 12, Source: "Organic"},
	}
}

func TestSeedLeadsClassifiesAndStoresBatch(t *testing.T) {
	store := memory.NewStore(nil)
	publisher := &capturePublisher{}
	useCase := SeedLeadsUseCase{
		Leads:      store,
		Classifier: ruleClassifier(),
		Clock:      fixedClock{now: testNow},
		Publisher:  publisher,
		IDGen:      &sequenceIDs{},
		Topic:      "lead.events",
	}

	result, err := useCase.Execute(context.Background(), SeedLeadsCommand{Records: seedRecords()})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if result.Inserted != 3 || result.Augmented != 0 || result.Skipped {
		t.Fatalf("unexpected result %+v", result)
	}

	leads, _ := store.ListLeads(context.Background(), ports.LeadFilter{})
	wantQuality := []entities.Quality{entities.QualityHigh, entities.QualityMedium, entities.QualityLow}
	for i, lead := range leads {
		if lead.Quality != wantQuality[i] {
			t.Fatalf("lead %d: expected %s, got %s", lead.LeadID, wantQuality[i], lead.Quality)
		}
	}
	if !leads[1].CreatedAt.Equal(testNow) {
		t.Fatalf("expected missing created_at to fall back to clock, got %s", leads[1].CreatedAt)
	}
	if !leads[0].CreatedAt.Equal(time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected supplied created_at to be kept, got %s", leads[0].CreatedAt)
	}

	if len(publisher.envelopes) != 1 {
		t.Fatalf("expected one seeded envelope, got %d", len(publisher.envelopes))
	}
	envelope := publisher.envelopes[0]
	if envelope.EventType != contractsv1.EventTypeLeadsSeeded || publisher.topics[0] != "lead.events" {
		t.Fatalf("unexpected envelope %+v on %q", envelope, publisher.topics[0])
	}
	if err := envelope.Validate(); err != nil {
		t.Fatalf("seeded envelope invalid: %v", err)
	}
	var data map[string]int
	if err := json.Unmarshal(envelope.Data, &data); err != nil || data["inserted"] != 3 {
		t.Fatalf("unexpected envelope data %s (%v)", envelope.Data, err)
	}
}

func TestSeedLeadsSkipsPopulatedStoreUnlessForced(t *testing.T) {
	store := memory.NewStore([]entities.Lead{{LeadID: 99, Name: "Old", Company: "Old Co", Industry: "Retail", Size: 5, Source: "Email", Quality: entities.QualityLow}})
	useCase := SeedLeadsUseCase{Leads: store, Classifier: ruleClassifier()}

	result, err := useCase.Execute(context.Background(), SeedLeadsCommand{Records: seedRecords()})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !result.Skipped || result.Inserted != 0 {
		t.Fatalf("expected skip, got %+v", result)
	}

	result, err = useCase.Execute(context.Background(), SeedLeadsCommand{Records: seedRecords(), Force: true})
	if err != nil {
		t.Fatalf("forced seed: %v", err)
	}
	if result.Inserted != 3 {
		t.Fatalf("expected 3 inserted, got %+v", result)
	}
	if count, _ := store.CountLeads(context.Background()); count != 4 {
		t.Fatalf("expected 4 leads after forced seed, got %d", count)
	}
}

func TestSeedLeadsIsAllOrNothing(t *testing.T) {
	cases := []struct {
		name    string
		records []ports.SeedLead
		wantErr error
	}{
		{
			name:    "repeated id",
			records: append(seedRecords(), ports.SeedLead{LeadID: 2, Name: "Dup", Company: "Dup", Industry: "Retail", Size: 10, Source: "Email"}),
			wantErr: domainerrors.ErrDuplicateLead,
		},
		{
			name:    "invalid row",
			records: append(seedRecords(), ports.SeedLead{LeadID: 4, Name: "No Company", Industry: "Retail", Size: 10, Source: "Email"}),
			wantErr: domainerrors.ErrInvalidLead,
		},
		{
			name:    "non-positive id",
			records: append(seedRecords(), ports.SeedLead{LeadID: 0, Name: "Zero", Company: "Zero", Industry: "Retail", Size: 10, Source: "Email"}),
			wantErr: domainerrors.ErrInvalidLead,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.NewStore(nil)
			useCase := SeedLeadsUseCase{Leads: store, Classifier: ruleClassifier()}
			if _, err := useCase.Execute(context.Background(), SeedLeadsCommand{Records: tc.records}); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if count, _ := store.CountLeads(context.Background()); count != 0 {
				t.Fatalf("expected empty store after failed seed, got %d leads", count)
			}
		})
	}
}

func TestSeedLeadsBoundsConcurrencyAndCountsAugmented(t *testing.T) {
	records := make([]ports.SeedLead, 0, 12)
	for i := 1; i <= 12; i++ {
		records = append(records, ports.SeedLead{LeadID: int64(i), Name: "Lead", Company: "Co", Industry: "Retail", Size: 40 * i, Source: "Email"})
	}
	classifier := &gaugedClassifier{inner: ruleClassifier(), augmented: true, hold: 5 * time.Millisecond}
	useCase := SeedLeadsUseCase{Leads: memory.NewStore(nil), Classifier: classifier, Concurrency: 3}

	result, err := useCase.Execute(context.Background(), SeedLeadsCommand{Records: records})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if result.Inserted != 12 || result.Augmented != 12 {
		t.Fatalf("unexpected result %+v", result)
	}
	if peak := classifier.peak.Load(); peak > 3 {
		t.Fatalf("expected at most 3 concurrent classifications, saw %d", peak)
	}
}

func TestSeedLeadsPublishFailureIsNotFatal(t *testing.T) {
	store := memory.NewStore(nil)
	useCase := SeedLeadsUseCase{
		Leads:      store,
		Classifier: ruleClassifier(),
		Publisher:  &capturePublisher{err: errors.New("broker down")},
		IDGen:      &sequenceIDs{},
	}
	if _, err := useCase.Execute(context.Background(), SeedLeadsCommand{Records: seedRecords()}); err != nil {
		t.Fatalf("expected publish failure to be swallowed, got %v", err)
	}
	if count, _ := store.CountLeads(context.Background()); count != 3 {
		t.Fatalf("expected 3 leads, got %d", count)
	}
}

func TestPacerSpacesCallStarts(t *testing.T) {
	p := newPacer(20*time.Millisecond, true)
	started := time.Now()
	for i := 0; i < 3; i++ {
		if err := p.wait(context.Background()); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}
	if elapsed := time.Since(started); elapsed < 40*time.Millisecond {
		t.Fatalf("expected at least 40ms between three starts, got %s", elapsed)
	}

	disabled := newPacer(time.Hour, false)
	if err := disabled.wait(context.Background()); err != nil {
		t.Fatalf("disabled pacer wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	slow := newPacer(time.Hour, true)
	_ = slow.wait(context.Background())
	if err := slow.wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestParseClientTimestamp(t *testing.T) {
	want := time.Date(2026, time.March, 2, 10, 15, 0, 0, time.UTC)
	cases := []struct {
		raw string
		ok  bool
	}{
		{raw: "2026-03-02T10:15:00Z", ok: true},
		{raw: "2026-03-02T11:15:00+01:00", ok: true},
		{raw: "2026-03-02T10:15:00", ok: true},
		{raw: "2026-03-02 10:15:00", ok: true},
		{raw: "2026-03-02T10:15:00+00:00Z", ok: true},
		{raw: "", ok: false},
		{raw: "yesterday", ok: false},
	}
	for _, tc := range cases {
		got, ok := ParseClientTimestamp(tc.raw)
		if ok != tc.ok {
			t.Fatalf("ParseClientTimestamp(%q): expected ok=%v", tc.raw, tc.ok)
		}
		if ok && !got.Equal(want) {
			t.Fatalf("ParseClientTimestamp(%q): expected %s, got %s", tc.raw, want, got)
		}
	}
}

func TestRecordEventStoresAndPublishes(t *testing.T) {
	store := memory.NewStore(nil)
	publisher := &capturePublisher{}
	useCase := RecordEventUseCase{
		Events:    store,
		Clock:     fixedClock{now: testNow},
		Publisher: publisher,
		IDGen:     &sequenceIDs{},
		Topic:     "lead.events",
	}
	data := entities.Object(map[string]entities.Value{"industry": entities.String("Retail")})

	event, err := useCase.Execute(context.Background(), RecordEventCommand{Action: " filter ", Data: data, Timestamp: "2026-03-02T10:15:00Z"})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if event.EventID != 1 || event.Action != "filter" {
		t.Fatalf("unexpected event %+v", event)
	}
	if !event.Timestamp.Equal(time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC)) {
		t.Fatalf("expected client timestamp, got %s", event.Timestamp)
	}

	fallback, err := useCase.Execute(context.Background(), RecordEventCommand{Action: "toggle_view", Timestamp: "not a time"})
	if err != nil {
		t.Fatalf("record fallback: %v", err)
	}
	if !fallback.Timestamp.Equal(testNow) || fallback.EventID != 2 {
		t.Fatalf("expected server timestamp on event 2, got %+v", fallback)
	}

	if len(publisher.envelopes) != 2 {
		t.Fatalf("expected 2 envelopes, got %d", len(publisher.envelopes))
	}
	first := publisher.envelopes[0]
	if first.EventType != contractsv1.EventTypeInteractionRecorded || first.PartitionKey != "filter" {
		t.Fatalf("unexpected envelope %+v", first)
	}
	var body struct {
		ID   string         `json:"id"`
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(first.Data, &body); err != nil {
		t.Fatalf("decode envelope data: %v", err)
	}
	if body.ID != "1" || body.Data["industry"] != "Retail" {
		t.Fatalf("unexpected envelope data %s", first.Data)
	}
}

func TestRecordEventRejectsInvalidAction(t *testing.T) {
	store := memory.NewStore(nil)
	useCase := RecordEventUseCase{Events: store}
	for _, action := range []string{"", "   ", strings.Repeat("a", entities.MaxActionLength+1)} {
		if _, err := useCase.Execute(context.Background(), RecordEventCommand{Action: action}); !errors.Is(err, domainerrors.ErrInvalidEvent) {
			t.Fatalf("action %q: expected ErrInvalidEvent, got %v", action, err)
		}
	}
	if count, _ := store.CountEvents(context.Background()); count != 0 {
		t.Fatalf("expected no events stored, got %d", count)
	}
}

func TestRecordEventSurvivesPublishFailure(t *testing.T) {
	useCase := RecordEventUseCase{
		Events:    memory.NewStore(nil),
		Publisher: &capturePublisher{err: errors.New("broker down")},
		IDGen:     &sequenceIDs{},
	}
	if _, err := useCase.Execute(context.Background(), RecordEventCommand{Action: "filter"}); err != nil {
		t.Fatalf("expected append to succeed, got %v", err)
	}
}

func TestIngestLead(t *testing.T) {
	store := memory.NewStore(nil)
	useCase := IngestLeadUseCase{Leads: store, Classifier: ruleClassifier(), Clock: fixedClock{now: testNow}}

	lead, err := useCase.Execute(context.Background(), IngestLeadCommand{
		LeadID: 7, Name: " Dee ", Company: "Shopify", Industry: "Retail", Size: 600, Source: "Trade Show",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if lead.Name != "Dee" || lead.Quality != entities.QualityHigh || !lead.CreatedAt.Equal(testNow) {
		t.Fatalf("unexpected lead %+v", lead)
	}
	if lead.Summary != "Lead from Shopify in Retail industry with 600 employees. Source: Trade Show." {
		t.Fatalf("unexpected summary %q", lead.Summary)
	}

	if _, err := useCase.Execute(context.Background(), IngestLeadCommand{
		LeadID: 7, Name: "Dee", Company: "Shopify", Industry: "Retail", Size: 600, Source: "Trade Show",
	}); !errors.Is(err, domainerrors.ErrDuplicateLead) {
		t.Fatalf("expected ErrDuplicateLead, got %v", err)
	}
	if _, err := useCase.Execute(context.Background(), IngestLeadCommand{LeadID: 8, Name: "x", Company: "y", Industry: "z", Source: "Email"}); !errors.Is(err, domainerrors.ErrInvalidLead) {
		t.Fatalf("expected ErrInvalidLead for zero size, got %v", err)
	}
}
