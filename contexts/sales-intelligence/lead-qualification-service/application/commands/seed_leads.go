package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	application "leadqualifier/contexts/sales-intelligence/lead-qualification-service/application"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
	domainerrors "leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/errors"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/ports"
	contractsv1 "leadqualifier/contracts/gen/events/v1"
)

const DefaultSeedConcurrency = 4

type SeedLeadsCommand struct {
	Records []ports.SeedLead
	// Force seeds even when the store already holds leads.
	Force bool
}

type SeedLeadsResult struct {
	Inserted  int
	Augmented int
	Skipped   bool
}

type SeedLeadsUseCase struct {
	Leads      ports.LeadRepository
	Classifier LeadClassifier
	Clock      ports.Clock
	// Concurrency bounds parallel classification calls.
	Concurrency int
	// AugmentDelay spaces out classification starts while augmentation is enabled.
	AugmentDelay time.Duration
	// Publisher, IDGen and Topic announce a completed seed. All optional.
	Publisher ports.EventPublisher
	IDGen     ports.IDGenerator
	Topic     string
	Logger    *slog.Logger
}

// Execute classifies every record and stores the batch atomically. A store
// that already holds leads is left untouched unless Force is set.
func (uc SeedLeadsUseCase) Execute(ctx context.Context, cmd SeedLeadsCommand) (SeedLeadsResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.Force {
		existing, err := uc.Leads.CountLeads(ctx)
		if err != nil {
			return SeedLeadsResult{}, err
		}
		if existing > 0 {
			logger.Info("lead seed skipped, store already populated",
				"event", "lead_seed_skipped",
				"module", "sales-intelligence/lead-qualification-service",
				"layer", "application",
				"existing_leads", existing,
			)
			return SeedLeadsResult{Skipped: true}, nil
		}
	}
	if len(cmd.Records) == 0 {
		return SeedLeadsResult{}, nil
	}

	seen := make(map[int64]struct{}, len(cmd.Records))
	for _, record := range cmd.Records {
		if _, dup := seen[record.LeadID]; dup {
			return SeedLeadsResult{}, fmt.Errorf("%w: id %d repeated in seed", domainerrors.ErrDuplicateLead, record.LeadID)
		}
		seen[record.LeadID] = struct{}{}
	}

	leads, augmented, err := uc.classifyAll(ctx, cmd.Records)
	if err != nil {
		logger.Error("lead seed classification failed",
			"event", "lead_seed_failed",
			"module", "sales-intelligence/lead-qualification-service",
			"layer", "application",
			"error", err.Error(),
		)
		return SeedLeadsResult{}, err
	}
	if err := uc.Leads.InsertLeads(ctx, leads); err != nil {
		logger.Error("lead seed insert failed",
			"event", "lead_seed_failed",
			"module", "sales-intelligence/lead-qualification-service",
			"layer", "application",
			"error", err.Error(),
		)
		return SeedLeadsResult{}, err
	}

	uc.publishSeeded(ctx, logger, len(leads), augmented)
	logger.Info("lead seed completed",
		"event", "lead_seed_completed",
		"module", "sales-intelligence/lead-qualification-service",
		"layer", "application",
		"inserted", len(leads),
		"augmented", augmented,
	)
	return SeedLeadsResult{Inserted: len(leads), Augmented: augmented}, nil
}

func (uc SeedLeadsUseCase) classifyAll(ctx context.Context, records []ports.SeedLead) ([]entities.Lead, int, error) {
	workers := uc.Concurrency
	if workers <= 0 {
		workers = DefaultSeedConcurrency
	}
	pacer := newPacer(uc.AugmentDelay, uc.Classifier.AugmentationEnabled())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	leads := make([]entities.Lead, len(records))
	augmented := make([]bool, len(records))
	sem := make(chan struct{}, workers)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	for i, record := range records {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			fail(ctx.Err())
		}
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i int, record ports.SeedLead) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := pacer.wait(ctx); err != nil {
				fail(err)
				return
			}
			lead, wasAugmented, err := classifyLead(ctx, uc.Classifier, uc.Clock, IngestLeadCommand{
				LeadID:    record.LeadID,
				Name:      record.Name,
				Company:   record.Company,
				Industry:  record.Industry,
				Size:      record.Size,
				Source:    record.Source,
				CreatedAt: record.CreatedAt,
			})
			if err != nil {
				fail(fmt.Errorf("seed row %d (id %d): %w", i+1, record.LeadID, err))
				return
			}
			leads[i] = lead
			augmented[i] = wasAugmented
		}(i, record)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, 0, firstErr
	}
	count := 0
	for _, ok := range augmented {
		if ok {
			count++
		}
	}
	return leads, count, nil
}

func (uc SeedLeadsUseCase) publishSeeded(ctx context.Context, logger *slog.Logger, inserted int, augmented int) {
	if uc.Publisher == nil || uc.IDGen == nil {
		return
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err == nil {
		var envelope ports.EventEnvelope
		envelope, err = newLeadEnvelope(
			eventID,
			contractsv1.EventTypeLeadsSeeded,
			"event_id",
			eventID,
			now(uc.Clock),
			map[string]any{
				"inserted":  inserted,
				"augmented": augmented,
			},
		)
		if err == nil {
			err = uc.Publisher.Publish(ctx, uc.Topic, envelope)
		}
	}
	if err != nil {
		logger.Warn("lead seed publish failed",
			"event", "lead_seed_publish_failed",
			"module", "sales-intelligence/lead-qualification-service",
			"layer", "application",
			"error", err.Error(),
		)
	}
}

// pacer spaces out call starts by at least delay.
type pacer struct {
	mu    sync.Mutex
	delay time.Duration
	next  time.Time
}

func newPacer(delay time.Duration, enabled bool) *pacer {
	if !enabled || delay <= 0 {
		return &pacer{}
	}
	return &pacer{delay: delay}
}

func (p *pacer) wait(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}
	p.mu.Lock()
	current := time.Now()
	slot := p.next
	if slot.Before(current) {
		slot = current
	}
	p.next = slot.Add(p.delay)
	p.mu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
