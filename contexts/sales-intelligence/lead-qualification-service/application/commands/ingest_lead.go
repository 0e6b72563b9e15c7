package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "leadqualifier/contexts/sales-intelligence/lead-qualification-service/application"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
	domainerrors "leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/errors"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/ports"
)

type IngestLeadCommand struct {
	LeadID    int64
	Name      string
	Company   string
	Industry  string
	Size      int
	Source    string
	CreatedAt time.Time
}

type IngestLeadUseCase struct {
	Leads      ports.LeadRepository
	Classifier LeadClassifier
	Clock      ports.Clock
	Logger     *slog.Logger
}

// Execute classifies one lead and stores it. Quality and summary are never
// taken from the caller.
func (uc IngestLeadUseCase) Execute(ctx context.Context, cmd IngestLeadCommand) (entities.Lead, error) {
	logger := application.ResolveLogger(uc.Logger)
	lead, _, err := classifyLead(ctx, uc.Classifier, uc.Clock, cmd)
	if err != nil {
		return entities.Lead{}, err
	}
	if err := uc.Leads.InsertLead(ctx, lead); err != nil {
		logger.Error("lead ingestion failed",
			"event", "lead_ingestion_failed",
			"module", "sales-intelligence/lead-qualification-service",
			"layer", "application",
			"lead_id", lead.LeadID,
			"error", err.Error(),
		)
		return entities.Lead{}, err
	}
	logger.Info("lead ingested",
		"event", "lead_ingested",
		"module", "sales-intelligence/lead-qualification-service",
		"layer", "application",
		"lead_id", lead.LeadID,
		"quality", string(lead.Quality),
	)
	return lead, nil
}

func classifyLead(ctx context.Context, classifier LeadClassifier, clock ports.Clock, cmd IngestLeadCommand) (entities.Lead, bool, error) {
	if cmd.LeadID <= 0 {
		return entities.Lead{}, false, fmt.Errorf("%w: id must be positive", domainerrors.ErrInvalidLead)
	}
	profile := entities.LeadProfile{
		Name:     strings.TrimSpace(cmd.Name),
		Company:  strings.TrimSpace(cmd.Company),
		Industry: strings.TrimSpace(cmd.Industry),
		Size:     cmd.Size,
		Source:   strings.TrimSpace(cmd.Source),
	}
	classification, err := classifier.Classify(ctx, profile)
	if err != nil {
		return entities.Lead{}, false, err
	}
	createdAt := cmd.CreatedAt
	if createdAt.IsZero() {
		createdAt = now(clock)
	}
	lead := entities.Lead{
		LeadID:    cmd.LeadID,
		Name:      profile.Name,
		Company:   profile.Company,
		Industry:  profile.Industry,
		Size:      profile.Size,
		Source:    profile.Source,
		Quality:   classification.Quality,
		Summary:   entities.TruncateSummary(classification.Summary),
		CreatedAt: createdAt.UTC(),
	}
	if err := lead.Validate(); err != nil {
		return entities.Lead{}, false, err
	}
	return lead, classification.Augmented, nil
}

func now(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}
