package queries

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "leadqualifier/contexts/sales-intelligence/lead-qualification-service/application"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
	domainerrors "leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/errors"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/ports"
)

type ListLeadsQuery struct {
	Industry string
	MinSize  int
}

type ListLeadsUseCase struct {
	Leads  ports.LeadRepository
	Logger *slog.Logger
}

func (uc ListLeadsUseCase) Execute(ctx context.Context, query ListLeadsQuery) ([]entities.Lead, error) {
	logger := application.ResolveLogger(uc.Logger)
	if query.MinSize < 0 {
		return nil, fmt.Errorf("%w: size must not be negative", domainerrors.ErrInvalidFilter)
	}
	filter := ports.LeadFilter{
		Industry: strings.TrimSpace(query.Industry),
		MinSize:  query.MinSize,
	}
	items, err := uc.Leads.ListLeads(ctx, filter)
	if err != nil {
		return nil, err
	}
	logger.Debug("leads listed",
		"event", "leads_listed",
		"module", "sales-intelligence/lead-qualification-service",
		"layer", "application",
		"industry", filter.Industry,
		"min_size", filter.MinSize,
		"count", len(items),
	)
	return items, nil
}
