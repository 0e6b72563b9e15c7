package queries

import (
	"context"
	"log/slog"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
	domainerrors "leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/errors"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/ports"
)

type GetLeadQuery struct {
	LeadID int64
}

type GetLeadUseCase struct {
	Leads  ports.LeadRepository
	Logger *slog.Logger
}

func (uc GetLeadUseCase) Execute(ctx context.Context, query GetLeadQuery) (entities.Lead, error) {
	if query.LeadID <= 0 {
		return entities.Lead{}, domainerrors.ErrInvalidLeadID
	}
	return uc.Leads.GetLead(ctx, query.LeadID)
}
