package queries

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	application "leadqualifier/contexts/sales-intelligence/lead-qualification-service/application"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/analytics"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
	domainerrors "leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/errors"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/ports"
)

const MaxReportWindowDays = 366

// ReportClock resolves "now" and the reporting time zone for analytics use cases.
type ReportClock struct {
	Clock    ports.Clock
	Location *time.Location
}

func (c ReportClock) now() time.Time {
	if c.Clock == nil {
		return time.Now().UTC()
	}
	return c.Clock.Now().UTC()
}

func (c ReportClock) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func resolveWindowDays(days int) (int, error) {
	if days < 0 || days > MaxReportWindowDays {
		return 0, fmt.Errorf("%w: days must be between 0 and %d", domainerrors.ErrInvalidReportWindow, MaxReportWindowDays)
	}
	if days == 0 {
		return analytics.DefaultWindowDays, nil
	}
	return days, nil
}

type UsageReportQuery struct {
	WindowDays int
}

type UsageReport struct {
	GeneratedAt time.Time
	Report      analytics.UsageReport
}

type UsageReportUseCase struct {
	Events ports.EventRepository
	ReportClock
	Logger *slog.Logger
}

func (uc UsageReportUseCase) Execute(ctx context.Context, query UsageReportQuery) (UsageReport, error) {
	logger := application.ResolveLogger(uc.Logger)
	days, err := resolveWindowDays(query.WindowDays)
	if err != nil {
		return UsageReport{}, err
	}
	events, err := uc.Events.ListEvents(ctx)
	if err != nil {
		return UsageReport{}, err
	}
	now := uc.now()
	report := analytics.BuildUsageReport(events, analytics.UsageOptions{
		Now:        now,
		Location:   uc.location(),
		WindowDays: days,
	})
	logger.Debug("usage report built",
		"event", "usage_report_built",
		"module", "sales-intelligence/lead-qualification-service",
		"layer", "application",
		"total_events", report.Overall.TotalEvents,
	)
	return UsageReport{GeneratedAt: now, Report: report}, nil
}

type LeadReport struct {
	GeneratedAt time.Time
	Report      analytics.LeadReport
}

type LeadReportUseCase struct {
	Leads ports.LeadRepository
	ReportClock
	Logger *slog.Logger
}

func (uc LeadReportUseCase) Execute(ctx context.Context) (LeadReport, error) {
	leads, err := uc.Leads.ListLeads(ctx, ports.LeadFilter{})
	if err != nil {
		return LeadReport{}, err
	}
	return LeadReport{GeneratedAt: uc.now(), Report: analytics.BuildLeadReport(leads)}, nil
}

type TopIndustriesQuery struct {
	Days  int
	Limit int
}

type TopIndustries struct {
	GeneratedAt time.Time
	WindowDays  int
	Limit       int
	Industries  []analytics.IndustryCount
}

type TopIndustriesUseCase struct {
	Events ports.EventRepository
	ReportClock
	Logger *slog.Logger
}

const MaxTopIndustries = 100

func (uc TopIndustriesUseCase) Execute(ctx context.Context, query TopIndustriesQuery) (TopIndustries, error) {
	days, err := resolveWindowDays(query.Days)
	if err != nil {
		return TopIndustries{}, err
	}
	limit := query.Limit
	if limit < 0 || limit > MaxTopIndustries {
		return TopIndustries{}, fmt.Errorf("%w: limit must be between 0 and %d", domainerrors.ErrInvalidReportWindow, MaxTopIndustries)
	}
	if limit == 0 {
		limit = analytics.DefaultTopK
	}
	now := uc.now()
	// The range end is exclusive, so extend it past now to keep events stamped exactly at now.
	events, err := uc.Events.ListEventsInRange(ctx, now.AddDate(0, 0, -days), now.Add(time.Nanosecond))
	if err != nil {
		return TopIndustries{}, err
	}
	return TopIndustries{
		GeneratedAt: now,
		WindowDays:  days,
		Limit:       limit,
		Industries:  analytics.TopFilteredIndustries(events, now, days, limit),
	}, nil
}

type ViewPreferenceUseCase struct {
	Events ports.EventRepository
	Logger *slog.Logger
}

func (uc ViewPreferenceUseCase) Execute(ctx context.Context) (analytics.ViewPreferenceReport, error) {
	events, err := uc.Events.ListEventsByAction(ctx, entities.ActionToggleView)
	if err != nil {
		return analytics.ViewPreferenceReport{}, err
	}
	return analytics.ViewPreference(events), nil
}

type CustomQueriesUseCase struct {
	Events ports.EventRepository
	Leads  ports.LeadRepository
	ReportClock
	Logger *slog.Logger
}

func (uc CustomQueriesUseCase) Execute(ctx context.Context) (analytics.CustomQueryReport, error) {
	events, err := uc.Events.ListEvents(ctx)
	if err != nil {
		return analytics.CustomQueryReport{}, err
	}
	leads, err := uc.Leads.ListLeads(ctx, ports.LeadFilter{})
	if err != nil {
		return analytics.CustomQueryReport{}, err
	}
	return analytics.BuildCustomQueryReport(events, leads, uc.location()), nil
}
