package workers

import (
	"context"
	"log/slog"

	application "leadqualifier/contexts/sales-intelligence/lead-qualification-service/application"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/application/queries"
)

// AnalyticsReporter logs a compact analytics snapshot on each run.
type AnalyticsReporter struct {
	Usage         queries.UsageReportUseCase
	Leads         queries.LeadReportUseCase
	TopIndustries queries.TopIndustriesUseCase
	WindowDays    int
	Logger        *slog.Logger
}

func (j AnalyticsReporter) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)

	usage, err := j.Usage.Execute(ctx, queries.UsageReportQuery{WindowDays: j.WindowDays})
	if err != nil {
		j.logFailure(logger, "usage", err)
		return err
	}
	leads, err := j.Leads.Execute(ctx)
	if err != nil {
		j.logFailure(logger, "leads", err)
		return err
	}
	top, err := j.TopIndustries.Execute(ctx, queries.TopIndustriesQuery{Days: j.WindowDays})
	if err != nil {
		j.logFailure(logger, "top_industries", err)
		return err
	}

	qualityCounts := make([]any, 0, 2*len(leads.Report.Quality.Tiers))
	for _, tier := range leads.Report.Quality.Tiers {
		qualityCounts = append(qualityCounts, string(tier.Quality), tier.Count)
	}
	topNames := make([]string, 0, len(top.Industries))
	for _, item := range top.Industries {
		topNames = append(topNames, item.Industry)
	}

	logger.Info("analytics report completed",
		"event", "analytics_report_completed",
		"module", "sales-intelligence/lead-qualification-service",
		"layer", "worker",
		"total_events", usage.Report.Overall.TotalEvents,
		"active_days", usage.Report.Overall.ActiveDays,
		"mean_events_per_day", usage.Report.Overall.MeanPerDay,
		"total_leads", leads.Report.Quality.Total,
		slog.Group("quality", qualityCounts...),
		"top_industries", topNames,
		"window_days", top.WindowDays,
	)
	return nil
}

func (j AnalyticsReporter) logFailure(logger *slog.Logger, section string, err error) {
	logger.Error("analytics report failed",
		"event", "analytics_report_failed",
		"module", "sales-intelligence/lead-qualification-service",
		"layer", "worker",
		"section", section,
		"error", err.Error(),
	)
}
