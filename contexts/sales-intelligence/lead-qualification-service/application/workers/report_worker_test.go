package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/adapters/memory"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/application/queries"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
	domainerrors "leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/errors"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newReporter(t *testing.T, windowDays int) (AnalyticsReporter, *bytes.Buffer) {
	t.Helper()
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore([]entities.Lead{
		{LeadID: 1, Name: "Ana", Company: "Initech", Industry: "Healthcare", Size: 750, Source: "Referral", Quality: entities.QualityHigh},
		{LeadID: 2, Name: "Bo", Company: "Umbrella", Industry: "Finance", Size: 120, Source: "PPC", Quality: entities.QualityMedium},
	})
	for _, industry := range []string{"Finance", "Healthcare", "Finance"} {
		if _, err := store.AppendEvent(context.Background(), entities.NewEvent{
			Action:    entities.ActionFilter,
			Data:      entities.Object(map[string]entities.Value{"industry": entities.String(industry)}),
			Timestamp: now.Add(-time.Hour),
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	reportClock := queries.ReportClock{Clock: fixedClock{now: now}, Location: time.UTC}
	return AnalyticsReporter{
		Usage:         queries.UsageReportUseCase{Events: store, ReportClock: reportClock},
		Leads:         queries.LeadReportUseCase{Leads: store, ReportClock: reportClock},
		TopIndustries: queries.TopIndustriesUseCase{Events: store, ReportClock: reportClock},
		WindowDays:    windowDays,
		Logger:        logger,
	}, &logs
}

func TestAnalyticsReporterLogsSnapshot(t *testing.T) {
	reporter, logs := newReporter(t, 7)
	if err := reporter.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}

	var entry map[string]any
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		if decoded["event"] == "analytics_report_completed" {
			entry = decoded
		}
	}
	if entry == nil {
		t.Fatalf("expected analytics_report_completed log, got:\n%s", logs.String())
	}
	if entry["total_events"] != float64(3) || entry["total_leads"] != float64(2) || entry["layer"] != "worker" {
		t.Fatalf("unexpected snapshot %v", entry)
	}
	top, _ := entry["top_industries"].([]any)
	if len(top) != 2 || top[0] != "Finance" {
		t.Fatalf("unexpected top industries %v", entry["top_industries"])
	}
	quality, _ := entry["quality"].(map[string]any)
	if quality["High"] != float64(1) || quality["Low"] != float64(0) {
		t.Fatalf("unexpected quality group %v", entry["quality"])
	}
}

func TestAnalyticsReporterFailsOnBadWindow(t *testing.T) {
	reporter, logs := newReporter(t, -1)
	if err := reporter.RunOnce(context.Background()); !errors.Is(err, domainerrors.ErrInvalidReportWindow) {
		t.Fatalf("expected ErrInvalidReportWindow, got %v", err)
	}
	if !strings.Contains(logs.String(), `"event":"analytics_report_failed"`) || !strings.Contains(logs.String(), `"section":"usage"`) {
		t.Fatalf("expected failure log, got:\n%s", logs.String())
	}
}
