package consoleadapter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/application/queries"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/analytics"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
)

func assertContains(t *testing.T, output string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Fatalf("expected output to contain %q:\n%s", want, output)
		}
	}
}

func TestPrintTopIndustriesMarkdown(t *testing.T) {
	var out bytes.Buffer
	err := Printer{Out: &out}.PrintTopIndustries(queries.TopIndustries{
		WindowDays: 30,
		Limit:      2,
		Industries: []analytics.IndustryCount{{Industry: "Healthcare", Count: 2}, {Industry: "Retail", Count: 1}},
	})
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	want := "Top 2 Industries Filtered in Last 30 Days\n\n" +
		"| Industry   | Uses |\n" +
		"| ---------- | ---- |\n" +
		"| Healthcare | 2 |\n" +
		"| Retail     | 1 |\n"
	if out.String() != want {
		t.Fatalf("unexpected table:\n%s", out.String())
	}
}

func TestPrintViewsWithoutData(t *testing.T) {
	var out bytes.Buffer
	if err := (Printer{Out: &out}).PrintViews(analytics.ViewPreferenceReport{}); err != nil {
		t.Fatalf("print: %v", err)
	}
	assertContains(t, out.String(), "Pie vs. Bar Chart Preference", "| No data | 0.0 |")
}

func TestPrintUsage(t *testing.T) {
	mean := 176
	report := queries.UsageReport{Report: analytics.UsageReport{
		Actions:     []analytics.ActionCount{{Action: "filter", Count: 3}},
		FilterUsage: analytics.FilterUsageReport{Industries: []analytics.IndustryCount{{Industry: "Finance", Count: 2}}, MeanSize: &mean},
		Hourly:      []analytics.HourCount{{Hour: 9, Count: 3}},
		Daily:       []analytics.DayCount{{Date: "2026-03-02", Count: 3}},
		WindowDays:  7,
		Overall:     analytics.OverallStats{TotalEvents: 3, ActiveDays: 1, MeanPerDay: 3},
	}}
	var out bytes.Buffer
	if err := (Printer{Out: &out}).PrintUsage(report); err != nil {
		t.Fatalf("print: %v", err)
	}
	assertContains(t, out.String(),
		"=== USAGE ANALYTICS REPORT ===",
		"filter:", "3 times",
		"Average size filter: 176 employees",
		"09:00 -",
		"4. RECENT ACTIVITY (Last 7 days):",
		"Total events logged: 3",
		"Average events per day: 3.0",
	)
}

func TestPrintUsageOmitsMeansWithoutData(t *testing.T) {
	var out bytes.Buffer
	if err := (Printer{Out: &out}).PrintUsage(queries.UsageReport{Report: analytics.UsageReport{WindowDays: 7}}); err != nil {
		t.Fatalf("print: %v", err)
	}
	if strings.Contains(out.String(), "Average size filter") || strings.Contains(out.String(), "Average events per day") {
		t.Fatalf("expected averages to be omitted:\n%s", out.String())
	}
}

func TestPrintLeads(t *testing.T) {
	report := queries.LeadReport{Report: analytics.LeadReport{
		Quality: analytics.QualityDistribution{Total: 3, Tiers: []analytics.QualityShare{
			{Quality: entities.QualityHigh, Count: 1, Percent: 33.3},
		}},
		Industries: []analytics.IndustryBreakdown{{Industry: "Healthcare", Total: 2, Qualities: []analytics.QualityShare{{Quality: entities.QualityLow, Count: 1, Percent: 50}}}},
		SizeBands:  []analytics.SizeBand{{Label: "Small (< 50)", Count: 1, MeanSize: 12}},
		Sources:    []analytics.SourceEffectiveness{{Source: "Referral", Total: 1, High: 1, HighPercent: 100}},
	}}
	var out bytes.Buffer
	if err := (Printer{Out: &out}).PrintLeads(report); err != nil {
		t.Fatalf("print: %v", err)
	}
	assertContains(t, out.String(),
		"=== LEAD ANALYTICS REPORT ===",
		"(33.3%)",
		"Healthcare (2 total):",
		"(avg: 12 employees)",
		"100.0% high quality",
	)
}

func TestPrintCustomQueries(t *testing.T) {
	report := analytics.CustomQueryReport{
		DailyActions:        []analytics.DailyActionCount{{Date: "2026-03-02", Action: "filter", Count: 4}},
		HighQualityBySource: []analytics.SourceHighQuality{{Source: "Referral", HighQualityCount: 2, MeanSize: 640}},
		RecentFilters: []entities.Event{{
			EventID:   9,
			Action:    entities.ActionFilter,
			Data:      entities.Object(map[string]entities.Value{"industry": entities.String("Retail")}),
			Timestamp: time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC),
		}},
	}
	var out bytes.Buffer
	if err := (Printer{Out: &out}).PrintCustomQueries(report); err != nil {
		t.Fatalf("print: %v", err)
	}
	assertContains(t, out.String(),
		"Events per day with action breakdown",
		"2026-03-02T10:15:00Z",
		`{"industry":"Retail"}`,
		"640",
	)
}

func TestPrintLead(t *testing.T) {
	var out bytes.Buffer
	lead := entities.Lead{
		LeadID: 4, Name: "Ana", Company: "Initech", Industry: "Technology", Size: 420,
		Source: "Referral", Quality: entities.QualityHigh, Summary: "Good fit.",
		CreatedAt: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	}
	if err := (Printer{Out: &out}).PrintLead(lead); err != nil {
		t.Fatalf("print: %v", err)
	}
	assertContains(t, out.String(), "Initech", "High", "2026-01-05T10:00:00Z")
}
