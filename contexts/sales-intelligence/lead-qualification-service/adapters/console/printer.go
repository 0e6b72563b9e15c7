package consoleadapter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/application/queries"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/analytics"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
)

// Printer renders analytics reports as plain text sections.
type Printer struct {
	Out io.Writer
}

func (p Printer) PrintLead(lead entities.Lead) error {
	w := tabwriter.NewWriter(p.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "id:\t%d\n", lead.LeadID)
	fmt.Fprintf(w, "name:\t%s\n", lead.Name)
	fmt.Fprintf(w, "company:\t%s\n", lead.Company)
	fmt.Fprintf(w, "industry:\t%s\n", lead.Industry)
	fmt.Fprintf(w, "size:\t%d\n", lead.Size)
	fmt.Fprintf(w, "source:\t%s\n", lead.Source)
	fmt.Fprintf(w, "quality:\t%s\n", lead.Quality)
	fmt.Fprintf(w, "summary:\t%s\n", lead.Summary)
	fmt.Fprintf(w, "created_at:\t%s\n", lead.CreatedAt.UTC().Format(time.RFC3339))
	return w.Flush()
}

func (p Printer) PrintUsage(report queries.UsageReport) error {
	r := report.Report
	w := tabwriter.NewWriter(p.Out, 0, 4, 1, ' ', 0)
	fmt.Fprintln(w, "=== USAGE ANALYTICS REPORT ===")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "1. USER ACTION FREQUENCY:")
	for _, item := range r.Actions {
		fmt.Fprintf(w, "   %s:\t%d times\n", item.Action, item.Count)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "2. FILTER USAGE PATTERNS:")
	fmt.Fprintln(w, "   Most filtered industries:")
	for _, item := range r.FilterUsage.Industries {
		fmt.Fprintf(w, "     %s:\t%d times\n", item.Industry, item.Count)
	}
	if r.FilterUsage.MeanSize != nil {
		fmt.Fprintf(w, "   Average size filter: %d employees\n", *r.FilterUsage.MeanSize)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "3. ACTIVITY PATTERNS:")
	fmt.Fprintln(w, "   Activity by hour:")
	for _, item := range r.Hourly {
		fmt.Fprintf(w, "     %02d:00 -\t%d events\n", item.Hour, item.Count)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "4. RECENT ACTIVITY (Last %d days):\n", r.WindowDays)
	for _, item := range r.Daily {
		fmt.Fprintf(w, "   %s:\t%d events\n", item.Date, item.Count)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "5. OVERALL STATISTICS:")
	fmt.Fprintf(w, "   Total events logged: %d\n", r.Overall.TotalEvents)
	fmt.Fprintf(w, "   Days with activity: %d\n", r.Overall.ActiveDays)
	if r.Overall.ActiveDays > 0 {
		fmt.Fprintf(w, "   Average events per day: %.1f\n", r.Overall.MeanPerDay)
	}
	return w.Flush()
}

func (p Printer) PrintLeads(report queries.LeadReport) error {
	r := report.Report
	w := tabwriter.NewWriter(p.Out, 0, 4, 1, ' ', 0)
	fmt.Fprintln(w, "=== LEAD ANALYTICS REPORT ===")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "1. LEAD QUALITY DISTRIBUTION:")
	for _, tier := range r.Quality.Tiers {
		fmt.Fprintf(w, "   %s:\t%d leads\t(%.1f%%)\n", tier.Quality, tier.Count, tier.Percent)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "2. INDUSTRY BREAKDOWN WITH QUALITY:")
	for _, industry := range r.Industries {
		fmt.Fprintf(w, "   %s (%d total):\n", industry.Industry, industry.Total)
		for _, share := range industry.Qualities {
			fmt.Fprintf(w, "     %s:\t%d\t(%.1f%%)\n", share.Quality, share.Count, share.Percent)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "3. COMPANY SIZE ANALYSIS:")
	for _, band := range r.SizeBands {
		fmt.Fprintf(w, "   %s:\t%d leads\t(avg: %d employees)\n", band.Label, band.Count, band.MeanSize)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "4. SOURCE EFFECTIVENESS:")
	for _, source := range r.Sources {
		fmt.Fprintf(w, "   %s:\t%d leads,\t%.1f%% high quality\n", source.Source, source.Total, source.HighPercent)
	}
	return w.Flush()
}

func (p Printer) PrintTopIndustries(top queries.TopIndustries) error {
	fmt.Fprintf(p.Out, "Top %d Industries Filtered in Last %d Days\n\n", top.Limit, top.WindowDays)
	rows := make([][2]string, 0, len(top.Industries))
	for _, item := range top.Industries {
		rows = append(rows, [2]string{item.Industry, fmt.Sprintf("%d", item.Count)})
	}
	if len(rows) == 0 {
		rows = append(rows, [2]string{"No data", "0"})
	}
	return p.markdownTable([2]string{"Industry", "Uses"}, rows)
}

func (p Printer) PrintViews(report analytics.ViewPreferenceReport) error {
	fmt.Fprintln(p.Out, "Pie vs. Bar Chart Preference")
	fmt.Fprintln(p.Out)
	rows := make([][2]string, 0, len(report.Views))
	for _, view := range report.Views {
		rows = append(rows, [2]string{view.View, fmt.Sprintf("%.1f", view.Percent)})
	}
	if len(rows) == 0 {
		rows = append(rows, [2]string{"No data", "0.0"})
	}
	return p.markdownTable([2]string{"View", "Pct"}, rows)
}

func (p Printer) PrintCustomQueries(report analytics.CustomQueryReport) error {
	w := tabwriter.NewWriter(p.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "=== CUSTOM QUERY: Events per day with action breakdown ===")
	fmt.Fprintln(w, "date\taction\tcount")
	for _, row := range report.DailyActions {
		fmt.Fprintf(w, "%s\t%s\t%d\n", row.Date, row.Action, row.Count)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== CUSTOM QUERY: High quality leads by source ===")
	fmt.Fprintln(w, "source\thigh_quality_count\tavg_company_size")
	for _, row := range report.HighQualityBySource {
		fmt.Fprintf(w, "%s\t%d\t%d\n", row.Source, row.HighQualityCount, row.MeanSize)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== CUSTOM QUERY: Recent filter events with parameters ===")
	fmt.Fprintln(w, "timestamp\tdata")
	for _, event := range report.RecentFilters {
		payload, err := event.Data.MarshalJSON()
		if err != nil {
			payload = []byte("null")
		}
		fmt.Fprintf(w, "%s\t%s\n", event.Timestamp.UTC().Format(time.RFC3339), payload)
	}
	return w.Flush()
}

func (p Printer) markdownTable(header [2]string, rows [][2]string) error {
	width := len(header[0])
	for _, row := range rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "| %-*s | %s |\n", width, header[0], header[1])
	fmt.Fprintf(&b, "| %s | %s |\n", strings.Repeat("-", width), strings.Repeat("-", len(header[1])))
	for _, row := range rows {
		fmt.Fprintf(&b, "| %-*s | %s |\n", width, row[0], row[1])
	}
	_, err := io.WriteString(p.Out, b.String())
	return err
}
