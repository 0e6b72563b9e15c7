package analytics

import (
	"testing"
	"time"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/services"
)

var reportNow = time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)

func filterEvent(id int64, at time.Time, fields map[string]entities.Value) entities.Event {
	data := entities.Null()
	if fields != nil {
		data = entities.Object(fields)
	}
	return entities.Event{EventID: id, Action: entities.ActionFilter, Data: data, Timestamp: at}
}

func industryFilter(id int64, at time.Time, industry string) entities.Event {
	return filterEvent(id, at, map[string]entities.Value{"industry": entities.String(industry)})
}

func classifiedLead(id int64, industry string, size int, source string) entities.Lead {
	return entities.Lead{
		LeadID:   id,
		Industry: industry,
		Size:     size,
		Source:   source,
		Quality:  services.DefaultQuality(size, source),
	}
}

func TestQualityDistributionEvenSplit(t *testing.T) {
	leads := []entities.Lead{
		classifiedLead(1, "Technology", 600, entities.SourceReferral),
		classifiedLead(2, "Finance", 150, entities.SourcePPC),
		classifiedLead(3, "Retail", 10, entities.SourceOrganic),
	}
	dist := QualityDistributionOf(leads)
	if dist.Total != 3 || len(dist.Tiers) != 3 {
		t.Fatalf("unexpected distribution %+v", dist)
	}
	want := []entities.Quality{entities.QualityHigh, entities.QualityMedium, entities.QualityLow}
	for i, share := range dist.Tiers {
		if share.Quality != want[i] || share.Count != 1 || share.Percent != 33.3 {
			t.Fatalf("tier %d: expected %s 1 33.3%%, got %+v", i, want[i], share)
		}
	}
}

func TestQualityDistributionEmptyReportsZeroTiers(t *testing.T) {
	dist := QualityDistributionOf(nil)
	if dist.Total != 0 || len(dist.Tiers) != 3 {
		t.Fatalf("unexpected distribution %+v", dist)
	}
	for _, share := range dist.Tiers {
		if share.Count != 0 || share.Percent != 0 {
			t.Fatalf("expected zero share, got %+v", share)
		}
	}
}

func TestTopFilteredIndustries(t *testing.T) {
	at := reportNow.Add(-time.Hour)
	events := []entities.Event{
		industryFilter(1, at, "Healthcare"),
		industryFilter(2, at, "Finance"),
		industryFilter(3, at, "Healthcare"),
		industryFilter(4, at, "Healthcare"),
	}
	top := TopFilteredIndustries(events, reportNow, 7, 1)
	if len(top) != 1 || top[0].Industry != "Healthcare" || top[0].Count != 3 {
		t.Fatalf("expected Healthcare x3, got %+v", top)
	}
}

func TestTopFilteredIndustriesTiesKeepFirstSeen(t *testing.T) {
	at := reportNow.Add(-time.Hour)
	events := []entities.Event{
		industryFilter(1, at, "Retail"),
		industryFilter(2, at, "Energy"),
		industryFilter(3, at, "Energy"),
		industryFilter(4, at, "Retail"),
		industryFilter(5, at, "Automotive"),
	}
	top := TopFilteredIndustries(events, reportNow, 7, 3)
	want := []string{"Retail", "Energy", "Automotive"}
	for i, item := range top {
		if item.Industry != want[i] {
			t.Fatalf("position %d: expected %s, got %+v", i, want[i], top)
		}
	}
}

func TestTopFilteredIndustriesWindowAndPayloadShapes(t *testing.T) {
	events := []entities.Event{
		industryFilter(1, reportNow.AddDate(0, 0, -8), "Old"),
		filterEvent(2, reportNow.Add(-time.Hour), map[string]entities.Value{
			"filters": entities.Object(map[string]entities.Value{"industry": entities.String("Nested")}),
		}),
		filterEvent(3, reportNow.Add(-time.Hour), map[string]entities.Value{"selectedIndustry": entities.String("Alias")}),
		filterEvent(4, reportNow.Add(-time.Hour), map[string]entities.Value{"industry": entities.Number(5)}),
		filterEvent(5, reportNow.Add(-time.Hour), nil),
		{EventID: 6, Action: entities.ActionToggleView, Data: entities.Object(map[string]entities.Value{"industry": entities.String("NotAFilter")}), Timestamp: reportNow},
		industryFilter(7, reportNow.Add(time.Hour), "Future"),
	}
	top := TopFilteredIndustries(events, reportNow, 7, 10)
	if len(top) != 2 || top[0].Industry != "Nested" || top[1].Industry != "Alias" {
		t.Fatalf("unexpected top industries %+v", top)
	}
}

func TestOverallStatsEmpty(t *testing.T) {
	stats := Overall(nil, time.UTC)
	if stats != (OverallStats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestUsageReport(t *testing.T) {
	day1 := time.Date(2026, 5, 9, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2026, 5, 10, 14, 5, 0, 0, time.UTC)
	events := []entities.Event{
		filterEvent(1, day1, map[string]entities.Value{"industry": entities.String("Tech"), "size": entities.Number(100)}),
		filterEvent(2, day1, map[string]entities.Value{"size": entities.Number(251)}),
		{EventID: 3, Action: entities.ActionToggleView, Data: entities.Null(), Timestamp: day2},
		{EventID: 4, Action: "export", Data: entities.Null(), Timestamp: day2},
		{EventID: 5, Action: entities.ActionToggleView, Data: entities.Null(), Timestamp: reportNow.AddDate(0, 0, -30)},
	}
	report := BuildUsageReport(events, UsageOptions{Now: reportNow, Location: time.UTC})

	if report.WindowDays != DefaultWindowDays {
		t.Fatalf("expected default window, got %d", report.WindowDays)
	}
	if report.Actions[0].Action != entities.ActionFilter || report.Actions[0].Count != 2 {
		t.Fatalf("expected ties broken by name with filter first, got %+v", report.Actions)
	}
	if report.FilterUsage.MeanSize == nil || *report.FilterUsage.MeanSize != 176 {
		t.Fatalf("expected mean size 176, got %+v", report.FilterUsage.MeanSize)
	}
	if len(report.FilterUsage.Industries) != 1 || report.FilterUsage.Industries[0].Industry != "Tech" {
		t.Fatalf("unexpected filter industries %+v", report.FilterUsage.Industries)
	}
	if len(report.Daily) != 2 || report.Daily[0].Date != "2026-05-09" || report.Daily[0].Count != 2 {
		t.Fatalf("unexpected daily activity %+v", report.Daily)
	}
	for _, hour := range report.Hourly {
		if hour.Count == 0 {
			t.Fatalf("hourly report must omit empty hours: %+v", report.Hourly)
		}
	}
	if report.Overall.TotalEvents != 5 || report.Overall.ActiveDays != 3 || report.Overall.MeanPerDay != 1.7 {
		t.Fatalf("unexpected overall stats %+v", report.Overall)
	}
}

func TestHourlyActivityUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	events := []entities.Event{{EventID: 1, Action: "x", Timestamp: time.Date(2026, 5, 10, 23, 0, 0, 0, time.UTC)}}
	hours := HourlyActivity(events, tokyo)
	if len(hours) != 1 || hours[0].Hour != 8 {
		t.Fatalf("expected hour 8 in JST, got %+v", hours)
	}
}

func TestSizeBandsAlwaysReportFourBands(t *testing.T) {
	leads := []entities.Lead{
		classifiedLead(1, "A", 10, entities.SourcePPC),
		classifiedLead(2, "A", 49, entities.SourcePPC),
		classifiedLead(3, "A", 50, entities.SourcePPC),
		classifiedLead(4, "A", 500, entities.SourcePPC),
		classifiedLead(5, "A", 1501, entities.SourcePPC),
	}
	bands := SizeBands(leads)
	if len(bands) != 4 {
		t.Fatalf("expected 4 bands, got %d", len(bands))
	}
	wantCounts := []int{2, 1, 0, 2}
	wantMeans := []int{30, 50, 0, 1001}
	for i, band := range bands {
		if band.Count != wantCounts[i] || band.MeanSize != wantMeans[i] {
			t.Fatalf("band %s: expected count %d mean %d, got %+v", band.Name, wantCounts[i], wantMeans[i], band)
		}
	}
	if bands[3].MaxSize != 0 || bands[0].Label != "Small (1-49)" {
		t.Fatalf("unexpected band bounds %+v", bands)
	}
}

func TestIndustryBreakdownAndSources(t *testing.T) {
	leads := []entities.Lead{
		classifiedLead(1, "Healthcare", 800, entities.SourceReferral),
		classifiedLead(2, "Healthcare", 20, entities.SourceReferral),
		classifiedLead(3, "Finance", 300, entities.SourceEmail),
	}
	report := BuildLeadReport(leads)

	if len(report.Industries) != 2 || report.Industries[0].Industry != "Finance" {
		t.Fatalf("expected industries sorted by name, got %+v", report.Industries)
	}
	health := report.Industries[1]
	if health.Total != 2 || len(health.Qualities) != 2 || health.Qualities[0].Percent != 50 {
		t.Fatalf("unexpected healthcare breakdown %+v", health)
	}

	if len(report.Sources) != 2 || report.Sources[1].Source != entities.SourceReferral {
		t.Fatalf("unexpected sources %+v", report.Sources)
	}
	if report.Sources[1].High != 1 || report.Sources[1].HighPercent != 50 {
		t.Fatalf("unexpected referral effectiveness %+v", report.Sources[1])
	}
}

func TestViewPreference(t *testing.T) {
	toggle := func(id int64, view string) entities.Event {
		return entities.Event{
			EventID: id,
			Action:  entities.ActionToggleView,
			Data:    entities.Object(map[string]entities.Value{"view": entities.String(view)}),
		}
	}
	events := []entities.Event{
		toggle(1, "pie"), toggle(2, "bar"), toggle(3, "pie"),
		{EventID: 4, Action: entities.ActionToggleView, Data: entities.Null()},
		{EventID: 5, Action: entities.ActionFilter},
	}
	report := ViewPreference(events)
	if report.TotalToggles != 4 {
		t.Fatalf("expected 4 toggles, got %d", report.TotalToggles)
	}
	if len(report.Views) != 2 || report.Views[0].View != "pie" || report.Views[0].Percent != 50 || report.Views[1].Percent != 25 {
		t.Fatalf("unexpected views %+v", report.Views)
	}
	if empty := ViewPreference(nil); empty.TotalToggles != 0 || len(empty.Views) != 0 {
		t.Fatalf("expected empty report, got %+v", empty)
	}
}

func TestCustomQueryReport(t *testing.T) {
	day1 := time.Date(2026, 5, 8, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 5, 9, 10, 0, 0, 0, time.UTC)
	events := []entities.Event{
		industryFilter(1, day1, "Tech"),
		{EventID: 2, Action: "export", Timestamp: day2},
		industryFilter(3, day2, "Retail"),
		industryFilter(4, day2, "Retail"),
		filterEvent(5, day2.Add(time.Minute), nil),
	}
	leads := []entities.Lead{
		classifiedLead(1, "Tech", 900, entities.SourceTradeShow),
		classifiedLead(2, "Tech", 600, entities.SourceReferral),
		classifiedLead(3, "Tech", 700, entities.SourceReferral),
		classifiedLead(4, "Tech", 50, entities.SourceReferral),
	}
	report := BuildCustomQueryReport(events, leads, time.UTC)

	if first := report.DailyActions[0]; first.Date != "2026-05-09" || first.Action != entities.ActionFilter || first.Count != 3 {
		t.Fatalf("expected newest date with highest count first, got %+v", report.DailyActions)
	}
	if last := report.DailyActions[len(report.DailyActions)-1]; last.Date != "2026-05-08" {
		t.Fatalf("expected oldest date last, got %+v", report.DailyActions)
	}

	if len(report.HighQualityBySource) != 2 {
		t.Fatalf("unexpected high quality sources %+v", report.HighQualityBySource)
	}
	if top := report.HighQualityBySource[0]; top.Source != entities.SourceReferral || top.HighQualityCount != 2 || top.MeanSize != 650 {
		t.Fatalf("unexpected referral row %+v", top)
	}

	if len(report.RecentFilters) != 3 || report.RecentFilters[0].EventID != 4 || report.RecentFilters[2].EventID != 1 {
		t.Fatalf("expected non-null filters newest first, got %+v", report.RecentFilters)
	}
}

func TestRecentFilterEventsLimit(t *testing.T) {
	var events []entities.Event
	for i := int64(1); i <= 15; i++ {
		events = append(events, industryFilter(i, reportNow.Add(time.Duration(i)*time.Minute), "X"))
	}
	recent := RecentFilterEvents(events, 0)
	if len(recent) != DefaultRecentFilterLimit || recent[0].EventID != 15 {
		t.Fatalf("expected latest %d filters, got %d starting at %d", DefaultRecentFilterLimit, len(recent), recent[0].EventID)
	}
}

func TestPercentRounding(t *testing.T) {
	cases := []struct {
		part, total int
		want        float64
	}{
		{1, 3, 33.3},
		{2, 3, 66.7},
		{1, 8, 12.5},
		{0, 0, 0},
		{5, 5, 100},
	}
	for _, tc := range cases {
		if got := Percent(tc.part, tc.total); got != tc.want {
			t.Fatalf("Percent(%d,%d): expected %v, got %v", tc.part, tc.total, tc.want, got)
		}
	}
}
