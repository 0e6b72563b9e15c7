package analytics

import (
	"sort"
	"time"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
)

const DefaultRecentFilterLimit = 10

type DailyActionCount struct {
	Date   string
	Action string
	Count  int
}

type SourceHighQuality struct {
	Source           string
	HighQualityCount int
	MeanSize         int
}

type CustomQueryReport struct {
	DailyActions        []DailyActionCount
	HighQualityBySource []SourceHighQuality
	RecentFilters       []entities.Event
}

func BuildCustomQueryReport(events []entities.Event, leads []entities.Lead, loc *time.Location) CustomQueryReport {
	return CustomQueryReport{
		DailyActions:        DailyActionBreakdown(events, loc),
		HighQualityBySource: HighQualityBySource(leads),
		RecentFilters:       RecentFilterEvents(events, DefaultRecentFilterLimit),
	}
}

// DailyActionBreakdown counts events per (date, action), newest date first.
func DailyActionBreakdown(events []entities.Event, loc *time.Location) []DailyActionCount {
	loc = resolveLocation(loc)
	type key struct{ date, action string }
	counts := make(map[key]int)
	for _, event := range events {
		counts[key{date: event.Timestamp.In(loc).Format(dateLayout), action: event.Action}]++
	}
	out := make([]DailyActionCount, 0, len(counts))
	for k, count := range counts {
		out = append(out, DailyActionCount{Date: k.date, Action: k.action, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Action < out[j].Action
	})
	return out
}

func HighQualityBySource(leads []entities.Lead) []SourceHighQuality {
	counts := make(map[string]int)
	sums := make(map[string]float64)
	for _, lead := range leads {
		if lead.Quality != entities.QualityHigh {
			continue
		}
		counts[lead.Source]++
		sums[lead.Source] += float64(lead.Size)
	}
	out := make([]SourceHighQuality, 0, len(counts))
	for source, count := range counts {
		out = append(out, SourceHighQuality{
			Source:           source,
			HighQualityCount: count,
			MeanSize:         meanRounded(sums[source], count),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HighQualityCount != out[j].HighQualityCount {
			return out[i].HighQualityCount > out[j].HighQualityCount
		}
		return out[i].Source < out[j].Source
	})
	return out
}

// RecentFilterEvents returns the latest filter events that carry a payload.
func RecentFilterEvents(events []entities.Event, limit int) []entities.Event {
	if limit <= 0 {
		limit = DefaultRecentFilterLimit
	}
	out := make([]entities.Event, 0)
	for _, event := range events {
		if event.Action == entities.ActionFilter && !event.Data.IsNull() {
			out = append(out, event)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].EventID > out[j].EventID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
