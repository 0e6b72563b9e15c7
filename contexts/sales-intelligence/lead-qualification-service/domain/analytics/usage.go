package analytics

import (
	"sort"
	"time"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
)

type ActionCount struct {
	Action string
	Count  int
}

type IndustryCount struct {
	Industry string
	Count    int
}

type FilterUsageReport struct {
	Industries []IndustryCount
	// MeanSize is nil when no filter event carried a numeric size.
	MeanSize    *int
	SizeSamples int
}

type HourCount struct {
	Hour  int
	Count int
}

type DayCount struct {
	Date  string
	Count int
}

type OverallStats struct {
	TotalEvents int
	ActiveDays  int
	MeanPerDay  float64
}

type UsageReport struct {
	Actions     []ActionCount
	FilterUsage FilterUsageReport
	Hourly      []HourCount
	Daily       []DayCount
	WindowDays  int
	Overall     OverallStats
}

type UsageOptions struct {
	Now        time.Time
	Location   *time.Location
	WindowDays int
}

func BuildUsageReport(events []entities.Event, opts UsageOptions) UsageReport {
	windowDays := resolveWindow(opts.WindowDays)
	return UsageReport{
		Actions:     ActionFrequency(events),
		FilterUsage: FilterUsage(events),
		Hourly:      HourlyActivity(events, opts.Location),
		Daily:       DailyActivity(events, opts.Now, windowDays, opts.Location),
		WindowDays:  windowDays,
		Overall:     Overall(events, opts.Location),
	}
}

// ActionFrequency counts events per action, most frequent first.
func ActionFrequency(events []entities.Event) []ActionCount {
	counts := make(map[string]int)
	for _, event := range events {
		counts[event.Action]++
	}
	out := make([]ActionCount, 0, len(counts))
	for action, count := range counts {
		out = append(out, ActionCount{Action: action, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Action < out[j].Action
	})
	return out
}

// FilterUsage reads the industry and size fields of filter events.
func FilterUsage(events []entities.Event) FilterUsageReport {
	industries := make(map[string]int)
	var sizeSum float64
	sizeSamples := 0
	for _, event := range events {
		if event.Action != entities.ActionFilter || event.Data.Kind() != entities.KindObject {
			continue
		}
		if value, ok := event.Data.Field("industry"); ok {
			if industry, ok := value.AsString(); ok && industry != "" {
				industries[industry]++
			}
		}
		if value, ok := event.Data.Field("size"); ok {
			if size, ok := value.AsNumber(); ok {
				sizeSum += size
				sizeSamples++
			}
		}
	}

	report := FilterUsageReport{
		Industries:  make([]IndustryCount, 0, len(industries)),
		SizeSamples: sizeSamples,
	}
	for industry, count := range industries {
		report.Industries = append(report.Industries, IndustryCount{Industry: industry, Count: count})
	}
	sort.Slice(report.Industries, func(i, j int) bool {
		if report.Industries[i].Count != report.Industries[j].Count {
			return report.Industries[i].Count > report.Industries[j].Count
		}
		return report.Industries[i].Industry < report.Industries[j].Industry
	})
	if sizeSamples > 0 {
		mean := meanRounded(sizeSum, sizeSamples)
		report.MeanSize = &mean
	}
	return report
}

// HourlyActivity buckets events by hour of day in loc. Hours without events are omitted.
func HourlyActivity(events []entities.Event, loc *time.Location) []HourCount {
	loc = resolveLocation(loc)
	var buckets [24]int
	for _, event := range events {
		buckets[event.Timestamp.In(loc).Hour()]++
	}
	out := make([]HourCount, 0, 24)
	for hour, count := range buckets {
		if count == 0 {
			continue
		}
		out = append(out, HourCount{Hour: hour, Count: count})
	}
	return out
}

// DailyActivity counts events per calendar date within [now-days, now].
func DailyActivity(events []entities.Event, now time.Time, days int, loc *time.Location) []DayCount {
	loc = resolveLocation(loc)
	start := now.AddDate(0, 0, -resolveWindow(days))
	counts := make(map[string]int)
	for _, event := range events {
		if event.Timestamp.Before(start) || event.Timestamp.After(now) {
			continue
		}
		counts[event.Timestamp.In(loc).Format(dateLayout)]++
	}
	out := make([]DayCount, 0, len(counts))
	for date, count := range counts {
		out = append(out, DayCount{Date: date, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func Overall(events []entities.Event, loc *time.Location) OverallStats {
	loc = resolveLocation(loc)
	days := make(map[string]struct{})
	for _, event := range events {
		days[event.Timestamp.In(loc).Format(dateLayout)] = struct{}{}
	}
	stats := OverallStats{
		TotalEvents: len(events),
		ActiveDays:  len(days),
	}
	if stats.ActiveDays > 0 {
		stats.MeanPerDay = RoundTenth(float64(stats.TotalEvents) / float64(stats.ActiveDays))
	}
	return stats
}
