package analytics

import (
	"sort"
	"time"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
)

// industryPaths are the payload locations a filter industry may be recorded
// under, in lookup order.
var industryPaths = [][]string{
	{"industry"},
	{"filters", "industry"},
	{"selectedIndustry"},
	{"filter_industry"},
	{"industryFilter"},
}

// FilterIndustry returns the first non-empty industry string found in a filter payload.
func FilterIndustry(data entities.Value) (string, bool) {
	if data.Kind() != entities.KindObject {
		return "", false
	}
	for _, path := range industryPaths {
		value, ok := data.Lookup(path...)
		if !ok {
			continue
		}
		if industry, ok := value.AsString(); ok && industry != "" {
			return industry, true
		}
	}
	return "", false
}

// TopFilteredIndustries ranks industries from filter events in [now-days, now].
// Events are expected in ascending id order; equal counts keep first-seen order.
func TopFilteredIndustries(events []entities.Event, now time.Time, days int, k int) []IndustryCount {
	if k <= 0 {
		k = DefaultTopK
	}
	start := now.AddDate(0, 0, -resolveWindow(days))
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, event := range events {
		if event.Action != entities.ActionFilter {
			continue
		}
		if event.Timestamp.Before(start) || event.Timestamp.After(now) {
			continue
		}
		industry, ok := FilterIndustry(event.Data)
		if !ok {
			continue
		}
		if _, seen := counts[industry]; !seen {
			order = append(order, industry)
		}
		counts[industry]++
	}
	out := make([]IndustryCount, 0, len(order))
	for _, industry := range order {
		out = append(out, IndustryCount{Industry: industry, Count: counts[industry]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > k {
		out = out[:k]
	}
	return out
}
