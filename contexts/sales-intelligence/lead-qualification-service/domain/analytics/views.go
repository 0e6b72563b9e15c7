package analytics

import (
	"sort"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
)

type ViewShare struct {
	View    string
	Count   int
	Percent float64
}

type ViewPreferenceReport struct {
	TotalToggles int
	Views        []ViewShare
}

// ViewPreference shares toggle_view events by their view value. Percentages are
// taken over every toggle, including toggles without a readable view.
func ViewPreference(events []entities.Event) ViewPreferenceReport {
	counts := make(map[string]int)
	total := 0
	for _, event := range events {
		if event.Action != entities.ActionToggleView {
			continue
		}
		total++
		value, ok := event.Data.Field("view")
		if !ok {
			continue
		}
		if view, ok := value.AsString(); ok && view != "" {
			counts[view]++
		}
	}
	report := ViewPreferenceReport{TotalToggles: total, Views: make([]ViewShare, 0, len(counts))}
	for view, count := range counts {
		report.Views = append(report.Views, ViewShare{View: view, Count: count, Percent: Percent(count, total)})
	}
	sort.Slice(report.Views, func(i, j int) bool {
		if report.Views[i].Count != report.Views[j].Count {
			return report.Views[i].Count > report.Views[j].Count
		}
		return report.Views[i].View < report.Views[j].View
	})
	return report
}
