package analytics

import (
	"sort"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
)

type QualityShare struct {
	Quality entities.Quality
	Count   int
	Percent float64
}

type QualityDistribution struct {
	Total int
	Tiers []QualityShare
}

type IndustryBreakdown struct {
	Industry  string
	Total     int
	Qualities []QualityShare
}

type SizeBand struct {
	Name     string
	Label    string
	MinSize  int
	MaxSize  int // exclusive; 0 means unbounded
	Count    int
	MeanSize int
}

type SourceEffectiveness struct {
	Source      string
	Total       int
	High        int
	HighPercent float64
}

type LeadReport struct {
	Quality    QualityDistribution
	Industries []IndustryBreakdown
	SizeBands  []SizeBand
	Sources    []SourceEffectiveness
}

func BuildLeadReport(leads []entities.Lead) LeadReport {
	return LeadReport{
		Quality:    QualityDistributionOf(leads),
		Industries: IndustryQualityBreakdown(leads),
		SizeBands:  SizeBands(leads),
		Sources:    SourceEffectivenessOf(leads),
	}
}

// QualityDistributionOf always reports every tier, in tier order.
func QualityDistributionOf(leads []entities.Lead) QualityDistribution {
	counts := make(map[entities.Quality]int)
	for _, lead := range leads {
		counts[lead.Quality]++
	}
	out := QualityDistribution{Total: len(leads)}
	for _, tier := range entities.QualityTiers() {
		out.Tiers = append(out.Tiers, QualityShare{
			Quality: tier,
			Count:   counts[tier],
			Percent: Percent(counts[tier], len(leads)),
		})
	}
	return out
}

// IndustryQualityBreakdown lists industries by name with the tiers present in each.
func IndustryQualityBreakdown(leads []entities.Lead) []IndustryBreakdown {
	byIndustry := make(map[string]map[entities.Quality]int)
	totals := make(map[string]int)
	for _, lead := range leads {
		if byIndustry[lead.Industry] == nil {
			byIndustry[lead.Industry] = make(map[entities.Quality]int)
		}
		byIndustry[lead.Industry][lead.Quality]++
		totals[lead.Industry]++
	}
	names := make([]string, 0, len(byIndustry))
	for name := range byIndustry {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]IndustryBreakdown, 0, len(names))
	for _, name := range names {
		row := IndustryBreakdown{Industry: name, Total: totals[name]}
		for _, tier := range entities.QualityTiers() {
			count := byIndustry[name][tier]
			if count == 0 {
				continue
			}
			row.Qualities = append(row.Qualities, QualityShare{
				Quality: tier,
				Count:   count,
				Percent: Percent(count, row.Total),
			})
		}
		out = append(out, row)
	}
	return out
}

func sizeBandTemplate() []SizeBand {
	return []SizeBand{
		{Name: "Small", Label: "Small (1-49)", MinSize: 1, MaxSize: 50},
		{Name: "Medium", Label: "Medium (50-199)", MinSize: 50, MaxSize: 200},
		{Name: "Large", Label: "Large (200-499)", MinSize: 200, MaxSize: 500},
		{Name: "Enterprise", Label: "Enterprise (500+)", MinSize: 500},
	}
}

// SizeBands partitions leads into the four fixed bands. All bands are always reported.
func SizeBands(leads []entities.Lead) []SizeBand {
	bands := sizeBandTemplate()
	sums := make([]float64, len(bands))
	for _, lead := range leads {
		index := bandIndex(lead.Size)
		bands[index].Count++
		sums[index] += float64(lead.Size)
	}
	for i := range bands {
		bands[i].MeanSize = meanRounded(sums[i], bands[i].Count)
	}
	return bands
}

func bandIndex(size int) int {
	switch {
	case size < 50:
		return 0
	case size < 200:
		return 1
	case size < 500:
		return 2
	default:
		return 3
	}
}

func SourceEffectivenessOf(leads []entities.Lead) []SourceEffectiveness {
	bySource := make(map[string]*SourceEffectiveness)
	for _, lead := range leads {
		row, ok := bySource[lead.Source]
		if !ok {
			row = &SourceEffectiveness{Source: lead.Source}
			bySource[lead.Source] = row
		}
		row.Total++
		if lead.Quality == entities.QualityHigh {
			row.High++
		}
	}
	out := make([]SourceEffectiveness, 0, len(bySource))
	for _, row := range bySource {
		row.HighPercent = Percent(row.High, row.Total)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}
