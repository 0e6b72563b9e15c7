package entities

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	domainerrors "leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/errors"
)

type Quality string

const (
	QualityHigh   Quality = "High"
	QualityMedium Quality = "Medium"
	QualityLow    Quality = "Low"
)

// QualityTiers lists the tiers in reporting order.
func QualityTiers() []Quality {
	return []Quality{QualityHigh, QualityMedium, QualityLow}
}

func (q Quality) IsValid() bool {
	switch q {
	case QualityHigh, QualityMedium, QualityLow:
		return true
	default:
		return false
	}
}

// ParseQuality accepts a tier name in any letter case.
func ParseQuality(raw string) (Quality, bool) {
	for _, tier := range QualityTiers() {
		if strings.EqualFold(strings.TrimSpace(raw), string(tier)) {
			return tier, true
		}
	}
	return "", false
}

const (
	MaxNameLength     = 255
	MaxCompanyLength  = 255
	MaxIndustryLength = 100
	MaxSourceLength   = 100
	MaxSummaryLength  = 1000
)

// Well-known lead sources. The set is open; any non-empty source is accepted.
const (
	SourceOrganic   = "Organic"
	SourcePPC       = "PPC"
	SourceReferral  = "Referral"
	SourceEmail     = "Email"
	SourceTradeShow = "Trade Show"
)

type Lead struct {
	LeadID    int64
	Name      string
	Company   string
	Industry  string
	Size      int
	Source    string
	Quality   Quality
	Summary   string
	CreatedAt time.Time
}

func (l Lead) Profile() LeadProfile {
	return LeadProfile{
		Name:     l.Name,
		Company:  l.Company,
		Industry: l.Industry,
		Size:     l.Size,
		Source:   l.Source,
	}
}

// Validate checks the stored form of a lead, including its derived fields.
func (l Lead) Validate() error {
	if l.LeadID <= 0 {
		return fmt.Errorf("%w: id must be positive", domainerrors.ErrInvalidLead)
	}
	if err := l.Profile().Validate(); err != nil {
		return err
	}
	if !l.Quality.IsValid() {
		return fmt.Errorf("%w: unknown quality %q", domainerrors.ErrInvalidLead, l.Quality)
	}
	if utf8.RuneCountInString(l.Summary) > MaxSummaryLength {
		return fmt.Errorf("%w: summary exceeds %d characters", domainerrors.ErrInvalidLead, MaxSummaryLength)
	}
	return nil
}

// LeadProfile is the firmographic input the classifier works from.
type LeadProfile struct {
	Name     string
	Company  string
	Industry string
	Size     int
	Source   string
}

func (p LeadProfile) Validate() error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"name", p.Name, MaxNameLength},
		{"company", p.Company, MaxCompanyLength},
		{"industry", p.Industry, MaxIndustryLength},
		{"source", p.Source, MaxSourceLength},
	}
	for _, check := range checks {
		if strings.TrimSpace(check.value) == "" {
			return fmt.Errorf("%w: %s is required", domainerrors.ErrInvalidLead, check.field)
		}
		if utf8.RuneCountInString(check.value) > check.max {
			return fmt.Errorf("%w: %s exceeds %d characters", domainerrors.ErrInvalidLead, check.field, check.max)
		}
	}
	if p.Size < 1 {
		return fmt.Errorf("%w: size must be positive", domainerrors.ErrInvalidLead)
	}
	return nil
}

// Classification is the quality decision attached to a lead at ingestion.
type Classification struct {
	Quality   Quality
	Summary   string
	Augmented bool
}

// TruncateSummary clips a summary to MaxSummaryLength characters.
func TruncateSummary(summary string) string {
	if utf8.RuneCountInString(summary) <= MaxSummaryLength {
		return summary
	}
	runes := []rune(summary)
	return string(runes[:MaxSummaryLength])
}
