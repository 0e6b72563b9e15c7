package services

import (
	"fmt"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
)

const (
	HighQualityMinSize   = 500
	MediumQualityMinSize = 100
)

// DefaultQuality applies the firmographic rule: large referral or trade show
// leads are High, mid-sized non-organic leads are Medium, everything else Low.
func DefaultQuality(size int, source string) entities.Quality {
	if size >= HighQualityMinSize && (source == entities.SourceReferral || source == entities.SourceTradeShow) {
		return entities.QualityHigh
	}
	if size >= MediumQualityMinSize && source != entities.SourceOrganic {
		return entities.QualityMedium
	}
	return entities.QualityLow
}

func DefaultSummary(profile entities.LeadProfile) string {
	return entities.TruncateSummary(fmt.Sprintf(
		"Lead from %s in %s industry with %d employees. Source: %s.",
		profile.Company,
		profile.Industry,
		profile.Size,
		profile.Source,
	))
}

func DefaultClassification(profile entities.LeadProfile) entities.Classification {
	return entities.Classification{
		Quality: DefaultQuality(profile.Size, profile.Source),
		Summary: DefaultSummary(profile),
	}
}
