package commands

import (
	"context"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
)

// LeadClassifier is satisfied by services.Classifier.
type LeadClassifier interface {
	Classify(ctx context.Context, profile entities.LeadProfile) (entities.Classification, error)
	AugmentationEnabled() bool
}
