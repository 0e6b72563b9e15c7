package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
	domainerrors "leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/errors"
)

// MaxAugmentedSummaryWords bounds summaries returned by an Augmenter.
const MaxAugmentedSummaryWords = 100

// Augmenter proposes a quality tier and summary from an external source.
type Augmenter interface {
	Augment(ctx context.Context, profile entities.LeadProfile) (entities.Classification, error)
}

// NoopAugmenter always reports that augmentation is unavailable.
type NoopAugmenter struct{}

func (NoopAugmenter) Augment(context.Context, entities.LeadProfile) (entities.Classification, error) {
	return entities.Classification{}, domainerrors.ErrAugmentationUnavailable
}

type ClassifierConfig struct {
	AugmentationEnabled bool
	// Timeout bounds a single Augment call. Zero means no extra deadline.
	Timeout time.Duration
}

type Classifier struct {
	config    ClassifierConfig
	augmenter Augmenter
	logger    *slog.Logger
}

func NewClassifier(config ClassifierConfig, augmenter Augmenter, logger *slog.Logger) Classifier {
	if augmenter == nil {
		augmenter = NoopAugmenter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return Classifier{
		config:    config,
		augmenter: augmenter,
		logger:    logger,
	}
}

func (c Classifier) AugmentationEnabled() bool {
	return c.config.AugmentationEnabled
}

// Classify validates the profile and derives its quality and summary.
// Augmentation problems never surface as errors; the rule result is used instead.
func (c Classifier) Classify(ctx context.Context, profile entities.LeadProfile) (entities.Classification, error) {
	if err := profile.Validate(); err != nil {
		return entities.Classification{}, err
	}
	fallback := DefaultClassification(profile)
	if !c.config.AugmentationEnabled {
		return fallback, nil
	}

	augmented, err := c.augment(ctx, profile)
	if err != nil {
		logger := c.logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("lead augmentation failed, using rule-based quality",
			"event", "lead_augmentation_failed",
			"module", "sales-intelligence/lead-qualification-service",
			"layer", "domain",
			"company", profile.Company,
			"fallback_quality", string(fallback.Quality),
			"error", err.Error(),
		)
		return fallback, nil
	}
	return augmented, nil
}

func (c Classifier) augment(ctx context.Context, profile entities.LeadProfile) (entities.Classification, error) {
	augmenter := c.augmenter
	if augmenter == nil {
		augmenter = NoopAugmenter{}
	}
	callCtx := ctx
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	type outcome struct {
		result entities.Classification
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := augmenter.Augment(callCtx, profile)
		done <- outcome{result: result, err: err}
	}()

	var got outcome
	select {
	case got = <-done:
	case <-callCtx.Done():
		got = outcome{err: callCtx.Err()}
	}
	if got.err != nil {
		if errors.Is(got.err, domainerrors.ErrAugmentationFailed) {
			return entities.Classification{}, got.err
		}
		return entities.Classification{}, fmt.Errorf("%w: %v", domainerrors.ErrAugmentationFailed, got.err)
	}
	return normalizeAugmented(got.result)
}

func normalizeAugmented(result entities.Classification) (entities.Classification, error) {
	quality, ok := entities.ParseQuality(string(result.Quality))
	if !ok {
		return entities.Classification{}, fmt.Errorf("%w: unknown quality %q", domainerrors.ErrAugmentationFailed, result.Quality)
	}
	summary := strings.TrimSpace(result.Summary)
	if summary == "" {
		return entities.Classification{}, fmt.Errorf("%w: empty summary", domainerrors.ErrAugmentationFailed)
	}
	if words := len(strings.Fields(summary)); words > MaxAugmentedSummaryWords {
		return entities.Classification{}, fmt.Errorf("%w: summary has %d words", domainerrors.ErrAugmentationFailed, words)
	}
	return entities.Classification{
		Quality:   quality,
		Summary:   entities.TruncateSummary(summary),
		Augmented: true,
	}, nil
}
