package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
	domainerrors "leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/errors"

	"github.com/cenkalti/backoff/v5"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultMaxTokens   = 150
	DefaultTemperature = 0.3
	DefaultMaxRetries  = 2

	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeMalformed = "malformed"
)

const promptTemplate = `Analyze this sales lead and determine its quality and provide a brief summary:

Contact: %s
Company: %s
Industry: %s
Company Size: %d employees
Lead Source: %s

Based on this information:
1. Assign a quality rating: "High", "Medium", or "Low"
2. Provide a brief summary (max 100 words)

Consider:
- Larger companies (350+ employees) are typically higher quality
- Referrals and trade show leads are usually higher quality
- Technology and Healthcare industries often have higher budgets
- Organic and email sources can vary in quality

Respond in this exact JSON format:
{"quality": "High/Medium/Low", "summary": "Brief summary here"}`

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	MaxRetries  int
	HTTPClient  *http.Client
}

// chatCompleter is the slice of the OpenAI client the augmenter calls.
type chatCompleter interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OutcomeRecorder receives one observation per Augment call.
type OutcomeRecorder interface {
	ObserveAugmentation(outcome string, elapsed time.Duration)
}

type OpenAIAugmenter struct {
	completions chatCompleter
	model       string
	maxTokens   int
	temperature float64
	maxRetries  int
	recorder    OutcomeRecorder
	logger      *slog.Logger
}

func NewOpenAIAugmenter(cfg Config, recorder OutcomeRecorder, logger *slog.Logger) (*OpenAIAugmenter, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: api key is required", domainerrors.ErrAugmentationUnavailable)
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	client := openai.NewClient(opts...)
	return newAugmenter(&client.Chat.Completions, cfg, recorder, logger), nil
}

func newAugmenter(completions chatCompleter, cfg Config, recorder OutcomeRecorder, logger *slog.Logger) *OpenAIAugmenter {
	if logger == nil {
		logger = slog.Default()
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &OpenAIAugmenter{
		completions: completions,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		maxRetries:  maxRetries,
		recorder:    recorder,
		logger:      logger,
	}
}

func (a *OpenAIAugmenter) Augment(ctx context.Context, profile entities.LeadProfile) (entities.Classification, error) {
	ctx, span := otel.Tracer("leadqualifier/llm").Start(ctx, "llm.augment_lead")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", a.model),
		attribute.String("lead.industry", profile.Industry),
		attribute.Int("lead.size", profile.Size),
	)

	started := time.Now()
	result, err := a.complete(ctx, profile)
	outcome := OutcomeSuccess
	switch {
	case errors.Is(err, domainerrors.ErrMalformedPayload):
		outcome = OutcomeMalformed
	case err != nil:
		outcome = OutcomeError
	}
	if a.recorder != nil {
		a.recorder.ObserveAugmentation(outcome, time.Since(started))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return entities.Classification{}, fmt.Errorf("%w: %w", domainerrors.ErrAugmentationFailed, err)
	}
	a.logger.Debug("lead augmented",
		"event", "lead_augmented",
		"module", "sales-intelligence/lead-qualification-service",
		"layer", "adapter",
		"company", profile.Company,
		"quality", string(result.Quality),
	)
	return result, nil
}

func (a *OpenAIAugmenter) complete(ctx context.Context, profile entities.LeadProfile) (entities.Classification, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buildPrompt(profile)),
		},
		MaxTokens:   openai.Int(int64(a.maxTokens)),
		Temperature: openai.Float(a.temperature),
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxInterval = 2 * time.Second

	content, err := backoff.Retry(ctx, func() (string, error) {
		completion, err := a.completions.New(ctx, params)
		if err != nil {
			if !isRetryable(err) {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		if completion == nil || len(completion.Choices) == 0 {
			return "", backoff.Permanent(fmt.Errorf("%w: completion has no choices", domainerrors.ErrMalformedPayload))
		}
		return completion.Choices[0].Message.Content, nil
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(uint(a.maxRetries+1)))
	if err != nil {
		return entities.Classification{}, err
	}
	return parseCompletion(content)
}

func buildPrompt(profile entities.LeadProfile) string {
	return fmt.Sprintf(promptTemplate, profile.Name, profile.Company, profile.Industry, profile.Size, profile.Source)
}

type completionBody struct {
	Quality string `json:"quality"`
	Summary string `json:"summary"`
}

// parseCompletion reads the JSON object the prompt asks for. Markdown code
// fences around the object are tolerated.
func parseCompletion(content string) (entities.Classification, error) {
	body := strings.TrimSpace(content)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	body = strings.TrimSpace(body)
	if start, end := strings.Index(body, "{"), strings.LastIndex(body, "}"); start >= 0 && end > start {
		body = body[start : end+1]
	}

	var parsed completionBody
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return entities.Classification{}, fmt.Errorf("%w: %v", domainerrors.ErrMalformedPayload, err)
	}
	return entities.Classification{
		Quality: entities.Quality(strings.TrimSpace(parsed.Quality)),
		Summary: strings.TrimSpace(parsed.Summary),
	}, nil
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}
