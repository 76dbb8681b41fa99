package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"phishing-paper-platform/internal/config"
	"phishing-paper-platform/internal/logger"
	"phishing-paper-platform/internal/telemetry"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"
)

// ErrCompletionUnavailable reports that the completion service could not
// produce an answer (breaker open, timeout, or API failure). Callers map it
// to a user-facing fallback; no retry happens here.
var ErrCompletionUnavailable = errors.New("completion service unavailable")

// GeminiClient wraps the Gemini completion API with a circuit breaker and a
// request rate limiter.
type GeminiClient struct {
	client      *genai.Client
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter
	metrics     *telemetry.Metrics

	model       string
	temperature float32
	maxTokens   int32
}

func NewGeminiClient(cfg *config.Config, metrics *telemetry.Metrics) (*GeminiClient, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, err
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	// Conservative limit for the free tier, with a small burst
	rateLimiter := rate.NewLimiter(rate.Limit(10.0/60.0), 2)

	return &GeminiClient{
		client:      client,
		breaker:     breaker,
		rateLimiter: rateLimiter,
		metrics:     metrics,
		model:       cfg.GenerationModel,
		temperature: float32(cfg.GenTemperature),
		maxTokens:   int32(cfg.GenMaxTokens),
	}, nil
}

// Complete sends a fully built prompt to the completion model and returns
// the generated text. All failure modes collapse into
// ErrCompletionUnavailable so the caller has a single degradation path.
func (gc *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	tracer := otel.Tracer("gemini-client")
	ctx, span := tracer.Start(ctx, "gemini.complete")
	defer span.End()

	span.SetAttributes(
		attribute.String("gemini.model", gc.model),
		attribute.Int("gemini.prompt_chars", len(prompt)),
	)

	if err := gc.rateLimiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("gemini.rate_limited", true))
		return "", fmt.Errorf("%w: %v", ErrCompletionUnavailable, err)
	}

	result, err := gc.breaker.Execute(func() (interface{}, error) {
		model := gc.client.GenerativeModel(gc.model)
		model.SetTemperature(gc.temperature)
		model.SetMaxOutputTokens(gc.maxTokens)

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			span.SetAttributes(attribute.Bool("gemini.circuit_breaker_open", true))
		} else {
			span.SetAttributes(attribute.Bool("gemini.error", true))
			span.SetAttributes(attribute.String("gemini.error_message", err.Error()))
		}
		return "", fmt.Errorf("%w: %v", ErrCompletionUnavailable, err)
	}

	resp := result.(*genai.GenerateContentResponse)
	text := extractText(resp)
	if text == "" {
		span.SetAttributes(attribute.Bool("gemini.empty_response", true))
		return "", fmt.Errorf("%w: empty response", ErrCompletionUnavailable)
	}

	tokens := extractTokenUsage(resp)
	gc.metrics.RecordTokensUsed(gc.model, tokens)
	span.SetAttributes(
		attribute.Bool("gemini.success", true),
		attribute.Int("gemini.tokens", tokens),
	)
	return text, nil
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	out := ""
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out += string(text)
			}
		}
		break
	}
	return out
}

// Extract token usage from Gemini response
func extractTokenUsage(resp *genai.GenerateContentResponse) int {
	if resp.UsageMetadata != nil {
		return int(resp.UsageMetadata.TotalTokenCount)
	}
	return 0
}

// Close the client
func (gc *GeminiClient) Close() error {
	if gc.client != nil {
		return gc.client.Close()
	}
	return nil
}
