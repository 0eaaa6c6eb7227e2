package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abgdnv/giftshop/pkg/config"
	"github.com/abgdnv/giftshop/pkg/resilience"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// FallbackMessage replaces the model answer whenever it cannot be produced.
const FallbackMessage = "I'm having a little trouble finding the perfect joy-sparking gifts at the moment. Let's try adjusting your parameters!"

// Result is the concierge answer. Degraded is set when Text is the fallback.
type Result struct {
	Text     string  `json:"text"`
	Degraded bool    `json:"degraded"`
	Request  Request `json:"request"`
}

// Service wraps a Generator with a circuit breaker and the fallback text.
type Service struct {
	generator Generator
	breaker   *gobreaker.CircuitBreaker[string]
	fallbacks metric.Int64Counter
	logger    *slog.Logger
}

// NewService creates the concierge. A nil generator makes every answer the fallback.
func NewService(generator Generator, cfg config.CircuitBreakerConfig, logger *slog.Logger) *Service {
	fallbacks, err := otel.Meter("recommend").Int64Counter("recommendation_fallbacks",
		metric.WithDescription("Recommendation requests answered with the fallback text"))
	if err != nil {
		panic(fmt.Sprintf("failed to create recommendation_fallbacks counter: %v", err))
	}
	logger = logger.With("component", "recommend")
	return &Service{
		generator: generator,
		breaker: resilience.NewCircuitBreaker[string]("genai", cfg, logger, func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		}),
		fallbacks: fallbacks,
		logger:    logger,
	}
}

// Recommend never fails; errors are logged and answered with FallbackMessage.
func (s *Service) Recommend(ctx context.Context, req Request) Result {
	req = req.WithDefaults()
	if s.generator == nil {
		return s.fallback(ctx, req, errors.New("generator is not configured"))
	}
	prompt := BuildPrompt(req)
	text, err := s.breaker.Execute(func() (string, error) {
		return s.generator.Generate(ctx, prompt)
	})
	if err != nil {
		return s.fallback(ctx, req, err)
	}
	return Result{Text: text, Request: req}
}

func (s *Service) fallback(ctx context.Context, req Request, err error) Result {
	s.fallbacks.Add(ctx, 1)
	s.logger.WarnContext(ctx, "Recommendation degraded to fallback", "error", err)
	return Result{Text: FallbackMessage, Degraded: true, Request: req}
}
