package resilience

import (
	"log/slog"

	"github.com/abgdnv/giftshop/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// NewCircuitBreaker builds a breaker that trips on consecutive failures or on the error rate.
// isSuccessful decides which errors count against the breaker; nil counts every error.
func NewCircuitBreaker[T any](name string, cfg config.CircuitBreakerConfig, logger *slog.Logger, isSuccessful func(error) bool) *gobreaker.CircuitBreaker[T] {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: isSuccessful,
	}
	if logger != nil {
		st.OnStateChange = func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		}
	}
	return gobreaker.NewCircuitBreaker[T](st)
}
