package config

import (
	"fmt"
	"strings"
	"time"
)

// RetryConfig describes a bounded retry with a fixed delay between attempts.
// Retries counts the extra attempts after the first one.
type RetryConfig struct {
	Retries uint          `koanf:"retries"`
	Delay   time.Duration `koanf:"delay"`
}

// CircuitBreakerConfig mirrors the gobreaker trip policy.
type CircuitBreakerConfig struct {
	ConsecutiveFailures uint32        `koanf:"consecutivefailures"`
	ErrorRatePercent    int           `koanf:"errorratepercent"`
	MaxRequests         uint32        `koanf:"maxrequests"`
	OpenTimeout         time.Duration `koanf:"opentimeout"`
}

// String returns a string representation of the RetryConfig.
func (c *RetryConfig) String() string {
	return fmt.Sprintf("retries=%d delay=%v", c.Retries, c.Delay)
}

func (c *RetryConfig) Validate() error {
	if c.Retries > 10 {
		return fmt.Errorf("retry.retries must be at most 10, got %d", c.Retries)
	}
	if c.Retries > 0 && c.Delay <= 0 {
		return fmt.Errorf("retry.delay must be greater than 0")
	}
	return nil
}

// String returns a string representation of the CircuitBreakerConfig.
func (c *CircuitBreakerConfig) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("consecutivefailures=%d ", c.ConsecutiveFailures))
	b.WriteString(fmt.Sprintf("errorratepercent=%d ", c.ErrorRatePercent))
	b.WriteString(fmt.Sprintf("maxrequests=%d ", c.MaxRequests))
	b.WriteString(fmt.Sprintf("opentimeout=%v", c.OpenTimeout))
	return b.String()
}

func (c *CircuitBreakerConfig) Validate() error {
	if c.ConsecutiveFailures == 0 {
		return fmt.Errorf("circuit_breaker.consecutive_failures must be greater than 0")
	}
	if c.ErrorRatePercent < 0 || c.ErrorRatePercent > 100 {
		return fmt.Errorf("circuit_breaker.error_rate_percent must be between 0 and 100")
	}
	if c.OpenTimeout <= 0 {
		return fmt.Errorf("circuit_breaker.open_timeout must be greater than 0")
	}
	return nil
}
