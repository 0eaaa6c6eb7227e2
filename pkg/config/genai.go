package config

import (
	"fmt"
	"strings"
	"time"
)

// GenAIConfig configures the Gemini model behind the gift concierge.
// An empty APIKey disables the model; every request then gets the fallback text.
type GenAIConfig struct {
	APIKey         string               `koanf:"apikey"`
	Model          string               `koanf:"model"`
	Temperature    float32              `koanf:"temperature"`
	TopK           float32              `koanf:"topk"`
	TopP           float32              `koanf:"topp"`
	Timeout        time.Duration        `koanf:"timeout"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuitbreaker"`
}

// String returns a string representation of the GenAIConfig with the key masked.
func (c *GenAIConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- GenAI ---\n")
	if c.APIKey == "" {
		b.WriteString("  apikey: <not configured>\n")
	} else {
		b.WriteString("  apikey: ****\n")
	}
	b.WriteString(fmt.Sprintf("  model: %s\n", c.Model))
	b.WriteString(fmt.Sprintf("  temperature: %.2f topk: %.0f topp: %.2f\n", c.Temperature, c.TopK, c.TopP))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	b.WriteString(fmt.Sprintf("  circuitbreaker: %s\n", c.CircuitBreaker.String()))
	return b.String()
}

func (c *GenAIConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("genai model is not configured")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("genai temperature must be within [0, 2]")
	}
	if c.TopP < 0 || c.TopP > 1 {
		return fmt.Errorf("genai topp must be within [0, 1]")
	}
	if c.TopK < 0 {
		return fmt.Errorf("genai topk must not be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("genai timeout must be greater than 0")
	}
	return c.CircuitBreaker.Validate()
}
