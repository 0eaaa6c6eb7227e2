package config

import (
	"fmt"
	"strings"
	"time"
)

// SubscriberConfig configures a durable JetStream pull consumer.
type SubscriberConfig struct {
	Stream   string        `koanf:"stream"`
	Subject  string        `koanf:"subject"`
	Consumer string        `koanf:"consumer"`
	Timeout  time.Duration `koanf:"timeout"`
	Interval time.Duration `koanf:"interval"`
	Workers  int           `koanf:"workers"`
}

// String returns a string representation of the NATS Subscriber configuration.
func (c *SubscriberConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- NATS Subscriber ---\n")
	b.WriteString(fmt.Sprintf("  stream: %s\n", c.Stream))
	b.WriteString(fmt.Sprintf("  subject: %s\n", c.Subject))
	b.WriteString(fmt.Sprintf("  consumer: %s\n", c.Consumer))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	b.WriteString(fmt.Sprintf("  interval: %s\n", c.Interval))
	b.WriteString(fmt.Sprintf("  workers: %d\n", c.Workers))
	return b.String()
}

func (c *SubscriberConfig) Validate() error {
	missing := make([]string, 0, 3)
	if c.Stream == "" {
		missing = append(missing, "stream")
	}
	if c.Subject == "" {
		missing = append(missing, "subject")
	}
	if c.Consumer == "" {
		missing = append(missing, "consumer")
	}
	if len(missing) > 0 {
		return fmt.Errorf("SubscriberConfig: %s not configured", strings.Join(missing, ", "))
	}
	if c.Timeout <= 0 || c.Interval <= 0 {
		return fmt.Errorf("SubscriberConfig: timeout and interval must be greater than zero")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("SubscriberConfig: workers must be greater than zero")
	}
	return nil
}
