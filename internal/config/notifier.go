package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/giftshop/pkg/config"
	"github.com/abgdnv/giftshop/pkg/config/configloader"
)

var _ configloader.Validator = (*NotifierConfig)(nil)

// NotifierConfig is the configuration of the quote notifier worker.
type NotifierConfig struct {
	Log        config.LogConfig        `koanf:"log"`
	Nats       config.NATSConfig       `koanf:"nats"`
	Subscriber config.SubscriberConfig `koanf:"subscriber"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
}

func NotifierDefaults() map[string]any {
	return map[string]any{
		"log.level":           "info",
		"log.format":          "json",
		"nats.enabled":        true,
		"nats.timeout":        "5s",
		"nats.stream":         "QUOTES",
		"subscriber.stream":   "QUOTES",
		"subscriber.subject":  "quotes.requested",
		"subscriber.consumer": "quote-notifier",
		"subscriber.timeout":  "5s",
		"subscriber.interval": "1s",
		"subscriber.workers":  2,
		"shutdown.timeout":    "10s",
	}
}

func (c *NotifierConfig) String() string {
	var b strings.Builder
	b.WriteString(c.Nats.String())
	b.WriteString(c.Subscriber.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString("\n--- Application Behavior ---\n")
	b.WriteString(fmt.Sprintf("  shutdown.timeout: %s\n", c.Shutdown.Timeout))
	return b.String()
}

func (c *NotifierConfig) Validate() error {
	if !c.Nats.Enabled {
		return fmt.Errorf("the quote notifier requires nats.enabled")
	}
	if err := c.Nats.Validate(); err != nil {
		return err
	}
	if err := c.Subscriber.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	return c.Shutdown.Validate()
}
