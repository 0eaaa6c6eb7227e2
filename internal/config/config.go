// Package config holds the typed configuration of the storefront binaries.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/abgdnv/giftshop/pkg/config"
	"github.com/abgdnv/giftshop/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

// SessionConfig bounds session restore, profile lookup and idle expiry.
type SessionConfig struct {
	RestoreTimeout time.Duration      `koanf:"restoretimeout"`
	IdleTimeout    time.Duration      `koanf:"idletimeout"`
	ExpiryInterval time.Duration      `koanf:"expiryinterval"`
	ProfileRetry   config.RetryConfig `koanf:"profileretry"`
}

func (c *SessionConfig) Validate() error {
	if c.RestoreTimeout <= 0 {
		return fmt.Errorf("session restore timeout must be greater than 0")
	}
	if c.IdleTimeout <= 0 || c.ExpiryInterval <= 0 {
		return fmt.Errorf("session idle timeout and expiry interval must be greater than 0")
	}
	return c.ProfileRetry.Validate()
}

type WishlistConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// Config is the storefront configuration.
type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	GrpcServer config.GrpcServerConfig `koanf:"grpc"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	Nats       config.NATSConfig       `koanf:"nats"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	IdP        config.IdP              `koanf:"idp"`
	GenAI      config.GenAIConfig      `koanf:"genai"`
	Session    SessionConfig           `koanf:"session"`
	Wishlist   WishlistConfig          `koanf:"wishlist"`
}

// Defaults are loaded before config.yaml and the environment.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":                              8080,
		"server.maxHeaderBytes":                    1 << 20,
		"server.timeout.read":                      "5s",
		"server.timeout.write":                     "30s",
		"server.timeout.idle":                      "60s",
		"server.timeout.readHeader":                "2s",
		"grpc.port":                                "9090",
		"database.timeout":                         "5s",
		"database.migrations":                      "migrations",
		"log.level":                                "info",
		"log.format":                               "json",
		"nats.timeout":                             "5s",
		"nats.stream":                              "QUOTES",
		"shutdown.timeout":                         "10s",
		"telemetry.metrics.enabled":                true,
		"telemetry.metrics.path":                   "/metrics",
		"telemetry.traces.otlphttp.timeout":        "5s",
		"idp.mininterval":                          "5m",
		"idp.timeout":                              "5s",
		"genai.model":                              "gemini-3-flash-preview",
		"genai.temperature":                        0.8,
		"genai.topk":                               40,
		"genai.topp":                               0.95,
		"genai.timeout":                            "30s",
		"genai.circuitbreaker.consecutivefailures": 3,
		"genai.circuitbreaker.errorratepercent":    50,
		"genai.circuitbreaker.maxrequests":         1,
		"genai.circuitbreaker.opentimeout":         "30s",
		"session.restoretimeout":                   "3500ms",
		"session.idletimeout":                      "2h",
		"session.expiryinterval":                   "1m",
		"session.profileretry.retries":             2,
		"session.profileretry.delay":               "500ms",
		"wishlist.timeout":                         "5s",
	}
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- Server Configuration ---\n")
	b.WriteString(fmt.Sprintf("  server.port: %d\n", c.HTTPServer.Port))
	b.WriteString(fmt.Sprintf("  server.maxHeaderBytes: %d\n", c.HTTPServer.MaxHeaderBytes))
	b.WriteString(fmt.Sprintf("  server.timeout.read: %v\n", c.HTTPServer.Timeout.Read))
	b.WriteString(fmt.Sprintf("  server.timeout.write: %v\n", c.HTTPServer.Timeout.Write))
	b.WriteString(fmt.Sprintf("  server.timeout.idle: %v\n", c.HTTPServer.Timeout.Idle))
	b.WriteString(fmt.Sprintf("  server.timeout.readHeader: %v\n", c.HTTPServer.Timeout.ReadHeader))
	b.WriteString(fmt.Sprintf("  grpc.port: %s\n", c.GrpcServer.Port))
	b.WriteString(fmt.Sprintf("  grpc.reflection: %t\n", c.GrpcServer.ReflectionEnabled))

	b.WriteString("\n--- Database Configuration ---\n")
	b.WriteString(fmt.Sprintf("  database.url: %s\n", config.MaskURL(c.Database.URL)))
	b.WriteString(fmt.Sprintf("  database.timeout: %s\n", c.Database.Timeout))
	b.WriteString(fmt.Sprintf("  database.migrate: %t\n", c.Database.Migrate))

	b.WriteString("\n--- External Services ---")
	b.WriteString(c.IdP.String())
	b.WriteString(c.GenAI.String())
	b.WriteString(c.Nats.String())

	b.WriteString("\n--- Storefront ---\n")
	b.WriteString(fmt.Sprintf("  session.restoretimeout: %s\n", c.Session.RestoreTimeout))
	b.WriteString(fmt.Sprintf("  session.idletimeout: %s\n", c.Session.IdleTimeout))
	b.WriteString(fmt.Sprintf("  session.expiryinterval: %s\n", c.Session.ExpiryInterval))
	b.WriteString(fmt.Sprintf("  session.profileretry: %s\n", c.Session.ProfileRetry.String()))
	b.WriteString(fmt.Sprintf("  wishlist.timeout: %s\n", c.Wishlist.Timeout))

	b.WriteString("\n--- Observability & Logging ---")
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Telemetry.String())

	b.WriteString("\n--- Application Behavior ---\n")
	b.WriteString(fmt.Sprintf("  shutdown.timeout: %s\n", c.Shutdown.Timeout))

	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.GrpcServer,
		&c.Database,
		&c.Log,
		&c.PProf,
		&c.Nats,
		&c.Shutdown,
		&c.Telemetry,
		&c.IdP,
		&c.GenAI,
		&c.Session,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if c.Wishlist.Timeout <= 0 {
		return fmt.Errorf("wishlist timeout must be greater than 0")
	}
	return nil
}
