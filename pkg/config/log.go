package config

import (
	"fmt"
	"strings"
)

// LogConfig selects the slog level and output encoding.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

var logLevels = map[string]struct{}{"debug": {}, "info": {}, "warn": {}, "error": {}}

// String returns a string representation of the log configuration.
func (c *LogConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Log ---\n")
	b.WriteString(fmt.Sprintf("  level: %s\n", c.Level))
	b.WriteString(fmt.Sprintf("  format: %s\n", c.Format))
	return b.String()
}

func (c *LogConfig) Validate() error {
	if _, ok := logLevels[strings.ToLower(c.Level)]; c.Level != "" && !ok {
		return fmt.Errorf("unknown log level: %q", c.Level)
	}
	switch c.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("unknown log format: %q", c.Format)
	}
	return nil
}
