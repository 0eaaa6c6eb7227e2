package config

import (
	"fmt"
	"time"
)

// ShutdownConfig bounds graceful stop of every server and background worker.
type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

func (c *ShutdownConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("shutdown timeout is not configured")
	}
	if c.Timeout > 5*time.Minute {
		return fmt.Errorf("shutdown timeout %s is longer than 5m", c.Timeout)
	}
	return nil
}
