// File: internal/services/sse/config.go
package sse

import (
	"fmt"
	"time"
)

type Config struct {
	// ConnectTimeout bounds dialing and waiting for response headers. The
	// body read is deliberately unbounded: streams stay open as long as
	// the vendor keeps sending events.
	ConnectTimeout time.Duration

	// MaxEventBytes caps a single event payload.
	MaxEventBytes int
}

func (c *Config) Validate() error {
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect_timeout must be positive")
	}
	if c.MaxEventBytes <= 0 {
		return fmt.Errorf("max_event_bytes must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		ConnectTimeout: 30 * time.Second,
		MaxEventBytes:  1 << 20,
	}
}
