// File: internal/services/chatting/config.go
package chatting

import (
	"fmt"
	"time"
)

type Config struct {
	// PreprocessTimeout bounds the URL dereference before a send.
	PreprocessTimeout time.Duration

	// BlockingTimeout bounds one non-streaming exchange.
	BlockingTimeout time.Duration

	// StreamTimeout bounds one whole streaming session. Streams are
	// detached from their caller, so this is the only thing that ends a
	// hung one.
	StreamTimeout time.Duration
}

func (c *Config) Validate() error {
	if c.PreprocessTimeout <= 0 {
		return fmt.Errorf("preprocess_timeout must be positive")
	}
	if c.BlockingTimeout <= 0 {
		return fmt.Errorf("blocking_timeout must be positive")
	}
	if c.StreamTimeout <= 0 {
		return fmt.Errorf("stream_timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		PreprocessTimeout: 15 * time.Second,
		BlockingTimeout:   2 * time.Minute,
		StreamTimeout:     5 * time.Minute,
	}
}
