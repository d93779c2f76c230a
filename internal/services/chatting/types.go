// File: internal/services/chatting/types.go
package chatting

import "context"

// Logger defines the logging interface used across chatting services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// PageFetcher dereferences a URL into visible page text during
// preprocessing.
type PageFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}
