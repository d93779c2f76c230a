// File: internal/services/sse/client.go
package sse

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
)

// Logger defines the logging interface used by the SSE client
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Request describes the connection to open.
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    []byte
}

// Event is one named server-sent event. Data carries the raw payload; the
// consumer decides whether it is JSON or a sentinel like "[DONE]".
type Event struct {
	Name string
	Data string
}

const maxErrorBodyBytes = 16 * 1024

// Client reads server-sent event streams over a persistent HTTP connection.
type Client struct {
	config *Config
	http   *http.Client
	logger Logger
}

func NewClient(config *Config, logger Logger) *Client {
	return &Client{
		config: config,
		http: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: config.ConnectTimeout,
			},
		},
		logger: logger,
	}
}

// Stream opens the connection and delivers events to onEvent strictly in
// arrival order. It returns nil on normal termination (the server closed
// the stream, or onEvent returned ErrStop) and a *StreamError otherwise.
// The underlying connection is closed on every exit path; no event is
// delivered after Stream returns.
func (c *Client) Stream(ctx context.Context, req Request, onEvent func(Event) error) error {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return NewConnectionError("build_request", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return NewConnectionError("open", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.Warn("stream rejected", "status", resp.StatusCode)
		return NewStatusError(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	c.logger.Debug("stream opened", "url", req.URL)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), c.config.MaxEventBytes)

	var name string
	var data strings.Builder

	flush := func() error {
		if data.Len() == 0 {
			name = ""
			return nil
		}
		event := Event{Name: name, Data: data.String()}
		name = ""
		data.Reset()
		return onEvent(event)
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if err := flush(); err != nil {
				if errors.Is(err, ErrStop) {
					return nil
				}
				return err
			}
		case strings.HasPrefix(line, ":"):
			// Comment/heartbeat frame, not an event.
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}

	if err := scanner.Err(); err != nil {
		return NewConnectionError("read", err)
	}

	// Dispatch a trailing event that was not followed by a blank line.
	if err := flush(); err != nil && !errors.Is(err, ErrStop) {
		return err
	}
	return nil
}
