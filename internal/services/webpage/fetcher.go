// File: internal/services/webpage/fetcher.go
package webpage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Logger defines the logging interface used by the fetcher
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

type Config struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		MaxBodyBytes: 2 << 20,
		UserAgent:    "lightchat/1.0",
	}
}

// Fetcher downloads a page and extracts its visible text, so a bare URL
// pasted as user input can be sent as readable content.
type Fetcher struct {
	config *Config
	http   *http.Client
	logger Logger
}

func NewFetcher(config *Config, logger Logger) *Fetcher {
	return &Fetcher{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// FetchText returns the visible text content of the page at url. Any
// failure is returned to the caller, who falls back to the raw input.
func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page fetch returned status %d", resp.StatusCode)
	}

	root, err := html.Parse(io.LimitReader(resp.Body, f.config.MaxBodyBytes))
	if err != nil {
		return "", err
	}

	text := visibleText(root)
	if text == "" {
		return "", fmt.Errorf("page at %s has no visible text", url)
	}

	f.logger.Debug("page text extracted", "url", url, "length", len(text))
	return text, nil
}

// visibleText walks the parse tree collecting text nodes, skipping markup
// that never renders.
func visibleText(root *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head", "template":
				return
			}
		}
		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(trimmed)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return b.String()
}
