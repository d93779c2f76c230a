// File: internal/services/webpage/fetcher_test.go
package webpage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct{}

func (testLogger) Info(msg string, keysAndValues ...interface{})  {}
func (testLogger) Error(msg string, keysAndValues ...interface{}) {}
func (testLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (testLogger) Warn(msg string, keysAndValues ...interface{})  {}

func newTestFetcher() *Fetcher {
	return NewFetcher(DefaultConfig(), testLogger{})
}

func TestFetchTextExtractsVisibleText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lightchat/1.0", r.Header.Get("User-Agent"))
		fmt.Fprint(w, `<html><head><title>ignored</title></head>
<body><h1>Welcome</h1><p>Some   article text.</p>
<script>var hidden = "nope";</script>
<style>.x { color: red }</style>
<noscript>also hidden</noscript>
<div>More text</div></body></html>`)
	}))
	defer server.Close()

	text, err := newTestFetcher().FetchText(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "Welcome")
	assert.Contains(t, text, "Some   article text.")
	assert.Contains(t, text, "More text")
	assert.NotContains(t, text, "hidden")
	assert.NotContains(t, text, "ignored")
	assert.NotContains(t, text, "color: red")
}

func TestFetchTextNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := newTestFetcher().FetchText(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchTextEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><script>only()</script></body></html>`)
	}))
	defer server.Close()

	_, err := newTestFetcher().FetchText(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no visible text")
}

func TestFetchTextConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestFetcher().FetchText(context.Background(), server.URL)
	assert.Error(t, err)
}
