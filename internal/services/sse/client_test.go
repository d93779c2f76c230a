// File: internal/services/sse/client_test.go
package sse

import (
	"context"
	"errors"
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

func newTestClient() *Client {
	return NewClient(DefaultConfig(), testLogger{})
}

func streamFrom(t *testing.T, handler http.HandlerFunc, onEvent func(Event) error) error {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return newTestClient().Stream(context.Background(), Request{
		URL:    server.URL,
		Method: http.MethodGet,
	}, onEvent)
}

func TestStreamDeliversEventsInOrder(t *testing.T) {
	var got []Event
	err := streamFrom(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		fmt.Fprint(w, "event: completion\ndata: one\n\n")
		fmt.Fprint(w, "data: two\n\n")
		fmt.Fprint(w, "event: done\ndata: three\n\n")
	}, func(e Event) error {
		got = append(got, e)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, Event{Name: "completion", Data: "one"}, got[0])
	assert.Equal(t, Event{Name: "", Data: "two"}, got[1])
	assert.Equal(t, Event{Name: "done", Data: "three"}, got[2])
}

func TestStreamSkipsCommentsAndBlankFrames(t *testing.T) {
	var got []Event
	err := streamFrom(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ": heartbeat\n\n")
		fmt.Fprint(w, "\n\n")
		fmt.Fprint(w, "data: real\n\n")
		fmt.Fprint(w, ": another comment\n")
		fmt.Fprint(w, "data: last\n\n")
	}, func(e Event) error {
		got = append(got, e)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "real", got[0].Data)
	assert.Equal(t, "last", got[1].Data)
}

func TestStreamJoinsMultilineData(t *testing.T) {
	var got []Event
	err := streamFrom(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: first line\ndata: second line\n\n")
	}, func(e Event) error {
		got = append(got, e)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "first line\nsecond line", got[0].Data)
}

func TestStreamDispatchesTrailingEvent(t *testing.T) {
	var got []Event
	err := streamFrom(t, func(w http.ResponseWriter, r *http.Request) {
		// Server closes without a terminating blank line.
		fmt.Fprint(w, "data: dangling")
	}, func(e Event) error {
		got = append(got, e)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "dangling", got[0].Data)
}

func TestStreamErrStopTerminatesCleanly(t *testing.T) {
	var got []Event
	err := streamFrom(t, func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "data: one\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
		fmt.Fprint(w, "data: never-seen\n\n")
		flusher.Flush()
	}, func(e Event) error {
		if e.Data == "[DONE]" {
			return ErrStop
		}
		got = append(got, e)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "one", got[0].Data)
}

func TestStreamCallbackErrorPropagates(t *testing.T) {
	sentinel := errors.New("stop the presses")
	err := streamFrom(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: one\n\n")
	}, func(e Event) error {
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
}

func TestStreamNonOKStatus(t *testing.T) {
	err := streamFrom(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}, func(e Event) error {
		t.Fatal("no event expected on a rejected stream")
		return nil
	})

	require.Error(t, err)
	var streamErr *StreamError
	require.ErrorAs(t, err, &streamErr)
	assert.Equal(t, ErrTypeStatus, streamErr.Type)
	assert.Equal(t, http.StatusTooManyRequests, streamErr.StatusCode)
	assert.Contains(t, streamErr.Message, "quota exceeded")
}

func TestStreamConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	err := newTestClient().Stream(context.Background(), Request{
		URL:    server.URL,
		Method: http.MethodGet,
	}, func(e Event) error { return nil })

	require.Error(t, err)
	var streamErr *StreamError
	require.ErrorAs(t, err, &streamErr)
	assert.Equal(t, ErrTypeConnection, streamErr.Type)
}
