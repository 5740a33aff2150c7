package inference

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRetryDelay(t *testing.T) {
	tests := []struct {
		attempt  int
		minDelay time.Duration
		maxDelay time.Duration
	}{
		{-1, 800 * time.Millisecond, 1200 * time.Millisecond},
		{0, 800 * time.Millisecond, 1200 * time.Millisecond},
		{1, 2400 * time.Millisecond, 3600 * time.Millisecond},
		{2, 6400 * time.Millisecond, 9600 * time.Millisecond},
		{9, 6400 * time.Millisecond, 9600 * time.Millisecond},
	}

	for _, tt := range tests {
		for i := 0; i < 10; i++ {
			delay := NextRetryDelay(tt.attempt)
			if delay < tt.minDelay || delay > tt.maxDelay {
				t.Errorf("NextRetryDelay(%d) = %v, want between %v and %v",
					tt.attempt, delay, tt.minDelay, tt.maxDelay)
			}
		}
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(&APIError{StatusCode: http.StatusServiceUnavailable}))
	assert.True(t, retryable(&APIError{StatusCode: http.StatusGatewayTimeout}))
	assert.False(t, retryable(&APIError{StatusCode: http.StatusBadRequest}))
	assert.False(t, retryable(context.Canceled))
}

func TestPost_RetriesWhileModelLoads(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model is loading","estimated_time":1.0}`))
			return
		}
		_, _ = w.Write([]byte("RIFFaudio"))
	}))
	t.Cleanup(srv.Close)

	c := New(Options{APIKey: "hf_test", BaseURL: srv.URL, MaxRetries: 1})

	audio, err := c.TextToSpeech(context.Background(), "selam")
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFFaudio"), audio)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestPost_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	c := New(Options{APIKey: "hf_test", BaseURL: srv.URL, MaxRetries: 2})

	_, err := c.TextToSpeech(context.Background(), "selam")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPost_RetryStopsOnCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c := New(Options{APIKey: "hf_test", BaseURL: srv.URL, MaxRetries: 3})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := c.TextToSpeech(ctx, "selam")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPost_RetriesStayWithinTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c := New(Options{APIKey: "hf_test", BaseURL: srv.URL, MaxRetries: 3, Timeout: 200 * time.Millisecond})

	start := time.Now()
	_, err := c.TextToSpeech(context.Background(), "selam")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
