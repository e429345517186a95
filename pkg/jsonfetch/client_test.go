package jsonfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pru/pkg/errors"
	"pru/pkg/logger"
)

type countingWaiter struct {
	calls atomic.Int32
	err   error
}

func (w *countingWaiter) Wait(context.Context, string) error {
	w.calls.Add(1)
	return w.err
}

func TestFetchStringEncodesParams(t *testing.T) {
	var got url.Values
	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		agent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := NewClient(time.Second, logger.NewNopLogger())
	params := url.Values{}
	params.Set("order", "date_received desc")
	params.Set("search", "(A|B):camera")

	body, err := c.FetchString(context.Background(), server.URL+"/api/?feedtype=json", params)
	require.NoError(t, err)

	assert.Equal(t, `{"ok":true}`, body)
	assert.Equal(t, "json", got.Get("feedtype"))
	assert.Equal(t, "date_received desc", got.Get("order"))
	assert.Equal(t, "(A|B):camera", got.Get("search"))
	assert.Equal(t, DefaultUserAgent, agent)
}

func TestFetchStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   errors.ErrorType
	}{
		{http.StatusNotFound, errors.ErrorTypeNotFound},
		{http.StatusTooManyRequests, errors.ErrorTypeRateLimit},
		{http.StatusBadGateway, errors.ErrorTypeServerError},
		{http.StatusBadRequest, errors.ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			c := NewClient(time.Second, logger.NewNopLogger())
			_, err := c.FetchBytes(context.Background(), server.URL)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.want), "got %v", err)

			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.status, e.Code)
		})
	}
}

func TestFetchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := server.URL
	server.Close()

	c := NewClient(time.Second, logger.NewNopLogger())
	_, err := c.FetchString(context.Background(), addr, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNetwork))
}

func TestFetchUsesLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("img"))
	}))
	defer server.Close()

	waiter := &countingWaiter{}
	c := NewClient(time.Second, logger.NewNopLogger(), WithLimiter(waiter), WithHeader("X-Test", "1"))

	data, err := c.FetchBytes(context.Background(), server.URL+"/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), data)
	assert.Equal(t, int32(1), waiter.calls.Load())

	waiter.err = context.DeadlineExceeded
	_, err = c.FetchBytes(context.Background(), server.URL+"/b.png")
	assert.True(t, errors.IsType(err, errors.ErrorTypeRateLimit))
}

func TestFetchLogsAtDebugOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	tl := logger.NewTestLogger()
	c := NewClient(time.Second, tl)
	_, err := c.FetchBytes(context.Background(), server.URL)
	require.Error(t, err)

	assert.False(t, tl.HasError())
	assert.Len(t, tl.GetMessagesByLevel("DEBUG"), 2)
}

func TestFetchHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := NewClient(5*time.Second, logger.NewNopLogger())
	_, err := c.FetchBytes(ctx, server.URL)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNetwork))
}
