package marketdata_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/boglefolio/internal/domain"
	"github.com/iho/boglefolio/internal/infrastructure/marketdata"
)

const chartPayload = `{
  "chart": {
    "result": [
      {
        "meta": {
          "symbol": "VTI",
          "regularMarketPrice": 231.42,
          "regularMarketTime": 1717444800
        },
        "timestamp": [1717372800, 1717459200, 1717545600],
        "indicators": {
          "quote": [
            {
              "open":   [230.1, null, 232.0],
              "high":   [231.5, null, 233.2],
              "low":    [229.8, null, 231.1],
              "close":  [231.0, null, 232.9],
              "volume": [3200000, null, 2900000]
            }
          ]
        }
      }
    ],
    "error": null
  }
}`

const notFoundPayload = `{
  "chart": {
    "result": null,
    "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *marketdata.YahooClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return marketdata.NewYahooClient(server.URL, 5*time.Second, zerolog.Nop())
}

func TestYahooClient_LatestPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/VTI", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1d", r.URL.Query().Get("range"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chartPayload))
	})

	quote, err := client.LatestPrice(context.Background(), "VTI")
	require.NoError(t, err)

	assert.Equal(t, "VTI", quote.Symbol)
	assert.Equal(t, "231.42", quote.Price.String())
	assert.Equal(t, time.Unix(1717444800, 0).UTC(), quote.Time)
}

func TestYahooClient_History(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.NotEmpty(t, r.URL.Query().Get("period1"))
		assert.NotEmpty(t, r.URL.Query().Get("period2"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chartPayload))
	})

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)

	bars, err := client.History(context.Background(), "VTI", start, end, domain.IntervalDay)
	require.NoError(t, err)

	// The null candle for the non-trading day is dropped.
	require.Len(t, bars, 2)

	assert.Equal(t, "231", bars[0].Close.String())
	assert.Equal(t, int64(3200000), bars[0].Volume)
	assert.Equal(t, time.Unix(1717372800, 0).UTC(), bars[0].Time)

	assert.Equal(t, "232.9", bars[1].Close.String())
}

func TestYahooClient_UnknownSymbol(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(notFoundPayload))
	})

	_, err := client.LatestPrice(context.Background(), "NOSUCH")
	assert.ErrorIs(t, err, domain.ErrQuoteNotFound)
}

func TestYahooClient_NotFoundStatus(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.LatestPrice(context.Background(), "NOSUCH")
	assert.ErrorIs(t, err, domain.ErrQuoteNotFound)

	// 404 is permanent, no retries.
	assert.Equal(t, int32(1), calls.Load())
}

func TestYahooClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chartPayload))
	})

	quote, err := client.LatestPrice(context.Background(), "VTI")
	require.NoError(t, err)

	assert.Equal(t, "231.42", quote.Price.String())
	assert.Equal(t, int32(3), calls.Load())
}

func TestYahooClient_BadJSONIsPermanent(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("<html>not json</html>"))
	})

	_, err := client.LatestPrice(context.Background(), "VTI")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
