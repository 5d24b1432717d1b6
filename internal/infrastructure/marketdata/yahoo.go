// Package marketdata fetches quotes and price history from the Yahoo
// Finance chart API.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/boglefolio/internal/domain"
	"github.com/iho/boglefolio/internal/infrastructure/metrics"
	"github.com/iho/boglefolio/internal/usecase"
)

// YahooClient implements usecase.QuoteProvider against the chart endpoint.
type YahooClient struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewYahooClient creates a new YahooClient. baseURL points at the API root,
// e.g. https://query1.finance.yahoo.com.
func NewYahooClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *YahooClient {
	return &YahooClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// chartResponse mirrors the subset of the chart API payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// LatestPrice returns the most recent market price for a symbol.
func (c *YahooClient) LatestPrice(ctx context.Context, symbol string) (*usecase.Quote, error) {
	query := url.Values{
		"interval": {"1d"},
		"range":    {"1d"},
	}

	resp, err := c.fetchChart(ctx, symbol, query)
	if err != nil {
		return nil, err
	}

	meta := resp.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 {
		metrics.ObserveQuoteRequest("not_found")
		return nil, domain.ErrQuoteNotFound
	}

	metrics.ObserveQuoteRequest("ok")

	return &usecase.Quote{
		Symbol: symbol,
		Price:  decimal.NewFromFloat(meta.RegularMarketPrice),
		Time:   time.Unix(meta.RegularMarketTime, 0).UTC(),
	}, nil
}

// History returns OHLCV candles for a symbol over [start, end].
func (c *YahooClient) History(ctx context.Context, symbol string, start, end time.Time, interval domain.Interval) ([]usecase.Bar, error) {
	query := url.Values{
		"interval": {string(interval)},
		"period1":  {strconv.FormatInt(start.Unix(), 10)},
		"period2":  {strconv.FormatInt(end.Unix(), 10)},
	}

	resp, err := c.fetchChart(ctx, symbol, query)
	if err != nil {
		return nil, err
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		metrics.ObserveQuoteRequest("not_found")
		return nil, domain.ErrQuoteNotFound
	}

	quote := result.Indicators.Quote[0]

	bars := make([]usecase.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// The API pads series with null candles for non-trading days.
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}

		bar := usecase.Bar{
			Time:  time.Unix(ts, 0).UTC(),
			Close: decimal.NewFromFloat(*quote.Close[i]),
		}

		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = decimal.NewFromFloat(*quote.Open[i])
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = decimal.NewFromFloat(*quote.High[i])
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = decimal.NewFromFloat(*quote.Low[i])
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}

		bars = append(bars, bar)
	}

	metrics.ObserveQuoteRequest("ok")

	return bars, nil
}

// fetchChart requests the chart endpoint with retries on transient failures.
func (c *YahooClient) fetchChart(ctx context.Context, symbol string, query url.Values) (*chartResponse, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), query.Encode())

	var parsed *chartResponse

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		req.Header.Set("User-Agent", "boglefolio/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(domain.ErrQuoteNotFound)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("chart API returned status %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("chart API returned status %d", resp.StatusCode))
		}

		var body chartResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode chart response: %w", err))
		}

		parsed = &body

		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		if errors.Is(err, domain.ErrQuoteNotFound) {
			metrics.ObserveQuoteRequest("not_found")
		} else {
			metrics.ObserveQuoteRequest("error")
			c.logger.Warn().Err(err).Str("symbol", symbol).Msg("chart API request failed")
		}

		return nil, err
	}

	if parsed.Chart.Error != nil || len(parsed.Chart.Result) == 0 {
		metrics.ObserveQuoteRequest("not_found")
		return nil, domain.ErrQuoteNotFound
	}

	return parsed, nil
}
