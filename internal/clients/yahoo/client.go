package yahoo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Client fetches historical prices from the Yahoo Finance chart API.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		baseURL: "https://query1.finance.yahoo.com/v8/finance/chart/",
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "yahoo").Logger(),
	}
}

// DailyClose is one day of adjusted close data.
type DailyClose struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Close float64 `json:"close"`
}

// chartResponse mirrors the chart API payload, fields we consume only.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetDailyCloses fetches daily adjusted closes for a symbol.
// Supported ranges: 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max.
func (c *Client) GetDailyCloses(symbol, chartRange string) ([]DailyClose, error) {
	params := url.Values{}
	params.Add("interval", "1d")
	params.Add("range", chartRange)

	reqURL := c.baseURL + url.QueryEscape(symbol) + "?" + params.Encode()

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("chart API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse chart response: %w", err)
	}

	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s", symbol, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart API returned no result for %s", symbol)
	}

	result := parsed.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart API returned no quote data for %s", symbol)
	}

	// Prefer adjusted closes when present
	closes := result.Indicators.Quote[0].Close
	if len(result.Indicators.AdjClose) > 0 && len(result.Indicators.AdjClose[0].AdjClose) == len(result.Timestamp) {
		closes = result.Indicators.AdjClose[0].AdjClose
	}

	var out []DailyClose
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue // market holiday / missing tick
		}
		out = append(out, DailyClose{
			Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Close: *closes[i],
		})
	}

	c.log.Debug().
		Str("symbol", symbol).
		Str("range", chartRange).
		Int("days", len(out)).
		Msg("Fetched daily closes")

	return out, nil
}
