package tradier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/xhhuango/json"
)

const DefaultBaseURL = "https://api.tradier.com"

// APIError is returned for any non-200 answer from Tradier.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tradier: status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewClient returns a client for the Tradier market data API. An empty
// baseURL selects the production endpoint.
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// GetQuotes fetches historical bars for symbol between start and end
// (inclusive). interval is one of daily, weekly or monthly.
func (c *Client) GetQuotes(ctx context.Context, symbol string, start, end time.Time, interval string) (*QuoteHistory, error) {
	if symbol == "" {
		return nil, fmt.Errorf("tradier: symbol is required")
	}

	u, err := url.Parse(c.BaseURL + "/v1/markets/history")
	if err != nil {
		return nil, fmt.Errorf("tradier: invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("start", start.Format("2006-01-02"))
	q.Set("end", end.Format("2006-01-02"))
	q.Set("session_filter", "all")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("tradier: failed to create request: %w", err)
	}
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.Token))
	req.Header.Add("Accept", "application/json")

	began := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tradier: request failed: %w", err)
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tradier: failed to read response data: %w", err)
	}

	log.WithFields(log.Fields{
		"symbol":   symbol,
		"status":   resp.StatusCode,
		"duration": time.Since(began),
	}).Debug("tradier history request")

	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		var fault Fault
		if json.Unmarshal(responseData, &fault) == nil && fault.Fault.FaultString != "" {
			msg = fault.Fault.FaultString
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	quoteHistory := &QuoteHistory{}
	if err := json.Unmarshal(responseData, quoteHistory); err != nil {
		return nil, fmt.Errorf("tradier: failed to unmarshal response data: %w", err)
	}

	return quoteHistory, nil
}
