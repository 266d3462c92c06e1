package tradier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/markets/history", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "daily", r.URL.Query().Get("interval"))
		assert.Equal(t, "2024-01-02", r.URL.Query().Get("start"))
		assert.Equal(t, "2024-01-04", r.URL.Query().Get("end"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		w.Write([]byte(`{"history":{"day":[
			{"date":"2024-01-02","open":187.15,"high":188.44,"low":183.89,"close":185.64,"volume":82488674},
			{"date":"2024-01-03","open":184.22,"high":185.88,"low":183.43,"close":184.25,"volume":58414460},
			{"date":"2024-01-04","open":182.15,"high":183.09,"low":180.88,"close":181.91,"volume":71983570}
		]}}`))
	}))
	defer srv.Close()

	c := NewClient("secret", srv.URL)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)

	hist, err := c.GetQuotes(context.Background(), "AAPL", start, end, "daily")
	require.NoError(t, err)

	bars := hist.Bars()
	require.Len(t, bars, 3)
	assert.Equal(t, "2024-01-04", bars[2].Date)
	assert.Equal(t, 181.91, bars[2].Close)
	assert.Equal(t, int64(82488674), bars[0].Volume)
}

func TestGetQuotesSingleAndEmpty(t *testing.T) {
	for body, want := range map[string]int{
		`{"history":{"day":{"date":"2024-01-02","open":1,"high":2,"low":0.5,"close":1.5,"volume":10}}}`: 1,
		`{"history":null}`: 0,
	} {
		body := body
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		hist, err := NewClient("k", srv.URL).GetQuotes(context.Background(), "X", time.Now(), time.Now(), "daily")
		require.NoError(t, err)
		assert.Len(t, hist.Bars(), want)
		srv.Close()
	}
}

func TestGetQuotesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"fault":{"faultstring":"Invalid Access Token"}}`))
	}))
	defer srv.Close()

	_, err := NewClient("bad", srv.URL).GetQuotes(context.Background(), "AAPL", time.Now(), time.Now(), "daily")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid Access Token", apiErr.Message)
}

func TestGetQuotesRequiresSymbol(t *testing.T) {
	_, err := NewClient("k", "").GetQuotes(context.Background(), "", time.Now(), time.Now(), "daily")
	assert.Error(t, err)
}
