package tradier

import (
	"bytes"

	"github.com/xhhuango/json"
)

type QuoteHistory struct {
	History *History `json:"history"`
}

type History struct {
	Day Days `json:"day"`
}

type Day struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Days decodes both shapes Tradier uses for "day": an array when there are
// several bars and a bare object when there is exactly one.
type Days []Day

func (d *Days) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = nil
		return nil
	}
	if b[0] == '{' {
		var one Day
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*d = Days{one}
		return nil
	}
	var many []Day
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*d = many
	return nil
}

// Bars returns the daily bars, or nil when Tradier answered "history": null.
func (q *QuoteHistory) Bars() []Day {
	if q == nil || q.History == nil {
		return nil
	}
	return q.History.Day
}

type Fault struct {
	Fault struct {
		FaultString string `json:"faultstring"`
	} `json:"fault"`
}
