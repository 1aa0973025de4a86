package domain

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// TimeRangeRequest is a validated create request. Start and End keep the
// caller's text alongside the parsed dates; the text is what gets stored.
type TimeRangeRequest struct {
	Symbol   string
	Start    time.Time
	End      time.Time
	RawStart string
	RawEnd   string
}

// ParseTimeRange validates a symbol and a pair of YYYY-MM-DD dates.
// start <= end is not checked: the provider answers an inverted range with no rows.
func ParseTimeRange(symbol, start, end string) (TimeRangeRequest, error) {
	if strings.TrimSpace(symbol) == "" {
		return TimeRangeRequest{}, fmt.Errorf("%w: stock symbol is required", ErrValidation)
	}

	startDate, err := parseDate("start", start)
	if err != nil {
		return TimeRangeRequest{}, err
	}
	endDate, err := parseDate("end", end)
	if err != nil {
		return TimeRangeRequest{}, err
	}

	return TimeRangeRequest{
		Symbol:   symbol,
		Start:    startDate,
		End:      endDate,
		RawStart: start,
		RawEnd:   end,
	}, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s date %q is not YYYY-MM-DD", ErrValidation, field, value)
	}
	return t, nil
}
