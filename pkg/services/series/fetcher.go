// Package series fetches historical price series from an external provider.
package series

import (
	"context"
	"time"

	"github.com/de-tools/stock-reports/pkg/models/domain"
)

// Fetcher retrieves the daily series of symbol between start and end.
//
// The range is handed to the provider as is; whether end is inclusive is the
// provider's convention. Output is in the provider's chronological order.
// An empty result is domain.ErrNoData. Implementations make exactly one
// request and never retry.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, symbol string, start, end time.Time) (domain.Series, error)
}
