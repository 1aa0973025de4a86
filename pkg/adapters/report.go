package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/de-tools/stock-reports/pkg/models/api"
	"github.com/de-tools/stock-reports/pkg/models/domain"
	"github.com/de-tools/stock-reports/pkg/models/store"
)

func MapStoreReportToDomain(r store.Report) domain.Report {
	return domain.Report{
		ID:         r.ID,
		UUID:       r.UUID,
		Stock:      r.Stock,
		Start:      r.Start,
		End:        r.End,
		Data:       r.Data,
		ModifiedAt: r.ModifiedAt,
	}
}

func MapReportDomainToApi(r domain.Report) api.Report {
	return api.Report{
		ID:         r.ID,
		UUID:       r.UUID,
		Stock:      r.Stock,
		Start:      r.Start,
		End:        r.End,
		Data:       r.Data,
		ModifiedAt: r.ModifiedAt,
	}
}

func MapReportsDomainToApi(reports []domain.Report) []api.Report {
	out := make([]api.Report, 0, len(reports))
	for _, r := range reports {
		out = append(out, MapReportDomainToApi(r))
	}
	return out
}

// EncodeSeries serializes a series as the two-element array [timestamps, rows].
func EncodeSeries(s domain.Series) (string, error) {
	if len(s.Timestamps) != len(s.Rows) {
		return "", fmt.Errorf("series is misaligned: %d timestamps, %d rows", len(s.Timestamps), len(s.Rows))
	}

	timestamps := s.Timestamps
	if timestamps == nil {
		timestamps = []int64{}
	}
	rows := s.Rows
	if rows == nil {
		rows = []string{}
	}

	raw, err := json.Marshal([]interface{}{timestamps, rows})
	if err != nil {
		return "", fmt.Errorf("marshal series: %w", err)
	}
	return string(raw), nil
}

// DecodeSeries is the inverse of EncodeSeries.
func DecodeSeries(data string) (domain.Series, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal([]byte(data), &parts); err != nil {
		return domain.Series{}, fmt.Errorf("unmarshal series: %w", err)
	}
	if len(parts) != 2 {
		return domain.Series{}, fmt.Errorf("series payload has %d parts, want 2", len(parts))
	}

	var s domain.Series
	if err := json.Unmarshal(parts[0], &s.Timestamps); err != nil {
		return domain.Series{}, fmt.Errorf("unmarshal timestamps: %w", err)
	}
	if err := json.Unmarshal(parts[1], &s.Rows); err != nil {
		return domain.Series{}, fmt.Errorf("unmarshal rows: %w", err)
	}
	if len(s.Timestamps) != len(s.Rows) {
		return domain.Series{}, fmt.Errorf("series is misaligned: %d timestamps, %d rows", len(s.Timestamps), len(s.Rows))
	}
	return s, nil
}
