// Package report orchestrates report creation and retrieval.
package report

import (
	"context"
	"fmt"

	"github.com/de-tools/stock-reports/pkg/adapters"
	"github.com/de-tools/stock-reports/pkg/models/domain"
	"github.com/de-tools/stock-reports/pkg/services/series"
	reportstore "github.com/de-tools/stock-reports/pkg/store/sqlite/report"
	"github.com/rs/zerolog"
)

type Service interface {
	// Create fetches the series for req and stores it as a new report.
	Create(ctx context.Context, req domain.TimeRangeRequest) ([]domain.Report, error)
	// Get returns all reports when id is empty, otherwise zero or one report.
	Get(ctx context.Context, id string) ([]domain.Report, error)
}

type service struct {
	fetcher series.Fetcher
	store   reportstore.Store
}

func NewService(fetcher series.Fetcher, store reportstore.Store) (Service, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("series fetcher is nil")
	}
	if store == nil {
		return nil, fmt.Errorf("report store is nil")
	}
	return &service{
		fetcher: fetcher,
		store:   store,
	}, nil
}

func (s *service) Create(ctx context.Context, req domain.TimeRangeRequest) ([]domain.Report, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("stock", req.Symbol).
		Str("start", req.RawStart).
		Str("end", req.RawEnd).
		Logger()

	data, err := s.fetcher.Fetch(ctx, req.Symbol, req.Start, req.End)
	if err != nil {
		logger.Warn().Err(err).Str("provider", s.fetcher.Name()).Msg("failed to fetch series")
		return nil, err
	}

	payload, err := adapters.EncodeSeries(data)
	if err != nil {
		return nil, fmt.Errorf("encode series for %s: %w", req.Symbol, err)
	}

	reports, err := s.store.Insert(ctx, req.Symbol, req.RawStart, req.RawEnd, payload, "")
	if err != nil {
		logger.Error().Err(err).Msg("failed to store report")
		return nil, err
	}

	event := logger.Info().Int("points", data.Len())
	if points := data.Points(); len(points) > 0 {
		event = event.
			Int64("first", points[0].Timestamp).
			Int64("last", points[len(points)-1].Timestamp)
	}
	event.Msg("report created")

	return reports, nil
}

func (s *service) Get(ctx context.Context, id string) ([]domain.Report, error) {
	return s.store.Select(ctx, id)
}
