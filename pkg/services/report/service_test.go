package report

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/de-tools/stock-reports/pkg/adapters"
	"github.com/de-tools/stock-reports/pkg/models/domain"
	"github.com/de-tools/stock-reports/pkg/store/sqlite"
	reportstore "github.com/de-tools/stock-reports/pkg/store/sqlite/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Name() string { return "mock" }

func (m *mockFetcher) Fetch(ctx context.Context, symbol string, start, end time.Time) (domain.Series, error) {
	args := m.Called(ctx, symbol, start, end)
	return args.Get(0).(domain.Series), args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Initialize(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Insert(ctx context.Context, stock, start, end, data, id string) ([]domain.Report, error) {
	args := m.Called(ctx, stock, start, end, data, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *mockStore) Select(ctx context.Context, id string) ([]domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

type fixture struct {
	fetcher *mockFetcher
	store   reportstore.Store
	service Service
}

func setupFixture(t *testing.T) *fixture {
	db, err := sqlite.NewDB(context.Background(), sqlite.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	n := 0
	store, err := reportstore.NewStore(db, reportstore.WithUUIDGenerator(func() string {
		n++
		return fmt.Sprintf("report-%d", n)
	}))
	require.NoError(t, err)

	fetcher := new(mockFetcher)
	svc, err := NewService(fetcher, store)
	require.NoError(t, err)

	return &fixture{fetcher: fetcher, store: store, service: svc}
}

func mustParse(t *testing.T, symbol, start, end string) domain.TimeRangeRequest {
	req, err := domain.ParseTimeRange(symbol, start, end)
	require.NoError(t, err)
	return req
}

const avgoRow = `{"Open":31.5,"High":32,"Low":31.1,"Close":31.9,"Adj Close":28.7,"Volume":1200}`

func TestNewService(t *testing.T) {
	_, err := NewService(nil, new(mockStore))
	assert.Error(t, err)

	_, err = NewService(new(mockFetcher), nil)
	assert.Error(t, err)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("one observation", func(t *testing.T) {
		f := setupFixture(t)
		req := mustParse(t, "avgo", "2020-01-01", "2020-01-02")

		f.fetcher.On("Fetch", mock.Anything, "avgo", req.Start, req.End).
			Return(domain.Series{Timestamps: []int64{1577836800}, Rows: []string{avgoRow}}, nil)

		created, err := f.service.Create(ctx, req)
		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.Equal(t, "avgo", created[0].Stock)
		assert.Equal(t, "2020-01-01", created[0].Start)
		assert.Equal(t, "2020-01-02", created[0].End)

		s, err := adapters.DecodeSeries(created[0].Data)
		require.NoError(t, err)
		assert.Equal(t, []int64{1577836800}, s.Timestamps)
		assert.Equal(t, []string{avgoRow}, s.Rows)

		all, err := f.service.Get(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 1)
		f.fetcher.AssertExpectations(t)
	})

	t.Run("create then get", func(t *testing.T) {
		f := setupFixture(t)
		req := mustParse(t, "msft", "2021-03-01", "2021-03-05")
		f.fetcher.On("Fetch", mock.Anything, "msft", req.Start, req.End).
			Return(domain.Series{Timestamps: []int64{1, 2}, Rows: []string{"{}", "{}"}}, nil)

		created, err := f.service.Create(ctx, req)
		require.NoError(t, err)

		got, err := f.service.Get(ctx, created[0].UUID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("no data leaves store untouched", func(t *testing.T) {
		f := setupFixture(t)
		req := mustParse(t, "NOSUCHTICKER", "2017-01-01", "2017-04-30")
		f.fetcher.On("Fetch", mock.Anything, "NOSUCHTICKER", req.Start, req.End).
			Return(domain.Series{}, fmt.Errorf("%w: NOSUCHTICKER", domain.ErrNoData))

		created, err := f.service.Create(ctx, req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNoData))
		assert.Nil(t, created)

		all, err := f.service.Get(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("provider failure leaves store untouched", func(t *testing.T) {
		f := setupFixture(t)
		req := mustParse(t, "avgo", "2020-01-01", "2020-01-02")
		f.fetcher.On("Fetch", mock.Anything, "avgo", req.Start, req.End).
			Return(domain.Series{}, fmt.Errorf("%w: timeout", domain.ErrProvider)).Once()

		_, err := f.service.Create(ctx, req)
		assert.True(t, errors.Is(err, domain.ErrProvider))

		all, err := f.service.Get(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, all)
		f.fetcher.AssertNumberOfCalls(t, "Fetch", 1)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		fetcher := new(mockFetcher)
		store := new(mockStore)
		svc, err := NewService(fetcher, store)
		require.NoError(t, err)

		req := mustParse(t, "avgo", "2020-01-01", "2020-01-02")
		fetcher.On("Fetch", mock.Anything, "avgo", req.Start, req.End).
			Return(domain.Series{Timestamps: []int64{1577836800}, Rows: []string{avgoRow}}, nil)
		store.On("Insert", mock.Anything, "avgo", "2020-01-01", "2020-01-02", mock.Anything, "").
			Return(nil, fmt.Errorf("%w: disk full", domain.ErrStore))

		_, err = svc.Create(ctx, req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrStore))
		assert.False(t, errors.Is(err, domain.ErrNoData))
		store.AssertExpectations(t)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	stocks := []string{"avgo", "msft", "aapl", "nvda"}
	for _, stock := range stocks {
		req := mustParse(t, stock, "2020-01-01", "2020-01-02")
		f.fetcher.On("Fetch", mock.Anything, stock, req.Start, req.End).
			Return(domain.Series{Timestamps: []int64{1577836800}, Rows: []string{"{}"}}, nil)
		_, err := f.service.Create(ctx, req)
		require.NoError(t, err)
	}

	t.Run("all in creation order", func(t *testing.T) {
		all, err := f.service.Get(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, len(stocks))
		for i, r := range all {
			assert.Equal(t, stocks[i], r.Stock)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		got, err := f.service.Get(ctx, "00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("store fault", func(t *testing.T) {
		store := new(mockStore)
		svc, err := NewService(new(mockFetcher), store)
		require.NoError(t, err)
		store.On("Select", mock.Anything, "").Return(nil, domain.ErrStore)

		_, err = svc.Get(ctx, "")
		assert.True(t, errors.Is(err, domain.ErrStore))
	})
}
