package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/stock-reports/pkg/adapters"
	"github.com/de-tools/stock-reports/pkg/models/domain"
	"github.com/de-tools/stock-reports/pkg/models/store"
	"github.com/de-tools/stock-reports/pkg/store/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store is the append-only report table. There is no update or delete.
type Store interface {
	// Initialize ensures the reports table exists. Safe to call any number of times.
	Initialize(ctx context.Context) error
	// Insert writes one report and returns it as read back by Select(uuid).
	// An empty id gets a generated UUID.
	Insert(ctx context.Context, stock, start, end, data, id string) ([]domain.Report, error)
	// Select returns every report in insertion order, or the zero-or-one report
	// matching id. Not found is an empty slice, never an error.
	Select(ctx context.Context, id string) ([]domain.Report, error)
}

type Option func(*reportStore)

// WithUUIDGenerator replaces uuid.NewString for reports inserted without an id.
func WithUUIDGenerator(gen func() string) Option {
	return func(s *reportStore) {
		s.newUUID = gen
	}
}

// WithClock replaces time.Now as the source of modified_at.
func WithClock(now func() time.Time) Option {
	return func(s *reportStore) {
		s.now = now
	}
}

type reportStore struct {
	db      *sql.DB
	newUUID func() string
	now     func() time.Time
}

func NewStore(db *sql.DB, opts ...Option) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	s := &reportStore{
		db:      db,
		newUUID: uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *reportStore) Initialize(ctx context.Context) error {
	if _, err := sqlite.Conn(ctx, s.db).ExecContext(ctx, sqlite.ReportsTableSchema); err != nil {
		return fmt.Errorf("%w: create reports table: %v", domain.ErrStore, err)
	}
	return nil
}

func (s *reportStore) Insert(ctx context.Context, stock, start, end, data, id string) ([]domain.Report, error) {
	if id == "" {
		id = s.newUUID()
	}

	// A caller-owned transaction decides the outcome itself.
	if sqlite.GetTransaction(ctx) != nil {
		return s.insert(ctx, stock, start, end, data, id)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin insert %s: %v", domain.ErrStore, id, err)
	}

	reports, err := s.insert(sqlite.WithTransaction(ctx, tx), stock, start, end, data, id)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			zerolog.Ctx(ctx).Warn().Err(rbErr).Str("uuid", id).Msg("failed to roll back insert")
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit insert %s: %v", domain.ErrStore, id, err)
	}

	return reports, nil
}

// insert writes the row and reads it back on the connection bound to ctx.
func (s *reportStore) insert(ctx context.Context, stock, start, end, data, id string) ([]domain.Report, error) {
	query := `
		INSERT INTO reports (uuid, stock, start, "end", data, modified_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := sqlite.Conn(ctx, s.db).ExecContext(ctx, query, id, stock, start, end, data, s.now().Unix())
	if err != nil {
		return nil, fmt.Errorf("%w: insert report %s: %v", domain.ErrStore, id, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("uuid", id).
		Str("stock", stock).
		Msg("report inserted")

	return s.Select(ctx, id)
}

func (s *reportStore) Select(ctx context.Context, id string) ([]domain.Report, error) {
	logger := zerolog.Ctx(ctx)

	query := `SELECT id, uuid, stock, start, "end", data, modified_at FROM reports`
	var args []interface{}
	if id != "" {
		query += ` WHERE uuid = ?`
		args = append(args, id)
	}
	query += ` ORDER BY id`

	rows, err := sqlite.Conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query reports: %v", domain.ErrStore, err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close reports query rows")
		}
	}(rows)

	reports := make([]domain.Report, 0)
	for rows.Next() {
		var r store.Report
		if err := rows.Scan(&r.ID, &r.UUID, &r.Stock, &r.Start, &r.End, &r.Data, &r.ModifiedAt); err != nil {
			return nil, fmt.Errorf("%w: scan report: %v", domain.ErrStore, err)
		}
		reports = append(reports, adapters.MapStoreReportToDomain(r))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate reports: %v", domain.ErrStore, err)
	}

	return reports, nil
}
