package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/svyas/admitcast/internal/domain/category"
	"github.com/svyas/admitcast/internal/domain/types"
	"github.com/svyas/admitcast/pkg/logger"
	"github.com/svyas/admitcast/pkg/metrics"
)

// Postgres store defaults.
const (
	defaultMaxOpenConns = 16
	defaultMaxIdleConns = 8
	defaultPingRetries  = 10
	pingRetryDelay      = 2 * time.Second
	insertBatchSize     = 100
	insertColumns       = 10
)

// PostgresStore implements Store on PostgreSQL via database/sql + lib/pq.
type PostgresStore struct {
	db           *sql.DB
	log          logger.Logger
	maxOpenConns int
	maxIdleConns int
	pingRetries  int
}

// NewPostgresStore opens a connection pool, pings with retries, runs the
// schema migration and returns a ready-to-use store.
func NewPostgresStore(ctx context.Context, dsn string, opts ...Option) (*PostgresStore, error) {
	s := &PostgresStore{
		maxOpenConns: defaultMaxOpenConns,
		maxIdleConns: defaultMaxIdleConns,
		pingRetries:  defaultPingRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("repository")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	db.SetMaxOpenConns(s.maxOpenConns)
	db.SetMaxIdleConns(s.maxIdleConns)

	for i := 0; i < s.pingRetries; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(pingRetryDelay):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	s.db = db
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cutoffs (
			id             BIGSERIAL PRIMARY KEY,
			institute      TEXT NOT NULL,
			program        TEXT NOT NULL,
			quota          TEXT NOT NULL,
			seat_type      TEXT NOT NULL,
			gender         TEXT NOT NULL,
			institute_type TEXT NOT NULL DEFAULT '',
			year           INT  NOT NULL,
			round          INT  NOT NULL,
			opening_rank   INT,
			closing_rank   INT,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (institute, program, quota, seat_type, gender, year, round)
		);

		CREATE INDEX IF NOT EXISTS idx_cutoffs_cycle   ON cutoffs(year, round);
		CREATE INDEX IF NOT EXISTS idx_cutoffs_closing ON cutoffs(closing_rank);
	`)
	return err
}

// Candidates returns the rows matching q for one admission cycle. The SQL
// ORDER BY is only a pre-filter that keeps the bounded set near the
// candidate's rank; display order is re-established in memory.
func (s *PostgresStore) Candidates(ctx context.Context, q Query) ([]types.CutoffRecord, error) {
	if q.Year <= 0 || q.Round <= 0 || q.Limit <= 0 {
		return nil, fmt.Errorf("%w: year, round and limit must be positive", ErrInvalidArgs)
	}

	query, args := buildCandidatesQuery(q)
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query, args...)
	metrics.RecordStorageQueryLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordStorageError()
		return nil, fmt.Errorf("postgres: candidates: %w", err)
	}
	defer rows.Close()

	records, err := scanCutoffRows(rows)
	if err != nil {
		metrics.RecordStorageError()
		return nil, err
	}

	// Category is derived from text labels, not stored; filter after scan.
	if q.Category != "" {
		filtered := records[:0]
		for _, rec := range records {
			if classifyRecord(rec) == q.Category {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}
	return records, nil
}

// History fetches all rows for the given program identities in one batched
// query.
func (s *PostgresStore) History(ctx context.Context, keys []types.ProgramKey) (map[types.ProgramKey][]types.CutoffRecord, error) {
	out := make(map[types.ProgramKey][]types.CutoffRecord, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	placeholders := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys)*5)
	for i, key := range keys {
		base := i * 5
		placeholders = append(placeholders,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4, base+5))
		args = append(args, key.Institute, key.Program, key.Quota, key.SeatType, key.Gender)
	}

	query := fmt.Sprintf(`
		SELECT institute, program, quota, seat_type, gender, institute_type,
		       year, round, opening_rank, closing_rank
		FROM cutoffs
		WHERE (institute, program, quota, seat_type, gender) IN (%s)
		ORDER BY year DESC, round DESC
	`, strings.Join(placeholders, ","))

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query, args...)
	metrics.RecordStorageQueryLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordStorageError()
		return nil, fmt.Errorf("postgres: history: %w", err)
	}
	defer rows.Close()

	records, err := scanCutoffRows(rows)
	if err != nil {
		metrics.RecordStorageError()
		return nil, err
	}
	for _, rec := range records {
		out[rec.Key] = append(out[rec.Key], rec)
	}
	return out, nil
}

// MaxYear returns the latest admission year present.
func (s *PostgresStore) MaxYear(ctx context.Context) (int, error) {
	var year sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(year) FROM cutoffs`).Scan(&year)
	if err != nil {
		metrics.RecordStorageError()
		return 0, fmt.Errorf("postgres: max year: %w", err)
	}
	if !year.Valid {
		return 0, ErrNoData
	}
	return int(year.Int64), nil
}

// MaxRound returns the latest round recorded for a year.
func (s *PostgresStore) MaxRound(ctx context.Context, year int) (int, error) {
	var round sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(round) FROM cutoffs WHERE year = $1`, year).Scan(&round)
	if err != nil {
		metrics.RecordStorageError()
		return 0, fmt.Errorf("postgres: max round: %w", err)
	}
	if !round.Valid {
		return 0, ErrNoData
	}
	return int(round.Int64), nil
}

// Insert batch-inserts cutoff rows, skipping rows that already exist.
func (s *PostgresStore) Insert(ctx context.Context, records []types.CutoffRecord) error {
	for i := 0; i < len(records); i += insertBatchSize {
		end := i + insertBatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := s.insertBatch(ctx, records[i:end]); err != nil {
			metrics.RecordStorageError()
			return err
		}
	}
	return nil
}

func (s *PostgresStore) insertBatch(ctx context.Context, batch []types.CutoffRecord) error {
	if len(batch) == 0 {
		return nil
	}
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*insertColumns)
	for idx, rec := range batch {
		base := idx * insertColumns
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10))
		valueArgs = append(valueArgs,
			rec.Key.Institute, rec.Key.Program, rec.Key.Quota, rec.Key.SeatType, rec.Key.Gender,
			rec.InstituteType, rec.Year, rec.Round, rec.OpeningRank, rec.ClosingRank)
	}

	query := fmt.Sprintf(`
		INSERT INTO cutoffs (institute, program, quota, seat_type, gender,
		                     institute_type, year, round, opening_rank, closing_rank)
		VALUES %s
		ON CONFLICT (institute, program, quota, seat_type, gender, year, round) DO NOTHING
	`, strings.Join(valueStrings, ","))

	if _, err := s.db.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// buildCandidatesQuery assembles the filtered, bounded candidate query.
func buildCandidatesQuery(q Query) (string, []interface{}) {
	var (
		where = []string{"year = $1", "round = $2"}
		args  = []interface{}{q.Year, q.Round}
	)
	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if q.Institute != "" {
		add("institute ILIKE '%%' || $%d || '%%'", q.Institute)
	}
	if q.Program != "" {
		add("program ILIKE '%%' || $%d || '%%'", q.Program)
	}
	if q.Quota != "" {
		add("quota = $%d", q.Quota)
	}
	if q.SeatType != "" {
		add("seat_type = $%d", q.SeatType)
	}
	if q.Gender != "" {
		add("gender = $%d", q.Gender)
	}

	orderBy := "institute ASC, program ASC"
	if q.Rank != nil {
		args = append(args, *q.Rank)
		orderBy = fmt.Sprintf("closing_rank IS NULL, ABS(closing_rank - $%d) ASC", len(args))
	}
	args = append(args, q.Limit)

	query := fmt.Sprintf(`
		SELECT institute, program, quota, seat_type, gender, institute_type,
		       year, round, opening_rank, closing_rank
		FROM cutoffs
		WHERE %s
		ORDER BY %s
		LIMIT $%d
	`, strings.Join(where, " AND "), orderBy, len(args))
	return query, args
}

// scanCutoffRows drains rows into records, converting nullable ranks.
func scanCutoffRows(rows *sql.Rows) ([]types.CutoffRecord, error) {
	var records []types.CutoffRecord
	for rows.Next() {
		var (
			rec     types.CutoffRecord
			opening sql.NullInt64
			closing sql.NullInt64
		)
		if err := rows.Scan(
			&rec.Key.Institute, &rec.Key.Program, &rec.Key.Quota, &rec.Key.SeatType, &rec.Key.Gender,
			&rec.InstituteType, &rec.Year, &rec.Round, &opening, &closing,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		rec.OpeningRank = nullableInt(opening)
		rec.ClosingRank = nullableInt(closing)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows: %w", err)
	}
	return records, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	return types.IntPtr(int(v.Int64))
}

func classifyRecord(rec types.CutoffRecord) types.Category {
	label := rec.InstituteType
	if label == "" {
		label = rec.Key.Institute
	}
	return category.Classify(label)
}
