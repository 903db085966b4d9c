package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/finny-schedules/internal/recurrence"
	"github.com/MrJamesThe3rd/finny-schedules/internal/schedule"
	"github.com/MrJamesThe3rd/finny-schedules/internal/transaction"
	txstore "github.com/MrJamesThe3rd/finny-schedules/internal/transaction/store"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectSeriesColumns = `
	s.id, s.frequency, s.interval_count, s.end_type, s.end_date, s.occurrence_limit, s.anchor_date,
	s.type, s.amount, s.description, s.category_id, s.account_id, s.from_account_id, s.to_account_id,
	s.payment_mode_id, s.from_payment_mode_id, s.to_payment_mode_id, s.tags,
	s.occurrences_generated, s.last_materialized_date, s.rule_base, s.rule_skip,
	s.created_at, s.updated_at
`

func scanSeries(sc scanner) (*schedule.Series, error) {
	var (
		s         schedule.Series
		frequency string
		endType   string
		txType    string
		tags      []byte
	)

	t := &s.Template

	if err := sc.Scan(
		&s.ID, &frequency, &s.Rule.Interval, &endType, &s.Rule.EndDate, &s.Rule.OccurrenceLimit, &s.Rule.AnchorDate,
		&txType, &t.Amount, &t.Description, &t.CategoryID, &t.AccountID, &t.FromAccountID, &t.ToAccountID,
		&t.PaymentModeID, &t.FromPaymentModeID, &t.ToPaymentModeID, &tags,
		&s.OccurrencesGenerated, &s.LastMaterializedDate, &s.RuleBase, &s.RuleSkip,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	s.Rule.Frequency = recurrence.Frequency(frequency)
	s.Rule.EndType = recurrence.EndType(endType)
	s.Rule = s.Rule.Normalize()
	t.Type = transaction.Type(txType)

	if s.LastMaterializedDate != nil {
		d := recurrence.Date(*s.LastMaterializedDate)
		s.LastMaterializedDate = &d
	}

	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &t.Tags); err != nil {
			return nil, fmt.Errorf("decoding tags: %w", err)
		}
	}

	return &s, nil
}

const selectOccurrenceColumns = `
	o.id, o.series_id, o.sequence_number, o.scheduled_date, o.state, o.transaction_id, o.created_at
`

func scanOccurrence(sc scanner) (*schedule.Occurrence, error) {
	var (
		o     schedule.Occurrence
		state string
	)

	if err := sc.Scan(&o.ID, &o.SeriesID, &o.SequenceNumber, &o.ScheduledDate, &state, &o.TransactionID, &o.CreatedAt); err != nil {
		return nil, err
	}

	o.State = schedule.State(state)
	o.ScheduledDate = recurrence.Date(o.ScheduledDate)

	return &o, nil
}

func (s *Store) CreateSeries(ctx context.Context, series *schedule.Series) error {
	tags, err := json.Marshal(series.Template.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	r := series.Rule
	t := series.Template

	query := `
		INSERT INTO scheduled_series (
			frequency, interval_count, end_type, end_date, occurrence_limit, anchor_date,
			type, amount, description, category_id, account_id, from_account_id, to_account_id,
			payment_mode_id, from_payment_mode_id, to_payment_mode_id, tags,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = s.db.QueryRowContext(ctx, query,
		r.Frequency, r.Interval, r.EndType, r.EndDate, r.OccurrenceLimit, r.AnchorDate,
		t.Type, t.Amount, t.Description, t.CategoryID, t.AccountID, t.FromAccountID, t.ToAccountID,
		t.PaymentModeID, t.FromPaymentModeID, t.ToPaymentModeID, string(tags),
	).Scan(&series.ID, &series.CreatedAt, &series.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating series: %w", err)
	}

	return nil
}

func (s *Store) GetSeries(ctx context.Context, id uuid.UUID) (*schedule.Series, error) {
	return getSeries(ctx, s.db, id)
}

func getSeries(ctx context.Context, q txstore.Querier, id uuid.UUID) (*schedule.Series, error) {
	query := `SELECT ` + selectSeriesColumns + `
		FROM scheduled_series s
		WHERE s.id = $1`

	series, err := scanSeries(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schedule.ErrNotFound
		}

		return nil, fmt.Errorf("getting series: %w", err)
	}

	return series, nil
}

func (s *Store) ListSeries(ctx context.Context, filter schedule.SeriesFilter) ([]*schedule.Series, error) {
	query := `SELECT ` + selectSeriesColumns + `
		FROM scheduled_series s`

	var args []any

	if filter.AnchorOnOrBefore != nil {
		query += " WHERE s.anchor_date <= $1"

		args = append(args, *filter.AnchorOnOrBefore)
	}

	query += " ORDER BY s.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing series: %w", err)
	}
	defer rows.Close()

	var out []*schedule.Series

	for rows.Next() {
		series, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning series: %w", err)
		}

		out = append(out, series)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating series rows: %w", err)
	}

	return out, nil
}

func (s *Store) ListOccurrences(ctx context.Context, filter schedule.OccurrenceFilter) ([]*schedule.Occurrence, error) {
	query := `SELECT ` + selectOccurrenceColumns + `
		FROM occurrences o`

	var args []any

	if filter.SeriesID != nil {
		query += " WHERE o.series_id = $1"

		args = append(args, *filter.SeriesID)
	}

	query += " ORDER BY o.scheduled_date DESC, o.sequence_number DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing occurrences: %w", err)
	}
	defer rows.Close()

	var out []*schedule.Occurrence

	for rows.Next() {
		o, err := scanOccurrence(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning occurrence: %w", err)
		}

		out = append(out, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating occurrence rows: %w", err)
	}

	return out, nil
}

func seriesLockKey(id uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("scheduled_series"))
	h.Write([]byte{0})
	h.Write(id[:])

	return int64(h.Sum64())
}

type seriesTx struct {
	tx     *sql.Tx
	series *schedule.Series
}

// BeginSeries takes the series advisory lock for the lifetime of the database
// transaction. In LockTry mode a held lock fails fast with ErrConflict.
func (s *Store) BeginSeries(ctx context.Context, id uuid.UUID, mode schedule.LockMode) (schedule.SeriesTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning series tx: %w", err)
	}

	if err := lockSeries(ctx, dbTx, id, mode); err != nil {
		dbTx.Rollback()
		return nil, err
	}

	series, err := getSeries(ctx, dbTx, id)
	if err != nil {
		dbTx.Rollback()
		return nil, err
	}

	return &seriesTx{tx: dbTx, series: series}, nil
}

func lockSeries(ctx context.Context, dbTx *sql.Tx, id uuid.UUID, mode schedule.LockMode) error {
	key := seriesLockKey(id)

	if mode == schedule.LockWait {
		if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", key); err != nil {
			return fmt.Errorf("acquiring series lock: %w", err)
		}

		return nil
	}

	var ok bool
	if err := dbTx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1)", key).Scan(&ok); err != nil {
		return fmt.Errorf("acquiring series lock: %w", err)
	}

	if !ok {
		return schedule.ErrConflict
	}

	return nil
}

func (st *seriesTx) Series() *schedule.Series { return st.series }
func (st *seriesTx) Commit() error            { return st.tx.Commit() }
func (st *seriesTx) Rollback() error          { return st.tx.Rollback() }

func (st *seriesTx) Materialize(ctx context.Context, occ *schedule.Occurrence, tx *transaction.Transaction) error {
	if err := txstore.Insert(ctx, st.tx, tx); err != nil {
		return err
	}

	progress := `
		UPDATE scheduled_series
		SET occurrences_generated = $2, last_materialized_date = $3, updated_at = NOW()
		WHERE id = $1 AND occurrences_generated = $4
	`

	res, err := st.tx.ExecContext(ctx, progress, occ.SeriesID, occ.SequenceNumber, occ.ScheduledDate, occ.SequenceNumber-1)
	if err != nil {
		return fmt.Errorf("advancing series progress: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("advancing series progress: %w", err)
	}

	if n == 0 {
		return schedule.ErrConflict
	}

	insert := `
		INSERT INTO occurrences (series_id, sequence_number, scheduled_date, state, transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err = st.tx.QueryRowContext(ctx, insert,
		occ.SeriesID, occ.SequenceNumber, occ.ScheduledDate, occ.State, tx.ID,
	).Scan(&occ.ID, &occ.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return schedule.ErrConflict
		}

		return fmt.Errorf("creating occurrence: %w", err)
	}

	occ.TransactionID = tx.ID

	last := occ.ScheduledDate
	st.series.OccurrencesGenerated = occ.SequenceNumber
	st.series.LastMaterializedDate = &last

	return nil
}

func (st *seriesTx) UpdateSeries(ctx context.Context, s *schedule.Series) error {
	tags, err := json.Marshal(s.Template.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	r := s.Rule
	t := s.Template

	query := `
		UPDATE scheduled_series
		SET frequency = $2, interval_count = $3, end_type = $4, end_date = $5,
			occurrence_limit = $6, anchor_date = $7,
			type = $8, amount = $9, description = $10, category_id = $11,
			account_id = $12, from_account_id = $13, to_account_id = $14,
			payment_mode_id = $15, from_payment_mode_id = $16, to_payment_mode_id = $17,
			tags = $18, rule_base = $19, rule_skip = $20, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	var updatedAt time.Time

	err = st.tx.QueryRowContext(ctx, query, s.ID,
		r.Frequency, r.Interval, r.EndType, r.EndDate, r.OccurrenceLimit, r.AnchorDate,
		t.Type, t.Amount, t.Description, t.CategoryID,
		t.AccountID, t.FromAccountID, t.ToAccountID,
		t.PaymentModeID, t.FromPaymentModeID, t.ToPaymentModeID,
		string(tags), s.RuleBase, s.RuleSkip,
	).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schedule.ErrNotFound
		}

		return fmt.Errorf("updating series: %w", err)
	}

	s.UpdatedAt = &updatedAt

	return nil
}

// DeleteSeries soft-deletes the ledger transactions produced by the series and
// removes the series. Occurrences go with it through ON DELETE CASCADE.
func (st *seriesTx) DeleteSeries(ctx context.Context) error {
	ledger := `
		UPDATE transactions
		SET deleted_at = NOW()
		WHERE deleted_at IS NULL
			AND id IN (SELECT transaction_id FROM occurrences WHERE series_id = $1)
	`
	if _, err := st.tx.ExecContext(ctx, ledger, st.series.ID); err != nil {
		return fmt.Errorf("deleting series transactions: %w", err)
	}

	res, err := st.tx.ExecContext(ctx, "DELETE FROM scheduled_series WHERE id = $1", st.series.ID)
	if err != nil {
		return fmt.Errorf("deleting series: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting series: %w", err)
	}

	if n == 0 {
		return schedule.ErrNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
