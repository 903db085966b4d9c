package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finny-schedules/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// SelectColumns is the column list expected by Scan.
const SelectColumns = `
	t.id, t.series_id, t.type, t.amount, t.description,
	t.category_id, t.account_id, t.from_account_id, t.to_account_id,
	t.payment_mode_id, t.from_payment_mode_id, t.to_payment_mode_id,
	t.tags, t.date, t.created_at, t.updated_at, t.deleted_at
`

// Scan reads a transaction row in SelectColumns order.
func Scan(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr string

	var tags []byte

	if err := s.Scan(
		&tx.ID, &tx.SeriesID, &typeStr, &tx.Amount, &tx.Description,
		&tx.CategoryID, &tx.AccountID, &tx.FromAccountID, &tx.ToAccountID,
		&tx.PaymentModeID, &tx.FromPaymentModeID, &tx.ToPaymentModeID,
		&tags, &tx.Date, &tx.CreatedAt, &tx.UpdatedAt, &tx.DeletedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)

	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &tx.Tags); err != nil {
			return nil, fmt.Errorf("decoding tags: %w", err)
		}
	}

	return &tx, nil
}

// Insert writes tx through q and fills its generated fields. Used directly by
// callers that need the insert to join a larger database transaction.
func Insert(ctx context.Context, q Querier, tx *transaction.Transaction) error {
	tags, err := json.Marshal(tx.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	query := `
		INSERT INTO transactions (
			series_id, type, amount, description,
			category_id, account_id, from_account_id, to_account_id,
			payment_mode_id, from_payment_mode_id, to_payment_mode_id,
			tags, date, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRowContext(ctx, query,
		tx.SeriesID,
		tx.Type,
		tx.Amount,
		tx.Description,
		tx.CategoryID,
		tx.AccountID,
		tx.FromAccountID,
		tx.ToAccountID,
		tx.PaymentModeID,
		tx.FromPaymentModeID,
		tx.ToPaymentModeID,
		string(tags),
		tx.Date,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	return Insert(ctx, s.db, tx)
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + SelectColumns + `
		FROM transactions t
		WHERE t.id = $1 AND t.deleted_at IS NULL`

	tx, err := Scan(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + SelectColumns + `
		FROM transactions t
		WHERE t.deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.SeriesID != nil {
		query += fmt.Sprintf(" AND t.series_id = $%d", argIdx)

		args = append(args, *filter.SeriesID)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY t.date ASC, t.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE transactions
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}
