package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("transaction not found")

// Type represents the kind of transaction.
type Type string

const (
	TypeExpense  Type = "expense"
	TypeIncome   Type = "income"
	TypeTransfer Type = "transfer"
)

func (t Type) Valid() bool {
	switch t {
	case TypeExpense, TypeIncome, TypeTransfer:
		return true
	}

	return false
}

// Details holds everything a ledger transaction carries apart from its date.
// Scheduled series store it as their template and copy it verbatim into each
// occurrence.
type Details struct {
	Type              Type
	Amount            int64 // Amount in cents
	Description       string
	CategoryID        *uuid.UUID
	AccountID         *uuid.UUID
	FromAccountID     *uuid.UUID
	ToAccountID       *uuid.UUID
	PaymentModeID     *uuid.UUID
	FromPaymentModeID *uuid.UUID
	ToPaymentModeID   *uuid.UUID
	Tags              []string
}

// Transaction represents a financial transaction in the ledger.
type Transaction struct {
	ID       uuid.UUID
	SeriesID *uuid.UUID // Set when produced by a scheduled series
	Details
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}
