package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finny-schedules/internal/transaction"
)

type transactionResponse struct {
	ID                uuid.UUID        `json:"id"`
	SeriesID          *uuid.UUID       `json:"series_id,omitempty"`
	Type              transaction.Type `json:"type"`
	Amount            int64            `json:"amount"`
	Description       string           `json:"description"`
	CategoryID        *uuid.UUID       `json:"category_id,omitempty"`
	AccountID         *uuid.UUID       `json:"account_id,omitempty"`
	FromAccountID     *uuid.UUID       `json:"from_account_id,omitempty"`
	ToAccountID       *uuid.UUID       `json:"to_account_id,omitempty"`
	PaymentModeID     *uuid.UUID       `json:"payment_mode_id,omitempty"`
	FromPaymentModeID *uuid.UUID       `json:"from_payment_mode_id,omitempty"`
	ToPaymentModeID   *uuid.UUID       `json:"to_payment_mode_id,omitempty"`
	Tags              []string         `json:"tags"`
	Date              string           `json:"date"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         *time.Time       `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:                tx.ID,
		SeriesID:          tx.SeriesID,
		Type:              tx.Type,
		Amount:            tx.Amount,
		Description:       tx.Description,
		CategoryID:        tx.CategoryID,
		AccountID:         tx.AccountID,
		FromAccountID:     tx.FromAccountID,
		ToAccountID:       tx.ToAccountID,
		PaymentModeID:     tx.PaymentModeID,
		FromPaymentModeID: tx.FromPaymentModeID,
		ToPaymentModeID:   tx.ToPaymentModeID,
		Tags:              tx.Tags,
		Date:              tx.Date.Format(time.DateOnly),
		CreatedAt:         tx.CreatedAt,
		UpdatedAt:         tx.UpdatedAt,
	}

	if resp.Tags == nil {
		resp.Tags = []string{}
	}

	return resp
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
