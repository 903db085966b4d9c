package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finny-schedules/internal/recurrence"
	"github.com/MrJamesThe3rd/finny-schedules/internal/transaction"
)

type recurrenceRequest struct {
	Frequency       recurrence.Frequency `json:"frequency" validate:"required,oneof=NONE DAILY WEEKLY MONTHLY YEARLY"`
	Interval        int                  `json:"interval" validate:"gte=0"`
	EndType         recurrence.EndType   `json:"end_type" validate:"required,oneof=NEVER ON_DATE AFTER_OCCURRENCES"`
	EndDate         string               `json:"end_date,omitempty" validate:"required_if=EndType ON_DATE,omitempty,datetime=2006-01-02"`
	OccurrenceLimit *int                 `json:"occurrence_limit,omitempty" validate:"required_if=EndType AFTER_OCCURRENCES,omitempty,gte=1"`
	StartDate       string               `json:"start_date" validate:"required,datetime=2006-01-02"`
}

type scheduleRequest struct {
	// ID is only read on update.
	ID                *uuid.UUID        `json:"id,omitempty"`
	Amount            int64             `json:"amount" validate:"required,gt=0"`
	Description       string            `json:"description" validate:"max=255"`
	CategoryID        *uuid.UUID        `json:"category_id,omitempty"`
	AccountID         *uuid.UUID        `json:"account_id,omitempty"`
	FromAccountID     *uuid.UUID        `json:"from_account_id,omitempty"`
	ToAccountID       *uuid.UUID        `json:"to_account_id,omitempty"`
	PaymentModeID     *uuid.UUID        `json:"payment_mode_id,omitempty"`
	FromPaymentModeID *uuid.UUID        `json:"from_payment_mode_id,omitempty"`
	ToPaymentModeID   *uuid.UUID        `json:"to_payment_mode_id,omitempty"`
	Tags              []string          `json:"tags,omitempty" validate:"max=20,dive,max=50"`
	Recurrence        recurrenceRequest `json:"recurrence"`
}

func (req scheduleRequest) rule() (recurrence.Rule, error) {
	start, err := time.Parse(time.DateOnly, req.Recurrence.StartDate)
	if err != nil {
		return recurrence.Rule{}, fmt.Errorf("%w: start_date: %w", recurrence.ErrInvalidRule, err)
	}

	rule := recurrence.Rule{
		Frequency:       req.Recurrence.Frequency,
		Interval:        req.Recurrence.Interval,
		EndType:         req.Recurrence.EndType,
		OccurrenceLimit: req.Recurrence.OccurrenceLimit,
		AnchorDate:      start,
	}

	if req.Recurrence.EndDate != "" {
		end, err := time.Parse(time.DateOnly, req.Recurrence.EndDate)
		if err != nil {
			return recurrence.Rule{}, fmt.Errorf("%w: end_date: %w", recurrence.ErrInvalidRule, err)
		}

		rule.EndDate = &end
	}

	return rule, nil
}

func (req scheduleRequest) template(typ transaction.Type) transaction.Details {
	return transaction.Details{
		Type:              typ,
		Amount:            req.Amount,
		Description:       req.Description,
		CategoryID:        req.CategoryID,
		AccountID:         req.AccountID,
		FromAccountID:     req.FromAccountID,
		ToAccountID:       req.ToAccountID,
		PaymentModeID:     req.PaymentModeID,
		FromPaymentModeID: req.FromPaymentModeID,
		ToPaymentModeID:   req.ToPaymentModeID,
		Tags:              req.Tags,
	}
}
