package schedule

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finny-schedules/internal/recurrence"
	"github.com/MrJamesThe3rd/finny-schedules/internal/schedule"
	"github.com/MrJamesThe3rd/finny-schedules/internal/transaction"
)

type contentResponse[T any] struct {
	Content []T `json:"content"`
}

type recurrenceResponse struct {
	Frequency       recurrence.Frequency `json:"frequency"`
	Interval        int                  `json:"interval"`
	EndType         recurrence.EndType   `json:"end_type"`
	EndDate         *string              `json:"end_date,omitempty"`
	OccurrenceLimit *int                 `json:"occurrence_limit,omitempty"`
	StartDate       string               `json:"start_date"`
	RRule           string               `json:"rrule,omitempty"`
}

type seriesResponse struct {
	ID                   uuid.UUID          `json:"id"`
	Type                 string             `json:"type"`
	Amount               int64              `json:"amount"`
	Description          string             `json:"description"`
	CategoryID           *uuid.UUID         `json:"category_id,omitempty"`
	AccountID            *uuid.UUID         `json:"account_id,omitempty"`
	FromAccountID        *uuid.UUID         `json:"from_account_id,omitempty"`
	ToAccountID          *uuid.UUID         `json:"to_account_id,omitempty"`
	PaymentModeID        *uuid.UUID         `json:"payment_mode_id,omitempty"`
	FromPaymentModeID    *uuid.UUID         `json:"from_payment_mode_id,omitempty"`
	ToPaymentModeID      *uuid.UUID         `json:"to_payment_mode_id,omitempty"`
	Tags                 []string           `json:"tags"`
	Recurrence           recurrenceResponse `json:"recurrence"`
	OccurrencesGenerated int                `json:"occurrences_generated"`
	LastMaterializedDate *string            `json:"last_materialized_date,omitempty"`
	Status               schedule.Status    `json:"status"`
	NextDate             *string            `json:"next_date,omitempty"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            *time.Time         `json:"updated_at,omitempty"`
}

type upcomingResponse struct {
	SeriesID       uuid.UUID      `json:"series_id"`
	SequenceNumber int            `json:"sequence_number"`
	Date           string         `json:"date"`
	State          schedule.State `json:"state"`
	Type           string         `json:"type"`
	Amount         int64          `json:"amount"`
	Description    string         `json:"description"`
	AccountID      *uuid.UUID     `json:"account_id,omitempty"`
	FromAccountID  *uuid.UUID     `json:"from_account_id,omitempty"`
	ToAccountID    *uuid.UUID     `json:"to_account_id,omitempty"`
}

type occurrenceResponse struct {
	ID             uuid.UUID      `json:"id"`
	SeriesID       uuid.UUID      `json:"series_id"`
	SequenceNumber int            `json:"sequence_number"`
	Date           string         `json:"date"`
	State          schedule.State `json:"state"`
	TransactionID  uuid.UUID      `json:"transaction_id"`
	CreatedAt      time.Time      `json:"created_at"`
}

// wireType maps ledger types to the path segment clients use.
func wireType(t transaction.Type) string {
	if t == transaction.TypeIncome {
		return "incoming"
	}

	return string(t)
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}

	s := t.Format(time.DateOnly)

	return &s
}

func toSeriesResponse(s *schedule.Series) seriesResponse {
	t := s.Template

	resp := seriesResponse{
		ID:                s.ID,
		Type:              wireType(t.Type),
		Amount:            t.Amount,
		Description:       t.Description,
		CategoryID:        t.CategoryID,
		AccountID:         t.AccountID,
		FromAccountID:     t.FromAccountID,
		ToAccountID:       t.ToAccountID,
		PaymentModeID:     t.PaymentModeID,
		FromPaymentModeID: t.FromPaymentModeID,
		ToPaymentModeID:   t.ToPaymentModeID,
		Tags:              t.Tags,
		Recurrence: recurrenceResponse{
			Frequency:       s.Rule.Frequency,
			Interval:        s.Rule.Interval,
			EndType:         s.Rule.EndType,
			EndDate:         formatDate(s.Rule.EndDate),
			OccurrenceLimit: s.Rule.OccurrenceLimit,
			StartDate:       s.Rule.AnchorDate.Format(time.DateOnly),
		},
		OccurrencesGenerated: s.OccurrencesGenerated,
		LastMaterializedDate: formatDate(s.LastMaterializedDate),
		Status:               s.Status(),
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}

	if resp.Tags == nil {
		resp.Tags = []string{}
	}

	if next, ok := s.Next(); ok {
		resp.NextDate = formatDate(&next)
	}

	rr, err := s.Rule.RRule()
	if err != nil {
		slog.Warn("rendering rrule", "series_id", s.ID, "error", err)
	} else {
		resp.Recurrence.RRule = rr
	}

	return resp
}

func toUpcomingResponse(u schedule.Upcoming) upcomingResponse {
	t := u.Series.Template

	return upcomingResponse{
		SeriesID:       u.Series.ID,
		SequenceNumber: u.Series.OccurrencesGenerated + 1,
		Date:           u.Next.Format(time.DateOnly),
		State:          schedule.StateUpcoming,
		Type:           wireType(t.Type),
		Amount:         t.Amount,
		Description:    t.Description,
		AccountID:      t.AccountID,
		FromAccountID:  t.FromAccountID,
		ToAccountID:    t.ToAccountID,
	}
}

func toOccurrenceResponse(o *schedule.Occurrence) occurrenceResponse {
	return occurrenceResponse{
		ID:             o.ID,
		SeriesID:       o.SeriesID,
		SequenceNumber: o.SequenceNumber,
		Date:           o.ScheduledDate.Format(time.DateOnly),
		State:          o.State,
		TransactionID:  o.TransactionID,
		CreatedAt:      o.CreatedAt,
	}
}

func toOccurrenceList(occs []*schedule.Occurrence) contentResponse[occurrenceResponse] {
	resp := contentResponse[occurrenceResponse]{Content: make([]occurrenceResponse, len(occs))}
	for i, o := range occs {
		resp.Content[i] = toOccurrenceResponse(o)
	}

	return resp
}
