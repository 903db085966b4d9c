package schedule

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finny-schedules/internal/recurrence"
	"github.com/MrJamesThe3rd/finny-schedules/internal/transaction"
)

var (
	ErrNotFound = errors.New("scheduled series not found")

	// ErrConflict means another writer holds the series. Sweeps skip the
	// series and retry on the next pass.
	ErrConflict = errors.New("scheduled series is busy")

	// ErrPersistence wraps failures of the atomic materialization step. The
	// step is rolled back and retried on the next sweep.
	ErrPersistence = errors.New("persisting occurrence failed")

	// ErrGeneration flags a validated rule that produced an impossible date.
	ErrGeneration = errors.New("occurrence generation invariant violated")
)

// Status is derived from a series' rule and progress; it is never stored.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusExhausted Status = "EXHAUSTED"
)

// State is the lifecycle state of an occurrence.
type State string

const (
	StateUpcoming  State = "UPCOMING"
	StateCompleted State = "COMPLETED"
)

// Series is one recurring-transaction declaration together with its
// materialization progress.
type Series struct {
	ID       uuid.UUID
	Rule     recurrence.Rule
	Template transaction.Details

	OccurrencesGenerated int
	LastMaterializedDate *time.Time

	// RuleBase is the number of occurrences materialized before the current
	// rule took effect. RuleSkip is the number of the current rule's
	// candidates already covered by that history.
	RuleBase int
	RuleSkip int

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// nextIndex is the rule index of the first candidate not yet materialized.
func (s *Series) nextIndex() int {
	return s.OccurrencesGenerated - s.RuleBase + s.RuleSkip + 1
}

// Next returns the next candidate occurrence date, whether due or not.
func (s *Series) Next() (time.Time, bool) {
	return s.Rule.At(s.nextIndex())
}

func (s *Series) Status() Status {
	if _, ok := s.Next(); ok {
		return StatusActive
	}

	return StatusExhausted
}

// Occurrence is one materialized, dated instance of a series.
type Occurrence struct {
	ID             uuid.UUID
	SeriesID       uuid.UUID
	SequenceNumber int
	ScheduledDate  time.Time
	State          State
	TransactionID  uuid.UUID
	CreatedAt      time.Time
}

// Upcoming is the derived preview of a series' next occurrence.
type Upcoming struct {
	Series *Series
	Next   time.Time
}
