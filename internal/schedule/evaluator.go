package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finny-schedules/internal/transaction"
)

// Evaluate materializes every candidate of the series dated on or before the
// civil date of now. Candidates are committed one at a time in ascending
// order, so a failure leaves all earlier occurrences in place and the next
// call resumes from the committed progress.
func (s *Service) Evaluate(ctx context.Context, id uuid.UUID, now time.Time) ([]*Occurrence, error) {
	unlock, ok, err := s.locker.TryLock(ctx, lockKey(id))
	if err != nil {
		return nil, fmt.Errorf("locking series: %w", err)
	}

	if !ok {
		return nil, ErrConflict
	}
	defer unlock()

	horizon := s.dateOf(now)

	var created []*Occurrence

	for {
		occ, err := s.materializeNext(ctx, id, horizon)
		if err != nil {
			return created, err
		}

		if occ == nil {
			break
		}

		created = append(created, occ)
	}

	if len(created) > 0 {
		s.log.Info("occurrences materialized",
			"series_id", id,
			"count", len(created),
			"last_date", created[len(created)-1].ScheduledDate.Format(time.DateOnly),
		)
	}

	return created, nil
}

// materializeNext commits the next due candidate of the series. It returns
// nil when nothing is due.
func (s *Service) materializeNext(ctx context.Context, id uuid.UUID, horizon time.Time) (*Occurrence, error) {
	stx, err := s.repo.BeginSeries(ctx, id, LockTry)
	if err != nil {
		return nil, err
	}
	defer stx.Rollback()

	series := stx.Series()

	d, ok := series.Next()
	if !ok || d.After(horizon) {
		return nil, nil
	}

	if err := checkCandidate(series, d); err != nil {
		s.log.Error("invalid occurrence candidate", "series_id", id, "date", d.Format(time.DateOnly), "error", err)
		return nil, err
	}

	seq := series.OccurrencesGenerated + 1

	tx := &transaction.Transaction{
		SeriesID: &series.ID,
		Details:  cloneTemplate(series.Template),
		Date:     d,
	}

	occ := &Occurrence{
		SeriesID:       series.ID,
		SequenceNumber: seq,
		ScheduledDate:  d,
		State:          StateCompleted,
	}

	if err := stx.Materialize(ctx, occ, tx); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: materializing occurrence %d: %w", ErrPersistence, seq, err)
	}

	if err := stx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing occurrence %d: %w", ErrPersistence, seq, err)
	}

	return occ, nil
}

func checkCandidate(series *Series, d time.Time) error {
	if d.Before(series.Rule.AnchorDate) {
		return fmt.Errorf("%w: %s precedes anchor %s", ErrGeneration,
			d.Format(time.DateOnly), series.Rule.AnchorDate.Format(time.DateOnly))
	}

	if last := series.LastMaterializedDate; last != nil && !d.After(*last) {
		return fmt.Errorf("%w: %s does not follow %s", ErrGeneration,
			d.Format(time.DateOnly), last.Format(time.DateOnly))
	}

	return nil
}

// DueSeriesIDs lists the series with a candidate dated on or before the civil
// date of now.
func (s *Service) DueSeriesIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	horizon := s.dateOf(now)

	series, err := s.repo.ListSeries(ctx, SeriesFilter{AnchorOnOrBefore: &horizon})
	if err != nil {
		return nil, fmt.Errorf("listing series: %w", err)
	}

	var ids []uuid.UUID

	for _, ser := range series {
		if d, ok := ser.Next(); ok && !d.After(horizon) {
			ids = append(ids, ser.ID)
		}
	}

	return ids, nil
}
