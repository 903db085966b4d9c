package schedule

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// ListUpcoming returns the next occurrence of every active series, earliest
// first. Nothing is written.
func (s *Service) ListUpcoming(ctx context.Context) ([]Upcoming, error) {
	series, err := s.repo.ListSeries(ctx, SeriesFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing series: %w", err)
	}

	upcoming := make([]Upcoming, 0, len(series))

	for _, ser := range series {
		if next, ok := ser.Next(); ok {
			upcoming = append(upcoming, Upcoming{Series: ser, Next: next})
		}
	}

	slices.SortStableFunc(upcoming, func(a, b Upcoming) int {
		if c := a.Next.Compare(b.Next); c != 0 {
			return c
		}

		return a.Series.CreatedAt.Compare(b.Series.CreatedAt)
	})

	return upcoming, nil
}

// Upcoming returns the next occurrence of one series. ok is false when the
// series is exhausted.
func (s *Service) Upcoming(ctx context.Context, id uuid.UUID) (Upcoming, bool, error) {
	series, err := s.repo.GetSeries(ctx, id)
	if err != nil {
		return Upcoming{}, false, err
	}

	next, ok := series.Next()
	if !ok {
		return Upcoming{Series: series}, false, nil
	}

	return Upcoming{Series: series, Next: next}, true, nil
}

// ListCompleted returns materialized occurrences, most recent first.
func (s *Service) ListCompleted(ctx context.Context, filter OccurrenceFilter) ([]*Occurrence, error) {
	if filter.SeriesID != nil {
		if _, err := s.repo.GetSeries(ctx, *filter.SeriesID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, err
			}

			return nil, fmt.Errorf("getting series: %w", err)
		}
	}

	occs, err := s.repo.ListOccurrences(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing occurrences: %w", err)
	}

	slices.SortStableFunc(occs, func(a, b *Occurrence) int {
		if c := b.ScheduledDate.Compare(a.ScheduledDate); c != 0 {
			return c
		}

		return cmp.Compare(b.SequenceNumber, a.SequenceNumber)
	})

	return occs, nil
}
