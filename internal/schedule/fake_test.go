package schedule_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finny-schedules/internal/lock"
	"github.com/MrJamesThe3rd/finny-schedules/internal/recurrence"
	"github.com/MrJamesThe3rd/finny-schedules/internal/schedule"
	"github.com/MrJamesThe3rd/finny-schedules/internal/transaction"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = t
}

func expenseTemplate() transaction.Details {
	return transaction.Details{
		Type:        transaction.TypeExpense,
		Amount:      4599,
		Description: "Gym membership",
		AccountID:   ptr(uuid.New()),
		Tags:        []string{"health"},
	}
}

// memRepo is an in-memory Repository. Writes made through a SeriesTx become
// visible only on Commit.
type memRepo struct {
	mu     sync.Mutex
	series map[uuid.UUID]*schedule.Series
	occs   []*schedule.Occurrence
	txs    []*transaction.Transaction
	busy   map[uuid.UUID]bool

	// failAt makes Materialize fail for the given sequence number.
	failAt int
}

func newMemRepo() *memRepo {
	return &memRepo{
		series: make(map[uuid.UUID]*schedule.Series),
		busy:   make(map[uuid.UUID]bool),
	}
}

func copySeries(s *schedule.Series) *schedule.Series {
	c := *s
	c.Rule = s.Rule.Normalize()

	if s.LastMaterializedDate != nil {
		c.LastMaterializedDate = ptr(*s.LastMaterializedDate)
	}

	return &c
}

func (r *memRepo) CreateSeries(_ context.Context, s *schedule.Series) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	r.series[s.ID] = copySeries(s)

	return nil
}

func (r *memRepo) GetSeries(_ context.Context, id uuid.UUID) (*schedule.Series, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.series[id]
	if !ok {
		return nil, schedule.ErrNotFound
	}

	return copySeries(s), nil
}

func (r *memRepo) ListSeries(_ context.Context, filter schedule.SeriesFilter) ([]*schedule.Series, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*schedule.Series

	for _, s := range r.series {
		if filter.AnchorOnOrBefore != nil && s.Rule.AnchorDate.After(*filter.AnchorOnOrBefore) {
			continue
		}

		out = append(out, copySeries(s))
	}

	return out, nil
}

func (r *memRepo) ListOccurrences(_ context.Context, filter schedule.OccurrenceFilter) ([]*schedule.Occurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*schedule.Occurrence

	for _, o := range r.occs {
		if filter.SeriesID != nil && o.SeriesID != *filter.SeriesID {
			continue
		}

		c := *o
		out = append(out, &c)
	}

	return out, nil
}

func (r *memRepo) BeginSeries(_ context.Context, id uuid.UUID, _ schedule.LockMode) (schedule.SeriesTx, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.series[id]
	if !ok {
		return nil, schedule.ErrNotFound
	}

	if r.busy[id] {
		return nil, schedule.ErrConflict
	}

	r.busy[id] = true

	return &memTx{repo: r, series: copySeries(s)}, nil
}

func (r *memRepo) occurrences(id uuid.UUID) []*schedule.Occurrence {
	occs, _ := r.ListOccurrences(context.Background(), schedule.OccurrenceFilter{SeriesID: &id})
	return occs
}

func (r *memRepo) transactions() []*transaction.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*transaction.Transaction(nil), r.txs...)
}

type memTx struct {
	repo   *memRepo
	series *schedule.Series
	done   bool

	occ     *schedule.Occurrence
	tx      *transaction.Transaction
	update  *schedule.Series
	deleted bool
}

func (t *memTx) Series() *schedule.Series {
	return t.series
}

func (t *memTx) Materialize(_ context.Context, occ *schedule.Occurrence, tx *transaction.Transaction) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	if t.repo.failAt == occ.SequenceNumber {
		return context.DeadlineExceeded
	}

	if t.repo.series[t.series.ID].OccurrencesGenerated != occ.SequenceNumber-1 {
		return schedule.ErrConflict
	}

	tx.ID = uuid.New()
	occ.ID = uuid.New()
	occ.TransactionID = tx.ID
	occ.CreatedAt = time.Now()

	t.occ, t.tx = occ, tx

	return nil
}

func (t *memTx) UpdateSeries(_ context.Context, s *schedule.Series) error {
	t.update = copySeries(s)
	return nil
}

func (t *memTx) DeleteSeries(context.Context) error {
	t.deleted = true
	return nil
}

func (t *memTx) Commit() error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	id := t.series.ID

	switch {
	case t.deleted:
		delete(t.repo.series, id)

		kept := t.repo.occs[:0]
		for _, o := range t.repo.occs {
			if o.SeriesID != id {
				kept = append(kept, o)
			}
		}

		t.repo.occs = kept
	case t.update != nil:
		t.repo.series[id] = t.update
	case t.occ != nil:
		s := t.repo.series[id]
		s.OccurrencesGenerated = t.occ.SequenceNumber
		s.LastMaterializedDate = ptr(t.occ.ScheduledDate)

		c := *t.occ
		t.repo.occs = append(t.repo.occs, &c)
		t.repo.txs = append(t.repo.txs, t.tx)
	}

	t.done = true
	delete(t.repo.busy, id)

	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}

	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	t.done = true
	delete(t.repo.busy, t.series.ID)

	return nil
}

// hold marks a series as locked by another database session.
func (r *memRepo) hold(id uuid.UUID) func() {
	r.mu.Lock()
	r.busy[id] = true
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.busy, id)
		r.mu.Unlock()
	}
}

func newTestService(t *testing.T, now time.Time) (*schedule.Service, *memRepo, *clock) {
	t.Helper()

	repo := newMemRepo()
	c := &clock{now: now}

	svc := schedule.NewService(repo, lock.NewKeyed(), schedule.WithClock(c.Now))

	return svc, repo, c
}

func weeklyRule(anchor time.Time, interval, limit int) recurrence.Rule {
	return recurrence.Rule{
		Frequency:       recurrence.FrequencyWeekly,
		Interval:        interval,
		EndType:         recurrence.EndAfterOccurrences,
		OccurrenceLimit: &limit,
		AnchorDate:      anchor,
	}
}
