package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finny-schedules/internal/recurrence"
	"github.com/MrJamesThe3rd/finny-schedules/internal/transaction"
)

// LockMode selects how BeginSeries waits for the series row lock.
type LockMode int

const (
	// LockTry fails with ErrConflict when the series is held elsewhere.
	LockTry LockMode = iota
	// LockWait blocks until the series is free or ctx is done.
	LockWait
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=schedule
type Repository interface {
	CreateSeries(ctx context.Context, s *Series) error
	GetSeries(ctx context.Context, id uuid.UUID) (*Series, error)
	ListSeries(ctx context.Context, filter SeriesFilter) ([]*Series, error)
	ListOccurrences(ctx context.Context, filter OccurrenceFilter) ([]*Occurrence, error)

	// BeginSeries opens a database transaction holding the series lock and
	// returns the series as currently committed.
	BeginSeries(ctx context.Context, id uuid.UUID, mode LockMode) (SeriesTx, error)
}

type SeriesTx interface {
	Series() *Series
	// Materialize stores the ledger transaction and the occurrence and
	// advances the series progress to occ. It fails with ErrConflict if the
	// stored progress is not occ.SequenceNumber-1.
	Materialize(ctx context.Context, occ *Occurrence, tx *transaction.Transaction) error
	UpdateSeries(ctx context.Context, s *Series) error
	DeleteSeries(ctx context.Context) error
	Commit() error
	Rollback() error
}

// Locker serializes work per series key. TryLock reports ok=false without
// error when the key is already held.
type Locker interface {
	TryLock(ctx context.Context, key string) (unlock func(), ok bool, err error)
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type SeriesFilter struct {
	// AnchorOnOrBefore limits the result to series whose first occurrence
	// is not after the given date.
	AnchorOnOrBefore *time.Time
}

type OccurrenceFilter struct {
	SeriesID *uuid.UUID
}

type Service struct {
	repo   Repository
	locker Locker
	loc    *time.Location
	log    *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithLocation sets the location whose calendar decides which dates are due.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo Repository, locker Locker, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		locker: locker,
		loc:    time.UTC,
		log:    slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	Rule     recurrence.Rule
	Template transaction.Details
}

type UpdateParams struct {
	Rule     recurrence.Rule
	Template transaction.Details
}

func lockKey(id uuid.UUID) string {
	return "series:" + id.String()
}

func prepare(rule recurrence.Rule, tmpl transaction.Details) (recurrence.Rule, transaction.Details, error) {
	rule = rule.Normalize()
	if err := rule.Validate(); err != nil {
		return rule, tmpl, err
	}

	tmpl = normalizeTemplate(tmpl)
	if err := validateTemplate(tmpl); err != nil {
		return rule, tmpl, err
	}

	return rule, tmpl, nil
}

// Create stores a new series and, when its anchor date has already been
// reached, materializes what is due right away.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Series, error) {
	rule, tmpl, err := prepare(params.Rule, params.Template)
	if err != nil {
		return nil, err
	}

	series := &Series{
		Rule:     rule,
		Template: tmpl,
	}
	if err := s.repo.CreateSeries(ctx, series); err != nil {
		return nil, err
	}

	s.log.Info("scheduled series created", "series_id", series.ID, "frequency", rule.Frequency, "anchor", rule.AnchorDate.Format(time.DateOnly))

	return s.evaluateIfDue(ctx, series)
}

// Update replaces the rule and template of a series. A changed rule restarts
// the forward computation after the last materialized date; stored
// occurrences and their ledger transactions are left untouched.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Series, error) {
	rule, tmpl, err := prepare(params.Rule, params.Template)
	if err != nil {
		return nil, err
	}

	series, err := s.update(ctx, id, rule, tmpl)
	if err != nil {
		return nil, err
	}

	return s.evaluateIfDue(ctx, series)
}

func (s *Service) update(ctx context.Context, id uuid.UUID, rule recurrence.Rule, tmpl transaction.Details) (*Series, error) {
	unlock, err := s.locker.Lock(ctx, lockKey(id))
	if err != nil {
		return nil, fmt.Errorf("locking series: %w", err)
	}
	defer unlock()

	stx, err := s.repo.BeginSeries(ctx, id, LockWait)
	if err != nil {
		return nil, err
	}
	defer stx.Rollback()

	series := stx.Series()

	if !series.Rule.Equal(rule) {
		series.RuleBase = series.OccurrencesGenerated
		series.RuleSkip = 0

		if series.LastMaterializedDate != nil {
			series.RuleSkip = rule.CountThrough(*series.LastMaterializedDate)
		}

		series.Rule = rule

		s.log.Info("scheduled series rule changed", "series_id", id, "rule_base", series.RuleBase, "rule_skip", series.RuleSkip)
	}

	series.Template = tmpl

	if err := stx.UpdateSeries(ctx, series); err != nil {
		return nil, fmt.Errorf("updating series: %w", err)
	}

	if err := stx.Commit(); err != nil {
		return nil, fmt.Errorf("committing series update: %w", err)
	}

	return series, nil
}

// Delete removes a series together with all of its occurrences.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	unlock, err := s.locker.Lock(ctx, lockKey(id))
	if err != nil {
		return fmt.Errorf("locking series: %w", err)
	}
	defer unlock()

	stx, err := s.repo.BeginSeries(ctx, id, LockWait)
	if err != nil {
		return err
	}
	defer stx.Rollback()

	if err := stx.DeleteSeries(ctx); err != nil {
		return fmt.Errorf("deleting series: %w", err)
	}

	if err := stx.Commit(); err != nil {
		return fmt.Errorf("committing series delete: %w", err)
	}

	s.log.Info("scheduled series deleted", "series_id", id)

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Series, error) {
	return s.repo.GetSeries(ctx, id)
}

// evaluateIfDue runs an on-demand evaluation when the series already has a
// due candidate. Failures are left to the next sweep.
func (s *Service) evaluateIfDue(ctx context.Context, series *Series) (*Series, error) {
	next, ok := series.Next()
	if !ok || next.After(s.today()) {
		return series, nil
	}

	if _, err := s.Evaluate(ctx, series.ID, s.now()); err != nil {
		if errors.Is(err, ErrConflict) {
			return series, nil
		}

		s.log.Warn("on-demand evaluation failed", "series_id", series.ID, "error", err)

		return series, nil
	}

	fresh, err := s.repo.GetSeries(ctx, series.ID)
	if err != nil {
		return nil, err
	}

	return fresh, nil
}

// Now reports the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) today() time.Time {
	return s.dateOf(s.now())
}

func (s *Service) dateOf(t time.Time) time.Time {
	return recurrence.DateIn(t, s.loc)
}
