// Package scheduler runs periodic and on-demand sweeps that materialize due
// occurrences of every scheduled series.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/finny-schedules/internal/schedule"
)

const (
	DefaultSpec    = "@every 1m"
	DefaultWorkers = 4
)

type Evaluator interface {
	DueSeriesIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	Evaluate(ctx context.Context, id uuid.UUID, now time.Time) ([]*schedule.Occurrence, error)
}

// Result summarizes one sweep.
type Result struct {
	Due          int
	Materialized int
	Conflicts    int
	Failures     int
}

type Sweeper struct {
	eval     Evaluator
	parser   cron.Parser
	spec     string
	workers  int
	loc      *time.Location
	log      *slog.Logger
	now      func() time.Time
	notifyCh chan struct{}
}

type Option func(*Sweeper)

func WithSpec(spec string) Option {
	return func(s *Sweeper) {
		if spec != "" {
			s.spec = spec
		}
	}
}

func WithWorkers(n int) Option {
	return func(s *Sweeper) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLocation sets the location cron specs are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Sweeper) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Sweeper) {
		if log != nil {
			s.log = log
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		if now != nil {
			s.now = now
		}
	}
}

func New(eval Evaluator, opts ...Option) *Sweeper {
	s := &Sweeper{
		eval:     eval,
		parser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		spec:     DefaultSpec,
		workers:  DefaultWorkers,
		loc:      time.UTC,
		log:      slog.Default(),
		now:      time.Now,
		notifyCh: make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Notify requests a sweep as soon as possible. Non-blocking if a sweep is
// already pending.
func (s *Sweeper) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// Start sweeps once, then on every cron tick and every Notify, until ctx is
// done. Sweeps never overlap.
func (s *Sweeper) Start(ctx context.Context) error {
	if _, err := s.parser.Parse(s.spec); err != nil {
		return fmt.Errorf("parsing sweep schedule %q: %w", s.spec, err)
	}

	c := cron.New(cron.WithParser(s.parser), cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.spec, s.Notify); err != nil {
		return fmt.Errorf("registering sweep: %w", err)
	}

	c.Start()
	defer func() { <-c.Stop().Done() }()

	s.log.Info("scheduler started", "spec", s.spec, "workers", s.workers, "tz", s.loc.String())

	s.run(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return nil
		case <-s.notifyCh:
			s.run(ctx)
		}
	}
}

func (s *Sweeper) run(ctx context.Context) {
	res, err := s.Sweep(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Error("sweep failed", "error", err)
		}

		return
	}

	if res.Materialized > 0 || res.Failures > 0 {
		s.log.Info("sweep finished",
			"due", res.Due,
			"materialized", res.Materialized,
			"conflicts", res.Conflicts,
			"failures", res.Failures,
		)
	}
}

// Sweep evaluates every due series with at most the configured number of
// series in flight. A failing series does not stop the others.
func (s *Sweeper) Sweep(ctx context.Context) (Result, error) {
	now := s.now()

	ids, err := s.eval.DueSeriesIDs(ctx, now)
	if err != nil {
		return Result{}, fmt.Errorf("finding due series: %w", err)
	}

	var materialized, conflicts, failures atomic.Int64

	var g errgroup.Group
	g.SetLimit(s.workers)

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			created, err := s.eval.Evaluate(ctx, id, now)
			materialized.Add(int64(len(created)))

			switch {
			case err == nil:
			case errors.Is(err, schedule.ErrConflict):
				conflicts.Add(1)
				s.log.Debug("series busy, skipped", "series_id", id)
			case errors.Is(err, schedule.ErrNotFound):
				// Deleted between listing and evaluation.
			default:
				failures.Add(1)
				s.log.Error("evaluating series", "series_id", id, "error", err)
			}

			return nil
		})
	}

	_ = g.Wait()

	return Result{
		Due:          len(ids),
		Materialized: int(materialized.Load()),
		Conflicts:    int(conflicts.Load()),
		Failures:     int(failures.Load()),
	}, ctx.Err()
}
