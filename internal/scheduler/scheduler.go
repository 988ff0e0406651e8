// Package scheduler triggers the daily reset on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"keywatch/internal/engine"
	"keywatch/pkg/requestcontext"
)

// DefaultSchedule runs at 04:00 every day.
const DefaultSchedule = "0 4 * * *"

// Resetter is the engine operation the scheduler drives.
type Resetter interface {
	OnDailyReset(ctx context.Context) engine.ResetResult
}

type Scheduler struct {
	cron     *cron.Cron
	resetter Resetter
	logger   *slog.Logger
	schedule string
	location *time.Location
}

type Option func(*Scheduler)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithSchedule sets a standard five-field cron expression.
func WithSchedule(spec string) Option {
	return func(s *Scheduler) {
		if spec != "" {
			s.schedule = spec
		}
	}
}

// WithLocation sets the time zone the schedule is evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.location = loc
		}
	}
}

func New(resetter Resetter, opts ...Option) (*Scheduler, error) {
	if resetter == nil {
		return nil, fmt.Errorf("resetter is required")
	}
	s := &Scheduler{
		resetter: resetter,
		logger:   slog.Default(),
		schedule: DefaultSchedule,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cron = cron.New(cron.WithLocation(s.location), cron.WithChain(cron.Recover(cronLogger{s.logger})))
	if _, err := s.cron.AddFunc(s.schedule, s.Run); err != nil {
		return nil, fmt.Errorf("invalid reset schedule %q: %w", s.schedule, err)
	}
	return s, nil
}

// Run performs one reset now.
func (s *Scheduler) Run() {
	ctx := requestcontext.WithRequestID(context.Background(), "scheduler-"+time.Now().UTC().Format("20060102T150405Z"))
	res := s.resetter.OnDailyReset(ctx)
	s.logger.InfoContext(ctx, "scheduled daily reset finished", "members", res.Members)
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("reset scheduler started", "schedule", s.schedule, "timezone", s.location.String())
}

// Stop prevents further runs and waits for a running reset, or ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next reports when the reset will next run.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	if !entries[0].Next.IsZero() {
		return entries[0].Next
	}
	return entries[0].Schedule.Next(time.Now().In(s.location))
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
