// Package scheduler runs the calendar's clock-driven jobs.
package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/feather/internal/calendar"
	"github.com/robfig/cron/v3"
)

// MidnightSpec fires at the start of every day in the scheduler's location.
const MidnightSpec = "0 0 * * *"

// Rollover tells the UI when "today" changes.
type Rollover struct {
	cron   *cron.Cron
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
	onDay  func(today string)

	mu    sync.Mutex
	today string
}

type Option func(*Rollover)

func WithClock(now func() time.Time) Option {
	return func(r *Rollover) { r.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Rollover) { r.logger = logger }
}

// NewRollover creates a stopped rollover job; onDay receives the new date.
func NewRollover(loc *time.Location, onDay func(today string), opts ...Option) *Rollover {
	if loc == nil {
		loc = time.Local
	}
	r := &Rollover{
		cron:   cron.New(cron.WithLocation(loc)),
		loc:    loc,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
		onDay:  onDay,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.today = calendar.Today(r.now(), loc)
	return r
}

// Start schedules the midnight job and an hourly safety check for clocks
// that jumped (suspend, DST).
func (r *Rollover) Start() error {
	if _, err := r.cron.AddFunc(MidnightSpec, r.Check); err != nil {
		return fmt.Errorf("add midnight rollover: %w", err)
	}
	if _, err := r.cron.AddFunc("@hourly", r.Check); err != nil {
		return fmt.Errorf("add hourly rollover check: %w", err)
	}
	r.cron.Start()
	r.logger.Info("rollover scheduler started", "tz", r.loc.String(), "today", r.Today())
	return nil
}

// Stop halts the jobs and waits for a running one to finish.
func (r *Rollover) Stop() {
	<-r.cron.Stop().Done()
}

// Today returns the last date the job observed.
func (r *Rollover) Today() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.today
}

// Check re-evaluates today and calls onDay when it changed.
func (r *Rollover) Check() {
	today := calendar.Today(r.now(), r.loc)
	r.mu.Lock()
	changed := today != r.today
	r.today = today
	r.mu.Unlock()

	if changed {
		r.logger.Info("day rolled over", "today", today)
		if r.onDay != nil {
			r.onDay(today)
		}
	}
}
