package editor

import (
	"log"
	"time"
)

// Autosave debounce intervals. Critical structural changes (resize, layer
// add/delete) flush sooner; a failed save retries on its own timer.
const (
	AutosaveStandard = 8 * time.Second
	AutosaveCritical = 2 * time.Second
	AutosaveRetry    = 15 * time.Second
)

// AutosaveState is the externally visible status indicator.
type AutosaveState string

const (
	AutosaveIdle    AutosaveState = "idle"
	AutosavePending AutosaveState = "pending"
	AutosaveSaving  AutosaveState = "saving"
	AutosaveSaved   AutosaveState = "saved"
	AutosaveError   AutosaveState = "error"
)

// Scheduler is the timer capability injected into the core. Scheduling
// replaces any pending timer; at most one callback is ever outstanding.
type Scheduler interface {
	Schedule(d time.Duration, fn func())
	Cancel()
}

// SaveFunc performs the actual save. Failures are retried, never surfaced
// beyond the status indicator.
type SaveFunc func() error

// Autosave owns the debounce decision; the timer mechanism stays behind the
// Scheduler interface.
type Autosave struct {
	sched Scheduler
	save  SaveFunc
	state AutosaveState

	standard time.Duration
	critical time.Duration
	retry    time.Duration
}

func NewAutosave(sched Scheduler, save SaveFunc) *Autosave {
	return &Autosave{
		sched:    sched,
		save:     save,
		state:    AutosaveIdle,
		standard: AutosaveStandard,
		critical: AutosaveCritical,
		retry:    AutosaveRetry,
	}
}

func (a *Autosave) State() AutosaveState { return a.state }

// SetIntervals overrides the default debounce windows, for configured setups.
// Non-positive values keep the current interval.
func (a *Autosave) SetIntervals(standard, critical, retry time.Duration) {
	if standard > 0 {
		a.standard = standard
	}
	if critical > 0 {
		a.critical = critical
	}
	if retry > 0 {
		a.retry = retry
	}
}

// Request reschedules the debounce timer. A critical request shortens the
// window; it never lengthens one already pending.
func (a *Autosave) Request(critical bool) {
	if a == nil || a.sched == nil {
		return
	}
	d := a.standard
	if critical {
		d = a.critical
	}
	a.sched.Cancel()
	a.state = AutosavePending
	a.sched.Schedule(d, a.fire)
}

func (a *Autosave) fire() {
	if a.save == nil {
		a.state = AutosaveIdle
		return
	}
	a.state = AutosaveSaving
	if err := a.save(); err != nil {
		log.Printf("autosave failed: %v", err)
		a.state = AutosaveError
		a.sched.Schedule(a.retry, a.fire)
		return
	}
	a.state = AutosaveSaved
}

// PollScheduler is the default Scheduler. It only records the deadline;
// the callback fires from Poll, on whatever goroutine drives the update
// loop. Keeps every save synchronous with model mutation.
type PollScheduler struct {
	now func() time.Time
	due time.Time
	fn  func()
}

func NewPollScheduler() *PollScheduler {
	return &PollScheduler{now: time.Now}
}

func (s *PollScheduler) Schedule(d time.Duration, fn func()) {
	s.due = s.now().Add(d)
	s.fn = fn
}

func (s *PollScheduler) Cancel() { s.fn = nil }

// Poll fires the pending callback once its deadline has passed. Call it
// every update tick.
func (s *PollScheduler) Poll() {
	if s.fn == nil || s.now().Before(s.due) {
		return
	}
	fn := s.fn
	s.fn = nil
	fn()
}
