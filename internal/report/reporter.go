// Package report renders progress and summary messages and runs the periodic
// progress reporter.
package report

import (
	"sync"
	"time"

	"github.com/mwalsh/harrier/internal/aggregate"
)

// Notifier is the outbound messaging collaborator. Send must be best-effort
// and bounded; the reporter calls it from its own goroutine each tick.
type Notifier interface {
	Send(text string)
	Enabled() bool
}

// Logger is the optional logging surface the reporter uses.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// reporter lifecycle states
type state int

const (
	stateIdle state = iota
	stateRunning
	stateStopped
)

// Reporter periodically reads an aggregator snapshot and sends a formatted
// status message through the notifier.
//
// Lifecycle is Idle -> Running -> Stopped, driven by Start and Stop under the
// session controller. No message is emitted before Start or after Stop
// returns; Stop waits for the reporting goroutine to exit.
type Reporter struct {
	agg      *aggregate.Aggregator
	notifier Notifier
	interval time.Duration
	logger   Logger

	mu    sync.Mutex
	state state
	stop  chan struct{}
	done  chan struct{}
}

// NewReporter creates an idle Reporter. The interval should be on the order
// of tens of seconds; values below one second are clamped to one second.
func NewReporter(agg *aggregate.Aggregator, notifier Notifier, interval time.Duration, logger Logger) *Reporter {
	if interval < time.Second {
		interval = time.Second
	}
	return &Reporter{
		agg:      agg,
		notifier: notifier,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins periodic reporting. Calling Start on a non-idle reporter is a
// no-op; a stopped reporter cannot be restarted.
func (r *Reporter) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != stateIdle {
		return
	}
	r.state = stateRunning
	go r.loop()
}

// Stop signals the reporter and waits for the reporting goroutine to exit,
// guaranteeing no emission happens after Stop returns. Idempotent.
func (r *Reporter) Stop() {
	r.mu.Lock()
	switch r.state {
	case stateRunning:
		r.state = stateStopped
		close(r.stop)
		r.mu.Unlock()
		<-r.done
	case stateIdle:
		r.state = stateStopped
		close(r.stop)
		close(r.done)
		r.mu.Unlock()
	default:
		r.mu.Unlock()
		<-r.done
	}
}

func (r *Reporter) loop() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.emit()
		}
	}
}

// emit sends one status message. Ticks before the total is known are skipped:
// without a total there is no meaningful completion percentage.
func (r *Reporter) emit() {
	snap := r.agg.Snapshot()
	if snap.Total == 0 {
		return
	}

	if r.logger != nil {
		r.logger.Debugf("progress: %d/%d tried, %d succeeded, %d failed, %d indeterminate",
			snap.Tried, snap.Total, snap.Succeeded, snap.Failed, snap.Indeterminate)
	}

	r.notifier.Send(StatusMessage(snap))
}
