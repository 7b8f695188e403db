package search

import (
	"sync"
	"time"
)

// Report is a snapshot of progress at one interval boundary (or at the end
// of the search). It is purely observational.
type Report struct {
	Attempts  uint64
	Total     time.Duration
	SinceLast time.Duration
}

// Progress is the aggregate attempt counter shared by all workers. The
// counter only ever increases, each RecordAttempt call is counted exactly
// once, and the critical section is just the increment plus the snapshot.
type Progress struct {
	every uint64

	mu         sync.Mutex
	counter    uint64
	start      time.Time
	lastReport time.Time
}

// NewProgress creates a tracker that reports every `every` attempts.
func NewProgress(every uint64) *Progress {
	now := time.Now()
	return &Progress{
		every:      every,
		start:      now,
		lastReport: now,
	}
}

// RecordAttempt counts one failed attempt. On interval boundaries it
// returns a report and resets the since-last timer; otherwise it returns
// nil.
func (p *Progress) RecordAttempt() *Report {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.counter++
	if p.counter%p.every != 0 {
		return nil
	}

	now := time.Now()
	report := &Report{
		Attempts:  p.counter,
		Total:     now.Sub(p.start),
		SinceLast: now.Sub(p.lastReport),
	}
	p.lastReport = now
	return report
}

// Snapshot returns the current state without counting an attempt. Used for
// the final report at the moment of success.
func (p *Progress) Snapshot() Report {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	return Report{
		Attempts:  p.counter,
		Total:     now.Sub(p.start),
		SinceLast: now.Sub(p.lastReport),
	}
}
