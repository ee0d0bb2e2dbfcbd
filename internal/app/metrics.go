package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts the files processed in a run.
type Metrics struct {
	files        atomic.Uint64
	changed      atomic.Uint64
	failed       atomic.Uint64
	hookErrors   atomic.Uint64
	bytesRemoved atomic.Int64
	totalNs      atomic.Int64
	maxNs        atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordFile records one processed file. delta is the change in size,
// negative when bytes were removed.
func (m *Metrics) RecordFile(changed bool, delta int64, duration time.Duration) {
	ns := duration.Nanoseconds()

	m.files.Add(1)
	m.totalNs.Add(ns)
	if changed {
		m.changed.Add(1)
	}
	if delta < 0 {
		m.bytesRemoved.Add(-delta)
	}

	// Update max (atomic compare-and-swap loop)
	for {
		old := m.maxNs.Load()
		if ns <= old {
			break
		}
		if m.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordFailure records a file that could not be opened or written.
func (m *Metrics) RecordFailure() {
	m.failed.Add(1)
}

// RecordHookErrors records n failed hook runs.
func (m *Metrics) RecordHookErrors(n int) {
	if n > 0 {
		m.hookErrors.Add(uint64(n))
	}
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.files.Store(0)
	m.changed.Store(0)
	m.failed.Store(0)
	m.hookErrors.Store(0)
	m.bytesRemoved.Store(0)
	m.totalNs.Store(0)
	m.maxNs.Store(0)
	m.startTime = time.Now()
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Files        uint64
	Changed      uint64
	Failed       uint64
	HookErrors   uint64
	BytesRemoved int64
	AvgDuration  time.Duration
	MaxDuration  time.Duration
	Uptime       time.Duration
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Files:        m.files.Load(),
		Changed:      m.changed.Load(),
		Failed:       m.failed.Load(),
		HookErrors:   m.hookErrors.Load(),
		BytesRemoved: m.bytesRemoved.Load(),
		MaxDuration:  time.Duration(m.maxNs.Load()),
		Uptime:       time.Since(m.startTime),
	}
	if s.Files > 0 {
		s.AvgDuration = time.Duration(m.totalNs.Load() / int64(s.Files))
	}
	return s
}
