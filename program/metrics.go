package main

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/keilerkonzept/sponsorwall/internal/activation"
)

// durationRing keeps the last n samples. It is not safe for concurrent use.
type durationRing struct {
	buf   []time.Duration
	idx   int
	count int
}

func newDurationRing(n int) *durationRing {
	return &durationRing{buf: make([]time.Duration, max(1, n))}
}

func (r *durationRing) add(d time.Duration) {
	r.buf[r.idx] = d
	r.idx = (r.idx + 1) % len(r.buf)
	r.count = min(r.count+1, len(r.buf))
}

type durationStats struct {
	last time.Duration
	avg  time.Duration
	p95  time.Duration
	max  time.Duration
	n    int
}

func (r *durationRing) snapshot() durationStats {
	if r.count == 0 {
		return durationStats{}
	}
	samples := slices.Clone(r.buf[:r.count])
	slices.Sort(samples)

	var sum time.Duration
	for _, d := range samples {
		sum += d
	}
	p95 := samples[(len(samples)*95+99)/100-1]
	last := r.buf[(r.idx-1+len(r.buf))%len(r.buf)]
	return durationStats{
		last: last,
		avg:  sum / time.Duration(r.count),
		p95:  p95,
		max:  samples[len(samples)-1],
		n:    r.count,
	}
}

// runtimeMetrics collects what the stats block shows: backend request
// latency, activation ticks and hot-slot ranking cost.
type runtimeMetrics struct {
	enabled atomic.Bool
	started time.Time

	requests atomic.Uint64
	failures atomic.Uint64

	ticks     atomic.Uint64
	inserts   atomic.Uint64
	evictions atomic.Uint64

	fullRefreshes atomic.Uint64
	partRefreshes atomic.Uint64

	mu         sync.Mutex
	apiLatency *durationRing
	rankTime   *durationRing
}

func newRuntimeMetrics(window int, now time.Time) *runtimeMetrics {
	return &runtimeMetrics{
		started:    now,
		apiLatency: newDurationRing(window),
		rankTime:   newDurationRing(window),
	}
}

func (m *runtimeMetrics) setEnabled(v bool) { m.enabled.Store(v) }
func (m *runtimeMetrics) isEnabled() bool   { return m.enabled.Load() }

// observeRequest is an api.Observer. Status 0 is a transport failure.
func (m *runtimeMetrics) observeRequest(_, _ string, status int, elapsed time.Duration) {
	if !m.isEnabled() {
		return
	}
	m.requests.Add(1)
	if status < 200 || status > 299 {
		m.failures.Add(1)
	}
	m.mu.Lock()
	m.apiLatency.add(elapsed)
	m.mu.Unlock()
}

// observeActivation is an activation.Listener.
func (m *runtimeMetrics) observeActivation(ev activation.Event) {
	if !m.isEnabled() {
		return
	}
	m.ticks.Add(1)
	if ev.Inserted {
		m.inserts.Add(1)
	}
	m.evictions.Add(uint64(len(ev.Evicted)))
}

func (m *runtimeMetrics) observeRankRefresh(d time.Duration, didFull bool) {
	if !m.isEnabled() {
		return
	}
	m.mu.Lock()
	m.rankTime.add(d)
	m.mu.Unlock()
	if didFull {
		m.fullRefreshes.Add(1)
		return
	}
	m.partRefreshes.Add(1)
}

type statsSnapshot struct {
	uptime        time.Duration
	requests      uint64
	failures      uint64
	apiLatency    durationStats
	ticks         uint64
	inserts       uint64
	evictions     uint64
	fullRefreshes uint64
	partRefreshes uint64
	rankTime      durationStats
}

func (m *runtimeMetrics) snapshot(now time.Time) statsSnapshot {
	if !m.isEnabled() {
		return statsSnapshot{}
	}
	m.mu.Lock()
	api, rank := m.apiLatency.snapshot(), m.rankTime.snapshot()
	m.mu.Unlock()
	return statsSnapshot{
		uptime:        now.Sub(m.started),
		requests:      m.requests.Load(),
		failures:      m.failures.Load(),
		apiLatency:    api,
		ticks:         m.ticks.Load(),
		inserts:       m.inserts.Load(),
		evictions:     m.evictions.Load(),
		fullRefreshes: m.fullRefreshes.Load(),
		partRefreshes: m.partRefreshes.Load(),
		rankTime:      rank,
	}
}

// listeners fans one controller event out to several listeners.
func listeners(ls ...activation.Listener) activation.Listener {
	return func(ev activation.Event) {
		for _, l := range ls {
			l(ev)
		}
	}
}
