// Package metrics implements an in-memory collector for counters and
// histograms, keyed by name, for the audit daemon.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Predefined metric names used throughout the audit daemon.
const (
	ChallengesIssued   = "challenges_issued"
	ProofsVerified     = "proofs_verified"
	ProofsRejected     = "proofs_rejected"
	AuditLatencySecond = "audit_latency_seconds"
)

// Collector aggregates counters and a bounded histogram per
// metric name (no labels: one server per process in this demo daemon).
type Collector struct {
	mu         sync.Mutex
	counters   map[string]*int64
	histograms map[string][]float64
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		counters:   make(map[string]*int64),
		histograms: make(map[string][]float64),
	}
}

// Inc increments a counter metric by one.
func (c *Collector) Inc(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctr, ok := c.counters[name]
	if !ok {
		var v int64
		ctr = &v
		c.counters[name] = ctr
	}
	atomic.AddInt64(ctr, 1)
}

// maxHistogramSamples bounds per-metric histogram memory, matching the
// teacher's "keep only last 1000 values" rule.
const maxHistogramSamples = 1000

// Observe records a sample in a histogram-style metric (seconds, typically).
func (c *Collector) Observe(name string, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	samples := append(c.histograms[name], value)
	if len(samples) > maxHistogramSamples {
		samples = samples[len(samples)-maxHistogramSamples:]
	}
	c.histograms[name] = samples
}

// ObserveDuration is a convenience wrapper around Observe for time.Duration.
func (c *Collector) ObserveDuration(name string, d time.Duration) {
	c.Observe(name, d.Seconds())
}

// Snapshot is a point-in-time view of all collected metrics.
type Snapshot struct {
	Counters   map[string]int64
	Histograms map[string]HistogramSummary
}

// HistogramSummary summarizes a histogram's samples.
type HistogramSummary struct {
	Count int
	Min   float64
	Max   float64
	Sum   float64
	Avg   float64
}

// Snapshot returns a consistent copy of every metric collected so far.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	counters := make(map[string]int64, len(c.counters))
	for name, v := range c.counters {
		counters[name] = atomic.LoadInt64(v)
	}

	histograms := make(map[string]HistogramSummary, len(c.histograms))
	for name, values := range c.histograms {
		if len(values) == 0 {
			continue
		}
		summary := HistogramSummary{Count: len(values), Min: values[0], Max: values[0]}
		for _, v := range values {
			if v < summary.Min {
				summary.Min = v
			}
			if v > summary.Max {
				summary.Max = v
			}
			summary.Sum += v
		}
		summary.Avg = summary.Sum / float64(summary.Count)
		histograms[name] = summary
	}

	return Snapshot{Counters: counters, Histograms: histograms}
}
