// Package health implements a component health-check registry for the
// audit daemon: it tracks the pairing context, the storage server, and
// the timestamp of the last completed audit round.
package health

import (
	"sync"
	"time"
)

// Status is the health status of a single component.
type Status string

const (
	Healthy   Status = "healthy"
	Degraded  Status = "degraded"
	Unhealthy Status = "unhealthy"
)

// Component is the health of one named component.
type Component struct {
	Name      string
	Status    Status
	Message   string
	LastCheck time.Time
	Latency   time.Duration
}

// System is the overall health snapshot returned by Checker.Check.
type System struct {
	OverallStatus Status
	Timestamp     time.Time
	Components    []Component
	Uptime        time.Duration
}

// Checker runs registered component checks and aggregates their status.
// Two components are registered by cmd/auditord: "pairing" (context/key
// sanity) and "server" (the in-process storage side); a third component,
// "last-audit", is updated directly via RecordAudit rather than a checker
// function, since there is nothing to probe between rounds.
type Checker struct {
	mu         sync.RWMutex
	components map[string]*Component
	checkers   map[string]func() error
	startTime  time.Time
}

// NewChecker creates a Checker.
func NewChecker() *Checker {
	return &Checker{
		components: make(map[string]*Component),
		checkers:   make(map[string]func() error),
		startTime:  time.Now(),
	}
}

// Register adds a component with an active probe function.
func (c *Checker) Register(name string, probe func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components[name] = &Component{Name: name, Status: Healthy, Message: "registered", LastCheck: time.Now()}
	c.checkers[name] = probe
}

// RecordAudit updates a passive component (no probe function) directly,
// used for "last-audit" after each challenge/verify round completes.
func (c *Checker) RecordAudit(name string, ok bool, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	status := Healthy
	if !ok {
		status = Unhealthy
	}
	c.components[name] = &Component{Name: name, Status: status, Message: message, LastCheck: time.Now()}
}

// Check runs every registered probe and returns the aggregated System.
func (c *Checker) Check() *System {
	c.mu.Lock()
	defer c.mu.Unlock()

	overall := Healthy
	out := make([]Component, 0, len(c.components))

	for name, comp := range c.components {
		if probe, ok := c.checkers[name]; ok {
			start := time.Now()
			err := probe()
			comp.Latency = time.Since(start)
			comp.LastCheck = time.Now()
			if err != nil {
				comp.Status = Unhealthy
				comp.Message = err.Error()
			} else {
				comp.Status = Healthy
				comp.Message = "OK"
			}
		}

		if comp.Status == Unhealthy {
			overall = Unhealthy
		} else if comp.Status == Degraded && overall == Healthy {
			overall = Degraded
		}
		out = append(out, *comp)
	}

	return &System{
		OverallStatus: overall,
		Timestamp:     time.Now(),
		Components:    out,
		Uptime:        time.Since(c.startTime),
	}
}
