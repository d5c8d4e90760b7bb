// Package metrics provides in-memory statistics for backend API calls.
package metrics

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"time"
)

// OperationMetrics holds aggregated metrics for a single API operation.
type OperationMetrics struct {
	Count     int64
	Failures  int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Operation   string
	Count       int64
	Failures    int64
	TotalTimeMs int64
	AvgTimeMs   float64
	MinTimeMs   int64
	MaxTimeMs   int64
}

// Snapshot represents all client statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64
	Operations    []OperationSnapshot // sorted by operation name
}

// Operation names recorded by the API client.
const (
	OpPing           = "ping"
	OpStatus         = "status"
	OpStatusChecks   = "status_checks"
	OpRecordCheck    = "record_check"
	OpDatasets       = "datasets"
	OpUpload         = "dataset_upload"
	OpSearchWeb      = "search_web"
	OpSearchPerson   = "search_person"
	OpConfigTelegram = "config_telegram"
	OpConfigOpenAI   = "config_openai"
	OpChat           = "chat"
)

// Collector aggregates in-memory API call statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

// RecordCall records the duration and outcome of one API call.
func (c *Collector) RecordCall(op string, duration time.Duration, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	if failed {
		m.Failures++
	}
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

func snapshotOp(op string, m *OperationMetrics) OperationSnapshot {
	return OperationSnapshot{
		Operation:   op,
		Count:       m.Count,
		Failures:    m.Failures,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
	}
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{UptimeSeconds: time.Since(c.startTime).Seconds()}
	for op, m := range c.ops {
		if m.Count == 0 {
			continue
		}
		snap.Operations = append(snap.Operations, snapshotOp(op, m))
	}
	slices.SortFunc(snap.Operations, func(a, b OperationSnapshot) int {
		return cmp.Compare(a.Operation, b.Operation)
	})
	return snap
}

// Get returns the snapshot for a single operation and whether it was seen.
func (c *Collector) Get(op string) (OperationSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.ops[op]
	if !ok || m.Count == 0 {
		return OperationSnapshot{}, false
	}
	return snapshotOp(op, m), true
}
