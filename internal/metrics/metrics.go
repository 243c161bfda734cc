// Package metrics collects per-file analysis events and aggregates them for
// the --stats output.
package metrics

import (
	"sync"
	"time"
)

// FileEvent captures the cost and yield of analyzing one file.
type FileEvent struct {
	Path          string         `json:"path"`
	Language      string         `json:"language"`
	Bytes         int            `json:"bytes"`
	ParseDuration time.Duration  `json:"parse_duration_ns"`
	CheckDuration time.Duration  `json:"check_duration_ns"`
	Findings      map[string]int `json:"findings,omitempty"`
}

// AggregateStats summarizes all recorded events.
type AggregateStats struct {
	Files           int            `json:"files"`
	Bytes           int            `json:"bytes"`
	TotalFindings   int            `json:"total_findings"`
	FindingsByRule  map[string]int `json:"findings_by_rule"`
	FilesByLanguage map[string]int `json:"files_by_language"`
	ParseTime       time.Duration  `json:"parse_time_ns"`
	CheckTime       time.Duration  `json:"check_time_ns"`
}

// Collector accumulates FileEvents. Safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	events []FileEvent
}

func NewCollector() *Collector {
	return &Collector{}
}

// Record appends one event.
func (c *Collector) Record(e FileEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

// Events returns a copy of all recorded events.
func (c *Collector) Events() []FileEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]FileEvent, len(c.events))
	copy(out, c.events)
	return out
}

// Stats aggregates the recorded events.
func (c *Collector) Stats() AggregateStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := AggregateStats{
		FindingsByRule:  make(map[string]int),
		FilesByLanguage: make(map[string]int),
	}
	for _, e := range c.events {
		stats.Files++
		stats.Bytes += e.Bytes
		stats.ParseTime += e.ParseDuration
		stats.CheckTime += e.CheckDuration
		stats.FilesByLanguage[e.Language]++
		for rule, n := range e.Findings {
			stats.FindingsByRule[rule] += n
			stats.TotalFindings += n
		}
	}
	return stats
}
