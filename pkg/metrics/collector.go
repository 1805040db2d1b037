package metrics

import (
	"sort"
	"sync"
	"time"
)

// Collector implements Recorder with in-memory counters. It is
// safe for concurrent use.
type Collector struct {
	mu          sync.Mutex
	evaluations map[string]int
	cases       map[string]int
	durations   map[string]time.Duration
	runTotal    int
}

// NewCollector creates a new Collector.
func NewCollector() *Collector {
	return &Collector{
		evaluations: make(map[string]int),
		cases:       make(map[string]int),
		durations:   make(map[string]time.Duration),
	}
}

func (c *Collector) RecordEvaluation(phrase string, passed bool, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evaluations[evaluationKey(phrase, passed)]++
	c.durations[phrase] += duration
}

func (c *Collector) RecordCase(status string, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cases[status]++
}

func (c *Collector) IncrementRunTotal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runTotal++
}

// EvaluationCount returns the count for a phrase and outcome.
func (c *Collector) EvaluationCount(phrase string, passed bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evaluations[evaluationKey(phrase, passed)]
}

// Evaluations returns the total number of evaluations recorded.
func (c *Collector) Evaluations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.evaluations {
		total += n
	}
	return total
}

// CaseCount returns the number of cases recorded with status.
func (c *Collector) CaseCount(status string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cases[status]
}

// Duration returns the time spent evaluating phrase.
func (c *Collector) Duration(phrase string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.durations[phrase]
}

// Phrases returns the recorded phrases in sorted order.
func (c *Collector) Phrases() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.durations))
	for p := range c.durations {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// RunTotal returns the total number of runs.
func (c *Collector) RunTotal() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runTotal
}

func evaluationKey(phrase string, passed bool) string {
	if passed {
		return phrase + ":passed"
	}
	return phrase + ":failed"
}
