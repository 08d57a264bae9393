package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Collector keeps process-lifetime request counters and named domain
// counters such as generated payslips.
type Collector struct {
	totalRequests   uint64
	clientErrors    uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	mu     sync.RWMutex
	events map[string]*uint64
}

func New() *Collector {
	return &Collector{events: make(map[string]*uint64)}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	switch {
	case status >= 500:
		atomic.AddUint64(&c.errorRequests, 1)
	case status == 429:
		atomic.AddUint64(&c.rateLimited, 1)
		atomic.AddUint64(&c.clientErrors, 1)
	case status >= 400:
		atomic.AddUint64(&c.clientErrors, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// Incr bumps a named domain counter.
func (c *Collector) Incr(name string) {
	c.mu.RLock()
	counter, ok := c.events[name]
	c.mu.RUnlock()
	if !ok {
		c.mu.Lock()
		if counter, ok = c.events[name]; !ok {
			counter = new(uint64)
			c.events[name] = counter
		}
		c.mu.Unlock()
	}
	atomic.AddUint64(counter, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}

	c.mu.RLock()
	names := make([]string, 0, len(c.events))
	for name := range c.events {
		names = append(names, name)
	}
	sort.Strings(names)
	events := make(map[string]uint64, len(names))
	for _, name := range names {
		events[name] = atomic.LoadUint64(c.events[name])
	}
	c.mu.RUnlock()

	return map[string]any{
		"requestsTotal":     total,
		"clientErrorsTotal": atomic.LoadUint64(&c.clientErrors),
		"errorsTotal":       atomic.LoadUint64(&c.errorRequests),
		"rateLimitedTotal":  atomic.LoadUint64(&c.rateLimited),
		"avgDurationMs":     avg,
		"totalDurationMs":   totalMs,
		"events":            events,
	}
}
