package metrics

import (
	"time"

	"media-viewer-core/internal/logging"
)

// StatsProvider supplies point-in-time figures that are cheaper to sample
// than to track on every change.
type StatsProvider interface {
	Stats() Stats
}

// StatsFunc adapts a function to StatsProvider.
type StatsFunc func() Stats

// Stats implements StatsProvider.
func (f StatsFunc) Stats() Stats { return f() }

// Stats holds the sampled figures.
type Stats struct {
	ProbeCacheEntries int
}

// Collector periodically samples a StatsProvider into gauges
type Collector struct {
	provider StatsProvider
	interval time.Duration
	stopChan chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		provider: provider,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the collection loop
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.provider == nil {
		return
	}

	stats := c.provider.Stats()
	ProbeCacheEntries.Set(float64(stats.ProbeCacheEntries))

	logging.Debug("Metrics collected: probe_cache_entries=%d", stats.ProbeCacheEntries)
}
