package metrics

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorSamplesProvider(t *testing.T) {
	var calls atomic.Int32
	provider := StatsFunc(func() Stats {
		calls.Add(1)
		return Stats{ProbeCacheEntries: 7}
	})

	c := NewCollector(provider, 10*time.Millisecond)
	c.Start()

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	c.Stop()

	if calls.Load() < 2 {
		t.Fatalf("Expected at least 2 collections, got %d", calls.Load())
	}
	if got := testutil.ToFloat64(ProbeCacheEntries); got != 7 {
		t.Errorf("Expected ProbeCacheEntries=7, got %v", got)
	}
}

func TestCollectorNilProvider(t *testing.T) {
	c := NewCollector(nil, time.Hour)
	c.collect()
}
