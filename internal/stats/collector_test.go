package stats

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestRecordRun_Aggregates(t *testing.T) {
	c := NewCollector()

	c.RecordRun("r1", "GET", "http://x/users", 100*time.Millisecond, false)
	c.RecordRun("r1", "GET", "http://x/users", 300*time.Millisecond, true)
	c.RecordRun("r1", "GET", "http://x/users", 200*time.Millisecond, false)

	stat := c.RequestStats("r1")
	if stat == nil {
		t.Fatal("RequestStats returned nil")
	}
	if stat.Runs != 3 {
		t.Errorf("Runs = %d", stat.Runs)
	}
	if stat.Failures != 1 {
		t.Errorf("Failures = %d", stat.Failures)
	}
	if stat.MinTimeMs != 100 {
		t.Errorf("MinTimeMs = %d", stat.MinTimeMs)
	}
	if stat.MaxTimeMs != 300 {
		t.Errorf("MaxTimeMs = %d", stat.MaxTimeMs)
	}
	if stat.AvgTimeMs != 200 {
		t.Errorf("AvgTimeMs = %f", stat.AvgTimeMs)
	}
	if stat.Method != "GET" || stat.URL != "http://x/users" {
		t.Errorf("identity: %s %s", stat.Method, stat.URL)
	}
	if stat.LastRunAt.IsZero() {
		t.Error("LastRunAt not set")
	}
}

func TestRequestStats_Unknown(t *testing.T) {
	c := NewCollector()
	if c.RequestStats("never-ran") != nil {
		t.Error("expected nil for unknown request")
	}
}

func TestGlobalStats(t *testing.T) {
	c := NewCollector()

	c.RecordRun("r1", "GET", "http://x/a", 100*time.Millisecond, false)
	c.RecordRun("r1", "GET", "http://x/a", 200*time.Millisecond, true)
	c.RecordRun("r2", "POST", "http://x/b", 300*time.Millisecond, false)

	global := c.GlobalStats()
	if global.TotalRuns != 3 {
		t.Errorf("TotalRuns = %d", global.TotalRuns)
	}
	if global.TotalFailures != 1 {
		t.Errorf("TotalFailures = %d", global.TotalFailures)
	}
	if global.RequestCount != 2 {
		t.Errorf("RequestCount = %d", global.RequestCount)
	}
	if global.AvgTimeMs != 200 {
		t.Errorf("AvgTimeMs = %f", global.AvgTimeMs)
	}
}

func TestGlobalStats_Empty(t *testing.T) {
	c := NewCollector()
	global := c.GlobalStats()
	if global.TotalRuns != 0 || global.AvgTimeMs != 0 || global.RequestCount != 0 {
		t.Errorf("empty collector stats: %+v", global)
	}
}

func TestReset(t *testing.T) {
	c := NewCollector()
	c.RecordRun("r1", "GET", "http://x", 50*time.Millisecond, false)

	c.Reset()

	if c.RequestStats("r1") != nil {
		t.Error("stats survived Reset")
	}
	if got := c.GlobalStats(); got.TotalRuns != 0 {
		t.Errorf("TotalRuns after Reset = %d", got.TotalRuns)
	}
}

func TestRecordRun_Concurrent(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("r%d", n%2)
			for j := 0; j < 100; j++ {
				c.RecordRun(id, "GET", "http://x", time.Millisecond, j%10 == 0)
			}
		}(i)
	}
	wg.Wait()

	global := c.GlobalStats()
	if global.TotalRuns != 1000 {
		t.Errorf("TotalRuns = %d, want 1000", global.TotalRuns)
	}
	if global.TotalFailures != 100 {
		t.Errorf("TotalFailures = %d, want 100", global.TotalFailures)
	}
}
