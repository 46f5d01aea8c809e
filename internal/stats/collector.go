package stats

import (
	"sync"
	"time"

	"github.com/rsharma/restlab/internal/models"
)

// Collector aggregates execution statistics per request template
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	requests  map[string]*requestStat
}

type requestStat struct {
	requestID string
	method    string
	url       string
	runs      int64
	failures  int64
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	lastRunAt time.Time
}

// NewCollector creates a new statistics collector
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		requests:  make(map[string]*requestStat),
	}
}

// RecordRun records one request execution
func (c *Collector) RecordRun(requestID, method, url string, duration time.Duration, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stat, ok := c.requests[requestID]
	if !ok {
		stat = &requestStat{
			requestID: requestID,
			method:    method,
			url:       url,
			minTime:   duration,
			maxTime:   duration,
		}
		c.requests[requestID] = stat
	}

	stat.runs++
	stat.totalTime += duration
	stat.lastRunAt = time.Now()
	if duration < stat.minTime {
		stat.minTime = duration
	}
	if duration > stat.maxTime {
		stat.maxTime = duration
	}
	if failed {
		stat.failures++
	}
}

// RequestStats returns aggregated statistics for one request, or nil if
// it has never run
func (c *Collector) RequestStats(requestID string) *models.RunStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stat, ok := c.requests[requestID]
	if !ok {
		return nil
	}

	return stat.snapshot()
}

// GlobalStats returns statistics aggregated across all requests
func (c *Collector) GlobalStats() models.GlobalRunStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var totalRuns, totalFailures int64
	var totalTime time.Duration
	for _, stat := range c.requests {
		totalRuns += stat.runs
		totalFailures += stat.failures
		totalTime += stat.totalTime
	}

	global := models.GlobalRunStats{
		TotalRuns:     totalRuns,
		TotalFailures: totalFailures,
		RequestCount:  len(c.requests),
		UptimeSeconds: int64(time.Since(c.startTime).Seconds()),
	}
	if totalRuns > 0 {
		global.AvgTimeMs = float64(totalTime.Milliseconds()) / float64(totalRuns)
	}

	return global
}

// Reset clears all collected statistics
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startTime = time.Now()
	c.requests = make(map[string]*requestStat)
}

func (s *requestStat) snapshot() *models.RunStats {
	out := &models.RunStats{
		RequestID: s.requestID,
		Method:    s.method,
		URL:       s.url,
		Runs:      s.runs,
		Failures:  s.failures,
		MinTimeMs: s.minTime.Milliseconds(),
		MaxTimeMs: s.maxTime.Milliseconds(),
		LastRunAt: s.lastRunAt,
	}
	if s.runs > 0 {
		out.AvgTimeMs = float64(s.totalTime.Milliseconds()) / float64(s.runs)
	}
	return out
}
