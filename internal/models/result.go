package models

import (
	"time"
)

// CapturedResponse is the response snapshot handed to the assertion engine.
type CapturedResponse struct {
	Status     int                 `json:"status"`
	StatusText string              `json:"statusText"`
	Headers    map[string][]string `json:"headers"`
	Body       string              `json:"body"`
}

// AssertionResult is the immutable outcome of one assertion.
type AssertionResult struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// TestResult aggregates one request execution. Produced fresh per run and
// appended to the history log, never mutated afterwards.
type TestResult struct {
	ID           string            `json:"id"`
	RequestID    string            `json:"requestId,omitempty"`
	Name         string            `json:"name"`
	Status       int               `json:"status"`
	StatusText   string            `json:"statusText"`
	ResponseTime int64             `json:"responseTime"` // milliseconds
	Passed       bool              `json:"passed"`
	Assertions   []AssertionResult `json:"assertions"`
	Error        string            `json:"error,omitempty"`
	ExecutedAt   time.Time         `json:"executedAt"`
}

// ResultFilter selects test results from the history log.
type ResultFilter struct {
	RequestID string
	Passed    *bool
	Limit     int
}

// RunStats aggregates execution statistics for one request template.
type RunStats struct {
	RequestID string    `json:"requestId"`
	Method    string    `json:"method"`
	URL       string    `json:"url"`
	Runs      int64     `json:"runs"`
	Failures  int64     `json:"failures"`
	AvgTimeMs float64   `json:"avgTimeMs"`
	MinTimeMs int64     `json:"minTimeMs"`
	MaxTimeMs int64     `json:"maxTimeMs"`
	LastRunAt time.Time `json:"lastRunAt"`
}

// GlobalRunStats aggregates execution statistics across all requests.
type GlobalRunStats struct {
	TotalRuns     int64   `json:"totalRuns"`
	TotalFailures int64   `json:"totalFailures"`
	AvgTimeMs     float64 `json:"avgTimeMs"`
	RequestCount  int     `json:"requestCount"`
	UptimeSeconds int64   `json:"uptimeSeconds"`
}
