package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rsharma/restlab/internal/models"
)

// Service keeps a bounded in-memory log of test results and fans new
// results out to live subscribers. Results are append-only; the core
// never mutates a recorded result.
type Service struct {
	mu          sync.RWMutex
	results     []*models.TestResult
	maxResults  int
	subscribers map[string]chan *models.TestResult
}

// NewService creates a new history service
func NewService(maxResults int) *Service {
	if maxResults <= 0 {
		maxResults = 1000
	}

	return &Service{
		results:     make([]*models.TestResult, 0),
		maxResults:  maxResults,
		subscribers: make(map[string]chan *models.TestResult),
	}
}

// Record appends a test result to the log and notifies subscribers
func (s *Service) Record(result *models.TestResult) {
	s.mu.Lock()

	if result.ID == "" {
		result.ID = uuid.New().String()
	}
	if result.ExecutedAt.IsZero() {
		result.ExecutedAt = time.Now()
	}

	s.results = append(s.results, result)

	// Trim if over max
	if len(s.results) > s.maxResults {
		s.results = s.results[len(s.results)-s.maxResults:]
	}

	// Get subscribers snapshot
	subscribers := make([]chan *models.TestResult, 0, len(s.subscribers))
	for _, ch := range s.subscribers {
		subscribers = append(subscribers, ch)
	}

	s.mu.Unlock()

	// Notify subscribers (non-blocking)
	for _, ch := range subscribers {
		select {
		case ch <- result:
		default:
			// Channel full, skip
		}
	}
}

// List returns results matching the filter, newest first
func (s *Service) List(filter *models.ResultFilter) []*models.TestResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.TestResult, 0)

	for i := len(s.results) - 1; i >= 0; i-- {
		r := s.results[i]

		if filter != nil {
			if filter.RequestID != "" && r.RequestID != filter.RequestID {
				continue
			}
			if filter.Passed != nil && r.Passed != *filter.Passed {
				continue
			}
		}

		result = append(result, r)

		if filter != nil && filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}

	return result
}

// Get returns a single result by ID
func (s *Service) Get(id string) *models.TestResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.results {
		if r.ID == id {
			return r
		}
	}

	return nil
}

// Clear removes all recorded results
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = make([]*models.TestResult, 0)
}

// Subscribe creates a subscription for live results
func (s *Service) Subscribe() (string, chan *models.TestResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	ch := make(chan *models.TestResult, 100)
	s.subscribers[id] = ch

	return id, ch
}

// Unsubscribe removes a subscription
func (s *Service) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subscribers[id]; ok {
		close(ch)
		delete(s.subscribers, id)
	}
}

// Stats returns history bookkeeping numbers
func (s *Service) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"totalResults":      len(s.results),
		"maxResults":        s.maxResults,
		"activeSubscribers": len(s.subscribers),
	}
}
