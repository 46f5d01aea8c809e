package executor

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rsharma/restlab/internal/assert"
	"github.com/rsharma/restlab/internal/auth"
	"github.com/rsharma/restlab/internal/env"
	"github.com/rsharma/restlab/internal/history"
	"github.com/rsharma/restlab/internal/mock"
	"github.com/rsharma/restlab/internal/models"
	"github.com/rsharma/restlab/internal/stats"
	"github.com/rsharma/restlab/internal/template"
)

// DefaultMockMount is the URL prefix under which mock servers are addressed.
const DefaultMockMount = "/mock"

// Executor orchestrates one request execution: resolve variables, inject
// auth, dispatch live or against a mock server, evaluate assertions. It
// holds no per-run state, so executions may run concurrently.
type Executor struct {
	envs       *env.Manager
	router     *mock.Router
	historySvc *history.Service
	collector  *stats.Collector
	resolver   *template.Resolver
	injector   *auth.Injector
	engine     *assert.Engine
	client     *http.Client
	mockMount  string
}

// Option configures an Executor
type Option func(*Executor)

// WithClient overrides the HTTP client used for live dispatch
func WithClient(client *http.Client) Option {
	return func(e *Executor) { e.client = client }
}

// WithMockMount overrides the URL prefix recognized as a mock address
func WithMockMount(mount string) Option {
	return func(e *Executor) { e.mockMount = strings.TrimSuffix(mount, "/") }
}

// New creates a new request executor. historySvc and collector may be nil
// when recording is not wanted, e.g. in one-shot CLI runs.
func New(envs *env.Manager, router *mock.Router, historySvc *history.Service, collector *stats.Collector, opts ...Option) *Executor {
	e := &Executor{
		envs:       envs,
		router:     router,
		historySvc: historySvc,
		collector:  collector,
		resolver:   template.NewResolver(),
		injector:   auth.NewInjector(),
		engine:     assert.NewEngine(),
		client:     &http.Client{Timeout: 30 * time.Second},
		mockMount:  DefaultMockMount,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Execute runs one request template against the scope's active environment
// and always returns a result, dispatch failures included.
func (e *Executor) Execute(ctx context.Context, req *models.RequestTemplate, scope models.Scope) *models.TestResult {
	vars := e.envs.ActiveVariables(scope)

	rawURL := e.resolver.Resolve(req.URL, vars)
	headers := e.resolver.ResolveHeaders(req.Headers, vars)
	body := e.resolver.ResolveBody(req.Body, vars)
	headers, rawURL = e.injector.Inject(req.Auth, headers, rawURL)

	start := time.Now()
	resp, err := e.dispatch(ctx, req.Method, rawURL, headers, body)
	elapsed := time.Since(start)

	result := &models.TestResult{
		ID:           uuid.New().String(),
		RequestID:    req.ID,
		Name:         req.Name,
		ResponseTime: elapsed.Milliseconds(),
		ExecutedAt:   start,
	}

	if err != nil {
		// A failed dispatch still produces a result row so batch runs
		// report one outcome per request.
		result.Status = 0
		result.StatusText = "Error"
		result.Error = err.Error()
		result.Passed = false
		result.Assertions = []models.AssertionResult{}
	} else {
		result.Status = resp.Status
		result.StatusText = resp.StatusText
		result.Assertions = e.engine.Evaluate(resp, req.Assertions, elapsed.Milliseconds())
		result.Passed = assert.OverallPassed(resp.Status, result.Assertions)
	}

	if e.historySvc != nil {
		e.historySvc.Record(result)
	}
	if e.collector != nil {
		e.collector.RecordRun(req.ID, req.Method, req.URL, elapsed, !result.Passed)
	}

	return result
}

// ExecuteBatch runs a list of requests sequentially, producing exactly one
// result per request. A failing request never aborts the batch.
func (e *Executor) ExecuteBatch(ctx context.Context, reqs []*models.RequestTemplate, scope models.Scope) []*models.TestResult {
	results := make([]*models.TestResult, 0, len(reqs))
	for _, req := range reqs {
		results = append(results, e.Execute(ctx, req, scope))
	}
	return results
}

// dispatch sends the request either through the mock router, when the URL
// addresses the mock mount, or over the live HTTP transport.
func (e *Executor) dispatch(ctx context.Context, method, rawURL string, headers map[string]string, body string) (*models.CapturedResponse, error) {
	if token, rest, ok := e.mockTarget(rawURL); ok {
		resp, err := e.router.Route(ctx, token, method, rest)
		if err != nil {
			return nil, err
		}

		captured := &models.CapturedResponse{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Headers:    make(map[string][]string, len(resp.Headers)),
			Body:       resp.Body,
		}
		for k, v := range resp.Headers {
			captured.Headers[k] = []string{v}
		}
		return captured, nil
	}

	return e.dispatchLive(ctx, method, rawURL, headers, body)
}

// dispatchLive performs the request over the network. Non-2xx responses
// are captured normally; only transport failures return an error.
func (e *Executor) dispatchLive(ctx context.Context, method, rawURL string, headers map[string]string, body string) (*models.CapturedResponse, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, err
	}
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	httpResp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &models.CapturedResponse{
		Status:     httpResp.StatusCode,
		StatusText: http.StatusText(httpResp.StatusCode),
		Headers:    httpResp.Header,
		Body:       string(respBody),
	}, nil
}

// mockTarget reports whether rawURL addresses a mock server and extracts
// the server token and the remaining path, which defaults to "/". Only
// local URLs qualify; a mock-mount path on a foreign host is a live
// request to that host, not a mock address.
func (e *Executor) mockTarget(rawURL string) (token, rest string, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", false
	}

	if !isLocalHost(u.Hostname()) {
		return "", "", false
	}

	prefix := e.mockMount + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", "", false
	}

	trimmed := strings.TrimPrefix(u.Path, prefix)
	parts := strings.SplitN(trimmed, "/", 2)
	if parts[0] == "" {
		return "", "", false
	}

	rest = "/"
	if len(parts) == 2 && parts[1] != "" {
		rest = "/" + parts[1]
	}

	return parts[0], rest, true
}

func isLocalHost(hostname string) bool {
	switch hostname {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
