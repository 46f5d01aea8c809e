package mock

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rsharma/restlab/internal/models"
	"github.com/rsharma/restlab/internal/storage"
	"github.com/rsharma/restlab/internal/template"
)

// Router resolves simulated requests against the registered endpoint
// tables of mock servers. Each lookup is stateless; shared data lives in
// the storage layer.
type Router struct {
	store    storage.Storage
	resolver *template.Resolver
}

// NewRouter creates a new mock endpoint router
func NewRouter(store storage.Storage) *Router {
	return &Router{
		store:    store,
		resolver: template.NewResolver(),
	}
}

// Response is a canned mock response ready to be written out.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// Route looks up (token, method, path) against the mock server's endpoint
// table and builds the canned response. The server's response delay is
// waited here, per request, without blocking other callers; cancelling ctx
// aborts the wait.
func (r *Router) Route(ctx context.Context, token, method, path string) (*Response, error) {
	server, err := r.store.GetMockServerByToken(token)
	if err != nil {
		return nil, err
	}
	if !server.IsRunning {
		return nil, storage.ErrNotFound
	}

	if err := wait(ctx, server.ResponseDelayMs); err != nil {
		return nil, err
	}

	endpoint, params := matchEndpoint(server.Endpoints, method, path)
	if endpoint == nil {
		return fallbackResponse(server), nil
	}

	return r.buildResponse(endpoint, params), nil
}

// matchEndpoint walks the endpoint table in priority order: exact match,
// then parameterized, then the method-scoped "*" catch-all. The first
// match wins within each pass.
func matchEndpoint(endpoints []models.MockEndpoint, method, path string) (*models.MockEndpoint, map[string]string) {
	for i := range endpoints {
		ep := &endpoints[i]
		if strings.EqualFold(ep.Method, method) && ep.PathPattern == path {
			return ep, nil
		}
	}

	for i := range endpoints {
		ep := &endpoints[i]
		if !strings.EqualFold(ep.Method, method) {
			continue
		}
		if params, ok := matchParams(ep.PathPattern, path); ok {
			return ep, params
		}
	}

	for i := range endpoints {
		ep := &endpoints[i]
		if strings.EqualFold(ep.Method, method) && ep.PathPattern == "*" {
			return ep, nil
		}
	}

	return nil, nil
}

// matchParams matches a :param pattern against a concrete path. Segment
// counts must be equal; a ":name" segment captures any single non-empty
// path segment.
func matchParams(pattern, path string) (map[string]string, bool) {
	if !strings.Contains(pattern, ":") {
		return nil, false
	}

	patternSegs := strings.Split(strings.Trim(pattern, "/"), "/")
	pathSegs := strings.Split(strings.Trim(path, "/"), "/")
	if len(patternSegs) != len(pathSegs) {
		return nil, false
	}

	params := make(map[string]string)
	for i, seg := range patternSegs {
		if strings.HasPrefix(seg, ":") && len(seg) > 1 {
			if pathSegs[i] == "" {
				return nil, false
			}
			params[seg[1:]] = pathSegs[i]
			continue
		}
		if seg != pathSegs[i] {
			return nil, false
		}
	}

	return params, true
}

// buildResponse renders the endpoint's stored response. Matched path
// parameters are available as {{name}} placeholders in the body and
// header values.
func (r *Router) buildResponse(ep *models.MockEndpoint, params map[string]string) *Response {
	body := r.resolver.Resolve(ep.ResponseBody, params)

	contentType := "text/plain"
	if isJSONDocument(body) {
		contentType = "application/json"
	}

	headers := map[string]string{"Content-Type": contentType}
	for key, value := range r.resolver.ResolveHeaders(ep.Headers, params) {
		headers[key] = value
	}

	status := ep.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	return &Response{
		StatusCode: status,
		Headers:    headers,
		Body:       body,
	}
}

// fallbackResponse answers requests that matched no endpoint. A default
// status of 200 doubles as the "unset" sentinel upstream and is answered
// with 404 instead.
func fallbackResponse(server *models.MockServer) *Response {
	status := server.DefaultStatusCode
	if status == 0 || status == http.StatusOK {
		status = http.StatusNotFound
	}

	return &Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"error": "no matching endpoint"}`,
	}
}

// isJSONDocument reports whether s parses as a JSON value
func isJSONDocument(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	return json.Valid([]byte(trimmed))
}

// wait sleeps for the configured delay, honoring caller cancellation
func wait(ctx context.Context, delayMs int) error {
	if delayMs <= 0 {
		return nil
	}

	timer := time.NewTimer(time.Duration(delayMs) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
