package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rsharma/restlab/internal/env"
	"github.com/rsharma/restlab/internal/executor"
	"github.com/rsharma/restlab/internal/history"
	"github.com/rsharma/restlab/internal/importer"
	"github.com/rsharma/restlab/internal/mock"
	"github.com/rsharma/restlab/internal/models"
	"github.com/rsharma/restlab/internal/stats"
	"github.com/rsharma/restlab/internal/storage"
)

// Handler handles API requests
type Handler struct {
	store      storage.Storage
	envs       *env.Manager
	mockRouter *mock.Router
	exec       *executor.Executor
	historySvc *history.Service
	collector  *stats.Collector
	importer   *importer.Importer
}

// NewHandler creates a new API handler
func NewHandler(store storage.Storage, envs *env.Manager, mockRouter *mock.Router, exec *executor.Executor, historySvc *history.Service, collector *stats.Collector) *Handler {
	return &Handler{
		store:      store,
		envs:       envs,
		mockRouter: mockRouter,
		exec:       exec,
		historySvc: historySvc,
		collector:  collector,
		importer:   importer.NewImporter(),
	}
}

// writeError maps domain errors to HTTP responses. Not-found and ownership
// mismatches share one 404 answer so existence never leaks.
func writeError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found or access denied"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// ListEnvironments returns all environments of the caller's scope
func (h *Handler) ListEnvironments(c *gin.Context) {
	envs, err := h.envs.List(callerScope(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, envs)
}

// CreateEnvironment creates a new environment
func (h *Handler) CreateEnvironment(c *gin.Context) {
	var input models.EnvironmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	environment, err := h.envs.Create(input, callerScope(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, environment)
}

// GetEnvironment returns a single environment
func (h *Handler) GetEnvironment(c *gin.Context) {
	environment, err := h.envs.Get(callerScope(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, environment)
}

// UpdateEnvironment updates an environment
func (h *Handler) UpdateEnvironment(c *gin.Context) {
	var update models.EnvironmentUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	environment, err := h.envs.Update(callerScope(c), c.Param("id"), update)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, environment)
}

// DeleteEnvironment deletes an environment
func (h *Handler) DeleteEnvironment(c *gin.Context) {
	if err := h.envs.Delete(callerScope(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ActivateEnvironment makes an environment the scope's active one
func (h *Handler) ActivateEnvironment(c *gin.Context) {
	environment, err := h.envs.Activate(callerScope(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, environment)
}

// ListCollections returns all collections of the caller's scope
func (h *Handler) ListCollections(c *gin.Context) {
	scope := callerScope(c)
	cols, err := h.store.ListCollectionsByScope(scope)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, cols)
}

// CreateCollection creates a new collection
func (h *Handler) CreateCollection(c *gin.Context) {
	var input models.CollectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scope := callerScope(c)
	now := time.Now()
	col := &models.Collection{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		UserID:      scope.UserID,
		WorkspaceID: scope.WorkspaceID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.CreateCollection(col); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, col)
}

// getOwnedCollection loads a collection and checks scope ownership
func (h *Handler) getOwnedCollection(c *gin.Context, id string) (*models.Collection, error) {
	col, err := h.store.GetCollection(id)
	if err != nil {
		return nil, err
	}
	if col.Scope() != callerScope(c) {
		return nil, storage.ErrNotFound
	}
	return col, nil
}

// GetCollection returns a single collection
func (h *Handler) GetCollection(c *gin.Context) {
	col, err := h.getOwnedCollection(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, col)
}

// UpdateCollection updates a collection
func (h *Handler) UpdateCollection(c *gin.Context) {
	col, err := h.getOwnedCollection(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	var input models.CollectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != "" {
		col.Name = input.Name
	}
	col.Description = input.Description
	col.UpdatedAt = time.Now()

	if err := h.store.UpdateCollection(col); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, col)
}

// DeleteCollection deletes a collection and its requests
func (h *Handler) DeleteCollection(c *gin.Context) {
	col, err := h.getOwnedCollection(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	h.store.DeleteRequestsByCollection(col.ID)

	if err := h.store.DeleteCollection(col.ID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RunCollection executes every request of a collection and returns one
// result per request
func (h *Handler) RunCollection(c *gin.Context) {
	col, err := h.getOwnedCollection(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	reqs, err := h.store.ListRequestsByCollection(col.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	results := h.exec.ExecuteBatch(c.Request.Context(), reqs, callerScope(c))

	passed := true
	for _, r := range results {
		if !r.Passed {
			passed = false
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"collectionId": col.ID,
		"passed":       passed,
		"results":      results,
	})
}

// ListRequests returns all requests of a collection
func (h *Handler) ListRequests(c *gin.Context) {
	col, err := h.getOwnedCollection(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	reqs, err := h.store.ListRequestsByCollection(col.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reqs)
}

// CreateRequest creates a request template in a collection
func (h *Handler) CreateRequest(c *gin.Context) {
	col, err := h.getOwnedCollection(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	var input models.RequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	req := &models.RequestTemplate{
		ID:           uuid.New().String(),
		CollectionID: col.ID,
		Name:         input.Name,
		Method:       input.Method,
		URL:          input.URL,
		Headers:      input.Headers,
		Body:         input.Body,
		BodyType:     input.BodyType,
		Auth:         input.Auth,
		Assertions:   input.Assertions,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.store.CreateRequest(req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, req)
}

// getOwnedRequest loads a request and checks collection ownership
func (h *Handler) getOwnedRequest(c *gin.Context, id string) (*models.RequestTemplate, error) {
	req, err := h.store.GetRequest(id)
	if err != nil {
		return nil, err
	}
	if _, err := h.getOwnedCollection(c, req.CollectionID); err != nil {
		return nil, err
	}
	return req, nil
}

// GetRequest returns a single request template
func (h *Handler) GetRequest(c *gin.Context) {
	req, err := h.getOwnedRequest(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

// UpdateRequest updates a request template
func (h *Handler) UpdateRequest(c *gin.Context) {
	req, err := h.getOwnedRequest(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	var input models.RequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Name = input.Name
	req.Method = input.Method
	req.URL = input.URL
	req.Headers = input.Headers
	req.Body = input.Body
	req.BodyType = input.BodyType
	req.Auth = input.Auth
	req.Assertions = input.Assertions
	req.UpdatedAt = time.Now()

	if err := h.store.UpdateRequest(req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

// DeleteRequest deletes a request template
func (h *Handler) DeleteRequest(c *gin.Context) {
	req, err := h.getOwnedRequest(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.store.DeleteRequest(req.ID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RunRequest executes a single request template
func (h *Handler) RunRequest(c *gin.Context) {
	req, err := h.getOwnedRequest(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	result := h.exec.Execute(c.Request.Context(), req, callerScope(c))
	c.JSON(http.StatusOK, result)
}

// ListMockServers returns all mock servers of the caller's scope
func (h *Handler) ListMockServers(c *gin.Context) {
	servers, err := h.store.ListMockServersByScope(callerScope(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, servers)
}

// CreateMockServer creates a new mock server with a generated URL token
func (h *Handler) CreateMockServer(c *gin.Context) {
	var input models.MockServerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scope := callerScope(c)
	now := time.Now()

	endpoints := input.Endpoints
	for i := range endpoints {
		if endpoints[i].ID == "" {
			endpoints[i].ID = uuid.New().String()
		}
	}

	srv := &models.MockServer{
		ID:                uuid.New().String(),
		Name:              input.Name,
		Token:             uuid.New().String(),
		UserID:            scope.UserID,
		WorkspaceID:       scope.WorkspaceID,
		Endpoints:         endpoints,
		ResponseDelayMs:   input.ResponseDelayMs,
		DefaultStatusCode: input.DefaultStatusCode,
		IsRunning:         true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := h.store.CreateMockServer(srv); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, srv)
}

// getOwnedMockServer loads a mock server and checks scope ownership
func (h *Handler) getOwnedMockServer(c *gin.Context, id string) (*models.MockServer, error) {
	srv, err := h.store.GetMockServer(id)
	if err != nil {
		return nil, err
	}
	if srv.Scope() != callerScope(c) {
		return nil, storage.ErrNotFound
	}
	return srv, nil
}

// GetMockServer returns a single mock server
func (h *Handler) GetMockServer(c *gin.Context) {
	srv, err := h.getOwnedMockServer(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, srv)
}

// UpdateMockServer updates mock server settings
func (h *Handler) UpdateMockServer(c *gin.Context) {
	srv, err := h.getOwnedMockServer(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	var update models.MockServerUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if update.Name != nil {
		srv.Name = *update.Name
	}
	if update.Endpoints != nil {
		endpoints := *update.Endpoints
		for i := range endpoints {
			if endpoints[i].ID == "" {
				endpoints[i].ID = uuid.New().String()
			}
		}
		srv.Endpoints = endpoints
	}
	if update.ResponseDelayMs != nil {
		srv.ResponseDelayMs = *update.ResponseDelayMs
	}
	if update.DefaultStatusCode != nil {
		srv.DefaultStatusCode = *update.DefaultStatusCode
	}
	if update.IsRunning != nil {
		srv.IsRunning = *update.IsRunning
	}
	srv.UpdatedAt = time.Now()

	if err := h.store.UpdateMockServer(srv); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, srv)
}

// DeleteMockServer deletes a mock server
func (h *Handler) DeleteMockServer(c *gin.Context) {
	srv, err := h.getOwnedMockServer(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.store.DeleteMockServer(srv.ID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// StartMockServer marks a mock server as running
func (h *Handler) StartMockServer(c *gin.Context) {
	h.setMockRunning(c, true)
}

// StopMockServer marks a mock server as stopped
func (h *Handler) StopMockServer(c *gin.Context) {
	h.setMockRunning(c, false)
}

func (h *Handler) setMockRunning(c *gin.Context, running bool) {
	srv, err := h.getOwnedMockServer(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	srv.IsRunning = running
	srv.UpdatedAt = time.Now()

	if err := h.store.UpdateMockServer(srv); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, srv)
}

// ImportOpenAPI generates mock endpoints from an OpenAPI 3 document and
// appends them to the server's endpoint table
func (h *Handler) ImportOpenAPI(c *gin.Context) {
	srv, err := h.getOwnedMockServer(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	content, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	endpoints, err := h.importer.Import(string(content))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OpenAPI spec: " + err.Error()})
		return
	}

	srv.Endpoints = append(srv.Endpoints, endpoints...)
	srv.UpdatedAt = time.Now()

	if err := h.store.UpdateMockServer(srv); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            srv.ID,
		"importedCount": len(endpoints),
		"endpointCount": len(srv.Endpoints),
	})
}

// ServeMock answers simulated requests under the mock mount
func (h *Handler) ServeMock(c *gin.Context) {
	token := c.Param("token")
	path := c.Param("path")
	if path == "" {
		path = "/"
	}

	resp, err := h.mockRouter.Route(c.Request.Context(), token, c.Request.Method, path)
	if err != nil {
		writeError(c, err)
		return
	}

	for key, value := range resp.Headers {
		c.Header(key, value)
	}
	c.Status(resp.StatusCode)
	c.Writer.WriteString(resp.Body)
}

// ListResults returns run results, newest first
func (h *Handler) ListResults(c *gin.Context) {
	filter := &models.ResultFilter{
		RequestID: c.Query("requestId"),
	}
	if passed := c.Query("passed"); passed != "" {
		v := passed == "true"
		filter.Passed = &v
	}

	c.JSON(http.StatusOK, h.historySvc.List(filter))
}

// GetResult returns a single run result
func (h *Handler) GetResult(c *gin.Context) {
	result := h.historySvc.Get(c.Param("id"))
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found or access denied"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ClearResults removes all run results
func (h *Handler) ClearResults(c *gin.Context) {
	h.historySvc.Clear()
	c.Status(http.StatusNoContent)
}

// GetGlobalStats returns global run statistics
func (h *Handler) GetGlobalStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.collector.GlobalStats())
}

// GetRequestStats returns run statistics for one request
func (h *Handler) GetRequestStats(c *gin.Context) {
	stat := h.collector.RequestStats(c.Param("id"))
	if stat == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found or access denied"})
		return
	}

	c.JSON(http.StatusOK, stat)
}

// ResetStats clears all run statistics
func (h *Handler) ResetStats(c *gin.Context) {
	h.collector.Reset()
	c.Status(http.StatusNoContent)
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
