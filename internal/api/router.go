package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rsharma/restlab/internal/config"
	"github.com/rsharma/restlab/internal/env"
	"github.com/rsharma/restlab/internal/executor"
	"github.com/rsharma/restlab/internal/history"
	"github.com/rsharma/restlab/internal/mock"
	"github.com/rsharma/restlab/internal/stats"
	"github.com/rsharma/restlab/internal/storage"
)

// Router handles HTTP routing
type Router struct {
	engine     *gin.Engine
	store      storage.Storage
	handler    *Handler
	historySvc *history.Service
	mockMount  string
}

// NewRouter creates a new router
func NewRouter(cfg *config.Config, store storage.Storage, envs *env.Manager, mockRouter *mock.Router, exec *executor.Executor, historySvc *history.Service, collector *stats.Collector) *Router {
	gin.SetMode(gin.ReleaseMode)

	mount := cfg.Server.MockMount
	if mount == "" {
		mount = executor.DefaultMockMount
	}

	r := &Router{
		engine:     gin.New(),
		store:      store,
		historySvc: historySvc,
		mockMount:  mount,
	}

	r.handler = NewHandler(store, envs, mockRouter, exec, historySvc, collector)

	// Setup middleware
	r.engine.Use(gin.Recovery())
	r.engine.Use(corsMiddleware())
	r.engine.Use(gin.Logger())
	r.engine.Use(identityMiddleware(cfg.Identity.Secret, cfg.Identity.Required))

	r.setupRoutes()

	return r
}

// setupRoutes configures all routes
func (r *Router) setupRoutes() {
	// Admin API routes
	api := r.engine.Group("/_api")
	{
		// Environments
		api.GET("/environments", r.handler.ListEnvironments)
		api.POST("/environments", r.handler.CreateEnvironment)
		api.GET("/environments/:id", r.handler.GetEnvironment)
		api.PUT("/environments/:id", r.handler.UpdateEnvironment)
		api.DELETE("/environments/:id", r.handler.DeleteEnvironment)
		api.PUT("/environments/:id/activate", r.handler.ActivateEnvironment)

		// Collections
		api.GET("/collections", r.handler.ListCollections)
		api.POST("/collections", r.handler.CreateCollection)
		api.GET("/collections/:id", r.handler.GetCollection)
		api.PUT("/collections/:id", r.handler.UpdateCollection)
		api.DELETE("/collections/:id", r.handler.DeleteCollection)
		api.POST("/collections/:id/run", r.handler.RunCollection)

		// Requests
		api.GET("/collections/:id/requests", r.handler.ListRequests)
		api.POST("/collections/:id/requests", r.handler.CreateRequest)
		api.GET("/requests/:id", r.handler.GetRequest)
		api.PUT("/requests/:id", r.handler.UpdateRequest)
		api.DELETE("/requests/:id", r.handler.DeleteRequest)
		api.POST("/requests/:id/run", r.handler.RunRequest)

		// Mock servers
		api.GET("/mockservers", r.handler.ListMockServers)
		api.POST("/mockservers", r.handler.CreateMockServer)
		api.GET("/mockservers/:id", r.handler.GetMockServer)
		api.PUT("/mockservers/:id", r.handler.UpdateMockServer)
		api.DELETE("/mockservers/:id", r.handler.DeleteMockServer)
		api.PUT("/mockservers/:id/start", r.handler.StartMockServer)
		api.PUT("/mockservers/:id/stop", r.handler.StopMockServer)
		api.POST("/mockservers/:id/import", r.handler.ImportOpenAPI)

		// Run history
		api.GET("/results", r.handler.ListResults)
		api.GET("/results/:id", r.handler.GetResult)
		api.DELETE("/results", r.handler.ClearResults)

		// Statistics
		api.GET("/stats", r.handler.GetGlobalStats)
		api.GET("/stats/requests/:id", r.handler.GetRequestStats)
		api.POST("/stats/reset", r.handler.ResetStats)

		// Health
		api.GET("/health", r.handler.HealthCheck)
	}

	// WebSocket for live run results
	wsHandler := history.NewWebSocketHandler(r.historySvc)
	r.engine.GET("/_api/results/stream", gin.WrapH(wsHandler))

	// Mock server mount: /<mount>/<token>/<rest-of-path>
	r.engine.Any(r.mockMount+"/:token/*path", r.handler.ServeMock)
}

// Handler returns the http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Workspace-Id")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
