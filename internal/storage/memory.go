package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rsharma/restlab/internal/models"
)

// MemoryStorage implements Storage interface with in-memory storage
type MemoryStorage struct {
	mu           sync.RWMutex
	environments map[string]*models.Environment
	collections  map[string]*models.Collection
	requests     map[string]*models.RequestTemplate
	mockServers  map[string]*models.MockServer
}

// NewMemoryStorage creates a new in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		environments: make(map[string]*models.Environment),
		collections:  make(map[string]*models.Collection),
		requests:     make(map[string]*models.RequestTemplate),
		mockServers:  make(map[string]*models.MockServer),
	}
}

// CreateEnvironment creates a new environment
func (m *MemoryStorage) CreateEnvironment(env *models.Environment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.environments[env.ID]; exists {
		return fmt.Errorf("environment with ID %s already exists", env.ID)
	}

	m.environments[env.ID] = env
	return nil
}

// GetEnvironment retrieves an environment by ID
func (m *MemoryStorage) GetEnvironment(id string) (*models.Environment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	env, exists := m.environments[id]
	if !exists {
		return nil, fmt.Errorf("environment %s: %w", id, ErrNotFound)
	}

	return env, nil
}

// ListEnvironmentsByScope retrieves all environments for a scope
func (m *MemoryStorage) ListEnvironmentsByScope(scope models.Scope) ([]*models.Environment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	envs := make([]*models.Environment, 0)
	for _, env := range m.environments {
		if env.Scope() == scope {
			envs = append(envs, env)
		}
	}

	// Sort by name
	sort.Slice(envs, func(i, j int) bool {
		return envs[i].Name < envs[j].Name
	})

	return envs, nil
}

// UpdateEnvironment updates an environment
func (m *MemoryStorage) UpdateEnvironment(env *models.Environment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.environments[env.ID]; !exists {
		return fmt.Errorf("environment %s: %w", env.ID, ErrNotFound)
	}

	m.environments[env.ID] = env
	return nil
}

// DeleteEnvironment deletes an environment
func (m *MemoryStorage) DeleteEnvironment(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.environments[id]; !exists {
		return fmt.Errorf("environment %s: %w", id, ErrNotFound)
	}

	delete(m.environments, id)
	return nil
}

// ActivateEnvironment deactivates every environment in the scope and
// activates the target under one lock, so concurrent activations can never
// observe two active environments or none.
func (m *MemoryStorage) ActivateEnvironment(scope models.Scope, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	target, exists := m.environments[id]
	if !exists || target.Scope() != scope {
		return fmt.Errorf("environment %s: %w", id, ErrNotFound)
	}

	for _, env := range m.environments {
		if env.Scope() == scope && env.IsActive {
			env.IsActive = false
		}
	}

	target.IsActive = true
	target.UpdatedAt = time.Now()
	return nil
}

// CreateCollection creates a new collection
func (m *MemoryStorage) CreateCollection(col *models.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.collections[col.ID]; exists {
		return fmt.Errorf("collection with ID %s already exists", col.ID)
	}

	m.collections[col.ID] = col
	return nil
}

// GetCollection retrieves a collection by ID
func (m *MemoryStorage) GetCollection(id string) (*models.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col, exists := m.collections[id]
	if !exists {
		return nil, fmt.Errorf("collection %s: %w", id, ErrNotFound)
	}

	return col, nil
}

// ListCollectionsByScope retrieves all collections for a scope
func (m *MemoryStorage) ListCollectionsByScope(scope models.Scope) ([]*models.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cols := make([]*models.Collection, 0)
	for _, col := range m.collections {
		if col.Scope() == scope {
			cols = append(cols, col)
		}
	}

	sort.Slice(cols, func(i, j int) bool {
		return cols[i].Name < cols[j].Name
	})

	return cols, nil
}

// UpdateCollection updates a collection
func (m *MemoryStorage) UpdateCollection(col *models.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.collections[col.ID]; !exists {
		return fmt.Errorf("collection %s: %w", col.ID, ErrNotFound)
	}

	m.collections[col.ID] = col
	return nil
}

// DeleteCollection deletes a collection
func (m *MemoryStorage) DeleteCollection(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.collections[id]; !exists {
		return fmt.Errorf("collection %s: %w", id, ErrNotFound)
	}

	delete(m.collections, id)
	return nil
}

// CreateRequest creates a new request template
func (m *MemoryStorage) CreateRequest(req *models.RequestTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.requests[req.ID]; exists {
		return fmt.Errorf("request with ID %s already exists", req.ID)
	}

	m.requests[req.ID] = req
	return nil
}

// GetRequest retrieves a request template by ID
func (m *MemoryStorage) GetRequest(id string) (*models.RequestTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	req, exists := m.requests[id]
	if !exists {
		return nil, fmt.Errorf("request %s: %w", id, ErrNotFound)
	}

	return req, nil
}

// ListRequestsByCollection retrieves all request templates of a collection
func (m *MemoryStorage) ListRequestsByCollection(collectionID string) ([]*models.RequestTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reqs := make([]*models.RequestTemplate, 0)
	for _, req := range m.requests {
		if req.CollectionID == collectionID {
			reqs = append(reqs, req)
		}
	}

	// Sort by name, then method
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].Name != reqs[j].Name {
			return reqs[i].Name < reqs[j].Name
		}
		return reqs[i].Method < reqs[j].Method
	})

	return reqs, nil
}

// UpdateRequest updates a request template
func (m *MemoryStorage) UpdateRequest(req *models.RequestTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.requests[req.ID]; !exists {
		return fmt.Errorf("request %s: %w", req.ID, ErrNotFound)
	}

	m.requests[req.ID] = req
	return nil
}

// DeleteRequest deletes a request template
func (m *MemoryStorage) DeleteRequest(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.requests[id]; !exists {
		return fmt.Errorf("request %s: %w", id, ErrNotFound)
	}

	delete(m.requests, id)
	return nil
}

// DeleteRequestsByCollection deletes all request templates of a collection
func (m *MemoryStorage) DeleteRequestsByCollection(collectionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, req := range m.requests {
		if req.CollectionID == collectionID {
			delete(m.requests, id)
		}
	}

	return nil
}

// CreateMockServer creates a new mock server
func (m *MemoryStorage) CreateMockServer(srv *models.MockServer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.mockServers[srv.ID]; exists {
		return fmt.Errorf("mock server with ID %s already exists", srv.ID)
	}
	for _, existing := range m.mockServers {
		if existing.Token == srv.Token {
			return fmt.Errorf("mock server token %s already in use", srv.Token)
		}
	}

	m.mockServers[srv.ID] = srv
	return nil
}

// GetMockServer retrieves a mock server by ID
func (m *MemoryStorage) GetMockServer(id string) (*models.MockServer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	srv, exists := m.mockServers[id]
	if !exists {
		return nil, fmt.Errorf("mock server %s: %w", id, ErrNotFound)
	}

	return srv, nil
}

// GetMockServerByToken retrieves a mock server by its URL token
func (m *MemoryStorage) GetMockServerByToken(token string) (*models.MockServer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, srv := range m.mockServers {
		if srv.Token == token {
			return srv, nil
		}
	}

	return nil, fmt.Errorf("mock server token %s: %w", token, ErrNotFound)
}

// ListMockServersByScope retrieves all mock servers for a scope
func (m *MemoryStorage) ListMockServersByScope(scope models.Scope) ([]*models.MockServer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	servers := make([]*models.MockServer, 0)
	for _, srv := range m.mockServers {
		if srv.Scope() == scope {
			servers = append(servers, srv)
		}
	}

	sort.Slice(servers, func(i, j int) bool {
		return servers[i].Name < servers[j].Name
	})

	return servers, nil
}

// UpdateMockServer updates a mock server
func (m *MemoryStorage) UpdateMockServer(srv *models.MockServer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.mockServers[srv.ID]; !exists {
		return fmt.Errorf("mock server %s: %w", srv.ID, ErrNotFound)
	}

	m.mockServers[srv.ID] = srv
	return nil
}

// DeleteMockServer deletes a mock server
func (m *MemoryStorage) DeleteMockServer(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.mockServers[id]; !exists {
		return fmt.Errorf("mock server %s: %w", id, ErrNotFound)
	}

	delete(m.mockServers, id)
	return nil
}

// Close closes the storage (no-op for memory storage)
func (m *MemoryStorage) Close() error {
	return nil
}
