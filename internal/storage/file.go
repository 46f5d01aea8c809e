package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rsharma/restlab/internal/models"
)

// FileStorage implements Storage interface with file-based persistence
type FileStorage struct {
	mu       sync.RWMutex
	basePath string
	memory   *MemoryStorage
}

// NewFileStorage creates a new file-based storage
func NewFileStorage(basePath string) (*FileStorage, error) {
	// Create directories if they don't exist
	dirs := []string{
		basePath,
		filepath.Join(basePath, "environments"),
		filepath.Join(basePath, "collections"),
		filepath.Join(basePath, "requests"),
		filepath.Join(basePath, "mockservers"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fs := &FileStorage{
		basePath: basePath,
		memory:   NewMemoryStorage(),
	}

	// Load existing data
	if err := fs.loadAll(); err != nil {
		return nil, err
	}

	return fs, nil
}

// loadAll loads all data from disk
func (f *FileStorage) loadAll() error {
	if err := loadDir(filepath.Join(f.basePath, "environments"), func(env *models.Environment) {
		f.memory.environments[env.ID] = env
	}); err != nil {
		return err
	}

	if err := loadDir(filepath.Join(f.basePath, "collections"), func(col *models.Collection) {
		f.memory.collections[col.ID] = col
	}); err != nil {
		return err
	}

	if err := loadDir(filepath.Join(f.basePath, "requests"), func(req *models.RequestTemplate) {
		f.memory.requests[req.ID] = req
	}); err != nil {
		return err
	}

	return loadDir(filepath.Join(f.basePath, "mockservers"), func(srv *models.MockServer) {
		f.memory.mockServers[srv.ID] = srv
	})
}

// loadDir reads every JSON file in a directory into a typed entity.
// Unreadable or malformed files are skipped.
func loadDir[T any](dir string, add func(*T)) error {
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}

		var entity T
		if err := json.Unmarshal(data, &entity); err != nil {
			continue
		}

		add(&entity)
	}

	return nil
}

// saveEntity saves an entity to disk as indented JSON
func (f *FileStorage) saveEntity(dir, id string, entity interface{}) error {
	data, err := json.MarshalIndent(entity, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(f.basePath, dir, id+".json")
	return os.WriteFile(path, data, 0644)
}

// deleteEntityFile deletes an entity file from disk
func (f *FileStorage) deleteEntityFile(dir, id string) error {
	path := filepath.Join(f.basePath, dir, id+".json")
	return os.Remove(path)
}

// CreateEnvironment creates a new environment
func (f *FileStorage) CreateEnvironment(env *models.Environment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.memory.CreateEnvironment(env); err != nil {
		return err
	}

	return f.saveEntity("environments", env.ID, env)
}

// GetEnvironment retrieves an environment by ID
func (f *FileStorage) GetEnvironment(id string) (*models.Environment, error) {
	return f.memory.GetEnvironment(id)
}

// ListEnvironmentsByScope retrieves all environments for a scope
func (f *FileStorage) ListEnvironmentsByScope(scope models.Scope) ([]*models.Environment, error) {
	return f.memory.ListEnvironmentsByScope(scope)
}

// UpdateEnvironment updates an environment
func (f *FileStorage) UpdateEnvironment(env *models.Environment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.memory.UpdateEnvironment(env); err != nil {
		return err
	}

	return f.saveEntity("environments", env.ID, env)
}

// DeleteEnvironment deletes an environment
func (f *FileStorage) DeleteEnvironment(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.memory.DeleteEnvironment(id); err != nil {
		return err
	}

	return f.deleteEntityFile("environments", id)
}

// ActivateEnvironment atomically activates the target environment and
// deactivates the rest of its scope, then persists the touched entries.
func (f *FileStorage) ActivateEnvironment(scope models.Scope, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.memory.ActivateEnvironment(scope, id); err != nil {
		return err
	}

	// Persist every environment of the scope; the activation touched all
	// of them.
	envs, _ := f.memory.ListEnvironmentsByScope(scope)
	for _, env := range envs {
		if err := f.saveEntity("environments", env.ID, env); err != nil {
			return err
		}
	}

	return nil
}

// CreateCollection creates a new collection
func (f *FileStorage) CreateCollection(col *models.Collection) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.memory.CreateCollection(col); err != nil {
		return err
	}

	return f.saveEntity("collections", col.ID, col)
}

// GetCollection retrieves a collection by ID
func (f *FileStorage) GetCollection(id string) (*models.Collection, error) {
	return f.memory.GetCollection(id)
}

// ListCollectionsByScope retrieves all collections for a scope
func (f *FileStorage) ListCollectionsByScope(scope models.Scope) ([]*models.Collection, error) {
	return f.memory.ListCollectionsByScope(scope)
}

// UpdateCollection updates a collection
func (f *FileStorage) UpdateCollection(col *models.Collection) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.memory.UpdateCollection(col); err != nil {
		return err
	}

	return f.saveEntity("collections", col.ID, col)
}

// DeleteCollection deletes a collection
func (f *FileStorage) DeleteCollection(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.memory.DeleteCollection(id); err != nil {
		return err
	}

	return f.deleteEntityFile("collections", id)
}

// CreateRequest creates a new request template
func (f *FileStorage) CreateRequest(req *models.RequestTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.memory.CreateRequest(req); err != nil {
		return err
	}

	return f.saveEntity("requests", req.ID, req)
}

// GetRequest retrieves a request template by ID
func (f *FileStorage) GetRequest(id string) (*models.RequestTemplate, error) {
	return f.memory.GetRequest(id)
}

// ListRequestsByCollection retrieves all request templates of a collection
func (f *FileStorage) ListRequestsByCollection(collectionID string) ([]*models.RequestTemplate, error) {
	return f.memory.ListRequestsByCollection(collectionID)
}

// UpdateRequest updates a request template
func (f *FileStorage) UpdateRequest(req *models.RequestTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.memory.UpdateRequest(req); err != nil {
		return err
	}

	return f.saveEntity("requests", req.ID, req)
}

// DeleteRequest deletes a request template
func (f *FileStorage) DeleteRequest(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.memory.DeleteRequest(id); err != nil {
		return err
	}

	return f.deleteEntityFile("requests", id)
}

// DeleteRequestsByCollection deletes all request templates of a collection
func (f *FileStorage) DeleteRequestsByCollection(collectionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Get requests to delete
	reqs, _ := f.memory.ListRequestsByCollection(collectionID)

	if err := f.memory.DeleteRequestsByCollection(collectionID); err != nil {
		return err
	}

	for _, req := range reqs {
		f.deleteEntityFile("requests", req.ID)
	}

	return nil
}

// CreateMockServer creates a new mock server
func (f *FileStorage) CreateMockServer(srv *models.MockServer) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.memory.CreateMockServer(srv); err != nil {
		return err
	}

	return f.saveEntity("mockservers", srv.ID, srv)
}

// GetMockServer retrieves a mock server by ID
func (f *FileStorage) GetMockServer(id string) (*models.MockServer, error) {
	return f.memory.GetMockServer(id)
}

// GetMockServerByToken retrieves a mock server by its URL token
func (f *FileStorage) GetMockServerByToken(token string) (*models.MockServer, error) {
	return f.memory.GetMockServerByToken(token)
}

// ListMockServersByScope retrieves all mock servers for a scope
func (f *FileStorage) ListMockServersByScope(scope models.Scope) ([]*models.MockServer, error) {
	return f.memory.ListMockServersByScope(scope)
}

// UpdateMockServer updates a mock server
func (f *FileStorage) UpdateMockServer(srv *models.MockServer) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.memory.UpdateMockServer(srv); err != nil {
		return err
	}

	return f.saveEntity("mockservers", srv.ID, srv)
}

// DeleteMockServer deletes a mock server
func (f *FileStorage) DeleteMockServer(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.memory.DeleteMockServer(id); err != nil {
		return err
	}

	return f.deleteEntityFile("mockservers", id)
}

// Close closes the storage
func (f *FileStorage) Close() error {
	return nil
}
