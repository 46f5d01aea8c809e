package env

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rsharma/restlab/internal/models"
	"github.com/rsharma/restlab/internal/storage"
)

// Manager owns the environment lifecycle and enforces the invariant that
// at most one environment per scope is active. Activations within a scope
// are serialized through a per-scope lock on top of the storage layer's
// atomic activation.
type Manager struct {
	store storage.Storage

	mu    sync.Mutex
	locks map[models.Scope]*sync.Mutex
}

// NewManager creates a new environment manager
func NewManager(store storage.Storage) *Manager {
	return &Manager{
		store: store,
		locks: make(map[models.Scope]*sync.Mutex),
	}
}

// scopeLock returns the mutex serializing activations for one scope
func (m *Manager) scopeLock(scope models.Scope) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[scope]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[scope] = lock
	}
	return lock
}

// Create stores a new environment. The first environment of a scope is
// activated automatically; later ones start inactive.
func (m *Manager) Create(input models.EnvironmentInput, scope models.Scope) (*models.Environment, error) {
	lock := m.scopeLock(scope)
	lock.Lock()
	defer lock.Unlock()

	existing, err := m.store.ListEnvironmentsByScope(scope)
	if err != nil {
		return nil, err
	}

	variables := input.Variables
	if variables == nil {
		variables = make(map[string]string)
	}

	now := time.Now()
	env := &models.Environment{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Variables:   variables,
		UserID:      scope.UserID,
		WorkspaceID: scope.WorkspaceID,
		IsActive:    len(existing) == 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := m.store.CreateEnvironment(env); err != nil {
		return nil, err
	}

	return env, nil
}

// Get retrieves an environment, checking scope ownership
func (m *Manager) Get(scope models.Scope, id string) (*models.Environment, error) {
	env, err := m.store.GetEnvironment(id)
	if err != nil {
		return nil, err
	}
	if env.Scope() != scope {
		return nil, fmt.Errorf("environment %s: %w", id, storage.ErrNotFound)
	}
	return env, nil
}

// List retrieves all environments of a scope
func (m *Manager) List(scope models.Scope) ([]*models.Environment, error) {
	return m.store.ListEnvironmentsByScope(scope)
}

// Update applies an update to an owned environment
func (m *Manager) Update(scope models.Scope, id string, update models.EnvironmentUpdate) (*models.Environment, error) {
	env, err := m.Get(scope, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		env.Name = *update.Name
	}
	if update.Variables != nil {
		env.Variables = *update.Variables
	}
	env.UpdatedAt = time.Now()

	if err := m.store.UpdateEnvironment(env); err != nil {
		return nil, err
	}

	return env, nil
}

// Delete removes an owned environment
func (m *Manager) Delete(scope models.Scope, id string) error {
	if _, err := m.Get(scope, id); err != nil {
		return err
	}
	return m.store.DeleteEnvironment(id)
}

// Activate makes the target environment the scope's single active one.
// The deactivate-others and activate-target writes happen as one atomic
// storage operation; the scope lock keeps concurrent activations from
// interleaving.
func (m *Manager) Activate(scope models.Scope, id string) (*models.Environment, error) {
	lock := m.scopeLock(scope)
	lock.Lock()
	defer lock.Unlock()

	if err := m.store.ActivateEnvironment(scope, id); err != nil {
		return nil, err
	}

	return m.store.GetEnvironment(id)
}

// ActiveVariables returns a copy of the active environment's variable map
// for the scope, or an empty map when no environment is active.
func (m *Manager) ActiveVariables(scope models.Scope) map[string]string {
	envs, err := m.store.ListEnvironmentsByScope(scope)
	if err != nil {
		return map[string]string{}
	}

	for _, env := range envs {
		if env.IsActive {
			vars := make(map[string]string, len(env.Variables))
			for k, v := range env.Variables {
				vars[k] = v
			}
			return vars
		}
	}

	return map[string]string{}
}
