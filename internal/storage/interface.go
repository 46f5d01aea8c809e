package storage

import (
	"errors"

	"github.com/rsharma/restlab/internal/models"
)

// ErrNotFound covers both missing entities and ownership mismatches so
// callers cannot distinguish "does not exist" from "not yours".
var ErrNotFound = errors.New("not found or access denied")

// Storage defines the interface for data persistence
type Storage interface {
	// Environment operations
	CreateEnvironment(env *models.Environment) error
	GetEnvironment(id string) (*models.Environment, error)
	ListEnvironmentsByScope(scope models.Scope) ([]*models.Environment, error)
	UpdateEnvironment(env *models.Environment) error
	DeleteEnvironment(id string) error
	// ActivateEnvironment flips the target to active and every other
	// environment in the same scope to inactive as one atomic step.
	ActivateEnvironment(scope models.Scope, id string) error

	// Collection operations
	CreateCollection(col *models.Collection) error
	GetCollection(id string) (*models.Collection, error)
	ListCollectionsByScope(scope models.Scope) ([]*models.Collection, error)
	UpdateCollection(col *models.Collection) error
	DeleteCollection(id string) error

	// Request operations
	CreateRequest(req *models.RequestTemplate) error
	GetRequest(id string) (*models.RequestTemplate, error)
	ListRequestsByCollection(collectionID string) ([]*models.RequestTemplate, error)
	UpdateRequest(req *models.RequestTemplate) error
	DeleteRequest(id string) error
	DeleteRequestsByCollection(collectionID string) error

	// Mock server operations
	CreateMockServer(srv *models.MockServer) error
	GetMockServer(id string) (*models.MockServer, error)
	GetMockServerByToken(token string) (*models.MockServer, error)
	ListMockServersByScope(scope models.Scope) ([]*models.MockServer, error)
	UpdateMockServer(srv *models.MockServer) error
	DeleteMockServer(id string) error

	// Utility
	Close() error
}
