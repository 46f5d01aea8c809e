package models

import (
	"time"
)

// Scope identifies the owner boundary for environments and other entities.
// WorkspaceID is empty for personal (non-workspace) entities.
type Scope struct {
	UserID      string `json:"userId"`
	WorkspaceID string `json:"workspaceId,omitempty"`
}

// Environment holds a named set of variables for request resolution.
// At most one environment per scope is active at a time.
type Environment struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Variables   map[string]string `json:"variables"`
	UserID      string            `json:"userId"`
	WorkspaceID string            `json:"workspaceId,omitempty"`
	IsActive    bool              `json:"isActive"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// Scope returns the owner scope of the environment.
func (e *Environment) Scope() Scope {
	return Scope{UserID: e.UserID, WorkspaceID: e.WorkspaceID}
}

// EnvironmentInput represents input for creating an environment
type EnvironmentInput struct {
	Name      string            `json:"name"`
	Variables map[string]string `json:"variables"`
}

// EnvironmentUpdate represents input for updating an environment
type EnvironmentUpdate struct {
	Name      *string            `json:"name,omitempty"`
	Variables *map[string]string `json:"variables,omitempty"`
}
