package models

import (
	"time"
)

// Collection groups request templates under one owner scope.
type Collection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UserID      string    `json:"userId"`
	WorkspaceID string    `json:"workspaceId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Scope returns the owner scope of the collection.
func (c *Collection) Scope() Scope {
	return Scope{UserID: c.UserID, WorkspaceID: c.WorkspaceID}
}

// RequestTemplate is a stored HTTP request. URL, header values and body
// may contain {{variable}} placeholders resolved at execution time.
type RequestTemplate struct {
	ID           string            `json:"id"`
	CollectionID string            `json:"collectionId"`
	Name         string            `json:"name"`
	Method       string            `json:"method"`
	URL          string            `json:"url"`
	Headers      map[string]string `json:"headers"`
	Body         string            `json:"body,omitempty"`
	BodyType     string            `json:"bodyType,omitempty"` // "json", "text" or empty
	Auth         *AuthConfig       `json:"auth,omitempty"`
	Assertions   []AssertionSpec   `json:"assertions,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// RequestInput represents input for creating/updating a request template
type RequestInput struct {
	Name       string            `json:"name"`
	Method     string            `json:"method"`
	URL        string            `json:"url"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
	BodyType   string            `json:"bodyType"`
	Auth       *AuthConfig       `json:"auth"`
	Assertions []AssertionSpec   `json:"assertions"`
}

// CollectionInput represents input for creating/updating a collection
type CollectionInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
