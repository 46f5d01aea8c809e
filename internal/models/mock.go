package models

import (
	"time"
)

// MockServer is a simulated HTTP responder addressed by a unique URL token.
// Its endpoint list is ordered; matching walks it in registration order.
type MockServer struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Token             string         `json:"token"` // unique segment in the mock mount URL
	UserID            string         `json:"userId"`
	WorkspaceID       string         `json:"workspaceId,omitempty"`
	Endpoints         []MockEndpoint `json:"endpoints"`
	ResponseDelayMs   int            `json:"responseDelayMs"`
	DefaultStatusCode int            `json:"defaultStatusCode"`
	IsRunning         bool           `json:"isRunning"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// Scope returns the owner scope of the mock server.
func (s *MockServer) Scope() Scope {
	return Scope{UserID: s.UserID, WorkspaceID: s.WorkspaceID}
}

// MockEndpoint is one method+path rule of a mock server.
// PathPattern segments are literals or ":name" parameter markers;
// the pattern "*" is a method-scoped catch-all.
type MockEndpoint struct {
	ID           string            `json:"id"`
	Method       string            `json:"method"`
	PathPattern  string            `json:"pathPattern"`
	ResponseBody string            `json:"responseBody"`
	StatusCode   int               `json:"statusCode"`
	Headers      map[string]string `json:"headers,omitempty"`
}

// MockServerInput represents input for creating a mock server
type MockServerInput struct {
	Name              string         `json:"name"`
	Endpoints         []MockEndpoint `json:"endpoints"`
	ResponseDelayMs   int            `json:"responseDelayMs"`
	DefaultStatusCode int            `json:"defaultStatusCode"`
}

// MockServerUpdate represents input for updating mock server settings
type MockServerUpdate struct {
	Name              *string         `json:"name,omitempty"`
	Endpoints         *[]MockEndpoint `json:"endpoints,omitempty"`
	ResponseDelayMs   *int            `json:"responseDelayMs,omitempty"`
	DefaultStatusCode *int            `json:"defaultStatusCode,omitempty"`
	IsRunning         *bool           `json:"isRunning,omitempty"`
}
