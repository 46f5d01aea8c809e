package models

// AuthType discriminates the authentication variants of a request.
type AuthType string

// Supported authentication types
const (
	AuthNone   AuthType = "no-auth"
	AuthAPIKey AuthType = "api-key"
	AuthBearer AuthType = "bearer-token"
	AuthBasic  AuthType = "basic-auth"
	AuthOAuth2 AuthType = "oauth2"
)

// API key placements
const (
	PlacementHeader = "header"
	PlacementQuery  = "query"
)

// AuthConfig is the wire shape of a request's authentication settings.
// Type selects the variant; only the fields belonging to that variant
// are meaningful, the rest stay empty.
type AuthConfig struct {
	Type AuthType `json:"type"`

	// api-key
	Key        string `json:"key,omitempty"`
	Value      string `json:"value,omitempty"`
	Placement  string `json:"placement,omitempty"`
	HeaderName string `json:"headerName,omitempty"`

	// bearer-token
	Token string `json:"token,omitempty"`

	// basic-auth
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`

	// oauth2
	AccessToken string `json:"accessToken,omitempty"`
	TokenType   string `json:"tokenType,omitempty"`
}
