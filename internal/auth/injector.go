package auth

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/rsharma/restlab/internal/models"
)

// scheme computes the header and URL additions for one auth variant.
type scheme interface {
	apply(headers map[string]string, rawURL string) (map[string]string, string)
}

// Injector applies an authentication configuration to a request's headers
// and URL. It never mutates its inputs; copies are returned.
type Injector struct{}

// NewInjector creates a new auth injector
func NewInjector() *Injector {
	return &Injector{}
}

// Inject returns new headers and URL with the configured authentication
// material applied. A nil config behaves like no-auth. The injector does
// not validate the config, missing fields produce empty credentials.
func (i *Injector) Inject(cfg *models.AuthConfig, headers map[string]string, rawURL string) (map[string]string, string) {
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}

	if cfg == nil {
		return out, rawURL
	}

	return schemeFor(cfg).apply(out, rawURL)
}

// schemeFor maps a tagged config to its scheme. Unknown types fall back
// to no-auth.
func schemeFor(cfg *models.AuthConfig) scheme {
	switch cfg.Type {
	case models.AuthAPIKey:
		return apiKeyScheme{
			key:        cfg.Key,
			value:      cfg.Value,
			placement:  cfg.Placement,
			headerName: cfg.HeaderName,
		}
	case models.AuthBearer:
		return bearerScheme{token: cfg.Token}
	case models.AuthBasic:
		return basicScheme{username: cfg.Username, password: cfg.Password}
	case models.AuthOAuth2:
		return oauth2Scheme{accessToken: cfg.AccessToken, tokenType: cfg.TokenType}
	default:
		return noAuthScheme{}
	}
}

type noAuthScheme struct{}

func (noAuthScheme) apply(headers map[string]string, rawURL string) (map[string]string, string) {
	return headers, rawURL
}

type apiKeyScheme struct {
	key        string
	value      string
	placement  string
	headerName string
}

func (s apiKeyScheme) apply(headers map[string]string, rawURL string) (map[string]string, string) {
	if s.placement == models.PlacementQuery {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		return headers, rawURL + sep + url.QueryEscape(s.key) + "=" + url.QueryEscape(s.value)
	}

	name := s.headerName
	if name == "" {
		name = "X-API-Key"
	}
	headers[name] = s.value
	return headers, rawURL
}

type bearerScheme struct {
	token string
}

func (s bearerScheme) apply(headers map[string]string, rawURL string) (map[string]string, string) {
	headers["Authorization"] = "Bearer " + s.token
	return headers, rawURL
}

type basicScheme struct {
	username string
	password string
}

func (s basicScheme) apply(headers map[string]string, rawURL string) (map[string]string, string) {
	credentials := fmt.Sprintf("%s:%s", s.username, s.password)
	encoded := base64.StdEncoding.EncodeToString([]byte(credentials))
	headers["Authorization"] = "Basic " + encoded
	return headers, rawURL
}

type oauth2Scheme struct {
	accessToken string
	tokenType   string
}

func (s oauth2Scheme) apply(headers map[string]string, rawURL string) (map[string]string, string) {
	tokenType := s.tokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	headers["Authorization"] = tokenType + " " + s.accessToken
	return headers, rawURL
}
