package auth

import (
	"testing"

	"github.com/rsharma/restlab/internal/models"
)

func TestInject_NoAuth(t *testing.T) {
	i := NewInjector()

	headers := map[string]string{"Accept": "application/json"}
	url := "https://api.example.com/users"

	tests := []struct {
		name string
		cfg  *models.AuthConfig
	}{
		{name: "nil config", cfg: nil},
		{name: "explicit no-auth", cfg: &models.AuthConfig{Type: models.AuthNone}},
		{name: "unknown type", cfg: &models.AuthConfig{Type: "something-else"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHeaders, gotURL := i.Inject(tt.cfg, headers, url)
			if gotURL != url {
				t.Errorf("URL changed to %q", gotURL)
			}
			if len(gotHeaders) != 1 || gotHeaders["Accept"] != "application/json" {
				t.Errorf("headers changed: %v", gotHeaders)
			}
		})
	}
}

func TestInject_APIKeyHeader(t *testing.T) {
	i := NewInjector()

	tests := []struct {
		name       string
		cfg        *models.AuthConfig
		wantHeader string
		wantValue  string
	}{
		{
			name: "default header name",
			cfg: &models.AuthConfig{
				Type:      models.AuthAPIKey,
				Value:     "secret",
				Placement: models.PlacementHeader,
			},
			wantHeader: "X-API-Key",
			wantValue:  "secret",
		},
		{
			name: "custom header name",
			cfg: &models.AuthConfig{
				Type:       models.AuthAPIKey,
				Value:      "secret",
				Placement:  models.PlacementHeader,
				HeaderName: "X-Token",
			},
			wantHeader: "X-Token",
			wantValue:  "secret",
		},
		{
			name: "empty placement defaults to header",
			cfg: &models.AuthConfig{
				Type:  models.AuthAPIKey,
				Value: "secret",
			},
			wantHeader: "X-API-Key",
			wantValue:  "secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers, url := i.Inject(tt.cfg, nil, "https://api.example.com")
			if url != "https://api.example.com" {
				t.Errorf("URL changed to %q", url)
			}
			if headers[tt.wantHeader] != tt.wantValue {
				t.Errorf("headers[%s] = %q, want %q", tt.wantHeader, headers[tt.wantHeader], tt.wantValue)
			}
		})
	}
}

func TestInject_APIKeyQuery(t *testing.T) {
	i := NewInjector()

	tests := []struct {
		name    string
		url     string
		key     string
		value   string
		wantURL string
	}{
		{
			name:    "no existing query",
			url:     "https://api.example.com/users",
			key:     "api_key",
			value:   "secret",
			wantURL: "https://api.example.com/users?api_key=secret",
		},
		{
			name:    "existing query appends with ampersand",
			url:     "https://api.example.com/users?a=1",
			key:     "api_key",
			value:   "secret",
			wantURL: "https://api.example.com/users?a=1&api_key=secret",
		},
		{
			name:    "value is escaped",
			url:     "https://api.example.com",
			key:     "key",
			value:   "a b&c",
			wantURL: "https://api.example.com?key=a+b%26c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &models.AuthConfig{
				Type:      models.AuthAPIKey,
				Key:       tt.key,
				Value:     tt.value,
				Placement: models.PlacementQuery,
			}
			headers, url := i.Inject(cfg, nil, tt.url)
			if url != tt.wantURL {
				t.Errorf("URL = %q, want %q", url, tt.wantURL)
			}
			if len(headers) != 0 {
				t.Errorf("query placement set headers: %v", headers)
			}
		})
	}
}

func TestInject_Bearer(t *testing.T) {
	i := NewInjector()

	cfg := &models.AuthConfig{Type: models.AuthBearer, Token: "tok123"}
	headers, _ := i.Inject(cfg, nil, "https://api.example.com")

	if headers["Authorization"] != "Bearer tok123" {
		t.Errorf("Authorization = %q", headers["Authorization"])
	}
}

func TestInject_Basic(t *testing.T) {
	i := NewInjector()

	cfg := &models.AuthConfig{Type: models.AuthBasic, Username: "u", Password: "p"}
	headers, _ := i.Inject(cfg, nil, "https://api.example.com")

	// base64("u:p")
	if headers["Authorization"] != "Basic dTpw" {
		t.Errorf("Authorization = %q, want %q", headers["Authorization"], "Basic dTpw")
	}
}

func TestInject_OAuth2(t *testing.T) {
	i := NewInjector()

	tests := []struct {
		name string
		cfg  *models.AuthConfig
		want string
	}{
		{
			name: "default token type",
			cfg:  &models.AuthConfig{Type: models.AuthOAuth2, AccessToken: "at"},
			want: "Bearer at",
		},
		{
			name: "custom token type",
			cfg:  &models.AuthConfig{Type: models.AuthOAuth2, AccessToken: "at", TokenType: "MAC"},
			want: "MAC at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers, _ := i.Inject(tt.cfg, nil, "https://api.example.com")
			if headers["Authorization"] != tt.want {
				t.Errorf("Authorization = %q, want %q", headers["Authorization"], tt.want)
			}
		})
	}
}

func TestInject_DoesNotMutateInput(t *testing.T) {
	i := NewInjector()

	headers := map[string]string{"Accept": "application/json"}
	cfg := &models.AuthConfig{Type: models.AuthBearer, Token: "tok"}

	got, _ := i.Inject(cfg, headers, "https://api.example.com")

	if _, ok := headers["Authorization"]; ok {
		t.Error("input header map was mutated")
	}
	if got["Authorization"] != "Bearer tok" {
		t.Errorf("Authorization = %q", got["Authorization"])
	}
	if got["Accept"] != "application/json" {
		t.Error("existing headers not carried over")
	}
}

func TestInject_OverwritesExistingAuthorization(t *testing.T) {
	i := NewInjector()

	headers := map[string]string{"Authorization": "Bearer old"}
	cfg := &models.AuthConfig{Type: models.AuthBearer, Token: "new"}

	got, _ := i.Inject(cfg, headers, "https://api.example.com")
	if got["Authorization"] != "Bearer new" {
		t.Errorf("Authorization = %q, want overwrite", got["Authorization"])
	}
}
