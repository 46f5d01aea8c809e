package template

import (
	"testing"
)

func TestResolve_BasicSubstitution(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name     string
		template string
		vars     map[string]string
		expected string
	}{
		{
			name:     "single variable",
			template: "https://{{apiHost}}/users",
			vars:     map[string]string{"apiHost": "api.example.com"},
			expected: "https://api.example.com/users",
		},
		{
			name:     "multiple variables",
			template: "{{scheme}}://{{apiHost}}/users/{{id}}",
			vars:     map[string]string{"scheme": "https", "apiHost": "api.example.com", "id": "42"},
			expected: "https://api.example.com/users/42",
		},
		{
			name:     "repeated variable",
			template: "{{token}}:{{token}}",
			vars:     map[string]string{"token": "abc"},
			expected: "abc:abc",
		},
		{
			name:     "whitespace around name",
			template: "{{ apiHost }}/users",
			vars:     map[string]string{"apiHost": "api.example.com"},
			expected: "api.example.com/users",
		},
		{
			name:     "tab around name",
			template: "{{\tapiHost\t}}",
			vars:     map[string]string{"apiHost": "x"},
			expected: "x",
		},
		{
			name:     "no placeholders",
			template: "https://api.example.com/users",
			vars:     map[string]string{"apiHost": "other"},
			expected: "https://api.example.com/users",
		},
		{
			name:     "empty template",
			template: "",
			vars:     map[string]string{"apiHost": "x"},
			expected: "",
		},
		{
			name:     "empty variable value",
			template: "before{{empty}}after",
			vars:     map[string]string{"empty": ""},
			expected: "beforeafter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := r.Resolve(tt.template, tt.vars)
			if result != tt.expected {
				t.Errorf("Resolve() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestResolve_UnknownPlaceholderPreserved(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name     string
		template string
		vars     map[string]string
		expected string
	}{
		{
			name:     "unknown placeholder stays literal",
			template: "https://{{apiHost}}/users",
			vars:     map[string]string{"other": "x"},
			expected: "https://{{apiHost}}/users",
		},
		{
			name:     "known and unknown mixed",
			template: "{{apiHost}}/users/{{userId}}",
			vars:     map[string]string{"apiHost": "api.example.com"},
			expected: "api.example.com/users/{{userId}}",
		},
		{
			name:     "unknown keeps original whitespace",
			template: "{{ missing }}",
			vars:     map[string]string{},
			expected: "{{ missing }}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := r.Resolve(tt.template, tt.vars)
			if result != tt.expected {
				t.Errorf("Resolve() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestResolve_NoVariables(t *testing.T) {
	r := NewResolver()

	template := "https://{{apiHost}}/users/{{id}}"
	if got := r.Resolve(template, nil); got != template {
		t.Errorf("Resolve with nil vars = %q, want input unchanged", got)
	}
	if got := r.Resolve(template, map[string]string{}); got != template {
		t.Errorf("Resolve with empty vars = %q, want input unchanged", got)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	r := NewResolver()
	vars := map[string]string{"apiHost": "api.example.com"}

	once := r.Resolve("{{apiHost}}/users/{{id}}", vars)
	twice := r.Resolve(once, vars)
	if once != twice {
		t.Errorf("second resolution changed output: %q -> %q", once, twice)
	}
}

func TestResolveHeaders(t *testing.T) {
	r := NewResolver()
	vars := map[string]string{"token": "abc123", "host": "example.com"}

	headers := map[string]string{
		"Authorization": "Bearer {{token}}",
		"X-Forwarded":   "{{host}}",
		"X-Empty":       "{{gone}}",
		"Accept":        "application/json",
		"X-Blank":       "",
	}

	resolved := r.ResolveHeaders(headers, vars)

	if resolved["Authorization"] != "Bearer abc123" {
		t.Errorf("Authorization = %q", resolved["Authorization"])
	}
	if resolved["X-Forwarded"] != "example.com" {
		t.Errorf("X-Forwarded = %q", resolved["X-Forwarded"])
	}
	// Unknown placeholders stay literal in header values too
	if resolved["X-Empty"] != "{{gone}}" {
		t.Errorf("X-Empty = %q, want literal placeholder", resolved["X-Empty"])
	}
	if resolved["Accept"] != "application/json" {
		t.Errorf("Accept = %q", resolved["Accept"])
	}
	if _, ok := resolved["X-Blank"]; ok {
		t.Error("empty header value should be dropped")
	}

	// Input map must not be mutated
	if headers["Authorization"] != "Bearer {{token}}" {
		t.Error("input headers were mutated")
	}
}

func TestResolveBody_PlainString(t *testing.T) {
	r := NewResolver()
	vars := map[string]string{"name": "alice"}

	got := r.ResolveBody("hello {{name}}", vars)
	if got != "hello alice" {
		t.Errorf("ResolveBody = %q", got)
	}
}

func TestResolveBody_JSONDocument(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name     string
		body     string
		vars     map[string]string
		expected string
	}{
		{
			name:     "string leaf substituted",
			body:     `{"user": "{{name}}", "role": "admin"}`,
			vars:     map[string]string{"name": "alice"},
			expected: `{"user":"alice","role":"admin"}`,
		},
		{
			name:     "key order preserved",
			body:     `{"z": "1", "a": "{{v}}", "m": "3"}`,
			vars:     map[string]string{"v": "2"},
			expected: `{"z":"1","a":"2","m":"3"}`,
		},
		{
			name:     "nested objects and arrays",
			body:     `{"items": [{"id": "{{id}}"}, {"id": "fixed"}]}`,
			vars:     map[string]string{"id": "42"},
			expected: `{"items":[{"id":"42"},{"id":"fixed"}]}`,
		},
		{
			name:     "non-string leaves untouched",
			body:     `{"count": 3, "ratio": 0.5, "on": true, "gone": null, "name": "{{n}}"}`,
			vars:     map[string]string{"n": "x"},
			expected: `{"count":3,"ratio":0.5,"on":true,"gone":null,"name":"x"}`,
		},
		{
			name:     "top-level array",
			body:     `["{{a}}", "{{b}}"]`,
			vars:     map[string]string{"a": "1", "b": "2"},
			expected: `["1","2"]`,
		},
		{
			name:     "unknown placeholder preserved inside document",
			body:     `{"user": "{{missing}}"}`,
			vars:     map[string]string{"other": "x"},
			expected: `{"user":"{{missing}}"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ResolveBody(tt.body, tt.vars)
			if got != tt.expected {
				t.Errorf("ResolveBody() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestResolveBody_InvalidJSONTreatedAsString(t *testing.T) {
	r := NewResolver()
	vars := map[string]string{"name": "alice"}

	// Broken JSON falls back to whole-string substitution
	got := r.ResolveBody(`{"user": "{{name}}"`, vars)
	if got != `{"user": "alice"` {
		t.Errorf("ResolveBody = %q", got)
	}
}

func TestResolveBody_EmptyBody(t *testing.T) {
	r := NewResolver()
	if got := r.ResolveBody("", map[string]string{"a": "b"}); got != "" {
		t.Errorf("ResolveBody(\"\") = %q", got)
	}
}

func TestParseDocument_RejectsScalarsAndTrailing(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "bare string", input: `"hello"`},
		{name: "bare number", input: `42`},
		{name: "trailing content", input: `{"a":1} extra`},
		{name: "two documents", input: `{}{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := parseDocument(tt.input); ok {
				t.Errorf("parseDocument(%q) accepted, want reject", tt.input)
			}
		})
	}
}

func TestEncodeDocument_RoundTrip(t *testing.T) {
	inputs := []string{
		`{"b":"2","a":"1"}`,
		`{"nested":{"y":true,"x":null},"list":[1,2.5,"s"]}`,
		`[]`,
		`{}`,
		`{"unicode":"héllo \"quoted\""}`,
	}

	for _, input := range inputs {
		doc, ok := parseDocument(input)
		if !ok {
			t.Fatalf("parseDocument(%q) rejected", input)
		}
		if got := encodeDocument(doc); got != input {
			t.Errorf("round trip %q = %q", input, got)
		}
	}
}
