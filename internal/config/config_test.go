package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %q", cfg.Server.Host)
	}
	if cfg.Server.MockMount != "/mock" {
		t.Errorf("MockMount = %q", cfg.Server.MockMount)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("Storage.Type = %q", cfg.Storage.Type)
	}
	if cfg.History.MaxResults != 1000 {
		t.Errorf("History.MaxResults = %d", cfg.History.MaxResults)
	}
	if cfg.Identity.Required {
		t.Error("Identity.Required should default to false")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
server:
  port: 9090
  mockMount: /sim
storage:
  type: file
  path: /var/lib/restlab
identity:
  secret: hunter2
  required: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.Server.MockMount != "/sim" {
		t.Errorf("MockMount = %q", cfg.Server.MockMount)
	}
	if cfg.Storage.Type != "file" || cfg.Storage.Path != "/var/lib/restlab" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Identity.Secret != "hunter2" || !cfg.Identity.Required {
		t.Errorf("Identity = %+v", cfg.Identity)
	}

	// Values absent from the file keep their defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want default", cfg.Server.Host)
	}
	if cfg.History.MaxResults != 1000 {
		t.Errorf("MaxResults = %d, want default", cfg.History.MaxResults)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("server: [not: valid"), 0644)

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
