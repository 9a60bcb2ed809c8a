package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "endpoints.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_API_KEY", "secret123")
	path := writeTempConfig(t, `
endpoints:
  - name: alchemy
    url: https://example.com/v2/${TEST_API_KEY}
defaults:
  parallel: 8
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := "https://example.com/v2/secret123"
	if cfg.Endpoints[0].URL != want {
		t.Errorf("URL = %s, want %s", cfg.Endpoints[0].URL, want)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
endpoints:
  - name: a
    url: https://a.example
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Defaults.Parallel != 4 {
		t.Errorf("Parallel default = %d, want 4", cfg.Defaults.Parallel)
	}
	if cfg.Defaults.HealthSamples != 5 {
		t.Errorf("HealthSamples default = %d, want 5", cfg.Defaults.HealthSamples)
	}
}

func TestLoadEndpointInheritsDefaultTimeout(t *testing.T) {
	path := writeTempConfig(t, `
endpoints:
  - name: a
    url: https://a.example
defaults:
  timeout: 20s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoints[0].Timeout != 20*time.Second {
		t.Errorf("endpoint timeout = %v, want inherited 20s default", cfg.Endpoints[0].Timeout)
	}
}

func TestLoadEndpointOverridesDefaultTimeout(t *testing.T) {
	path := writeTempConfig(t, `
endpoints:
  - name: a
    url: https://a.example
    timeout: 5s
defaults:
  timeout: 20s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoints[0].Timeout != 5*time.Second {
		t.Errorf("endpoint timeout = %v, want its own 5s override", cfg.Endpoints[0].Timeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path.yaml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestValidateRejectsNoEndpoints(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for zero endpoints")
	}
}

func TestValidateRejectsMissingName(t *testing.T) {
	cfg := &Config{Endpoints: []Endpoint{{URL: "https://a.example"}}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a missing endpoint name")
	}
}

func TestValidateRejectsMissingURL(t *testing.T) {
	cfg := &Config{Endpoints: []Endpoint{{Name: "a"}}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a missing endpoint URL")
	}
}

func TestValidateRejectsDuplicateNames(t *testing.T) {
	cfg := &Config{Endpoints: []Endpoint{
		{Name: "a", URL: "https://a.example"},
		{Name: "a", URL: "https://b.example"},
	}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for duplicate endpoint names")
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	cfg := &Config{Endpoints: []Endpoint{
		{Name: "a", URL: "https://a.example"},
		{Name: "b", URL: "https://b.example"},
	}}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
