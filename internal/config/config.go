// =============================================================================
// FILE: internal/config/config.go
// ROLE: Configuration Layer — Loading and Validating Engine Settings
// =============================================================================
//
// SYSTEM CONTEXT
// ==============
// This file is the first thing that runs before an engine.Indexer is built.
// It reads a YAML file describing the upstream endpoints, expands any
// environment variables in their URLs (so API keys stay out of source
// control), and produces a Config that cmd/indexer turns into the
// engine.Options engine.New takes.
//
// ARCHITECTURE POSITION
// =====================
//
//   ┌──────────────────────────────────────────┐
//   │         .env file (optional)             │
//   │   ALCHEMY_API_KEY=abc123                 │
//   └───────────┬──────────────────────────────┘
//               │  LoadEnv() reads and sets
//               ▼  environment variables
//   ┌──────────────────────────────────────────┐
//   │     config/endpoints.yaml                │
//   │   url: .../${ALCHEMY_API_KEY}            │
//   └───────────┬──────────────────────────────┘
//               │  Load() reads, expands, parses
//               ▼
//   ┌──────────────────────────────────────────┐
//   │     Config struct (in memory)            │
//   │   Endpoints: [{name, url, timeout}, ...] │
//   │   Defaults:  {timeout, parallel, retry}  │
//   └───────────┬──────────────────────────────┘
//               │  Turned into engine.Options for engine.New
//               ▼
//   ┌──────────────────────────────────────────┐
//   │              cmd/indexer                 │
//   └──────────────────────────────────────────┘
//
// DESIGN DECISIONS
// ================
// 1. YAML OVER JSON: YAML supports comments, valuable for a config file
//    where operators annotate endpoint details.
// 2. ENVIRONMENT VARIABLE EXPANSION: the `${VAR}` syntax lets URLs reference
//    environment variables so API keys never land in committed YAML.
// 3. DEFAULT INHERITANCE: endpoints without an explicit timeout inherit
//    Defaults.Timeout. The retry triple has no per-endpoint setting; it
//    always comes from Defaults.
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration struct — the entire contents of
// endpoints.yaml.
type Config struct {
	Endpoints []Endpoint `yaml:"endpoints"`
	Defaults  Defaults   `yaml:"defaults"`
}

// Endpoint represents a single upstream JSON-RPC endpoint.
//
// Example YAML:
//
//	- name: alchemy
//	  url: https://eth-mainnet.g.alchemy.com/v2/${ALCHEMY_API_KEY}
//	  timeout: 15s    # optional — overrides default
type Endpoint struct {
	Name    string        `yaml:"name"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// Defaults holds engine-construction settings shared across all endpoints
// that don't specify their own override. MaxRetries/BackoffInitial/
// BackoffMax are the retry triple from spec.md §6 ("Engine construction");
// Parallel is the per-endpoint concurrency cap `p` from §4.2.
type Defaults struct {
	Timeout        time.Duration `yaml:"timeout"`
	Parallel       int           `yaml:"parallel"`
	MaxRetries     int           `yaml:"max_retries"`
	BackoffInitial time.Duration `yaml:"backoff_initial"`
	BackoffMax     time.Duration `yaml:"backoff_max"`
	HealthSamples  int           `yaml:"health_samples"`
}

// Load reads a YAML configuration file, expands ${VAR} references against
// the current environment, parses it, and fills in any per-endpoint
// defaults left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, err
	}

	if cfg.Defaults.Parallel <= 0 {
		cfg.Defaults.Parallel = 4
	}
	if cfg.Defaults.HealthSamples <= 0 {
		cfg.Defaults.HealthSamples = 5
	}

	// Index-based iteration: modifies the actual slice elements, not a copy.
	for i := range cfg.Endpoints {
		if cfg.Endpoints[i].Timeout == 0 {
			cfg.Endpoints[i].Timeout = cfg.Defaults.Timeout
		}
	}
	return &cfg, nil
}

// Validate checks that cfg is complete enough to build an engine.Indexer
// from: at least one endpoint, each with a name and URL.
func (cfg *Config) Validate() error {
	if len(cfg.Endpoints) == 0 {
		return fmt.Errorf("config: at least one endpoint is required")
	}
	seen := make(map[string]bool, len(cfg.Endpoints))
	for i, ep := range cfg.Endpoints {
		if ep.Name == "" {
			return fmt.Errorf("config: endpoints[%d]: name is required", i)
		}
		if ep.URL == "" {
			return fmt.Errorf("config: endpoint %q: url is required", ep.Name)
		}
		if seen[ep.Name] {
			return fmt.Errorf("config: duplicate endpoint name %q", ep.Name)
		}
		seen[ep.Name] = true
	}
	return nil
}

// LoadEnv reads a .env file from the current working directory (if any)
// and sets each KEY=VALUE pair as an environment variable, for Load's
// ${VAR} expansion to pick up. Deliberately permissive: a missing .env
// file is not an error, since in production the environment itself
// (Docker, Kubernetes) supplies these variables.
func LoadEnv() {
	data, _ := os.ReadFile(".env")
	for _, line := range strings.Split(string(data), "\n") {
		if parts := strings.SplitN(line, "=", 2); len(parts) == 2 {
			os.Setenv(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
		}
	}
}
