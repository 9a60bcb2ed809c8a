// Package engine assembles internal/rpc, internal/pool, and
// internal/dispatch into the single Indexer spec.md §6 describes:
// construct it from a list of endpoint URLs and a per-endpoint
// parallelism, then call Run/RunOnce/Stats. Grounded on
// original_source's exec.rs::EthereumIndexer, the top-level type that
// owns the Pool and wraps dispatch in the same way.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/dmagro/eth-indexer/internal/dispatch"
	"github.com/dmagro/eth-indexer/internal/pool"
	"github.com/dmagro/eth-indexer/internal/rpc"
	"github.com/dmagro/eth-indexer/internal/workitem"
)

// RetryConfig is the optional (max_retries, base_backoff, max_backoff)
// triple spec.md §6 allows attaching to every underlying client.
type RetryConfig struct {
	MaxRetries  int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// Endpoint names one upstream RPC URL, with an optional per-endpoint
// timeout override.
type Endpoint struct {
	Name    string
	URL     string
	Timeout time.Duration
}

// Options configures engine construction.
type Options struct {
	Endpoints []Endpoint
	Parallel  int // per-endpoint concurrency cap p; must be >= 1
	Retry     *RetryConfig
}

// Indexer is the engine's external surface: Run, RunOnce, Stats.
type Indexer struct {
	pool *pool.Pool
	disp *dispatch.Dispatcher
}

// New validates opts and builds an Indexer, or returns a validation
// error — a non-empty endpoint list and parallel >= 1 are required, per
// spec.md §6.
func New(opts Options) (*Indexer, error) {
	if len(opts.Endpoints) == 0 {
		return nil, fmt.Errorf("engine: at least one endpoint URL is required")
	}
	if opts.Parallel < 1 {
		return nil, fmt.Errorf("engine: per-endpoint parallelism must be >= 1, got %d", opts.Parallel)
	}

	clients := make([]*rpc.Client, len(opts.Endpoints))
	for i, ep := range opts.Endpoints {
		cfg := rpc.Config{Name: ep.Name, URL: ep.URL, Timeout: ep.Timeout}
		if opts.Retry != nil {
			cfg.MaxRetries = opts.Retry.MaxRetries
			cfg.BaseBackoff = opts.Retry.BaseBackoff
			cfg.MaxBackoff = opts.Retry.MaxBackoff
		}
		clients[i] = rpc.NewClient(cfg)
	}

	p, err := pool.New(clients, opts.Parallel)
	if err != nil {
		return nil, err
	}

	return &Indexer{
		pool: p,
		disp: dispatch.New(p, p.Len()*opts.Parallel),
	}, nil
}

// Run dispatches a batch of WorkItems and returns the unordered
// completion stream.
func (idx *Indexer) Run(ctx context.Context, items []workitem.WorkItem) <-chan dispatch.Result {
	return idx.disp.Run(ctx, items)
}

// RunOnce dispatches a single WorkItem.
func (idx *Indexer) RunOnce(ctx context.Context, item workitem.WorkItem) ([]byte, error) {
	raw, err := idx.disp.RunOnce(ctx, item)
	return raw, err
}

// Stats returns a per-endpoint snapshot of request counts and latency.
func (idx *Indexer) Stats() []pool.Snapshot {
	return idx.pool.Stats()
}

// Dispatcher exposes the underlying dispatch.Dispatcher for composite
// operations (internal/blocktime, internal/balance) that need direct
// RunOnce access rather than the batching Run surface.
func (idx *Indexer) Dispatcher() *dispatch.Dispatcher {
	return idx.disp
}
