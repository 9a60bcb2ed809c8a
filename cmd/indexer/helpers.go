package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-indexer/internal/config"
	"github.com/dmagro/eth-indexer/internal/dispatch"
	"github.com/dmagro/eth-indexer/internal/engine"
	"github.com/dmagro/eth-indexer/internal/method"
	"github.com/dmagro/eth-indexer/internal/order"
	"github.com/dmagro/eth-indexer/internal/workitem"
)

// stringFlag reads name off cmd's own flag set first, falling back to
// the root's persistent flags — the same two-step lookup every
// cmd/monitor subcommand uses for --config, since a locally-unset flag
// still has cobra's zero value ("") rather than the root's default.
func stringFlag(cmd *cobra.Command, name string) string {
	if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
		return v
	}
	v, _ := cmd.Root().PersistentFlags().GetString(name)
	return v
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(stringFlag(cmd, "config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildEngine assembles an engine.Indexer from a loaded config, the same
// endpoint list and retry triple internal/health.Quick builds its own
// per-endpoint pool.Pool from when the CLI's `status` command runs a
// health check instead of a normal indexing run.
func buildEngine(cfg *config.Config) (*engine.Indexer, error) {
	endpoints := make([]engine.Endpoint, len(cfg.Endpoints))
	for i, ep := range cfg.Endpoints {
		endpoints[i] = engine.Endpoint{Name: ep.Name, URL: ep.URL, Timeout: ep.Timeout}
	}
	return engine.New(engine.Options{
		Endpoints: endpoints,
		Parallel:  cfg.Defaults.Parallel,
		Retry: &engine.RetryConfig{
			MaxRetries:  cfg.Defaults.MaxRetries,
			BaseBackoff: cfg.Defaults.BackoffInitial,
			MaxBackoff:  cfg.Defaults.BackoffMax,
		},
	})
}

// decodeFunc turns one dispatch.Result's raw JSON into the plan-specific
// decoded value order.Pair carries.
type decodeFunc func(dispatch.Result) (interface{}, error)

// runOrdered drives items through idx.Run, decodes each result with
// decode, and feeds the (result, decoded) pairs into internal/order so
// the caller receives them back in ascending range order starting at
// start. It stops and returns the first error seen, either a dispatch
// error or a decode error, matching order.Run's abort-on-Err default.
func runOrdered(ctx context.Context, idx *engine.Indexer, items []workitem.WorkItem, start uint64, decode decodeFunc) ([]order.Item, error) {
	results := idx.Run(ctx, items)

	pairs := make(chan order.Pair)
	go func() {
		defer close(pairs)
		for res := range results {
			if res.Err != nil {
				pairs <- order.Pair{Result: res}
				continue
			}
			val, err := decode(res)
			if err != nil {
				pairs <- order.Pair{Result: dispatch.Result{Key: res.Key, Err: err}}
				continue
			}
			pairs <- order.Pair{Result: res, Value: val}
		}
	}()

	var out []order.Item
	for item := range order.Run(pairs, start) {
		if item.Err != nil {
			return out, item.Err
		}
		out = append(out, item)
	}
	return out, nil
}

// parseBlockArg accepts "latest"/"earliest"/"pending"/"safe"/"finalized",
// a decimal block number, or a 0x-prefixed hex block number — the same
// three forms cmd/monitor/helpers.go's parseBlockArg recognised for the
// teacher's six binaries.
func parseBlockArg(s string) (method.BlockNumberOrTag, error) {
	switch method.BlockTag(s) {
	case method.TagLatest, method.TagEarliest, method.TagPending, method.TagSafe, method.TagFinalized:
		return method.TagOf(method.BlockTag(s)), nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return method.BlockNumberOrTag{}, fmt.Errorf("invalid block number %q: %w", s, err)
		}
		return method.NumberOf(n), nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return method.BlockNumberOrTag{}, fmt.Errorf("invalid block argument %q: expected a block number, hex number, or tag", s)
	}
	return method.NumberOf(n), nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func withTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 30 * time.Second
	}
	return context.WithTimeout(parent, d)
}
