// Package health ranks upstream endpoints by a quick sampled health
// check: success rate, tail latency, and how far behind the furthest-
// ahead endpoint each one is. It exists for the CLI's `status` command,
// not for the core — spec.md lists "cross-endpoint consensus on reorgs"
// and "chain validation" as explicit Non-goals (§1), and this package
// stops well short of either: it never compares block *hashes*, only
// reports the spread in block *heights* it observes while sampling.
//
// Adapted from the teacher's internal/provider/selector.go and
// internal/provider/executor.go: same scoring formula and concurrent
// sampling, but driven through internal/pool and internal/dispatch
// instead of a bespoke client map and errgroup-guarded slice, so a
// health check exercises the same substrate every other derived
// operation sits on (spec.md §2's planner/dispatcher dataflow) rather
// than duplicating it. Each endpoint gets its own single-client Pool,
// so its samples, semaphore, and tail-latency stats stay isolated from
// every other endpoint's.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmagro/eth-indexer/internal/config"
	"github.com/dmagro/eth-indexer/internal/dispatch"
	"github.com/dmagro/eth-indexer/internal/pool"
	"github.com/dmagro/eth-indexer/internal/rpc"
	"github.com/dmagro/eth-indexer/internal/workitem"
)

// EndpointHealth holds health check results for one endpoint.
type EndpointHealth struct {
	Name          string
	Status        string // UP, SLOW, DEGRADED, DOWN
	SuccessRate   float64
	AvgLatency    time.Duration
	P95Latency    time.Duration
	BlockHeight   uint64
	BlockDelta    int
	Score         float64
	Excluded      bool
	ExcludeReason string
	Samples       int
}

// Ranked is a list of endpoints sorted best-first by Score.
type Ranked []EndpointHealth

// Best returns the top-ranked non-excluded endpoint.
func (r Ranked) Best() (EndpointHealth, error) {
	for _, h := range r {
		if !h.Excluded {
			return h, nil
		}
	}
	if len(r) > 0 {
		return r[0], fmt.Errorf("health: all endpoints degraded, using least-bad: %s", r[0].Name)
	}
	return EndpointHealth{}, fmt.Errorf("health: no endpoints available")
}

// probeResult is one endpoint's sampled outcome: the pool.Snapshot that
// accumulated over its samples (success rate, average latency, and tail
// latency all come from it) plus the block heights observed along the
// way, which the pool has no reason to track itself.
type probeResult struct {
	endpoint string
	snap     pool.Snapshot
	heights  []uint64
}

// Quick runs samples eth_blockNumber probes against every configured
// endpoint concurrently — one single-endpoint pool.Pool and
// dispatch.Dispatcher per endpoint, with all of that endpoint's samples
// in flight at once through the dispatcher — and returns them ranked by
// a weighted score of success rate, tail latency, and how far behind
// the furthest-ahead endpoint each one is.
func Quick(ctx context.Context, cfg *config.Config, samples int) (Ranked, error) {
	if samples <= 0 {
		samples = cfg.Defaults.HealthSamples
	}
	if samples <= 0 {
		samples = 5
	}

	var (
		mu      sync.Mutex
		results []probeResult
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, ep := range cfg.Endpoints {
		ep := ep
		g.Go(func() error {
			client := rpc.NewClient(rpc.Config{
				Name:        ep.Name,
				URL:         ep.URL,
				Timeout:     ep.Timeout,
				MaxRetries:  cfg.Defaults.MaxRetries,
				BaseBackoff: cfg.Defaults.BackoffInitial,
				MaxBackoff:  cfg.Defaults.BackoffMax,
			})

			p, err := pool.New([]*rpc.Client{client}, samples)
			if err != nil {
				return err
			}
			d := dispatch.New(p, samples)

			items := make([]workitem.WorkItem, samples)
			for i := range items {
				items[i] = workitem.WorkItem{Method: "eth_blockNumber", Key: workitem.NoneKey()}
			}

			var heights []uint64
			for r := range d.Run(gctx, items) {
				if r.Err != nil {
					continue
				}
				if height, err := decodeBlockNumber(r.Raw); err == nil {
					heights = append(heights, height)
				}
			}

			mu.Lock()
			results = append(results, probeResult{endpoint: ep.Name, snap: p.Stats()[0], heights: heights})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return rank(results)
}

// decodeBlockNumber decodes one eth_blockNumber result.
func decodeBlockNumber(raw json.RawMessage) (uint64, error) {
	var hexVal string
	if err := json.Unmarshal(raw, &hexVal); err != nil {
		return 0, err
	}
	return rpc.ParseHexUint64(hexVal)
}

func rank(results []probeResult) (Ranked, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("health: no endpoints available")
	}

	var maxHeight uint64
	for _, r := range results {
		for _, h := range r.heights {
			if h > maxHeight {
				maxHeight = h
			}
		}
	}

	ranked := make(Ranked, 0, len(results))
	for _, r := range results {
		h := EndpointHealth{Name: r.endpoint, Samples: int(r.snap.Requests)}

		if r.snap.Requests == 0 {
			h.Status = "DOWN"
			h.Excluded = true
			h.ExcludeReason = "no samples collected"
			ranked = append(ranked, h)
			continue
		}

		h.SuccessRate = float64(r.snap.Successes) / float64(r.snap.Requests) * 100
		h.AvgLatency = time.Duration(r.snap.AverageMs * float64(time.Millisecond))
		h.P95Latency = r.snap.Tail.P95

		if len(r.heights) > 0 {
			h.BlockHeight = r.heights[len(r.heights)-1]
			h.BlockDelta = int(maxHeight - h.BlockHeight)
		}

		switch {
		case h.SuccessRate < 50:
			h.Status = "DOWN"
		case h.SuccessRate < 90:
			h.Status = "DEGRADED"
		case h.P95Latency > 500*time.Millisecond:
			h.Status = "SLOW"
		default:
			h.Status = "UP"
		}

		h.Score = score(h)

		if h.SuccessRate < 80 {
			h.Excluded = true
			h.ExcludeReason = fmt.Sprintf("success rate %.1f%% below threshold", h.SuccessRate)
		} else if h.BlockDelta > 5 {
			h.Excluded = true
			h.ExcludeReason = fmt.Sprintf("%d blocks behind", h.BlockDelta)
		}

		ranked = append(ranked, h)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked, nil
}

func score(h EndpointHealth) float64 {
	successScore := h.SuccessRate / 100.0

	latencyMs := float64(h.P95Latency.Milliseconds())
	latencyScore := 1.0 - (latencyMs / 1000.0)
	if latencyScore < 0 {
		latencyScore = 0
	}

	freshnessScore := 1.0 - (float64(h.BlockDelta) / 10.0)
	if freshnessScore < 0 {
		freshnessScore = 0
	}

	return (successScore * 0.5) + (latencyScore * 0.3) + (freshnessScore * 0.2)
}
