// Package blocktime implements the block-time binary search from
// spec.md §4.7: given a timestamp and a candidate block range, find the
// greatest block number whose timestamp does not exceed it. Grounded on
// original_source's api/block_time.rs, generalized per spec.md's typed
// RangeMiss — the original only ever returns Option<Block>, while the
// spec distinguishes "the whole range is too late" from "too early" so
// internal/balance can apply a miss policy to each case differently.
package blocktime

import (
	"context"
	"fmt"

	"github.com/dmagro/eth-indexer/internal/dispatch"
	"github.com/dmagro/eth-indexer/internal/method"
	"github.com/dmagro/eth-indexer/internal/rpc"
)

// MissKind discriminates the two RangeMiss variants spec.md §4.7 names.
type MissKind uint8

const (
	// MissBeforeRange means t is earlier than every block in [lo, hi].
	MissBeforeRange MissKind = iota + 1
	// MissAfterRange means t is later than every block in [lo, hi].
	MissAfterRange
)

// RangeMiss is returned instead of a block number when t falls outside
// [ts(lo), ts(hi)]. Bound is the block (lo for BeforeRange, hi for
// AfterRange) whose timestamp is reported in BoundTs.
type RangeMiss struct {
	Kind    MissKind
	T       uint64
	Bound   uint64
	BoundTs uint64
}

func (m *RangeMiss) Error() string {
	switch m.Kind {
	case MissBeforeRange:
		return fmt.Sprintf("blocktime: t=%d is before range (lo=%d, lo_ts=%d)", m.T, m.Bound, m.BoundTs)
	default:
		return fmt.Sprintf("blocktime: t=%d is after range (hi=%d, hi_ts=%d)", m.T, m.Bound, m.BoundTs)
	}
}

// fetchTimestamp fetches block n header-only (full=false) and returns
// its timestamp. found is false when the node reports the block as not
// found (a semantic miss per spec.md §7, treated here as a fatal
// precondition failure per §4.7 step 2: "if either fetch returns
// not found, fail fatally").
func fetchTimestamp(ctx context.Context, d *dispatch.Dispatcher, n uint64) (ts uint64, found bool, err error) {
	item := method.BlockByNumberPlan{Numbers: []method.BlockNumberOrTag{method.NumberOf(n)}, Full: false}.Plan()[0]
	raw, err := d.RunOnce(ctx, item)
	if err != nil {
		return 0, false, fmt.Errorf("blocktime: fetch block %d: %w", n, err)
	}
	block, err := method.DecodeBlockByNumber(raw)
	if err != nil {
		return 0, false, err
	}
	if block == nil {
		return 0, false, nil
	}
	ts, err = rpc.ParseHexUint64(block.Timestamp)
	if err != nil {
		return 0, false, fmt.Errorf("blocktime: decode timestamp for block %d: %w", n, err)
	}
	return ts, true, nil
}

// BlockAtOrBeforeTS runs the spec.md §4.7 algorithm: fetch the
// boundaries, short-circuit to a RangeMiss if t falls outside
// [ts(lo), ts(hi)], else binary-search for the greatest block number
// whose timestamp is <= t. Costs 2 calls for the bounds plus one per
// search step, at most 2 + floor(log2(hi-lo+1)) + 1 calls on the path
// that doesn't miss. Assumes block timestamps are
// non-decreasing in block number (true on mainnet post-merge; see
// spec.md §9's note on uncle blocks and old clients).
func BlockAtOrBeforeTS(ctx context.Context, d *dispatch.Dispatcher, t, lo, hi uint64) (uint64, *RangeMiss, error) {
	loTs, found, err := fetchTimestamp(ctx, d, lo)
	if err != nil {
		return 0, nil, err
	}
	if !found {
		return 0, nil, fmt.Errorf("blocktime: block %d (lo) not found", lo)
	}
	hiTs, found, err := fetchTimestamp(ctx, d, hi)
	if err != nil {
		return 0, nil, err
	}
	if !found {
		return 0, nil, fmt.Errorf("blocktime: block %d (hi) not found", hi)
	}

	if t < loTs {
		return 0, &RangeMiss{Kind: MissBeforeRange, T: t, Bound: lo, BoundTs: loTs}, nil
	}
	if t > hiTs {
		return 0, &RangeMiss{Kind: MissAfterRange, T: t, Bound: hi, BoundTs: hiTs}, nil
	}

	l, r := lo, hi
	candidate := lo
	for l <= r {
		mid := l + (r-l)/2
		midTs, found, err := fetchTimestamp(ctx, d, mid)
		if err != nil {
			return 0, nil, err
		}
		if !found {
			return 0, nil, fmt.Errorf("blocktime: block %d (mid) not found", mid)
		}
		if midTs <= t {
			candidate = mid
			if mid == ^uint64(0) {
				break // saturate: no block after the uint64 max
			}
			l = mid + 1
		} else {
			if mid == 0 {
				break // saturate: no block before 0
			}
			r = mid - 1
		}
	}
	return candidate, nil, nil
}
