// Package balance implements the balance-at-timestamp composite
// operation from spec.md §4.8: locate the block at or before a
// timestamp via internal/blocktime, then read the balance there,
// applying one of three miss policies when the timestamp falls outside
// the search bounds. Grounded on original_source's api/eth/get_balance.rs
// (the "at timestamp" branch of GetBalanceBuilder) — but the three named
// policies themselves are spec.md's addition; the original source has no
// policy branching at all, it simply errors out on a miss.
package balance

import (
	"context"
	"fmt"
	"math/big"

	"github.com/dmagro/eth-indexer/internal/blocktime"
	"github.com/dmagro/eth-indexer/internal/dispatch"
	"github.com/dmagro/eth-indexer/internal/method"
	"github.com/dmagro/eth-indexer/internal/rpc"
)

// MissPolicy governs what BalanceAtTimestamp does when t falls outside
// the search bounds [lo, hi].
type MissPolicy uint8

const (
	// Strict returns (nil, nil) on any miss: the caller gets no balance.
	Strict MissPolicy = iota
	// ClampToBounds returns the balance at whichever bound (lo or hi) the
	// miss fell outside of.
	ClampToBounds
	// AutoWidenToLatest only widens upward: on an AfterRange miss it
	// retries once against [hi+1, finalized]; on a BeforeRange miss it
	// cannot widen downward (bounded by block 0), so it behaves like
	// Strict. This asymmetry is spec.md §9's documented-as-intentional
	// open question.
	AutoWidenToLatest
)

func fetchBalance(ctx context.Context, d *dispatch.Dispatcher, addr string, at method.BlockNumberOrTag) (*big.Int, error) {
	item := method.WorkOne(addr, at)
	raw, err := d.RunOnce(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("balance: eth_getBalance: %w", err)
	}
	return method.DecodeGetBalance(raw)
}

// BalanceAtTimestamp implements spec.md §4.8. A nil, nil return means
// the query missed and the policy has no fallback for that miss (Strict
// on any miss, AutoWidenToLatest on a BeforeRange miss); any other
// return is either a balance or a non-nil error.
func BalanceAtTimestamp(ctx context.Context, d *dispatch.Dispatcher, addr string, t, lo, hi uint64, policy MissPolicy) (*big.Int, error) {
	blockNum, miss, err := blocktime.BlockAtOrBeforeTS(ctx, d, t, lo, hi)
	if err != nil {
		return nil, err
	}
	if miss == nil {
		return fetchBalance(ctx, d, addr, method.NumberOf(blockNum))
	}

	switch miss.Kind {
	case blocktime.MissBeforeRange:
		switch policy {
		case Strict, AutoWidenToLatest:
			return nil, nil
		case ClampToBounds:
			return fetchBalance(ctx, d, addr, method.NumberOf(lo))
		}
	case blocktime.MissAfterRange:
		switch policy {
		case Strict:
			return nil, nil
		case ClampToBounds:
			return fetchBalance(ctx, d, addr, method.NumberOf(hi))
		case AutoWidenToLatest:
			return widenToLatest(ctx, d, addr, t, hi)
		}
	}
	return nil, fmt.Errorf("balance: unreachable miss/policy combination")
}

// widenToLatest implements the AutoWidenToLatest/AfterRange branch: fetch
// the finalized block, set lo' := hi+1, hi' := finalized.number; if
// lo' > hi' (nothing finalized past hi), fall back to the balance at the
// original hi; else retry the search once on [lo', hi']. A second miss
// still resolves to the balance at hi' — widening is attempted at most
// once, never recursively.
func widenToLatest(ctx context.Context, d *dispatch.Dispatcher, addr string, t, hi uint64) (*big.Int, error) {
	finalized, err := fetchFinalized(ctx, d)
	if err != nil {
		return nil, err
	}

	loPrime := hi + 1
	hiPrime := finalized

	if loPrime > hiPrime {
		return fetchBalance(ctx, d, addr, method.NumberOf(hi))
	}

	blockNum, miss, err := blocktime.BlockAtOrBeforeTS(ctx, d, t, loPrime, hiPrime)
	if err != nil {
		return nil, err
	}
	if miss == nil {
		return fetchBalance(ctx, d, addr, method.NumberOf(blockNum))
	}
	// Second miss (either direction): widening is attempted at most once,
	// so fall back to the widened upper bound.
	return fetchBalance(ctx, d, addr, method.NumberOf(hiPrime))
}

// fetchFinalized resolves the "finalized" tag to a concrete block number.
func fetchFinalized(ctx context.Context, d *dispatch.Dispatcher) (uint64, error) {
	item := method.BlockByNumberPlan{
		Numbers: []method.BlockNumberOrTag{method.TagOf(method.TagFinalized)},
		Full:    false,
	}.Plan()[0]
	raw, err := d.RunOnce(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("balance: fetch finalized block: %w", err)
	}
	block, err := method.DecodeBlockByNumber(raw)
	if err != nil {
		return 0, err
	}
	if block == nil {
		return 0, fmt.Errorf("balance: finalized block not found")
	}
	return rpc.ParseHexUint64(block.Number)
}
