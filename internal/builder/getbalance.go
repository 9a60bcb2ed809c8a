package builder

import (
	"github.com/dmagro/eth-indexer/internal/method"
	"github.com/dmagro/eth-indexer/internal/workitem"
)

// GetBalanceBuilder constructs a single eth_getBalance WorkItem for one
// address at a block number or tag. Grounded on original_source's
// api/eth/get_balance.rs::GetBalanceBuilder, minus its "at timestamp"
// branch: that composite operation is richer than a plain Builder (it
// needs a block-time search and a miss policy), so spec.md assigns it to
// its own component — internal/balance.BalanceAtTimestamp — rather than
// folding it in here.
type GetBalanceBuilder struct {
	addr string
	at   method.BlockNumberOrTag
}

// NewGetBalanceBuilder defaults to the "latest" tag, same as the
// original source.
func NewGetBalanceBuilder(addr string) *GetBalanceBuilder {
	return &GetBalanceBuilder{addr: addr, at: method.TagOf(method.TagLatest)}
}

func (b *GetBalanceBuilder) AtBlock(n method.BlockNumberOrTag) *GetBalanceBuilder {
	b.at = n
	return b
}

// WorkItem returns the single WorkItem this builder plans — there is no
// batching here, so Plan() would be a one-element slice for no benefit;
// callers that need a Plan-shaped return use method.GetBalancePlan
// directly with a BalanceQuery of their own.
func (b *GetBalanceBuilder) WorkItem() workitem.WorkItem {
	return method.WorkOne(b.addr, b.at)
}
