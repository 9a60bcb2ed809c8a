package method

import (
	"encoding/json"
	"math/big"

	"github.com/dmagro/eth-indexer/internal/rpc"
	"github.com/dmagro/eth-indexer/internal/workitem"
)

// GetBalancePlan emits one eth_getBalance call per (address, block)
// query. Balance lookups have no natural ordering key — a caller asking
// for balances at several blocks is not asking for a contiguous range —
// so every item carries a None key, same as the original source's
// GetBalancePlan.
type GetBalancePlan struct {
	Queries []BalanceQuery
}

// BalanceQuery pairs one address with the block selector to read it at.
type BalanceQuery struct {
	Address string
	At      BlockNumberOrTag
}

func (p GetBalancePlan) Plan() []workitem.WorkItem {
	items := make([]workitem.WorkItem, 0, len(p.Queries))
	for _, q := range p.Queries {
		items = append(items, workOne(q.Address, q.At))
	}
	return items
}

// workOne builds a single eth_getBalance WorkItem, shared by Plan and by
// internal/builder/internal/balance, which issue one-off balance reads
// outside of any batch — the same role the original source's free
// function work_one plays alongside GetBalancePlan::plan.
func workOne(addr string, at BlockNumberOrTag) workitem.WorkItem {
	return workitem.WorkItem{
		Method: "eth_getBalance",
		Params: []interface{}{addr, at},
		Key:    workitem.NoneKey(),
	}
}

// WorkOne is workOne exported for other packages (internal/builder,
// internal/balance) that need a single balance-read WorkItem without
// constructing a one-element GetBalancePlan.
func WorkOne(addr string, at BlockNumberOrTag) workitem.WorkItem { return workOne(addr, at) }

// DecodeGetBalance parses an eth_getBalance result (a hex-encoded wei
// value) into a big.Int.
func DecodeGetBalance(raw json.RawMessage) (*big.Int, error) {
	var hexVal string
	if err := json.Unmarshal(raw, &hexVal); err != nil {
		return nil, err
	}
	return rpc.ParseHexBigInt(hexVal), nil
}
