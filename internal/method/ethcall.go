package method

import (
	"encoding/json"
	"fmt"

	"github.com/dmagro/eth-indexer/internal/rpc"
	"github.com/dmagro/eth-indexer/internal/workitem"
)

// EthCallPlan emits one eth_call per (to, calldata, at) query. eth_call
// has no range position, so every item is None-keyed — the same
// treatment GetBalancePlan gives single-address lookups.
type EthCallPlan struct {
	Calls []Call
}

// Call is one eth_call invocation: send Calldata to contract To, evaluated
// against the state at block selector At.
type Call struct {
	To       string
	Calldata string // 0x-prefixed ABI-encoded calldata
	At       BlockNumberOrTag
}

func (p EthCallPlan) Plan() []workitem.WorkItem {
	items := make([]workitem.WorkItem, 0, len(p.Calls))
	for _, c := range p.Calls {
		items = append(items, workitem.WorkItem{
			Method: "eth_call",
			Params: []interface{}{
				map[string]interface{}{"to": c.To, "data": c.Calldata},
				c.At,
			},
			Key: workitem.NoneKey(),
		})
	}
	return items
}

// DecodeEthCall returns the raw 0x-prefixed hex result eth_call produced;
// specific callers (e.g. Erc20 BalanceOf) further decode it with
// rpc.DecodeUint256.
func DecodeEthCall(raw json.RawMessage) (string, error) {
	var hexVal string
	if err := json.Unmarshal(raw, &hexVal); err != nil {
		return "", fmt.Errorf("method: decode eth_call result: %w", err)
	}
	return hexVal, nil
}

// BalanceOfCall builds the single eth_call WorkItem for an ERC-20
// balanceOf(owner) read against token, reusing the teacher's ABI
// encoder (internal/rpc/abi.go) for the function selector and the
// padded address argument.
func BalanceOfCall(token, owner string, at BlockNumberOrTag) (workitem.WorkItem, error) {
	calldata, err := rpc.EncodeBalanceOfCalldata(owner)
	if err != nil {
		return workitem.WorkItem{}, fmt.Errorf("method: balanceOf calldata: %w", err)
	}
	return workitem.WorkItem{
		Method: "eth_call",
		Params: []interface{}{
			map[string]interface{}{"to": token, "data": calldata},
			at,
		},
		Key: workitem.NoneKey(),
	}, nil
}
