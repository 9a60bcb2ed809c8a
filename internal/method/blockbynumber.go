package method

import (
	"encoding/json"
	"fmt"

	"github.com/dmagro/eth-indexer/internal/workitem"
)

// Block is the subset of an eth_getBlockByNumber result callers need,
// including header-only responses (full=false): Transactions is left
// as raw JSON since its shape (hash strings vs. full objects) depends on
// the full flag the caller requested.
type Block struct {
	Number        string          `json:"number"`
	Hash          string          `json:"hash"`
	ParentHash    string          `json:"parentHash"`
	Timestamp     string          `json:"timestamp"`
	BaseFeePerGas string          `json:"baseFeePerGas,omitempty"`
	GasUsed       string          `json:"gasUsed"`
	GasLimit      string          `json:"gasLimit"`
	Transactions  json.RawMessage `json:"transactions"`
}

// BlockByNumberPlan emits one eth_getBlockByNumber call per selector.
// Numeric selectors get a Range{n,n}-keyed WorkItem (the spec's reference
// design even ranges single blocks so a caller can still feed numeric
// lookups through internal/order); tag selectors ("latest", "pending",
// ...) get a None key because they are not strictly orderable.
type BlockByNumberPlan struct {
	Numbers []BlockNumberOrTag
	Full    bool
}

func (p BlockByNumberPlan) Plan() []workitem.WorkItem {
	items := make([]workitem.WorkItem, 0, len(p.Numbers))
	for _, n := range p.Numbers {
		var key workitem.OrderingKey
		if n.IsNumber() {
			key = workitem.RangeKey(workitem.Range{From: n.Number(), To: n.Number()})
		} else {
			key = workitem.NoneKey()
		}
		items = append(items, workitem.WorkItem{
			Method: "eth_getBlockByNumber",
			Params: []interface{}{n, p.Full},
			Key:    key,
		})
	}
	return items
}

// DecodeBlockByNumber parses a result, returning (nil, nil) when the
// node reports the block as not found (a JSON null result) — a semantic
// miss per spec.md §7, not an error.
func DecodeBlockByNumber(raw json.RawMessage) (*Block, error) {
	if string(raw) == "null" {
		return nil, nil
	}
	var b Block
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("method: decode eth_getBlockByNumber result: %w", err)
	}
	return &b, nil
}
