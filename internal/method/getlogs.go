package method

import (
	"encoding/json"
	"fmt"

	"github.com/dmagro/eth-indexer/internal/workitem"
)

// Log is the subset of an eth_getLogs result entry every caller needs.
// Extra fields the node sends are ignored, the same "decode what you use"
// posture the teacher's internal/rpc/types.go takes with block/tx JSON.
type Log struct {
	Address          string   `json:"address"`
	Topics           []string `json:"topics"`
	Data             string   `json:"data"`
	BlockNumber      string   `json:"blockNumber"`
	TransactionHash  string   `json:"transactionHash"`
	TransactionIndex string   `json:"transactionIndex"`
	BlockHash        string   `json:"blockHash"`
	LogIndex         string   `json:"logIndex"`
	Removed          bool     `json:"removed"`
}

// GetLogsPlan is the general eth_getLogs planner described in spec.md
// §4.4: it chunks Range by ChunkSize, normalizes Topics to exactly four
// slots, and attaches Addresses only when present.
type GetLogsPlan struct {
	Range     workitem.Range
	ChunkSize uint64
	Addresses []string // omitted from the filter object entirely when empty
	Topics    []Topic  // 0..4 slots; missing slots fill with Any
}

// Plan emits one eth_getLogs WorkItem per chunk, each keyed by its
// sub-range so the caller can feed the batch through internal/order.
func (p GetLogsPlan) Plan() []workitem.WorkItem {
	topics := topicsJSON(p.Topics)

	items := make([]workitem.WorkItem, 0, len(workitem.Chunks(p.Range, p.ChunkSize)))
	for _, r := range workitem.Chunks(p.Range, p.ChunkSize) {
		filter := map[string]interface{}{
			"fromBlock": NumberOf(r.From),
			"toBlock":   NumberOf(r.To),
			"topics":    topics,
		}
		if len(p.Addresses) > 0 {
			filter["address"] = p.Addresses
		}
		items = append(items, workitem.WorkItem{
			Method: "eth_getLogs",
			Params: []interface{}{filter},
			Key:    workitem.RangeKey(r),
		})
	}
	return items
}

// DecodeGetLogs parses an eth_getLogs result into its Log entries.
func DecodeGetLogs(raw json.RawMessage) ([]Log, error) {
	var logs []Log
	if err := json.Unmarshal(raw, &logs); err != nil {
		return nil, fmt.Errorf("method: decode eth_getLogs result: %w", err)
	}
	return logs, nil
}
