package method

import (
	"encoding/json"
	"fmt"

	"github.com/dmagro/eth-indexer/internal/workitem"
)

// TraceFilterMode mirrors trace_filter's fromAddress/toAddress matching
// semantics: Union matches traces touching either list, Intersection
// requires both.
type TraceFilterMode string

const (
	ModeUnion        TraceFilterMode = "union"
	ModeIntersection TraceFilterMode = "intersection"
)

// Trace is the subset of a trace_filter result entry callers inspect.
type Trace struct {
	Action      json.RawMessage `json:"action"`
	Result      json.RawMessage `json:"result"`
	TraceAddr   []int           `json:"traceAddress"`
	Type        string          `json:"type"`
	BlockNumber uint64          `json:"blockNumber"`
	BlockHash   string          `json:"blockHash"`
	TxHash      string          `json:"transactionHash"`
	TxPosition  int             `json:"transactionPosition"`
}

// TraceFilterPlan is the trace_filter planner: analogous to GetLogsPlan,
// it chunks Range and emits one call per chunk, carrying the address
// filters, mode, and pagination straight through.
type TraceFilterPlan struct {
	Range     workitem.Range
	ChunkSize uint64
	From      []string
	To        []string
	Mode      TraceFilterMode // zero value defaults to Union in Plan
	After     *uint64
	Count     *uint64
}

func (p TraceFilterPlan) Plan() []workitem.WorkItem {
	mode := p.Mode
	if mode == "" {
		mode = ModeUnion
	}

	var items []workitem.WorkItem
	for _, r := range workitem.Chunks(p.Range, p.ChunkSize) {
		filter := map[string]interface{}{
			"fromBlock": NumberOf(r.From),
			"toBlock":   NumberOf(r.To),
			"mode":      string(mode),
		}
		if len(p.From) > 0 {
			filter["fromAddress"] = p.From
		}
		if len(p.To) > 0 {
			filter["toAddress"] = p.To
		}
		if p.After != nil {
			filter["after"] = *p.After
		}
		if p.Count != nil {
			filter["count"] = *p.Count
		}
		items = append(items, workitem.WorkItem{
			Method: "trace_filter",
			Params: []interface{}{filter},
			Key:    workitem.RangeKey(r),
		})
	}
	return items
}

// DecodeTraceFilter parses a trace_filter result into its Trace entries.
func DecodeTraceFilter(raw json.RawMessage) ([]Trace, error) {
	var traces []Trace
	if err := json.Unmarshal(raw, &traces); err != nil {
		return nil, fmt.Errorf("method: decode trace_filter result: %w", err)
	}
	return traces, nil
}
