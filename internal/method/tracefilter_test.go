package method

import (
	"testing"

	"github.com/dmagro/eth-indexer/internal/workitem"
)

func TestTraceFilterPlanOneItemPerChunk(t *testing.T) {
	plan := TraceFilterPlan{
		Range:     workitem.Range{From: 100, To: 349},
		ChunkSize: 50,
		From:      []string{"0xA"},
	}
	items := plan.Plan()
	if len(items) != 5 {
		t.Fatalf("got %d items, want 5", len(items))
	}
	for _, it := range items {
		if it.Method != "trace_filter" {
			t.Errorf("method = %s, want trace_filter", it.Method)
		}
		if it.Key.Kind != workitem.KindRange {
			t.Errorf("every trace_filter item should be range-keyed, got %v", it.Key)
		}
	}
}

func TestTraceFilterPlanDefaultsToUnionMode(t *testing.T) {
	plan := TraceFilterPlan{Range: workitem.Range{From: 0, To: 0}, ChunkSize: 1}
	filter := plan.Plan()[0].Params[0].(map[string]interface{})
	if filter["mode"] != string(ModeUnion) {
		t.Errorf("mode = %v, want union", filter["mode"])
	}
}

func TestTraceFilterPlanOmitsUnsetAddressLists(t *testing.T) {
	plan := TraceFilterPlan{Range: workitem.Range{From: 0, To: 0}, ChunkSize: 1}
	filter := plan.Plan()[0].Params[0].(map[string]interface{})
	if _, ok := filter["fromAddress"]; ok {
		t.Error("fromAddress should be omitted when From is empty")
	}
	if _, ok := filter["toAddress"]; ok {
		t.Error("toAddress should be omitted when To is empty")
	}
}
