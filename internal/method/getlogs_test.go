package method

import (
	"encoding/json"
	"testing"

	"github.com/dmagro/eth-indexer/internal/workitem"
)

func TestGetLogsPlanFillsMissingTopicSlotsWithAny(t *testing.T) {
	hash := "0x" + "ab" + sixtyOneZeros()
	plan := GetLogsPlan{
		Range:     workitem.Range{From: 1, To: 1},
		ChunkSize: 10,
		Topics:    []Topic{AnyTopic(), AnyTopic(), OneTopic(hash)},
	}
	items := plan.Plan()
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	filter, ok := items[0].Params[0].(map[string]interface{})
	if !ok {
		t.Fatalf("params[0] is not a filter map: %#v", items[0].Params[0])
	}
	raw, err := json.Marshal(filter["topics"])
	if err != nil {
		t.Fatalf("marshal topics: %v", err)
	}
	want := `[null,null,"` + hash + `",null]`
	if string(raw) != want {
		t.Errorf("topics = %s, want %s", raw, want)
	}
}

func TestGetLogsPlanOmitsAddressWhenEmpty(t *testing.T) {
	items := GetLogsPlan{Range: workitem.Range{From: 1, To: 1}, ChunkSize: 10}.Plan()
	filter := items[0].Params[0].(map[string]interface{})
	if _, present := filter["address"]; present {
		t.Error("address should be omitted from the filter object when empty")
	}
}

func TestGetLogsPlanKeysEachChunkByItsRange(t *testing.T) {
	items := GetLogsPlan{Range: workitem.Range{From: 0, To: 99}, ChunkSize: 50}.Plan()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Key.Range != (workitem.Range{From: 0, To: 49}) {
		t.Errorf("first key = %v", items[0].Key.Range)
	}
	if items[1].Key.Range != (workitem.Range{From: 50, To: 99}) {
		t.Errorf("second key = %v", items[1].Key.Range)
	}
}

func TestDecodeGetLogs(t *testing.T) {
	raw := json.RawMessage(`[{"address":"0xabc","topics":["0x1"],"blockNumber":"0x10"}]`)
	logs, err := DecodeGetLogs(raw)
	if err != nil {
		t.Fatalf("DecodeGetLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].Address != "0xabc" {
		t.Errorf("got %+v", logs)
	}
}

// sixtyOneZeros pads a short hex string to look like a topic hash for
// readability in the test above; exact content doesn't matter, only
// round-tripping through JSON.
func sixtyOneZeros() string {
	s := ""
	for i := 0; i < 61; i++ {
		s += "0"
	}
	return s
}
