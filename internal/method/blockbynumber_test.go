package method

import (
	"testing"

	"github.com/dmagro/eth-indexer/internal/workitem"
)

func TestBlockByNumberPlanKeysNumericEntriesByRange(t *testing.T) {
	plan := BlockByNumberPlan{Numbers: []BlockNumberOrTag{NumberOf(42)}, Full: true}
	items := plan.Plan()
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Key.Kind != workitem.KindRange || items[0].Key.Range != (workitem.Range{From: 42, To: 42}) {
		t.Errorf("numeric entry should get Range{42,42}, got %v", items[0].Key)
	}
}

func TestBlockByNumberPlanTagsAreUnordered(t *testing.T) {
	plan := BlockByNumberPlan{Numbers: []BlockNumberOrTag{TagOf(TagLatest)}, Full: true}
	items := plan.Plan()
	if items[0].Key.Kind != workitem.KindNone {
		t.Errorf("tag entry should get a None key, got %v", items[0].Key)
	}
}

func TestDecodeBlockByNumberNullIsSemanticMiss(t *testing.T) {
	block, err := DecodeBlockByNumber([]byte("null"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if block != nil {
		t.Errorf("expected nil block for a null result, got %+v", block)
	}
}

func TestDecodeBlockByNumber(t *testing.T) {
	raw := []byte(`{"number":"0x10","hash":"0xabc","timestamp":"0x5f5e100","gasUsed":"0x0","gasLimit":"0x0"}`)
	block, err := DecodeBlockByNumber(raw)
	if err != nil {
		t.Fatalf("DecodeBlockByNumber: %v", err)
	}
	if block.Number != "0x10" {
		t.Errorf("got number %s, want 0x10", block.Number)
	}
}
