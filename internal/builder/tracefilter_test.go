package builder

import "testing"

func TestTraceFilterBuilderFanOut(t *testing.T) {
	plan, err := NewTraceFilterBuilder().
		Target("0xA").
		StartBlock(100).
		EndBlock(349).
		ChunkSize(50).
		Plan()
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	items := plan.Plan()
	if len(items) != 5 {
		t.Fatalf("got %d items, want 5", len(items))
	}
	for _, it := range items {
		if it.Method != "trace_filter" {
			t.Errorf("method = %s", it.Method)
		}
	}
}

func TestTraceFilterBuilderTargetSetsBothFromAndTo(t *testing.T) {
	plan, err := NewTraceFilterBuilder().Target("0xA").EndBlock(0).Plan()
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plan.From) != 1 || plan.From[0] != "0xA" {
		t.Errorf("From = %v", plan.From)
	}
	if len(plan.To) != 1 || plan.To[0] != "0xA" {
		t.Errorf("To = %v", plan.To)
	}
}

func TestTraceFilterBuilderRejectsInvertedRange(t *testing.T) {
	_, err := NewTraceFilterBuilder().StartBlock(10).EndBlock(5).Plan()
	if err == nil {
		t.Fatal("expected an error for end_block < start_block")
	}
}

func TestTraceFilterBuilderRejectsSpanOverMaxSpan(t *testing.T) {
	_, err := NewTraceFilterBuilder().StartBlock(0).EndBlock(1000).Limits(100, 10_000).Plan()
	if err == nil {
		t.Fatal("expected an error for a span exceeding max_span")
	}
}

func TestTraceFilterBuilderClampsChunkToMaxChunk(t *testing.T) {
	plan, err := NewTraceFilterBuilder().EndBlock(0).ChunkSize(50_000).Limits(100_000, 10_000).Plan()
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.ChunkSize != 10_000 {
		t.Errorf("chunk size = %d, want clamped to 10000", plan.ChunkSize)
	}
}
