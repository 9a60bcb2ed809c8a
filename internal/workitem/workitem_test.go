package workitem

import "testing"

func TestChunksCoversRangeExactly(t *testing.T) {
	r := Range{From: 100, To: 349}
	chunks := Chunks(r, 50)

	want := []Range{
		{From: 100, To: 149},
		{From: 150, To: 199},
		{From: 200, To: 249},
		{From: 250, To: 299},
		{From: 300, To: 349},
	}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d: %v", len(chunks), len(want), chunks)
	}
	for i, c := range chunks {
		if c != want[i] {
			t.Errorf("chunk %d = %v, want %v", i, c, want[i])
		}
	}
}

func TestChunksAdjacentPairsAreContiguous(t *testing.T) {
	chunks := Chunks(Range{From: 0, To: 1000}, 37)
	for i := 1; i < len(chunks); i++ {
		if chunks[i-1].To+1 != chunks[i].From {
			t.Fatalf("gap/overlap between chunk %d (%v) and %d (%v)", i-1, chunks[i-1], i, chunks[i])
		}
	}
	if chunks[0].From != 0 {
		t.Errorf("first chunk starts at %d, want 0", chunks[0].From)
	}
	if chunks[len(chunks)-1].To != 1000 {
		t.Errorf("last chunk ends at %d, want 1000", chunks[len(chunks)-1].To)
	}
}

func TestChunksSingleBlockRange(t *testing.T) {
	chunks := Chunks(Range{From: 5, To: 5}, 50)
	if len(chunks) != 1 || chunks[0] != (Range{From: 5, To: 5}) {
		t.Fatalf("range(a,a) should yield exactly one chunk, got %v", chunks)
	}
}

func TestChunksSizeLargerThanSpan(t *testing.T) {
	r := Range{From: 10, To: 20}
	chunks := Chunks(r, 1000)
	if len(chunks) != 1 || chunks[0] != r {
		t.Fatalf("chunk_size > span should yield one chunk equal to the span, got %v", chunks)
	}
}

func TestChunksSizeZeroClampsToOne(t *testing.T) {
	chunks := Chunks(Range{From: 0, To: 2}, 0)
	want := []Range{{0, 0}, {1, 1}, {2, 2}}
	if len(chunks) != len(want) {
		t.Fatalf("got %v, want %v", chunks, want)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Fatalf("got %v, want %v", chunks, want)
		}
	}
}

func TestChunksSaturatesAtUint64Max(t *testing.T) {
	max := ^uint64(0)
	chunks := Chunks(Range{From: max - 2, To: max}, 2)
	want := []Range{{max - 2, max - 1}, {max, max}}
	if len(chunks) != len(want) {
		t.Fatalf("got %v, want %v", chunks, want)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Fatalf("got %v, want %v", chunks, want)
		}
	}
}

func TestOrderingKeyConstructors(t *testing.T) {
	rk := RangeKey(Range{From: 1, To: 2})
	if rk.Kind != KindRange || rk.Range != (Range{From: 1, To: 2}) {
		t.Errorf("RangeKey produced %+v", rk)
	}
	nk := NoneKey()
	if nk.Kind != KindNone {
		t.Errorf("NoneKey produced %+v", nk)
	}
	var zero OrderingKey
	if zero.Kind != KindNone {
		t.Errorf("zero-value OrderingKey should be KindNone, got %+v", zero)
	}
}

func TestRangeSize(t *testing.T) {
	if got := (Range{From: 10, To: 10}).Size(); got != 1 {
		t.Errorf("Size of singleton range = %d, want 1", got)
	}
	if got := (Range{From: 10, To: 19}).Size(); got != 10 {
		t.Errorf("Size = %d, want 10", got)
	}
}
