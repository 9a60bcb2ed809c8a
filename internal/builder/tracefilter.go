package builder

import (
	"github.com/dmagro/eth-indexer/internal/method"
	"github.com/dmagro/eth-indexer/internal/workitem"
)

// TraceFilterBuilder constructs a method.TraceFilterPlan. Grounded on
// original_source's api/trace_filter.rs: same field names, same defaults
// (chunk 1000, max span 100,000, max chunk 10,000).
type TraceFilterBuilder struct {
	start, end uint64
	chunk      uint64
	from, to   []string
	mode       method.TraceFilterMode
	after      *uint64
	count      *uint64
	maxSpan    uint64
	maxChunk   uint64
}

// NewTraceFilterBuilder returns a builder with the teacher-style defaults
// the original source ships: 1000-block chunks, a 100,000-block max span,
// and a 10,000-block max chunk.
func NewTraceFilterBuilder() *TraceFilterBuilder {
	return &TraceFilterBuilder{
		chunk:    1000,
		mode:     method.ModeUnion,
		maxSpan:  100_000,
		maxChunk: 10_000,
	}
}

// Target sets both From and To addresses to the single address addr —
// the common case of tracing everything touching one contract or account.
func (b *TraceFilterBuilder) Target(addr string) *TraceFilterBuilder {
	b.from = []string{addr}
	b.to = []string{addr}
	return b
}

func (b *TraceFilterBuilder) From(addrs []string) *TraceFilterBuilder { b.from = addrs; return b }
func (b *TraceFilterBuilder) To(addrs []string) *TraceFilterBuilder   { b.to = addrs; return b }

func (b *TraceFilterBuilder) StartBlock(n uint64) *TraceFilterBuilder { b.start = n; return b }
func (b *TraceFilterBuilder) EndBlock(n uint64) *TraceFilterBuilder   { b.end = n; return b }
func (b *TraceFilterBuilder) ChunkSize(n uint64) *TraceFilterBuilder  { b.chunk = n; return b }
func (b *TraceFilterBuilder) Mode(m method.TraceFilterMode) *TraceFilterBuilder {
	b.mode = m
	return b
}

func (b *TraceFilterBuilder) Pagination(after, count *uint64) *TraceFilterBuilder {
	b.after = after
	b.count = count
	return b
}

func (b *TraceFilterBuilder) Limits(maxSpan, maxChunk uint64) *TraceFilterBuilder {
	if maxSpan < 1 {
		maxSpan = 1
	}
	if maxChunk < 1 {
		maxChunk = 1
	}
	b.maxSpan = maxSpan
	b.maxChunk = maxChunk
	return b
}

// Plan validates the accumulated settings and produces a TraceFilterPlan.
func (b *TraceFilterBuilder) Plan() (*method.TraceFilterPlan, error) {
	if b.end < b.start {
		return nil, invalidRange("end_block")
	}
	span := b.end - b.start + 1
	if span > b.maxSpan {
		return nil, tooLarge("range", span, b.maxSpan)
	}
	chunk := clampChunk(b.chunk, b.maxChunk)

	return &method.TraceFilterPlan{
		Range:     workitem.Range{From: b.start, To: b.end},
		ChunkSize: chunk,
		From:      b.from,
		To:        b.to,
		Mode:      b.mode,
		After:     b.after,
		Count:     b.count,
	}, nil
}
