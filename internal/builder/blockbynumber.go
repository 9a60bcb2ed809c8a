package builder

import "github.com/dmagro/eth-indexer/internal/method"

// BlockByNumberBuilder constructs a method.BlockByNumberPlan from any mix
// of explicit numbers, tags, and a numeric range. Grounded on
// original_source's api/eth/get_block_by_number.rs.
type BlockByNumberBuilder struct {
	numbers    []method.BlockNumberOrTag
	haveRange  bool
	start, end uint64
	full       bool
	maxCount   int
}

// NewBlockByNumberBuilder returns a builder defaulting to full
// transaction objects (full=true) and a 10,000-entry safety cap, the
// same defaults as the original source.
func NewBlockByNumberBuilder() *BlockByNumberBuilder {
	return &BlockByNumberBuilder{full: true, maxCount: 10_000}
}

func (b *BlockByNumberBuilder) Push(n method.BlockNumberOrTag) *BlockByNumberBuilder {
	b.numbers = append(b.numbers, n)
	return b
}

func (b *BlockByNumberBuilder) Numbers(ns []method.BlockNumberOrTag) *BlockByNumberBuilder {
	b.numbers = ns
	return b
}

// Range expands to one numeric entry per block in [start, end], same as
// the original source's .range(start, end).
func (b *BlockByNumberBuilder) Range(start, end uint64) *BlockByNumberBuilder {
	b.haveRange = true
	b.start, b.end = start, end
	return b
}

func (b *BlockByNumberBuilder) Full(yes bool) *BlockByNumberBuilder { b.full = yes; return b }

func (b *BlockByNumberBuilder) HashesOnly() *BlockByNumberBuilder { return b.Full(false) }

func (b *BlockByNumberBuilder) Limit(max int) *BlockByNumberBuilder {
	if max < 1 {
		max = 1
	}
	b.maxCount = max
	return b
}

func (b *BlockByNumberBuilder) Plan() (*method.BlockByNumberPlan, error) {
	numbers := b.numbers
	if b.haveRange {
		if b.end < b.start {
			return nil, invalidRange("range")
		}
		for n := b.start; n <= b.end; n++ {
			numbers = append(numbers, method.NumberOf(n))
			if n == ^uint64(0) {
				break // saturate: avoid wrapping past the uint64 max
			}
		}
	}
	if len(numbers) > b.maxCount {
		return nil, tooMany("numbers", len(numbers), b.maxCount)
	}
	return &method.BlockByNumberPlan{Numbers: numbers, Full: b.full}, nil
}
