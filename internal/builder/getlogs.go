package builder

import (
	"github.com/dmagro/eth-indexer/internal/method"
	"github.com/dmagro/eth-indexer/internal/workitem"
)

// GetLogsBuilder constructs a method.GetLogsPlan. Grounded on
// original_source's api/eth/get_logs.rs::GetLogsBuilder, including its
// defaults (5000-block chunks, 1,000,000-block max span, 1024 max
// addresses, 64 max topic-OR width).
type GetLogsBuilder struct {
	from, to     uint64
	chunk        uint64
	addresses    []string
	topics       []method.Topic
	maxBlocks    uint64
	maxAddresses int
	maxTopicOr   int
}

func NewGetLogsBuilder(from, to uint64) *GetLogsBuilder {
	return &GetLogsBuilder{
		from:         from,
		to:           to,
		chunk:        5000,
		maxBlocks:    1_000_000,
		maxAddresses: 1024,
		maxTopicOr:   64,
	}
}

func (b *GetLogsBuilder) ChunkSize(n uint64) *GetLogsBuilder {
	if n < 1 {
		n = 1
	}
	b.chunk = n
	return b
}

func (b *GetLogsBuilder) Address(a string) *GetLogsBuilder {
	b.addresses = append(b.addresses, a)
	return b
}

func (b *GetLogsBuilder) Addresses(addrs []string) *GetLogsBuilder {
	b.addresses = addrs
	return b
}

// growTopics ensures slot is writable, filling any intervening slots
// with Any, per spec.md §4.5's topic slot-assignment rule. Writing to
// slot >= 4 is a no-op: Ethereum logs have at most 4 topics.
func (b *GetLogsBuilder) growTopics(slot int) bool {
	if slot >= 4 {
		return false
	}
	for len(b.topics) <= slot {
		b.topics = append(b.topics, method.AnyTopic())
	}
	return true
}

func (b *GetLogsBuilder) TopicAny(slot int) *GetLogsBuilder {
	if b.growTopics(slot) {
		b.topics[slot] = method.AnyTopic()
	}
	return b
}

func (b *GetLogsBuilder) TopicOne(slot int, hash string) *GetLogsBuilder {
	if b.growTopics(slot) {
		b.topics[slot] = method.OneTopic(hash)
	}
	return b
}

func (b *GetLogsBuilder) TopicOr(slot int, hashes []string) *GetLogsBuilder {
	if slot >= 4 {
		return b
	}
	if len(hashes) > b.maxTopicOr {
		hashes = hashes[:b.maxTopicOr]
	}
	b.growTopics(slot)
	b.topics[slot] = method.OrTopic(hashes)
	return b
}

func (b *GetLogsBuilder) Limits(maxBlocks uint64, maxAddresses, maxTopicOr int) *GetLogsBuilder {
	if maxBlocks < 1 {
		maxBlocks = 1
	}
	if maxAddresses < 1 {
		maxAddresses = 1
	}
	if maxTopicOr < 1 {
		maxTopicOr = 1
	}
	b.maxBlocks = maxBlocks
	b.maxAddresses = maxAddresses
	b.maxTopicOr = maxTopicOr
	return b
}

func (b *GetLogsBuilder) Plan() (*method.GetLogsPlan, error) {
	if b.to < b.from {
		return nil, invalidRange("range")
	}
	blocks := b.to - b.from + 1
	if blocks > b.maxBlocks {
		return nil, tooLarge("range", blocks, b.maxBlocks)
	}
	if len(b.addresses) > b.maxAddresses {
		return nil, tooMany("addresses", len(b.addresses), b.maxAddresses)
	}

	return &method.GetLogsPlan{
		Range:     workitem.Range{From: b.from, To: b.to},
		ChunkSize: b.chunk,
		Addresses: b.addresses,
		Topics:    b.topics,
	}, nil
}
