package method

import "encoding/json"

// Topic is a selector for a single eth_getLogs topic slot (topics[0..=3]):
// Any matches every value, One matches exactly one hash, Or matches any
// hash in the list. Mirrors the original source's Topic enum (get_logs.rs).
type Topic struct {
	kind topicKind
	one  string   // 0x-prefixed 32-byte hash, when kind == topicOne
	or   []string // 0x-prefixed 32-byte hashes, when kind == topicOr
}

type topicKind uint8

const (
	topicAny topicKind = iota
	topicOne
	topicOr
)

// AnyTopic matches any value in this slot (serializes to JSON null).
func AnyTopic() Topic { return Topic{kind: topicAny} }

// OneTopic matches exactly one 32-byte hash in this slot.
func OneTopic(hash string) Topic { return Topic{kind: topicOne, one: hash} }

// OrTopic matches any of the given 32-byte hashes in this slot.
func OrTopic(hashes []string) Topic { return Topic{kind: topicOr, or: append([]string(nil), hashes...)} }

// IsAny reports whether this slot is the wildcard (used by builders to
// decide whether overwriting a slot with Any is a no-op).
func (t Topic) IsAny() bool { return t.kind == topicAny }

func (t Topic) MarshalJSON() ([]byte, error) {
	switch t.kind {
	case topicOne:
		return json.Marshal(t.one)
	case topicOr:
		return json.Marshal(t.or)
	default:
		return json.Marshal(nil)
	}
}

// AddressTopic left-pads a 20-byte address (hex string, with or without
// 0x prefix) with 12 zero bytes to form the 32-byte topic Ethereum logs
// use to index address-typed event parameters (spec.md §4.9). It is the
// same encoding as rpc.EncodeAddress — both left-pad a 20-byte value into
// a 32-byte ABI word — exposed here under the log-topic name because
// callers building topic filters think in "topics", not "calldata words".
func AddressTopic(addr string) (string, error) {
	padded, err := addressWordHex(addr)
	if err != nil {
		return "", err
	}
	return padded, nil
}

// topicsJSON builds the fixed 4-element topics array the eth_getLogs
// filter object expects, filling any slot beyond len(topics) with Any.
func topicsJSON(topics []Topic) [4]Topic {
	var out [4]Topic
	for i := range out {
		if i < len(topics) {
			out[i] = topics[i]
		} else {
			out[i] = AnyTopic()
		}
	}
	return out
}
