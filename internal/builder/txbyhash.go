package builder

import "github.com/dmagro/eth-indexer/internal/method"

// TxByHashBuilder constructs a method.TxByHashPlan, stably deduplicating
// hashes (first occurrence wins) and enforcing a safety cap on the
// number of calls planned at once. Grounded on original_source's
// api/tx_by_hash.rs.
type TxByHashBuilder struct {
	hashes    []string
	maxHashes int
}

func NewTxByHashBuilder() *TxByHashBuilder {
	return &TxByHashBuilder{maxHashes: 10_000}
}

func (b *TxByHashBuilder) Hashes(hashes []string) *TxByHashBuilder { b.hashes = hashes; return b }
func (b *TxByHashBuilder) Push(h string) *TxByHashBuilder          { b.hashes = append(b.hashes, h); return b }

func (b *TxByHashBuilder) Limit(max int) *TxByHashBuilder {
	if max < 1 {
		max = 1
	}
	b.maxHashes = max
	return b
}

func (b *TxByHashBuilder) Plan() (*method.TxByHashPlan, error) {
	if len(b.hashes) > b.maxHashes {
		return nil, tooMany("hashes", len(b.hashes), b.maxHashes)
	}
	return &method.TxByHashPlan{Hashes: stableDedup(b.hashes)}, nil
}

// stableDedup returns hashes with duplicates removed, keeping the first
// occurrence of each — the dedup law spec.md §8 tests directly
// (`[h1,h2,h1,h3,h2]` -> `[h1,h2,h3]`).
func stableDedup(hashes []string) []string {
	seen := make(map[string]struct{}, len(hashes))
	out := make([]string, 0, len(hashes))
	for _, h := range hashes {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}
