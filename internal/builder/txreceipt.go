package builder

import "github.com/dmagro/eth-indexer/internal/method"

// TxReceiptBuilder constructs a method.TxReceiptPlan, with the same
// stable-dedup and safety-cap behavior as TxByHashBuilder. Grounded on
// original_source's api/tx_receipt.rs.
type TxReceiptBuilder struct {
	hashes    []string
	maxHashes int
}

func NewTxReceiptBuilder() *TxReceiptBuilder {
	return &TxReceiptBuilder{maxHashes: 10_000}
}

func (b *TxReceiptBuilder) Hashes(hashes []string) *TxReceiptBuilder { b.hashes = hashes; return b }
func (b *TxReceiptBuilder) Push(h string) *TxReceiptBuilder          { b.hashes = append(b.hashes, h); return b }

func (b *TxReceiptBuilder) Limit(max int) *TxReceiptBuilder {
	if max < 1 {
		max = 1
	}
	b.maxHashes = max
	return b
}

func (b *TxReceiptBuilder) Plan() (*method.TxReceiptPlan, error) {
	if len(b.hashes) > b.maxHashes {
		return nil, tooMany("hashes", len(b.hashes), b.maxHashes)
	}
	return &method.TxReceiptPlan{Hashes: stableDedup(b.hashes)}, nil
}
