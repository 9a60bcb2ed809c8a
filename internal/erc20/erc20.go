// Package erc20 adds ERC-20-specific conveniences over internal/method
// and internal/builder: the two transfer-log lanes from spec.md §4.9
// (wallet transfers, split into outgoing/incoming; token transfers) and
// a BalanceOf helper built on eth_call. Grounded on original_source's
// contracts/erc20.rs (event signature, indexed-address topic encoding)
// and api/eth/get_logs.rs's helpers module (erc20_transfer_from_topics/
// erc20_transfer_to_topics), plus api/erc20/balance.rs (token_balance_at_block).
package erc20

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/dmagro/eth-indexer/internal/dispatch"
	"github.com/dmagro/eth-indexer/internal/method"
	"github.com/dmagro/eth-indexer/internal/rpc"
	"github.com/dmagro/eth-indexer/internal/workitem"
)

// TransferSigHash is the Keccak-256 hash of the canonical event
// signature "Transfer(address,address,uint256)", the topic0 every
// ERC-20 Transfer log carries. Computed once at package init the same
// way the original source's contracts::erc20::TRANSFER_SIG is a compile
// time constant (alloy's `sol!` macro computes it at build time; Go has
// no macro equivalent, so it's computed at init instead).
var TransferSigHash = transferSigHash()

func transferSigHash() string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte("Transfer(address,address,uint256)"))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// AddressTopic left-pads a 20-byte address into the 32-byte topic
// Ethereum logs use for indexed address parameters — identical encoding
// to method.AddressTopic, re-exported here so erc20 callers don't need
// to import internal/method directly for this one helper.
func AddressTopic(addr string) (string, error) { return method.AddressTopic(addr) }

// Erc20WalletTransfersBuilder plans two independent lanes of
// eth_getLogs calls for every Transfer event touching wallet: outgoing
// (wallet is the indexed "from") and incoming (wallet is the indexed
// "to"). The two lanes must be consumed as separate ordered streams —
// mixing them would feed internal/order two items with the same `from`
// ordering key, a contract violation it has no way to detect.
type Erc20WalletTransfersBuilder struct {
	wallet    string
	from, to  uint64
	chunk     uint64
	tokens    []string // optional allow-list; empty means any token
	maxBlocks uint64
	maxTokens int
}

func NewErc20WalletTransfersBuilder(wallet string, from, to uint64) *Erc20WalletTransfersBuilder {
	return &Erc20WalletTransfersBuilder{
		wallet:    wallet,
		from:      from,
		to:        to,
		chunk:     10_000,
		maxBlocks: 1_000_000,
		maxTokens: 50_000,
	}
}

func (b *Erc20WalletTransfersBuilder) ChunkSize(n uint64) *Erc20WalletTransfersBuilder {
	if n < 1 {
		n = 1
	}
	b.chunk = n
	return b
}

func (b *Erc20WalletTransfersBuilder) Tokens(addrs []string) *Erc20WalletTransfersBuilder {
	b.tokens = addrs
	return b
}

func (b *Erc20WalletTransfersBuilder) Limits(maxBlocks uint64, maxTokens int) *Erc20WalletTransfersBuilder {
	if maxBlocks < 1 {
		maxBlocks = 1
	}
	if maxTokens < 1 {
		maxTokens = 1
	}
	b.maxBlocks = maxBlocks
	b.maxTokens = maxTokens
	return b
}

// PlanSplit validates and returns the two lanes separately plus the
// shared range, matching spec.md §4.9's plan_split().
func (b *Erc20WalletTransfersBuilder) PlanSplit() (from, to []workitem.WorkItem, r workitem.Range, err error) {
	if b.to < b.from {
		return nil, nil, workitem.Range{}, fmt.Errorf("erc20: invalid range: to < from")
	}
	blocks := b.to - b.from + 1
	if blocks > b.maxBlocks {
		return nil, nil, workitem.Range{}, fmt.Errorf("erc20: range too large: %d > %d", blocks, b.maxBlocks)
	}
	if len(b.tokens) > b.maxTokens {
		return nil, nil, workitem.Range{}, fmt.Errorf("erc20: too many token addresses: %d > %d", len(b.tokens), b.maxTokens)
	}

	watchedTopic, err := AddressTopic(b.wallet)
	if err != nil {
		return nil, nil, workitem.Range{}, err
	}
	baseRange := workitem.Range{From: b.from, To: b.to}

	buildLane := func(topics []method.Topic) []workitem.WorkItem {
		return method.GetLogsPlan{
			Range:     baseRange,
			ChunkSize: b.chunk,
			Addresses: b.tokens,
			Topics:    topics,
		}.Plan()
	}

	outgoing := buildLane([]method.Topic{
		method.OneTopic(TransferSigHash),
		method.OneTopic(watchedTopic),
		method.AnyTopic(),
		method.AnyTopic(),
	})
	incoming := buildLane([]method.Topic{
		method.OneTopic(TransferSigHash),
		method.AnyTopic(),
		method.OneTopic(watchedTopic),
		method.AnyTopic(),
	})
	return outgoing, incoming, baseRange, nil
}

// Plan concatenates the two lanes when lane identity doesn't matter to
// the caller, per spec.md §4.9.
func (b *Erc20WalletTransfersBuilder) Plan() ([]workitem.WorkItem, workitem.Range, error) {
	from, to, r, err := b.PlanSplit()
	if err != nil {
		return nil, workitem.Range{}, err
	}
	return append(from, to...), r, nil
}

// Erc20TokenTransfersBuilder plans a single stream of every Transfer
// event emitted by one token contract over a range.
type Erc20TokenTransfersBuilder struct {
	token     string
	from, to  uint64
	chunk     uint64
	maxBlocks uint64
}

func NewErc20TokenTransfersBuilder(token string, from, to uint64) *Erc20TokenTransfersBuilder {
	return &Erc20TokenTransfersBuilder{token: token, from: from, to: to, chunk: 10_000, maxBlocks: 1_000_000}
}

func (b *Erc20TokenTransfersBuilder) ChunkSize(n uint64) *Erc20TokenTransfersBuilder {
	if n < 1 {
		n = 1
	}
	b.chunk = n
	return b
}

func (b *Erc20TokenTransfersBuilder) LimitBlocks(n uint64) *Erc20TokenTransfersBuilder {
	if n < 1 {
		n = 1
	}
	b.maxBlocks = n
	return b
}

func (b *Erc20TokenTransfersBuilder) Plan() ([]workitem.WorkItem, workitem.Range, error) {
	if b.to < b.from {
		return nil, workitem.Range{}, fmt.Errorf("erc20: invalid range: to < from")
	}
	blocks := b.to - b.from + 1
	if blocks > b.maxBlocks {
		return nil, workitem.Range{}, fmt.Errorf("erc20: range too large: %d > %d", blocks, b.maxBlocks)
	}

	r := workitem.Range{From: b.from, To: b.to}
	items := method.GetLogsPlan{
		Range:     r,
		ChunkSize: b.chunk,
		Addresses: []string{b.token},
		Topics:    []method.Topic{method.OneTopic(TransferSigHash)},
	}.Plan()
	return items, r, nil
}

// BalanceOf reads an ERC-20 token balance for owner at block selector at,
// via a single eth_call to balanceOf(address). Grounded on
// original_source's api/erc20/balance.rs::token_balance_at_block.
func BalanceOf(ctx context.Context, d *dispatch.Dispatcher, token, owner string, at method.BlockNumberOrTag) (*big.Int, error) {
	item, err := method.BalanceOfCall(token, owner, at)
	if err != nil {
		return nil, err
	}
	raw, err := d.RunOnce(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("erc20: balanceOf eth_call: %w", err)
	}
	hexResult, err := method.DecodeEthCall(raw)
	if err != nil {
		return nil, err
	}
	return rpc.DecodeUint256(hexResult)
}
