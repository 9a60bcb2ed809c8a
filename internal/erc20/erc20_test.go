package erc20

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/dmagro/eth-indexer/internal/method"
)

func TestTransferSigHash(t *testing.T) {
	if !strings.HasPrefix(TransferSigHash, "0x") {
		t.Fatalf("sig hash should be 0x-prefixed, got %s", TransferSigHash)
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(TransferSigHash, "0x"))
	if err != nil {
		t.Fatalf("sig hash is not valid hex: %v", err)
	}
	if len(raw) != 32 {
		t.Fatalf("sig hash should be 32 bytes, got %d", len(raw))
	}
	// Known Keccak-256("Transfer(address,address,uint256)").
	want := "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"
	if TransferSigHash != want {
		t.Errorf("got %s, want %s", TransferSigHash, want)
	}
}

func TestWalletTransfersBuilderSplitsIntoTwoLanes(t *testing.T) {
	b := NewErc20WalletTransfersBuilder("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", 0, 9999).ChunkSize(5000)
	out, in, r, err := b.PlanSplit()
	if err != nil {
		t.Fatalf("PlanSplit: %v", err)
	}
	if len(out) == 0 || len(in) == 0 {
		t.Fatalf("expected both lanes non-empty, got out=%d in=%d", len(out), len(in))
	}
	if r.From != 0 || r.To != 9999 {
		t.Errorf("range = %v", r)
	}

	outFilter := out[0].Params[0].(map[string]interface{})
	inFilter := in[0].Params[0].(map[string]interface{})
	outTopics := outFilter["topics"].([4]method.Topic)
	inTopics := inFilter["topics"].([4]method.Topic)

	if outTopics[1].IsAny() || !outTopics[2].IsAny() {
		t.Error("outgoing lane should filter topic[1] (from) and leave topic[2] (to) wildcard")
	}
	if inTopics[2].IsAny() || !inTopics[1].IsAny() {
		t.Error("incoming lane should filter topic[2] (to) and leave topic[1] (from) wildcard")
	}
}

func TestWalletTransfersBuilderRejectsInvertedRange(t *testing.T) {
	_, _, _, err := NewErc20WalletTransfersBuilder("0xA", 10, 5).PlanSplit()
	if err == nil {
		t.Fatal("expected an error for to < from")
	}
}

func TestWalletTransfersBuilderRejectsSpanOverMaxBlocks(t *testing.T) {
	_, _, _, err := NewErc20WalletTransfersBuilder("0xA", 0, 100).Limits(10, 50_000).PlanSplit()
	if err == nil {
		t.Fatal("expected an error for a span exceeding max_blocks")
	}
}

func TestWalletTransfersBuilderPlanConcatenatesLanes(t *testing.T) {
	b := NewErc20WalletTransfersBuilder("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", 0, 0)
	items, _, err := b.Plan()
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	out, in, _, _ := b.PlanSplit()
	if len(items) != len(out)+len(in) {
		t.Errorf("Plan() should concatenate both lanes: got %d, want %d", len(items), len(out)+len(in))
	}
}

func TestTokenTransfersBuilderFiltersByAddress(t *testing.T) {
	items, _, err := NewErc20TokenTransfersBuilder("0xTOKEN", 0, 0).Plan()
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	filter := items[0].Params[0].(map[string]interface{})
	addrs := filter["address"].([]string)
	if len(addrs) != 1 || addrs[0] != "0xTOKEN" {
		t.Errorf("address filter = %v", addrs)
	}
}

func TestTokenTransfersBuilderRejectsSpanOverMaxBlocks(t *testing.T) {
	_, _, err := NewErc20TokenTransfersBuilder("0xTOKEN", 0, 100).LimitBlocks(10).Plan()
	if err == nil {
		t.Fatal("expected an error for a span exceeding max_blocks")
	}
}
