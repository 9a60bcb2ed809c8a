package builder

import (
	"testing"

	"github.com/dmagro/eth-indexer/internal/method"
	"github.com/dmagro/eth-indexer/internal/workitem"
)

func TestGetBalanceBuilderDefaultsToLatest(t *testing.T) {
	item := NewGetBalanceBuilder("0xA").WorkItem()
	if item.Method != "eth_getBalance" {
		t.Errorf("method = %s", item.Method)
	}
	if item.Key.Kind != workitem.KindNone {
		t.Errorf("balance lookups should be unordered, got %v", item.Key)
	}
	at, ok := item.Params[1].(method.BlockNumberOrTag)
	if !ok || at.String() != "latest" {
		t.Errorf("default block selector = %v, want latest", item.Params[1])
	}
}

func TestGetBalanceBuilderAtBlock(t *testing.T) {
	item := NewGetBalanceBuilder("0xA").AtBlock(method.NumberOf(42)).WorkItem()
	at := item.Params[1].(method.BlockNumberOrTag)
	if at.Number() != 42 {
		t.Errorf("got %v, want block 42", at)
	}
}
