package method

import (
	"encoding/hex"
	"fmt"

	"github.com/dmagro/eth-indexer/internal/rpc"
)

// addressWordHex is AddressTopic's helper: it reuses rpc.EncodeAddress
// (the same left-pad-to-32-bytes routine the balanceOf calldata encoder
// uses) so a 20-byte address is padded identically
// whether it ends up in a log topic or in ABI-encoded calldata.
func addressWordHex(addr string) (string, error) {
	padded, err := rpc.EncodeAddress(addr)
	if err != nil {
		return "", fmt.Errorf("method: %w", err)
	}
	return "0x" + hex.EncodeToString(padded), nil
}
