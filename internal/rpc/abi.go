package rpc

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// FunctionSelector computes the 4-byte function selector from a signature
// e.g., "balanceOf(address)" -> 0x70a08231
func FunctionSelector(signature string) []byte {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(signature))
	return hasher.Sum(nil)[:4]
}

// EncodeAddress pads an Ethereum address to 32 bytes (left-padded with zeros)
func EncodeAddress(addr string) ([]byte, error) {
	addr = strings.TrimPrefix(strings.ToLower(addr), "0x")
	if len(addr) != 40 {
		return nil, fmt.Errorf("invalid address length: expected 40 hex chars, got %d", len(addr))
	}

	addrBytes, err := hex.DecodeString(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address hex: %w", err)
	}

	// Left-pad to 32 bytes (address is 20 bytes, goes in last 20 bytes)
	padded := make([]byte, 32)
	copy(padded[12:], addrBytes)
	return padded, nil
}

// EncodeBalanceOfCalldata creates the calldata for balanceOf(address)
func EncodeBalanceOfCalldata(address string) (string, error) {
	selector := FunctionSelector("balanceOf(address)")
	
	addrEncoded, err := EncodeAddress(address)
	if err != nil {
		return "", fmt.Errorf("failed to encode address: %w", err)
	}

	calldata := append(selector, addrEncoded...)
	return "0x" + hex.EncodeToString(calldata), nil
}

// DecodeUint256 parses a hex string result into a big.Int
func DecodeUint256(hexResult string) (*big.Int, error) {
	hexResult = strings.TrimPrefix(hexResult, "0x")
	if hexResult == "" {
		return big.NewInt(0), nil
	}

	// Remove leading zeros for parsing but handle all-zero case
	hexResult = strings.TrimLeft(hexResult, "0")
	if hexResult == "" {
		return big.NewInt(0), nil
	}

	result := new(big.Int)
	_, ok := result.SetString(hexResult, 16)
	if !ok {
		return nil, fmt.Errorf("failed to parse hex result: %s", hexResult)
	}
	return result, nil
}
