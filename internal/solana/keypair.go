package solana

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"

	"github.com/blocto/solana-go-sdk/types"
)

// LoadKeypair reads a keypair file. Both the solana-keygen JSON array format
// and a bare base58 secret key are accepted.
func LoadKeypair(path string) (types.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Account{}, fmt.Errorf("read keypair %s: %w", path, err)
	}
	return ParseKeypair(data)
}

// ParseKeypair decodes a keypair from JSON array or base58 form.
func ParseKeypair(data []byte) (types.Account, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return types.Account{}, fmt.Errorf("empty keypair")
	}

	if data[0] != '[' {
		acc, err := types.AccountFromBase58(string(data))
		if err != nil {
			return types.Account{}, fmt.Errorf("decode base58 keypair: %w", err)
		}
		return acc, nil
	}

	keyBytes, err := decodeKeypairJSON(data)
	if err != nil {
		return types.Account{}, err
	}
	acc, err := types.AccountFromBytes(keyBytes)
	if err != nil {
		return types.Account{}, fmt.Errorf("account from bytes: %w", err)
	}
	return acc, nil
}

// decodeKeypairJSON decodes a [u8;64] JSON array.
func decodeKeypairJSON(data []byte) ([]byte, error) {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, fmt.Errorf("unmarshal keypair json: %w", err)
	}

	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("unexpected secret key length: got %d, want %d", len(ints), ed25519.PrivateKeySize)
	}

	keyBytes := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("keypair byte out of range at %d: %d", i, v)
		}
		keyBytes[i] = byte(v)
	}
	return keyBytes, nil
}

// EncodeKeypairJSON renders an account in solana-keygen format.
func EncodeKeypairJSON(acc types.Account) ([]byte, error) {
	ints := make([]int, len(acc.PrivateKey))
	for i, v := range acc.PrivateKey {
		ints[i] = int(v)
	}
	return json.Marshal(ints)
}
