package solana

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
)

func TestParseKeypair_JSON(t *testing.T) {
	acc := types.NewAccount()

	data, err := EncodeKeypairJSON(acc)
	if err != nil {
		t.Fatalf("EncodeKeypairJSON: %v", err)
	}

	got, err := ParseKeypair(data)
	if err != nil {
		t.Fatalf("ParseKeypair: %v", err)
	}
	if got.PublicKey != acc.PublicKey {
		t.Errorf("expected %s, got %s", acc.PublicKey.ToBase58(), got.PublicKey.ToBase58())
	}
}

func TestParseKeypair_Base58(t *testing.T) {
	acc := types.NewAccount()

	got, err := ParseKeypair([]byte(base58.Encode(acc.PrivateKey) + "\n"))
	if err != nil {
		t.Fatalf("ParseKeypair: %v", err)
	}
	if got.PublicKey != acc.PublicKey {
		t.Errorf("expected %s, got %s", acc.PublicKey.ToBase58(), got.PublicKey.ToBase58())
	}
}

func TestParseKeypair_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty":        "",
		"short array":  "[1,2,3]",
		"out of range": "[" + repeat("300,", 63) + "300]",
		"not json":     "[1,2,",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseKeypair([]byte(in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadKeypair(t *testing.T) {
	acc := types.NewAccount()
	data, err := EncodeKeypairJSON(acc)
	if err != nil {
		t.Fatalf("EncodeKeypairJSON: %v", err)
	}

	path := filepath.Join(t.TempDir(), "id.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write keypair: %v", err)
	}

	got, err := LoadKeypair(path)
	if err != nil {
		t.Fatalf("LoadKeypair: %v", err)
	}
	if got.PublicKey != acc.PublicKey {
		t.Error("loaded key does not match")
	}

	if _, err := LoadKeypair(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
