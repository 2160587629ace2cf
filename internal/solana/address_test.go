package solana

import (
	"errors"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
)

func TestParsePublicKey(t *testing.T) {
	acc := types.NewAccount()

	pk, err := ParsePublicKey(acc.PublicKey.ToBase58())
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	if pk != acc.PublicKey {
		t.Errorf("expected %s, got %s", acc.PublicKey.ToBase58(), pk.ToBase58())
	}

	for _, bad := range []string{"", "not-base58-0OIl", "abc"} {
		if _, err := ParsePublicKey(bad); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("ParsePublicKey(%q): expected ErrInvalidAddress, got %v", bad, err)
		}
	}
}

func TestIsOnCurve(t *testing.T) {
	acc := types.NewAccount()
	if !IsOnCurve(acc.PublicKey) {
		t.Error("generated key should be on curve")
	}

	pda, err := MetadataAddress(acc.PublicKey)
	if err != nil {
		t.Fatalf("MetadataAddress: %v", err)
	}
	if IsOnCurve(pda) {
		t.Error("program derived address should be off curve")
	}

	if _, err := ParseWalletAddress(pda.ToBase58()); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress for PDA, got %v", err)
	}
}

func TestAssociatedTokenAddress_Deterministic(t *testing.T) {
	owner := types.NewAccount().PublicKey
	mint := types.NewAccount().PublicKey

	a, err := AssociatedTokenAddress(owner, mint)
	if err != nil {
		t.Fatalf("AssociatedTokenAddress: %v", err)
	}
	b, err := AssociatedTokenAddress(owner, mint)
	if err != nil {
		t.Fatalf("AssociatedTokenAddress: %v", err)
	}
	if a != b {
		t.Error("derivation should be deterministic")
	}
	if a == owner || a == mint {
		t.Error("derived address should differ from inputs")
	}
}

func TestMaskShort(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"short":      "short",
		"  padded  ": "padded",
		"Bdwf9SWWnPZT3EP5VSiGfRvSowahxdyUUYLM3RANrXQ2": "Bdwf***rXQ2",
	}
	for in, want := range tests {
		if got := MaskShort(in); got != want {
			t.Errorf("MaskShort(%q) = %q, want %q", in, got, want)
		}
	}
}
