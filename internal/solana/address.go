package solana

import (
	"fmt"
	"strings"

	"filippo.io/edwards25519"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/mr-tron/base58"
)

// Well-known program IDs.
const (
	SystemProgramID          = "11111111111111111111111111111111"
	AssociatedTokenProgramID = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	MetadataProgramID        = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"
)

// ParsePublicKey decodes a base58 public key.
func ParsePublicKey(s string) (common.PublicKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return common.PublicKey{}, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("%w: %s: %v", ErrInvalidAddress, s, err)
	}
	if len(raw) != common.PublicKeyLength {
		return common.PublicKey{}, fmt.Errorf("%w: %s: want %d bytes, got %d", ErrInvalidAddress, s, common.PublicKeyLength, len(raw))
	}
	return common.PublicKeyFromBytes(raw), nil
}

// IsOnCurve reports whether pk is a valid ed25519 point, i.e. a key that can
// sign. Program derived addresses are off curve.
func IsOnCurve(pk common.PublicKey) bool {
	_, err := new(edwards25519.Point).SetBytes(pk.Bytes())
	return err == nil
}

// ParseWalletAddress decodes s and requires it to be an on-curve key.
func ParseWalletAddress(s string) (common.PublicKey, error) {
	pk, err := ParsePublicKey(s)
	if err != nil {
		return common.PublicKey{}, err
	}
	if !IsOnCurve(pk) {
		return common.PublicKey{}, fmt.Errorf("%w: %s is not on the ed25519 curve", ErrInvalidAddress, s)
	}
	return pk, nil
}

// AssociatedTokenAddress derives the associated token account of owner for mint.
func AssociatedTokenAddress(owner, mint common.PublicKey) (common.PublicKey, error) {
	ata, _, err := common.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("derive associated token address: %w", err)
	}
	return ata, nil
}

// MetadataAddress derives the token metadata account of mint.
func MetadataAddress(mint common.PublicKey) (common.PublicKey, error) {
	pda, err := token_metadata.GetTokenMetaPubkey(mint)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("derive metadata address: %w", err)
	}
	return pda, nil
}

// EncodeSignature returns the base58 form of a transaction signature.
func EncodeSignature(sig []byte) string {
	return base58.Encode(sig)
}

// MaskShort abbreviates long identifiers for logs.
func MaskShort(s string) string {
	t := strings.TrimSpace(s)
	if len(t) <= 10 {
		return t
	}
	return t[:4] + "***" + t[len(t)-4:]
}
