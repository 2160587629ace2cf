package solana

import (
	"context"
)

// Chain defines the Solana RPC surface used by token workflows.
type Chain interface {
	// GetBalance returns the lamport balance of an account.
	GetBalance(ctx context.Context, pubkey string) (uint64, error)

	// GetLatestBlockhash returns a fresh blockhash and its validity height.
	GetLatestBlockhash(ctx context.Context) (Blockhash, error)

	// GetMinimumBalanceForRentExemption returns the rent-exempt minimum for size bytes.
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)

	// GetAccountInfo returns account info, or nil if the account does not exist.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// GetMintAuthority returns the mint authority of a mint, or nil if revoked.
	GetMintAuthority(ctx context.Context, mint string) (*string, error)

	// GetTokenAccountsByOwner lists SPL token accounts held by owner.
	GetTokenAccountsByOwner(ctx context.Context, owner string) ([]TokenAccount, error)

	// SendTransaction submits a signed, serialized transaction.
	SendTransaction(ctx context.Context, rawTx []byte) (string, error)

	// ConfirmTransaction blocks until the signature is confirmed, the blockhash
	// expires, or ctx is done. An embedded failure is returned as *TransactionError.
	ConfirmTransaction(ctx context.Context, signature string, bh Blockhash) error
}

// Blockhash is a recent blockhash with the last block height it is valid for.
type Blockhash struct {
	Blockhash            string
	LastValidBlockHeight uint64
}

// AccountInfo represents Solana account information.
type AccountInfo struct {
	Lamports   uint64 `json:"lamports"`
	Owner      string `json:"owner"`
	Data       string `json:"data"` // base64 encoded
	Executable bool   `json:"executable"`
	RentEpoch  uint64 `json:"rentEpoch"`
}

// TokenAccount is a parsed SPL token account.
type TokenAccount struct {
	Address        string
	Mint           string
	Owner          string
	Amount         string // base units
	Decimals       int
	UIAmountString string
}

// SignatureStatus is one entry of getSignatureStatuses.
type SignatureStatus struct {
	Slot               int64
	Confirmations      *int64
	Err                interface{}
	ConfirmationStatus string // processed, confirmed or finalized
}
