package solana

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/types"
)

var (
	// ErrBlockhashExpired is returned when a transaction was not confirmed
	// before its blockhash expired.
	ErrBlockhashExpired = errors.New("block height exceeded: transaction expired before confirmation")

	// ErrWalletRejected is returned when the wallet declines to sign.
	ErrWalletRejected = errors.New("user rejected the request")

	// ErrWalletNotConnected is returned when a wallet operation needs a connected wallet.
	ErrWalletNotConnected = errors.New("wallet not connected")

	// ErrInvalidAddress is returned for malformed base58 public keys.
	ErrInvalidAddress = errors.New("invalid address")
)

// TransactionError is an error embedded in a confirmed transaction.
type TransactionError struct {
	Signature string
	Err       interface{}
	Logs      []string
}

func (e *TransactionError) Error() string {
	detail, err := json.Marshal(e.Err)
	if err != nil {
		detail = []byte(fmt.Sprintf("%v", e.Err))
	}
	return fmt.Sprintf("transaction %s failed: %s", e.Signature, string(detail))
}

// TxRequest is one transaction handed to a wallet for signing and submission.
type TxRequest struct {
	// Label names the transaction for approval prompts and logs.
	Label           string
	Instructions    []types.Instruction
	RecentBlockhash string
	// Cosigners sign in addition to the wallet, e.g. a new mint keypair.
	Cosigners []types.Account
}
