package orchestrator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"spl-token-creator/internal/domain"
)

var (
	// ErrBusy is returned when a workflow is already running.
	ErrBusy = errors.New("a token creation is already in progress")

	// ErrNoWallet is returned when the wallet exposes no public key.
	ErrNoWallet = errors.New("wallet has no public key")
)

// InsufficientFundsError is returned by the balance guard.
type InsufficientFundsError struct {
	Required decimal.Decimal // advertised cost in SOL, without the network buffer
	Balance  uint64          // lamports
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("Insufficient funds. You need at least %s SOL, but you only have %s SOL.",
		e.Required.String(), domain.LamportsToSOL(e.Balance).StringFixed(4))
}

// PublishError is an asset upload failure.
type PublishError struct {
	Stage domain.Stage
	Err   error
}

// Message is the status shown to the user.
func (e *PublishError) Message() string {
	if e.Stage == domain.StageUploadingMetadata {
		return "Failed to upload metadata to IPFS"
	}
	return "Failed to upload image to IPFS"
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message(), e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// ChainError is a failed read, build, sign, submit or confirm of a workflow step.
// Mint is set once the mint account exists so the user can recover manually.
type ChainError struct {
	Stage domain.Stage
	Mint  string
	Err   error
}

func (e *ChainError) Error() string {
	msg := fmt.Sprintf("%s: %v", stageFailure(e.Stage), e.Err)
	if e.Mint != "" {
		msg += fmt.Sprintf(" (mint address: %s)", e.Mint)
	}
	return msg
}

func (e *ChainError) Unwrap() error { return e.Err }

func stageFailure(stage domain.Stage) string {
	switch stage {
	case domain.StageCheckingBalance:
		return "Failed to check wallet balance"
	case domain.StageCreatingMint:
		return "Failed to create mint account"
	case domain.StageCreatingAssociatedAccount:
		return "Failed to handle associated token account"
	case domain.StageMintingTokens:
		return "Failed to mint tokens"
	case domain.StageCreatingMetadataAccount:
		return "Failed to create metadata"
	case domain.StageRevokingAuthorities:
		return "Failed to revoke authorities"
	case domain.StageTransferringFee:
		return "Failed to send final transaction"
	default:
		return "Failed to create token"
	}
}

// statusMessage converts a workflow error into the error status text.
func statusMessage(err error) string {
	var pubErr *PublishError
	if errors.As(err, &pubErr) {
		return pubErr.Message()
	}
	var fundsErr *InsufficientFundsError
	if errors.As(err, &fundsErr) {
		return fundsErr.Error()
	}
	var chainErr *ChainError
	if errors.As(err, &chainErr) {
		return chainErr.Error()
	}
	return fmt.Sprintf("Failed to create token: %v", err)
}
