package solana

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"

	"spl-token-creator/internal/observability"
)

// Wallet signs and submits transactions on behalf of the user.
type Wallet interface {
	// Connected reports whether a signing key is available.
	Connected() bool

	// Connect makes the signing key available.
	Connect(ctx context.Context) error

	// PublicKey returns the wallet address. Zero when not connected.
	PublicKey() common.PublicKey

	// Balance returns the wallet's lamport balance.
	Balance(ctx context.Context) (uint64, error)

	// SignAndSend signs req with the wallet as fee payer plus any cosigners,
	// submits it and returns the signature. It does not wait for confirmation.
	SignAndSend(ctx context.Context, req TxRequest) (string, error)
}

// ApprovalRequest describes a transaction awaiting the user's decision.
type ApprovalRequest struct {
	Label        string
	Signer       string
	Instructions int
}

// Approver decides whether a transaction may be signed.
type Approver interface {
	Approve(ctx context.Context, req ApprovalRequest) (bool, error)
}

// ApproverFunc adapts a function to Approver.
type ApproverFunc func(ctx context.Context, req ApprovalRequest) (bool, error)

// Approve calls f.
func (f ApproverFunc) Approve(ctx context.Context, req ApprovalRequest) (bool, error) {
	return f(ctx, req)
}

// AutoApprove approves every transaction.
var AutoApprove = ApproverFunc(func(context.Context, ApprovalRequest) (bool, error) {
	return true, nil
})

// KeypairWallet is a Wallet backed by a local keypair.
type KeypairWallet struct {
	chain    Chain
	load     func() (types.Account, error)
	approver Approver
	logger   *zap.Logger

	mu      sync.RWMutex
	account *types.Account
}

var _ Wallet = (*KeypairWallet)(nil)

// NewKeypairWallet creates a wallet that loads its key from path on Connect.
func NewKeypairWallet(chain Chain, path string, approver Approver, logger *zap.Logger) *KeypairWallet {
	return newKeypairWallet(chain, func() (types.Account, error) {
		return LoadKeypair(path)
	}, approver, logger)
}

// NewAccountWallet creates a wallet around an already loaded account.
func NewAccountWallet(chain Chain, acc types.Account, approver Approver, logger *zap.Logger) *KeypairWallet {
	return newKeypairWallet(chain, func() (types.Account, error) {
		return acc, nil
	}, approver, logger)
}

func newKeypairWallet(chain Chain, load func() (types.Account, error), approver Approver, logger *zap.Logger) *KeypairWallet {
	if approver == nil {
		approver = AutoApprove
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeypairWallet{
		chain:    chain,
		load:     load,
		approver: approver,
		logger:   logger.Named("wallet"),
	}
}

// Connected reports whether the keypair is loaded.
func (w *KeypairWallet) Connected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.account != nil
}

// Connect loads the keypair. Repeated calls are no-ops.
func (w *KeypairWallet) Connect(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.account != nil {
		return nil
	}
	acc, err := w.load()
	if err != nil {
		return fmt.Errorf("connect wallet: %w", err)
	}
	w.account = &acc
	w.logger.Info("wallet connected", zap.String("pubkey", acc.PublicKey.ToBase58()))
	return nil
}

// PublicKey returns the wallet address.
func (w *KeypairWallet) PublicKey() common.PublicKey {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.account == nil {
		return common.PublicKey{}
	}
	return w.account.PublicKey
}

// Balance returns the wallet's lamport balance.
func (w *KeypairWallet) Balance(ctx context.Context) (uint64, error) {
	acc, err := w.current()
	if err != nil {
		return 0, err
	}
	return w.chain.GetBalance(ctx, acc.PublicKey.ToBase58())
}

// SignAndSend asks the approver, signs and submits req.
func (w *KeypairWallet) SignAndSend(ctx context.Context, req TxRequest) (string, error) {
	acc, err := w.current()
	if err != nil {
		return "", err
	}

	ok, err := w.approver.Approve(ctx, ApprovalRequest{
		Label:        req.Label,
		Signer:       acc.PublicKey.ToBase58(),
		Instructions: len(req.Instructions),
	})
	if err != nil {
		return "", fmt.Errorf("approval: %w", err)
	}
	if !ok {
		return "", ErrWalletRejected
	}

	signers := append([]types.Account{acc}, req.Cosigners...)
	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        acc.PublicKey,
			RecentBlockhash: req.RecentBlockhash,
			Instructions:    req.Instructions,
		}),
		Signers: signers,
	})
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}

	raw, err := tx.Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize transaction: %w", err)
	}

	sig, err := w.chain.SendTransaction(ctx, raw)
	observability.RecordTransaction(req.Label, err)
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}

	w.logger.Debug("transaction submitted",
		zap.String("label", req.Label),
		zap.String("signature", MaskShort(sig)))
	return sig, nil
}

func (w *KeypairWallet) current() (types.Account, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.account == nil {
		return types.Account{}, ErrWalletNotConnected
	}
	return *w.account, nil
}

// IsRejected reports whether err is a wallet rejection.
func IsRejected(err error) bool {
	return errors.Is(err, ErrWalletRejected)
}
