package stub

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"spl-token-creator/internal/solana"
)

// SPL token instruction tags.
const (
	tagInitializeMint = 0
	tagSetAuthority   = 6
	tagMintTo         = 7
)

// System program transfer tag.
const systemTransfer = 2

// Wallet implements solana.Wallet for testing. Submitted transactions are
// applied to Chain so follow-up reads observe their effects.
type Wallet struct {
	Chain *Chain
	Key   types.Account

	mu        sync.Mutex
	connected bool

	// ConnectErr fails Connect.
	ConnectErr error
	// Reject declines signing for these labels.
	Reject map[string]bool
	// SendErrs fails submission by label.
	SendErrs map[string]error
	// ConfirmErrs fails confirmation by label.
	ConfirmErrs map[string]error

	Requests     []solana.TxRequest
	Signatures   []string
	ConnectCalls int
}

var _ solana.Wallet = (*Wallet)(nil)

// NewWallet creates a connected stub wallet with a fresh key.
func NewWallet(chain *Chain) *Wallet {
	return &Wallet{
		Chain:       chain,
		Key:         types.NewAccount(),
		connected:   true,
		Reject:      make(map[string]bool),
		SendErrs:    make(map[string]error),
		ConfirmErrs: make(map[string]error),
	}
}

// Address returns the base58 wallet address.
func (w *Wallet) Address() string {
	return w.Key.PublicKey.ToBase58()
}

// Disconnect marks the wallet as not connected.
func (w *Wallet) Disconnect() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.connected = false
}

// Connected reports the connection flag.
func (w *Wallet) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connected
}

// Connect sets the connection flag unless ConnectErr is set.
func (w *Wallet) Connect(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ConnectCalls++
	if w.ConnectErr != nil {
		return w.ConnectErr
	}
	w.connected = true
	return nil
}

// PublicKey returns the wallet key.
func (w *Wallet) PublicKey() common.PublicKey {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.connected {
		return common.PublicKey{}
	}
	return w.Key.PublicKey
}

// Balance reads the balance from Chain.
func (w *Wallet) Balance(ctx context.Context) (uint64, error) {
	if !w.Connected() {
		return 0, solana.ErrWalletNotConnected
	}
	return w.Chain.GetBalance(ctx, w.Address())
}

// SignAndSend records req and applies its instructions to Chain.
func (w *Wallet) SignAndSend(_ context.Context, req solana.TxRequest) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.connected {
		return "", solana.ErrWalletNotConnected
	}
	w.Requests = append(w.Requests, req)

	if w.Reject[req.Label] {
		return "", solana.ErrWalletRejected
	}
	if err := w.SendErrs[req.Label]; err != nil {
		return "", err
	}

	sig := fmt.Sprintf("sig-%s-%d", req.Label, len(w.Requests))
	w.Signatures = append(w.Signatures, sig)

	w.Chain.mu.Lock()
	defer w.Chain.mu.Unlock()

	if err := w.ConfirmErrs[req.Label]; err != nil {
		w.Chain.ConfirmErrs[sig] = err
		return sig, nil
	}
	w.apply(req.Instructions)
	return sig, nil
}

// apply mutates Chain state for the instructions the workflows emit.
// Caller holds Chain.mu.
func (w *Wallet) apply(instructions []types.Instruction) {
	payer := w.Address()
	for _, ins := range instructions {
		program := ins.ProgramID.ToBase58()
		switch {
		case program == solana.SystemProgramID && len(ins.Data) >= 12 &&
			binary.LittleEndian.Uint32(ins.Data[:4]) == systemTransfer:
			from := ins.Accounts[0].PubKey.ToBase58()
			to := ins.Accounts[1].PubKey.ToBase58()
			w.Chain.transfer(from, to, leUint64(ins.Data[4:12]))

		case program == solana.TokenProgramID && len(ins.Data) > 0:
			w.applyToken(ins, payer)

		case program == solana.AssociatedTokenProgramID && len(ins.Accounts) >= 4:
			ata := ins.Accounts[1].PubKey.ToBase58()
			owner := ins.Accounts[2].PubKey.ToBase58()
			mint := ins.Accounts[3].PubKey.ToBase58()
			w.Chain.Accounts[ata] = &solana.AccountInfo{Owner: solana.TokenProgramID}
			w.Chain.TokenAccounts[owner] = append(w.Chain.TokenAccounts[owner], solana.TokenAccount{
				Address:  ata,
				Mint:     mint,
				Owner:    owner,
				Amount:   "0",
				Decimals: w.Chain.MintDecimals[mint],
			})

		case program == solana.MetadataProgramID && len(ins.Accounts) > 0:
			w.Chain.Accounts[ins.Accounts[0].PubKey.ToBase58()] = &solana.AccountInfo{Owner: solana.MetadataProgramID}
		}
	}
}

func (w *Wallet) applyToken(ins types.Instruction, payer string) {
	mint := ins.Accounts[0].PubKey.ToBase58()
	switch ins.Data[0] {
	case tagInitializeMint:
		auth := payer
		w.Chain.Accounts[mint] = &solana.AccountInfo{Owner: solana.TokenProgramID}
		w.Chain.MintAuthorities[mint] = &auth
		if len(ins.Data) > 1 {
			w.Chain.MintDecimals[mint] = int(ins.Data[1])
		}
	case tagMintTo:
		dest := ins.Accounts[1].PubKey.ToBase58()
		w.Chain.mintTo(dest, leUint64(ins.Data[1:]))
	case tagSetAuthority:
		if len(ins.Data) < 2 {
			return
		}
		switch ins.Data[1] {
		case 0: // MintTokens
			w.Chain.MintAuthorities[mint] = nil
		case 1: // FreezeAccount
			w.Chain.FreezeRevoked[mint] = true
		}
	}
}
