// Package stub provides in-memory Chain and Wallet implementations for tests.
package stub

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/mr-tron/base58"

	"spl-token-creator/internal/solana"
)

// ErrNotFound is returned when an account is not found.
var ErrNotFound = errors.New("not found")

// DefaultRent is the rent-exempt minimum returned by Chain.
const DefaultRent = 1_461_600

// Chain implements solana.Chain for testing.
type Chain struct {
	mu sync.Mutex

	Balances        map[string]uint64
	Accounts        map[string]*solana.AccountInfo
	MintAuthorities map[string]*string
	FreezeRevoked   map[string]bool
	MintDecimals    map[string]int
	TokenAccounts   map[string][]solana.TokenAccount // by owner
	Rent            uint64

	// ConfirmErrs injects confirmation failures by signature.
	ConfirmErrs map[string]error

	// Injected method failures.
	BalanceErr       error
	BlockhashErr     error
	TokenAccountsErr error
	SendErr          error

	BlockhashCalls int
	Sent           [][]byte
	Confirmed      []string
}

var _ solana.Chain = (*Chain)(nil)

// NewChain creates a new stub chain.
func NewChain() *Chain {
	return &Chain{
		Balances:        make(map[string]uint64),
		Accounts:        make(map[string]*solana.AccountInfo),
		MintAuthorities: make(map[string]*string),
		FreezeRevoked:   make(map[string]bool),
		MintDecimals:    make(map[string]int),
		TokenAccounts:   make(map[string][]solana.TokenAccount),
		Rent:            DefaultRent,
		ConfirmErrs:     make(map[string]error),
	}
}

// SetBalance sets the lamport balance of pubkey.
func (c *Chain) SetBalance(pubkey string, lamports uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Balances[pubkey] = lamports
}

// AddToken registers a mint with a token account held by owner.
func (c *Chain) AddToken(owner, mint, ata string, amount string, decimals int, authority *string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Accounts[mint] = &solana.AccountInfo{Owner: solana.TokenProgramID}
	c.Accounts[ata] = &solana.AccountInfo{Owner: solana.TokenProgramID}
	c.MintAuthorities[mint] = authority
	c.MintDecimals[mint] = decimals
	c.TokenAccounts[owner] = append(c.TokenAccounts[owner], solana.TokenAccount{
		Address:  ata,
		Mint:     mint,
		Owner:    owner,
		Amount:   amount,
		Decimals: decimals,
	})
}

// MintAuthority returns the current mint authority of mint.
func (c *Chain) MintAuthority(mint string) (*string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	auth, ok := c.MintAuthorities[mint]
	return auth, ok
}

// GetBalance returns the stored balance.
func (c *Chain) GetBalance(_ context.Context, pubkey string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.BalanceErr != nil {
		return 0, c.BalanceErr
	}
	return c.Balances[pubkey], nil
}

// GetLatestBlockhash returns a distinct blockhash per call.
func (c *Chain) GetLatestBlockhash(_ context.Context) (solana.Blockhash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.BlockhashErr != nil {
		return solana.Blockhash{}, c.BlockhashErr
	}
	c.BlockhashCalls++
	sum := sha256.Sum256([]byte(fmt.Sprintf("blockhash-%d", c.BlockhashCalls)))
	return solana.Blockhash{
		Blockhash:            base58.Encode(sum[:]),
		LastValidBlockHeight: uint64(1000 + c.BlockhashCalls),
	}, nil
}

// GetMinimumBalanceForRentExemption returns Rent.
func (c *Chain) GetMinimumBalanceForRentExemption(_ context.Context, _ uint64) (uint64, error) {
	return c.Rent, nil
}

// GetAccountInfo returns the stored account or nil.
func (c *Chain) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	info, ok := c.Accounts[pubkey]
	if !ok {
		return nil, nil
	}
	cp := *info
	return &cp, nil
}

// GetMintAuthority returns the stored mint authority.
func (c *Chain) GetMintAuthority(_ context.Context, mint string) (*string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	auth, ok := c.MintAuthorities[mint]
	if !ok {
		return nil, fmt.Errorf("mint %s: %w", mint, ErrNotFound)
	}
	if auth == nil {
		return nil, nil
	}
	cp := *auth
	return &cp, nil
}

// GetTokenAccountsByOwner returns the stored token accounts of owner.
func (c *Chain) GetTokenAccountsByOwner(_ context.Context, owner string) ([]solana.TokenAccount, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.TokenAccountsErr != nil {
		return nil, c.TokenAccountsErr
	}
	accounts := c.TokenAccounts[owner]
	result := make([]solana.TokenAccount, len(accounts))
	copy(result, accounts)
	return result, nil
}

// SendTransaction records rawTx and returns its first signature.
func (c *Chain) SendTransaction(_ context.Context, rawTx []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SendErr != nil {
		return "", c.SendErr
	}
	// compact-u16 signature count followed by 64-byte signatures
	if len(rawTx) < 65 {
		return "", fmt.Errorf("transaction too short: %d bytes", len(rawTx))
	}
	c.Sent = append(c.Sent, rawTx)
	return solana.EncodeSignature(rawTx[1:65]), nil
}

// ConfirmTransaction returns the injected error for signature, if any.
func (c *Chain) ConfirmTransaction(_ context.Context, signature string, _ solana.Blockhash) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.ConfirmErrs[signature]; ok {
		return err
	}
	c.Confirmed = append(c.Confirmed, signature)
	return nil
}

func (c *Chain) transfer(from, to string, lamports uint64) {
	if c.Balances[from] >= lamports {
		c.Balances[from] -= lamports
	} else {
		c.Balances[from] = 0
	}
	c.Balances[to] += lamports
}

func (c *Chain) mintTo(dest string, amount uint64) {
	for owner, accounts := range c.TokenAccounts {
		for i := range accounts {
			if accounts[i].Address != dest {
				continue
			}
			var current uint64
			fmt.Sscan(accounts[i].Amount, &current)
			c.TokenAccounts[owner][i].Amount = fmt.Sprintf("%d", current+amount)
			return
		}
	}
}

func leUint64(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}
