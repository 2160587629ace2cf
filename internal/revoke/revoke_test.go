package revoke

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/solana"
	"spl-token-creator/internal/solana/stub"
	"spl-token-creator/internal/status"
)

func newTestService(t *testing.T) (*Service, *stub.Chain, *stub.Wallet, *status.Reporter) {
	t.Helper()
	chain := stub.NewChain()
	wallet := stub.NewWallet(chain)
	reporter := status.NewReporter(status.WithClearAfter(time.Hour))
	t.Cleanup(reporter.Close)
	return NewService(chain, wallet, reporter, nil), chain, wallet, reporter
}

func addr() string {
	return types.NewAccount().PublicKey.ToBase58()
}

func TestListOwnedTokens_FiltersByMintAuthority(t *testing.T) {
	svc, chain, wallet, _ := newTestService(t)
	owner := wallet.Address()
	other := addr()

	ownedMint, foreignMint, revokedMint := addr(), addr(), addr()
	chain.AddToken(owner, ownedMint, addr(), "1500000000", 9, &owner)
	chain.AddToken(owner, foreignMint, addr(), "10", 0, &other)
	chain.AddToken(owner, revokedMint, addr(), "10", 0, nil)

	tokens, err := svc.ListOwnedTokens(context.Background())
	require.NoError(t, err)
	require.Len(t, tokens, 1)

	tok := tokens[0]
	assert.Equal(t, ownedMint, tok.Mint)
	assert.Equal(t, "Token "+ownedMint[:4], tok.Name)
	assert.Equal(t, "1.5", tok.Amount)
	require.NotNil(t, tok.MintAuthority)
	assert.Equal(t, owner, *tok.MintAuthority)
}

func TestListOwnedTokens_Errors(t *testing.T) {
	svc, chain, wallet, _ := newTestService(t)

	chain.TokenAccountsErr = errors.New("rpc down")
	_, err := svc.ListOwnedTokens(context.Background())
	assert.Error(t, err)

	wallet.Disconnect()
	_, err = svc.ListOwnedTokens(context.Background())
	assert.ErrorIs(t, err, solana.ErrWalletNotConnected)
}

func TestRevoke_NoSelection(t *testing.T) {
	svc, _, wallet, reporter := newTestService(t)

	_, err := svc.Revoke(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNoSelection)

	cur := reporter.Current()
	assert.Equal(t, domain.StatusError, cur.Kind)
	assert.Equal(t, "Please select a token first", cur.Message)
	assert.Empty(t, wallet.Requests)
}

func TestRevoke_ClearsMintAuthorityAndRefreshes(t *testing.T) {
	svc, chain, wallet, reporter := newTestService(t)
	owner := wallet.Address()

	mint := addr()
	chain.AddToken(owner, mint, addr(), "100", 0, &owner)

	tokens, err := svc.Revoke(context.Background(), mint)
	require.NoError(t, err)
	assert.Empty(t, tokens, "revoked mint must drop out of the list")

	require.Len(t, wallet.Requests, 1)
	req := wallet.Requests[0]
	assert.Equal(t, LabelRevokeMint, req.Label)
	require.Len(t, req.Instructions, 1)
	assert.Equal(t, byte(0), req.Instructions[0].Data[1], "mint tokens authority type")

	auth, ok := chain.MintAuthority(mint)
	assert.True(t, ok)
	assert.Nil(t, auth)
	assert.Len(t, chain.Confirmed, 1)

	cur := reporter.Current()
	assert.Equal(t, domain.StatusSuccess, cur.Kind)
	assert.Equal(t, "Mint authority revoked for "+mint, cur.Message)
}

func TestRevoke_Rejected(t *testing.T) {
	svc, chain, wallet, reporter := newTestService(t)
	owner := wallet.Address()
	mint := addr()
	chain.AddToken(owner, mint, addr(), "1", 0, &owner)
	wallet.Reject[LabelRevokeMint] = true

	_, err := svc.Revoke(context.Background(), mint)
	assert.ErrorIs(t, err, solana.ErrWalletRejected)

	auth, _ := chain.MintAuthority(mint)
	assert.NotNil(t, auth)
	assert.Equal(t, "Failed to revoke mint authority: "+solana.ErrWalletRejected.Error(), reporter.Current().Message)
}

func TestRevoke_InvalidMint(t *testing.T) {
	svc, _, wallet, _ := newTestService(t)

	_, err := svc.Revoke(context.Background(), "not-a-key")
	assert.ErrorIs(t, err, solana.ErrInvalidAddress)
	assert.Empty(t, wallet.Requests)
}
