package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/solana"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	chdir(t, t.TempDir())
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func stubSelect(t *testing.T, idx int, choice string, err error) {
	t.Helper()
	orig := selectRunner
	selectRunner = func(promptui.Select) (int, string, error) {
		return idx, choice, err
	}
	t.Cleanup(func() { selectRunner = orig })
}

func TestLimits(t *testing.T) {
	out := execute(t, "limits")
	assert.Contains(t, out, "18446744073709551615")
	assert.Contains(t, out, "18446744073")
}

func TestFees(t *testing.T) {
	out := execute(t, "fees")
	assert.Contains(t, out, "Required balance: 302000000 lamports")

	out = execute(t, "fees", "--revoke-freeze=false", "--revoke-mint")
	assert.Contains(t, out, "Required balance: 302000000 lamports")

	out = execute(t, "fees", "--revoke-freeze=false")
	assert.Contains(t, out, "Required balance: 252000000 lamports")
}

func TestCreateOptions_Request(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "icon.png")
	require.NoError(t, os.WriteFile(img, []byte("\x89PNG\r\n\x1a\n"), 0o600))

	opts := &createOptions{
		name:         "Test Token",
		symbol:       "TST",
		decimals:     6,
		supply:       "1000.5",
		imagePath:    img,
		description:  "desc",
		website:      "https://example.com",
		revokeFreeze: true,
	}
	req, err := opts.request()
	require.NoError(t, err)
	require.NoError(t, req.Validate())

	assert.Equal(t, "icon.png", req.Image.Filename)
	assert.Equal(t, uint8(6), req.Decimals)
	assert.Equal(t, "1000.5", req.Supply.String())
	assert.True(t, req.RevokeFreeze)
	assert.False(t, req.RevokeMint)
}

func TestCreateOptions_RequestErrors(t *testing.T) {
	_, err := (&createOptions{supply: "many"}).request()
	assert.Error(t, err)

	_, err = (&createOptions{supply: "1", imagePath: filepath.Join(t.TempDir(), "missing.png")}).request()
	assert.Error(t, err)

	req, err := (&createOptions{supply: "1"}).request()
	require.NoError(t, err)
	var verr *domain.ValidationError
	assert.ErrorAs(t, req.Validate(), &verr)
}

func TestPromptApprover(t *testing.T) {
	ctx := context.Background()
	req := solana.ApprovalRequest{Label: "create-mint", Signer: "Signer1111111111111111", Instructions: 2}

	stubSelect(t, 0, approveYes, nil)
	ok, err := newPromptApprover().Approve(ctx, req)
	require.NoError(t, err)
	assert.True(t, ok)

	stubSelect(t, 1, approveNo, nil)
	ok, err = newPromptApprover().Approve(ctx, req)
	require.NoError(t, err)
	assert.False(t, ok)

	stubSelect(t, 0, "", promptui.ErrInterrupt)
	ok, err = newPromptApprover().Approve(ctx, req)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSelectToken(t *testing.T) {
	tokens := []domain.TokenSummary{
		{Mint: "MintA", Name: "Token Mint"},
		{Mint: "MintB", Name: "Token Mint"},
	}

	stubSelect(t, 1, "", nil)
	mint, err := selectToken(tokens)
	require.NoError(t, err)
	assert.Equal(t, "MintB", mint)

	mint, err = selectToken(nil)
	require.NoError(t, err)
	assert.Empty(t, mint)

	stubSelect(t, 0, "", promptui.ErrEOF)
	mint, err = selectToken(tokens)
	require.NoError(t, err)
	assert.Empty(t, mint)
}

func TestPrintStatuses(t *testing.T) {
	ch := make(chan domain.Status, 3)
	ch <- domain.Status{Kind: domain.StatusIdle}
	ch <- domain.Status{Kind: domain.StatusLoading, Message: "Preparing transaction..."}
	ch <- domain.Status{Kind: domain.StatusError, Message: "Failed to upload image to IPFS"}
	close(ch)

	var out bytes.Buffer
	printStatuses(&out, ch)
	assert.Equal(t, "[loading] Preparing transaction...\n[error] Failed to upload image to IPFS\n", out.String())
}

func TestKeygen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id.json")

	out := execute(t, "keygen", path)
	assert.Contains(t, out, "address: ")

	acc, err := solana.LoadKeypair(path)
	require.NoError(t, err)
	assert.Contains(t, out, acc.PublicKey.ToBase58())

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"keygen", path})
	assert.Error(t, cmd.Execute())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
