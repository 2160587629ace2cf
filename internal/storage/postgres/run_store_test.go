package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/storage"
)

func testRun(id, owner, mint string, startedAt int64) *domain.Run {
	return &domain.Run{
		RunID:       id,
		Owner:       owner,
		Mint:        mint,
		Name:        "Test Token",
		Symbol:      "TEST",
		Decimals:    9,
		Supply:      "1000000",
		RevokeMint:  true,
		ImageURL:    "https://gateway.pinata.cloud/ipfs/QmImage",
		MetadataURL: "https://gateway.pinata.cloud/ipfs/QmMeta",
		Stage:       domain.StageSuccess,
		Outcome:     domain.OutcomeSuccess,
		Message:     "Token created successfully! Mint Address: " + mint,
		Signatures: []domain.StepSignature{
			{Stage: domain.StageCreatingMint, Signature: "sig1"},
			{Stage: domain.StageTransferringFee, Signature: "sig2"},
		},
		StartedAt:  startedAt,
		FinishedAt: startedAt + 5000,
	}
}

func TestRunStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(pool)
	ctx := context.Background()

	run := testRun("run1", "owner1", "mint1", 1704067200000)
	require.NoError(t, store.Insert(ctx, run))

	got, err := store.GetByID(ctx, "run1")
	require.NoError(t, err)
	assert.Equal(t, run, got)

	byMint, err := store.GetByMint(ctx, "mint1")
	require.NoError(t, err)
	assert.Equal(t, "run1", byMint.RunID)
}

func TestRunStore_Duplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testRun("run1", "owner1", "mint1", 1000)))

	err := store.Insert(ctx, testRun("run1", "owner1", "mint2", 2000))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	err = store.Insert(ctx, testRun("run2", "owner1", "mint1", 2000))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestRunStore_FailedRunWithoutMint(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(pool)
	ctx := context.Background()

	for _, id := range []string{"run1", "run2"} {
		r := testRun(id, "owner1", "", 1000)
		r.Outcome = domain.OutcomeFailed
		r.Stage = domain.StageUploadingImage
		r.Signatures = nil
		require.NoError(t, store.Insert(ctx, r))
	}

	got, err := store.GetByID(ctx, "run1")
	require.NoError(t, err)
	assert.Empty(t, got.Mint)
	assert.Empty(t, got.Signatures)
	assert.Equal(t, domain.StageUploadingImage, got.Stage)
}

func TestRunStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(pool)
	ctx := context.Background()

	_, err := store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.GetByMint(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRunStore_List(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testRun("run1", "owner1", "mint1", 1000)))
	require.NoError(t, store.Insert(ctx, testRun("run2", "owner2", "mint2", 2000)))
	require.NoError(t, store.Insert(ctx, testRun("run3", "owner1", "mint3", 3000)))

	all, err := store.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "run3", all[0].RunID)
	assert.Equal(t, "run1", all[2].RunID)

	owned, err := store.List(ctx, "owner1", 1)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "run3", owned[0].RunID)
}
