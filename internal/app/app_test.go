package app

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"spl-token-creator/internal/config"
	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/storage/memory"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	cfg.Pinata.APIKey = "key"
	cfg.Pinata.SecretAPIKey = "secret"
	cfg.Pinata.JWT = "jwt"
	cfg.RPC.Endpoint = "http://127.0.0.1:1"
	cfg.Status.ClearAfter = time.Hour
	return cfg
}

func TestNew_InMemory(t *testing.T) {
	chdir(t, t.TempDir())
	cfg := testConfig(t)

	a, err := New(context.Background(), cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &memory.RunStore{}, a.Stores.Runs)
	assert.IsType(t, &memory.StatusEventStore{}, a.Stores.Events)
	assert.False(t, a.Wallet.Connected())
	assert.Equal(t, domain.StatusIdle, a.Reporter.Current().Kind)
	assert.True(t, a.Fees.BaseCost.Equal(domain.DefaultBaseCost))
}

func TestNew_MissingPinataCredentials(t *testing.T) {
	chdir(t, t.TempDir())
	cfg := testConfig(t)
	cfg.Pinata.JWT = ""

	_, err := New(context.Background(), cfg, zap.NewNop(), nil)
	assert.Error(t, err)
}

func TestNew_BadOperator(t *testing.T) {
	chdir(t, t.TempDir())
	cfg := testConfig(t)
	cfg.Fees.OperatorAddress = "nope"

	_, err := New(context.Background(), cfg, zap.NewNop(), nil)
	assert.Error(t, err)
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
