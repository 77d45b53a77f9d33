package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

const testConfig = `
rpc:
  endpoint: http://localhost:30333
  request_timeout: 5s
wallet:
  path: /path/to/wallet.json
  password: secret
contracts:
  storage: 0x0102030405060708090a0b0c0d0e0f1011121314
log:
  level: debug
`

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := loadConfig(newViper())
		require.Empty(t, cfg.RPC.Endpoint)
		require.Equal(t, 15*time.Second, cfg.RPC.DialTimeout)
		require.Equal(t, 15*time.Second, cfg.RPC.RequestTimeout)
		require.Equal(t, "info", cfg.LogLevel)
	})

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	t.Run("file", func(t *testing.T) {
		v := newViper()
		require.NoError(t, readConfigFile(v, path))

		cfg := loadConfig(v)
		require.Equal(t, "http://localhost:30333", cfg.RPC.Endpoint)
		require.Equal(t, 15*time.Second, cfg.RPC.DialTimeout)
		require.Equal(t, 5*time.Second, cfg.RPC.RequestTimeout)
		require.Equal(t, "/path/to/wallet.json", cfg.Wallet.Path)
		require.Equal(t, "secret", cfg.Wallet.Password)
		require.Equal(t, "debug", cfg.LogLevel)

		h, err := cfg.storageContract()
		require.NoError(t, err)
		require.Equal(t, "14131211100f0e0d0c0b0a090807060504030201", h.StringBE())

		_, err = cfg.epochsContract()
		require.Error(t, err)
	})

	t.Run("env overrides file", func(t *testing.T) {
		epochs := util.Uint160{7, 8, 9}

		t.Setenv("DATASTORE_RPC_ENDPOINT", "ws://localhost:40333/ws")
		t.Setenv("DATASTORE_CONTRACTS_EPOCHS", address.Uint160ToString(epochs))

		v := newViper()
		require.NoError(t, readConfigFile(v, path))

		cfg := loadConfig(v)
		require.Equal(t, "ws://localhost:40333/ws", cfg.RPC.Endpoint)
		require.Equal(t, "/path/to/wallet.json", cfg.Wallet.Path)

		h, err := cfg.epochsContract()
		require.NoError(t, err)
		require.Equal(t, epochs, h)
	})

	t.Run("missing file", func(t *testing.T) {
		require.Error(t, readConfigFile(newViper(), filepath.Join(t.TempDir(), "missing.yml")))
	})
}

func TestParseContractAddress(t *testing.T) {
	h := util.Uint160{1, 2, 3}

	for _, s := range []string{address.Uint160ToString(h), h.StringLE(), "0x" + h.StringLE()} {
		res, err := parseContractAddress("key", s)
		require.NoError(t, err, s)
		require.Equal(t, h, res, s)
	}

	for _, s := range []string{"", "not an address", "0102"} {
		_, err := parseContractAddress("key", s)
		require.Error(t, err, s)
	}
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("debug")
	require.NoError(t, err)

	_, err = newLogger("verbose")
	require.Error(t, err)
}
