package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	cmd := newRootCommand()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestHashCommand(t *testing.T) {
	out, err := execute(t, "hash", "DEADBEEF")
	require.NoError(t, err)
	require.Equal(t, "5f78c33274e43fa9de5659265c1d917e25c03722dcb0b8d27db8d5feaa813953\n", out)

	_, err = execute(t, "hash", "xyz")
	require.Error(t, err)

	_, err = execute(t, "hash")
	require.Error(t, err)
}

func TestCommandsConfigErrors(t *testing.T) {
	t.Setenv("DATASTORE_CONTRACTS_STORAGE", "")
	t.Setenv("DATASTORE_CONTRACTS_EPOCHS", "")

	t.Run("invalid data is rejected before sending", func(t *testing.T) {
		_, err := execute(t, "save", "abc", "--storage-contract", "0x0102030405060708090a0b0c0d0e0f1011121314")
		require.ErrorContains(t, err, "hex decoding error")
	})

	t.Run("missing storage contract", func(t *testing.T) {
		_, err := execute(t, "save", "deadbeef")
		require.ErrorContains(t, err, cfgStorageContract)

		_, err = execute(t, "check", "5f78c33274e43fa9de5659265c1d917e25c03722dcb0b8d27db8d5feaa813953")
		require.ErrorContains(t, err, cfgStorageContract)
	})

	t.Run("missing RPC endpoint", func(t *testing.T) {
		_, err := execute(t, "check", "--storage-contract", "0x0102030405060708090a0b0c0d0e0f1011121314",
			"5f78c33274e43fa9de5659265c1d917e25c03722dcb0b8d27db8d5feaa813953")
		require.ErrorContains(t, err, cfgRPCEndpoint)
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, err := execute(t, "check", "--payload", "abc")
		require.ErrorContains(t, err, "hex decoding error")
	})

	t.Run("missing epochs contract", func(t *testing.T) {
		_, err := execute(t, "epochs", "new", "1")
		require.ErrorContains(t, err, cfgEpochsContract)
	})

	t.Run("invalid epoch", func(t *testing.T) {
		_, err := execute(t, "epochs", "finalize", "-1")
		require.Error(t, err)

		_, err = execute(t, "epochs", "new", "one")
		require.Error(t, err)
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, err := execute(t, "hash", "00", "--log-level", "verbose")
		require.Error(t, err)
	})

	t.Run("deploy requires contract files", func(t *testing.T) {
		_, err := execute(t, "deploy")
		require.Error(t, err)
	})
}

func TestParseInteger(t *testing.T) {
	v, err := parseInteger("x", "42")
	require.NoError(t, err)
	require.EqualValues(t, 42, v.Int64())

	for _, s := range []string{"", "-1", "1.5", "0x10"} {
		_, err = parseInteger("x", s)
		require.Error(t, err, s)
	}
}
