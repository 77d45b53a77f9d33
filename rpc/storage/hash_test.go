package storage

import (
	"errors"
	"testing"

	"github.com/nspcc-dev/datastore-contract/contracts/storage/storageconst"
	"github.com/stretchr/testify/require"
)

func TestDataHash(t *testing.T) {
	require.Equal(t, "5f78c33274e43fa9de5659265c1d917e25c03722dcb0b8d27db8d5feaa813953",
		DataHash([]byte{0xde, 0xad, 0xbe, 0xef}))
	require.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		DataHash(nil))
}

func TestDataHashFromHex(t *testing.T) {
	for _, data := range []string{"deadbeef", "DEADBEEF", "DeAdBeEf"} {
		h, err := DataHashFromHex(data)
		require.NoError(t, err)
		require.Equal(t, "5f78c33274e43fa9de5659265c1d917e25c03722dcb0b8d27db8d5feaa813953", h)
	}

	for _, data := range []string{"abc", "zz", "0x00"} {
		_, err := DataHashFromHex(data)
		require.ErrorContains(t, err, storageconst.ErrHexDecoding)
	}
}

func TestErrorCheckers(t *testing.T) {
	require.False(t, IsNotFound(nil))
	require.False(t, IsAlreadyExists(nil))

	err := errors.New("at instruction 123 (THROW): unhandled exception: \"" + storageconst.NotFoundError + "\"")
	require.True(t, IsNotFound(err))
	require.False(t, IsAlreadyExists(err))

	err = errors.New("at instruction 42 (THROW): unhandled exception: \"" + storageconst.ErrDataAlreadyExists + "\"")
	require.True(t, IsAlreadyExists(err))
	require.False(t, IsNotFound(err))
}
