package storage

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/nspcc-dev/datastore-contract/contracts/storage/storageconst"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
)

// DataHash returns the key Storage contract saves the payload under: lowercase
// hex string of the payload SHA-256 hash.
func DataHash(payload []byte) string {
	h := hash.Sha256(payload)
	return hex.EncodeToString(h.BytesBE())
}

// DataHashFromHex decodes hex-encoded payload (of any case) and returns its
// DataHash. It fails on the same inputs the contract rejects with
// storageconst.ErrHexDecoding.
func DataHashFromHex(data string) (string, error) {
	payload, err := hex.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", storageconst.ErrHexDecoding, err)
	}

	return DataHash(payload), nil
}

// IsNotFound checks whether the error returned by ContractReader.CheckData
// means there is no data with the requested hash.
func IsNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), storageconst.NotFoundError)
}

// IsAlreadyExists checks whether the error means the payload has already been
// saved.
func IsAlreadyExists(err error) bool {
	return err != nil && strings.Contains(err.Error(), storageconst.ErrDataAlreadyExists)
}
