package storage

import (
	"github.com/nspcc-dev/datastore-contract/common"
	cst "github.com/nspcc-dev/datastore-contract/contracts/storage/storageconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const dataKeyPrefix = 'd'

// recordKey returns storage key of the record with the given raw SHA-256
// digest. Hex form of the digest doesn't fit into storage key length limit.
func recordKey(digest []byte) []byte {
	return append([]byte{dataKeyPrefix}, digest...)
}

// parseDataHash returns raw digest of the data hash. The second result is
// false unless dataHash is a lowercase hex string of 32 bytes.
func parseDataHash(dataHash string) ([]byte, bool) {
	digest, ok := common.DecodeHex(dataHash)
	if !ok || len(digest) != interop.Hash256Len {
		return nil, false
	}

	return digest, common.EncodeHex(digest) == dataHash
}

func hasRecord(ctx storage.Context, digest []byte) bool {
	return storage.Get(ctx, recordKey(digest)) != nil
}

func getRecord(ctx storage.Context, digest []byte) StoredData {
	rec := common.GetSerialized(ctx, recordKey(digest))
	if rec == nil {
		panic(cst.NotFoundError)
	}

	return rec.(StoredData)
}

// putRecord never overwrites existing records. SaveData checks for
// duplicates itself, so this is a guard only and can't be reached through
// contract methods.
func putRecord(ctx storage.Context, digest []byte, rec StoredData) {
	key := recordKey(digest)
	if storage.Get(ctx, key) != nil {
		panic(cst.ErrRecordExists)
	}

	common.SetSerialized(ctx, key, rec)
}
