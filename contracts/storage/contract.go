package storage

import (
	"github.com/nspcc-dev/datastore-contract/common"
	cst "github.com/nspcc-dev/datastore-contract/contracts/storage/storageconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// StoredData is a record saved for every unique payload.
	StoredData struct {
		// Payload as it was submitted (hex string).
		Data string
		// BTC tip height at the moment of saving.
		Height int
		// BTC tip time (seconds since Unix epoch) at the moment of saving.
		Timestamp int
		// Host chain epoch at the moment of saving.
		SavedEpoch int
	}

	// CheckDataResponse is returned by CheckData. It carries both epochs
	// Finalized is derived from, so the caller can verify it.
	CheckDataResponse struct {
		Height               int
		Timestamp            int
		Finalized            bool
		SaveEpoch            int
		LatestFinalizedEpoch int
	}
)

const (
	oracleContractKey = "oracle"
	contractInfoKey   = "contractInfo"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		version := args[len(args)-1].(int)

		common.CheckVersion(version)

		info := getContractInfo(ctx)
		common.CheckContractInfo(info, cst.ContractName, version)

		info.Version = common.Version
		common.SetSerialized(ctx, contractInfoKey, info)
		return
	}

	args := data.(struct {
		addrOracle interop.Hash160
	})

	if len(args.addrOracle) != interop.Hash160Len {
		panic(cst.ErrInvalidOracle)
	}

	storage.Put(ctx, oracleContractKey, args.addrOracle)
	common.SetSerialized(ctx, contractInfoKey, common.ContractInfo{
		Name:    cst.ContractName,
		Version: common.Version,
	})

	runtime.Log("storage contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("storage contract updated")
}

// SaveData method stores hex-encoded payload under the lowercase hex
// SHA-256 hash of the decoded bytes together with the current epoch and BTC
// tip reported by the oracle contract. It produces DataSaved notification.
//
// If data is not a valid hex string, SaveData panics with ErrHexDecoding.
// If the same payload has already been saved, it panics with
// ErrDataAlreadyExists without querying the oracle. Oracle failures are
// not handled and abort the invocation.
func SaveData(data string) {
	ctx := storage.GetContext()

	payload, ok := common.DecodeHex(data)
	if !ok {
		panic(cst.ErrHexDecoding)
	}

	digest := crypto.Sha256(payload)
	if hasRecord(ctx, digest) {
		panic(cst.ErrDataAlreadyExists)
	}

	oracle := getOracle(ctx)
	epoch := currentEpoch(oracle)
	tip := btcTip(oracle)

	putRecord(ctx, digest, StoredData{
		Data:       data,
		Height:     tip.Height,
		Timestamp:  tip.Time,
		SavedEpoch: epoch,
	})

	runtime.Log("data saved")
	runtime.Notify("DataSaved", common.EncodeHex(digest), epoch)
}

// CheckData method returns BTC tip and epoch saved along with the data
// hash and whether that epoch is already finalized. If the oracle can't
// provide the latest finalized epoch, nothing is considered finalized and
// LatestFinalizedEpoch is 0.
//
// Only lowercase hex hashes are recognized. If the data doesn't exist, it
// panics with NotFoundError.
func CheckData(dataHash string) CheckDataResponse {
	ctx := storage.GetReadOnlyContext()

	digest, ok := parseDataHash(dataHash)
	if !ok {
		panic(cst.NotFoundError)
	}

	rec := getRecord(ctx, digest)
	latest := latestFinalizedEpoch(getOracle(ctx))

	return CheckDataResponse{
		Height:               rec.Height,
		Timestamp:            rec.Timestamp,
		Finalized:            latest >= rec.SavedEpoch,
		SaveEpoch:            rec.SavedEpoch,
		LatestFinalizedEpoch: latest,
	}
}

// Oracle method returns the address of the contract providing epochs and
// BTC tip.
func Oracle() interop.Hash160 {
	return getOracle(storage.GetReadOnlyContext())
}

// ContractInfo method returns name and version of the contract code which
// has initialized or last migrated the contract storage.
func ContractInfo() common.ContractInfo {
	return getContractInfo(storage.GetReadOnlyContext())
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getContractInfo(ctx storage.Context) common.ContractInfo {
	return common.GetSerialized(ctx, contractInfoKey).(common.ContractInfo)
}
