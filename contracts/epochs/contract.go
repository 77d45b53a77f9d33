package epochs

import (
	"github.com/nspcc-dev/datastore-contract/common"
	cst "github.com/nspcc-dev/datastore-contract/contracts/epochs/epochsconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/ledger"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// BTCHeaderInfo is the latest known Bitcoin block header relayed to
	// the contract.
	BTCHeaderInfo struct {
		Height int
		// Header time in seconds since Unix epoch.
		Time int
		Hash interop.Hash256
	}

	// EpochInfo describes the latest finalized epoch.
	EpochInfo struct {
		EpochNumber int
		// Index of the block the epoch was finalized in.
		FinalizedAt int
	}
)

const (
	epochKey        = "epoch"
	btcTipKey       = "btcTip"
	finalizedKey    = "finalized"
	contractInfoKey = "contractInfo"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		version := args[len(args)-1].(int)

		common.CheckVersion(version)

		info := common.GetSerialized(ctx, contractInfoKey).(common.ContractInfo)
		common.CheckContractInfo(info, cst.ContractName, version)

		info.Version = common.Version
		common.SetSerialized(ctx, contractInfoKey, info)
		return
	}

	common.SetSerialized(ctx, contractInfoKey, common.ContractInfo{
		Name:    cst.ContractName,
		Version: common.Version,
	})

	runtime.Log("epochs contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("epochs contract updated")
}

// NewEpoch method changes the current epoch. The new epoch must be greater
// than the current one. It produces NewEpoch notification.
//
// This method must be invoked by the committee.
func NewEpoch(epochNum int) {
	ctx := storage.GetContext()

	common.CheckCommitteeWitness()

	if epochNum < 0 {
		panic(cst.ErrInvalidEpoch)
	}

	current := storage.Get(ctx, epochKey)
	if current != nil && epochNum <= current.(int) {
		panic(cst.ErrInvalidEpoch)
	}

	storage.Put(ctx, epochKey, epochNum)

	runtime.Log("process new epoch")
	runtime.Notify("NewEpoch", epochNum)
}

// SetBtcTip method saves the latest known Bitcoin block header. Height can't
// decrease, time can't be negative and hash must be 32 bytes long. It
// produces BtcTipUpdated notification.
//
// This method must be invoked by the committee.
func SetBtcTip(height, time int, hash interop.Hash256) {
	ctx := storage.GetContext()

	common.CheckCommitteeWitness()

	if height < 0 || time < 0 || len(hash) != interop.Hash256Len {
		panic(cst.ErrInvalidBTCTip)
	}

	prev := common.GetSerialized(ctx, btcTipKey)
	if prev != nil {
		tip := prev.(BTCHeaderInfo)
		if height < tip.Height {
			panic(cst.ErrInvalidBTCTip)
		}
	}

	common.SetSerialized(ctx, btcTipKey, BTCHeaderInfo{
		Height: height,
		Time:   time,
		Hash:   hash,
	})

	runtime.Notify("BtcTipUpdated", height, time, hash)
}

// FinalizeEpoch method marks the epoch and all previous ones as final. The
// epoch must not be greater than the current one and must be greater than
// the previously finalized one. It produces EpochFinalized notification.
//
// This method must be invoked by the committee.
func FinalizeEpoch(epochNum int) {
	ctx := storage.GetContext()

	common.CheckCommitteeWitness()

	current := storage.Get(ctx, epochKey)
	if current == nil || epochNum < 0 || epochNum > current.(int) {
		panic(cst.ErrInvalidEpoch)
	}

	prev := common.GetSerialized(ctx, finalizedKey)
	if prev != nil {
		info := prev.(EpochInfo)
		if epochNum <= info.EpochNumber {
			panic(cst.ErrInvalidEpoch)
		}
	}

	common.SetSerialized(ctx, finalizedKey, EpochInfo{
		EpochNumber: epochNum,
		FinalizedAt: ledger.CurrentIndex(),
	})

	runtime.Notify("EpochFinalized", epochNum)
}

// CurrentEpoch method returns the current epoch number.
func CurrentEpoch() int {
	ctx := storage.GetReadOnlyContext()

	epoch := storage.Get(ctx, epochKey)
	if epoch == nil {
		panic(cst.ErrNoEpoch)
	}

	return epoch.(int)
}

// BtcTip method returns the latest relayed Bitcoin block header.
func BtcTip() BTCHeaderInfo {
	ctx := storage.GetReadOnlyContext()

	tip := common.GetSerialized(ctx, btcTipKey)
	if tip == nil {
		panic(cst.ErrNoBTCTip)
	}

	return tip.(BTCHeaderInfo)
}

// LatestFinalizedEpochInfo method returns the latest finalized epoch.
func LatestFinalizedEpochInfo() EpochInfo {
	ctx := storage.GetReadOnlyContext()

	info := common.GetSerialized(ctx, finalizedKey)
	if info == nil {
		panic(cst.ErrNoFinalizedEpoch)
	}

	return info.(EpochInfo)
}

// ContractInfo method returns name and version of the contract code which
// has initialized or last migrated the contract storage.
func ContractInfo() common.ContractInfo {
	ctx := storage.GetReadOnlyContext()
	return common.GetSerialized(ctx, contractInfoKey).(common.ContractInfo)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}
