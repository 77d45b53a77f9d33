package oracle

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	BTCHeaderInfo struct {
		Height int
		Time   int
		Hash   interop.Hash256
	}

	EpochInfo struct {
		EpochNumber int
		FinalizedAt int
	}
)

const (
	epochKey     = "epoch"
	btcTipKey    = "btcTip"
	finalizedKey = "finalized"
	failPrefix   = "fail"
)

func SetCurrentEpoch(epoch int) {
	storage.Put(storage.GetContext(), epochKey, epoch)
}

func SetBtcTip(height, time int, hash interop.Hash256) {
	storage.Put(storage.GetContext(), btcTipKey, std.Serialize(BTCHeaderInfo{
		Height: height,
		Time:   time,
		Hash:   hash,
	}))
}

func SetLatestFinalizedEpoch(epoch int) {
	storage.Put(storage.GetContext(), finalizedKey, std.Serialize(EpochInfo{
		EpochNumber: epoch,
	}))
}

func Fail(method string, flag bool) {
	ctx := storage.GetContext()
	if flag {
		storage.Put(ctx, failPrefix+method, []byte{1})
	} else {
		storage.Delete(ctx, failPrefix+method)
	}
}

func CurrentEpoch() int {
	ctx := storage.GetReadOnlyContext()
	checkFail(ctx, "currentEpoch")

	val := storage.Get(ctx, epochKey)
	if val == nil {
		panic("epoch is not initialized")
	}
	return val.(int)
}

func BtcTip() BTCHeaderInfo {
	ctx := storage.GetReadOnlyContext()
	checkFail(ctx, "btcTip")

	val := storage.Get(ctx, btcTipKey)
	if val == nil {
		panic("BTC tip is not available")
	}
	return std.Deserialize(val.([]byte)).(BTCHeaderInfo)
}

func LatestFinalizedEpochInfo() EpochInfo {
	ctx := storage.GetReadOnlyContext()
	checkFail(ctx, "latestFinalizedEpochInfo")

	val := storage.Get(ctx, finalizedKey)
	if val == nil {
		panic("no finalized epoch")
	}
	return std.Deserialize(val.([]byte)).(EpochInfo)
}

func checkFail(ctx storage.Context, method string) {
	if storage.Get(ctx, failPrefix+method) != nil {
		panic("oracle is unavailable: " + method)
	}
}
