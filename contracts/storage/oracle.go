package storage

import (
	cst "github.com/nspcc-dev/datastore-contract/contracts/storage/storageconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	currentEpochMethod         = "currentEpoch"
	btcTipMethod               = "btcTip"
	latestFinalizedEpochMethod = "latestFinalizedEpochInfo"
)

type (
	btcHeaderInfo struct {
		Height int
		Time   int
		Hash   interop.Hash256
	}

	epochInfo struct {
		EpochNumber int
		FinalizedAt int
	}
)

func getOracle(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, oracleContractKey).(interop.Hash160)
}

func currentEpoch(oracle interop.Hash160) int {
	return contract.Call(oracle, currentEpochMethod, contract.ReadOnly).(int)
}

func btcTip(oracle interop.Hash160) btcHeaderInfo {
	tip := contract.Call(oracle, btcTipMethod, contract.ReadOnly).(btcHeaderInfo)
	if tip.Height < 0 || tip.Time < 0 {
		panic(cst.ErrInvalidBTCTip)
	}

	return tip
}

// latestFinalizedEpoch returns 0 if the oracle fails, e.g. when no epoch
// has been finalized yet.
func latestFinalizedEpoch(oracle interop.Hash160) (epoch int) {
	defer func() {
		if r := recover(); r != nil {
			epoch = 0
		}
	}()

	info := contract.Call(oracle, latestFinalizedEpochMethod, contract.ReadOnly).(epochInfo)

	return info.EpochNumber
}
