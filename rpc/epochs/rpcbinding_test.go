package epochs

import (
	"errors"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
)

type testInv struct {
	err error
	res *result.Invoke
}

func (t *testInv) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}

func TestBtcTip(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.err = errors.New("bad")
	_, err := r.BtcTip()
	require.Error(t, err)

	blockHash := util.Uint256{0xde, 0xad}

	ti.err = nil
	ti.res = &result.Invoke{
		State: vmstate.Halt.String(),
		Stack: []stackitem.Item{stackitem.NewStruct([]stackitem.Item{
			stackitem.Make(800000),
			stackitem.Make(1700000000),
			stackitem.Make([]byte{1, 2, 3}),
		})},
	}
	_, err = r.BtcTip()
	require.Error(t, err)

	ti.res.Stack = []stackitem.Item{stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(800000),
		stackitem.Make(1700000000),
		stackitem.Make(blockHash.BytesBE()),
	})}
	tip, err := r.BtcTip()
	require.NoError(t, err)
	require.Equal(t, &EpochsBTCHeaderInfo{
		Height: big.NewInt(800000),
		Time:   big.NewInt(1700000000),
		Hash:   blockHash,
	}, tip)
}

func TestLatestFinalizedEpochInfo(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.res = &result.Invoke{
		State:          vmstate.Fault.String(),
		FaultException: "no finalized epoch",
	}
	_, err := r.LatestFinalizedEpochInfo()
	require.ErrorContains(t, err, "no finalized epoch")

	ti.res = &result.Invoke{
		State: vmstate.Halt.String(),
		Stack: []stackitem.Item{stackitem.NewStruct([]stackitem.Item{
			stackitem.Make(5),
			stackitem.Make(42),
		})},
	}
	info, err := r.LatestFinalizedEpochInfo()
	require.NoError(t, err)
	require.EqualValues(t, 5, info.EpochNumber.Int64())
	require.EqualValues(t, 42, info.FinalizedAt.Int64())
}

func TestEventsFromApplicationLog(t *testing.T) {
	blockHash := util.Uint256{0xbe, 0xef}
	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			VMState: vmstate.Halt,
			Events: []state.NotificationEvent{
				{Name: "NewEpoch", Item: stackitem.NewArray([]stackitem.Item{stackitem.Make(4)})},
				{Name: "BtcTipUpdated", Item: stackitem.NewArray([]stackitem.Item{
					stackitem.Make(10),
					stackitem.Make(20),
					stackitem.Make(blockHash.BytesBE()),
				})},
				{Name: "EpochFinalized", Item: stackitem.NewArray([]stackitem.Item{stackitem.Make(3)})},
				{Name: "NewEpoch", Item: stackitem.NewArray([]stackitem.Item{stackitem.Make(5)})},
			},
		}},
	}

	newEpochs, err := NewEpochEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, newEpochs, 2)
	require.EqualValues(t, 4, newEpochs[0].Epoch.Int64())
	require.EqualValues(t, 5, newEpochs[1].Epoch.Int64())

	tips, err := BtcTipUpdatedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, tips, 1)
	require.Equal(t, blockHash, tips[0].Hash)

	finalized, err := EpochFinalizedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, finalized, 1)
	require.EqualValues(t, 3, finalized[0].Epoch.Int64())

	_, err = NewEpochEventsFromApplicationLog(nil)
	require.Error(t, err)
}
