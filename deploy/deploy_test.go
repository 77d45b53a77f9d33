package deploy

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDeployTransactionModifier(t *testing.T) {
	t.Run("invalid invocation result state", func(t *testing.T) {
		var res result.Invoke
		res.State = "FAULT" // any non-HALT

		err := deployTransactionModifier(func() (uint32, error) { return 0, nil })(&res, new(transaction.Transaction))
		require.Error(t, err)
	})

	var validRes result.Invoke
	validRes.State = "HALT"

	t.Run("height failure", func(t *testing.T) {
		m := deployTransactionModifier(func() (uint32, error) { return 0, errors.New("any") })
		require.Error(t, m(&validRes, new(transaction.Transaction)))
	})

	for _, tc := range []struct {
		curHeight     uint32
		expectedNonce uint32
		expectedVUB   uint32
	}{
		{curHeight: 0, expectedNonce: 0, expectedVUB: 100},
		{curHeight: 1, expectedNonce: 0, expectedVUB: 100},
		{curHeight: 99, expectedNonce: 0, expectedVUB: 100},
		{curHeight: 100, expectedNonce: 100, expectedVUB: 200},
		{curHeight: 199, expectedNonce: 100, expectedVUB: 200},
		{curHeight: 200, expectedNonce: 200, expectedVUB: 300},
		{curHeight: math.MaxUint32 - 50, expectedNonce: 100 * (math.MaxUint32 / 100), expectedVUB: math.MaxUint32},
	} {
		m := deployTransactionModifier(func() (uint32, error) { return tc.curHeight, nil })

		var tx transaction.Transaction

		err := m(&validRes, &tx)
		require.NoError(t, err, tc)
		require.EqualValues(t, tc.expectedNonce, tx.Nonce, tc)
		require.EqualValues(t, tc.expectedVUB, tx.ValidUntilBlock, tc)
	}
}

func TestDeployParameters(t *testing.T) {
	_, err := Deploy(context.Background(), Prm{})
	require.Error(t, err)
}

type testChain struct {
	contracts map[util.Uint160]*state.Contract

	deployed []any
	updated  []util.Uint160

	sendErr error
	vmState vmstate.State
}

func newTestChain() *testChain {
	return &testChain{
		contracts: make(map[util.Uint160]*state.Contract),
		vmState:   vmstate.Halt,
	}
}

func (c *testChain) GetContract(hash util.Uint160) (*state.Contract, error) {
	return c.contracts[hash], nil
}

func (c *testChain) Deploy(_ *nef.File, _ *manifest.Manifest, data any) (util.Uint256, uint32, error) {
	c.deployed = append(c.deployed, data)
	return util.Uint256{1}, 100, c.sendErr
}

func (c *testChain) Wait(_ util.Uint256, _ uint32, err error) (*state.AppExecResult, error) {
	if err != nil {
		return nil, err
	}

	return &state.AppExecResult{
		Execution: state.Execution{
			VMState:        c.vmState,
			FaultException: "some exception",
		},
	}, nil
}

type testUpdater struct {
	c    *testChain
	addr util.Uint160
}

func (u testUpdater) Update([]byte, []byte, any) (util.Uint256, uint32, error) {
	u.c.updated = append(u.c.updated, u.addr)
	return util.Uint256{2}, 100, u.c.sendErr
}

func newSyncPrm(t *testing.T, c *testChain, script []byte) syncContractPrm {
	ne, err := nef.NewFile(script)
	require.NoError(t, err)

	return syncContractPrm{
		logger:        zaptest.NewLogger(t),
		contracts:     c,
		deployer:      c,
		waiter:        c,
		newUpdater:    func(h util.Uint160) contractUpdater { return testUpdater{c, h} },
		sender:        util.Uint160{1, 2, 3},
		localNEF:      *ne,
		localManifest: *manifest.NewManifest("test"),
		deployArgs:    []any{"arg"},
	}
}

func TestSyncContract(t *testing.T) {
	ctx := context.Background()

	t.Run("deploy", func(t *testing.T) {
		c := newTestChain()
		prm := newSyncPrm(t, c, []byte{1})

		addr, err := syncContract(ctx, prm)
		require.NoError(t, err)
		require.Equal(t, state.CreateContractHash(prm.sender, prm.localNEF.Checksum, "test"), addr)
		require.Equal(t, []any{[]any{"arg"}}, c.deployed)
		require.Empty(t, c.updated)
	})

	t.Run("up-to-date", func(t *testing.T) {
		c := newTestChain()
		prm := newSyncPrm(t, c, []byte{1})

		addr := state.CreateContractHash(prm.sender, prm.localNEF.Checksum, "test")
		c.contracts[addr] = &state.Contract{ContractBase: state.ContractBase{Hash: addr, NEF: prm.localNEF}}

		res, err := syncContract(ctx, prm)
		require.NoError(t, err)
		require.Equal(t, addr, res)
		require.Empty(t, c.deployed)
		require.Empty(t, c.updated)
	})

	t.Run("update", func(t *testing.T) {
		c := newTestChain()
		oldPrm := newSyncPrm(t, c, []byte{1})
		prm := newSyncPrm(t, c, []byte{2})

		addr := state.CreateContractHash(prm.sender, oldPrm.localNEF.Checksum, "test")
		c.contracts[addr] = &state.Contract{ContractBase: state.ContractBase{Hash: addr, NEF: oldPrm.localNEF}}

		prm.address = addr

		res, err := syncContract(ctx, prm)
		require.NoError(t, err)
		require.Equal(t, addr, res)
		require.Empty(t, c.deployed)
		require.Equal(t, []util.Uint160{addr}, c.updated)
	})

	t.Run("missing known contract", func(t *testing.T) {
		c := newTestChain()
		prm := newSyncPrm(t, c, []byte{1})
		prm.address = util.Uint160{4, 5, 6}

		_, err := syncContract(ctx, prm)
		require.Error(t, err)
		require.Empty(t, c.deployed)
	})

	t.Run("send failure", func(t *testing.T) {
		c := newTestChain()
		c.sendErr = errors.New("any")

		_, err := syncContract(ctx, newSyncPrm(t, c, []byte{1}))
		require.ErrorIs(t, err, c.sendErr)
	})

	t.Run("faulted transaction", func(t *testing.T) {
		c := newTestChain()
		c.vmState = vmstate.Fault

		_, err := syncContract(ctx, newSyncPrm(t, c, []byte{1}))
		require.ErrorContains(t, err, "some exception")
	})

	t.Run("canceled context", func(t *testing.T) {
		c := newTestChain()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := syncContract(ctx, newSyncPrm(t, c, []byte{1}))
		require.ErrorIs(t, err, context.Canceled)
		require.Empty(t, c.deployed)
	})
}
