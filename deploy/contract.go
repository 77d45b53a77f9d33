package deploy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"go.uber.org/zap"
)

// contractReader is implemented by management.ContractReader.
type contractReader interface {
	// GetContract returns nil if there is no contract with the given address.
	GetContract(hash util.Uint160) (*state.Contract, error)
}

// contractDeployer is implemented by management.Contract.
type contractDeployer interface {
	Deploy(exe *nef.File, manif *manifest.Manifest, data any) (util.Uint256, uint32, error)
}

// contractUpdater is implemented by the Contract types of the rpc packages.
type contractUpdater interface {
	Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error)
}

// txWaiter is implemented by actor.Actor.
type txWaiter interface {
	Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error)
}

type syncContractPrm struct {
	logger *zap.Logger

	contracts  contractReader
	deployer   contractDeployer
	waiter     txWaiter
	newUpdater func(util.Uint160) contractUpdater

	sender util.Uint160

	localNEF      nef.File
	localManifest manifest.Manifest
	address       util.Uint160
	deployArgs    []any
}

// syncContract deploys the contract if it is missing on the chain or updates
// it if its NEF differs from the local one. Returns the contract address.
func syncContract(ctx context.Context, prm syncContractPrm) (util.Uint160, error) {
	addr := prm.address
	knownAddr := !addr.Equals(util.Uint160{})
	if !knownAddr {
		addr = state.CreateContractHash(prm.sender, prm.localNEF.Checksum, prm.localManifest.Name)
	}

	l := prm.logger.With(zap.String("contract", prm.localManifest.Name), zap.Stringer("address", addr))

	if err := ctx.Err(); err != nil {
		return util.Uint160{}, err
	}

	onChain, err := prm.contracts.GetContract(addr)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("get contract state: %w", err)
	}

	if onChain == nil {
		if knownAddr {
			return util.Uint160{}, fmt.Errorf("contract %s is missing on the chain", addr.StringLE())
		}

		l.Info("contract is missing on the chain, deploying...")

		txHash, vub, err := prm.deployer.Deploy(&prm.localNEF, &prm.localManifest, prm.deployArgs)
		err = awaitTx(prm.waiter, txHash, vub, err)
		if err != nil {
			return util.Uint160{}, fmt.Errorf("deploy contract: %w", err)
		}

		l.Info("contract successfully deployed", zap.Stringer("tx", txHash))

		return addr, nil
	}

	if onChain.NEF.Checksum == prm.localNEF.Checksum {
		l.Info("on-chain contract is up-to-date, skip")
		return addr, nil
	}

	l.Info("on-chain contract differs from the local one, updating...",
		zap.Uint32("on-chain checksum", onChain.NEF.Checksum), zap.Uint32("local checksum", prm.localNEF.Checksum))

	script, err := prm.localNEF.Bytes()
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode NEF: %w", err)
	}

	rawManifest, err := json.Marshal(prm.localManifest)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode manifest into JSON: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return util.Uint160{}, err
	}

	txHash, vub, err := prm.newUpdater(addr).Update(script, rawManifest, nil)
	err = awaitTx(prm.waiter, txHash, vub, err)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("update contract: %w", err)
	}

	l.Info("contract successfully updated", zap.Stringer("tx", txHash))

	return addr, nil
}

// awaitTx waits for the sent transaction to be accepted and checks it has
// been executed successfully. Error from the sending routine is passed as is.
func awaitTx(w txWaiter, txHash util.Uint256, vub uint32, err error) error {
	res, err := w.Wait(txHash, vub, err)
	if err != nil {
		return err
	}

	if res.VMState != vmstate.Halt {
		return fmt.Errorf("transaction %s failed with %s state: %s", txHash.StringLE(), res.VMState, res.FaultException)
	}

	return nil
}
