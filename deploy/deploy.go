package deploy

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/nspcc-dev/datastore-contract/rpc/epochs"
	"github.com/nspcc-dev/datastore-contract/rpc/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the contracts deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetApplicationLog returns execution results of the transaction. It is
	// used to await transactions sent during deployment.
	GetApplicationLog(hash util.Uint256, trig *trigger.Type) (*result.ApplicationLog, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest

	// Address of the already deployed contract. If zero, the address is
	// calculated from the sender, NEF checksum and manifest name, i.e. the
	// contract is expected to be deployed from exactly these files. Must be set
	// to update contracts deployed from older sources.
	Address util.Uint160
}

// EpochsContractPrm groups deployment parameters of the Epochs contract.
type EpochsContractPrm struct {
	Common CommonDeployPrm
}

// StorageContractPrm groups deployment parameters of the Storage contract.
type StorageContractPrm struct {
	Common CommonDeployPrm

	// Address of the oracle contract providing epochs and BTC tip. If zero,
	// Epochs contract is synchronized with the chain and used as the oracle.
	Oracle util.Uint160
}

// Prm groups all parameters of the deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy contracts to.
	Blockchain Blockchain

	// Account used for transaction signing (must be unlocked). Contracts can
	// be updated only if this is the committee multi-signature account.
	Account *wallet.Account

	EpochsContract  EpochsContractPrm
	StorageContract StorageContractPrm
}

// Result groups addresses of the synchronized contracts.
type Result struct {
	// Zero if external oracle is used.
	Epochs  util.Uint160
	Storage util.Uint160
}

// Deploy synchronizes contracts with the Neo network represented by given
// Prm.Blockchain. Contracts missing on the chain are deployed, contracts
// with the NEF different from the local one are updated, up-to-date ones
// are left untouched. Epochs contract is processed first (unless external
// oracle is specified) since Storage contract references it on deploy.
//
// Each transaction is awaited before the next step. Deploy aborts on the
// context cancellation or the first error.
func Deploy(ctx context.Context, prm Prm) (Result, error) {
	var res Result

	if prm.Blockchain == nil {
		return res, errors.New("missing blockchain")
	}
	if prm.Account == nil {
		return res, errors.New("missing account")
	}

	logger := prm.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	act, err := actor.NewTuned(prm.Blockchain, []actor.SignerAccount{{
		Signer: transaction.Signer{
			Account: prm.Account.ScriptHash(),
			Scopes:  transaction.CalledByEntry,
		},
		Account: prm.Account,
	}}, actor.Options{
		CheckerModifier: deployTransactionModifier(prm.Blockchain.GetBlockCount),
	})
	if err != nil {
		return res, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	syncPrm := syncContractPrm{
		logger:    logger,
		contracts: management.NewReader(act),
		deployer:  management.New(act),
		waiter:    act,
		sender:    act.Sender(),
	}

	oracle := prm.StorageContract.Oracle

	if oracle.Equals(util.Uint160{}) {
		syncPrm.localNEF = prm.EpochsContract.Common.NEF
		syncPrm.localManifest = prm.EpochsContract.Common.Manifest
		syncPrm.address = prm.EpochsContract.Common.Address
		syncPrm.deployArgs = nil
		syncPrm.newUpdater = func(h util.Uint160) contractUpdater { return epochs.New(act, h) }

		logger.Info("synchronizing Epochs contract with the chain...")

		res.Epochs, err = syncContract(ctx, syncPrm)
		if err != nil {
			return res, fmt.Errorf("sync Epochs contract with the chain: %w", err)
		}

		logger.Info("Epochs contract successfully synchronized", zap.Stringer("address", res.Epochs))

		oracle = res.Epochs
	} else {
		logger.Info("using external oracle contract", zap.Stringer("address", oracle))
	}

	syncPrm.localNEF = prm.StorageContract.Common.NEF
	syncPrm.localManifest = prm.StorageContract.Common.Manifest
	syncPrm.address = prm.StorageContract.Common.Address
	syncPrm.deployArgs = []any{oracle}
	syncPrm.newUpdater = func(h util.Uint160) contractUpdater { return storage.New(act, h) }

	logger.Info("synchronizing Storage contract with the chain...")

	res.Storage, err = syncContract(ctx, syncPrm)
	if err != nil {
		return res, fmt.Errorf("sync Storage contract with the chain: %w", err)
	}

	logger.Info("Storage contract successfully synchronized", zap.Stringer("address", res.Storage))

	return res, nil
}

// returns actor.TransactionCheckerModifier which checks that invocation
// finished with 'HALT' state and, if so, sets transaction's nonce and
// ValidUntilBlock to 100*N and 100*(N+1) correspondingly, where
// 100*N <= current height < 100*(N+1). Repeated Deploy calls within the
// same span produce the same transactions, so the network rejects
// duplicates instead of accepting them twice.
func deployTransactionModifier(getBlockchainHeight func() (uint32, error)) actor.TransactionCheckerModifier {
	return func(r *result.Invoke, tx *transaction.Transaction) error {
		err := actor.DefaultCheckerModifier(r, tx)
		if err != nil {
			return err
		}

		curHeight, err := getBlockchainHeight()
		if err != nil {
			return fmt.Errorf("get blockchain height: %w", err)
		}

		const span = 100
		n := curHeight / span

		tx.Nonce = n * span

		if math.MaxUint32-span > tx.Nonce {
			tx.ValidUntilBlock = tx.Nonce + span
		} else {
			tx.ValidUntilBlock = math.MaxUint32
		}

		return nil
	}
}
