package main

import (
	"fmt"
	"math/big"

	epochsrpc "github.com/nspcc-dev/datastore-contract/rpc/epochs"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newEpochsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epochs",
		Short: "Relay epochs and BTC tip into the Epochs contract",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "new <epoch>",
			Short: "Start new epoch",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				epoch, err := parseInteger("epoch", args[0])
				if err != nil {
					return err
				}

				return a.sendEpochsTx(cmd, "new epoch", func(c *epochsrpc.Contract) (util.Uint256, uint32, error) {
					return c.NewEpoch(epoch)
				})
			},
		},
		&cobra.Command{
			Use:   "finalize <epoch>",
			Short: "Finalize epoch",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				epoch, err := parseInteger("epoch", args[0])
				if err != nil {
					return err
				}

				return a.sendEpochsTx(cmd, "finalize epoch", func(c *epochsrpc.Contract) (util.Uint256, uint32, error) {
					return c.FinalizeEpoch(epoch)
				})
			},
		},
		&cobra.Command{
			Use:   "tip <height> <time> <block-hash>",
			Short: "Relay BTC block header",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				height, err := parseInteger("height", args[0])
				if err != nil {
					return err
				}

				tm, err := parseInteger("time", args[1])
				if err != nil {
					return err
				}

				// block hashes are displayed in reversed byte order
				blockHash, err := util.Uint256DecodeStringLE(args[2])
				if err != nil {
					return fmt.Errorf("invalid block hash: %w", err)
				}

				return a.sendEpochsTx(cmd, "set BTC tip", func(c *epochsrpc.Contract) (util.Uint256, uint32, error) {
					return c.SetBtcTip(height, tm, blockHash)
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print current and finalized epochs and BTC tip",
			Args:  cobra.NoArgs,
			RunE:  a.epochsStatus,
		},
	)

	return cmd
}

func (a *app) sendEpochsTx(cmd *cobra.Command, op string, send func(*epochsrpc.Contract) (util.Uint256, uint32, error)) error {
	contract, err := a.cfg.epochsContract()
	if err != nil {
		return err
	}

	ctx, cancel := a.requestContext(cmd, 10)
	defer cancel()

	b, err := newRemoteBlockchain(ctx, a.cfg, true)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}
	defer b.close()

	txHash, vub, err := send(epochsrpc.New(b.actor, contract))

	res, err := b.actor.Wait(txHash, vub, err)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.VMState != vmstate.Halt {
		return fmt.Errorf("%s: transaction %s failed: %s", op, txHash.StringLE(), res.FaultException)
	}

	a.log.Info("transaction accepted", zap.String("operation", op), zap.Stringer("tx", txHash))

	return nil
}

type btcTipOutput struct {
	Height int64  `json:"height"`
	Time   int64  `json:"time"`
	Hash   string `json:"hash"`
}

type epochsStatusOutput struct {
	CurrentEpoch   *int64        `json:"currentEpoch"`
	FinalizedEpoch *int64        `json:"finalizedEpoch"`
	FinalizedAt    *int64        `json:"finalizedAt,omitempty"`
	BTCTip         *btcTipOutput `json:"btcTip"`
}

// epochsStatus prints contract state. Values the contract has not been
// initialized with yet are printed as nulls.
func (a *app) epochsStatus(cmd *cobra.Command, _ []string) error {
	contract, err := a.cfg.epochsContract()
	if err != nil {
		return err
	}

	ctx, cancel := a.requestContext(cmd, 4)
	defer cancel()

	b, err := newRemoteBlockchain(ctx, a.cfg, false)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}
	defer b.close()

	var (
		out epochsStatusOutput
		r   = epochsrpc.NewReader(b.invoker, contract)
	)

	if epoch, err := r.CurrentEpoch(); err == nil {
		v := epoch.Int64()
		out.CurrentEpoch = &v
	} else {
		a.log.Debug("current epoch is unavailable", zap.Error(err))
	}

	if info, err := r.LatestFinalizedEpochInfo(); err == nil {
		v, at := info.EpochNumber.Int64(), info.FinalizedAt.Int64()
		out.FinalizedEpoch, out.FinalizedAt = &v, &at
	} else {
		a.log.Debug("finalized epoch is unavailable", zap.Error(err))
	}

	if tip, err := r.BtcTip(); err == nil {
		out.BTCTip = &btcTipOutput{
			Height: tip.Height.Int64(),
			Time:   tip.Time.Int64(),
			Hash:   tip.Hash.StringLE(),
		}
	} else {
		a.log.Debug("BTC tip is unavailable", zap.Error(err))
	}

	return printJSON(cmd.OutOrStdout(), out)
}

func parseInteger(name, s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid %s '%s': non-negative decimal integer expected", name, s)
	}

	return v, nil
}
