package main

import (
	"fmt"

	storagerpc "github.com/nspcc-dev/datastore-contract/rpc/storage"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newHashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <hex-data>",
		Short: "Print the key the data is saved under",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := storagerpc.DataHashFromHex(args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), h)
			return err
		},
	}
}

func newSaveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save <hex-data>",
		Short: "Save hex-encoded data into the Storage contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := args[0]

			dataHash, err := storagerpc.DataHashFromHex(data)
			if err != nil {
				return err
			}

			contract, err := a.cfg.storageContract()
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

			txHash, vub, err := storagerpc.New(b.actor, contract).SaveData(data)
			if storagerpc.IsAlreadyExists(err) {
				return fmt.Errorf("data %s is already saved", dataHash)
			}

			res, err := b.actor.Wait(txHash, vub, err)
			if err != nil {
				return fmt.Errorf("send transaction: %w", err)
			}

			if res.VMState != vmstate.Halt {
				return fmt.Errorf("transaction %s failed: %s", txHash.StringLE(), res.FaultException)
			}

			a.log.Info("data saved",
				zap.String("hash", dataHash), zap.Stringer("tx", txHash))

			_, err = fmt.Fprintln(cmd.OutOrStdout(), dataHash)
			return err
		},
	}
}

type checkDataOutput struct {
	Hash                 string `json:"hash"`
	Height               int64  `json:"height"`
	Timestamp            int64  `json:"timestamp"`
	Finalized            bool   `json:"finalized"`
	SaveEpoch            int64  `json:"saveEpoch"`
	LatestFinalizedEpoch int64  `json:"latestFinalizedEpoch"`
}

func newCheckCommand(a *app) *cobra.Command {
	var fromPayload bool

	cmd := &cobra.Command{
		Use:   "check <hash>",
		Short: "Print BTC tip and epoch the data was saved at and whether it is finalized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataHash := args[0]
			if fromPayload {
				var err error
				dataHash, err = storagerpc.DataHashFromHex(dataHash)
				if err != nil {
					return err
				}
			}

			contract, err := a.cfg.storageContract()
			if err != nil {
				return err
			}

			ctx, cancel := a.requestContext(cmd, 3)
			defer cancel()

			b, err := newRemoteBlockchain(ctx, a.cfg, false)
			if err != nil {
				return fmt.Errorf("init remote blockchain: %w", err)
			}
			defer b.close()

			res, err := storagerpc.NewReader(b.invoker, contract).CheckData(dataHash)
			if storagerpc.IsNotFound(err) {
				return fmt.Errorf("data %s is not found", dataHash)
			}
			if err != nil {
				return fmt.Errorf("check data: %w", err)
			}

			return printJSON(cmd.OutOrStdout(), checkDataOutput{
				Hash:                 dataHash,
				Height:               res.Height.Int64(),
				Timestamp:            res.Timestamp.Int64(),
				Finalized:            res.Finalized,
				SaveEpoch:            res.SaveEpoch.Int64(),
				LatestFinalizedEpoch: res.LatestFinalizedEpoch.Int64(),
			})
		},
	}

	cmd.Flags().BoolVar(&fromPayload, "payload", false, "Treat the argument as hex-encoded data and check its hash")

	return cmd
}
