package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nspcc-dev/datastore-contract/deploy"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/cobra"
)

type deployOutput struct {
	Epochs  string `json:"epochs,omitempty"`
	Storage string `json:"storage"`
}

func newDeployCommand(a *app) *cobra.Command {
	var (
		epochsNEF, epochsManifest   string
		storageNEF, storageManifest string
		oracle                      string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy or update Epochs and Storage contracts",
		Long: `Deploy or update Epochs and Storage contracts.

Contracts missing on the chain are deployed, the ones with NEF different from
the given one are updated (configured contract addresses are used to find
them), up-to-date contracts are skipped. If --oracle is set, Epochs contract
is not processed and Storage contract is deployed referencing the oracle.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var prm deploy.Prm

			err := readContractFiles(&prm.StorageContract.Common, storageNEF, storageManifest)
			if err != nil {
				return fmt.Errorf("storage contract: %w", err)
			}

			if a.cfg.Contracts.Storage != "" {
				prm.StorageContract.Common.Address, err = a.cfg.storageContract()
				if err != nil {
					return err
				}
			}

			if oracle != "" {
				prm.StorageContract.Oracle, err = parseContractAddress("oracle", oracle)
				if err != nil {
					return err
				}
			} else {
				err = readContractFiles(&prm.EpochsContract.Common, epochsNEF, epochsManifest)
				if err != nil {
					return fmt.Errorf("epochs contract: %w", err)
				}

				if a.cfg.Contracts.Epochs != "" {
					prm.EpochsContract.Common.Address, err = a.cfg.epochsContract()
					if err != nil {
						return err
					}
				}
			}

			ctx, cancel := a.requestContext(cmd, 30)
			defer cancel()

			b, err := newRemoteBlockchain(ctx, a.cfg, true)
			if err != nil {
				return fmt.Errorf("init remote blockchain: %w", err)
			}
			defer b.close()

			prm.Logger = a.log
			prm.Blockchain = b.client
			prm.Account = b.account

			res, err := deploy.Deploy(ctx, prm)
			if err != nil {
				return err
			}

			var out deployOutput
			if !res.Epochs.Equals(util.Uint160{}) {
				out.Epochs = address.Uint160ToString(res.Epochs)
			}
			out.Storage = address.Uint160ToString(res.Storage)

			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	f := cmd.Flags()
	f.StringVar(&epochsNEF, "epochs-nef", "", "Path to Epochs contract NEF file")
	f.StringVar(&epochsManifest, "epochs-manifest", "", "Path to Epochs contract manifest")
	f.StringVar(&storageNEF, "storage-nef", "", "Path to Storage contract NEF file")
	f.StringVar(&storageManifest, "storage-manifest", "", "Path to Storage contract manifest")
	f.StringVar(&oracle, "oracle", "", "Address of the external oracle contract")

	_ = cmd.MarkFlagRequired("storage-nef")
	_ = cmd.MarkFlagRequired("storage-manifest")

	return cmd
}

func readContractFiles(prm *deploy.CommonDeployPrm, nefPath, manifestPath string) error {
	if nefPath == "" || manifestPath == "" {
		return fmt.Errorf("both NEF and manifest files are required")
	}

	data, err := os.ReadFile(nefPath)
	if err != nil {
		return fmt.Errorf("read NEF file: %w", err)
	}

	prm.NEF, err = nef.FileFromBytes(data)
	if err != nil {
		return fmt.Errorf("decode NEF file: %w", err)
	}

	data, err = os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("read manifest file: %w", err)
	}

	var m manifest.Manifest

	err = json.Unmarshal(data, &m)
	if err != nil {
		return fmt.Errorf("decode manifest file: %w", err)
	}

	prm.Manifest = m

	return nil
}
