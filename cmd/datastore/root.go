package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app carries state shared between the commands of one invocation.
type app struct {
	v   *viper.Viper
	cfg config
	log *zap.Logger
}

func newRootCommand() *cobra.Command {
	var (
		a       = &app{v: newViper()}
		cfgPath string
	)

	root := &cobra.Command{
		Use:           "datastore",
		Short:         "Save data into the Storage contract and check its finality",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			err := readConfigFile(a.v, cfgPath)
			if err != nil {
				return err
			}

			a.cfg = loadConfig(a.v)

			a.log, err = newLogger(a.cfg.LogLevel)
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&cfgPath, "config", "c", "", "Path to YAML configuration file")
	pf.StringP("rpc-endpoint", "r", "", "Neo RPC server address")
	pf.StringP("wallet", "w", "", "Path to NEP-6 wallet")
	pf.StringP("address", "a", "", "Wallet account address (default account if empty)")
	pf.String("storage-contract", "", "Storage contract address or script hash")
	pf.String("epochs-contract", "", "Epochs contract address or script hash")
	pf.String("log-level", "", "Logging level (debug, info, warn, error)")

	for key, flag := range map[string]string{
		cfgRPCEndpoint:     "rpc-endpoint",
		cfgWalletPath:      "wallet",
		cfgWalletAccount:   "address",
		cfgStorageContract: "storage-contract",
		cfgEpochsContract:  "epochs-contract",
		cfgLogLevel:        "log-level",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newHashCommand(),
		newSaveCommand(a),
		newCheckCommand(a),
		newDeployCommand(a),
		newEpochsCommand(a),
	)

	return root
}

// requestContext limits the whole command by the RPC request timeout
// multiplied by the given number of requests.
func (a *app) requestContext(cmd *cobra.Command, requests int) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.cfg.RPC.RequestTimeout*time.Duration(requests))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON output: %w", err)
	}

	return nil
}
