package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "DATASTORE"

// Configuration keys. Nested keys are mapped to the environment variables
// by replacing dots with underscores, e.g. rpc.endpoint is
// DATASTORE_RPC_ENDPOINT.
const (
	cfgRPCEndpoint       = "rpc.endpoint"
	cfgRPCDialTimeout    = "rpc.dial_timeout"
	cfgRPCRequestTimeout = "rpc.request_timeout"
	cfgWalletPath        = "wallet.path"
	cfgWalletAccount     = "wallet.account"
	cfgWalletPassword    = "wallet.password"
	cfgStorageContract   = "contracts.storage"
	cfgEpochsContract    = "contracts.epochs"
	cfgLogLevel          = "log.level"
)

type config struct {
	RPC struct {
		Endpoint       string
		DialTimeout    time.Duration
		RequestTimeout time.Duration
	}

	Wallet struct {
		Path     string
		Account  string
		Password string
	}

	Contracts struct {
		Storage string
		Epochs  string
	}

	LogLevel string
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(cfgRPCDialTimeout, 15*time.Second)
	v.SetDefault(cfgRPCRequestTimeout, 15*time.Second)
	v.SetDefault(cfgLogLevel, "info")

	return v
}

// readConfigFile merges YAML config file into v. Empty path is ignored.
func readConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	return nil
}

func loadConfig(v *viper.Viper) config {
	var cfg config

	cfg.RPC.Endpoint = v.GetString(cfgRPCEndpoint)
	cfg.RPC.DialTimeout = v.GetDuration(cfgRPCDialTimeout)
	cfg.RPC.RequestTimeout = v.GetDuration(cfgRPCRequestTimeout)
	cfg.Wallet.Path = v.GetString(cfgWalletPath)
	cfg.Wallet.Account = v.GetString(cfgWalletAccount)
	cfg.Wallet.Password = v.GetString(cfgWalletPassword)
	cfg.Contracts.Storage = v.GetString(cfgStorageContract)
	cfg.Contracts.Epochs = v.GetString(cfgEpochsContract)
	cfg.LogLevel = v.GetString(cfgLogLevel)

	return cfg
}

func (c config) storageContract() (util.Uint160, error) {
	return parseContractAddress(cfgStorageContract, c.Contracts.Storage)
}

func (c config) epochsContract() (util.Uint160, error) {
	return parseContractAddress(cfgEpochsContract, c.Contracts.Epochs)
}

// parseContractAddress accepts both Neo address and LE hex string of the
// contract script hash.
func parseContractAddress(key, s string) (util.Uint160, error) {
	if s == "" {
		return util.Uint160{}, fmt.Errorf("missing %s", key)
	}

	if h, err := address.StringToUint160(s); err == nil {
		return h, nil
	}

	h, err := util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid %s '%s': neither Neo address nor script hash", key, s)
	}

	return h, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(lvl)
	c.Encoding = "console"
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return c.Build()
}
