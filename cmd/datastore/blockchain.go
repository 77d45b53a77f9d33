package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
)

// wrapper over Neo RPC client providing blockchain services needed for the
// commands.
type remoteBlockchain struct {
	client  *rpcclient.Client
	invoker *invoker.Invoker

	// set only if wallet is configured.
	account *wallet.Account
	actor   *actor.Actor
}

// newRemoteBlockchain dials Neo RPC server and returns remoteBlockchain based
// on the opened connection. If withAccount is set, the account from the
// configured wallet is unlocked and used to sign transactions.
func newRemoteBlockchain(ctx context.Context, cfg config, withAccount bool) (*remoteBlockchain, error) {
	if cfg.RPC.Endpoint == "" {
		return nil, errors.New("missing " + cfgRPCEndpoint)
	}

	var (
		acc *wallet.Account
		err error
	)

	if withAccount {
		acc, err = openAccount(cfg)
		if err != nil {
			return nil, err
		}
	}

	c, err := rpcclient.New(ctx, cfg.RPC.Endpoint, rpcclient.Options{
		DialTimeout:    cfg.RPC.DialTimeout,
		RequestTimeout: cfg.RPC.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	res := &remoteBlockchain{
		client:  c,
		invoker: invoker.New(c, nil),
		account: acc,
	}

	if acc != nil {
		res.actor, err = actor.NewSimple(c, acc)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("init actor: %w", err)
		}
	}

	return res, nil
}

func (x *remoteBlockchain) close() {
	x.client.Close()
}

// openAccount reads the wallet and decrypts the configured account or the
// default one if no account is configured.
func openAccount(cfg config) (*wallet.Account, error) {
	if cfg.Wallet.Path == "" {
		return nil, errors.New("missing " + cfgWalletPath)
	}

	w, err := wallet.NewWalletFromFile(cfg.Wallet.Path)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	var addr util.Uint160
	if cfg.Wallet.Account != "" {
		addr, err = address.StringToUint160(cfg.Wallet.Account)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", cfgWalletAccount, err)
		}
	} else {
		addr = w.GetChangeAddress()
	}

	acc := w.GetAccount(addr)
	if acc == nil {
		return nil, fmt.Errorf("account %s is missing in the wallet", address.Uint160ToString(addr))
	}

	err = acc.Decrypt(cfg.Wallet.Password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", acc.Address, err)
	}

	return acc, nil
}
