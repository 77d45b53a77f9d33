// Package epochs contains RPC wrappers for Epochs contract.
package epochs

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// CommonContractInfo is a contract-specific common.ContractInfo type used by its methods.
type CommonContractInfo struct {
	Name    string
	Version *big.Int
}

// EpochsBTCHeaderInfo is a contract-specific epochs.BTCHeaderInfo type used by its methods.
type EpochsBTCHeaderInfo struct {
	Height *big.Int
	Time   *big.Int
	Hash   util.Uint256
}

// EpochsEpochInfo is a contract-specific epochs.EpochInfo type used by its methods.
type EpochsEpochInfo struct {
	EpochNumber *big.Int
	FinalizedAt *big.Int
}

// NewEpochEvent represents "NewEpoch" event emitted by the contract.
type NewEpochEvent struct {
	Epoch *big.Int
}

// BtcTipUpdatedEvent represents "BtcTipUpdated" event emitted by the contract.
type BtcTipUpdatedEvent struct {
	Height *big.Int
	Time   *big.Int
	Hash   util.Uint256
}

// EpochFinalizedEvent represents "EpochFinalized" event emitted by the contract.
type EpochFinalizedEvent struct {
	Epoch *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// BtcTip invokes `btcTip` method of contract.
func (c *ContractReader) BtcTip() (*EpochsBTCHeaderInfo, error) {
	return itemToEpochsBTCHeaderInfo(unwrap.Item(c.invoker.Call(c.hash, "btcTip")))
}

// ContractInfo invokes `contractInfo` method of contract.
func (c *ContractReader) ContractInfo() (*CommonContractInfo, error) {
	return itemToCommonContractInfo(unwrap.Item(c.invoker.Call(c.hash, "contractInfo")))
}

// CurrentEpoch invokes `currentEpoch` method of contract.
func (c *ContractReader) CurrentEpoch() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "currentEpoch"))
}

// LatestFinalizedEpochInfo invokes `latestFinalizedEpochInfo` method of contract.
func (c *ContractReader) LatestFinalizedEpochInfo() (*EpochsEpochInfo, error) {
	return itemToEpochsEpochInfo(unwrap.Item(c.invoker.Call(c.hash, "latestFinalizedEpochInfo")))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// FinalizeEpoch creates a transaction invoking `finalizeEpoch` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) FinalizeEpoch(epochNum *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "finalizeEpoch", epochNum)
}

// FinalizeEpochTransaction creates a transaction invoking `finalizeEpoch` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) FinalizeEpochTransaction(epochNum *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "finalizeEpoch", epochNum)
}

// FinalizeEpochUnsigned creates a transaction invoking `finalizeEpoch` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) FinalizeEpochUnsigned(epochNum *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "finalizeEpoch", nil, epochNum)
}

// NewEpoch creates a transaction invoking `newEpoch` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) NewEpoch(epochNum *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "newEpoch", epochNum)
}

// NewEpochTransaction creates a transaction invoking `newEpoch` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) NewEpochTransaction(epochNum *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "newEpoch", epochNum)
}

// NewEpochUnsigned creates a transaction invoking `newEpoch` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) NewEpochUnsigned(epochNum *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "newEpoch", nil, epochNum)
}

// SetBtcTip creates a transaction invoking `setBtcTip` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetBtcTip(height *big.Int, time *big.Int, hash util.Uint256) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setBtcTip", height, time, hash)
}

// SetBtcTipTransaction creates a transaction invoking `setBtcTip` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetBtcTipTransaction(height *big.Int, time *big.Int, hash util.Uint256) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setBtcTip", height, time, hash)
}

// SetBtcTipUnsigned creates a transaction invoking `setBtcTip` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetBtcTipUnsigned(height *big.Int, time *big.Int, hash util.Uint256) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setBtcTip", nil, height, time, hash)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// itemToCommonContractInfo converts stack item into *CommonContractInfo.
func itemToCommonContractInfo(item stackitem.Item, err error) (*CommonContractInfo, error) {
	if err != nil {
		return nil, err
	}
	var res = new(CommonContractInfo)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of CommonContractInfo from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *CommonContractInfo) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Name, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	index++
	res.Version, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Version: %w", err)
	}

	return nil
}

// itemToEpochsBTCHeaderInfo converts stack item into *EpochsBTCHeaderInfo.
func itemToEpochsBTCHeaderInfo(item stackitem.Item, err error) (*EpochsBTCHeaderInfo, error) {
	if err != nil {
		return nil, err
	}
	var res = new(EpochsBTCHeaderInfo)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of EpochsBTCHeaderInfo from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *EpochsBTCHeaderInfo) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Height, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Height: %w", err)
	}

	index++
	res.Time, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Time: %w", err)
	}

	index++
	res.Hash, err = itemToUint256(arr[index])
	if err != nil {
		return fmt.Errorf("field Hash: %w", err)
	}

	return nil
}

// itemToEpochsEpochInfo converts stack item into *EpochsEpochInfo.
func itemToEpochsEpochInfo(item stackitem.Item, err error) (*EpochsEpochInfo, error) {
	if err != nil {
		return nil, err
	}
	var res = new(EpochsEpochInfo)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of EpochsEpochInfo from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *EpochsEpochInfo) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.EpochNumber, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field EpochNumber: %w", err)
	}

	index++
	res.FinalizedAt, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field FinalizedAt: %w", err)
	}

	return nil
}

// NewEpochEventsFromApplicationLog retrieves a set of all emitted events
// with "NewEpoch" name from the provided [result.ApplicationLog].
func NewEpochEventsFromApplicationLog(log *result.ApplicationLog) ([]*NewEpochEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*NewEpochEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "NewEpoch" {
				continue
			}
			event := new(NewEpochEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize NewEpochEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to NewEpochEvent or
// returns an error if it's not possible to do to so.
func (e *NewEpochEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 1 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Epoch, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Epoch: %w", err)
	}

	return nil
}

// BtcTipUpdatedEventsFromApplicationLog retrieves a set of all emitted events
// with "BtcTipUpdated" name from the provided [result.ApplicationLog].
func BtcTipUpdatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*BtcTipUpdatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*BtcTipUpdatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "BtcTipUpdated" {
				continue
			}
			event := new(BtcTipUpdatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize BtcTipUpdatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to BtcTipUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *BtcTipUpdatedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Height, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Height: %w", err)
	}

	index++
	e.Time, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Time: %w", err)
	}

	index++
	e.Hash, err = itemToUint256(arr[index])
	if err != nil {
		return fmt.Errorf("field Hash: %w", err)
	}

	return nil
}

// EpochFinalizedEventsFromApplicationLog retrieves a set of all emitted events
// with "EpochFinalized" name from the provided [result.ApplicationLog].
func EpochFinalizedEventsFromApplicationLog(log *result.ApplicationLog) ([]*EpochFinalizedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*EpochFinalizedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "EpochFinalized" {
				continue
			}
			event := new(EpochFinalizedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize EpochFinalizedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to EpochFinalizedEvent or
// returns an error if it's not possible to do to so.
func (e *EpochFinalizedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 1 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Epoch, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Epoch: %w", err)
	}

	return nil
}

func itemToUint256(item stackitem.Item) (util.Uint256, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint256{}, err
	}
	u, err := util.Uint256DecodeBytesBE(b)
	if err != nil {
		return util.Uint256{}, err
	}
	return u, nil
}
