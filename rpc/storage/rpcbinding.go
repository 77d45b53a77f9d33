// Package storage contains RPC wrappers for Storage contract.
package storage

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

// StorageCheckDataResponse is a contract-specific storage.CheckDataResponse type used by its methods.
type StorageCheckDataResponse struct {
	Height               *big.Int
	Timestamp            *big.Int
	Finalized            bool
	SaveEpoch            *big.Int
	LatestFinalizedEpoch *big.Int
}

// DataSavedEvent represents "DataSaved" event emitted by the contract.
type DataSavedEvent struct {
	DataHash string
	Epoch    *big.Int
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

// CheckData invokes `checkData` method of contract.
func (c *ContractReader) CheckData(dataHash string) (*StorageCheckDataResponse, error) {
	return itemToStorageCheckDataResponse(unwrap.Item(c.invoker.Call(c.hash, "checkData", dataHash)))
}

// ContractInfo invokes `contractInfo` method of contract.
func (c *ContractReader) ContractInfo() (*CommonContractInfo, error) {
	return itemToCommonContractInfo(unwrap.Item(c.invoker.Call(c.hash, "contractInfo")))
}

// Oracle invokes `oracle` method of contract.
func (c *ContractReader) Oracle() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "oracle"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// SaveData creates a transaction invoking `saveData` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SaveData(data string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "saveData", data)
}

// SaveDataTransaction creates a transaction invoking `saveData` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SaveDataTransaction(data string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "saveData", data)
}

// SaveDataUnsigned creates a transaction invoking `saveData` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SaveDataUnsigned(data string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "saveData", nil, data)
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
	res.Name, err = itemToUTF8String(arr[index])
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

// itemToStorageCheckDataResponse converts stack item into *StorageCheckDataResponse.
func itemToStorageCheckDataResponse(item stackitem.Item, err error) (*StorageCheckDataResponse, error) {
	if err != nil {
		return nil, err
	}
	var res = new(StorageCheckDataResponse)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of StorageCheckDataResponse from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *StorageCheckDataResponse) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
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
	res.Timestamp, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}

	index++
	res.Finalized, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Finalized: %w", err)
	}

	index++
	res.SaveEpoch, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field SaveEpoch: %w", err)
	}

	index++
	res.LatestFinalizedEpoch, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field LatestFinalizedEpoch: %w", err)
	}

	return nil
}

// DataSavedEventsFromApplicationLog retrieves a set of all emitted events
// with "DataSaved" name from the provided [result.ApplicationLog].
func DataSavedEventsFromApplicationLog(log *result.ApplicationLog) ([]*DataSavedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*DataSavedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "DataSaved" {
				continue
			}
			event := new(DataSavedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize DataSavedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to DataSavedEvent or
// returns an error if it's not possible to do to so.
func (e *DataSavedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
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
	e.DataHash, err = itemToUTF8String(arr[index])
	if err != nil {
		return fmt.Errorf("field DataHash: %w", err)
	}

	index++
	e.Epoch, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Epoch: %w", err)
	}

	return nil
}

func itemToUTF8String(item stackitem.Item) (string, error) {
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("not a UTF-8 string")
	}
	return string(b), nil
}
