/*
Package storage implements Storage contract which saves arbitrary data
deduplicated by its SHA-256 hash.

Every saved payload is stamped with the host chain epoch and the BTC tip
(height and time) reported by the oracle contract at the moment of saving.
Saved data can't be changed or removed. CheckData reports whether the epoch
the data was saved in has been finalized since then.

The oracle contract address is set on deploy. It must provide the following
read-only methods:

	currentEpoch() Integer
	btcTip() Array [height Integer, time Integer, hash Hash256]
	latestFinalizedEpochInfo() Array [epochNumber Integer, ...]

Epochs contract from this repository implements them.

# Contract notifications

DataSaved notification. This notification is produced when new data is saved.

	DataSaved:
	  - name: dataHash
	    type: String
	  - name: epoch
	    type: Integer
*/
package storage

/*
Contract storage model.

Current conventions:
 <hash>: 64-character lowercase hex string of SHA-256 hash of the decoded payload
 <digest>: raw 32-byte SHA-256 hash of the decoded payload

# Summary
Key-value storage format:
 - 'oracle' -> interop.Hash160
   oracle contract reference
 - 'contractInfo' -> std.Serialize(common.ContractInfo)
   contract name and version which initialized or last migrated the storage
 - 'd<digest>' -> std.Serialize(StoredData)
   saved payload with its epoch and BTC tip stamps

# Data
Contract stores one record per unique payload, records are never updated or
removed.
*/
