/*
Package epochs implements Epochs contract which is deployed to the host chain
and provides the facts Storage contract stamps its records with: the current
epoch, the latest finalized epoch and the latest known Bitcoin block header.

All state-changing methods are invoked by the committee (the relayer of the
host chain). The current epoch only grows, the BTC tip height never
decreases and an epoch can be finalized only once and only after it has
started.

# Contract notifications

NewEpoch notification. This notification is produced when the current epoch
changes.

	NewEpoch:
	  - name: epoch
	    type: Integer

BtcTipUpdated notification. This notification is produced when a new BTC
block header is relayed.

	BtcTipUpdated:
	  - name: height
	    type: Integer
	  - name: time
	    type: Integer
	  - name: hash
	    type: Hash256

EpochFinalized notification. This notification is produced when an epoch is
finalized.

	EpochFinalized:
	  - name: epoch
	    type: Integer
*/
package epochs

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'epoch' -> int
   current epoch
 - 'btcTip' -> std.Serialize(BTCHeaderInfo)
   latest relayed BTC block header
 - 'finalized' -> std.Serialize(EpochInfo)
   latest finalized epoch and the block index of its finalization
 - 'contractInfo' -> std.Serialize(common.ContractInfo)
   contract name and version which initialized or last migrated the storage
*/
