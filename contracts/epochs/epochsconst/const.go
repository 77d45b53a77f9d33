package epochsconst

const (
	// ContractName is the name the Epochs contract records into its
	// contract info on deploy.
	ContractName = "epochs-contract"

	// ErrNoEpoch is returned if no epoch has been set yet.
	ErrNoEpoch = "epoch is not initialized"

	// ErrNoBTCTip is returned if no BTC tip has been relayed yet.
	ErrNoBTCTip = "BTC tip is not available"

	// ErrNoFinalizedEpoch is returned if no epoch has been finalized yet.
	ErrNoFinalizedEpoch = "no finalized epoch"

	// ErrInvalidEpoch is returned on attempt to move the current epoch
	// backwards or finalize an epoch out of order.
	ErrInvalidEpoch = "invalid epoch"

	// ErrInvalidBTCTip is returned on attempt to relay a malformed BTC tip
	// or to move it backwards.
	ErrInvalidBTCTip = "invalid BTC tip"
)
