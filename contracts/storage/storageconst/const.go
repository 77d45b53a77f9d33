package storageconst

const (
	// ContractName is the name the Storage contract records into its
	// contract info on deploy.
	ContractName = "storage-contract"

	// ErrHexDecoding is returned if the saved payload is not a valid hex string.
	ErrHexDecoding = "hex decoding error"

	// ErrDataAlreadyExists is returned on attempt to save a payload which
	// digest is already stored.
	ErrDataAlreadyExists = "data already exists"

	// NotFoundError is returned if there is no data with the requested hash.
	NotFoundError = "data not found"

	// ErrRecordExists is returned on attempt to overwrite a stored record.
	ErrRecordExists = "record already exists"

	// ErrInvalidBTCTip is returned if the oracle reports BTC tip with
	// negative height or time.
	ErrInvalidBTCTip = "invalid BTC tip"

	// ErrInvalidOracle is returned on deploy if the oracle contract hash is
	// missing or malformed.
	ErrInvalidOracle = "incorrect length of oracle contract script hash"
)
