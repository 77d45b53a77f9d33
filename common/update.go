package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/neo"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// HasUpdateAccess returns true if contract can be updated.
func HasUpdateAccess() bool {
	return runtime.CheckWitness(CommitteeAddress())
}

// CommitteeAddress returns multi address of the Neo committee with
// `M = N/2+1` threshold.
func CommitteeAddress() []byte {
	return Multiaddress(neo.GetCommittee(), true)
}
