package common

var (
	// ErrCommitteeWitnessFailed appears when the method must be
	// called by the Neo committee but was not.
	ErrCommitteeWitnessFailed = "committee witness check failed"
)

// CheckCommitteeWitness checks that the calling transaction is signed by
// the committee multi-signature account. It panics with
// ErrCommitteeWitnessFailed message on fail.
func CheckCommitteeWitness() {
	if !HasUpdateAccess() {
		panic(ErrCommitteeWitnessFailed)
	}
}
