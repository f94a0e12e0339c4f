package commitment

import (
	ics23 "github.com/cosmos/ics23/go"
)

// LayerVerifier checks a single layer of a proof chain. The chained verifier
// never hashes by itself; everything below goes through this interface.
type LayerVerifier interface {
	// Root computes the root implied by the proof's leaf and inner nodes,
	// independent of any externally supplied value.
	Root(proof *ics23.CommitmentProof) ([]byte, error)
	// VerifyMembership returns true if proof commits key to value under root.
	VerifyMembership(spec *ics23.ProofSpec, root []byte, proof *ics23.CommitmentProof, key, value []byte) bool
	// VerifyNonMembership returns true if proof shows key is absent under root.
	VerifyNonMembership(spec *ics23.ProofSpec, root []byte, proof *ics23.CommitmentProof, key []byte) bool
}

var _ LayerVerifier = ics23Layer{}

// ics23Layer delegates to github.com/cosmos/ics23/go.
type ics23Layer struct{}

// ICS23Layer returns the LayerVerifier used by default.
func ICS23Layer() LayerVerifier {
	return ics23Layer{}
}

func (ics23Layer) Root(proof *ics23.CommitmentProof) ([]byte, error) {
	return proof.Calculate()
}

func (ics23Layer) VerifyMembership(spec *ics23.ProofSpec, root []byte, proof *ics23.CommitmentProof, key, value []byte) bool {
	return ics23.VerifyMembership(spec, root, proof, key, value)
}

func (ics23Layer) VerifyNonMembership(spec *ics23.ProofSpec, root []byte, proof *ics23.CommitmentProof, key []byte) bool {
	return ics23.VerifyNonMembership(spec, root, proof, key)
}
