package commitment

import (
	"bytes"

	ics23 "github.com/cosmos/ics23/go"
)

// Options configures a Verifier.
type Options struct {
	Layer LayerVerifier
}

// Option sets one field of Options.
type Option func(*Options)

// WithLayerVerifier replaces the single-layer primitive (defaults to ics23).
func WithLayerVerifier(l LayerVerifier) Option {
	if l == nil {
		panic("Got nil LayerVerifier.")
	}
	return func(opts *Options) {
		opts.Layer = l
	}
}

// Verifier checks chained membership and non-membership proofs. It holds no
// state between calls and is safe for concurrent use. The zero value uses
// the ics23 primitive.
type Verifier struct {
	layer LayerVerifier
}

func (v *Verifier) layerVerifier() LayerVerifier {
	if v == nil || v.layer == nil {
		return ics23Layer{}
	}
	return v.layer
}

// NewVerifier returns a Verifier configured by setters.
func NewVerifier(setters ...Option) *Verifier {
	opts := &Options{
		Layer: ICS23Layer(),
	}
	for _, setter := range setters {
		setter(opts)
	}
	return &Verifier{layer: opts.Layer}
}

var defaultVerifier = NewVerifier()

// VerifyMembership verifies that proof commits path to value under root
// using the ics23 single-layer primitive.
func VerifyMembership(proof MerkleProof, specs []*ics23.ProofSpec, root MerkleRoot, path MerklePath, value []byte) error {
	return defaultVerifier.VerifyMembership(proof, specs, root, path, value)
}

// VerifyNonMembership verifies that proof shows path to be absent under root
// using the ics23 single-layer primitive.
func VerifyNonMembership(proof MerkleProof, specs []*ics23.ProofSpec, root MerkleRoot, path MerklePath) error {
	return defaultVerifier.VerifyNonMembership(proof, specs, root, path)
}

// VerifyMembership verifies that proof commits path to value under root.
// specs must hold one spec per proof layer in the same order as the proofs.
func (v *Verifier) VerifyMembership(proof MerkleProof, specs []*ics23.ProofSpec, root MerkleRoot, path MerklePath, value []byte) error {
	if err := validateVerificationArgs(proof, specs, root); err != nil {
		return err
	}
	if len(path.KeyPath) != len(specs) {
		return newError(ErrLengthMismatch, -1, "path length %d not same as proof %d", len(path.KeyPath), len(specs))
	}
	if len(value) == 0 {
		return newError(ErrEmptyValue, -1, "")
	}
	// every layer is an existence proof, so the chain starts at index 0
	return v.verifyChainedMembershipProof(root.Hash, specs, proof.Proofs, path, value, 0)
}

// VerifyNonMembership verifies that proof shows path to be absent under root.
// The lowest layer must be a non-existence proof, all layers above it
// existence proofs of the subroots.
func (v *Verifier) VerifyNonMembership(proof MerkleProof, specs []*ics23.ProofSpec, root MerkleRoot, path MerklePath) error {
	if err := validateVerificationArgs(proof, specs, root); err != nil {
		return err
	}
	if len(path.KeyPath) != len(specs) {
		return newError(ErrLengthMismatch, -1, "path length %d not same as proof %d", len(path.KeyPath), len(specs))
	}

	layer := v.layerVerifier()
	first := proof.Proofs[0]
	switch proofKind(first) {
	case proofKindNonExistence:
		if !isWellFormedNonExistenceProof(first.GetNonexist()) {
			return newError(ErrMalformedProof, 0, "non-existence proof at index 0 has a neighbor without leaf or with a nil inner op")
		}
		subroot, err := layer.Root(first)
		if err != nil {
			return newError(ErrLayerVerification, 0, "could not calculate root for proof index 0, merkle tree is likely empty: %v", err)
		}
		key, err := path.GetKey(uint64(len(path.KeyPath) - 1))
		if err != nil {
			return err
		}
		if ok := layer.VerifyNonMembership(specs[0], subroot, first, key); !ok {
			return newError(ErrLayerVerification, 0, "could not verify absence of key %s", path)
		}
		// the subroot is proven as a value at the remaining layers
		return v.verifyChainedMembershipProof(root.Hash, specs, proof.Proofs, path, subroot, 1)
	case proofKindExistence:
		return newError(ErrExistenceForNonMembership, 0,
			"if this is unexpected, please ensure that proof was queried with the correct key %s", path)
	default:
		return newError(ErrUnexpectedProofType, 0, "expected %s proof at index 0, got %s", proofKindNonExistence, proofKind(first))
	}
}

// verifyChainedMembershipProof proves value at layer index and feeds every
// computed subroot into the next layer until the last one is compared to root.
func (v *Verifier) verifyChainedMembershipProof(
	root []byte,
	specs []*ics23.ProofSpec,
	proofs []*ics23.CommitmentProof,
	keys MerklePath,
	value []byte,
	index int,
) error {
	layer := v.layerVerifier()
	subroot := value
	for i := index; i < len(proofs); i++ {
		switch kind := proofKind(proofs[i]); kind {
		case proofKindExistence:
			if !isWellFormedExistenceProof(proofs[i].GetExist()) {
				return newError(ErrMalformedProof, i, "existence proof at index %d has no leaf or a nil inner op", i)
			}
			var err error
			subroot, err = layer.Root(proofs[i])
			if err != nil {
				return newError(ErrLayerVerification, i, "could not calculate proof root at index %d, merkle tree may be empty: %v", i, err)
			}
			key, err := keys.GetKey(uint64(len(keys.KeyPath) - 1 - i))
			if err != nil {
				return err
			}
			if ok := layer.VerifyMembership(specs[i], subroot, proofs[i], key, value); !ok {
				return newError(ErrLayerVerification, i,
					"failed to verify membership of value %x in subroot %x at index %d, key %x", value, subroot, i, key)
			}
			value = subroot
		case proofKindNonExistence:
			return newError(ErrNonExistenceInChain, i,
				"found at index %d; ensure the proof was queried at a height that contains key %s", i, keys)
		default:
			return newError(ErrUnexpectedProofType, i, "expected %s proof at index %d, got %s", proofKindExistence, i, kind)
		}
	}

	if !bytes.Equal(root, subroot) {
		err := newError(ErrRootMismatch, len(proofs)-1, "expected %x, got %x", root, subroot)
		err.Expected = root
		err.Computed = subroot
		return err
	}
	return nil
}

// validateVerificationArgs checks the shape of a verification request before
// any layer is hashed.
func validateVerificationArgs(proof MerkleProof, specs []*ics23.ProofSpec, root MerkleRoot) error {
	if proof.Empty() {
		return newError(ErrEmptyProof, -1, "")
	}
	if root.Empty() {
		return newError(ErrEmptyRoot, -1, "")
	}
	if len(specs) != len(proof.Proofs) {
		return newError(ErrLengthMismatch, -1, "length of specs: %d not equal to length of proof: %d", len(specs), len(proof.Proofs))
	}
	for i, spec := range specs {
		if IsEmptyProofSpec(spec) {
			return newError(ErrEmptySpec, i, "spec at position %d is empty", i)
		}
	}
	return nil
}
