package commitment

import (
	"encoding/hex"
	"fmt"
	"strings"

	ics23 "github.com/cosmos/ics23/go"
)

// MerkleRoot is the trusted commitment a proof chain must reduce to.
type MerkleRoot struct {
	Hash []byte
}

// NewMerkleRoot wraps a root hash.
func NewMerkleRoot(hash []byte) MerkleRoot {
	return MerkleRoot{Hash: hash}
}

// Empty returns true if the root has no hash.
func (r MerkleRoot) Empty() bool {
	return len(r.Hash) == 0
}

// MerklePrefix is the store key a counterparty commits its state under.
type MerklePrefix struct {
	KeyPrefix []byte
}

// NewMerklePrefix wraps a store key.
func NewMerklePrefix(keyPrefix []byte) MerklePrefix {
	return MerklePrefix{KeyPrefix: keyPrefix}
}

// Empty returns true if the prefix has no key.
func (p MerklePrefix) Empty() bool {
	return len(p.KeyPrefix) == 0
}

// MerklePath holds one hex encoded key per layer, ordered from the highest
// (outermost) layer to the lowest. This is the reverse of the order of the
// proofs in a MerkleProof.
type MerklePath struct {
	KeyPath []string
}

// NewMerklePath hex encodes the given raw keys, outermost layer first.
func NewMerklePath(keys ...[]byte) MerklePath {
	keyPath := make([]string, len(keys))
	for i, k := range keys {
		keyPath[i] = hex.EncodeToString(k)
	}
	return MerklePath{KeyPath: keyPath}
}

// ApplyPrefix builds the path of a key stored under prefix.
func ApplyPrefix(prefix MerklePrefix, path ...[]byte) (MerklePath, error) {
	if prefix.Empty() {
		return MerklePath{}, newError(ErrEmptyPrefix, -1, "")
	}
	return NewMerklePath(append([][]byte{prefix.KeyPrefix}, path...)...), nil
}

// GetKey returns the raw key at index i, counted from the highest layer.
// The proof at layer j of a MerkleProof is checked against GetKey(len-1-j).
func (mp MerklePath) GetKey(i uint64) ([]byte, error) {
	if i >= uint64(len(mp.KeyPath)) {
		return nil, newError(ErrKeyIndexOutOfRange, -1, "index %d, path length %d", i, len(mp.KeyPath))
	}
	key, err := hex.DecodeString(mp.KeyPath[i])
	if err != nil {
		return nil, newError(ErrInvalidKeyEncoding, -1, "key %q at index %d: %v", mp.KeyPath[i], i, err)
	}
	return key, nil
}

// Empty returns true if the path has no keys.
func (mp MerklePath) Empty() bool {
	return len(mp.KeyPath) == 0
}

// String returns the decoded keys joined by "/". Keys that are not valid hex
// are printed as they are.
func (mp MerklePath) String() string {
	parts := make([]string, len(mp.KeyPath))
	for i, k := range mp.KeyPath {
		raw, err := hex.DecodeString(k)
		if err != nil {
			parts[i] = k
			continue
		}
		parts[i] = string(raw)
	}
	return "/" + strings.Join(parts, "/")
}

// MerkleProof is a chain of single-layer proofs, lowest (innermost) layer
// first.
type MerkleProof struct {
	Proofs []*ics23.CommitmentProof
}

// NewMerkleProof builds a proof chain, lowest layer first.
func NewMerkleProof(proofs ...*ics23.CommitmentProof) MerkleProof {
	return MerkleProof{Proofs: proofs}
}

// Empty returns true if the proof has no layers.
func (proof MerkleProof) Empty() bool {
	return len(proof.Proofs) == 0
}

// String returns a short description of the proof variant of every layer.
func (proof MerkleProof) String() string {
	kinds := make([]string, len(proof.Proofs))
	for i, p := range proof.Proofs {
		kinds[i] = proofKind(p)
	}
	return fmt.Sprintf("MerkleProof%v", kinds)
}
