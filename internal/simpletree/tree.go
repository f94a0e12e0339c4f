// Package simpletree is a Tendermint style simple Merkle tree over sorted
// key/value pairs. It produces ics23 existence and non-existence proofs that
// verify under ics23.TendermintSpec and is used to build honest proof chains.
package simpletree

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/bits"
	"sort"

	ics23 "github.com/cosmos/ics23/go"
	"github.com/gogo/protobuf/proto"
)

const (
	LeafPrefix = 0
	NodePrefix = 1
)

var (
	ErrEmptyTree   = errors.New("tree has no leaves")
	ErrKeyNotFound = errors.New("key not found")
	ErrKeyExists   = errors.New("key exists, absence cannot be proven")
	ErrEmptyKey    = errors.New("key can not be empty")
	ErrEmptyValue  = errors.New("value can not be empty")
)

// LeafOp is the leaf operation of every proof produced by a Tree.
func LeafOp() *ics23.LeafOp {
	return &ics23.LeafOp{
		Hash:         ics23.HashOp_SHA256,
		PrehashKey:   ics23.HashOp_NO_HASH,
		PrehashValue: ics23.HashOp_SHA256,
		Length:       ics23.LengthOp_VAR_PROTO,
		Prefix:       []byte{LeafPrefix},
	}
}

type leaf struct {
	key   []byte
	value []byte
}

// Tree keeps its leaves ordered by key.
type Tree struct {
	leaves []leaf
}

func New() *Tree {
	return &Tree{leaves: make([]leaf, 0, 16)}
}

// Set inserts or replaces the value of key. Both slices are copied.
func (t *Tree) Set(key, value []byte) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}
	if len(value) == 0 {
		return ErrEmptyValue
	}
	value = append([]byte(nil), value...)
	i := t.search(key)
	if i < len(t.leaves) && bytes.Equal(t.leaves[i].key, key) {
		t.leaves[i].value = value
		return nil
	}
	t.leaves = append(t.leaves, leaf{})
	copy(t.leaves[i+1:], t.leaves[i:])
	t.leaves[i] = leaf{key: append([]byte(nil), key...), value: value}
	return nil
}

// Size returns the number of leaves.
func (t *Tree) Size() int {
	return len(t.leaves)
}

// Root returns the root hash, or nil for an empty tree.
func (t *Tree) Root() []byte {
	if len(t.leaves) == 0 {
		return nil
	}
	return t.computeRoot(0, len(t.leaves))
}

// Prove returns an existence proof if key is set and a non-existence proof
// otherwise.
func (t *Tree) Prove(key []byte) (*ics23.CommitmentProof, error) {
	if i := t.search(key); i < len(t.leaves) && bytes.Equal(t.leaves[i].key, key) {
		exist, err := t.ExistenceProof(key)
		if err != nil {
			return nil, err
		}
		return &ics23.CommitmentProof{Proof: &ics23.CommitmentProof_Exist{Exist: exist}}, nil
	}
	nonexist, err := t.NonExistenceProof(key)
	if err != nil {
		return nil, err
	}
	return &ics23.CommitmentProof{Proof: &ics23.CommitmentProof_Nonexist{Nonexist: nonexist}}, nil
}

// ExistenceProof proves that key is set.
func (t *Tree) ExistenceProof(key []byte) (*ics23.ExistenceProof, error) {
	i := t.search(key)
	if i >= len(t.leaves) || !bytes.Equal(t.leaves[i].key, key) {
		return nil, fmt.Errorf("%w: %x", ErrKeyNotFound, key)
	}
	return t.existenceProof(i), nil
}

// NonExistenceProof proves that key is absent by proving its neighbors.
func (t *Tree) NonExistenceProof(key []byte) (*ics23.NonExistenceProof, error) {
	if len(t.leaves) == 0 {
		return nil, ErrEmptyTree
	}
	i := t.search(key)
	if i < len(t.leaves) && bytes.Equal(t.leaves[i].key, key) {
		return nil, fmt.Errorf("%w: %x", ErrKeyExists, key)
	}
	proof := &ics23.NonExistenceProof{Key: key}
	if i > 0 {
		proof.Left = t.existenceProof(i - 1)
	}
	if i < len(t.leaves) {
		proof.Right = t.existenceProof(i)
	}
	return proof, nil
}

// search returns the index of the first leaf whose key is >= key.
func (t *Tree) search(key []byte) int {
	return sort.Search(len(t.leaves), func(i int) bool {
		return bytes.Compare(t.leaves[i].key, key) >= 0
	})
}

func (t *Tree) existenceProof(idx int) *ics23.ExistenceProof {
	return &ics23.ExistenceProof{
		Key:   t.leaves[idx].key,
		Value: t.leaves[idx].value,
		Leaf:  LeafOp(),
		Path:  t.innerOps(0, len(t.leaves), idx),
	}
}

// innerOps returns the path from leaf idx up to the root of the subtree
// spanning [start, end), lowest step first.
func (t *Tree) innerOps(start, end, idx int) []*ics23.InnerOp {
	if end-start == 1 {
		return nil
	}
	k := getSplitPoint(end - start)
	if idx < start+k {
		right := t.computeRoot(start+k, end)
		return append(t.innerOps(start, start+k, idx), &ics23.InnerOp{
			Hash:   ics23.HashOp_SHA256,
			Prefix: []byte{NodePrefix},
			Suffix: right,
		})
	}
	left := t.computeRoot(start, start+k)
	return append(t.innerOps(start+k, end, idx), &ics23.InnerOp{
		Hash:   ics23.HashOp_SHA256,
		Prefix: append([]byte{NodePrefix}, left...),
	})
}

func (t *Tree) computeRoot(start, end int) []byte {
	switch end - start {
	case 1:
		return HashLeaf(t.leaves[start].key, t.leaves[start].value)
	default:
		k := getSplitPoint(end - start)
		left := t.computeRoot(start, start+k)
		right := t.computeRoot(start+k, end)
		return HashNode(left, right)
	}
}

// HashLeaf hashes a leaf to:
// sha256(LeafPrefix || varint(len(key)) || key || varint(32) || sha256(value)).
func HashLeaf(key, value []byte) []byte {
	valueHash := sha256.Sum256(value)
	h := sha256.New()
	//nolint:errcheck
	h.Write([]byte{LeafPrefix})
	//nolint:errcheck
	h.Write(proto.EncodeVarint(uint64(len(key))))
	//nolint:errcheck
	h.Write(key)
	//nolint:errcheck
	h.Write(proto.EncodeVarint(uint64(len(valueHash))))
	//nolint:errcheck
	h.Write(valueHash[:])
	return h.Sum(nil)
}

// HashNode hashes inner nodes to: sha256(NodePrefix || left || right).
func HashNode(l, r []byte) []byte {
	h := sha256.New()
	data := append(append(append(
		make([]byte, 0, 1+len(l)+len(r)),
		NodePrefix),
		l...),
		r...)
	//nolint:errcheck
	h.Write(data)
	return h.Sum(nil)
}

// getSplitPoint returns the largest power of 2 less than length.
func getSplitPoint(length int) int {
	if length < 1 {
		panic("Trying to split a tree with size < 1")
	}
	uLength := uint(length)
	bitlen := bits.Len(uLength)
	k := 1 << uint(bitlen-1)
	if k == length {
		k >>= 1
	}
	return k
}
