package commitment

import (
	"testing"

	ics23 "github.com/cosmos/ics23/go"
	"github.com/stretchr/testify/require"

	"github.com/icon-project/IBC-Integration-sub002/internal/simpletree"
)

// twoLayerSpecs are the specs of the trees built by newChain.
var twoLayerSpecs = []*ics23.ProofSpec{ics23.TendermintSpec, ics23.TendermintSpec}

// chain is an application store committed to by a multistore under storeKey.
type chain struct {
	store    *simpletree.Tree
	top      *simpletree.Tree
	storeKey []byte
}

func newChain(t *testing.T, storeKey string, kvs ...string) *chain {
	t.Helper()
	require.True(t, len(kvs)%2 == 0, "invalid test setup: odd number of key/values")
	c := &chain{
		store:    simpletree.New(),
		top:      simpletree.New(),
		storeKey: []byte(storeKey),
	}
	for i := 0; i < len(kvs); i += 2 {
		require.NoError(t, c.store.Set([]byte(kvs[i]), []byte(kvs[i+1])))
	}
	for _, other := range []string{"acc", "bank", "staking", "upgrade"} {
		require.NoError(t, c.top.Set([]byte(other), []byte("root of "+other)))
	}
	require.NoError(t, c.top.Set(c.storeKey, c.store.Root()))
	return c
}

func (c *chain) root() MerkleRoot {
	return NewMerkleRoot(c.top.Root())
}

func (c *chain) path(key string) MerklePath {
	return NewMerklePath(c.storeKey, []byte(key))
}

// prove returns the proof of key in the store (existence or non-existence)
// followed by the existence proof of the store root.
func (c *chain) prove(t *testing.T, key string) MerkleProof {
	t.Helper()
	inner, err := c.store.Prove([]byte(key))
	require.NoError(t, err)
	outer, err := c.top.Prove(c.storeKey)
	require.NoError(t, err)
	return NewMerkleProof(inner, outer)
}

// cloneProof deep copies a proof through its wire encoding.
func cloneProof(t *testing.T, proof MerkleProof) MerkleProof {
	t.Helper()
	bz, err := proof.Marshal()
	require.NoError(t, err)
	clone, err := UnmarshalMerkleProof(bz)
	require.NoError(t, err)
	return clone
}

func flipByte(b []byte, i int) []byte {
	out := append([]byte(nil), b...)
	out[i%len(out)] ^= 0x01
	return out
}

func existProof(p *ics23.ExistenceProof) *ics23.CommitmentProof {
	return &ics23.CommitmentProof{Proof: &ics23.CommitmentProof_Exist{Exist: p}}
}

func nonExistProof(p *ics23.NonExistenceProof) *ics23.CommitmentProof {
	return &ics23.CommitmentProof{Proof: &ics23.CommitmentProof_Nonexist{Nonexist: p}}
}

func batchProof(p *ics23.ExistenceProof) *ics23.CommitmentProof {
	return &ics23.CommitmentProof{Proof: &ics23.CommitmentProof_Batch{Batch: &ics23.BatchProof{
		Entries: []*ics23.BatchEntry{{Proof: &ics23.BatchEntry_Exist{Exist: p}}},
	}}}
}

func compressedProof(key []byte) *ics23.CommitmentProof {
	return &ics23.CommitmentProof{Proof: &ics23.CommitmentProof_Compressed{Compressed: &ics23.CompressedBatchProof{
		Entries: []*ics23.CompressedBatchEntry{{Proof: &ics23.CompressedBatchEntry_Exist{
			Exist: &ics23.CompressedExistenceProof{Key: key, Value: []byte("value"), Leaf: simpletree.LeafOp()},
		}}},
	}}}
}

// countingLayer records every call made to the single-layer primitive.
type countingLayer struct {
	LayerVerifier
	roots      int
	members    int
	nonMembers int
	keys       [][]byte
}

func newCountingLayer() *countingLayer {
	return &countingLayer{LayerVerifier: ICS23Layer()}
}

func (c *countingLayer) calls() int {
	return c.roots + c.members + c.nonMembers
}

func (c *countingLayer) Root(proof *ics23.CommitmentProof) ([]byte, error) {
	c.roots++
	return c.LayerVerifier.Root(proof)
}

func (c *countingLayer) VerifyMembership(spec *ics23.ProofSpec, root []byte, proof *ics23.CommitmentProof, key, value []byte) bool {
	c.members++
	c.keys = append(c.keys, key)
	return c.LayerVerifier.VerifyMembership(spec, root, proof, key, value)
}

func (c *countingLayer) VerifyNonMembership(spec *ics23.ProofSpec, root []byte, proof *ics23.CommitmentProof, key []byte) bool {
	c.nonMembers++
	c.keys = append(c.keys, key)
	return c.LayerVerifier.VerifyNonMembership(spec, root, proof, key)
}
