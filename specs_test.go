package commitment

import (
	"errors"
	"testing"

	ics23 "github.com/cosmos/ics23/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecs(t *testing.T) {
	tests := []struct {
		profile Profile
		names   []string
	}{
		{ProfileSDK, []string{"iavl", "tendermint"}},
		{ProfileTendermint, []string{"tendermint", "tendermint"}},
		{ProfileSMT, []string{"smt", "tendermint"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.profile), func(t *testing.T) {
			specs, err := Specs(tt.profile)
			require.NoError(t, err)
			names := make([]string, len(specs))
			for i, s := range specs {
				names[i] = SpecName(s)
			}
			assert.Equal(t, tt.names, names)
		})
	}

	_, err := Specs("unknown")
	assert.True(t, errors.Is(err, ErrUnknownProfile))
}

func TestSpecs_ReturnsCopy(t *testing.T) {
	specs := GetSDKSpecs()
	specs[0] = nil
	again := GetSDKSpecs()
	assert.Equal(t, ics23.IavlSpec, again[0])
}

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile("smt-tendermint")
	require.NoError(t, err)
	assert.Equal(t, ProfileSMT, p)

	_, err = ParseProfile("")
	assert.True(t, errors.Is(err, ErrUnknownProfile))
}

func TestProfiles(t *testing.T) {
	assert.Equal(t, []Profile{ProfileSDK, ProfileSMT, ProfileTendermint}, Profiles())
}

func TestSpecName(t *testing.T) {
	assert.Equal(t, "empty", SpecName(nil))
	assert.Equal(t, "empty", SpecName(&ics23.ProofSpec{LeafSpec: ics23.IavlSpec.LeafSpec}))
	assert.Equal(t, "iavl", SpecName(ics23.IavlSpec))
	assert.Equal(t, "tendermint", SpecName(ics23.TendermintSpec))
	assert.Equal(t, "smt", SpecName(ics23.SmtSpec))

	copySpec := func(spec *ics23.ProofSpec) *ics23.ProofSpec {
		leaf, inner := *spec.LeafSpec, *spec.InnerSpec
		inner.ChildOrder = append([]int32(nil), inner.ChildOrder...)
		out := *spec
		out.LeafSpec, out.InnerSpec = &leaf, &inner
		return &out
	}
	require.Equal(t, "tendermint", SpecName(copySpec(ics23.TendermintSpec)))

	tests := []struct {
		name   string
		base   *ics23.ProofSpec
		mutate func(spec *ics23.ProofSpec)
	}{
		{"max depth", ics23.TendermintSpec, func(s *ics23.ProofSpec) { s.MaxDepth = 7 }},
		{"min depth", ics23.IavlSpec, func(s *ics23.ProofSpec) { s.MinDepth = 3 }},
		{"leaf prefix", ics23.TendermintSpec, func(s *ics23.ProofSpec) { s.LeafSpec.Prefix = []byte{0x01} }},
		{"empty child", ics23.SmtSpec, func(s *ics23.ProofSpec) { s.InnerSpec.EmptyChild = nil }},
		{"prehash key before comparison", ics23.SmtSpec, func(s *ics23.ProofSpec) { s.PrehashKeyBeforeComparison = false }},
		{"child order", ics23.TendermintSpec, func(s *ics23.ProofSpec) { s.InnerSpec.ChildOrder = []int32{1, 0} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := copySpec(tt.base)
			tt.mutate(spec)
			assert.Equal(t, "custom", SpecName(spec))
		})
	}
}

func TestSDKProfile_TendermintChainFailsUnderIavlSpec(t *testing.T) {
	c := newChain(t, "storeKey", "itemA", "bytes123")
	err := VerifyMembership(c.prove(t, "itemA"), GetSDKSpecs(), c.root(), c.path("itemA"), []byte("bytes123"))
	require.Error(t, err)
	assert.Equal(t, KindCrypto, KindOf(err))
}
