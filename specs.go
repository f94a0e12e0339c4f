package commitment

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	ics23 "github.com/cosmos/ics23/go"
)

// ErrUnknownProfile is returned when configuring an unregistered profile.
var ErrUnknownProfile = errors.New("unknown proof spec profile")

// Profile names a fixed, ordered list of proof specs, one per layer a proof
// traverses, lowest store layer first.
type Profile string

const (
	// ProfileSDK is a Cosmos SDK chain: an IAVL application store committed
	// to by the Tendermint multistore.
	ProfileSDK Profile = "iavl-tendermint"
	// ProfileTendermint is a simple Merkle application store committed to by
	// the Tendermint multistore.
	ProfileTendermint Profile = "tendermint-tendermint"
	// ProfileSMT is a sparse Merkle application store committed to by the
	// Tendermint multistore.
	ProfileSMT Profile = "smt-tendermint"

	DefaultProfile = ProfileSDK
)

var profiles = map[Profile][]*ics23.ProofSpec{
	ProfileSDK:        {ics23.IavlSpec, ics23.TendermintSpec},
	ProfileTendermint: {ics23.TendermintSpec, ics23.TendermintSpec},
	ProfileSMT:        {ics23.SmtSpec, ics23.TendermintSpec},
}

// Specs returns the proof specs of profile p. The returned slice is a copy;
// the specs themselves are shared and must not be modified.
func Specs(p Profile) ([]*ics23.ProofSpec, error) {
	specs, ok := profiles[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, p)
	}
	return append([]*ics23.ProofSpec(nil), specs...), nil
}

// GetSDKSpecs returns the proof specs of a Cosmos SDK chain.
func GetSDKSpecs() []*ics23.ProofSpec {
	specs, _ := Specs(ProfileSDK)
	return specs
}

// ParseProfile validates a profile name.
func ParseProfile(name string) (Profile, error) {
	p := Profile(name)
	if _, ok := profiles[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// Profiles returns all registered profiles in lexical order.
func Profiles() []Profile {
	ps := make([]Profile, 0, len(profiles))
	for p := range profiles {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })
	return ps
}

// SpecName returns a human readable name for one of the well known ics23
// specs, or "custom".
func SpecName(spec *ics23.ProofSpec) string {
	switch {
	case IsEmptyProofSpec(spec):
		return "empty"
	case specMatches(spec, ics23.IavlSpec):
		return "iavl"
	case specMatches(spec, ics23.TendermintSpec):
		return "tendermint"
	case specMatches(spec, ics23.SmtSpec):
		return "smt"
	default:
		return "custom"
	}
}

// specMatches extends SpecEquals, which only checks the hashing layout, with
// the depth bounds, leaf prefix, child order, empty child and key prehashing.
func specMatches(spec, known *ics23.ProofSpec) bool {
	if !spec.SpecEquals(known) {
		return false
	}
	if spec.MaxDepth != known.MaxDepth ||
		spec.MinDepth != known.MinDepth ||
		spec.PrehashKeyBeforeComparison != known.PrehashKeyBeforeComparison {
		return false
	}
	if !bytes.Equal(spec.LeafSpec.Prefix, known.LeafSpec.Prefix) ||
		!bytes.Equal(spec.InnerSpec.EmptyChild, known.InnerSpec.EmptyChild) {
		return false
	}
	for i, c := range spec.InnerSpec.ChildOrder {
		if c != known.InnerSpec.ChildOrder[i] {
			return false
		}
	}
	return true
}
