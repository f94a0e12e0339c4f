package commitment

import (
	ics23 "github.com/cosmos/ics23/go"
)

// IsEmptyExistenceProof returns true if p is nil or none of its fields are set.
func IsEmptyExistenceProof(p *ics23.ExistenceProof) bool {
	return p == nil ||
		(len(p.Key) == 0 && len(p.Value) == 0 && p.Leaf == nil && len(p.Path) == 0)
}

// IsEmptyNonExistenceProof returns true if p is nil or carries neither a key
// nor a neighbor.
func IsEmptyNonExistenceProof(p *ics23.NonExistenceProof) bool {
	return p == nil ||
		(len(p.Key) == 0 && IsEmptyExistenceProof(p.Left) && IsEmptyExistenceProof(p.Right))
}

// IsEmptyBatchProof returns true if p is nil or has no entries.
func IsEmptyBatchProof(p *ics23.BatchProof) bool {
	return p == nil || len(p.Entries) == 0
}

// IsEmptyCompressedBatchProof returns true if p is nil or has no entries.
func IsEmptyCompressedBatchProof(p *ics23.CompressedBatchProof) bool {
	return p == nil || len(p.Entries) == 0
}

// IsEmptyCommitmentProof returns true if no variant of p is populated.
// A oneof wrapper holding an empty proof counts as empty.
func IsEmptyCommitmentProof(p *ics23.CommitmentProof) bool {
	return proofKind(p) == proofKindEmpty
}

// IsEmptyProofSpec returns true if spec is nil or lacks a leaf or inner spec.
func IsEmptyProofSpec(spec *ics23.ProofSpec) bool {
	return spec == nil || spec.LeafSpec == nil || spec.InnerSpec == nil
}

// isWellFormedExistenceProof returns true if p has a leaf op and no nil inner
// op, the structure ics23 dereferences without checking.
func isWellFormedExistenceProof(p *ics23.ExistenceProof) bool {
	if p == nil || p.Leaf == nil {
		return false
	}
	for _, op := range p.Path {
		if op == nil {
			return false
		}
	}
	return true
}

// isWellFormedNonExistenceProof returns true if every neighbor p carries is
// well formed. Missing neighbors are allowed.
func isWellFormedNonExistenceProof(p *ics23.NonExistenceProof) bool {
	if p == nil {
		return false
	}
	for _, n := range []*ics23.ExistenceProof{p.Left, p.Right} {
		if n != nil && !isWellFormedExistenceProof(n) {
			return false
		}
	}
	return true
}

const (
	proofKindEmpty        = "empty"
	proofKindExistence    = "existence"
	proofKindNonExistence = "non-existence"
	proofKindBatch        = "batch"
	proofKindCompressed   = "compressed"
)

// proofKind names the populated variant of p.
func proofKind(p *ics23.CommitmentProof) string {
	if p == nil {
		return proofKindEmpty
	}
	switch v := p.Proof.(type) {
	case *ics23.CommitmentProof_Exist:
		if v != nil && !IsEmptyExistenceProof(v.Exist) {
			return proofKindExistence
		}
	case *ics23.CommitmentProof_Nonexist:
		if v != nil && !IsEmptyNonExistenceProof(v.Nonexist) {
			return proofKindNonExistence
		}
	case *ics23.CommitmentProof_Batch:
		if v != nil && !IsEmptyBatchProof(v.Batch) {
			return proofKindBatch
		}
	case *ics23.CommitmentProof_Compressed:
		if v != nil && !IsEmptyCompressedBatchProof(v.Compressed) {
			return proofKindCompressed
		}
	}
	return proofKindEmpty
}
