/*
Package commitment verifies chained ICS-23 Merkle proofs.

A claim that a key maps to a value (or is absent) in the state of a remote
chain is proven by a MerkleProof: one ics23.CommitmentProof per storage layer,
ordered from the innermost store to the one committed to by the trusted root.
Each layer's computed root becomes the value proven at the next layer up, and
the last one must equal the MerkleRoot the caller already trusts.

The keys a proof is checked against are carried by a MerklePath, ordered the
other way around: KeyPath[0] addresses the outermost layer. The single-layer
hashing itself is delegated to github.com/cosmos/ics23/go.

Verification is synchronous and stateless. Every failure is returned as an
*Error carrying a Kind so that callers can tell malformed input apart from a
proof that does not commit to the trusted root.
*/
package commitment
