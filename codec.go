package commitment

import (
	"errors"
	"fmt"

	ics23 "github.com/cosmos/ics23/go"
	"github.com/gogo/protobuf/proto"
)

// ErrMalformedEncoding is returned when decoding truncated or invalid bytes.
var ErrMalformedEncoding = errors.New("malformed protobuf encoding")

// Wire messages of the ibc-go commitment types, encoded by the gogo table
// marshaler from their struct tags:
//
//	message MerkleRoot  { bytes hash = 1; }
//	message MerklePath  { repeated string key_path = 1; }
//	message MerkleProof { repeated ics23.CommitmentProof proofs = 1; }
//
// A repeated message field has the encoding of a repeated bytes field, so
// proofs are kept as raw CommitmentProof encodings and every layer is coded
// by ics23 itself.
type merkleRootWire struct {
	Hash []byte `protobuf:"bytes,1,opt,name=hash,proto3" json:"hash,omitempty"`
}

func (m *merkleRootWire) Reset()         { *m = merkleRootWire{} }
func (m *merkleRootWire) String() string { return proto.CompactTextString(m) }
func (*merkleRootWire) ProtoMessage()    {}

type merklePathWire struct {
	KeyPath []string `protobuf:"bytes,1,rep,name=key_path,json=keyPath,proto3" json:"key_path,omitempty"`
}

func (m *merklePathWire) Reset()         { *m = merklePathWire{} }
func (m *merklePathWire) String() string { return proto.CompactTextString(m) }
func (*merklePathWire) ProtoMessage()    {}

type merkleProofWire struct {
	Proofs [][]byte `protobuf:"bytes,1,rep,name=proofs,proto3" json:"proofs,omitempty"`
}

func (m *merkleProofWire) Reset()         { *m = merkleProofWire{} }
func (m *merkleProofWire) String() string { return proto.CompactTextString(m) }
func (*merkleProofWire) ProtoMessage()    {}

// Marshal encodes the proof in its protobuf wire format. A nil layer is
// encoded as an empty CommitmentProof.
func (proof MerkleProof) Marshal() ([]byte, error) {
	wire := &merkleProofWire{Proofs: make([][]byte, len(proof.Proofs))}
	for i, p := range proof.Proofs {
		if p == nil {
			wire.Proofs[i] = []byte{}
			continue
		}
		bz, err := proto.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("marshal proof at index %d: %w", i, err)
		}
		wire.Proofs[i] = bz
	}
	return proto.Marshal(wire)
}

// UnmarshalMerkleProof decodes a MerkleProof from its protobuf wire format.
func UnmarshalMerkleProof(bz []byte) (MerkleProof, error) {
	var wire merkleProofWire
	if err := proto.Unmarshal(bz, &wire); err != nil {
		return MerkleProof{}, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	var proof MerkleProof
	for i, data := range wire.Proofs {
		p := &ics23.CommitmentProof{}
		if err := proto.Unmarshal(data, p); err != nil {
			return MerkleProof{}, fmt.Errorf("%w: proof at index %d: %v", ErrMalformedEncoding, i, err)
		}
		proof.Proofs = append(proof.Proofs, p)
	}
	return proof, nil
}

// Marshal encodes the path in its protobuf wire format. It fails on keys
// that are not valid UTF-8.
func (mp MerklePath) Marshal() ([]byte, error) {
	return proto.Marshal(&merklePathWire{KeyPath: mp.KeyPath})
}

// UnmarshalMerklePath decodes a MerklePath from its protobuf wire format.
func UnmarshalMerklePath(bz []byte) (MerklePath, error) {
	var wire merklePathWire
	if err := proto.Unmarshal(bz, &wire); err != nil {
		return MerklePath{}, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return MerklePath{KeyPath: wire.KeyPath}, nil
}

// Marshal encodes the root in its protobuf wire format. An empty root
// encodes to nil.
func (r MerkleRoot) Marshal() ([]byte, error) {
	if r.Empty() {
		return nil, nil
	}
	return proto.Marshal(&merkleRootWire{Hash: r.Hash})
}

// UnmarshalMerkleRoot decodes a MerkleRoot from its protobuf wire format.
func UnmarshalMerkleRoot(bz []byte) (MerkleRoot, error) {
	var wire merkleRootWire
	if err := proto.Unmarshal(bz, &wire); err != nil {
		return MerkleRoot{}, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	if len(wire.Hash) == 0 {
		return MerkleRoot{}, nil
	}
	return MerkleRoot{Hash: wire.Hash}, nil
}
