package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	commitment "github.com/icon-project/IBC-Integration-sub002"
)

var (
	errInvalidJSON    = errors.New("request is not valid JSON")
	errMissingField   = errors.New("missing request field")
	errInvalidHexData = errors.New("request field is not valid hex")
)

// request is a verification request. All binary fields are hex strings,
// optionally 0x prefixed:
//
//	{
//	  "profile": "iavl-tendermint",
//	  "root":    "<root hash>",
//	  "proof":   "<encoded MerkleProof>",
//	  "path":    ["<store key>", "<key>"],
//	  "value":   "<value>",
//	  "height":  12,
//	  "prefix":  "<store key>",
//	  "key":     "<key>"
//	}
//
// path and root are used for offline verification, height, prefix and key
// for verification against the roots trusted by a light client.
type request struct {
	profile  commitment.Profile
	root     commitment.MerkleRoot
	proofBz  []byte
	path     commitment.MerklePath
	value    []byte
	hasValue bool
	height   uint64
	prefix   commitment.MerklePrefix
	key      []byte
}

func parseRequest(bz []byte) (*request, error) {
	if !gjson.ValidBytes(bz) {
		return nil, errInvalidJSON
	}
	doc := gjson.ParseBytes(bz)
	req := &request{
		profile: commitment.DefaultProfile,
		height:  doc.Get("height").Uint(),
	}
	if p := doc.Get("profile"); p.Exists() {
		profile, err := commitment.ParseProfile(p.String())
		if err != nil {
			return nil, err
		}
		req.profile = profile
	}

	var err error
	if req.proofBz, err = hexField(doc, "proof"); err != nil {
		return nil, err
	}
	if req.proofBz == nil {
		return nil, fmt.Errorf("%w: proof", errMissingField)
	}
	root, err := hexField(doc, "root")
	if err != nil {
		return nil, err
	}
	req.root = commitment.NewMerkleRoot(root)
	if req.value, err = hexField(doc, "value"); err != nil {
		return nil, err
	}
	req.hasValue = doc.Get("value").Exists()
	prefix, err := hexField(doc, "prefix")
	if err != nil {
		return nil, err
	}
	req.prefix = commitment.NewMerklePrefix(prefix)
	if req.key, err = hexField(doc, "key"); err != nil {
		return nil, err
	}

	var keys [][]byte
	for i, elem := range doc.Get("path").Array() {
		k, err := decodeHex(elem.String())
		if err != nil {
			return nil, fmt.Errorf("%w: path[%d]: %v", errInvalidHexData, i, err)
		}
		keys = append(keys, k)
	}
	req.path = commitment.NewMerklePath(keys...)
	return req, nil
}

// proof decodes the proof of the request.
func (r *request) proof() (commitment.MerkleProof, error) {
	return commitment.UnmarshalMerkleProof(r.proofBz)
}

// hexField returns nil if the field is absent.
func hexField(doc gjson.Result, name string) ([]byte, error) {
	res := doc.Get(name)
	if !res.Exists() {
		return nil, nil
	}
	bz, err := decodeHex(res.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errInvalidHexData, name, err)
	}
	return bz, nil
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}
