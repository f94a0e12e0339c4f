package lightclient

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

var ErrUnknownClientType = errors.New("unknown client type")

// ClientType selects how a light client commits values and keys before they
// are checked against a counterparty's proof.
type ClientType uint8

const (
	Tendermint ClientType = iota + 1
	Wasm
	Mock
)

var clientTypeNames = map[ClientType]string{
	Tendermint: "07-tendermint",
	Wasm:       "08-wasm",
	Mock:       "mock",
}

func (t ClientType) String() string {
	if name, ok := clientTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ClientType(%d)", uint8(t))
}

// ParseClientType maps a client type name, as used in client identifiers, to
// its ClientType.
func ParseClientType(name string) (ClientType, error) {
	for t, n := range clientTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownClientType, name)
}

// Strategy is the per client type commitment scheme.
type Strategy interface {
	// Hash commits to a value before it is proven.
	Hash(value []byte) []byte
	// PrefixKey maps a store path to the hex encoded key proven at the
	// lowest layer.
	PrefixKey(path []byte) string
}

// StrategyFor returns the strategy of client type t.
func StrategyFor(t ClientType) (Strategy, error) {
	switch t {
	case Tendermint:
		return tendermintStrategy{}, nil
	case Wasm:
		return wasmStrategy{}, nil
	case Mock:
		return mockStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownClientType, t)
	}
}

// tendermintStrategy commits to sha256 of the value under the raw path.
type tendermintStrategy struct{}

func (tendermintStrategy) Hash(value []byte) []byte {
	h := sha256.Sum256(value)
	return h[:]
}

func (tendermintStrategy) PrefixKey(path []byte) string {
	return hex.EncodeToString(path)
}

// wasmStrategy commits to keccak256 of the value under keccak256 of the path,
// as EVM contracts store IBC commitments.
type wasmStrategy struct{}

func (wasmStrategy) Hash(value []byte) []byte {
	return crypto.Keccak256(value)
}

func (wasmStrategy) PrefixKey(path []byte) string {
	return hex.EncodeToString(crypto.Keccak256(path))
}

// mockStrategy proves values and paths unchanged.
type mockStrategy struct{}

func (mockStrategy) Hash(value []byte) []byte {
	return value
}

func (mockStrategy) PrefixKey(path []byte) string {
	return hex.EncodeToString(path)
}
