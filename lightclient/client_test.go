package lightclient

import (
	"encoding/hex"
	"errors"
	"testing"

	ics23 "github.com/cosmos/ics23/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commitment "github.com/icon-project/IBC-Integration-sub002"
	"github.com/icon-project/IBC-Integration-sub002/config"
	"github.com/icon-project/IBC-Integration-sub002/internal/simpletree"
	"github.com/icon-project/IBC-Integration-sub002/storage"
)

var ibcPrefix = commitment.NewMerklePrefix([]byte("ibc"))

// counterparty commits kvs the way a chain of type t would, under ibcPrefix.
type counterparty struct {
	strategy Strategy
	store    *simpletree.Tree
	top      *simpletree.Tree
}

func newCounterparty(t *testing.T, clientType ClientType, kvs ...string) *counterparty {
	t.Helper()
	strategy, err := StrategyFor(clientType)
	require.NoError(t, err)
	cp := &counterparty{strategy: strategy, store: simpletree.New(), top: simpletree.New()}
	for i := 0; i < len(kvs); i += 2 {
		require.NoError(t, cp.store.Set(cp.key(t, []byte(kvs[i])), strategy.Hash([]byte(kvs[i+1]))))
	}
	require.NoError(t, cp.top.Set([]byte("bank"), []byte("bank root")))
	require.NoError(t, cp.top.Set(ibcPrefix.KeyPrefix, cp.store.Root()))
	return cp
}

func (cp *counterparty) key(t *testing.T, path []byte) []byte {
	key, err := hex.DecodeString(cp.strategy.PrefixKey(path))
	require.NoError(t, err)
	return key
}

func (cp *counterparty) root() commitment.MerkleRoot {
	return commitment.NewMerkleRoot(cp.top.Root())
}

func (cp *counterparty) prove(t *testing.T, path string) []byte {
	t.Helper()
	inner, err := cp.store.Prove(cp.key(t, []byte(path)))
	require.NoError(t, err)
	outer, err := cp.top.Prove(ibcPrefix.KeyPrefix)
	require.NoError(t, err)
	bz, err := commitment.NewMerkleProof(inner, outer).Marshal()
	require.NoError(t, err)
	return bz
}

func newTestClient(t *testing.T, clientType ClientType, setters ...Option) *Client {
	t.Helper()
	c, err := New("client-0", clientType, commitment.ProfileTendermint, storage.NewInMemoryRootStore(), setters...)
	require.NoError(t, err)
	return c
}

func TestClient_VerifyMembership(t *testing.T) {
	for _, clientType := range []ClientType{Tendermint, Wasm, Mock} {
		t.Run(clientType.String(), func(t *testing.T) {
			cp := newCounterparty(t, clientType,
				"clients/07-tendermint-0/clientState", "client state",
				"connections/connection-0", "connection end",
				"channelEnds/ports/transfer/channels/channel-0", "channel end",
			)
			c := newTestClient(t, clientType)
			require.NoError(t, c.SetConsensusRoot(5, cp.root()))

			path := "connections/connection-0"
			require.NoError(t, c.VerifyMembership(5, ibcPrefix, []byte(path), []byte("connection end"), cp.prove(t, path)))

			err := c.VerifyMembership(5, ibcPrefix, []byte(path), []byte("other end"), cp.prove(t, path))
			assert.Equal(t, commitment.KindCrypto, commitment.KindOf(err), "got %v", err)

			absent := "connections/connection-1"
			require.NoError(t, c.VerifyNonMembership(5, ibcPrefix, []byte(absent), cp.prove(t, absent)))

			err = c.VerifyNonMembership(5, ibcPrefix, []byte(path), cp.prove(t, path))
			assert.True(t, errors.Is(err, commitment.ErrExistenceForNonMembership), "got %v", err)
		})
	}
}

func TestClient_StrategiesAreNotInterchangeable(t *testing.T) {
	cp := newCounterparty(t, Wasm, "commitments/ports/transfer/channels/channel-0/sequences/1", "packet")
	c := newTestClient(t, Tendermint)
	require.NoError(t, c.SetConsensusRoot(1, cp.root()))

	path := []byte("commitments/ports/transfer/channels/channel-0/sequences/1")
	err := c.VerifyMembership(1, ibcPrefix, path, []byte("packet"), cp.prove(t, string(path)))
	assert.Error(t, err)
}

func TestClient_ConsensusRoot(t *testing.T) {
	c := newTestClient(t, Mock)
	_, err := c.ConsensusRoot(1)
	assert.True(t, errors.Is(err, ErrConsensusRootNotFound))

	assert.True(t, errors.Is(c.SetConsensusRoot(1, commitment.MerkleRoot{}), commitment.ErrEmptyRoot))

	root := commitment.NewMerkleRoot([]byte{1, 2, 3})
	require.NoError(t, c.SetConsensusRoot(1, root))
	got, err := c.ConsensusRoot(1)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	cp := newCounterparty(t, Mock, "a", "b")
	err = c.VerifyMembership(2, ibcPrefix, []byte("a"), []byte("b"), cp.prove(t, "a"))
	assert.True(t, errors.Is(err, ErrConsensusRootNotFound))
}

func TestClient_InvalidInput(t *testing.T) {
	cp := newCounterparty(t, Tendermint, "a", "b")
	c := newTestClient(t, Tendermint)
	require.NoError(t, c.SetConsensusRoot(1, cp.root()))

	err := c.VerifyMembership(1, ibcPrefix, []byte("a"), []byte("b"), []byte{0x0a, 0x05})
	assert.True(t, errors.Is(err, ErrInvalidProofBytes))

	err = c.VerifyMembership(1, commitment.MerklePrefix{}, []byte("a"), []byte("b"), cp.prove(t, "a"))
	assert.True(t, errors.Is(err, commitment.ErrEmptyPrefix))

	err = c.VerifyMembership(1, ibcPrefix, []byte("a"), nil, cp.prove(t, "a"))
	assert.True(t, errors.Is(err, commitment.ErrEmptyValue))

	err = c.VerifyNonMembership(1, ibcPrefix, []byte("z"), nil)
	assert.True(t, errors.Is(err, commitment.ErrEmptyProof))
}

func TestClient_MerklePath(t *testing.T) {
	c := newTestClient(t, Wasm)
	path, err := c.MerklePath(ibcPrefix, []byte("clients/08-wasm-0/clientState"))
	require.NoError(t, err)
	require.Len(t, path.KeyPath, 2)
	assert.Equal(t, hex.EncodeToString([]byte("ibc")), path.KeyPath[0])
	assert.Len(t, path.KeyPath[1], 64)
}

type recordingLayer struct {
	commitment.LayerVerifier
	values [][]byte
}

func (r *recordingLayer) VerifyMembership(spec *ics23.ProofSpec, root []byte, proof *ics23.CommitmentProof, key, value []byte) bool {
	r.values = append(r.values, value)
	return r.LayerVerifier.VerifyMembership(spec, root, proof, key, value)
}

func TestClient_WithVerifier(t *testing.T) {
	layer := &recordingLayer{LayerVerifier: commitment.ICS23Layer()}
	c := newTestClient(t, Tendermint, WithVerifier(commitment.NewVerifier(commitment.WithLayerVerifier(layer))))
	cp := newCounterparty(t, Tendermint, "a", "b")
	require.NoError(t, c.SetConsensusRoot(1, cp.root()))

	require.NoError(t, c.VerifyMembership(1, ibcPrefix, []byte("a"), []byte("b"), cp.prove(t, "a")))
	require.Len(t, layer.values, 2)
	assert.Equal(t, tendermintStrategy{}.Hash([]byte("b")), layer.values[0])

	assert.Panics(t, func() { WithVerifier(nil) })
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("c", ClientType(0), commitment.ProfileSDK, storage.NewInMemoryRootStore())
	assert.True(t, errors.Is(err, ErrUnknownClientType))

	_, err = New("c", Tendermint, "unknown", storage.NewInMemoryRootStore())
	assert.True(t, errors.Is(err, commitment.ErrUnknownProfile))

	_, err = New("c", Tendermint, commitment.ProfileSDK, nil)
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Client.Type = "08-wasm"
	cfg.Client.Profile = string(commitment.ProfileSMT)
	c, err := NewFromConfig(cfg)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, Wasm, c.Type())
	assert.Equal(t, commitment.ProfileSMT, c.Profile())
	assert.Equal(t, "07-tendermint-0", c.ID())

	cfg.Client.Type = "06-solomachine"
	_, err = NewFromConfig(cfg)
	assert.True(t, errors.Is(err, ErrUnknownClientType))
}
