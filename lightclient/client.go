// Package lightclient verifies counterparty state against consensus roots a
// light client has already trusted.
package lightclient

import (
	"encoding/hex"
	"errors"
	"fmt"

	ics23 "github.com/cosmos/ics23/go"
	"go.dedis.ch/onet/v3/log"

	commitment "github.com/icon-project/IBC-Integration-sub002"
	"github.com/icon-project/IBC-Integration-sub002/config"
	"github.com/icon-project/IBC-Integration-sub002/storage"
)

var (
	ErrConsensusRootNotFound = errors.New("consensus root not found")
	ErrInvalidProofBytes     = errors.New("invalid proof bytes")
)

// Options configures a Client.
type Options struct {
	Verifier *commitment.Verifier
}

// Option sets one field of Options.
type Option func(*Options)

// WithVerifier sets the chained verifier, e.g. one with an instrumented
// layer primitive.
func WithVerifier(v *commitment.Verifier) Option {
	if v == nil {
		panic("Got nil Verifier.")
	}
	return func(opts *Options) {
		opts.Verifier = v
	}
}

// Client is a light client of one counterparty chain.
type Client struct {
	id         string
	clientType ClientType
	strategy   Strategy
	profile    commitment.Profile
	specs      []*ics23.ProofSpec
	store      storage.RootStore
	verifier   *commitment.Verifier
}

// New returns the client id of type clientType whose counterparty commits
// under the specs of profile. Trusted roots are kept in store.
func New(id string, clientType ClientType, profile commitment.Profile, store storage.RootStore, setters ...Option) (*Client, error) {
	strategy, err := StrategyFor(clientType)
	if err != nil {
		return nil, err
	}
	specs, err := commitment.Specs(profile)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("root store can not be nil")
	}
	opts := &Options{
		Verifier: commitment.NewVerifier(),
	}
	for _, setter := range setters {
		setter(opts)
	}
	return &Client{
		id:         id,
		clientType: clientType,
		strategy:   strategy,
		profile:    profile,
		specs:      specs,
		store:      store,
		verifier:   opts.Verifier,
	}, nil
}

// NewFromConfig opens the configured root store and builds the configured
// client. Closing the client closes the store.
func NewFromConfig(cfg *config.Config, setters ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clientType, err := ParseClientType(cfg.Client.Type)
	if err != nil {
		return nil, err
	}
	store, err := cfg.OpenStore()
	if err != nil {
		return nil, err
	}
	c, err := New(cfg.Client.ID, clientType, commitment.Profile(cfg.Client.Profile), store, setters...)
	if err != nil {
		//nolint:errcheck
		store.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) Type() ClientType {
	return c.clientType
}

func (c *Client) Profile() commitment.Profile {
	return c.profile
}

// SetConsensusRoot trusts root as the counterparty's commitment at height.
func (c *Client) SetConsensusRoot(height uint64, root commitment.MerkleRoot) error {
	if root.Empty() {
		return commitment.ErrEmptyRoot
	}
	if err := c.store.Put(c.id, height, root.Hash); err != nil {
		return err
	}
	log.Lvlf2("%s: trusted root %x at height %d", c.id, root.Hash, height)
	return nil
}

// ConsensusRoot returns the root trusted at height.
func (c *Client) ConsensusRoot(height uint64) (commitment.MerkleRoot, error) {
	hash, err := c.store.Get(c.id, height)
	if errors.Is(err, storage.ErrRootNotFound) {
		return commitment.MerkleRoot{}, fmt.Errorf("%w: client %s at height %d", ErrConsensusRootNotFound, c.id, height)
	}
	if err != nil {
		return commitment.MerkleRoot{}, err
	}
	return commitment.NewMerkleRoot(hash), nil
}

// MerklePath returns the path of the store path under prefix, with the lowest
// key mapped by the client's strategy.
func (c *Client) MerklePath(prefix commitment.MerklePrefix, path []byte) (commitment.MerklePath, error) {
	if prefix.Empty() {
		return commitment.MerklePath{}, commitment.ErrEmptyPrefix
	}
	return commitment.MerklePath{
		KeyPath: []string{hex.EncodeToString(prefix.KeyPrefix), c.strategy.PrefixKey(path)},
	}, nil
}

// VerifyMembership verifies that the counterparty committed value at path
// under prefix in its state at height. proofBz is an encoded MerkleProof.
func (c *Client) VerifyMembership(height uint64, prefix commitment.MerklePrefix, path, value, proofBz []byte) error {
	root, proof, merklePath, err := c.prepare(height, prefix, path, proofBz)
	if err != nil {
		return err
	}
	if len(value) == 0 {
		return commitment.ErrEmptyValue
	}
	err = c.verifier.VerifyMembership(proof, c.specs, root, merklePath, c.strategy.Hash(value))
	if err != nil {
		log.Lvlf2("%s: membership of %s at height %d rejected (%s): %v", c.id, merklePath, height, commitment.KindOf(err), err)
		return err
	}
	log.Lvlf2("%s: verified membership of %s at height %d", c.id, merklePath, height)
	return nil
}

// VerifyNonMembership verifies that the counterparty committed nothing at
// path under prefix in its state at height.
func (c *Client) VerifyNonMembership(height uint64, prefix commitment.MerklePrefix, path, proofBz []byte) error {
	root, proof, merklePath, err := c.prepare(height, prefix, path, proofBz)
	if err != nil {
		return err
	}
	err = c.verifier.VerifyNonMembership(proof, c.specs, root, merklePath)
	if err != nil {
		log.Lvlf2("%s: non-membership of %s at height %d rejected (%s): %v", c.id, merklePath, height, commitment.KindOf(err), err)
		return err
	}
	log.Lvlf2("%s: verified non-membership of %s at height %d", c.id, merklePath, height)
	return nil
}

func (c *Client) prepare(height uint64, prefix commitment.MerklePrefix, path, proofBz []byte) (
	commitment.MerkleRoot, commitment.MerkleProof, commitment.MerklePath, error) {
	root, err := c.ConsensusRoot(height)
	if err != nil {
		return commitment.MerkleRoot{}, commitment.MerkleProof{}, commitment.MerklePath{}, err
	}
	proof, err := commitment.UnmarshalMerkleProof(proofBz)
	if err != nil {
		return commitment.MerkleRoot{}, commitment.MerkleProof{}, commitment.MerklePath{}, fmt.Errorf("%w: %v", ErrInvalidProofBytes, err)
	}
	merklePath, err := c.MerklePath(prefix, path)
	if err != nil {
		return commitment.MerkleRoot{}, commitment.MerkleProof{}, commitment.MerklePath{}, err
	}
	return root, proof, merklePath, nil
}

func (c *Client) Close() error {
	return c.store.Close()
}
