// Package config reads the TOML deployment configuration of a light client.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	commitment "github.com/icon-project/IBC-Integration-sub002"
	"github.com/icon-project/IBC-Integration-sub002/storage"
)

var (
	ErrMissingClientID = errors.New("client id is required")
	ErrMissingPath     = errors.New("storage path is required for the bolt backend")
	ErrUnknownKeys     = errors.New("unknown configuration keys")
)

type Config struct {
	// Debug is the onet log level, 0 disables debug output.
	Debug   int     `toml:"debug"`
	Client  Client  `toml:"client"`
	Storage Storage `toml:"storage"`
}

type Client struct {
	ID      string `toml:"id"`
	Type    string `toml:"type"`
	Profile string `toml:"profile"`
}

type Storage struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// Default returns the configuration of a tendermint client of a Cosmos SDK
// chain with in-memory roots.
func Default() *Config {
	return &Config{
		Client: Client{
			ID:      "07-tendermint-0",
			Type:    "07-tendermint",
			Profile: string(commitment.DefaultProfile),
		},
		Storage: Storage{
			Backend: storage.BackendMemory,
		},
	}
}

// Load reads and validates the configuration file at path. Keys missing from
// the file keep their Default value.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return finish(cfg, md)
}

// Parse reads and validates a configuration from its TOML text.
func Parse(s string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(s, cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return finish(cfg, md)
}

func finish(cfg *Config, md toml.MetaData) (*Config, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%w: %s", ErrUnknownKeys, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the profile and storage settings. The client type is
// checked when the client is built from the configuration.
func (c *Config) Validate() error {
	if c.Client.ID == "" {
		return ErrMissingClientID
	}
	if _, err := commitment.ParseProfile(c.Client.Profile); err != nil {
		return err
	}
	switch c.Storage.Backend {
	case storage.BackendMemory:
	case storage.BackendBolt:
		if c.Storage.Path == "" {
			return ErrMissingPath
		}
	default:
		return fmt.Errorf("%w: %q", storage.ErrUnknownBackend, c.Storage.Backend)
	}
	return nil
}

// OpenStore opens the root store the configuration names.
func (c *Config) OpenStore() (storage.RootStore, error) {
	return storage.Open(c.Storage.Backend, c.Storage.Path)
}
