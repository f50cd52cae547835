// File: control/config.go
// License: Apache-2.0

package control

import (
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vortexlb/conduit/api"
)

// Config carries the tunables of the buffer pool and the connectors.
type Config struct {
	// BufferSize is the capacity, in bytes, of every pooled ring buffer.
	BufferSize int `yaml:"buffer_size"`

	// MaxBuffers caps how many rings the arena may materialize.
	MaxBuffers int `yaml:"max_buffers"`

	// ReserveBuffers is the allocation margin: how many buffers must stay
	// available after an allocation whose caller may need a second one in
	// the same transaction.
	ReserveBuffers int `yaml:"reserve_buffers"`

	// IOTimeoutMs is the per-connector I/O timeout in milliseconds. Zero
	// disables expiration.
	IOTimeoutMs uint32 `yaml:"io_timeout_ms"`
}

// Default returns the configuration used when nothing is provided.
func Default() Config {
	return Config{
		BufferSize:     16 * 1024,
		MaxBuffers:     1024,
		ReserveBuffers: 2,
		IOTimeoutMs:    30_000,
	}
}

// Load parses a YAML document over the defaults and validates the result.
func Load(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks internal consistency.
func (c Config) Validate() error {
	if c.BufferSize <= 0 {
		return api.NewError(api.ErrCodeInvalidArgument, "buffer_size must be positive").
			WithContext("buffer_size", c.BufferSize)
	}
	if c.MaxBuffers <= 0 {
		return api.NewError(api.ErrCodeInvalidArgument, "max_buffers must be positive").
			WithContext("max_buffers", c.MaxBuffers)
	}
	if c.ReserveBuffers < 0 || c.ReserveBuffers >= c.MaxBuffers {
		return api.NewError(api.ErrCodeInvalidArgument, "reserve_buffers must fit below max_buffers").
			WithContext("reserve_buffers", c.ReserveBuffers).
			WithContext("max_buffers", c.MaxBuffers)
	}
	return nil
}

// Store is a thread-safe configuration holder with reload listeners.
type Store struct {
	mu        sync.RWMutex
	cfg       Config
	listeners []func(Config)
}

// NewStore initializes a store with cfg.
func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg}
}

// Snapshot returns the current configuration.
func (s *Store) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update validates and installs cfg, then notifies listeners.
func (s *Store) Update(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	listeners := make([]func(Config), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(cfg)
	}
	return nil
}

// OnReload registers a listener invoked after each successful Update.
func (s *Store) OnReload(fn func(Config)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}
