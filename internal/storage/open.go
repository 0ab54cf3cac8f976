package storage

import (
	"fmt"

	"github.com/yndnr/famcheck-go/internal/telemetry/logger"
)

// Options configures Open.
type Options struct {
	KV KVConfig

	// MasterKeyFile holds the secure-store master key. When empty, a random
	// key is used for the lifetime of the process, which only makes sense
	// together with an in-memory engine.
	MasterKeyFile string

	// Cipher selects the AEAD. CipherAuto picks per platform.
	Cipher CipherType
}

// Open creates the Badger engine, loads the master key and returns a Store
// that owns the engine. Call Close when done.
func Open(opts Options, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Discard()
	}

	var (
		key []byte
		err error
	)
	if opts.MasterKeyFile == "" {
		key, err = RandomMasterKey()
	} else {
		key, err = LoadOrCreateMasterKey(opts.MasterKeyFile)
	}
	if err != nil {
		return nil, err
	}

	sealer, err := NewSealer(key, opts.Cipher)
	if err != nil {
		return nil, err
	}

	engine, err := NewBadgerEngine(opts.KV, log.Slog())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	s := NewStore(engine, sealer, log)
	s.owned = engine
	return s, nil
}

// Engine returns the engine opened by Open, or nil for a Store built with
// NewStore.
func (s *Store) Engine() *BadgerEngine {
	return s.owned
}

// Close releases the engine opened by Open. It is a no-op for a Store
// built with NewStore; the caller owns that engine.
func (s *Store) Close() error {
	if s.owned == nil {
		return nil
	}
	return s.owned.Close()
}
