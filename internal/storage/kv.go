package storage

import (
	"context"
	"errors"
	"time"
)

// Engine errors.
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrClosed      = errors.New("kv engine closed")
)

// KVEngine defines the interface for embedded key-value storage.
//
// Implementations must be safe for concurrent use. Keys are opaque byte
// strings; callers partition them with prefixes (see Store).
type KVEngine interface {
	// Get retrieves a value by key.
	// Returns ErrKeyNotFound if key doesn't exist.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set stores a key-value pair, replacing any previous value.
	Set(ctx context.Context, key, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key []byte) error

	// Scan iterates over keys with a given prefix.
	// Callback returns false to stop iteration.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error

	// Close gracefully shuts down the engine.
	Close() error
}

// KVStats contains storage engine statistics.
type KVStats struct {
	// LSMSize is the LSM tree size in bytes.
	LSMSize uint64

	// ValueLogSize is the value log size in bytes.
	ValueLogSize uint64

	// LastGCTime is the last GC run timestamp (Unix milliseconds).
	LastGCTime int64
}

// TotalSize is the total disk usage in bytes.
func (s KVStats) TotalSize() uint64 {
	return s.LSMSize + s.ValueLogSize
}

// KVConfig configures the embedded KV engine.
type KVConfig struct {
	// Dir is the storage directory. Ignored when InMemory is set.
	Dir string

	// InMemory keeps all data in memory; nothing survives Close.
	InMemory bool

	// GCInterval is the interval between automatic value log GC runs.
	// Zero disables the background loop.
	GCInterval time.Duration

	// GCThreshold is the discard ratio passed to value log GC (0.0-1.0).
	GCThreshold float64

	// SyncWrites fsyncs after each write.
	SyncWrites bool
}

// DefaultKVConfig returns the default KV configuration for dir.
//
// Session data is tiny and written rarely, so writes are synced and GC
// runs infrequently.
func DefaultKVConfig(dir string) KVConfig {
	return KVConfig{
		Dir:         dir,
		GCInterval:  30 * time.Minute,
		GCThreshold: 0.5,
		SyncWrites:  true,
	}
}

// InMemoryKVConfig returns a configuration for an ephemeral engine.
func InMemoryKVConfig() KVConfig {
	return KVConfig{InMemory: true}
}
