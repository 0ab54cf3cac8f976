package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yndnr/famcheck-go/internal/telemetry/logger"
)

// Key namespaces. Plain and secure entries never share a prefix.
const (
	plainPrefix  = "plain/"
	securePrefix = "secure/"
)

// ErrEmptyKey is returned when a caller passes an empty entry key.
var ErrEmptyKey = errors.New("storage: empty key")

// Store is the typed storage facade.
//
// Plain values are JSON encoded; secure values are strings sealed with the
// Store's Sealer. Reads never fail: a missing, undecodable or tampered
// entry reads as absent. Writes and deletes return their error after
// logging it.
type Store struct {
	kv     KVEngine
	sealer *Sealer
	logger logger.Logger
	owned  *BadgerEngine
}

// NewStore creates a Store over kv. A nil log discards diagnostics.
func NewStore(kv KVEngine, sealer *Sealer, log logger.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{
		kv:     kv,
		sealer: sealer,
		logger: log.With("component", "storage"),
	}
}

// Save stores value under key in the plain namespace.
func (s *Store) Save(ctx context.Context, key string, value any) error {
	if key == "" {
		return ErrEmptyKey
	}

	data, err := json.Marshal(value)
	if err != nil {
		err = fmt.Errorf("encode %q: %w", key, err)
		s.logger.Error("save failed", "key", key, "error", err)
		return err
	}

	if err := s.kv.Set(ctx, plainKey(key), data); err != nil {
		err = fmt.Errorf("save %q: %w", key, err)
		s.logger.Error("save failed", "key", key, "error", err)
		return err
	}
	return nil
}

// Get decodes the plain value stored under key into out, which must be a
// pointer. It reports false if the entry is missing or cannot be decoded
// into out's type.
func (s *Store) Get(ctx context.Context, key string, out any) bool {
	if key == "" {
		return false
	}

	data, err := s.kv.Get(ctx, plainKey(key))
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("read failed", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("stored value does not decode", "key", key, "error", err)
		return false
	}
	return true
}

// Delete removes key from the plain namespace. Missing keys are ignored.
func (s *Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.kv.Delete(ctx, plainKey(key)); err != nil {
		err = fmt.Errorf("delete %q: %w", key, err)
		s.logger.Error("delete failed", "key", key, "error", err)
		return err
	}
	return nil
}

// SaveSecure seals value and stores it under key in the secure namespace.
func (s *Store) SaveSecure(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	sk := secureKey(key)
	sealed, err := s.sealer.Seal([]byte(value), sk)
	if err != nil {
		err = fmt.Errorf("seal %q: %w", key, err)
		s.logger.Error("secure save failed", "key", key, "error", err)
		return err
	}

	if err := s.kv.Set(ctx, sk, sealed); err != nil {
		err = fmt.Errorf("secure save %q: %w", key, err)
		s.logger.Error("secure save failed", "key", key, "error", err)
		return err
	}
	return nil
}

// GetSecure returns the secure value stored under key.
func (s *Store) GetSecure(ctx context.Context, key string) (string, bool) {
	if key == "" {
		return "", false
	}

	sk := secureKey(key)
	sealed, err := s.kv.Get(ctx, sk)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("secure read failed", "key", key, "error", err)
		}
		return "", false
	}

	plain, err := s.sealer.Open(sealed, sk)
	if err != nil {
		s.logger.Warn("secure value does not open", "key", key, "error", err)
		return "", false
	}
	return string(plain), true
}

// DeleteSecure removes key from the secure namespace.
func (s *Store) DeleteSecure(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.kv.Delete(ctx, secureKey(key)); err != nil {
		err = fmt.Errorf("secure delete %q: %w", key, err)
		s.logger.Error("secure delete failed", "key", key, "error", err)
		return err
	}
	return nil
}

// ClearAllSecure removes every entry of the secure namespace. Plain
// entries are untouched.
func (s *Store) ClearAllSecure(ctx context.Context) error {
	var keys [][]byte
	err := s.kv.Scan(ctx, []byte(securePrefix), func(key, _ []byte) bool {
		keys = append(keys, key)
		return true
	})
	if err != nil {
		err = fmt.Errorf("scan secure entries: %w", err)
		s.logger.Error("secure clear failed", "error", err)
		return err
	}

	var errs []error
	for _, k := range keys {
		if err := s.kv.Delete(ctx, k); err != nil {
			errs = append(errs, fmt.Errorf("secure delete %q: %w", string(k[len(securePrefix):]), err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.Error("secure clear failed", "error", err)
		return err
	}

	s.logger.Debug("secure entries cleared", "count", len(keys))
	return nil
}

func plainKey(key string) []byte {
	return []byte(plainPrefix + key)
}

func secureKey(key string) []byte {
	return []byte(securePrefix + key)
}
