package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// CipherType identifies the AEAD algorithm used for secure values.
type CipherType string

const (
	CipherAuto     CipherType = ""
	CipherAESGCM   CipherType = "aes-gcm"
	CipherChaCha20 CipherType = "chacha20-poly1305"
)

// MasterKeySize is the required master key length in bytes.
const MasterKeySize = 32

// secureKeyInfo is the HKDF info string for the secure-store subkey.
const secureKeyInfo = "famcheck secure store v1"

// Cipher errors.
var (
	ErrInvalidMasterKey = errors.New("storage: master key must be 32 bytes")
	ErrCiphertextShort  = errors.New("storage: ciphertext too short")
)

// Sealer provides authenticated encryption of secure values.
type Sealer struct {
	typ  CipherType
	aead cipher.AEAD
}

// NewSealer derives the secure-store subkey from masterKey and builds an
// AEAD of the requested type. CipherAuto picks AES-GCM where the platform
// has hardware AES and ChaCha20-Poly1305 elsewhere.
func NewSealer(masterKey []byte, typ CipherType) (*Sealer, error) {
	if len(masterKey) != MasterKeySize {
		return nil, ErrInvalidMasterKey
	}

	subkey := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, masterKey, nil, []byte(secureKeyInfo)), subkey); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	if typ == CipherAuto {
		typ = preferredCipher()
	}

	var (
		aead cipher.AEAD
		err  error
	)
	switch typ {
	case CipherAESGCM:
		var block cipher.Block
		block, err = aes.NewCipher(subkey)
		if err == nil {
			aead, err = cipher.NewGCM(block)
		}
	case CipherChaCha20:
		aead, err = chacha20poly1305.New(subkey)
	default:
		return nil, fmt.Errorf("unknown cipher type: %q", typ)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s: %w", typ, err)
	}

	return &Sealer{typ: typ, aead: aead}, nil
}

// Type returns the cipher type in use.
func (s *Sealer) Type() CipherType {
	return s.typ
}

// Seal encrypts plaintext bound to additionalData. The random nonce is
// prepended to the returned ciphertext.
func (s *Sealer) Seal(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

// Open decrypts a value produced by Seal with the same additionalData.
func (s *Sealer) Open(ciphertext, additionalData []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(ciphertext) < n+s.aead.Overhead() {
		return nil, ErrCiphertextShort
	}
	return s.aead.Open(nil, ciphertext[:n], ciphertext[n:], additionalData)
}

// preferredCipher returns AES-GCM on architectures where Go's crypto/aes
// uses hardware instructions.
func preferredCipher() CipherType {
	switch runtime.GOARCH {
	case "amd64", "arm64", "s390x", "ppc64le":
		return CipherAESGCM
	default:
		return CipherChaCha20
	}
}
