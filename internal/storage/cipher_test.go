package storage

import (
	"bytes"
	"testing"
)

func testMasterKey(seed byte) []byte {
	key := make([]byte, MasterKeySize)
	for i := range key {
		key[i] = seed + byte(i)
	}
	return key
}

func TestNewSealer(t *testing.T) {
	tests := []struct {
		name    string
		key     []byte
		typ     CipherType
		wantErr bool
	}{
		{"auto", testMasterKey(1), CipherAuto, false},
		{"aes-gcm", testMasterKey(1), CipherAESGCM, false},
		{"chacha20", testMasterKey(1), CipherChaCha20, false},
		{"short key", make([]byte, 16), CipherAuto, true},
		{"unknown type", testMasterKey(1), "rot13", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSealer(tt.key, tt.typ)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSealer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tt.typ != CipherAuto && s.Type() != tt.typ {
				t.Errorf("Type() = %s, want %s", s.Type(), tt.typ)
			}
			if tt.typ == CipherAuto && s.Type() != CipherAESGCM && s.Type() != CipherChaCha20 {
				t.Errorf("auto picked unknown type %s", s.Type())
			}
		})
	}
}

func TestSealer_RoundTrip(t *testing.T) {
	for _, typ := range []CipherType{CipherAESGCM, CipherChaCha20} {
		t.Run(string(typ), func(t *testing.T) {
			s, err := NewSealer(testMasterKey(7), typ)
			if err != nil {
				t.Fatal(err)
			}

			plaintext := []byte("abc.def.ghi")
			aad := []byte("secure/sessionToken")

			sealed, err := s.Seal(plaintext, aad)
			if err != nil {
				t.Fatal(err)
			}
			if bytes.Contains(sealed, plaintext) {
				t.Error("sealed value contains plaintext")
			}

			opened, err := s.Open(sealed, aad)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if !bytes.Equal(opened, plaintext) {
				t.Errorf("Open() = %q, want %q", opened, plaintext)
			}

			again, _ := s.Seal(plaintext, aad)
			if bytes.Equal(again, sealed) {
				t.Error("two seals of the same value should differ (random nonce)")
			}
		})
	}
}

func TestSealer_Open_Rejects(t *testing.T) {
	s, _ := NewSealer(testMasterKey(7), CipherAESGCM)
	other, _ := NewSealer(testMasterKey(9), CipherAESGCM)

	sealed, err := s.Seal([]byte("value"), []byte("a"))
	if err != nil {
		t.Fatal(err)
	}

	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 0xff

	tests := []struct {
		name   string
		sealer *Sealer
		data   []byte
		aad    []byte
	}{
		{"wrong aad", s, sealed, []byte("b")},
		{"tampered", s, tampered, []byte("a")},
		{"wrong key", other, sealed, []byte("a")},
		{"too short", s, sealed[:4], []byte("a")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.sealer.Open(tt.data, tt.aad); err == nil {
				t.Error("Open() should fail")
			}
		})
	}
}
