package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/yndnr/famcheck-go/internal/telemetry/logger"
)

func newTestStore(t *testing.T) (*Store, *BadgerEngine) {
	t.Helper()
	engine := newTestEngine(t)
	sealer, err := NewSealer(testMasterKey(3), CipherAuto)
	if err != nil {
		t.Fatal(err)
	}
	return NewStore(engine, sealer, logger.Discard()), engine
}

// failingKV fails every operation with err.
type failingKV struct {
	err error
}

func (f failingKV) Get(context.Context, []byte) ([]byte, error) { return nil, f.err }
func (f failingKV) Set(context.Context, []byte, []byte) error   { return f.err }
func (f failingKV) Delete(context.Context, []byte) error        { return f.err }
func (f failingKV) Close() error                                { return nil }
func (f failingKV) Scan(context.Context, []byte, func(key, value []byte) bool) error {
	return f.err
}

func TestStore_Plain(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	t.Run("string", func(t *testing.T) {
		if err := store.Save(ctx, "sessionUsername", "alice"); err != nil {
			t.Fatal(err)
		}
		var got string
		if !store.Get(ctx, "sessionUsername", &got) || got != "alice" {
			t.Errorf("Get() = %q", got)
		}
	})

	t.Run("bool", func(t *testing.T) {
		if err := store.Save(ctx, "sessionIsAdmin", true); err != nil {
			t.Fatal(err)
		}
		var got bool
		if !store.Get(ctx, "sessionIsAdmin", &got) || !got {
			t.Errorf("Get() = %v", got)
		}
	})

	t.Run("struct", func(t *testing.T) {
		type prefs struct {
			Theme string `json:"theme"`
			Count int    `json:"count"`
		}
		if err := store.Save(ctx, "prefs", prefs{"dark", 3}); err != nil {
			t.Fatal(err)
		}
		var got prefs
		if !store.Get(ctx, "prefs", &got) || got != (prefs{"dark", 3}) {
			t.Errorf("Get() = %+v", got)
		}
	})

	t.Run("missing", func(t *testing.T) {
		var got string
		if store.Get(ctx, "nope", &got) {
			t.Error("Get(missing) should report absent")
		}
	})

	t.Run("type mismatch reads as absent", func(t *testing.T) {
		store.Save(ctx, "num", 42)
		var got string
		if store.Get(ctx, "num", &got) {
			t.Error("Get() into wrong type should report absent")
		}
	})

	t.Run("delete", func(t *testing.T) {
		store.Save(ctx, "gone", "x")
		if err := store.Delete(ctx, "gone"); err != nil {
			t.Fatal(err)
		}
		var got string
		if store.Get(ctx, "gone", &got) {
			t.Error("value still present after Delete")
		}
		if err := store.Delete(ctx, "gone"); err != nil {
			t.Errorf("second Delete() error = %v", err)
		}
	})

	t.Run("unencodable value", func(t *testing.T) {
		if err := store.Save(ctx, "ch", make(chan int)); err == nil {
			t.Error("Save(chan) should fail")
		}
	})

	t.Run("empty key", func(t *testing.T) {
		if err := store.Save(ctx, "", "x"); !errors.Is(err, ErrEmptyKey) {
			t.Errorf("Save(\"\") error = %v", err)
		}
	})
}

func TestStore_Secure(t *testing.T) {
	store, engine := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveSecure(ctx, "sessionToken", "abc.def"); err != nil {
		t.Fatal(err)
	}

	got, ok := store.GetSecure(ctx, "sessionToken")
	if !ok || got != "abc.def" {
		t.Errorf("GetSecure() = %q, %v", got, ok)
	}

	raw, err := engine.Get(ctx, []byte("secure/sessionToken"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "abc.def") {
		t.Error("secure value stored in the clear")
	}

	if err := store.DeleteSecure(ctx, "sessionToken"); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.GetSecure(ctx, "sessionToken"); ok {
		t.Error("secure value present after DeleteSecure")
	}
}

func TestStore_SecureNamespaceIsolated(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Save(ctx, "shared", "plain")
	store.SaveSecure(ctx, "shared", "secret")

	var plain string
	if !store.Get(ctx, "shared", &plain) || plain != "plain" {
		t.Errorf("plain = %q", plain)
	}
	if secret, ok := store.GetSecure(ctx, "shared"); !ok || secret != "secret" {
		t.Errorf("secure = %q", secret)
	}
}

func TestStore_SecureMovedCiphertextRejected(t *testing.T) {
	store, engine := newTestStore(t)
	ctx := context.Background()

	store.SaveSecure(ctx, "a", "value-a")
	raw, _ := engine.Get(ctx, []byte("secure/a"))
	engine.Set(ctx, []byte("secure/b"), raw)

	if _, ok := store.GetSecure(ctx, "b"); ok {
		t.Error("ciphertext copied to another key should not open")
	}
}

func TestStore_SecureOtherMasterKey(t *testing.T) {
	store, engine := newTestStore(t)
	ctx := context.Background()

	store.SaveSecure(ctx, "sessionToken", "abc")

	otherSealer, _ := NewSealer(testMasterKey(99), CipherAuto)
	other := NewStore(engine, otherSealer, nil)

	if _, ok := other.GetSecure(ctx, "sessionToken"); ok {
		t.Error("secure value readable with a different master key")
	}
}

func TestStore_ClearAllSecure(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Save(ctx, "sessionUsername", "alice")
	store.SaveSecure(ctx, "sessionToken", "t1")
	store.SaveSecure(ctx, "refresh", "t2")

	if err := store.ClearAllSecure(ctx); err != nil {
		t.Fatal(err)
	}

	for _, k := range []string{"sessionToken", "refresh"} {
		if _, ok := store.GetSecure(ctx, k); ok {
			t.Errorf("%s survived ClearAllSecure", k)
		}
	}

	var name string
	if !store.Get(ctx, "sessionUsername", &name) || name != "alice" {
		t.Error("ClearAllSecure touched plain entries")
	}

	if err := store.ClearAllSecure(ctx); err != nil {
		t.Errorf("ClearAllSecure on empty namespace error = %v", err)
	}
}

func TestStore_FailuresPropagate(t *testing.T) {
	boom := errors.New("disk full")
	sealer, _ := NewSealer(testMasterKey(1), CipherAuto)
	store := NewStore(failingKV{err: boom}, sealer, logger.Discard())
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"Save", func() error { return store.Save(ctx, "k", "v") }},
		{"Delete", func() error { return store.Delete(ctx, "k") }},
		{"SaveSecure", func() error { return store.SaveSecure(ctx, "k", "v") }},
		{"DeleteSecure", func() error { return store.DeleteSecure(ctx, "k") }},
		{"ClearAllSecure", func() error { return store.ClearAllSecure(ctx) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, boom) {
				t.Errorf("error = %v, want %v", err, boom)
			}
		})
	}

	var out string
	if store.Get(ctx, "k", &out) {
		t.Error("Get on failing engine should report absent")
	}
	if _, ok := store.GetSecure(ctx, "k"); ok {
		t.Error("GetSecure on failing engine should report absent")
	}
}

func TestStore_Concurrent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.SaveSecure(ctx, "sessionToken", "tok")
			store.GetSecure(ctx, "sessionToken")
		}()
	}
	wg.Wait()

	if got, ok := store.GetSecure(ctx, "sessionToken"); !ok || got != "tok" {
		t.Errorf("GetSecure() = %q, %v", got, ok)
	}
}

func TestOpen_OnDisk(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		KV:            DefaultKVConfig(filepath.Join(dir, "data")),
		MasterKeyFile: filepath.Join(dir, "master.key"),
	}
	opts.KV.GCInterval = 0
	ctx := context.Background()

	store, err := Open(opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if store.Engine() == nil {
		t.Fatal("Engine() should be set by Open")
	}
	if err := store.SaveSecure(ctx, "sessionToken", "persisted"); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	store, err = Open(opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if got, ok := store.GetSecure(ctx, "sessionToken"); !ok || got != "persisted" {
		t.Errorf("GetSecure() after reopen = %q, %v", got, ok)
	}
}

func TestOpen_Ephemeral(t *testing.T) {
	store, err := Open(Options{KV: InMemoryKVConfig()}, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.Save(context.Background(), "k", 1); err != nil {
		t.Fatal(err)
	}
}
