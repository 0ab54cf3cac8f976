package storage

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestEngine(t *testing.T) *BadgerEngine {
	t.Helper()
	engine, err := NewBadgerEngine(InMemoryKVConfig(), slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestBadgerEngine_BasicOperations(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		if err := engine.Set(ctx, []byte("test-key"), []byte("test-value")); err != nil {
			t.Fatal(err)
		}

		got, err := engine.Get(ctx, []byte("test-key"))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "test-value" {
			t.Errorf("expected test-value, got %s", got)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		engine.Set(ctx, []byte("k"), []byte("v1"))
		engine.Set(ctx, []byte("k"), []byte("v2"))

		got, _ := engine.Get(ctx, []byte("k"))
		if string(got) != "v2" {
			t.Errorf("expected v2, got %s", got)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		_, err := engine.Get(ctx, []byte("non-existent"))
		if !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		key := []byte("delete-key")
		if err := engine.Set(ctx, key, []byte("delete-value")); err != nil {
			t.Fatal(err)
		}
		if err := engine.Delete(ctx, key); err != nil {
			t.Fatal(err)
		}

		if _, err := engine.Get(ctx, key); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
		}
	})

	t.Run("Delete missing key", func(t *testing.T) {
		if err := engine.Delete(ctx, []byte("never-set")); err != nil {
			t.Errorf("Delete(missing) error = %v", err)
		}
	})
}

func TestBadgerEngine_Scan(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	testData := map[string]string{
		"user:1": "alice",
		"user:2": "bob",
		"user:3": "charlie",
		"meta:x": "data",
	}
	for k, v := range testData {
		if err := engine.Set(ctx, []byte(k), []byte(v)); err != nil {
			t.Fatal(err)
		}
	}

	var keys []string
	err := engine.Scan(ctx, []byte("user:"), func(key, value []byte) bool {
		keys = append(keys, string(key))
		if testData[string(key)] != string(value) {
			t.Errorf("value for %s = %s", key, value)
		}
		return true
	})
	if err != nil {
		t.Fatal(err)
	}

	sort.Strings(keys)
	if len(keys) != 3 || keys[0] != "user:1" || keys[2] != "user:3" {
		t.Errorf("scan keys = %v", keys)
	}

	t.Run("Early stop", func(t *testing.T) {
		count := 0
		engine.Scan(ctx, []byte("user:"), func(_, _ []byte) bool {
			count++
			return false
		})
		if count != 1 {
			t.Errorf("expected 1 callback, got %d", count)
		}
	})
}

func TestBadgerEngine_Persistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	cfg := DefaultKVConfig(dir)
	cfg.GCInterval = 0

	engine, err := NewBadgerEngine(cfg, slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.Set(ctx, []byte("persist"), []byte("yes")); err != nil {
		t.Fatal(err)
	}
	if err := engine.Close(); err != nil {
		t.Fatal(err)
	}

	engine, err = NewBadgerEngine(cfg, slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()

	got, err := engine.Get(ctx, []byte("persist"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "yes" {
		t.Errorf("expected yes after reopen, got %s", got)
	}
}

func TestBadgerEngine_Closed(t *testing.T) {
	engine, err := NewBadgerEngine(InMemoryKVConfig(), slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.Close(); err != nil {
		t.Fatal(err)
	}
	if err := engine.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	ctx := context.Background()
	if err := engine.Set(ctx, []byte("k"), []byte("v")); !errors.Is(err, ErrClosed) {
		t.Errorf("Set after close = %v, want ErrClosed", err)
	}
	if _, err := engine.Get(ctx, []byte("k")); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after close = %v, want ErrClosed", err)
	}
}

func TestBadgerEngine_CanceledContext(t *testing.T) {
	engine := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := engine.Set(ctx, []byte("k"), []byte("v")); !errors.Is(err, context.Canceled) {
		t.Errorf("Set() error = %v, want context.Canceled", err)
	}
}

func TestBadgerEngine_RequiresDir(t *testing.T) {
	if _, err := NewBadgerEngine(KVConfig{}, nil); err == nil {
		t.Error("expected error for empty dir")
	}
}

func TestBadgerEngine_RegisterMetrics(t *testing.T) {
	engine := newTestEngine(t)
	reg := prometheus.NewRegistry()

	if err := engine.RegisterMetrics(reg); err != nil {
		t.Fatal(err)
	}

	n, err := testutil.GatherAndCount(reg,
		"famcheck_storage_lsm_size_bytes",
		"famcheck_storage_value_log_size_bytes",
		"famcheck_storage_last_gc_timestamp_seconds")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 storage metrics, got %d", n)
	}

	if err := engine.RegisterMetrics(reg); err == nil {
		t.Error("expected duplicate registration error")
	}
}

func TestBadgerEngine_GCInMemory(t *testing.T) {
	engine := newTestEngine(t)
	if err := engine.GC(context.Background()); err != nil {
		t.Errorf("GC() in memory error = %v", err)
	}
}
