package storage

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := openTestStore(t)

	value := []byte(`{"hello":"世界"}`)
	if err := store.Set("ledger:transactions", value); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, found, err := store.Get("ledger:transactions")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("key not found after Set")
	}
	if !bytes.Equal(got, value) {
		t.Errorf("Get = %q, want %q", got, value)
	}
}

func TestSQLiteStore_MissingKey(t *testing.T) {
	store := openTestStore(t)
	_, found, err := store.Get("nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("missing key reported as found")
	}
}

func TestSQLiteStore_Overwrite(t *testing.T) {
	store := openTestStore(t)
	if err := store.Set("k", []byte("v1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set("k", []byte("v2")); err != nil {
		t.Fatalf("overwrite Set: %v", err)
	}
	got, _, err := store.Get("k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("Get after overwrite = %q, want v2", got)
	}
}

func TestSQLiteStore_ListKeys(t *testing.T) {
	store := openTestStore(t)
	for _, key := range []string{"ledger:transactions", "ledger:meta", "other:thing"} {
		if err := store.Set(key, []byte("x")); err != nil {
			t.Fatalf("Set(%q): %v", key, err)
		}
	}

	keys, err := store.ListKeys("ledger:")
	if err != nil {
		t.Fatalf("ListKeys: %v", err)
	}
	want := []string{"ledger:meta", "ledger:transactions"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("ListKeys mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryStore_FailWrites(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	store.FailWrites = true
	if err := store.Set("k", []byte("v2")); err == nil {
		t.Error("expected write failure")
	}
	got, _, _ := store.Get("k")
	if string(got) != "v" {
		t.Errorf("failed write changed value to %q", got)
	}
}
