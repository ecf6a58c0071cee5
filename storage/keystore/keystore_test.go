package keystore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/innexgo/hours-go/hours"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), ".hours", "apikey.json"))
}

func TestStore_roundTrip(t *testing.T) {
	store := testStore(t)

	if got := store.Load(); got != nil {
		t.Fatalf("Load() on a fresh store = %+v, want nil", got)
	}

	key := &hours.APIKey{
		Key:           "secret",
		CreationTime:  time.Now().UnixMilli(),
		CreatorUserID: 42,
		Duration:      time.Hour.Milliseconds(),
	}
	if err := store.Save(key); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got := store.Load()
	if got == nil {
		t.Fatal("Load() = nil after Save()")
	}
	if *got != *key {
		t.Errorf("Load() = %+v, want %+v", got, key)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("os.Stat(%s): %v", store.Path(), err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("key file mode = %o, want 600", perm)
	}
}

func TestStore_Clear(t *testing.T) {
	store := testStore(t)

	if err := store.Save(&hours.APIKey{Key: "secret"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got := store.Load(); got != nil {
		t.Errorf("Load() after Clear() = %+v, want nil", got)
	}

	// the file holds an explicit null, not stale key material
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("os.ReadFile(%s): %v", store.Path(), err)
	}
	if string(data) != "null" {
		t.Errorf("cleared file = %q, want null", data)
	}
}

func TestStore_corruptFile(t *testing.T) {
	store := testStore(t)

	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if got := store.Load(); got != nil {
		t.Errorf("Load() on a corrupt file = %+v, want nil", got)
	}
	// the corrupt value is reset rather than surfaced again
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "null" {
		t.Errorf("file after corrupt Load() = %q, want null", data)
	}
}
