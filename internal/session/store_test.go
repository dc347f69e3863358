package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_SaveLoadRemove(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "teamized"))
	sess := Session{BaseURL: "https://teamized.org/api", Token: "tok-123"}

	if err := store.Save(sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, found, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !found {
		t.Fatal("Load() found = false after Save")
	}
	if got != sess {
		t.Errorf("Load() = %+v, want %+v", got, sess)
	}

	if err := store.Remove(); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, found, err := store.Load(); err != nil || found {
		t.Errorf("Load() after Remove = found=%v err=%v, want not found", found, err)
	}
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, found, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if found {
		t.Error("Load() found = true for missing session")
	}
}

func TestFileStore_RemoveMissingIsNoop(t *testing.T) {
	store := NewFileStore(t.TempDir())

	if err := store.Remove(); err != nil {
		t.Errorf("Remove() error = %v, want nil for missing session", err)
	}
}

func TestFileStore_SaveRestrictsPermissions(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "teamized"))
	if err := store.Save(Session{Token: "secret"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(store.path())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("session file mode = %o, want 600", perm)
	}
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := store.Load(); err == nil {
		t.Fatal("Load(corrupt file) should return error")
	}
}
