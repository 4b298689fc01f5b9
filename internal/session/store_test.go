package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shoplite/chatwidget/internal/session"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := session.NewFileStore(t.TempDir())

	id, err := store.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if id != "" {
		t.Fatalf("expected empty store, got %q", id)
	}

	if err := store.Save("abc"); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	id, err = store.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if id != "abc" {
		t.Fatalf("expected abc, got %q", id)
	}
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	store := session.NewFileStore(t.TempDir())

	if err := store.Save("first"); err != nil {
		t.Fatalf("Save err: %v", err)
	}
	if err := store.Save("second"); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	id, _ := store.Load()
	if id != "second" {
		t.Fatalf("expected second, got %q", id)
	}
}

func TestFileStoreClearIdempotent(t *testing.T) {
	store := session.NewFileStore(t.TempDir())

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear on empty store err: %v", err)
	}

	if err := store.Save("abc"); err != nil {
		t.Fatalf("Save err: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear err: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear err: %v", err)
	}

	id, _ := store.Load()
	if id != "" {
		t.Fatalf("expected empty store after clear, got %q", id)
	}
}

func TestFileStoreCorruptStateTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write corrupt state: %v", err)
	}

	store := session.NewFileStore(dir)
	id, err := store.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if id != "" {
		t.Fatalf("expected corrupt state to read as empty, got %q", id)
	}
}

func TestMemoryStore(t *testing.T) {
	store := session.NewMemoryStore()

	if err := store.Save("abc"); err != nil {
		t.Fatalf("Save err: %v", err)
	}
	id, _ := store.Load()
	if id != "abc" {
		t.Fatalf("expected abc, got %q", id)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear err: %v", err)
	}
	id, _ = store.Load()
	if id != "" {
		t.Fatalf("expected empty after clear, got %q", id)
	}
}
