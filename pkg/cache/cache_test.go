package cache

import (
	"os"
	"path/filepath"
	"testing"

	"docharvest/pkg/document"
)

func samplePage() document.Page {
	return document.Page{Blocks: []document.Block{
		{ID: "w1", BlockType: document.BlockWord, Text: "TOTALE"},
	}}
}

func TestStore(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	key := Key([]byte("image bytes"), "TABLES", "FORMS")

	t.Run("MissIsNil", func(t *testing.T) {
		entry, err := store.Load(key)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if entry != nil {
			t.Errorf("Expected miss, got %+v", entry)
		}
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		if err := store.Save(key, "invoice_page_1.png", samplePage()); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if !store.Exists(key) {
			t.Fatal("Expected entry to exist")
		}

		entry, err := store.Load(key)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if entry == nil {
			t.Fatal("Expected hit")
		}
		if entry.Source != "invoice_page_1.png" {
			t.Errorf("Expected source invoice_page_1.png, got %s", entry.Source)
		}
		if len(entry.Page.Blocks) != 1 || entry.Page.Blocks[0].Text != "TOTALE" {
			t.Errorf("Unexpected page %+v", entry.Page)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(key); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if store.Exists(key) {
			t.Error("Entry should be gone")
		}
		if err := store.Delete(key); err != nil {
			t.Errorf("Deleting a missing entry should succeed: %v", err)
		}
	})
}

func TestKeyDependsOnOptions(t *testing.T) {
	content := []byte("same file")
	a := Key(content, "TABLES", "FORMS")
	b := Key(content, "TABLES")
	c := Key(content, "TABLESFORMS")

	if a == b || b == c || a == c {
		t.Errorf("Expected distinct keys, got %s %s %s", a, b, c)
	}
	if Key(content, "TABLES", "FORMS") != a {
		t.Error("Key must be deterministic")
	}
	if len(a) != 64 {
		t.Errorf("Expected hex sha256, got %d chars", len(a))
	}
}

func TestLoadIgnoresOtherVersions(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "old.json"), []byte(`{"key":"old","version":0}`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	entry, err := store.Load("old")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if entry != nil {
		t.Error("Expected old version to be a miss")
	}

	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := store.Load("broken"); err == nil {
		t.Error("Expected decode error")
	}
}

func TestClear(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := store.Save(k, k, samplePage()); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	removed, err := store.Clear()
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("Expected 3 removed, got %d", removed)
	}
	if store.Exists("a") {
		t.Error("Entries should be gone")
	}
}

func TestNewStoreUsesDataDirectory(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tempDir)
	t.Setenv("APPDATA", tempDir)
	t.Setenv("HOME", tempDir)

	store, err := NewStore("")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if _, err := os.Stat(store.dir); err != nil {
		t.Errorf("Cache directory not created: %v", err)
	}
}
