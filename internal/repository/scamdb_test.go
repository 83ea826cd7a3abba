package repository

import (
	"os"
	"path/filepath"
	"testing"

	"RugScan/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestLoadScamDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scams.json")
	content := `{"addresses": ["0xABCDEF0000000000000000000000000000000001", "0x0000000000000000000000000000000000000002"]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	db, err := LoadScamDB(path, testLogger(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if db.Size() != 2 {
		t.Fatalf("size = %d, want 2", db.Size())
	}
	// Matching is case-insensitive.
	if !db.IsKnownScam("0xabcdef0000000000000000000000000000000001") {
		t.Fatalf("lowercase lookup missed")
	}
	if !db.IsKnownScam("0xABCDEF0000000000000000000000000000000001") {
		t.Fatalf("uppercase lookup missed")
	}
	if db.IsKnownScam("0x0000000000000000000000000000000000000009") {
		t.Fatalf("unknown address matched")
	}
}

func TestLoadScamDBMissingFile(t *testing.T) {
	db, err := LoadScamDB(filepath.Join(t.TempDir(), "absent.json"), testLogger(t))
	if err != nil {
		t.Fatalf("missing file should degrade, got %v", err)
	}
	if db.Size() != 0 {
		t.Fatalf("size = %d, want 0", db.Size())
	}
}

func TestLoadScamDBEmptyPath(t *testing.T) {
	db, err := LoadScamDB("", testLogger(t))
	if err != nil || db.Size() != 0 {
		t.Fatalf("empty path should yield empty db, got %v / %d", err, db.Size())
	}
}

func TestLoadScamDBMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadScamDB(path, testLogger(t)); err == nil {
		t.Fatalf("malformed file should error")
	}
}
