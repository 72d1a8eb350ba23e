package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMigrations_SortsAndSkipsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "V2__jobs.sql", "CREATE TABLE jobs (id INT);")
	writeFile(t, dir, "V1__init.sql", "CREATE TABLE users (id INT);")
	writeFile(t, dir, "README.md", "notes")

	migs, err := loadMigrations(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(migs) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migs))
	}
	if migs[0].Version != 1 || migs[1].Version != 2 {
		t.Fatalf("unexpected order: %d, %d", migs[0].Version, migs[1].Version)
	}
	if migs[0].Name != "init" || migs[0].Checksum == "" {
		t.Fatalf("unexpected migration %+v", migs[0])
	}
}

func TestLoadMigrations_RejectsDuplicateVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "V1__a.sql", "SELECT 1;")
	writeFile(t, dir, "V1__b.sql", "SELECT 2;")

	if _, err := loadMigrations(dir); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestLoadMigrations_RejectsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "V1__empty.sql", "  \n")

	if _, err := loadMigrations(dir); err == nil {
		t.Fatal("expected error for empty migration")
	}
}

func TestLoadMigrations_MissingDirIsEmpty(t *testing.T) {
	migs, err := loadMigrations(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatal(err)
	}
	if len(migs) != 0 {
		t.Fatalf("expected no migrations, got %d", len(migs))
	}
}

func TestPendingMigrations(t *testing.T) {
	migs := []Migration{
		{Version: 1, Name: "init", Checksum: "a"},
		{Version: 2, Name: "jobs", Checksum: "b"},
	}

	pending, err := pendingMigrations(migs, map[int64]appliedMigration{1: {Version: 1, Checksum: "a"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].Version != 2 {
		t.Fatalf("unexpected pending %+v", pending)
	}

	if _, err := pendingMigrations(migs, map[int64]appliedMigration{1: {Version: 1, Checksum: "changed"}}); err == nil {
		t.Fatal("expected checksum mismatch")
	}
}
