package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) (string, func()) {
	t.Helper()
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "nazmara.db")

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	db.MustExec(`CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)`)
	db.MustExec(`INSERT INTO notes (body) VALUES ('first'), ('second')`)

	cleanup := func() {
		os.RemoveAll(tempDir)
	}
	return dbPath, cleanup
}

func countNotes(t *testing.T, path string) int {
	t.Helper()
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()
	var n int
	if err := db.Get(&n, "SELECT COUNT(*) FROM notes"); err != nil {
		t.Fatalf("failed to count notes in %s: %v", path, err)
	}
	return n
}

// clock returns a function that advances one hour on every call.
func clock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(time.Hour)
		return t
	}
}

func TestCreate(t *testing.T) {
	dbPath, cleanup := setupTestDB(t)
	defer cleanup()

	mgr := NewManager(dbPath, 14)
	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Dir(path) != mgr.Dir() {
		t.Errorf("backup written outside %s: %s", mgr.Dir(), path)
	}
	if got := countNotes(t, path); got != 2 {
		t.Errorf("expected 2 notes in backup, got %d", got)
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "absent.db"), 14)
	if _, err := mgr.Create(); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestCreateSameMinute(t *testing.T) {
	dbPath, cleanup := setupTestDB(t)
	defer cleanup()

	mgr := NewManager(dbPath, 14)
	fixed := time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		p, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		if seen[p] {
			t.Fatalf("backup path reused: %s", p)
		}
		seen[p] = true
	}

	snaps, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(snaps) != 3 {
		t.Errorf("expected 3 snapshots, got %d", len(snaps))
	}
}

func TestListNewestFirstAndPrune(t *testing.T) {
	dbPath, cleanup := setupTestDB(t)
	defer cleanup()

	mgr := NewManager(dbPath, 3)
	mgr.now = clock(time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local))

	var created []string
	for i := 0; i < 5; i++ {
		p, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		created = append(created, p)
	}

	// unrelated files are ignored
	if err := os.WriteFile(filepath.Join(mgr.Dir(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatalf("failed to write stray file: %v", err)
	}

	snaps, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("expected 3 snapshots after pruning, got %d", len(snaps))
	}
	for i, want := range []string{created[4], created[3], created[2]} {
		if snaps[i].Path != want {
			t.Errorf("snapshot %d: expected %s, got %s", i, want, snaps[i].Path)
		}
	}
	if !snaps[0].Taken.After(snaps[1].Taken) {
		t.Error("expected newest snapshot first")
	}
}

func TestListWithoutDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "nazmara.db"), 14)
	snaps, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("expected no snapshots, got %d", len(snaps))
	}
}

func TestRestore(t *testing.T) {
	dbPath, cleanup := setupTestDB(t)
	defer cleanup()

	mgr := NewManager(dbPath, 14)
	mgr.now = clock(time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local))

	snap, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	db.MustExec(`INSERT INTO notes (body) VALUES ('third')`)
	db.Close()

	saved, err := mgr.Restore(snap)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got := countNotes(t, dbPath); got != 2 {
		t.Errorf("expected restored database to hold 2 notes, got %d", got)
	}
	if saved == "" {
		t.Fatal("expected the pre-restore database to be saved")
	}
	if got := countNotes(t, saved); got != 3 {
		t.Errorf("expected saved snapshot to hold 3 notes, got %d", got)
	}
}

func TestRestoreRejectsInvalidFile(t *testing.T) {
	dbPath, cleanup := setupTestDB(t)
	defer cleanup()

	bogus := filepath.Join(t.TempDir(), "nazmara-20240601-1000.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0600); err != nil {
		t.Fatalf("failed to write bogus file: %v", err)
	}

	mgr := NewManager(dbPath, 14)
	if _, err := mgr.Restore(bogus); err == nil {
		t.Error("expected error restoring a non-database file")
	}
	if got := countNotes(t, dbPath); got != 2 {
		t.Errorf("database changed after failed restore: %d notes", got)
	}
}

func TestResolve(t *testing.T) {
	dbPath, cleanup := setupTestDB(t)
	defer cleanup()

	mgr := NewManager(dbPath, 14)
	p, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got, err := mgr.Resolve(filepath.Base(p))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != p {
		t.Errorf("expected %s, got %s", p, got)
	}
	if _, err := mgr.Resolve("nazmara-19990101-0000.db"); err == nil {
		t.Error("expected error for unknown backup")
	}
}

func TestParseStamp(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"nazmara-20240601-1000.db", true},
		{"nazmara-20240601-100000.db", true},
		{"nazmara-20240601-100000-2.db", true},
		{"nazmara-latest.db", false},
		{"other-20240601-1000.db", false},
		{"nazmara-20240601-1000.sqlite", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := parseStamp(tt.name); ok != tt.ok {
				t.Errorf("parseStamp(%q) = %v, want %v", tt.name, ok, tt.ok)
			}
		})
	}
}
