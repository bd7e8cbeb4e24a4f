package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/natefinch/atomic"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/nazmara/internal/constants"
	"github.com/julianstephens/nazmara/internal/logger"
)

var stampFormats = []string{"20060102-1504", "20060102-150405"}

// Snapshot describes one backup file.
type Snapshot struct {
	Path  string
	Taken time.Time
	Size  int64
}

func (s Snapshot) Name() string {
	return filepath.Base(s.Path)
}

// Manager snapshots a database file into a sibling backups directory and
// keeps the newest keep snapshots.
type Manager struct {
	dbPath string
	dir    string
	keep   int
	now    func() time.Time
}

func NewManager(dbPath string, keep int) *Manager {
	if keep < 1 {
		keep = constants.DefaultBackupKeep
	}
	return &Manager{
		dbPath: dbPath,
		dir:    filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:   keep,
		now:    time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create snapshots the database and prunes snapshots beyond the limit.
func (m *Manager) Create() (string, error) {
	path, err := m.snapshot()
	if err != nil {
		return "", err
	}
	if err := m.prune(); err != nil {
		logger.Warn("Failed to prune old backups", "dir", m.dir, "error", err)
	}
	logger.Info("Backup created", "path", path)
	return path, nil
}

func (m *Manager) snapshot() (string, error) {
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	dest, err := m.freeName()
	if err != nil {
		return "", err
	}
	if err := vacuumInto(m.dbPath, dest); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	return dest, nil
}

// freeName picks an unused file name, widening the stamp to seconds and then
// adding a counter when snapshots land in the same minute.
func (m *Manager) freeName() (string, error) {
	now := m.now()
	for _, layout := range stampFormats {
		p := m.fileFor(now.Format(layout))
		if !exists(p) {
			return p, nil
		}
	}
	stamp := now.Format(stampFormats[len(stampFormats)-1])
	for i := 1; i <= 100; i++ {
		p := m.fileFor(stamp + "-" + strconv.Itoa(i))
		if !exists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

func (m *Manager) fileFor(stamp string) string {
	return filepath.Join(m.dir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
}

func vacuumInto(src, dest string) error {
	db, err := sqlx.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	if err := verify(db); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Warn("VACUUM INTO failed, copying file instead", "error", err)
		return copyFile(src, dest)
	}
	return nil
}

func verify(db *sqlx.DB) error {
	var n int
	return db.Get(&n, "SELECT COUNT(*) FROM sqlite_master")
}

// parseStamp extracts the snapshot time from a file name, or reports false
// for files that are not snapshots.
func parseStamp(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	candidates := []string{stamp}
	if i := strings.LastIndex(stamp, "-"); i > 0 {
		if _, err := strconv.Atoi(stamp[i+1:]); err == nil {
			candidates = append(candidates, stamp[:i])
		}
	}
	for _, c := range candidates {
		for _, layout := range stampFormats {
			if t, err := time.ParseInLocation(layout, c, time.Local); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// List returns the snapshots on disk, newest first.
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return []Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	snaps := []Snapshot{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		taken, ok := parseStamp(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		snaps = append(snaps, Snapshot{
			Path:  filepath.Join(m.dir, e.Name()),
			Taken: taken,
			Size:  info.Size(),
		})
	}
	slices.SortFunc(snaps, func(a, b Snapshot) int {
		if c := b.Taken.Compare(a.Taken); c != 0 {
			return c
		}
		return strings.Compare(b.Path, a.Path)
	})
	return snaps, nil
}

func (m *Manager) prune() error {
	snaps, err := m.List()
	if err != nil {
		return err
	}
	for _, s := range snaps[min(m.keep, len(snaps)):] {
		if err := os.Remove(s.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", s.Path, err)
		}
	}
	return nil
}

// Resolve accepts a snapshot path or a bare file name from List.
func (m *Manager) Resolve(name string) (string, error) {
	if exists(name) {
		return name, nil
	}
	p := filepath.Join(m.dir, filepath.Base(name))
	if exists(p) {
		return p, nil
	}
	return "", fmt.Errorf("backup file does not exist: %s", name)
}

// Restore replaces the database with the snapshot at path. The current
// database is snapshotted first; its path is returned, or "" when there was
// no database to save.
func (m *Manager) Restore(path string) (string, error) {
	if !exists(path) {
		return "", fmt.Errorf("backup file does not exist: %s", path)
	}
	if err := verifyFile(path); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var saved string
	if exists(m.dbPath) {
		p, err := m.snapshot()
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
		saved = p
	}

	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open backup file: %w", err)
	}
	defer in.Close()
	if err := atomic.WriteFile(m.dbPath, in); err != nil {
		return "", fmt.Errorf("failed to restore database: %w", err)
	}
	// atomic.WriteFile leaves the temp file's mode on new files
	if err := os.Chmod(m.dbPath, 0600); err != nil {
		logger.Warn("Failed to set database permissions", "path", m.dbPath, "error", err)
	}
	logger.Info("Database restored", "from", path, "saved", saved)
	return saved, nil
}

func verifyFile(path string) error {
	db, err := sqlx.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return verify(db)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
