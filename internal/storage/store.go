package storage

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/nazmara/internal/logger"
	"github.com/julianstephens/nazmara/internal/migration"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// SchemaVersion is the version of the newest file in migrations/.
const SchemaVersion = 1

var (
	// ErrStorage wraps every fault raised by the database engine: open,
	// begin, exec, constraint violation or commit. When a call returns an
	// error matching ErrStorage nothing was written.
	ErrStorage = errors.New("storage failure")

	// ErrNotFound is returned when a mutation or lookup matches no active row.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when an argument breaks a storage invariant
	// (priority range, date format, foreign tag ownership).
	ErrInvalidInput = errors.New("invalid input")
)

// Store owns a single SQLite database file. It keeps no connection between
// calls: every operation opens a handle, runs one transaction and closes it.
type Store struct {
	path string
	now  func() time.Time
}

func New(path string) *Store {
	return &Store{
		path: path,
		now:  time.Now,
	}
}

// Init creates the parent directory and the schema. It is safe to call on an
// existing database.
func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return s.applySchema()
}

// Load verifies the database file exists and brings the schema up to date.
func (s *Store) Load() error {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'nazmara init' first")
	}
	return s.applySchema()
}

func (s *Store) Path() string {
	return s.path
}

// applySchema runs the pending migrations. A database written by a newer
// build is refused as is, without wrapping in ErrStorage.
func (s *Store) applySchema() error {
	db, err := s.open()
	if err != nil {
		return s.fault("migrate", err)
	}
	defer db.Close()

	fsys, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	if _, err := migration.NewRunner(db, fsys).Apply(); err != nil {
		if errors.Is(err, migration.ErrNewerSchema) {
			return err
		}
		return s.fault("migrate", err)
	}
	return nil
}

func (s *Store) dsn() string {
	return s.path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (s *Store) open() (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", s.dsn())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// withTx runs fn inside one transaction on a fresh connection. Engine faults
// are logged here and returned wrapped in ErrStorage; ErrNotFound and
// ErrInvalidInput pass through untouched. Either way the transaction is
// rolled back.
func (s *Store) withTx(op string, fn func(tx *sqlx.Tx) error) error {
	db, err := s.open()
	if err != nil {
		return s.fault(op, err)
	}
	defer db.Close()

	tx, err := db.Beginx()
	if err != nil {
		return s.fault(op, err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Warn("Rollback failed", "op", op, "error", rbErr)
		}
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
			logger.Debug("Store operation rejected", "op", op, "error", err)
			return err
		}
		return s.fault(op, err)
	}

	if err := tx.Commit(); err != nil {
		return s.fault(op, err)
	}
	return nil
}

func (s *Store) fault(op string, err error) error {
	logger.Error("Database error", "op", op, "path", s.path, "error", err)
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// expectRow turns a zero RowsAffected into ErrNotFound.
func expectRow(res interface{ RowsAffected() (int64, error) }, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}
