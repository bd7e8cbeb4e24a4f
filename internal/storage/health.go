package storage

import (
	"github.com/jmoiron/sqlx"
)

// Health summarises the state of the database file for the doctor command.
type Health struct {
	Tables        map[string]bool
	ForeignKeys   bool
	SchemaVersion int
	Integrity     string
}

// OK reports whether every table exists, foreign keys are enforced, the
// schema version matches and the integrity check passed.
func (h Health) OK() bool {
	for _, ok := range h.Tables {
		if !ok {
			return false
		}
	}
	return h.ForeignKeys && h.SchemaVersion == SchemaVersion && h.Integrity == "ok"
}

func (s *Store) Check() (Health, error) {
	h := Health{Tables: map[string]bool{}}
	err := s.withTx("health check", func(tx *sqlx.Tx) error {
		var names []string
		if err := tx.Select(&names, `SELECT name FROM sqlite_master WHERE type = 'table'`); err != nil {
			return err
		}
		for _, t := range Tables {
			h.Tables[t] = false
		}
		for _, n := range names {
			if _, ok := h.Tables[n]; ok {
				h.Tables[n] = true
			}
		}
		var fk int
		if err := tx.Get(&fk, `PRAGMA foreign_keys`); err != nil {
			return err
		}
		h.ForeignKeys = fk == 1
		if err := tx.Get(&h.SchemaVersion, `PRAGMA user_version`); err != nil {
			return err
		}
		return tx.Get(&h.Integrity, `PRAGMA integrity_check`)
	})
	return h, err
}
