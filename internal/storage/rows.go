package storage

import (
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"
)

// Row is one raw table row keyed by column name. NULL columns are absent.
type Row map[string]any

// Tables lists the tables of the schema in creation order.
var Tables = []string{"users", "tags", "tasks", "habits", "daily_habits"}

// Rows scans every row of table, soft-deleted ones included, in rowid order.
func (s *Store) Rows(table string) ([]Row, error) {
	if !slices.Contains(Tables, table) {
		return nil, fmt.Errorf("unknown table %q: %w", table, ErrInvalidInput)
	}
	out := []Row{}
	err := s.withTx("scan "+table, func(tx *sqlx.Tx) error {
		rows, err := tx.Queryx(`SELECT * FROM ` + table + ` ORDER BY rowid`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			m := map[string]any{}
			if err := rows.MapScan(m); err != nil {
				return err
			}
			out = append(out, toRow(m))
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toRow(m map[string]any) Row {
	r := make(Row, len(m))
	for k, v := range m {
		switch v := v.(type) {
		case nil:
			continue
		case []byte:
			r[k] = string(v)
		default:
			r[k] = v
		}
	}
	return r
}
