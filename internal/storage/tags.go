package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/nazmara/internal/models"
)

const tagColumns = `local_id, server_id, user_id, name, needs_sync, deleted_at, updated_at`

// AddTag creates a tag for userID and returns its local id. Names are unique
// among a user's active tags.
func (s *Store) AddTag(name string, userID int64) (string, error) {
	localID := uuid.NewString()
	err := s.withTx("add tag", func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO tags (local_id, user_id, name, needs_sync, updated_at)
			VALUES (?, ?, ?, 1, ?)`,
			localID, userID, name, s.timestamp())
		return err
	})
	if err != nil {
		return "", err
	}
	return localID, nil
}

// GetTags returns the active tags of userID ordered by name.
func (s *Store) GetTags(userID int64) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := s.withTx("list tags", func(tx *sqlx.Tx) error {
		return tx.Select(&tags, `
			SELECT `+tagColumns+` FROM tags
			WHERE user_id = ? AND deleted_at IS NULL
			ORDER BY name`, userID)
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *Store) GetTag(localID string) (models.Tag, error) {
	var t models.Tag
	err := s.withTx("get tag", func(tx *sqlx.Tx) error {
		err := tx.Get(&t, `SELECT `+tagColumns+` FROM tags WHERE local_id = ? AND deleted_at IS NULL`, localID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("tag %s: %w", localID, ErrNotFound)
		}
		return err
	})
	return t, err
}

func (s *Store) RenameTag(localID, name string) error {
	return s.withTx("rename tag", func(tx *sqlx.Tx) error {
		res, err := tx.Exec(`
			UPDATE tags SET name = ?, needs_sync = 1, updated_at = ?
			WHERE local_id = ? AND deleted_at IS NULL`,
			name, s.timestamp(), localID)
		if err != nil {
			return err
		}
		return expectRow(res, "tag", localID)
	})
}

// DeleteTag soft-deletes a tag. Tasks and habits pointing at it are detached
// in the same transaction, since a soft delete does not fire ON DELETE SET NULL.
func (s *Store) DeleteTag(localID string) error {
	return s.withTx("delete tag", func(tx *sqlx.Tx) error {
		now := s.timestamp()
		res, err := tx.Exec(`
			UPDATE tags SET deleted_at = ?, needs_sync = 1, updated_at = ?
			WHERE local_id = ? AND deleted_at IS NULL`,
			now, now, localID)
		if err != nil {
			return err
		}
		if err := expectRow(res, "tag", localID); err != nil {
			return err
		}
		for _, table := range []string{"tasks", "habits"} {
			if _, err := tx.Exec(`
				UPDATE `+table+` SET tag_id = NULL, needs_sync = 1, updated_at = ?
				WHERE tag_id = ?`, now, localID); err != nil {
				return err
			}
		}
		return nil
	})
}

// checkTagOwner fails with ErrInvalidInput unless tagID names an active tag
// owned by userID.
func checkTagOwner(tx *sqlx.Tx, tagID *string, userID int64) error {
	if tagID == nil {
		return nil
	}
	var n int
	if err := tx.Get(&n, `
		SELECT COUNT(*) FROM tags
		WHERE local_id = ? AND user_id = ? AND deleted_at IS NULL`,
		*tagID, userID); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("tag %s does not belong to user %d: %w", *tagID, userID, ErrInvalidInput)
	}
	return nil
}
