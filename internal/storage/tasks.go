package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/nazmara/internal/constants"
	"github.com/julianstephens/nazmara/internal/models"
)

const taskColumns = `local_id, server_id, user_id, title, description, priority, date_time,
	is_complete, tag_id, needs_sync, deleted_at, created_at, updated_at`

func validateTaskFields(priority models.Priority, dateTime string) error {
	if !priority.Valid() {
		return fmt.Errorf("priority %d out of range: %w", priority, ErrInvalidInput)
	}
	if _, err := time.Parse(constants.DateFormat, dateTime); err != nil {
		return fmt.Errorf("date %q is not YYYY-MM-DD: %w", dateTime, ErrInvalidInput)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// AddTask inserts an incomplete task and returns its freshly generated
// local id.
func (s *Store) AddTask(title string, userID int64, description string, priority models.Priority, dateTime string, tagID *string) (string, error) {
	if err := validateTaskFields(priority, dateTime); err != nil {
		return "", err
	}
	localID := uuid.NewString()
	err := s.withTx("add task", func(tx *sqlx.Tx) error {
		if err := checkTagOwner(tx, tagID, userID); err != nil {
			return err
		}
		now := s.timestamp()
		_, err := tx.Exec(`
			INSERT INTO tasks (local_id, user_id, title, description, priority, date_time,
				is_complete, tag_id, needs_sync, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, 0, ?, 1, ?, ?)`,
			localID, userID, title, nullable(description), int(priority), dateTime, tagID, now, now)
		return err
	})
	if err != nil {
		return "", err
	}
	return localID, nil
}

// GetTask returns an active task by local id.
func (s *Store) GetTask(localID string) (models.Task, error) {
	var t models.Task
	err := s.withTx("get task", func(tx *sqlx.Tx) error {
		err := tx.Get(&t, `SELECT `+taskColumns+` FROM tasks WHERE local_id = ? AND deleted_at IS NULL`, localID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("task %s: %w", localID, ErrNotFound)
		}
		return err
	})
	return t, err
}

// GetTasksByDate returns the active tasks of userID scheduled on date.
// Open tasks come first, then by priority (high first) and creation.
func (s *Store) GetTasksByDate(date string, userID int64) ([]models.Task, error) {
	tasks := []models.Task{}
	err := s.withTx("tasks by date", func(tx *sqlx.Tx) error {
		return tx.Select(&tasks, `
			SELECT `+taskColumns+` FROM tasks
			WHERE user_id = ? AND date_time = ? AND deleted_at IS NULL
			ORDER BY is_complete, priority DESC, created_at, rowid`,
			userID, date)
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetUserTaskDates returns the distinct dates that hold at least one active
// task for userID, ascending.
func (s *Store) GetUserTaskDates(userID int64) ([]string, error) {
	dates := []string{}
	err := s.withTx("task dates", func(tx *sqlx.Tx) error {
		return tx.Select(&dates, `
			SELECT DISTINCT date_time FROM tasks
			WHERE user_id = ? AND deleted_at IS NULL AND date_time IS NOT NULL
			ORDER BY date_time`, userID)
	})
	if err != nil {
		return nil, err
	}
	return dates, nil
}

// GetTaskHistory returns every task of userID, soft-deleted ones included,
// newest first.
func (s *Store) GetTaskHistory(userID int64) ([]models.Task, error) {
	tasks := []models.Task{}
	err := s.withTx("task history", func(tx *sqlx.Tx) error {
		return tx.Select(&tasks, `
			SELECT `+taskColumns+` FROM tasks
			WHERE user_id = ?
			ORDER BY created_at DESC, rowid DESC`, userID)
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// SetTaskComplete sets the completion flag. Setting the current value again
// succeeds and leaves the flag unchanged.
func (s *Store) SetTaskComplete(localID string, complete bool) error {
	return s.withTx("set task complete", func(tx *sqlx.Tx) error {
		res, err := tx.Exec(`
			UPDATE tasks SET is_complete = ?, needs_sync = 1, updated_at = ?
			WHERE local_id = ? AND deleted_at IS NULL`,
			complete, s.timestamp(), localID)
		if err != nil {
			return err
		}
		return expectRow(res, "task", localID)
	})
}

// ToggleTaskComplete flips the completion flag and returns the new value.
func (s *Store) ToggleTaskComplete(localID string) (bool, error) {
	var complete bool
	err := s.withTx("toggle task", func(tx *sqlx.Tx) error {
		err := tx.Get(&complete, `SELECT is_complete FROM tasks WHERE local_id = ? AND deleted_at IS NULL`, localID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("task %s: %w", localID, ErrNotFound)
		}
		if err != nil {
			return err
		}
		complete = !complete
		_, err = tx.Exec(`
			UPDATE tasks SET is_complete = ?, needs_sync = 1, updated_at = ?
			WHERE local_id = ?`,
			complete, s.timestamp(), localID)
		return err
	})
	return complete, err
}

// UpdateTask replaces the editable fields of an active task.
func (s *Store) UpdateTask(localID, title, description string, priority models.Priority, dateTime string, tagID *string) error {
	if err := validateTaskFields(priority, dateTime); err != nil {
		return err
	}
	return s.withTx("update task", func(tx *sqlx.Tx) error {
		var userID int64
		err := tx.Get(&userID, `SELECT user_id FROM tasks WHERE local_id = ? AND deleted_at IS NULL`, localID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("task %s: %w", localID, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if err := checkTagOwner(tx, tagID, userID); err != nil {
			return err
		}
		_, err = tx.Exec(`
			UPDATE tasks
			SET title = ?, description = ?, priority = ?, date_time = ?, tag_id = ?,
				needs_sync = 1, updated_at = ?
			WHERE local_id = ?`,
			title, nullable(description), int(priority), dateTime, tagID, s.timestamp(), localID)
		return err
	})
}

// DeleteTask soft-deletes a task. Deleted tasks cannot be changed again.
func (s *Store) DeleteTask(localID string) error {
	return s.withTx("delete task", func(tx *sqlx.Tx) error {
		now := s.timestamp()
		res, err := tx.Exec(`
			UPDATE tasks SET deleted_at = ?, needs_sync = 1, updated_at = ?
			WHERE local_id = ? AND deleted_at IS NULL`,
			now, now, localID)
		if err != nil {
			return err
		}
		return expectRow(res, "task", localID)
	})
}
