package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/nazmara/internal/models"
)

const userColumns = `id, user_id, nickname, token, f_name, l_name, email, created_at`

// AddOfflineUser stores a profile with no remote account and returns its id.
func (s *Store) AddOfflineUser(nickname, fName, lName string) (int64, error) {
	var id int64
	err := s.withTx("add offline user", func(tx *sqlx.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO users (nickname, f_name, l_name, created_at)
			VALUES (?, ?, ?, ?)`,
			nickname, fName, lName, s.timestamp())
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// AddOnlineUser stores a profile linked to the remote account userID.
func (s *Store) AddOnlineUser(userID int64, nickname, token, fName, lName, email string) (int64, error) {
	var id int64
	err := s.withTx("add online user", func(tx *sqlx.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO users (user_id, nickname, token, f_name, l_name, email, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			userID, nickname, token, fName, lName, email, s.timestamp())
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetListOfUsers returns every profile in creation order. The last element is
// the most recently created one.
func (s *Store) GetListOfUsers() ([]models.User, error) {
	users := []models.User{}
	err := s.withTx("list users", func(tx *sqlx.Tx) error {
		return tx.Select(&users, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// LatestUser returns the most recently created profile.
func (s *Store) LatestUser() (models.User, error) {
	var u models.User
	err := s.withTx("latest user", func(tx *sqlx.Tx) error {
		err := tx.Get(&u, `SELECT `+userColumns+` FROM users ORDER BY id DESC LIMIT 1`)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("no users: %w", ErrNotFound)
		}
		return err
	})
	return u, err
}

// GetUser returns the profile with the given id.
func (s *Store) GetUser(id int64) (models.User, error) {
	var u models.User
	err := s.withTx("get user", func(tx *sqlx.Tx) error {
		err := tx.Get(&u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return err
	})
	return u, err
}
