package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/flashdeck/internal/domain"
)

// CreateUser inserts a new user and fills in its ID and creation time.
func (db *DB) CreateUser(ctx context.Context, u *domain.User) error {
	u.CreatedAt = time.Now().UTC()
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO users (email, name, last_name, password, admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.Email, u.Name, u.LastName, u.Password, u.Admin, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user %s: %w", u.Email, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID for user %s: %w", u.Email, err)
	}
	u.ID = id
	return nil
}

// FindUserByEmail retrieves a user by email, or nil when no such user exists.
func (db *DB) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := db.conn.GetContext(ctx, &u, `
		SELECT id_user, email, name, last_name, password, admin, created_at
		FROM users WHERE email = ?
	`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &u, nil
}

// FindUserByID retrieves a user by ID, or nil when no such user exists.
func (db *DB) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := db.conn.GetContext(ctx, &u, `
		SELECT id_user, email, name, last_name, password, admin, created_at
		FROM users WHERE id_user = ?
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user %d: %w", id, err)
	}
	return &u, nil
}

// ListUsers retrieves all users, most recently created first.
func (db *DB) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := db.conn.SelectContext(ctx, &users, `
		SELECT id_user, email, name, last_name, password, admin, created_at
		FROM users ORDER BY created_at DESC, id_user DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetUserAdmin flips a user's admin flag.
func (db *DB) SetUserAdmin(ctx context.Context, id int64, admin bool) error {
	res, err := db.conn.ExecContext(ctx, `UPDATE users SET admin = ? WHERE id_user = ?`, admin, id)
	if err != nil {
		return fmt.Errorf("failed to update admin flag for user %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for user %d: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d not found", id)
	}
	return nil
}

// DeleteUser removes a user together with everything hanging off it: the
// flashcards and revision rows of the user's collections, the collections
// themselves, and the user's own revision rows on other people's cards. Runs
// in a single transaction.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete of user %d: %w", id, err)
	}
	defer tx.Rollback()

	stmts := []string{
		`DELETE FROM revisions WHERE id_flashcard IN (
			SELECT id_flashcard FROM flashcards WHERE id_collection IN (
				SELECT id_collection FROM collections WHERE id_user = ?))`,
		`DELETE FROM revisions WHERE id_user = ?`,
		`DELETE FROM flashcards WHERE id_collection IN (
			SELECT id_collection FROM collections WHERE id_user = ?)`,
		`DELETE FROM collections WHERE id_user = ?`,
		`DELETE FROM users WHERE id_user = ?`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete user %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete of user %d: %w", id, err)
	}
	return nil
}
