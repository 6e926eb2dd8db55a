package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/flashdeck/internal/domain"
)

// CreateCollection inserts a new collection and fills in its ID.
func (db *DB) CreateCollection(ctx context.Context, c *domain.Collection) error {
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO collections (title, description, is_public, id_user)
		VALUES (?, ?, ?, ?)
	`, c.Title, c.Description, c.IsPublic, c.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to insert collection %q: %w", c.Title, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID for collection %q: %w", c.Title, err)
	}
	c.ID = id
	return nil
}

// GetCollection retrieves a collection by ID, or nil when it does not exist.
func (db *DB) GetCollection(ctx context.Context, id int64) (*domain.Collection, error) {
	var c domain.Collection
	err := db.conn.GetContext(ctx, &c, `
		SELECT id_collection, title, description, is_public, id_user
		FROM collections WHERE id_collection = ?
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find collection %d: %w", id, err)
	}
	return &c, nil
}

// ListCollections retrieves the collections readable by the user: public
// ones plus the user's own, ordered by title.
func (db *DB) ListCollections(ctx context.Context, userID int64) ([]domain.Collection, error) {
	var cols []domain.Collection
	err := db.conn.SelectContext(ctx, &cols, `
		SELECT id_collection, title, description, is_public, id_user
		FROM collections
		WHERE is_public = 1 OR id_user = ?
		ORDER BY title ASC, id_collection ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections for user %d: %w", userID, err)
	}
	return cols, nil
}

// DeleteCollection removes a collection, its flashcards, and every revision
// row on those flashcards, in a single transaction.
func (db *DB) DeleteCollection(ctx context.Context, id int64) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete of collection %d: %w", id, err)
	}
	defer tx.Rollback()

	stmts := []string{
		`DELETE FROM revisions WHERE id_flashcard IN (
			SELECT id_flashcard FROM flashcards WHERE id_collection = ?)`,
		`DELETE FROM flashcards WHERE id_collection = ?`,
		`DELETE FROM collections WHERE id_collection = ?`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete collection %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete of collection %d: %w", id, err)
	}
	return nil
}
