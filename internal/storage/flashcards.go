package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/flashdeck/internal/domain"
)

// CreateFlashcard inserts a new flashcard and fills in its ID.
func (db *DB) CreateFlashcard(ctx context.Context, f *domain.Flashcard) error {
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO flashcards (front, back, front_url, back_url, id_collection)
		VALUES (?, ?, ?, ?, ?)
	`, f.Front, f.Back, f.FrontURL, f.BackURL, f.CollectionID)
	if err != nil {
		return fmt.Errorf("failed to insert flashcard in collection %d: %w", f.CollectionID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID for flashcard: %w", err)
	}
	f.ID = id
	return nil
}

// GetFlashcard retrieves a flashcard by ID, or nil when it does not exist.
func (db *DB) GetFlashcard(ctx context.Context, id int64) (*domain.Flashcard, error) {
	var f domain.Flashcard
	err := db.conn.GetContext(ctx, &f, `
		SELECT id_flashcard, front, back, front_url, back_url, id_collection
		FROM flashcards WHERE id_flashcard = ?
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find flashcard %d: %w", id, err)
	}
	return &f, nil
}

// ListFlashcardsByCollection retrieves all flashcards of a collection in
// insertion order. The order is what the review query engine reflects back
// to callers, so it must be stable across calls.
func (db *DB) ListFlashcardsByCollection(ctx context.Context, collectionID int64) ([]domain.Flashcard, error) {
	var cards []domain.Flashcard
	err := db.conn.SelectContext(ctx, &cards, `
		SELECT id_flashcard, front, back, front_url, back_url, id_collection
		FROM flashcards WHERE id_collection = ?
		ORDER BY id_flashcard ASC
	`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list flashcards of collection %d: %w", collectionID, err)
	}
	return cards, nil
}

// DeleteFlashcard removes a flashcard and every revision row on it, in a
// single transaction.
func (db *DB) DeleteFlashcard(ctx context.Context, id int64) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete of flashcard %d: %w", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM revisions WHERE id_flashcard = ?`, id); err != nil {
		return fmt.Errorf("failed to delete revisions of flashcard %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM flashcards WHERE id_flashcard = ?`, id); err != nil {
		return fmt.Errorf("failed to delete flashcard %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete of flashcard %d: %w", id, err)
	}
	return nil
}
