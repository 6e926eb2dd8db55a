package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/flashdeck/internal/domain"
)

// GetRevision retrieves the revision record for a (user, flashcard) pair, or
// nil when the pair has never been reviewed.
func (db *DB) GetRevision(ctx context.Context, userID, flashcardID int64) (*domain.Revision, error) {
	var rev domain.Revision
	err := db.conn.GetContext(ctx, &rev, `
		SELECT id_user, id_flashcard, level, last_date
		FROM revisions WHERE id_user = ? AND id_flashcard = ?
	`, userID, flashcardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find revision (%d, %d): %w", userID, flashcardID, err)
	}
	return &rev, nil
}

// SaveReview runs the review read-modify-write for one (user, flashcard)
// pair. It reads the current record inside a transaction, lets apply compute
// the new state, and upserts the result. The connection opens transactions
// with the write lock already held, so two concurrent reviews of the same
// pair serialize instead of both reading the same stale level.
func (db *DB) SaveReview(ctx context.Context, userID, flashcardID int64, apply func(existing *domain.Revision) domain.Revision) (domain.Revision, error) {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Revision{}, fmt.Errorf("failed to begin review of flashcard %d: %w", flashcardID, err)
	}
	defer tx.Rollback()

	var existing *domain.Revision
	var cur domain.Revision
	err = tx.GetContext(ctx, &cur, `
		SELECT id_user, id_flashcard, level, last_date
		FROM revisions WHERE id_user = ? AND id_flashcard = ?
	`, userID, flashcardID)
	switch {
	case err == nil:
		existing = &cur
	case errors.Is(err, sql.ErrNoRows):
		existing = nil
	default:
		return domain.Revision{}, fmt.Errorf("failed to read revision (%d, %d): %w", userID, flashcardID, err)
	}

	rev := apply(existing)
	rev.UserID = userID
	rev.FlashcardID = flashcardID

	_, err = tx.ExecContext(ctx, `
		INSERT INTO revisions (id_user, id_flashcard, level, last_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id_user, id_flashcard) DO UPDATE SET
			level = excluded.level,
			last_date = excluded.last_date
	`, rev.UserID, rev.FlashcardID, rev.Level, rev.LastDate)
	if err != nil {
		return domain.Revision{}, fmt.Errorf("failed to upsert revision (%d, %d): %w", userID, flashcardID, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Revision{}, fmt.Errorf("failed to commit revision (%d, %d): %w", userID, flashcardID, err)
	}
	return rev, nil
}
