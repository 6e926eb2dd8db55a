// Package revision implements the review query engine: it decides which
// flashcards of a collection are due for a user and records review actions.
package revision

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/flashdeck/internal/domain"
	"github.com/example/flashdeck/internal/scheduler"
)

var (
	// ErrCollectionNotFound is returned when the requested collection does
	// not exist, or when a flashcard's owning collection is missing.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrFlashcardNotFound is returned when the requested flashcard does
	// not exist.
	ErrFlashcardNotFound = errors.New("flashcard not found")

	// ErrForbidden is returned when the user may not read the collection.
	ErrForbidden = errors.New("access to collection denied")
)

// CollectionStore is the collection lookup the engine needs. Absent rows are
// nil, not errors.
type CollectionStore interface {
	GetCollection(ctx context.Context, id int64) (*domain.Collection, error)
}

// FlashcardStore enumerates and resolves flashcards.
type FlashcardStore interface {
	GetFlashcard(ctx context.Context, id int64) (*domain.Flashcard, error)
	ListFlashcardsByCollection(ctx context.Context, collectionID int64) ([]domain.Flashcard, error)
}

// RevisionStore reads and writes per-(user, flashcard) revision records.
// SaveReview must run the read-modify-write atomically per pair.
type RevisionStore interface {
	GetRevision(ctx context.Context, userID, flashcardID int64) (*domain.Revision, error)
	SaveReview(ctx context.Context, userID, flashcardID int64, apply func(existing *domain.Revision) domain.Revision) (domain.Revision, error)
}

// DueCard is one due entry of a collection for a user. Level is 0 and
// LastDate nil when the pair has never been reviewed; such cards are due
// immediately, so NextRevisionDate is the query day.
type DueCard struct {
	domain.Flashcard
	Level            int     `json:"level"`
	LastDate         *string `json:"lastDate"`
	NextRevisionDate string  `json:"nextRevisionDate"`
}

// ReviewResult is the record state after a review.
type ReviewResult struct {
	Level            int    `json:"level"`
	LastDate         string `json:"lastDate"`
	NextRevisionDate string `json:"nextRevisionDate"`
}

// Service wires the stores to the scheduling strategy. All dependencies are
// injected at construction.
type Service struct {
	collections CollectionStore
	flashcards  FlashcardStore
	revisions   RevisionStore
	strategy    scheduler.Strategy
	logger      *zap.Logger
}

// NewService creates a review service. A nil strategy falls back to the
// stock leveled table; a nil logger is replaced with a no-op one.
func NewService(collections CollectionStore, flashcards FlashcardStore, revisions RevisionStore, strategy scheduler.Strategy, logger *zap.Logger) *Service {
	if strategy == nil {
		strategy = scheduler.NewLeitner()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		collections: collections,
		flashcards:  flashcards,
		revisions:   revisions,
		strategy:    strategy,
		logger:      logger,
	}
}

// DueFlashcards returns the flashcards of a collection that are due for the
// user on the given day, in store order. Unreviewed cards are always due.
// The call performs no writes.
func (s *Service) DueFlashcards(ctx context.Context, collectionID, userID int64, today string) ([]DueCard, error) {
	coll, err := s.collections.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("loading collection %d: %w", collectionID, err)
	}
	if coll == nil {
		return nil, ErrCollectionNotFound
	}
	if !coll.ReadableBy(userID) {
		return nil, ErrForbidden
	}

	cards, err := s.flashcards.ListFlashcardsByCollection(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("listing flashcards of collection %d: %w", collectionID, err)
	}

	due := make([]DueCard, 0, len(cards))
	for _, card := range cards {
		rec, err := s.revisions.GetRevision(ctx, userID, card.ID)
		if err != nil {
			return nil, fmt.Errorf("loading revision for flashcard %d: %w", card.ID, err)
		}

		if rec == nil {
			due = append(due, DueCard{
				Flashcard:        card,
				Level:            0,
				LastDate:         nil,
				NextRevisionDate: today,
			})
			continue
		}

		next, err := scheduler.NextDueDate(s.strategy, rec.LastDate, rec.Level)
		if err != nil {
			return nil, fmt.Errorf("computing due date for flashcard %d: %w", card.ID, err)
		}
		if next <= today {
			lastDate := rec.LastDate
			due = append(due, DueCard{
				Flashcard:        card,
				Level:            rec.Level,
				LastDate:         &lastDate,
				NextRevisionDate: next,
			})
		}
	}

	s.logger.Debug("due flashcards computed",
		zap.Int64("collection_id", collectionID),
		zap.Int64("user_id", userID),
		zap.String("today", today),
		zap.Int("total", len(cards)),
		zap.Int("due", len(due)),
	)
	return due, nil
}

// Review records that the user reviewed the flashcard on the given day and
// returns the advanced record together with its next due date. A first
// review creates the record at level 1; later reviews move the level up by
// one, capped by the strategy. A second review on the same day is a no-op
// returning the current state, so a double-submitted review advances the
// level exactly once.
func (s *Service) Review(ctx context.Context, flashcardID, userID int64, today string) (ReviewResult, error) {
	card, err := s.flashcards.GetFlashcard(ctx, flashcardID)
	if err != nil {
		return ReviewResult{}, fmt.Errorf("loading flashcard %d: %w", flashcardID, err)
	}
	if card == nil {
		return ReviewResult{}, ErrFlashcardNotFound
	}

	coll, err := s.collections.GetCollection(ctx, card.CollectionID)
	if err != nil {
		return ReviewResult{}, fmt.Errorf("loading collection %d: %w", card.CollectionID, err)
	}
	if coll == nil {
		// Flashcard rows always reference a collection; a miss here means
		// the data is inconsistent.
		return ReviewResult{}, ErrCollectionNotFound
	}
	if !coll.ReadableBy(userID) {
		return ReviewResult{}, ErrForbidden
	}

	rev, err := s.revisions.SaveReview(ctx, userID, flashcardID, func(existing *domain.Revision) domain.Revision {
		if existing != nil && existing.LastDate == today {
			return *existing
		}
		return s.strategy.Apply(existing, today)
	})
	if err != nil {
		return ReviewResult{}, fmt.Errorf("saving review for flashcard %d: %w", flashcardID, err)
	}

	next, err := scheduler.NextDueDate(s.strategy, rev.LastDate, rev.Level)
	if err != nil {
		return ReviewResult{}, fmt.Errorf("computing next due date for flashcard %d: %w", flashcardID, err)
	}

	s.logger.Info("flashcard reviewed",
		zap.Int64("flashcard_id", flashcardID),
		zap.Int64("user_id", userID),
		zap.Int("level", rev.Level),
		zap.String("next_due", next),
	)
	return ReviewResult{
		Level:            rev.Level,
		LastDate:         rev.LastDate,
		NextRevisionDate: next,
	}, nil
}
