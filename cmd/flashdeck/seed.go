package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/flashdeck/internal/auth"
	"github.com/example/flashdeck/internal/domain"
	"github.com/example/flashdeck/internal/scheduler"
	"github.com/example/flashdeck/internal/storage"
)

// runSeed inserts a pair of demo users, each with a public collection, one
// flashcard, and a level-1 revision record dated today. Re-running against a
// seeded database is a no-op.
func runSeed(ctx context.Context, db *storage.DB, bcryptCost int, logger *zap.Logger) error {
	existing, err := db.FindUserByEmail(ctx, "ada@example.com")
	if err != nil {
		return fmt.Errorf("checking for existing seed data: %w", err)
	}
	if existing != nil {
		logger.Info("database already seeded, nothing to do")
		return nil
	}

	type seedEntry struct {
		user  domain.User
		coll  domain.Collection
		card  domain.Flashcard
		plain string
	}
	entries := []seedEntry{
		{
			user: domain.User{Email: "ada@example.com", Name: "Ada", LastName: "Lovelace"},
			coll: domain.Collection{
				Title:       "History of France",
				Description: "From the Middle Ages to the present day.",
				IsPublic:    true,
			},
			card: domain.Flashcard{
				Front:   "When was Charlemagne crowned emperor?",
				Back:    "25 December 800",
				BackURL: "https://en.wikipedia.org/wiki/Charlemagne",
			},
			plain: "password-ada",
		},
		{
			user: domain.User{Email: "alan@example.com", Name: "Alan", LastName: "Turing"},
			coll: domain.Collection{
				Title:       "Cell Biology",
				Description: "First-year cell biology flashcards.",
				IsPublic:    true,
			},
			card: domain.Flashcard{
				Front:   "What do mitochondria do?",
				Back:    "Produce energy (ATP) for the cell.",
				BackURL: "https://en.wikipedia.org/wiki/Mitochondrion",
			},
			plain: "password-alan",
		},
	}

	today := scheduler.Today()
	for _, e := range entries {
		hash, err := auth.HashPassword(e.plain, bcryptCost)
		if err != nil {
			return fmt.Errorf("hashing seed password: %w", err)
		}
		e.user.Password = hash
		if err := db.CreateUser(ctx, &e.user); err != nil {
			return fmt.Errorf("seeding user %s: %w", e.user.Email, err)
		}

		e.coll.OwnerID = e.user.ID
		if err := db.CreateCollection(ctx, &e.coll); err != nil {
			return fmt.Errorf("seeding collection %q: %w", e.coll.Title, err)
		}

		e.card.CollectionID = e.coll.ID
		if err := db.CreateFlashcard(ctx, &e.card); err != nil {
			return fmt.Errorf("seeding flashcard: %w", err)
		}

		_, err = db.SaveReview(ctx, e.user.ID, e.card.ID, func(*domain.Revision) domain.Revision {
			return domain.Revision{Level: 1, LastDate: today}
		})
		if err != nil {
			return fmt.Errorf("seeding revision: %w", err)
		}

		logger.Info("seeded account",
			zap.String("email", e.user.Email),
			zap.String("collection", e.coll.Title),
		)
	}
	return nil
}
