package revision

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/flashdeck/internal/domain"
)

// fakeStore backs all three store interfaces with maps, so the service can
// be exercised without a database.
type fakeStore struct {
	mu          sync.Mutex
	collections map[int64]domain.Collection
	flashcards  map[int64]domain.Flashcard
	revisions   map[[2]int64]domain.Revision
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		collections: make(map[int64]domain.Collection),
		flashcards:  make(map[int64]domain.Flashcard),
		revisions:   make(map[[2]int64]domain.Revision),
	}
}

func (f *fakeStore) GetCollection(_ context.Context, id int64) (*domain.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.collections[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeStore) GetFlashcard(_ context.Context, id int64) (*domain.Flashcard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.flashcards[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeStore) ListFlashcardsByCollection(_ context.Context, collectionID int64) ([]domain.Flashcard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var cards []domain.Flashcard
	for _, c := range f.flashcards {
		if c.CollectionID == collectionID {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards, nil
}

func (f *fakeStore) GetRevision(_ context.Context, userID, flashcardID int64) (*domain.Revision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.revisions[[2]int64{userID, flashcardID}]; ok {
		return &r, nil
	}
	return nil, nil
}

func (f *fakeStore) SaveReview(_ context.Context, userID, flashcardID int64, apply func(*domain.Revision) domain.Revision) (domain.Revision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var existing *domain.Revision
	if r, ok := f.revisions[[2]int64{userID, flashcardID}]; ok {
		existing = &r
	}
	rev := apply(existing)
	rev.UserID = userID
	rev.FlashcardID = flashcardID
	f.revisions[[2]int64{userID, flashcardID}] = rev
	return rev, nil
}

const (
	owner    int64 = 1
	stranger int64 = 2
)

func newTestService(store *fakeStore) *Service {
	return NewService(store, store, store, nil, nil)
}

func seed(store *fakeStore, isPublic bool) {
	store.collections[10] = domain.Collection{ID: 10, Title: "Capitals", IsPublic: isPublic, OwnerID: owner}
	store.flashcards[100] = domain.Flashcard{ID: 100, Front: "France", Back: "Paris", CollectionID: 10}
}

func TestDueFlashcardsUnreviewedCardIsDue(t *testing.T) {
	store := newFakeStore()
	seed(store, false)
	svc := newTestService(store)

	due, err := svc.DueFlashcards(context.Background(), 10, owner, "2024-01-10")
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, int64(100), due[0].ID)
	require.Equal(t, 0, due[0].Level)
	require.Nil(t, due[0].LastDate)
	require.Equal(t, "2024-01-10", due[0].NextRevisionDate)
}

func TestDueFlashcardsPartition(t *testing.T) {
	store := newFakeStore()
	seed(store, false)
	store.flashcards[101] = domain.Flashcard{ID: 101, Front: "Italy", Back: "Rome", CollectionID: 10}
	store.flashcards[102] = domain.Flashcard{ID: 102, Front: "Spain", Back: "Madrid", CollectionID: 10}
	// 100: unreviewed. 101: level 2, due 2024-01-09, overdue. 102: level 4,
	// due 2024-01-16, not due.
	store.revisions[[2]int64{owner, 101}] = domain.Revision{UserID: owner, FlashcardID: 101, Level: 2, LastDate: "2024-01-07"}
	store.revisions[[2]int64{owner, 102}] = domain.Revision{UserID: owner, FlashcardID: 102, Level: 4, LastDate: "2024-01-08"}
	svc := newTestService(store)

	due, err := svc.DueFlashcards(context.Background(), 10, owner, "2024-01-10")
	require.NoError(t, err)
	require.Len(t, due, 2)

	// Store order is preserved.
	require.Equal(t, int64(100), due[0].ID)
	require.Equal(t, int64(101), due[1].ID)

	require.Equal(t, 2, due[1].Level)
	require.NotNil(t, due[1].LastDate)
	require.Equal(t, "2024-01-07", *due[1].LastDate)
	require.Equal(t, "2024-01-09", due[1].NextRevisionDate)
}

func TestDueFlashcardsReadIsIdempotent(t *testing.T) {
	store := newFakeStore()
	seed(store, false)
	store.revisions[[2]int64{owner, 100}] = domain.Revision{UserID: owner, FlashcardID: 100, Level: 1, LastDate: "2024-01-01"}
	svc := newTestService(store)

	first, err := svc.DueFlashcards(context.Background(), 10, owner, "2024-01-10")
	require.NoError(t, err)
	second, err := svc.DueFlashcards(context.Background(), 10, owner, "2024-01-10")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Len(t, store.revisions, 1, "a pure read must not create records")
}

func TestDueFlashcardsAccessControl(t *testing.T) {
	t.Run("missing collection", func(t *testing.T) {
		svc := newTestService(newFakeStore())
		_, err := svc.DueFlashcards(context.Background(), 99, owner, "2024-01-10")
		require.ErrorIs(t, err, ErrCollectionNotFound)
	})

	t.Run("private collection rejects non-owner", func(t *testing.T) {
		store := newFakeStore()
		seed(store, false)
		svc := newTestService(store)
		_, err := svc.DueFlashcards(context.Background(), 10, stranger, "2024-01-10")
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("private collection admits owner", func(t *testing.T) {
		store := newFakeStore()
		seed(store, false)
		svc := newTestService(store)
		_, err := svc.DueFlashcards(context.Background(), 10, owner, "2024-01-10")
		require.NoError(t, err)
	})

	t.Run("public collection admits anyone", func(t *testing.T) {
		store := newFakeStore()
		seed(store, true)
		svc := newTestService(store)
		_, err := svc.DueFlashcards(context.Background(), 10, stranger, "2024-01-10")
		require.NoError(t, err)
	})
}

func TestReviewFirstTime(t *testing.T) {
	store := newFakeStore()
	seed(store, false)
	svc := newTestService(store)

	res, err := svc.Review(context.Background(), 100, owner, "2024-01-10")
	require.NoError(t, err)
	require.Equal(t, ReviewResult{Level: 1, LastDate: "2024-01-10", NextRevisionDate: "2024-01-11"}, res)

	rec := store.revisions[[2]int64{owner, 100}]
	require.Equal(t, 1, rec.Level)
	require.Equal(t, "2024-01-10", rec.LastDate)
}

func TestReviewAdvancesLevel(t *testing.T) {
	store := newFakeStore()
	seed(store, false)
	store.revisions[[2]int64{owner, 100}] = domain.Revision{UserID: owner, FlashcardID: 100, Level: 3, LastDate: "2024-01-01"}
	svc := newTestService(store)

	res, err := svc.Review(context.Background(), 100, owner, "2024-01-10")
	require.NoError(t, err)
	require.Equal(t, ReviewResult{Level: 4, LastDate: "2024-01-10", NextRevisionDate: "2024-01-18"}, res)
}

func TestReviewCapsAtTopLevel(t *testing.T) {
	store := newFakeStore()
	seed(store, false)
	store.revisions[[2]int64{owner, 100}] = domain.Revision{UserID: owner, FlashcardID: 100, Level: 5, LastDate: "2024-01-01"}
	svc := newTestService(store)

	res, err := svc.Review(context.Background(), 100, owner, "2024-01-10")
	require.NoError(t, err)
	require.Equal(t, 5, res.Level)
	require.Equal(t, "2024-01-26", res.NextRevisionDate) // 16 days out
}

func TestReviewSameDayIsNoOp(t *testing.T) {
	store := newFakeStore()
	seed(store, false)
	svc := newTestService(store)

	first, err := svc.Review(context.Background(), 100, owner, "2024-01-10")
	require.NoError(t, err)
	second, err := svc.Review(context.Background(), 100, owner, "2024-01-10")
	require.NoError(t, err)
	require.Equal(t, first, second, "a repeated same-day review must not advance the level")
	require.Equal(t, 1, store.revisions[[2]int64{owner, 100}].Level)
}

func TestReviewPreconditions(t *testing.T) {
	t.Run("missing flashcard", func(t *testing.T) {
		svc := newTestService(newFakeStore())
		_, err := svc.Review(context.Background(), 404, owner, "2024-01-10")
		require.ErrorIs(t, err, ErrFlashcardNotFound)
	})

	t.Run("orphaned flashcard", func(t *testing.T) {
		store := newFakeStore()
		store.flashcards[100] = domain.Flashcard{ID: 100, CollectionID: 10} // no such collection
		svc := newTestService(store)
		_, err := svc.Review(context.Background(), 100, owner, "2024-01-10")
		require.ErrorIs(t, err, ErrCollectionNotFound)
	})

	t.Run("private collection rejects non-owner", func(t *testing.T) {
		store := newFakeStore()
		seed(store, false)
		svc := newTestService(store)
		_, err := svc.Review(context.Background(), 100, stranger, "2024-01-10")
		require.ErrorIs(t, err, ErrForbidden)
		require.Empty(t, store.revisions, "a rejected review must not write")
	})

	t.Run("reviews by different users are independent", func(t *testing.T) {
		store := newFakeStore()
		seed(store, true)
		svc := newTestService(store)

		_, err := svc.Review(context.Background(), 100, owner, "2024-01-10")
		require.NoError(t, err)
		res, err := svc.Review(context.Background(), 100, stranger, "2024-01-10")
		require.NoError(t, err)
		require.Equal(t, 1, res.Level)
		require.Len(t, store.revisions, 2)
	})
}
