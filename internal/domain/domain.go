// Package domain holds the persisted entities shared across the service.
package domain

import "time"

// User is an account row. Password holds the bcrypt hash and is never
// serialized.
type User struct {
	ID        int64     `db:"id_user" json:"idUser"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	LastName  string    `db:"last_name" json:"lastName"`
	Password  string    `db:"password" json:"-"`
	Admin     bool      `db:"admin" json:"admin"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Collection groups flashcards under one owner. A public collection is
// readable (and reviewable) by any authenticated user.
type Collection struct {
	ID          int64  `db:"id_collection" json:"idCollection"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	IsPublic    bool   `db:"is_public" json:"isPublic"`
	OwnerID     int64  `db:"id_user" json:"idUser"`
}

// ReadableBy reports whether userID may read the collection.
func (c Collection) ReadableBy(userID int64) bool {
	return c.IsPublic || c.OwnerID == userID
}

// Flashcard belongs to exactly one collection. It carries no review state of
// its own; per-user progress lives in Revision.
type Flashcard struct {
	ID           int64  `db:"id_flashcard" json:"idFlashcard"`
	Front        string `db:"front" json:"front"`
	Back         string `db:"back" json:"back"`
	FrontURL     string `db:"front_url" json:"frontUrl,omitempty"`
	BackURL      string `db:"back_url" json:"backUrl,omitempty"`
	CollectionID int64  `db:"id_collection" json:"idCollection"`
}

// Revision is one user's learning progress on one flashcard, keyed by
// (UserID, FlashcardID). A pair with no row has never been reviewed; that
// state is represented as a nil *Revision, not a zero level.
//
// LastDate is a date-only string in YYYY-MM-DD form. Level is 1..5 and only
// ever moves up.
type Revision struct {
	UserID      int64  `db:"id_user" json:"-"`
	FlashcardID int64  `db:"id_flashcard" json:"-"`
	Level       int    `db:"level" json:"level"`
	LastDate    string `db:"last_date" json:"lastDate"`
}
