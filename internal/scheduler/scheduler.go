// Package scheduler implements the leveled spacing algorithm that decides
// when a flashcard is next due for a given user.
//
// All dates handled here are date-only strings in YYYY-MM-DD form. That
// format orders lexicographically the same way it orders chronologically, so
// due-date checks are plain string comparisons.
package scheduler

import (
	"fmt"
	"time"

	"github.com/example/flashdeck/internal/domain"
)

// DateLayout is the wire and storage format for review dates.
const DateLayout = "2006-01-02"

// Strategy decides how a review advances a revision record and how long a
// record at a given level waits before coming due again. The fixed leveled
// table is the default; richer policies (failure resets, ease factors) can be
// slotted in behind this interface.
type Strategy interface {
	// DelayForLevel returns the number of calendar days a record at the
	// given level waits after a review before it is due again.
	DelayForLevel(level int) int

	// Apply returns the record state after a review on the given day.
	// existing is nil when the pair has never been reviewed.
	Apply(existing *domain.Revision, today string) domain.Revision
}

// Leitner is the default strategy: a fixed delay table keyed by level, a
// fallback delay for levels outside the table, and a level ceiling.
type Leitner struct {
	Delays   map[int]int
	Fallback int
	MaxLevel int
}

// NewLeitner returns the stock table: one day at level 1, doubling up to
// sixteen days at level 5.
func NewLeitner() *Leitner {
	return &Leitner{
		Delays:   map[int]int{1: 1, 2: 2, 3: 4, 4: 8, 5: 16},
		Fallback: 16,
		MaxLevel: 5,
	}
}

// DelayForLevel returns the table delay for the level, or the fallback when
// the level is not in the table.
func (l *Leitner) DelayForLevel(level int) int {
	if d, ok := l.Delays[level]; ok {
		return d
	}
	return l.Fallback
}

// Apply advances a record by one review. A first review starts at level 1;
// subsequent reviews move the level up by one, capped at MaxLevel. The level
// never goes down.
func (l *Leitner) Apply(existing *domain.Revision, today string) domain.Revision {
	if existing == nil {
		return domain.Revision{Level: 1, LastDate: today}
	}
	level := existing.Level + 1
	if level > l.MaxLevel {
		level = l.MaxLevel
	}
	return domain.Revision{
		UserID:      existing.UserID,
		FlashcardID: existing.FlashcardID,
		Level:       level,
		LastDate:    today,
	}
}

// NextDueDate computes lastDate plus the strategy's delay for the level.
func NextDueDate(s Strategy, lastDate string, level int) (string, error) {
	return AddDays(lastDate, s.DelayForLevel(level))
}

// IsDue reports whether the record is due on or before today. A nil record
// (never reviewed) is always due.
func IsDue(s Strategy, rec *domain.Revision, today string) (bool, error) {
	if rec == nil {
		return true, nil
	}
	next, err := NextDueDate(s, rec.LastDate, rec.Level)
	if err != nil {
		return false, err
	}
	return next <= today, nil
}

// Today formats the current day in the service's date format.
func Today() string {
	return time.Now().Format(DateLayout)
}

// AddDays shifts a YYYY-MM-DD date by the given number of calendar days.
func AddDays(date string, days int) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.AddDate(0, 0, days).Format(DateLayout), nil
}
