package web

import (
	"errors"
	"net/http"

	"github.com/example/flashdeck/internal/revision"
)

func (s *Server) handleDueFlashcards(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := s.pathID(w, r, "collectionId")
	if !ok {
		return
	}

	due, err := s.reviews.DueFlashcards(r.Context(), collectionID, userIDFrom(r), s.now())
	if err != nil {
		s.reviewError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, due)
}

func (s *Server) handleReviewFlashcard(w http.ResponseWriter, r *http.Request) {
	flashcardID, ok := s.pathID(w, r, "flashcardId")
	if !ok {
		return
	}

	result, err := s.reviews.Review(r.Context(), flashcardID, userIDFrom(r), s.now())
	if err != nil {
		s.reviewError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// reviewError maps review service failures onto HTTP statuses.
func (s *Server) reviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, revision.ErrCollectionNotFound):
		s.respondError(w, http.StatusNotFound, "collection not found")
	case errors.Is(err, revision.ErrFlashcardNotFound):
		s.respondError(w, http.StatusNotFound, "flashcard not found")
	case errors.Is(err, revision.ErrForbidden):
		s.respondError(w, http.StatusForbidden, "access denied")
	default:
		s.internalError(w, "review", err)
	}
}
