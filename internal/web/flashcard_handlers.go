package web

import (
	"net/http"

	"github.com/example/flashdeck/internal/domain"
)

type createFlashcardRequest struct {
	Front        string `json:"front" validate:"required,max=300"`
	Back         string `json:"back" validate:"required,max=300"`
	FrontURL     string `json:"frontUrl" validate:"omitempty,url,max=300"`
	BackURL      string `json:"backUrl" validate:"omitempty,url,max=300"`
	CollectionID int64  `json:"idCollection" validate:"required,gt=0"`
}

func (s *Server) handleCreateFlashcard(w http.ResponseWriter, r *http.Request) {
	var req createFlashcardRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	coll, err := s.db.GetCollection(r.Context(), req.CollectionID)
	if err != nil {
		s.internalError(w, "loading collection", err)
		return
	}
	if coll == nil {
		s.respondError(w, http.StatusNotFound, "collection not found")
		return
	}
	if coll.OwnerID != userIDFrom(r) {
		s.respondError(w, http.StatusForbidden, "only the owner may add flashcards")
		return
	}

	card := domain.Flashcard{
		Front:        req.Front,
		Back:         req.Back,
		FrontURL:     req.FrontURL,
		BackURL:      req.BackURL,
		CollectionID: req.CollectionID,
	}
	if err := s.db.CreateFlashcard(r.Context(), &card); err != nil {
		s.internalError(w, "creating flashcard", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, card)
}

func (s *Server) handleGetFlashcard(w http.ResponseWriter, r *http.Request) {
	card, coll, ok := s.loadFlashcard(w, r)
	if !ok {
		return
	}
	if !coll.ReadableBy(userIDFrom(r)) {
		s.respondError(w, http.StatusForbidden, "access to flashcard denied")
		return
	}
	s.respondJSON(w, http.StatusOK, card)
}

func (s *Server) handleDeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	card, coll, ok := s.loadFlashcard(w, r)
	if !ok {
		return
	}
	if coll.OwnerID != userIDFrom(r) {
		s.respondError(w, http.StatusForbidden, "only the owner may delete flashcards")
		return
	}
	if err := s.db.DeleteFlashcard(r.Context(), card.ID); err != nil {
		s.internalError(w, "deleting flashcard", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"message":            "flashcard deleted",
		"deletedFlashcardId": card.ID,
	})
}

// loadFlashcard resolves the {id} wildcard to a flashcard and its owning
// collection, writing the 400/404 responses itself.
func (s *Server) loadFlashcard(w http.ResponseWriter, r *http.Request) (*domain.Flashcard, *domain.Collection, bool) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return nil, nil, false
	}
	card, err := s.db.GetFlashcard(r.Context(), id)
	if err != nil {
		s.internalError(w, "loading flashcard", err)
		return nil, nil, false
	}
	if card == nil {
		s.respondError(w, http.StatusNotFound, "flashcard not found")
		return nil, nil, false
	}
	coll, err := s.db.GetCollection(r.Context(), card.CollectionID)
	if err != nil {
		s.internalError(w, "loading collection", err)
		return nil, nil, false
	}
	if coll == nil {
		s.respondError(w, http.StatusNotFound, "collection not found")
		return nil, nil, false
	}
	return card, coll, true
}
