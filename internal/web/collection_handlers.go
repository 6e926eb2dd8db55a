package web

import (
	"net/http"

	"github.com/example/flashdeck/internal/domain"
)

type createCollectionRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
	IsPublic    bool   `json:"isPublic"`
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	coll := domain.Collection{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		OwnerID:     userIDFrom(r),
	}
	if err := s.db.CreateCollection(r.Context(), &coll); err != nil {
		s.internalError(w, "creating collection", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, coll)
}

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := s.db.ListCollections(r.Context(), userIDFrom(r))
	if err != nil {
		s.internalError(w, "listing collections", err)
		return
	}
	if cols == nil {
		cols = []domain.Collection{}
	}
	s.respondJSON(w, http.StatusOK, cols)
}

func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	coll, err := s.db.GetCollection(r.Context(), id)
	if err != nil {
		s.internalError(w, "loading collection", err)
		return
	}
	if coll == nil {
		s.respondError(w, http.StatusNotFound, "collection not found")
		return
	}
	if !coll.ReadableBy(userIDFrom(r)) {
		s.respondError(w, http.StatusForbidden, "access to collection denied")
		return
	}
	s.respondJSON(w, http.StatusOK, coll)
}

func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	coll, err := s.db.GetCollection(r.Context(), id)
	if err != nil {
		s.internalError(w, "loading collection", err)
		return
	}
	if coll == nil {
		s.respondError(w, http.StatusNotFound, "collection not found")
		return
	}

	userID := userIDFrom(r)
	if coll.OwnerID != userID {
		user, err := s.db.FindUserByID(r.Context(), userID)
		if err != nil {
			s.internalError(w, "loading user", err)
			return
		}
		if user == nil || !user.Admin {
			s.respondError(w, http.StatusForbidden, "only the owner may delete a collection")
			return
		}
	}

	if err := s.db.DeleteCollection(r.Context(), id); err != nil {
		s.internalError(w, "deleting collection", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"message":             "collection deleted",
		"deletedCollectionId": id,
	})
}
