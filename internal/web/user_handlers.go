package web

import (
	"net/http"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.db.FindUserByID(r.Context(), userIDFrom(r))
	if err != nil {
		s.internalError(w, "loading user", err)
		return
	}
	if user == nil {
		s.respondError(w, http.StatusUnauthorized, "user not found")
		return
	}
	s.respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.db.ListUsers(r.Context())
	if err != nil {
		s.internalError(w, "listing users", err)
		return
	}
	s.respondJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "userId")
	if !ok {
		return
	}
	user, err := s.db.FindUserByID(r.Context(), id)
	if err != nil {
		s.internalError(w, "loading user", err)
		return
	}
	if user == nil {
		s.respondError(w, http.StatusNotFound, "user not found")
		return
	}
	s.respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "userId")
	if !ok {
		return
	}
	user, err := s.db.FindUserByID(r.Context(), id)
	if err != nil {
		s.internalError(w, "loading user", err)
		return
	}
	if user == nil {
		s.respondError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := s.db.DeleteUser(r.Context(), id); err != nil {
		s.internalError(w, "deleting user", err)
		return
	}

	s.logger.Info("user deleted", zapUserID(id))
	s.respondJSON(w, http.StatusOK, map[string]any{
		"message":       "user and all associated data deleted",
		"deletedUserId": id,
	})
}
