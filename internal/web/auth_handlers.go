package web

import (
	"net/http"

	"github.com/example/flashdeck/internal/auth"
	"github.com/example/flashdeck/internal/domain"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,max=255"`
	LastName string `json:"lastName" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	existing, err := s.db.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		s.internalError(w, "checking email", err)
		return
	}
	if existing != nil {
		s.respondError(w, http.StatusConflict, "email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		s.internalError(w, "hashing password", err)
		return
	}

	user := domain.User{
		Email:    req.Email,
		Name:     req.Name,
		LastName: req.LastName,
		Password: hash,
	}
	if err := s.db.CreateUser(r.Context(), &user); err != nil {
		s.internalError(w, "creating user", err)
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.internalError(w, "issuing token", err)
		return
	}

	s.logger.Info("user registered", zapUserID(user.ID))
	s.respondJSON(w, http.StatusCreated, map[string]any{
		"message": "user created",
		"user":    user,
		"token":   token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, err := s.db.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		s.internalError(w, "loading user", err)
		return
	}
	// One message for both failure modes, no account enumeration.
	if user == nil || !auth.CheckPassword(user.Password, req.Password) {
		s.respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.internalError(w, "issuing token", err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"message": "login successful",
		"user":    user,
		"token":   token,
	})
}
