// Package web exposes the HTTP API: auth, collections, flashcards, and the
// revision endpoints.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/example/flashdeck/internal/auth"
	"github.com/example/flashdeck/internal/revision"
	"github.com/example/flashdeck/internal/scheduler"
	"github.com/example/flashdeck/internal/storage"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	db         *storage.DB
	router     *http.ServeMux
	reviews    *revision.Service
	tokens     *auth.TokenManager
	validate   *validator.Validate
	logger     *zap.Logger
	bcryptCost int

	// now returns the current day as YYYY-MM-DD; swapped out in tests.
	now func() string
}

// NewServer creates and configures a new server.
func NewServer(db *storage.DB, tokens *auth.TokenManager, bcryptCost int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		db:         db,
		router:     http.NewServeMux(),
		reviews:    revision.NewService(db, db, db, scheduler.NewLeitner(), logger),
		tokens:     tokens,
		validate:   validator.New(),
		logger:     logger,
		bcryptCost: bcryptCost,
		now:        scheduler.Today,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.router.ServeHTTP(w, r)
	s.logger.Debug("request handled",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Duration("duration", time.Since(start)),
	)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	s.router.HandleFunc("POST /auth/register", s.handleRegister)
	s.router.HandleFunc("POST /auth/login", s.handleLogin)

	s.router.Handle("GET /users/me", s.requireAuth(s.handleMe))

	s.router.Handle("GET /admin/users", s.requireAuth(s.requireAdmin(s.handleListUsers)))
	s.router.Handle("GET /admin/users/{userId}", s.requireAuth(s.requireAdmin(s.handleGetUser)))
	s.router.Handle("DELETE /admin/users/{userId}", s.requireAuth(s.requireAdmin(s.handleDeleteUser)))

	s.router.Handle("GET /collections", s.requireAuth(s.handleListCollections))
	s.router.Handle("POST /collections", s.requireAuth(s.handleCreateCollection))
	s.router.Handle("GET /collections/{id}", s.requireAuth(s.handleGetCollection))
	s.router.Handle("DELETE /collections/{id}", s.requireAuth(s.handleDeleteCollection))

	s.router.Handle("POST /flashcards", s.requireAuth(s.handleCreateFlashcard))
	s.router.Handle("GET /flashcards/{id}", s.requireAuth(s.handleGetFlashcard))
	s.router.Handle("DELETE /flashcards/{id}", s.requireAuth(s.handleDeleteFlashcard))

	s.router.Handle("GET /revision/collection/{collectionId}", s.requireAuth(s.handleDueFlashcards))
	s.router.Handle("POST /revision/flashcard/{flashcardId}", s.requireAuth(s.handleReviewFlashcard))
}

type ctxKey int

const userIDKey ctxKey = iota

// requireAuth rejects requests without a valid bearer token and stores the
// authenticated user ID in the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			s.respondError(w, http.StatusUnauthorized, "authentication token required")
			return
		}
		userID, err := s.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}

// requireAdmin re-loads the authenticated user and rejects non-admins. Must
// be used inside requireAuth.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.db.FindUserByID(r.Context(), userIDFrom(r))
		if err != nil {
			s.internalError(w, "loading user", err)
			return
		}
		if user == nil {
			s.respondError(w, http.StatusUnauthorized, "user not found")
			return
		}
		if !user.Admin {
			s.respondError(w, http.StatusForbidden, "must be admin")
			return
		}
		next(w, r)
	}
}

// userIDFrom returns the authenticated user ID set by requireAuth.
func userIDFrom(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey).(int64)
	return id
}

// pathID parses a numeric path wildcard, writing a 400 when it is not a
// valid ID.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes and validates a request body, writing a 400 on failure.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}

func zapUserID(id int64) zap.Field {
	return zap.Int64("user_id", id)
}

// internalError logs the cause and hides it behind a generic 500.
func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("internal error", zap.String("op", op), zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, "internal server error")
}
