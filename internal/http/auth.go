package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store"
)

// registerRequest is the signup payload. The password rides in its own
// field because core.User never serializes one.
type registerRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleRegister creates the account and returns the sanitized user with
// 201. The password is bcrypt-hashed before it touches the store; duplicate
// username or email comes back as a field-level validation error.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	u := core.User{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if errs := u.Validate(); len(errs) > 0 {
		ValidationError(errs).Write(w)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}
	u.Password = string(hash)

	created, err := s.store.CreateUser(r.Context(), u)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameTaken):
			ValidationError([]core.FieldError{{Field: "username", Message: "username already taken"}}).Write(w)
		case errors.Is(err, store.ErrEmailTaken):
			ValidationError([]core.FieldError{{Field: "email", Message: "email already registered"}}).Write(w)
		default:
			InternalError(r, err).Write(w)
		}
		return
	}

	slog.InfoContext(r.Context(), "User registered",
		"user_id", created.ID,
		"username", created.Username)
	NewResponse().Status(http.StatusCreated).JSON(created).Write(w)
}

// handleLogin verifies the credentials and issues the session cookie. Bad
// username and bad password produce the same 401 so the response never
// confirms which accounts exist.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			UnauthorizedError("invalid credentials").Write(w)
			return
		}
		InternalError(r, err).Write(w)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		UnauthorizedError("invalid credentials").Write(w)
		return
	}

	sess := s.sessions.Create(user.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	slog.InfoContext(r.Context(), "User logged in", "user_id", user.ID)
	NewResponse().JSON(user).Write(w)
}

// handleLogout destroys the session and clears the cookie. It is
// deliberately public and idempotent: a stale cookie still gets cleared.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.Destroy(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	MessageResponse("logged out").Write(w)
}

// handleMe returns the authenticated user resolved by withAuth.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(userFrom(r.Context())).Write(w)
}
