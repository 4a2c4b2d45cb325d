package server

import (
	"encoding/json"
	"net/http"
)

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := s.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "failed to look up user")
		return
	}
	if existing != nil {
		errorResponse(w, httpStatus(ErrEmailAlreadyExists), ErrEmailAlreadyExists.Error())
		return
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user, err := s.users.CreateUser(r.Context(), req.Name, req.Email, hash)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	jsonResponse(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "failed to look up user")
		return
	}
	if user == nil || !s.passwords.VerifyPassword(req.Password, user.PasswordHash) {
		errorResponse(w, httpStatus(ErrInvalidCredentials), ErrInvalidCredentials.Error())
		return
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	jsonResponse(w, http.StatusOK, LoginResponse{Token: token})
}
