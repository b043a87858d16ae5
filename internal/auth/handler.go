package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"gorm.io/gorm"
)

// resetRequestedMessage is returned by the reset-request endpoint no matter
// whether the email matched a user.
const resetRequestedMessage = "If the email exists, a password reset link has been sent"

type Handler struct {
	DB      *gorm.DB
	Service *Service
}

func NewHandler(db *gorm.DB, service *Service) *Handler {
	return &Handler{DB: db, Service: service}
}

// POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "email and password are required")
		return
	}

	pair, err := h.Service.Register(h.DB, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pair)
}

// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload")
		return
	}

	pair, err := h.Service.Login(h.DB, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// POST /auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload")
		return
	}

	pair, err := h.Service.Refresh(h.DB, req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// POST /auth/logout — always succeeds, including for unknown or already
// revoked tokens.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload")
		return
	}

	if err := h.Service.Logout(h.DB, req.RefreshToken); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// POST /auth/password-reset/request
func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload")
		return
	}

	if err := h.Service.RequestReset(h.DB, req.Email); err != nil {
		// still answer with the fixed message: the body must not depend on
		// what happened server-side
		log.Printf("auth: reset request failed: %v", err)
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: resetRequestedMessage})
}

// POST /auth/password-reset/confirm
func (h *Handler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req ResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload")
		return
	}
	if req.NewPassword == "" {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "new password is required")
		return
	}

	if err := h.Service.ConfirmReset(h.DB, req.Token, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Password has been reset successfully"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}

// writeError maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an unexpected storage failure and becomes a 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		writeJSONError(w, http.StatusConflict, "USER_EXISTS", err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		writeJSONError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, ErrAccountInactive):
		writeJSONError(w, http.StatusForbidden, "ACCOUNT_INACTIVE", err.Error())
	case errors.Is(err, ErrInvalidRefreshToken):
		writeJSONError(w, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", err.Error())
	case errors.Is(err, ErrInvalidResetToken):
		writeJSONError(w, http.StatusBadRequest, "INVALID_RESET_TOKEN", err.Error())
	case errors.Is(err, ErrUnauthenticated):
		writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	default:
		log.Printf("auth: internal error: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
