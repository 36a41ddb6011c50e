package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/devevents/server/internal/api/problem"
	"github.com/devevents/server/internal/auth"
	"github.com/devevents/server/internal/domain/users"
	"github.com/devevents/server/internal/metrics"
)

type AuthHandler struct {
	Service *users.Service
	Tokens  *auth.JWTManager
	Env     string
}

func NewAuthHandler(service *users.Service, tokens *auth.JWTManager, env string) *AuthHandler {
	return &AuthHandler{Service: service, Tokens: tokens, Env: env}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input users.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	user, err := h.Service.Signup(r.Context(), input)
	if err != nil {
		writeUserError(w, r, err, h.Env)
		return
	}

	metrics.SignupsTotal.Inc()
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	user, err := h.Service.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		writeUserError(w, r, err, h.Env)
		return
	}

	token, err := h.Tokens.Generate(user.ID, user.Email)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeInternal, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// currentUser resolves the bearer token on r to a stored user.
func (h *AuthHandler) currentUser(r *http.Request) (*users.User, error) {
	token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}
	claims, err := h.Tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	return h.Service.GetByID(r.Context(), claims.Subject)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", err, h.Env)
		return
	}

	var patch users.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	updated, err := h.Service.Update(r.Context(), user.ID, patch)
	if err != nil {
		writeUserError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
