package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"auth-fabric/internal/model"
	"auth-fabric/internal/service"
	"auth-fabric/pkg/apierror"
)

// AuthHandler exposes the identity service's registration, login and account
// management endpoints.
type AuthHandler struct {
	service *service.IdentityService
}

func NewAuthHandler(service *service.IdentityService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	user, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	password := r.URL.Query().Get("password")

	if username == "" || password == "" {
		writeError(w, apierror.New("BAD_REQUEST", "username and password are required", "", http.StatusBadRequest))
		return
	}

	signed, err := h.service.Login(r.Context(), username, password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.TokenResponse{Token: signed})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		writeError(w, apierror.New("BAD_REQUEST", "username is required", "", http.StatusBadRequest))
		return
	}

	if err := h.service.Logout(r.Context(), username); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "User logged out"})
}

func (h *AuthHandler) UserInfo(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		writeError(w, apierror.New("BAD_REQUEST", "username is required", "", http.StatusBadRequest))
		return
	}

	user, err := h.service.UserInfo(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("id")), 10, 64)
	if err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "id must be a number", "id", http.StatusBadRequest))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "User deleted"})
}
