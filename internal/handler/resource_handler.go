package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"auth-fabric/internal/middleware"
	"auth-fabric/internal/model"
	"auth-fabric/internal/service"
	"auth-fabric/pkg/apierror"
)

type tokenRevoker interface {
	Revoke(tokenString string)
}

// ResourceHandler exposes the resource service's endpoints: the handshake
// endpoints the identity service calls and the token-protected ones.
type ResourceHandler struct {
	service *service.ResourceService
	revoker tokenRevoker
}

func NewResourceHandler(service *service.ResourceService, revoker tokenRevoker) *ResourceHandler {
	return &ResourceHandler{service: service, revoker: revoker}
}

func (h *ResourceHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		writeError(w, apierror.New("BAD_REQUEST", "username is required", "", http.StatusBadRequest))
		return
	}

	exists, err := h.service.UsernameExists(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ExistsResponse{Exists: exists})
}

func (h *ResourceHandler) ValidateUser(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.ValidateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if err := h.service.ValidateCredentials(r.Context(), payload.Username, payload.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "User is valid"})
}

func (h *ResourceHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SyncUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	user, err := h.service.RegisterSync(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *ResourceHandler) UserEndpoint(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{
		Message: fmt.Sprintf("Access granted for user: %s", claims.Subject),
	})
}

func (h *ResourceHandler) AdminEndpoint(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{
		Message: fmt.Sprintf("Access granted for admin: %s", claims.Subject),
	})
}

func (h *ResourceHandler) RevokeToken(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RevokeTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	payload.Token = strings.TrimSpace(payload.Token)
	if payload.Token == "" {
		writeError(w, apierror.New("BAD_REQUEST", "token is required", "token", http.StatusBadRequest))
		return
	}

	h.revoker.Revoke(payload.Token)
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Token revoked"})
}
