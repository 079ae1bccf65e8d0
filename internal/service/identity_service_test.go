package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"auth-fabric/internal/client"
	"auth-fabric/internal/keys"
	"auth-fabric/internal/model"
	"auth-fabric/internal/password"
	"auth-fabric/internal/session"
	"auth-fabric/internal/store"
	"auth-fabric/internal/token"
)

// stubResource fakes the resource service's handshake endpoints.
type stubResource struct {
	exists       bool
	validateOK   bool
	syncStatus   int
	syncReceived []model.SyncUserRequest
}

func (s *stubResource) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/check-username", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(model.ExistsResponse{Exists: s.exists})
	})
	mux.HandleFunc("/validate-user", func(w http.ResponseWriter, _ *http.Request) {
		if !s.validateOK {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(model.MessageResponse{Message: "User is valid"})
	})
	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		var payload model.SyncUserRequest
		_ = json.NewDecoder(r.Body).Decode(&payload)
		s.syncReceived = append(s.syncReceived, payload)
		w.WriteHeader(s.syncStatus)
	})
	return mux
}

func newTestIdentityService(t *testing.T, stub *stubResource) (*IdentityService, *store.Memory, *session.Tracker) {
	t.Helper()

	if stub.syncStatus == 0 {
		stub.syncStatus = http.StatusCreated
	}

	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)

	provider, err := keys.NewProvider(2048)
	require.NoError(t, err)

	users := store.NewMemory()
	sessions := session.NewTracker()
	svc := NewIdentityService(
		users,
		password.NewHasher(4),
		token.NewIssuer(provider, time.Hour),
		sessions,
		client.NewResourceClient(server.URL, time.Second),
	)
	return svc, users, sessions
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("persists locally and syncs the hash", func(t *testing.T) {
		stub := &stubResource{}
		svc, users, _ := newTestIdentityService(t, stub)

		user, err := svc.Register(context.Background(), model.RegisterRequest{
			Username: "alice",
			Password: "Secr3tPw!",
			Email:    "alice@example.com",
		})
		require.NoError(t, err)
		require.Equal(t, []string{"ROLE_USER"}, user.Authorities)
		require.NotEqual(t, "Secr3tPw!", user.PasswordHash)

		stored, err := users.FindByUsername(context.Background(), "alice")
		require.NoError(t, err)
		require.Equal(t, user.ID, stored.ID)

		require.Len(t, stub.syncReceived, 1)
		require.Equal(t, "alice", stub.syncReceived[0].Username)
		require.Equal(t, user.PasswordHash, stub.syncReceived[0].PasswordHash)
	})

	t.Run("normalizes supplied roles", func(t *testing.T) {
		svc, _, _ := newTestIdentityService(t, &stubResource{})

		user, err := svc.Register(context.Background(), model.RegisterRequest{
			Username:    "admin1",
			Password:    "Secr3tPw!",
			Email:       "admin@example.com",
			Authorities: []string{"ADMIN", "ROLE_ROLE_USER"},
		})
		require.NoError(t, err)
		require.Equal(t, []string{"ROLE_ADMIN", "ROLE_USER"}, user.Authorities)
	})

	t.Run("remote username conflict performs no local persistence", func(t *testing.T) {
		svc, users, _ := newTestIdentityService(t, &stubResource{exists: true})

		_, err := svc.Register(context.Background(), model.RegisterRequest{
			Username: "alice",
			Password: "Secr3tPw!",
			Email:    "alice@example.com",
		})
		require.ErrorIs(t, err, model.ErrUserAlreadyExists)

		exists, err := users.ExistsByUsername(context.Background(), "alice")
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("sync failure fails the registration", func(t *testing.T) {
		svc, users, _ := newTestIdentityService(t, &stubResource{syncStatus: http.StatusInternalServerError})

		_, err := svc.Register(context.Background(), model.RegisterRequest{
			Username: "alice",
			Password: "Secr3tPw!",
			Email:    "alice@example.com",
		})
		require.ErrorIs(t, err, model.ErrSyncFailed)

		// The local record survives: the two-phase write has no rollback.
		exists, err := users.ExistsByUsername(context.Background(), "alice")
		require.NoError(t, err)
		require.True(t, exists)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		svc, _, _ := newTestIdentityService(t, &stubResource{})

		_, err := svc.Register(context.Background(), model.RegisterRequest{
			Username: "alice",
			Password: "short",
			Email:    "alice@example.com",
		})
		require.Error(t, err)

		_, err = svc.Register(context.Background(), model.RegisterRequest{
			Username: "alice",
			Password: "Secr3tPw!",
			Email:    "not-an-email",
		})
		require.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	register := func(t *testing.T, svc *IdentityService) {
		t.Helper()
		_, err := svc.Register(context.Background(), model.RegisterRequest{
			Username: "alice",
			Password: "Secr3tPw!",
			Email:    "alice@example.com",
		})
		require.NoError(t, err)
	}

	t.Run("issues a token and marks the session", func(t *testing.T) {
		svc, _, sessions := newTestIdentityService(t, &stubResource{validateOK: true})
		register(t, svc)

		signed, err := svc.Login(context.Background(), "alice", "Secr3tPw!")
		require.NoError(t, err)
		require.NotEmpty(t, signed)
		require.True(t, sessions.IsLoggedIn("alice"))
	})

	t.Run("second login without logout conflicts", func(t *testing.T) {
		svc, _, _ := newTestIdentityService(t, &stubResource{validateOK: true})
		register(t, svc)

		_, err := svc.Login(context.Background(), "alice", "Secr3tPw!")
		require.NoError(t, err)

		_, err = svc.Login(context.Background(), "alice", "Secr3tPw!")
		require.ErrorIs(t, err, model.ErrAlreadyLoggedIn)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		svc, _, _ := newTestIdentityService(t, &stubResource{validateOK: true})

		_, err := svc.Login(context.Background(), "ghost", "whatever1")
		require.ErrorIs(t, err, model.ErrUserNotFound)
	})

	t.Run("remote rejection blocks issuance even with a correct local password", func(t *testing.T) {
		svc, _, sessions := newTestIdentityService(t, &stubResource{validateOK: false})
		register(t, svc)

		_, err := svc.Login(context.Background(), "alice", "Secr3tPw!")
		require.ErrorIs(t, err, model.ErrInvalidCredentials)
		require.False(t, sessions.IsLoggedIn("alice"))
	})

	t.Run("local mismatch blocks issuance even when the remote accepts", func(t *testing.T) {
		svc, _, sessions := newTestIdentityService(t, &stubResource{validateOK: true})
		register(t, svc)

		_, err := svc.Login(context.Background(), "alice", "wrong-password")
		require.ErrorIs(t, err, model.ErrInvalidCredentials)
		require.False(t, sessions.IsLoggedIn("alice"))
	})
}

func TestLogoutAndDelete(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestIdentityService(t, &stubResource{validateOK: true})

	created, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "alice",
		Password: "Secr3tPw!",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice", "Secr3tPw!")
	require.NoError(t, err)

	t.Run("delete while logged in conflicts", func(t *testing.T) {
		require.ErrorIs(t, svc.Delete(context.Background(), created.ID), model.ErrUserLoggedIn)
	})

	t.Run("logout for an unknown user is not found", func(t *testing.T) {
		require.ErrorIs(t, svc.Logout(context.Background(), "ghost"), model.ErrUserNotFound)
	})

	t.Run("logout then delete succeeds", func(t *testing.T) {
		require.NoError(t, svc.Logout(context.Background(), "alice"))
		require.NoError(t, svc.Delete(context.Background(), created.ID))

		_, err := users.FindByID(context.Background(), created.ID)
		require.ErrorIs(t, err, model.ErrUserNotFound)
	})

	t.Run("delete of an unknown id is not found", func(t *testing.T) {
		require.ErrorIs(t, svc.Delete(context.Background(), 999), model.ErrUserNotFound)
	})
}
