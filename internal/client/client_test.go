package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"auth-fabric/internal/keys"
	"auth-fabric/internal/model"
)

func TestCheckUsername(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/check-username", r.URL.Path)
		exists := r.URL.Query().Get("username") == "taken"
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.ExistsResponse{Exists: exists})
	}))
	t.Cleanup(server.Close)

	c := NewResourceClient(server.URL, time.Second)

	taken, err := c.CheckUsername(context.Background(), "taken")
	require.NoError(t, err)
	require.True(t, taken)

	free, err := c.CheckUsername(context.Background(), "free")
	require.NoError(t, err)
	require.False(t, free)
}

func TestCheckUsernameUpstreamFailure(t *testing.T) {
	t.Parallel()

	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(server.Close)

		_, err := NewResourceClient(server.URL, time.Second).CheckUsername(context.Background(), "alice")
		require.ErrorIs(t, err, model.ErrUpstreamUnavailable)
	})

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close()

		_, err := NewResourceClient(server.URL, time.Second).CheckUsername(context.Background(), "alice")
		require.ErrorIs(t, err, model.ErrUpstreamUnavailable)
	})
}

func TestValidateCredentials(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/validate-user", r.URL.Path)

		var payload model.ValidateUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		if payload.Username == "alice" && payload.Password == "Secr3tPw!" {
			_ = json.NewEncoder(w).Encode(model.MessageResponse{Message: "User is valid"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	c := NewResourceClient(server.URL, time.Second)

	require.NoError(t, c.ValidateCredentials(context.Background(), "alice", "Secr3tPw!"))
	require.ErrorIs(t, c.ValidateCredentials(context.Background(), "alice", "wrong"),
		model.ErrInvalidCredentials)
}

func TestSyncUser(t *testing.T) {
	t.Parallel()

	t.Run("201 succeeds", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/register", r.URL.Path)

			var payload model.SyncUserRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.Equal(t, "alice", payload.Username)
			require.NotEmpty(t, payload.PasswordHash)

			w.WriteHeader(http.StatusCreated)
		}))
		t.Cleanup(server.Close)

		err := NewResourceClient(server.URL, time.Second).SyncUser(context.Background(), model.SyncUserRequest{
			Username:     "alice",
			PasswordHash: "$2a$12$hash",
			Email:        "alice@example.com",
		})
		require.NoError(t, err)
	})

	t.Run("non-201 is a sync failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))
		t.Cleanup(server.Close)

		err := NewResourceClient(server.URL, time.Second).SyncUser(context.Background(), model.SyncUserRequest{
			Username:     "alice",
			PasswordHash: "x",
		})
		require.ErrorIs(t, err, model.ErrSyncFailed)
	})
}

func TestFetchPublicKey(t *testing.T) {
	t.Parallel()

	provider, err := keys.NewProvider(2048)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/oauth2/jwks", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(provider.JWKS())
		}))
		t.Cleanup(server.Close)

		public, err := FetchPublicKey(context.Background(), server.URL+"/oauth2/jwks", time.Second)
		require.NoError(t, err)
		require.Equal(t, 0, provider.Public().N.Cmp(public.N))
		require.Equal(t, provider.Public().E, public.E)
	})

	t.Run("unreachable endpoint fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close()

		_, err := FetchPublicKey(context.Background(), server.URL+"/oauth2/jwks", time.Second)
		require.Error(t, err)
	})

	t.Run("empty key set fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(keys.JWKS{})
		}))
		t.Cleanup(server.Close)

		_, err := FetchPublicKey(context.Background(), server.URL, time.Second)
		require.Error(t, err)
	})
}
