package service

import (
	"context"
	"log/slog"

	"auth-fabric/internal/client"
	"auth-fabric/internal/model"
	"auth-fabric/internal/password"
	"auth-fabric/internal/session"
	"auth-fabric/internal/store"
	"auth-fabric/internal/token"
)

// DefaultAuthority is assigned at registration when no roles are supplied.
const DefaultAuthority = "ROLE_USER"

// IdentityService composes the credential store, password hasher, token
// issuer and session tracker behind the register/login/delete operations,
// and keeps the resource service's mirror in sync on registration.
type IdentityService struct {
	users    store.Users
	hasher   *password.Hasher
	issuer   *token.Issuer
	sessions *session.Tracker
	resource *client.ResourceClient
}

func NewIdentityService(
	users store.Users,
	hasher *password.Hasher,
	issuer *token.Issuer,
	sessions *session.Tracker,
	resource *client.ResourceClient,
) *IdentityService {
	return &IdentityService{
		users:    users,
		hasher:   hasher,
		issuer:   issuer,
		sessions: sessions,
		resource: resource,
	}
}

// Register validates the input, checks username uniqueness against the
// resource service, persists the user locally and pushes the sanitized
// record (hash, never plaintext) to the resource service's mirror.
//
// The two-phase write is not transactional: when the sync push fails the
// local record stays behind and the registration reports failure. No
// compensating rollback exists.
func (s *IdentityService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	if err := model.ValidateNewUser(req.Username, req.Password, req.Email); err != nil {
		return model.User{}, err
	}

	taken, err := s.resource.CheckUsername(ctx, req.Username)
	if err != nil {
		return model.User{}, err
	}
	if taken {
		return model.User{}, model.ErrUserAlreadyExists
	}

	authorities := token.NormalizeRoles(req.Authorities)
	if len(authorities) == 0 {
		authorities = []string{DefaultAuthority}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.User{}, err
	}

	user, err := s.users.Create(ctx, model.User{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		Authorities:  authorities,
	})
	if err != nil {
		return model.User{}, err
	}

	if err := s.resource.SyncUser(ctx, model.SyncUserRequest{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Email:        user.Email,
		Authorities:  user.Authorities,
	}); err != nil {
		slog.Warn("registration sync failed; local record left behind",
			"username", user.Username, "error", err)
		return model.User{}, err
	}

	slog.Info("user registered", "username", user.Username, "id", user.ID)
	return user, nil
}

// Login rejects a concurrent login, then requires both the resource
// service's credential check and the local bcrypt re-check to pass before a
// token is issued.
func (s *IdentityService) Login(ctx context.Context, username string, plaintext string) (string, error) {
	if s.sessions.IsLoggedIn(username) {
		return "", model.ErrAlreadyLoggedIn
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	if err := s.resource.ValidateCredentials(ctx, username, plaintext); err != nil {
		return "", err
	}
	if !s.hasher.Matches(plaintext, user.PasswordHash) {
		return "", model.ErrInvalidCredentials
	}

	signed, err := s.issuer.Issue(user.Username, user.Authorities)
	if err != nil {
		return "", err
	}

	s.sessions.MarkLoggedIn(user.Username)
	slog.Info("user logged in", "username", user.Username)
	return signed, nil
}

// Logout clears the session marker. Already-issued tokens stay valid until
// they expire; the tracker is advisory state, not revocation.
func (s *IdentityService) Logout(ctx context.Context, username string) error {
	if _, err := s.users.FindByUsername(ctx, username); err != nil {
		return err
	}

	s.sessions.MarkLoggedOut(username)
	slog.Info("user logged out", "username", username)
	return nil
}

// UserInfo returns the public fields of a user.
func (s *IdentityService) UserInfo(ctx context.Context, username string) (model.User, error) {
	return s.users.FindByUsername(ctx, username)
}

// Delete removes a user, refusing while the account holds a live session.
func (s *IdentityService) Delete(ctx context.Context, id int64) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if s.sessions.IsLoggedIn(user.Username) {
		return model.ErrUserLoggedIn
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("user deleted", "username", user.Username, "id", id)
	return nil
}
