package service

import (
	"context"
	"log/slog"
	"strings"

	"auth-fabric/internal/model"
	"auth-fabric/internal/password"
	"auth-fabric/internal/store"
	"auth-fabric/internal/token"
)

// ResourceService owns the resource side of the handshake: the local user
// mirror that registration pushes populate, and the credential check the
// identity service calls during login.
type ResourceService struct {
	users  store.Users
	hasher *password.Hasher
}

func NewResourceService(users store.Users, hasher *password.Hasher) *ResourceService {
	return &ResourceService{users: users, hasher: hasher}
}

// UsernameExists answers the identity service's pre-registration uniqueness
// check against the mirror.
func (s *ResourceService) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.users.ExistsByUsername(ctx, username)
}

// ValidateCredentials checks a username/password pair against the mirror.
// An unknown user and a wrong password both come back as invalid
// credentials; which check failed is not revealed.
func (s *ResourceService) ValidateCredentials(ctx context.Context, username string, plaintext string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return model.ErrInvalidCredentials
	}

	if !s.hasher.Matches(plaintext, user.PasswordHash) {
		return model.ErrInvalidCredentials
	}

	return nil
}

// RegisterSync stores a record pushed by the identity service. The pushed
// password field already holds the bcrypt hash and is stored verbatim.
func (s *ResourceService) RegisterSync(ctx context.Context, req model.SyncUserRequest) (model.User, error) {
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.PasswordHash) == "" {
		return model.User{}, model.ErrInvalidInput
	}

	authorities := token.NormalizeRoles(req.Authorities)
	if len(authorities) == 0 {
		authorities = []string{DefaultAuthority}
	}

	user, err := s.users.Create(ctx, model.User{
		Username:     req.Username,
		PasswordHash: req.PasswordHash,
		Email:        req.Email,
		Authorities:  authorities,
	})
	if err != nil {
		return model.User{}, err
	}

	slog.Info("user synced into mirror", "username", user.Username, "id", user.ID)
	return user, nil
}

// FindUser looks up a mirrored user record by username.
func (s *ResourceService) FindUser(ctx context.Context, username string) (model.User, error) {
	return s.users.FindByUsername(ctx, username)
}
