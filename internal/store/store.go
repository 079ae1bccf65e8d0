package store

import (
	"context"

	"auth-fabric/internal/model"
)

// Users is the credential store: user records keyed by username and id.
// Create assigns the id and initial version; Update bumps the version and
// fails on a stale one (optimistic concurrency).
type Users interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user model.User) (model.User, error)
	Update(ctx context.Context, user model.User) (model.User, error)
	Delete(ctx context.Context, id int64) error
}
