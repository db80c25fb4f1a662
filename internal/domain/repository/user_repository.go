package repository

import (
	"context"
	"errors"

	"github.com/krida-hq/krida-backend/internal/domain/entity"
)

// ErrNotFound is returned by repositories when a record does not exist.
// Services decide how (or whether) to surface it to callers.
var ErrNotFound = errors.New("record not found")

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}
