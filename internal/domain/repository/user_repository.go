package repository

import (
	"context"

	"github.com/oksasatya/eventplanner/internal/domain/entity"
)

// UserRepository defines the credential store operations.
// Implementations return entity.ErrUserNotFound for missing users and
// entity.ErrDuplicateEmail when the unique email constraint is violated.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
