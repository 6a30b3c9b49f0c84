package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/model/request"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, updatedAt time.Time) (domain.User, error)
}

type UserService interface {
	GetCurrentUser(ctx context.Context, identity domain.Identity) (domain.User, error)
	ChangePassword(ctx context.Context, identity domain.Identity, req *request.ChangePasswordRequest) error
}
