package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/model/request"
)

type Clock interface {
	Now() time.Time
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext string, hash string) bool
}

type TokenClaims struct {
	SubjectID    uuid.UUID
	SubjectEmail string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

type TokenService interface {
	Issue(subjectID uuid.UUID, subjectEmail string, ttl time.Duration) (string, error)
	Verify(token string) (TokenClaims, error)
}

type AuthService interface {
	Registration(ctx context.Context, req *request.SignUpRequest) (domain.User, error)
	Authenticate(ctx context.Context, email string, password string) (domain.User, error)
	Login(ctx context.Context, req *request.LoginRequest) (domain.AccessToken, error)
	ResolveCurrentUser(ctx context.Context, token string) (domain.Identity, error)
}
