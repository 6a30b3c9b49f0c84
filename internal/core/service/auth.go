package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/model/request"
	"tasktracker/internal/core/port"
	"tasktracker/internal/core/telemetry"
)

type AuthService struct {
	repo   port.UserRepository
	tokens port.TokenService
	hasher port.PasswordHasher
	clock  port.Clock
	ttl    time.Duration
	probe  port.Telemetry
}

func NewAuthService(repo port.UserRepository, tokens port.TokenService, hasher port.PasswordHasher, clock port.Clock, ttl time.Duration, probe port.Telemetry) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		hasher: hasher,
		clock:  clock,
		ttl:    ttl,
		probe:  telemetry.OrNoOp(probe),
	}
}

func (as *AuthService) Registration(ctx context.Context, req *request.SignUpRequest) (domain.User, error) {
	start := time.Now()
	ctx, span := as.probe.StartServiceSpan(ctx, "auth", "registration", "", nil)
	defer span.End()

	user, err := as.register(ctx, req)
	as.probe.RecordServiceOperation(ctx, "auth", "registration", user.ID.String(), time.Since(start), err)

	if err == nil {
		as.probe.RecordBusinessEvent(ctx, "user_registered", "user", user.ID.String(), user.ID.String(), nil)
	}

	return user, err
}

func (as *AuthService) register(ctx context.Context, req *request.SignUpRequest) (domain.User, error) {
	_, err := as.repo.GetByEmail(ctx, req.Email)

	if err == nil {
		slog.Warn("Auth#Registration", "already_exists", req.Email)
		return domain.User{}, domain.NewUserAlreadyExistsError(req.Email)
	}

	if !errors.Is(err, domain.ErrRecordNotFound) {
		slog.Error("Auth#Registration", "get_by_email", err)
		return domain.User{}, domain.NewInternalError(err)
	}

	hash, err := as.hasher.Hash(req.Password)

	if err != nil {
		slog.Error("Auth#Registration", "hash_password", err)
		return domain.User{}, domain.NewInternalError(err)
	}

	now := as.clock.Now()

	user := domain.User{
		ID:           uuid.New(),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, err := as.repo.Create(ctx, user)

	if errors.Is(err, domain.ErrDuplicateRecord) {
		slog.Warn("Auth#Registration", "already_exists", req.Email)
		return domain.User{}, domain.NewUserAlreadyExistsError(req.Email)
	}

	if err != nil {
		slog.Error("Auth#Registration", "create", err)
		return domain.User{}, domain.NewInternalError(err)
	}

	return saved, nil
}

// Authenticate fails the same way for an unknown email and a wrong password.
func (as *AuthService) Authenticate(ctx context.Context, email string, password string) (domain.User, error) {
	user, err := as.repo.GetByEmail(ctx, email)

	if errors.Is(err, domain.ErrRecordNotFound) {
		slog.Warn("Auth#Authenticate", "invalid_credentials", email)
		return domain.User{}, domain.NewAuthenticationError("")
	}

	if err != nil {
		slog.Error("Auth#Authenticate", "get_by_email", err)
		return domain.User{}, domain.NewInternalError(err)
	}

	if !as.hasher.Verify(password, user.PasswordHash) {
		slog.Warn("Auth#Authenticate", "invalid_credentials", email)
		return domain.User{}, domain.NewAuthenticationError("")
	}

	return user, nil
}

func (as *AuthService) Login(ctx context.Context, req *request.LoginRequest) (domain.AccessToken, error) {
	start := time.Now()
	ctx, span := as.probe.StartServiceSpan(ctx, "auth", "login", "", nil)
	defer span.End()

	token, userID, err := as.login(ctx, req)
	as.probe.RecordServiceOperation(ctx, "auth", "login", userID, time.Since(start), err)

	return token, err
}

func (as *AuthService) login(ctx context.Context, req *request.LoginRequest) (domain.AccessToken, string, error) {
	user, err := as.Authenticate(ctx, req.Email, req.Password)

	if err != nil {
		return domain.AccessToken{}, "", err
	}

	value, err := as.tokens.Issue(user.ID, user.Email, as.ttl)

	if err != nil {
		slog.Error("Auth#Login", "issue_token", err)
		return domain.AccessToken{}, user.ID.String(), domain.NewInternalError(err)
	}

	return domain.AccessToken{
		Value:     value,
		Type:      domain.TokenTypeBearer,
		ExpiresAt: as.clock.Now().Add(as.ttl),
	}, user.ID.String(), nil
}

func (as *AuthService) ResolveCurrentUser(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := as.tokens.Verify(token)

	if err != nil {
		return domain.Identity{}, err
	}

	return domain.Identity{UserID: claims.SubjectID, Email: claims.SubjectEmail}, nil
}
