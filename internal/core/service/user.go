package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/model/request"
	"tasktracker/internal/core/port"
	"tasktracker/internal/core/telemetry"
)

type UserService struct {
	repo   port.UserRepository
	hasher port.PasswordHasher
	clock  port.Clock
	probe  port.Telemetry
}

func NewUserService(repo port.UserRepository, hasher port.PasswordHasher, clock port.Clock, probe port.Telemetry) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		clock:  clock,
		probe:  telemetry.OrNoOp(probe),
	}
}

func (us *UserService) GetCurrentUser(ctx context.Context, identity domain.Identity) (domain.User, error) {
	user, err := us.repo.GetByID(ctx, identity.UserID)

	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.User{}, domain.NewUserNotFoundError(identity.UserID)
	}

	if err != nil {
		slog.Error("User#GetCurrentUser", "get_by_id", err)
		return domain.User{}, domain.NewInternalError(err)
	}

	return user, nil
}

func (us *UserService) ChangePassword(ctx context.Context, identity domain.Identity, req *request.ChangePasswordRequest) error {
	start := time.Now()
	ctx, span := us.probe.StartServiceSpan(ctx, "user", "change_password", identity.UserID.String(), nil)
	defer span.End()

	err := us.changePassword(ctx, identity, req)
	us.probe.RecordServiceOperation(ctx, "user", "change_password", identity.UserID.String(), time.Since(start), err)

	return err
}

func (us *UserService) changePassword(ctx context.Context, identity domain.Identity, req *request.ChangePasswordRequest) error {
	user, err := us.GetCurrentUser(ctx, identity)

	if err != nil {
		return err
	}

	if !us.hasher.Verify(req.CurrentPassword, user.PasswordHash) {
		slog.Warn("User#ChangePassword", "invalid_password", user.ID)
		return domain.NewInvalidPasswordError()
	}

	if req.NewPassword != req.NewPasswordConfirm {
		return domain.NewPasswordMismatchError()
	}

	hash, err := us.hasher.Hash(req.NewPassword)

	if err != nil {
		slog.Error("User#ChangePassword", "hash_password", err)
		return domain.NewInternalError(err)
	}

	_, err = us.repo.UpdatePassword(ctx, user.ID, hash, us.clock.Now())

	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.NewUserNotFoundError(user.ID)
	}

	if err != nil {
		slog.Error("User#ChangePassword", "update_password", err)
		return domain.NewInternalError(err)
	}

	return nil
}
