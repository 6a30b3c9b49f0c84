package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"tasktracker/internal/adapter/database/sqlite/repository"
	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/model/request"
	"tasktracker/internal/core/port"
	"tasktracker/internal/core/service"
	"tasktracker/internal/core/telemetry"
	"tasktracker/internal/core/util"
	. "tasktracker/pkg/test"
	"tasktracker/pkg/test/factory"
)

type UserUseCaseTestSuite struct {
	suite.Suite
	UseCase port.UserService
	repo    port.UserRepository
	hasher  port.PasswordHasher
	clock   *FixedClock
	user    domain.User
}

func (s *UserUseCaseTestSuite) SetupTest() {
	db := InitTestDB()
	s.T().Cleanup(func() { db.Close() })

	s.clock = NewFixedClock(time.Now())
	s.hasher = util.NewBcryptHasher(bcrypt.MinCost)
	s.repo = repository.NewUserRepository(db, telemetry.NewNoOpProbe())
	s.UseCase = service.NewUserService(s.repo, s.hasher, s.clock, nil)

	user, err := s.repo.Create(ctx, factory.NewUser())
	s.Require().NoError(err)
	s.user = user
}

func TestUserUseCaseTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserUseCaseTestSuite))
}

func (s *UserUseCaseTestSuite) TestUseCase_GetCurrentUser() {
	user, err := s.UseCase.GetCurrentUser(ctx, s.user.Identity())

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), s.user.Email, user.Email)
}

func (s *UserUseCaseTestSuite) TestUseCase_GetCurrentUser_NotFound() {
	_, err := s.UseCase.GetCurrentUser(ctx, domain.Identity{UserID: uuid.New(), Email: "ghost@example.com"})

	Expect(errors.Is(err, domain.ErrUserNotFound)).To(BeTrue())
}

func (s *UserUseCaseTestSuite) TestUseCase_ChangePassword_Success() {
	s.clock.Advance(time.Hour)

	err := s.UseCase.ChangePassword(ctx, s.user.Identity(), &request.ChangePasswordRequest{
		CurrentPassword:    factory.DefaultPassword,
		NewPassword:        "brand-new",
		NewPasswordConfirm: "brand-new",
	})

	Expect(err).ToNot(HaveOccurred())

	stored, err := s.repo.GetByID(ctx, s.user.ID)
	Expect(err).ToNot(HaveOccurred())
	Expect(s.hasher.Verify("brand-new", stored.PasswordHash)).To(BeTrue())
	Expect(s.hasher.Verify(factory.DefaultPassword, stored.PasswordHash)).To(BeFalse())
	Expect(stored.UpdatedAt.Equal(s.clock.Now())).To(BeTrue())
}

func (s *UserUseCaseTestSuite) TestUseCase_ChangePassword_InvalidCurrent() {
	err := s.UseCase.ChangePassword(ctx, s.user.Identity(), &request.ChangePasswordRequest{
		CurrentPassword:    "wrong",
		NewPassword:        "brand-new",
		NewPasswordConfirm: "brand-new",
	})

	Expect(errors.Is(err, domain.ErrInvalidPassword)).To(BeTrue())
}

func (s *UserUseCaseTestSuite) TestUseCase_ChangePassword_Mismatch() {
	err := s.UseCase.ChangePassword(ctx, s.user.Identity(), &request.ChangePasswordRequest{
		CurrentPassword:    factory.DefaultPassword,
		NewPassword:        "brand-new",
		NewPasswordConfirm: "brand-old",
	})

	Expect(errors.Is(err, domain.ErrPasswordMismatch)).To(BeTrue())

	stored, _ := s.repo.GetByID(ctx, s.user.ID)
	Expect(stored.PasswordHash).To(Equal(s.user.PasswordHash))
}
