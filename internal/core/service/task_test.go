package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"tasktracker/internal/adapter/database/sqlite/repository"
	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/port"
	"tasktracker/internal/core/service"
	"tasktracker/internal/core/telemetry"
	. "tasktracker/pkg/test"
	"tasktracker/pkg/test/factory"
)

type TaskUseCaseTestSuite struct {
	suite.Suite
	UseCase *service.TaskService
	repo    port.TaskRepository
	clock   *FixedClock
	owner   domain.Identity
	other   domain.Identity
}

func (s *TaskUseCaseTestSuite) SetupTest() {
	db := InitTestDB()
	s.T().Cleanup(func() { db.Close() })

	probe := telemetry.NewNoOpProbe()
	users := repository.NewUserRepository(db, probe)

	s.clock = NewFixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s.repo = repository.NewTaskRepository(db, probe)
	s.UseCase = service.NewTaskService(s.repo, s.clock, probe)

	owner, err := users.Create(ctx, factory.NewUser())
	s.Require().NoError(err)
	other, err := users.Create(ctx, factory.NewUser())
	s.Require().NoError(err)

	s.owner = owner.Identity()
	s.other = other.Identity()
}

func TestTaskUseCaseTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TaskUseCaseTestSuite))
}

func (s *TaskUseCaseTestSuite) create(owner domain.Identity, title string) domain.Task {
	task, err := s.UseCase.Create(ctx, owner, domain.Task{Title: title})
	s.Require().NoError(err)

	return task
}

func (s *TaskUseCaseTestSuite) TestUseCase_Create_Defaults() {
	task, err := s.UseCase.Create(ctx, s.owner, domain.Task{Title: "Buy milk", Description: "2L"})

	assert.NoError(s.T(), err)
	assert.NotEqual(s.T(), uuid.Nil, task.ID)
	assert.Equal(s.T(), s.owner.UserID, task.OwnerID)
	assert.Equal(s.T(), domain.PriorityMedium, task.Priority)
	assert.False(s.T(), task.Completed)
	assert.Nil(s.T(), task.CompletedAt)
	assert.True(s.T(), task.CreatedAt.Equal(s.clock.Now()))
}

func (s *TaskUseCaseTestSuite) TestUseCase_Create_InvalidPriority() {
	_, err := s.UseCase.Create(ctx, s.owner, domain.Task{Title: "x", Priority: "URGENT"})

	Expect(errors.Is(err, domain.ErrTaskCreation)).To(BeTrue())
}

func (s *TaskUseCaseTestSuite) TestUseCase_List() {
	empty, err := s.UseCase.List(ctx, s.owner)
	Expect(err).ToNot(HaveOccurred())
	Expect(empty).ToNot(BeNil())
	Expect(empty).To(BeEmpty())

	first := s.create(s.owner, "first")
	s.clock.Advance(time.Second)
	second := s.create(s.owner, "second")
	s.create(s.other, "not mine")

	tasks, err := s.UseCase.List(ctx, s.owner)

	Expect(err).ToNot(HaveOccurred())
	Expect(tasks).To(HaveLen(2))
	Expect(tasks[0].ID).To(Equal(first.ID))
	Expect(tasks[1].ID).To(Equal(second.ID))
}

func (s *TaskUseCaseTestSuite) TestUseCase_CrossUserIsolation() {
	task := s.create(s.owner, "private")
	title := "hijacked"

	_, err := s.UseCase.Get(ctx, s.other, task.ID)
	Expect(errors.Is(err, domain.ErrTaskNotFound)).To(BeTrue())

	_, err = s.UseCase.Update(ctx, s.other, task.ID, domain.TaskPatch{Title: &title})
	Expect(errors.Is(err, domain.ErrTaskNotFound)).To(BeTrue())

	_, err = s.UseCase.Complete(ctx, s.other, task.ID)
	Expect(errors.Is(err, domain.ErrTaskNotFound)).To(BeTrue())

	err = s.UseCase.Delete(ctx, s.other, task.ID)
	Expect(errors.Is(err, domain.ErrTaskNotFound)).To(BeTrue())

	stored, err := s.UseCase.Get(ctx, s.owner, task.ID)
	Expect(err).ToNot(HaveOccurred())
	Expect(stored.Title).To(Equal("private"))
	Expect(stored.Completed).To(BeFalse())
}

func (s *TaskUseCaseTestSuite) TestUseCase_Update_Partial() {
	task, err := s.UseCase.Create(ctx, s.owner, domain.Task{Title: "old", Description: "keep", Priority: domain.PriorityLow})
	s.Require().NoError(err)

	s.clock.Advance(time.Minute)
	priority := domain.PriorityHigh

	updated, err := s.UseCase.Update(ctx, s.owner, task.ID, domain.TaskPatch{Priority: &priority})

	Expect(err).ToNot(HaveOccurred())
	Expect(updated.Title).To(Equal("old"))
	Expect(updated.Description).To(Equal("keep"))
	Expect(updated.Priority).To(Equal(domain.PriorityHigh))
	Expect(updated.UpdatedAt.Equal(s.clock.Now())).To(BeTrue())
	Expect(updated.CreatedAt.Equal(task.CreatedAt)).To(BeTrue())
}

func (s *TaskUseCaseTestSuite) TestUseCase_Update_EmptyPatch() {
	task := s.create(s.owner, "unchanged")
	s.clock.Advance(time.Minute)

	updated, err := s.UseCase.Update(ctx, s.owner, task.ID, domain.TaskPatch{})

	Expect(err).ToNot(HaveOccurred())
	Expect(updated.UpdatedAt.Equal(task.UpdatedAt)).To(BeTrue())
}

func (s *TaskUseCaseTestSuite) TestUseCase_Update_InvalidPriority() {
	task := s.create(s.owner, "stays medium")
	priority := domain.Priority("URGENT")

	_, err := s.UseCase.Update(ctx, s.owner, task.ID, domain.TaskPatch{Priority: &priority})

	Expect(domain.KindOf(err)).To(Equal(domain.KindValidation))
	Expect(errors.Is(err, domain.ErrInternal)).To(BeFalse())

	stored, err := s.UseCase.Get(ctx, s.owner, task.ID)
	Expect(err).ToNot(HaveOccurred())
	Expect(stored.Priority).To(Equal(domain.PriorityMedium))
}

func (s *TaskUseCaseTestSuite) TestUseCase_Complete_Idempotent() {
	task := s.create(s.owner, "finish me")
	s.clock.Advance(time.Minute)
	completedAt := s.clock.Now()

	first, err := s.UseCase.Complete(ctx, s.owner, task.ID)
	Expect(err).ToNot(HaveOccurred())
	Expect(first.Completed).To(BeTrue())
	Expect(first.CompletedAt.Equal(completedAt)).To(BeTrue())

	s.clock.Advance(time.Hour)

	second, err := s.UseCase.Complete(ctx, s.owner, task.ID)
	Expect(err).ToNot(HaveOccurred())
	Expect(second.CompletedAt.Equal(completedAt)).To(BeTrue())
	Expect(second.UpdatedAt.Equal(first.UpdatedAt)).To(BeTrue())
}

func (s *TaskUseCaseTestSuite) TestUseCase_Delete() {
	task := s.create(s.owner, "temporary")

	Expect(s.UseCase.Delete(ctx, s.owner, task.ID)).To(Succeed())

	_, err := s.UseCase.Get(ctx, s.owner, task.ID)
	Expect(errors.Is(err, domain.ErrTaskNotFound)).To(BeTrue())

	err = s.UseCase.Delete(ctx, s.owner, task.ID)
	Expect(errors.Is(err, domain.ErrTaskNotFound)).To(BeTrue())
}

type brokenTaskRepo struct {
	port.TaskRepository
}

func (brokenTaskRepo) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	return domain.Task{}, errors.New("disk I/O error")
}

func (brokenTaskRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID, id uuid.UUID) (domain.Task, error) {
	return domain.Task{}, errors.New("disk I/O error")
}

func (s *TaskUseCaseTestSuite) TestUseCase_StoreFailures() {
	svc := service.NewTaskService(brokenTaskRepo{}, s.clock, nil)

	_, err := svc.Create(ctx, s.owner, domain.Task{Title: "x"})
	Expect(domain.KindOf(err)).To(Equal(domain.KindTaskCreation))
	Expect(errors.Unwrap(err)).To(MatchError("disk I/O error"))

	_, err = svc.Get(ctx, s.owner, uuid.New())
	Expect(domain.KindOf(err)).To(Equal(domain.KindInternal))
	Expect(errors.Is(err, domain.ErrTaskNotFound)).To(BeFalse())
}
