package http

import (
	"context"
	"fmt"

	"tasktracker/internal/adapter/database/postgres"
	pgrepository "tasktracker/internal/adapter/database/postgres/repository"
	"tasktracker/internal/adapter/database/sqlite"
	"tasktracker/internal/adapter/database/sqlite/repository"
	"tasktracker/internal/adapter/http/handler"
	"tasktracker/internal/adapter/http/routes"
	"tasktracker/internal/core/port"
	"tasktracker/internal/core/service"
	"tasktracker/internal/core/telemetry"
	"tasktracker/internal/core/util"
	"tasktracker/pkg/auth"
	"tasktracker/pkg/config"
)

type Repositories struct {
	UserRepo port.UserRepository
	TaskRepo port.TaskRepository
	Close    func()
}

// OpenRepositories connects to the configured driver and applies pending migrations.
func OpenRepositories(ctx context.Context, cfg *config.AppConfig, probe port.Telemetry) (Repositories, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.DatabaseURL)

		if err != nil {
			return Repositories{}, err
		}

		return Repositories{
			UserRepo: pgrepository.NewUserRepository(db, probe),
			TaskRepo: pgrepository.NewTaskRepository(db, probe),
			Close:    db.Close,
		}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(sqlite.Options{Path: cfg.DatabasePath, LogLevel: cfg.SQLLogLevel})

		if err != nil {
			return Repositories{}, err
		}

		return Repositories{
			UserRepo: repository.NewUserRepository(db, probe),
			TaskRepo: repository.NewTaskRepository(db, probe),
			Close:    func() { db.Close() },
		}, nil
	default:
		return Repositories{}, fmt.Errorf("unsupported database driver: %s", cfg.DatabaseDriver)
	}
}

type Container struct {
	UserRepo port.UserRepository
	TaskRepo port.TaskRepository

	AuthUseCase port.AuthService
	UserUseCase port.UserService
	TaskUseCase port.TaskService

	AuthHandler *handler.AuthHandler
	UserHandler *handler.UserHandler
	TaskHandler *handler.TaskHandler
}

func NewContainer(repos Repositories, cfg *config.AppConfig, clock port.Clock, logger *config.LokiLogger, probe port.Telemetry) (*Container, error) {
	probe = telemetry.OrNoOp(probe)

	tokens, err := auth.NewJWT(cfg.TokenConfig(), clock)

	if err != nil {
		return nil, err
	}

	hasher := util.NewBcryptHasher(cfg.PasswordHashCost)

	authSvc := service.NewAuthService(repos.UserRepo, tokens, hasher, clock, cfg.AccessTokenTTL(), probe)
	userSvc := service.NewUserService(repos.UserRepo, hasher, clock, probe)
	taskSvc := service.NewTaskService(repos.TaskRepo, clock, probe)

	return &Container{
		UserRepo: repos.UserRepo,
		TaskRepo: repos.TaskRepo,

		AuthUseCase: authSvc,
		UserUseCase: userSvc,
		TaskUseCase: taskSvc,

		AuthHandler: handler.NewAuthHandler(authSvc, logger),
		UserHandler: handler.NewUserHandler(userSvc),
		TaskHandler: handler.NewTaskHandler(taskSvc, logger),
	}, nil
}

func (c *Container) Handlers() routes.HandlersConfig {
	return routes.HandlersConfig{
		AuthHandler: c.AuthHandler,
		UserHandler: c.UserHandler,
		TaskHandler: c.TaskHandler,
		Resolver:    c.AuthUseCase,
	}
}
