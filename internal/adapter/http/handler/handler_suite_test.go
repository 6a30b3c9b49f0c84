package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"tasktracker/internal/adapter/database/sqlite"
	"tasktracker/internal/adapter/database/sqlite/repository"
	"tasktracker/internal/adapter/http/handler"
	"tasktracker/internal/adapter/http/routes"
	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/port"
	"tasktracker/internal/core/service"
	"tasktracker/internal/core/telemetry"
	"tasktracker/internal/core/util"
	"tasktracker/pkg/auth"
	"tasktracker/pkg/test"
	"tasktracker/pkg/test/factory"
)

var ctx = context.Background()

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code   string `json:"code"`
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

// HandlerSuite wires the real services over an in-memory database.
type HandlerSuite struct {
	suite.Suite
	DB       *sqlite.DB
	Clock    *test.FixedClock
	Tokens   *auth.JWT
	UserRepo port.UserRepository
	TaskRepo port.TaskRepository
	Router   *gin.Engine
}

func (s *HandlerSuite) SetupTest() {
	s.DB = test.InitTestDB()
	s.Clock = test.NewFixedClock(time.Now())

	probe := telemetry.NewNoOpProbe()
	s.UserRepo = repository.NewUserRepository(s.DB, probe)
	s.TaskRepo = repository.NewTaskRepository(s.DB, probe)

	tokens, err := auth.NewJWT(auth.TokenConfig{Secret: "test-secret", Algorithm: "HS256", TTL: 30 * time.Minute}, s.Clock)
	s.Require().NoError(err)
	s.Tokens = tokens

	hasher := util.NewBcryptHasher(bcrypt.MinCost)

	authSvc := service.NewAuthService(s.UserRepo, tokens, hasher, s.Clock, 30*time.Minute, probe)
	userSvc := service.NewUserService(s.UserRepo, hasher, s.Clock, probe)
	taskSvc := service.NewTaskService(s.TaskRepo, s.Clock, probe)

	s.Router = routes.SetupRouterForTests(routes.HandlersConfig{
		AuthHandler: handler.NewAuthHandler(authSvc, nil),
		UserHandler: handler.NewUserHandler(userSvc),
		TaskHandler: handler.NewTaskHandler(taskSvc, nil),
		Resolver:    authSvc,
	})
}

func (s *HandlerSuite) TearDownTest() {
	s.DB.Close()
}

func (s *HandlerSuite) createUser(overrides ...map[string]any) domain.User {
	user, err := s.UserRepo.Create(ctx, factory.NewUser(overrides...))
	s.Require().NoError(err)

	return user
}

func (s *HandlerSuite) tokenFor(user domain.User) string {
	token, err := s.Tokens.Issue(user.ID, user.Email, 30*time.Minute)
	s.Require().NoError(err)

	return token
}

func (s *HandlerSuite) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var payload bytes.Buffer

	if body != nil {
		s.Require().NoError(json.NewEncoder(&payload).Encode(body))
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	return w
}

func (s *HandlerSuite) decode(w *httptest.ResponseRecorder, data any) envelope {
	var body envelope
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))

	if data != nil {
		s.Require().NoError(json.Unmarshal(body.Data, data))
	}

	return body
}
