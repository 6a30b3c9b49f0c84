package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tasktracker/internal/adapter/http/helper"
	"tasktracker/internal/adapter/http/validation"
	"tasktracker/internal/core/model/request"
	"tasktracker/internal/core/model/response"
	"tasktracker/internal/core/port"
	"tasktracker/pkg/config"
)

type AuthHandler struct {
	svc    port.AuthService
	Logger *config.LokiLogger
}

func NewAuthHandler(svc port.AuthService, logger *config.LokiLogger) *AuthHandler {
	if logger == nil {
		logger = config.NewNopLokiLogger()
	}

	return &AuthHandler{
		svc:    svc,
		Logger: logger,
	}
}

func (a *AuthHandler) RegisterByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	var params request.SignUpRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	if err := validation.Validate(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	user, err := a.svc.Registration(ctx, &params)

	if err != nil {
		a.Logger.WarnWithTrace(ctx, "Registration failed", zap.Error(err))
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusCreated, response.NewUserResponse(user))
}

// AuthByEmailAndPassword accepts a JSON body or the OAuth2 password form.
func (a *AuthHandler) AuthByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	var params request.LoginRequest

	if err := c.ShouldBind(&params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	if err := validation.Validate(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	token, err := a.svc.Login(ctx, &params)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.TokenResponse{
		AccessToken: token.Value,
		TokenType:   token.Type,
	})
}
