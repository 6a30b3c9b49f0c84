package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker/internal/adapter/http/helper"
	"tasktracker/internal/adapter/http/middleware"
	"tasktracker/internal/adapter/http/validation"
	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/model/request"
	"tasktracker/internal/core/model/response"
	"tasktracker/internal/core/port"
)

type UserHandler struct {
	svc port.UserService
}

func NewUserHandler(svc port.UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)

	if !ok {
		helper.SendDomainError(c, domain.NewAuthenticationError(""))
		return
	}

	user, err := h.svc.GetCurrentUser(c.Request.Context(), identity)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, response.NewUserResponse(user))
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)

	if !ok {
		helper.SendDomainError(c, domain.NewAuthenticationError(""))
		return
	}

	var params request.ChangePasswordRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	if err := validation.Validate(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), identity, &params); err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, nil, "Password updated successfully")
}
