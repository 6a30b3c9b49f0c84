package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker/internal/adapter/http/validation"
	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/model/response"
)

func SendSuccess(c *gin.Context, statusCode int, data any, message ...string) {
	response := response.SuccessResponse{
		Data: data,
	}

	if len(message) > 0 && message[0] != "" {
		response.Message = message[0]
	}

	c.JSON(statusCode, response)
}

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.JSON(statusCode, errorResponse)
}

func SendValidationError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", validation.FormatValidationErrors(err))
}

func SendUnauthorizedError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "auth",
			Message: message,
		},
	}

	c.Header("WWW-Authenticate", "Bearer")
	SendError(c, http.StatusUnauthorized, string(domain.KindAuthentication), errors)
}

// StatusFor maps an error kind to its HTTP status. Unknown errors are internal.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindAuthentication:
		return http.StatusUnauthorized
	case domain.KindUserAlreadyExists,
		domain.KindInvalidPassword,
		domain.KindPasswordMismatch,
		domain.KindTaskCreation,
		domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUserNotFound, domain.KindTaskNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func fieldFor(kind domain.ErrorKind) string {
	switch kind {
	case domain.KindAuthentication:
		return "auth"
	case domain.KindUserAlreadyExists:
		return "email"
	case domain.KindInvalidPassword:
		return "current_password"
	case domain.KindPasswordMismatch:
		return "new_password_confirm"
	case domain.KindUserNotFound, domain.KindTaskNotFound:
		return "resource"
	case domain.KindTaskCreation:
		return "todo"
	case domain.KindValidation:
		return "body"
	default:
		return "server"
	}
}

// SendDomainError renders only the safe message; the wrapped cause never leaves the process.
func SendDomainError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	message := domain.ErrInternal.Message

	var derr *domain.Error
	if errors.As(err, &derr) && kind != domain.KindInternal {
		message = derr.Message
	}

	if kind == domain.KindAuthentication {
		SendUnauthorizedError(c, message)
		return
	}

	errors := []response.ValidationError{
		{
			Field:   fieldFor(kind),
			Message: message,
		},
	}

	SendError(c, StatusFor(kind), string(kind), errors)
}
