package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Persistence adapters return these so services never inspect driver errors.
var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateRecord = errors.New("duplicate record")
)

type ErrorKind string

const (
	KindAuthentication    ErrorKind = "AUTHENTICATION_ERROR"
	KindUserAlreadyExists ErrorKind = "USER_ALREADY_EXISTS"
	KindUserNotFound      ErrorKind = "USER_NOT_FOUND"
	KindInvalidPassword   ErrorKind = "INVALID_PASSWORD"
	KindPasswordMismatch  ErrorKind = "PASSWORD_MISMATCH"
	KindTaskCreation      ErrorKind = "TASK_CREATION_ERROR"
	KindTaskNotFound      ErrorKind = "TODO_NOT_FOUND"
	KindValidation        ErrorKind = "VALIDATION_ERROR"
	KindInternal          ErrorKind = "INTERNAL_ERROR"
)

// Error is the only error type that crosses the service boundary. Message is
// safe to show to a caller; Err keeps the underlying cause for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind so callers can use errors.Is(err, domain.ErrTaskNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.Kind == e.Kind
}

var (
	ErrAuthentication    = &Error{Kind: KindAuthentication, Message: "Could not validate credentials"}
	ErrUserAlreadyExists = &Error{Kind: KindUserAlreadyExists, Message: "User already exists"}
	ErrUserNotFound      = &Error{Kind: KindUserNotFound, Message: "User not found"}
	ErrInvalidPassword   = &Error{Kind: KindInvalidPassword, Message: "Invalid password"}
	ErrPasswordMismatch  = &Error{Kind: KindPasswordMismatch, Message: "Password mismatch"}
	ErrTaskCreation      = &Error{Kind: KindTaskCreation, Message: "Failed to create todo"}
	ErrTaskNotFound      = &Error{Kind: KindTaskNotFound, Message: "Todo not found"}
	ErrValidation        = &Error{Kind: KindValidation, Message: "Invalid request"}
	ErrInternal          = &Error{Kind: KindInternal, Message: "Internal server error"}
)

func NewAuthenticationError(message string) error {
	if message == "" {
		message = ErrAuthentication.Message
	}

	return &Error{Kind: KindAuthentication, Message: message}
}

func NewUserAlreadyExistsError(email string) error {
	return &Error{Kind: KindUserAlreadyExists, Message: fmt.Sprintf("User with email %s already exists", email)}
}

func NewUserNotFoundError(id uuid.UUID) error {
	return &Error{Kind: KindUserNotFound, Message: fmt.Sprintf("User with id %s not found", id)}
}

func NewInvalidPasswordError() error {
	return &Error{Kind: KindInvalidPassword, Message: ErrInvalidPassword.Message}
}

func NewPasswordMismatchError() error {
	return &Error{Kind: KindPasswordMismatch, Message: ErrPasswordMismatch.Message}
}

func NewTaskCreationError(cause error) error {
	return &Error{Kind: KindTaskCreation, Message: ErrTaskCreation.Message, Err: cause}
}

func NewTaskNotFoundError(id uuid.UUID) error {
	return &Error{Kind: KindTaskNotFound, Message: fmt.Sprintf("Todo with id %s not found", id)}
}

// NewValidationError reports caller input the service refuses to act on.
func NewValidationError(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewInternalError(cause error) error {
	return &Error{Kind: KindInternal, Message: ErrInternal.Message, Err: cause}
}

// KindOf reports the kind of err, treating anything outside the taxonomy as internal.
func KindOf(err error) ErrorKind {
	var derr *Error

	if errors.As(err, &derr) {
		return derr.Kind
	}

	return KindInternal
}
